// Package problem contains RPC wrappers for Bounty Problem Registry contract.
package problem

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/bounty-contract/problem/problemconst"
	"github.com/nspcc-dev/bounty-contract/rpc/outcome"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Problem is a contract-specific problem.Problem type used by its methods.
type Problem struct {
	ID          *big.Int
	Title       string
	Description string
	Bounty      *big.Int
	Submitter   util.Uint160
	Status      problemconst.Status
}

// ProblemSubmittedEvent represents "ProblemSubmitted" event emitted by the contract.
type ProblemSubmittedEvent struct {
	ID        *big.Int
	Submitter util.Uint160
	Bounty    *big.Int
}

// BountyUpdatedEvent represents "BountyUpdated" event emitted by the contract.
type BountyUpdatedEvent struct {
	ID     *big.Int
	Bounty *big.Int
}

// ProblemClosedEvent represents "ProblemClosed" event emitted by the contract.
type ProblemClosedEvent struct {
	ID *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetProblem invokes `getProblem` method of contract. Missing problem is
// reported as error matching [outcome.ErrNotFound].
func (c *ContractReader) GetProblem(problemID *big.Int) (*Problem, error) {
	return itemToProblem(outcome.Unwrap(unwrap.Item(c.invoker.Call(c.hash, "getProblem", problemID))))
}

// ListProblems invokes `listProblems` method of contract.
func (c *ContractReader) ListProblems() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listProblems"))
}

// ListProblemsExpanded is similar to ListProblems (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
// Use ProblemsFromItems to decode the result.
func (c *ContractReader) ListProblemsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listProblems", _numOfIteratorItems))
}

// ProblemCount invokes `problemCount` method of contract.
func (c *ContractReader) ProblemCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "problemCount"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CloseProblem creates a transaction invoking `closeProblem` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CloseProblem(caller util.Uint160, problemID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "closeProblem", caller, problemID)
}

// CloseProblemTransaction creates a transaction invoking `closeProblem` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CloseProblemTransaction(caller util.Uint160, problemID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "closeProblem", caller, problemID)
}

// CloseProblemUnsigned creates a transaction invoking `closeProblem` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CloseProblemUnsigned(caller util.Uint160, problemID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "closeProblem", nil, caller, problemID)
}

// SubmitProblem creates a transaction invoking `submitProblem` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitProblem(caller util.Uint160, title string, description string, bounty *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitProblem", caller, title, description, bounty)
}

// SubmitProblemTransaction creates a transaction invoking `submitProblem` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitProblemTransaction(caller util.Uint160, title string, description string, bounty *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitProblem", caller, title, description, bounty)
}

// SubmitProblemUnsigned creates a transaction invoking `submitProblem` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitProblemUnsigned(caller util.Uint160, title string, description string, bounty *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitProblem", nil, caller, title, description, bounty)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// UpdateBounty creates a transaction invoking `updateBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateBounty(caller util.Uint160, problemID *big.Int, newBounty *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateBounty", caller, problemID, newBounty)
}

// UpdateBountyTransaction creates a transaction invoking `updateBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateBountyTransaction(caller util.Uint160, problemID *big.Int, newBounty *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateBounty", caller, problemID, newBounty)
}

// UpdateBountyUnsigned creates a transaction invoking `updateBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateBountyUnsigned(caller util.Uint160, problemID *big.Int, newBounty *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateBounty", nil, caller, problemID, newBounty)
}

// itemToProblem converts stack item into *Problem.
func itemToProblem(item stackitem.Item, err error) (*Problem, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Problem)
	err = res.FromStackItem(item)
	return res, err
}

// ProblemsFromItems converts items returned by ListProblemsExpanded or
// traversed from ListProblems iterator into Problem structures.
func ProblemsFromItems(items []stackitem.Item) ([]*Problem, error) {
	res := make([]*Problem, 0, len(items))
	for i := range items {
		p, err := itemToProblem(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res = append(res, p)
	}
	return res, nil
}

// FromStackItem retrieves fields of Problem from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Problem) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Title, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.Description, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.Bounty, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Bounty: %w", err)
	}

	index++
	res.Submitter, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Submitter: %w", err)
	}

	index++
	status, err := arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	if !status.IsInt64() {
		return errors.New("field Status: not an int64")
	}
	res.Status = problemconst.Status(status.Int64())

	return nil
}

// ProblemSubmittedEventsFromApplicationLog retrieves a set of all emitted events
// with "ProblemSubmitted" name from the provided [result.ApplicationLog].
func ProblemSubmittedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ProblemSubmittedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ProblemSubmittedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ProblemSubmitted" {
				continue
			}
			event := new(ProblemSubmittedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ProblemSubmittedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ProblemSubmittedEvent or
// returns an error if it's not possible to do to so.
func (e *ProblemSubmittedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Submitter, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Submitter: %w", err)
	}

	index++
	e.Bounty, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Bounty: %w", err)
	}

	return nil
}

// BountyUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "BountyUpdated" name from the provided [result.ApplicationLog].
func BountyUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BountyUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BountyUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BountyUpdated" {
				continue
			}
			event := new(BountyUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BountyUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BountyUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *BountyUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	e.Bounty, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Bounty: %w", err)
	}

	return nil
}

// ProblemClosedEventsFromApplicationLog retrieves a set of all emitted events
// with "ProblemClosed" name from the provided [result.ApplicationLog].
func ProblemClosedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ProblemClosedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ProblemClosedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ProblemClosed" {
				continue
			}
			event := new(ProblemClosedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ProblemClosedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ProblemClosedEvent or
// returns an error if it's not possible to do to so.
func (e *ProblemClosedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	return nil
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
