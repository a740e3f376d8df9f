// Package solution contains RPC wrappers for Bounty Solution Ledger contract.
package solution

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/bounty-contract/rpc/outcome"
	"github.com/nspcc-dev/bounty-contract/solution/solutionconst"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Solution is a contract-specific solution.Solution type used by its methods.
type Solution struct {
	ID          *big.Int
	ProblemID   *big.Int
	Content     string
	Version     *big.Int
	Contributor util.Uint160
	Status      solutionconst.Status
}

// SolutionSubmittedEvent represents "SolutionSubmitted" event emitted by the contract.
type SolutionSubmittedEvent struct {
	ID          *big.Int
	ProblemID   *big.Int
	Contributor util.Uint160
}

// SolutionUpdatedEvent represents "SolutionUpdated" event emitted by the contract.
type SolutionUpdatedEvent struct {
	ID      *big.Int
	Version *big.Int
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

// GetProblemSolutions invokes `getProblemSolutions` method of contract.
// Identifiers are returned in submission order, traverse the iterator and
// decode them with ItemsToIDs.
func (c *ContractReader) GetProblemSolutions(problemID *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "getProblemSolutions", problemID))
}

// GetProblemSolutionsExpanded is similar to GetProblemSolutions (uses the same
// contract method), but can be useful if the server used doesn't support
// sessions and doesn't expand iterators. It creates a script that will get the
// specified number of result items from the iterator right in the VM and
// return them to you. It's only limited by VM stack and GAS available for RPC
// invocations.
func (c *ContractReader) GetProblemSolutionsExpanded(problemID *big.Int, _numOfIteratorItems int) ([]*big.Int, error) {
	return ItemsToIDs(unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "getProblemSolutions", _numOfIteratorItems, problemID)))
}

// GetSolution invokes `getSolution` method of contract. Missing solution is
// reported as error matching [outcome.ErrNotFound].
func (c *ContractReader) GetSolution(solutionID *big.Int) (*Solution, error) {
	return itemToSolution(outcome.Unwrap(unwrap.Item(c.invoker.Call(c.hash, "getSolution", solutionID))))
}

// ProblemContract invokes `problemContract` method of contract.
func (c *ContractReader) ProblemContract() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "problemContract"))
}

// SolutionCount invokes `solutionCount` method of contract.
func (c *ContractReader) SolutionCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "solutionCount"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SubmitSolution creates a transaction invoking `submitSolution` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitSolution(caller util.Uint160, problemID *big.Int, content string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitSolution", caller, problemID, content)
}

// SubmitSolutionTransaction creates a transaction invoking `submitSolution` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitSolutionTransaction(caller util.Uint160, problemID *big.Int, content string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitSolution", caller, problemID, content)
}

// SubmitSolutionUnsigned creates a transaction invoking `submitSolution` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitSolutionUnsigned(caller util.Uint160, problemID *big.Int, content string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitSolution", nil, caller, problemID, content)
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

// UpdateSolution creates a transaction invoking `updateSolution` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateSolution(caller util.Uint160, solutionID *big.Int, newContent string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateSolution", caller, solutionID, newContent)
}

// UpdateSolutionTransaction creates a transaction invoking `updateSolution` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateSolutionTransaction(caller util.Uint160, solutionID *big.Int, newContent string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateSolution", caller, solutionID, newContent)
}

// UpdateSolutionUnsigned creates a transaction invoking `updateSolution` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateSolutionUnsigned(caller util.Uint160, solutionID *big.Int, newContent string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateSolution", nil, caller, solutionID, newContent)
}

// ItemsToIDs converts items returned by GetProblemSolutionsExpanded or
// traversed from GetProblemSolutions iterator into solution identifiers.
func ItemsToIDs(items []stackitem.Item, err error) ([]*big.Int, error) {
	if err != nil {
		return nil, err
	}
	res := make([]*big.Int, len(items))
	for i := range items {
		res[i], err = items[i].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// itemToSolution converts stack item into *Solution.
func itemToSolution(item stackitem.Item, err error) (*Solution, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Solution)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Solution from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Solution) FromStackItem(item stackitem.Item) error {
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
	res.ProblemID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ProblemID: %w", err)
	}

	index++
	res.Content, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Content: %w", err)
	}

	index++
	res.Version, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Version: %w", err)
	}

	index++
	res.Contributor, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Contributor: %w", err)
	}

	index++
	status, err := arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	if !status.IsInt64() {
		return errors.New("field Status: not an int64")
	}
	res.Status = solutionconst.Status(status.Int64())

	return nil
}

// SolutionSubmittedEventsFromApplicationLog retrieves a set of all emitted events
// with "SolutionSubmitted" name from the provided [result.ApplicationLog].
func SolutionSubmittedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SolutionSubmittedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SolutionSubmittedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "SolutionSubmitted" {
				continue
			}
			event := new(SolutionSubmittedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SolutionSubmittedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SolutionSubmittedEvent or
// returns an error if it's not possible to do to so.
func (e *SolutionSubmittedEvent) FromStackItem(item *stackitem.Array) error {
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

	var err error
	e.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	e.ProblemID, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field ProblemID: %w", err)
	}

	e.Contributor, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Contributor: %w", err)
	}

	return nil
}

// SolutionUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "SolutionUpdated" name from the provided [result.ApplicationLog].
func SolutionUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SolutionUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SolutionUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "SolutionUpdated" {
				continue
			}
			event := new(SolutionUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SolutionUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SolutionUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *SolutionUpdatedEvent) FromStackItem(item *stackitem.Array) error {
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

	e.Version, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Version: %w", err)
	}

	return nil
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
