// Package outcome decodes Result structures returned by the bounty contracts.
package outcome

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// Numeric codes of failed contract calls.
const (
	CodeInvalidInput = 400
	CodeUnauthorized = 403
	CodeNotFound     = 404
)

var (
	// ErrInvalidInput is matched by failures with CodeInvalidInput.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is matched by failures with CodeUnauthorized.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is matched by failures with CodeNotFound.
	ErrNotFound = errors.New("not found")
)

// Error is a failure reported by the contract in the Result structure. Use
// errors.Is with ErrInvalidInput, ErrUnauthorized or ErrNotFound to branch on
// the code.
type Error struct {
	Code int64
}

// Error implements error interface.
func (e *Error) Error() string {
	if s := e.sentinel(); s != nil {
		return fmt.Sprintf("contract call failed with code %d: %s", e.Code, s)
	}
	return fmt.Sprintf("contract call failed with code %d", e.Code)
}

// Is checks whether target is a sentinel error corresponding to the code.
func (e *Error) Is(target error) bool {
	s := e.sentinel()
	return s != nil && s == target
}

func (e *Error) sentinel() error {
	switch e.Code {
	case CodeInvalidInput:
		return ErrInvalidInput
	case CodeUnauthorized:
		return ErrUnauthorized
	case CodeNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Outcome is a decoded Result structure.
type Outcome struct {
	Success bool
	// Value is a method-specific result, Null for methods without one.
	Value stackitem.Item
	// Code is zero for successful results.
	Code int64
}

// FromStackItem retrieves fields of Outcome from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (o *Outcome) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	o.Success, err = arr[0].TryBool()
	if err != nil {
		return fmt.Errorf("field Success: %w", err)
	}

	o.Value = arr[1]

	code, err := arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Error: %w", err)
	}
	if !code.IsInt64() {
		return errors.New("field Error: code overflows int64")
	}
	o.Code = code.Int64()

	return nil
}

// Err returns nil for successful outcomes and *Error otherwise.
func (o *Outcome) Err() error {
	if o.Success {
		return nil
	}
	return &Error{Code: o.Code}
}

// Unwrap decodes Result structure from the item and returns its value. It is
// designed to be chained with unwrap.Item, failed results are returned as *Error.
func Unwrap(item stackitem.Item, err error) (stackitem.Item, error) {
	if err != nil {
		return nil, err
	}

	var o Outcome
	err = o.FromStackItem(item)
	if err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	err = o.Err()
	if err != nil {
		return nil, err
	}

	return o.Value, nil
}

// FromStack decodes Result structure from the resulting stack of the
// contract method invocation.
func FromStack(stack []stackitem.Item) (*Outcome, error) {
	if len(stack) != 1 {
		return nil, fmt.Errorf("unexpected stack length %d", len(stack))
	}

	o := new(Outcome)
	err := o.FromStackItem(stack[0])
	if err != nil {
		return nil, err
	}

	return o, nil
}

// FromApplicationLog decodes Result structure of the transaction executing
// single contract method. Faulted transactions are returned as errors.
func FromApplicationLog(log *result.ApplicationLog) (*Outcome, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}
	if len(log.Executions) == 0 {
		return nil, errors.New("no executions in application log")
	}

	ex := log.Executions[0]
	if ex.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction failed with %s: %s", ex.VMState, ex.FaultException)
	}

	return FromStack(ex.Stack)
}
