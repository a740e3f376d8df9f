package outcome

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

func resultItem(success bool, value stackitem.Item, code int64) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewBool(success),
		value,
		stackitem.NewBigInteger(big.NewInt(code)),
	})
}

func TestOutcome_FromStackItem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var o Outcome
		require.NoError(t, o.FromStackItem(resultItem(true, stackitem.Make(7), 0)))
		require.True(t, o.Success)
		require.NoError(t, o.Err())

		v, err := o.Value.TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, 7, v.Int64())
	})

	t.Run("failure", func(t *testing.T) {
		var o Outcome
		require.NoError(t, o.FromStackItem(resultItem(false, stackitem.Null{}, CodeUnauthorized)))
		require.False(t, o.Success)
		require.ErrorIs(t, o.Err(), ErrUnauthorized)
		require.NotErrorIs(t, o.Err(), ErrNotFound)
	})

	t.Run("invalid", func(t *testing.T) {
		var o Outcome
		require.Error(t, o.FromStackItem(stackitem.Make(1)))
		require.Error(t, o.FromStackItem(stackitem.NewArray([]stackitem.Item{stackitem.NewBool(true)})))
		require.Error(t, o.FromStackItem(stackitem.NewArray([]stackitem.Item{
			stackitem.NewBool(true), stackitem.Null{}, stackitem.NewArray(nil),
		})))
	})
}

func TestError(t *testing.T) {
	for code, target := range map[int64]error{
		CodeInvalidInput: ErrInvalidInput,
		CodeUnauthorized: ErrUnauthorized,
		CodeNotFound:     ErrNotFound,
	} {
		err := error(&Error{Code: code})
		require.ErrorIs(t, err, target)
		require.Contains(t, err.Error(), target.Error())
	}

	err := &Error{Code: 500}
	require.False(t, errors.Is(err, ErrInvalidInput))
	require.False(t, errors.Is(err, ErrUnauthorized))
	require.False(t, errors.Is(err, ErrNotFound))

	var e *Error
	require.True(t, errors.As(error(err), &e))
	require.EqualValues(t, 500, e.Code)
}

func TestUnwrap(t *testing.T) {
	v, err := Unwrap(resultItem(true, stackitem.Make("value"), 0), nil)
	require.NoError(t, err)
	require.Equal(t, stackitem.Make("value"), v)

	_, err = Unwrap(resultItem(false, stackitem.Null{}, CodeNotFound), nil)
	require.ErrorIs(t, err, ErrNotFound)

	someErr := errors.New("rpc failure")
	_, err = Unwrap(nil, someErr)
	require.ErrorIs(t, err, someErr)

	_, err = Unwrap(stackitem.Make(1), nil)
	require.Error(t, err)
}

func TestFromApplicationLog(t *testing.T) {
	_, err := FromApplicationLog(nil)
	require.Error(t, err)

	_, err = FromApplicationLog(&result.ApplicationLog{})
	require.Error(t, err)

	_, err = FromApplicationLog(&result.ApplicationLog{
		Executions: []state.Execution{{
			VMState:        vmstate.Fault,
			FaultException: "witness check failed",
		}},
	})
	require.ErrorContains(t, err, "witness check failed")

	o, err := FromApplicationLog(&result.ApplicationLog{
		Executions: []state.Execution{{
			VMState: vmstate.Halt,
			Stack:   []stackitem.Item{resultItem(false, stackitem.Null{}, CodeInvalidInput)},
		}},
	})
	require.NoError(t, err)
	require.ErrorIs(t, o.Err(), ErrInvalidInput)

	_, err = FromStack(nil)
	require.Error(t, err)
}
