package reputation

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func TestContractReader_GetReputation(t *testing.T) {
	ti := &testInv{res: &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
			stackitem.NewBool(true),
			stackitem.NewStruct([]stackitem.Item{stackitem.Make(-5)}),
			stackitem.Make(0),
		})},
	}}

	rep, err := NewReader(ti, util.Uint160{1}).GetReputation(util.Uint160{2})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(-5), rep.Score)
}

func TestReputationUpdatedEventsFromApplicationLog(t *testing.T) {
	user := util.Uint160{1, 2}
	evs, err := ReputationUpdatedEventsFromApplicationLog(&result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{{
				Name: "ReputationUpdated",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(user), stackitem.Make(-5), stackitem.Make(5),
				}),
			}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, user, evs[0].User)
	require.EqualValues(t, -5, evs[0].Points.Int64())
	require.EqualValues(t, 5, evs[0].Score.Int64())

	_, err = ReputationUpdatedEventsFromApplicationLog(&result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{{
				Name: "ReputationUpdated",
				Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}),
			}},
		}},
	})
	require.Error(t, err)
}
