package problem_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nspcc-dev/bounty-contract/common"
	"github.com/nspcc-dev/bounty-contract/internal/bountytest"
	"github.com/nspcc-dev/bounty-contract/problem/problemconst"
	rpcproblem "github.com/nspcc-dev/bounty-contract/rpc/problem"
	"github.com/nspcc-dev/bounty-contract/rpc/outcome"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func newProblemInvoker(t *testing.T) *neotest.ContractInvoker {
	e := bountytest.NewExecutor(t)
	return e.CommitteeInvoker(bountytest.DeployProblem(t, e))
}

func getProblem(t *testing.T, inv *neotest.ContractInvoker, id int64) *rpcproblem.Problem {
	res := bountytest.Call(t, inv, "getProblem", id)
	require.NoError(t, res.Err())

	var p rpcproblem.Problem
	require.NoError(t, p.FromStackItem(res.Value))

	return &p
}

func submitProblem(t *testing.T, inv *neotest.ContractInvoker, caller util.Uint160, bounty int64) int64 {
	res := bountytest.Invoke(t, inv, "submitProblem", caller, "Sort", "Sort an array in O(n log n)", bounty)
	require.NoError(t, res.Err())

	return bountytest.Int(t, res.Value)
}

func TestProblem_Submit(t *testing.T) {
	c := newProblemInvoker(t)

	acc := c.NewAccount(t)
	inv := c.WithSigners(acc)

	id := submitProblem(t, inv, acc.ScriptHash(), 1000)
	require.EqualValues(t, 1, id)

	p := getProblem(t, c, id)
	require.EqualValues(t, 1, p.ID.Int64())
	require.Equal(t, "Sort", p.Title)
	require.Equal(t, "Sort an array in O(n log n)", p.Description)
	require.EqualValues(t, 1000, p.Bounty.Int64())
	require.Equal(t, acc.ScriptHash(), p.Submitter)
	require.Equal(t, problemconst.Open, p.Status)

	t.Run("invalid input", func(t *testing.T) {
		for _, tc := range []struct {
			name        string
			caller      any
			title       string
			description string
			bounty      int64
		}{
			{name: "malformed caller", caller: []byte{1, 2, 3}, title: "t", description: "d"},
			{name: "empty title", caller: acc.ScriptHash(), description: "d"},
			{name: "empty description", caller: acc.ScriptHash(), title: "t"},
			{name: "negative bounty", caller: acc.ScriptHash(), title: "t", description: "d", bounty: -1},
			{
				name:        "oversized title",
				caller:      acc.ScriptHash(),
				title:       strings.Repeat("t", problemconst.MaxTitleLength+1),
				description: "d",
			},
			{
				name:        "oversized description",
				caller:      acc.ScriptHash(),
				title:       "t",
				description: strings.Repeat("d", problemconst.MaxDescriptionLength+1),
			},
		} {
			res := bountytest.Invoke(t, inv, "submitProblem", tc.caller, tc.title, tc.description, tc.bounty)
			require.ErrorIs(t, res.Err(), outcome.ErrInvalidInput, tc.name)
		}

		// failed submissions allocate no identifiers
		require.EqualValues(t, 2, submitProblem(t, inv, acc.ScriptHash(), 0))
	})

	t.Run("witness", func(t *testing.T) {
		other := c.NewAccount(t)
		inv.InvokeFail(t, common.ErrWitnessFailed, "submitProblem", other.ScriptHash(), "t", "d", 1)
	})

	t.Run("not idempotent", func(t *testing.T) {
		a := submitProblem(t, inv, acc.ScriptHash(), 5)
		b := submitProblem(t, inv, acc.ScriptHash(), 5)
		require.NotEqual(t, a, b)
	})
}

func TestProblem_SubmitEvent(t *testing.T) {
	c := newProblemInvoker(t)

	acc := c.NewAccount(t)
	inv := c.WithSigners(acc)

	tx := inv.PrepareInvoke(t, "submitProblem", acc.ScriptHash(), "t", "d", 42)
	inv.AddNewBlock(t, tx)
	aer := inv.CheckHalt(t, tx.Hash())

	require.Len(t, aer.Events, 1)
	require.Equal(t, "ProblemSubmitted", aer.Events[0].Name)

	var ev rpcproblem.ProblemSubmittedEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.EqualValues(t, 1, ev.ID.Int64())
	require.Equal(t, acc.ScriptHash(), ev.Submitter)
	require.EqualValues(t, 42, ev.Bounty.Int64())
}

func TestProblem_UpdateBounty(t *testing.T) {
	c := newProblemInvoker(t)

	owner := c.NewAccount(t)
	stranger := c.NewAccount(t)
	ownerInv := c.WithSigners(owner)
	strangerInv := c.WithSigners(stranger)

	id := submitProblem(t, ownerInv, owner.ScriptHash(), 1000)

	res := bountytest.Invoke(t, ownerInv, "updateBounty", owner.ScriptHash(), id, 1500)
	require.NoError(t, res.Err())
	require.EqualValues(t, 1500, getProblem(t, c, id).Bounty.Int64())

	res = bountytest.Invoke(t, strangerInv, "updateBounty", stranger.ScriptHash(), id, 2000)
	require.ErrorIs(t, res.Err(), outcome.ErrUnauthorized)
	require.EqualValues(t, 1500, getProblem(t, c, id).Bounty.Int64())

	res = bountytest.Invoke(t, ownerInv, "updateBounty", owner.ScriptHash(), id, -1)
	require.ErrorIs(t, res.Err(), outcome.ErrInvalidInput)
	require.EqualValues(t, 1500, getProblem(t, c, id).Bounty.Int64())

	res = bountytest.Invoke(t, ownerInv, "updateBounty", owner.ScriptHash(), id+1, 1)
	require.ErrorIs(t, res.Err(), outcome.ErrNotFound)

	t.Run("missing problem is checked before ownership", func(t *testing.T) {
		res := bountytest.Invoke(t, strangerInv, "updateBounty", stranger.ScriptHash(), 100, -1)
		require.ErrorIs(t, res.Err(), outcome.ErrNotFound)
	})

	t.Run("ownership is checked before bounty", func(t *testing.T) {
		res := bountytest.Invoke(t, strangerInv, "updateBounty", stranger.ScriptHash(), id, -1)
		require.ErrorIs(t, res.Err(), outcome.ErrUnauthorized)
	})

	t.Run("witness", func(t *testing.T) {
		strangerInv.InvokeFail(t, common.ErrWitnessFailed, "updateBounty", owner.ScriptHash(), id, 0)
		require.EqualValues(t, 1500, getProblem(t, c, id).Bounty.Int64())
	})
}

func TestProblem_Close(t *testing.T) {
	c := newProblemInvoker(t)

	owner := c.NewAccount(t)
	stranger := c.NewAccount(t)
	ownerInv := c.WithSigners(owner)

	id := submitProblem(t, ownerInv, owner.ScriptHash(), 10)

	res := bountytest.Invoke(t, c.WithSigners(stranger), "closeProblem", stranger.ScriptHash(), id)
	require.ErrorIs(t, res.Err(), outcome.ErrUnauthorized)
	require.Equal(t, problemconst.Open, getProblem(t, c, id).Status)

	res = bountytest.Invoke(t, ownerInv, "closeProblem", owner.ScriptHash(), id+1)
	require.ErrorIs(t, res.Err(), outcome.ErrNotFound)

	tx := ownerInv.PrepareInvoke(t, "closeProblem", owner.ScriptHash(), id)
	ownerInv.AddNewBlock(t, tx)
	aer := ownerInv.CheckHalt(t, tx.Hash())
	require.Len(t, aer.Events, 1)
	require.Equal(t, "ProblemClosed", aer.Events[0].Name)
	require.Equal(t, problemconst.Closed, getProblem(t, c, id).Status)

	t.Run("repeated", func(t *testing.T) {
		tx := ownerInv.PrepareInvoke(t, "closeProblem", owner.ScriptHash(), id)
		ownerInv.AddNewBlock(t, tx)
		aer := ownerInv.CheckHalt(t, tx.Hash())
		require.Empty(t, aer.Events)
		require.Equal(t, problemconst.Closed, getProblem(t, c, id).Status)
	})

	t.Run("bounty of closed problem", func(t *testing.T) {
		res := bountytest.Invoke(t, ownerInv, "updateBounty", owner.ScriptHash(), id, 20)
		require.NoError(t, res.Err())
		require.EqualValues(t, 20, getProblem(t, c, id).Bounty.Int64())
	})
}

func TestProblem_Get(t *testing.T) {
	c := newProblemInvoker(t)

	res := bountytest.Call(t, c, "getProblem", 1)
	require.ErrorIs(t, res.Err(), outcome.ErrNotFound)

	acc := c.NewAccount(t)
	id := submitProblem(t, c.WithSigners(acc), acc.ScriptHash(), 7)

	require.Equal(t, getProblem(t, c, id), getProblem(t, c, id))
}

func TestProblem_CountAndList(t *testing.T) {
	c := newProblemInvoker(t)

	stack, err := c.TestInvoke(t, "problemCount")
	require.NoError(t, err)
	require.Zero(t, bountytest.Int(t, stack.Pop().Item()))

	acc := c.NewAccount(t)
	inv := c.WithSigners(acc)

	const n = 3
	for i := 0; i < n; i++ {
		submitProblem(t, inv, acc.ScriptHash(), int64(i))
	}

	stack, err = c.TestInvoke(t, "problemCount")
	require.NoError(t, err)
	require.EqualValues(t, n, bountytest.Int(t, stack.Pop().Item()))

	stack, err = c.TestInvoke(t, "listProblems")
	require.NoError(t, err)

	iter := stack.Pop().Value().(*storage.Iterator)
	var items []stackitem.Item
	for iter.Next() {
		items = append(items, iter.Value())
	}

	problems, err := rpcproblem.ProblemsFromItems(items)
	require.NoError(t, err)
	require.Len(t, problems, n)

	bounties := make(map[int64]int64, n)
	for _, p := range problems {
		bounties[p.ID.Int64()] = p.Bounty.Int64()
	}
	require.Equal(t, map[int64]int64{1: 0, 2: 1, 3: 2}, bounties)
}

func TestProblem_Version(t *testing.T) {
	c := newProblemInvoker(t)
	c.Invoke(t, common.Version, "version")
}

func TestProblem_Update(t *testing.T) {
	e := bountytest.NewExecutor(t)
	ctr := bountytest.Compile(t, e, "problem")
	e.DeployContract(t, ctr, nil)

	c := e.CommitteeInvoker(ctr.Hash)

	rawNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	c.WithSigners(c.NewAccount(t)).InvokeFail(t, "only committee can update contract",
		"update", rawNEF, rawManifest, nil)
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}
