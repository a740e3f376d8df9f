// Package bountytest provides neotest helpers deploying bounty contracts to
// the in-memory blockchain.
package bountytest

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nspcc-dev/bounty-contract/rpc/outcome"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// Contracts groups addresses of the deployed bounty contracts.
type Contracts struct {
	Problem    util.Uint160
	Solution   util.Uint160
	Reputation util.Uint160
}

// NewExecutor returns executor over the new single-node blockchain.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// ContractDir returns path to the directory with the named contract source.
func ContractDir(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", name)
}

// Compile compiles the named contract with the committee as a sender.
func Compile(t testing.TB, e *neotest.Executor, name string) *neotest.Contract {
	dir := ContractDir(name)
	return neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))
}

// DeployProblem deploys Problem contract and returns its address.
func DeployProblem(t testing.TB, e *neotest.Executor) util.Uint160 {
	c := Compile(t, e, "problem")
	e.DeployContract(t, c, nil)
	return c.Hash
}

// DeploySolution deploys Solution contract bound to the given Problem contract
// and returns its address.
func DeploySolution(t testing.TB, e *neotest.Executor, problem util.Uint160) util.Uint160 {
	c := Compile(t, e, "solution")
	e.DeployContract(t, c, []any{problem})
	return c.Hash
}

// DeployReputation deploys Reputation contract and returns its address.
func DeployReputation(t testing.TB, e *neotest.Executor) util.Uint160 {
	c := Compile(t, e, "reputation")
	e.DeployContract(t, c, nil)
	return c.Hash
}

// DeployAll deploys all bounty contracts.
func DeployAll(t testing.TB, e *neotest.Executor) Contracts {
	var res Contracts

	res.Problem = DeployProblem(t, e)
	res.Solution = DeploySolution(t, e, res.Problem)
	res.Reputation = DeployReputation(t, e)

	return res
}

// Invoke sends transaction calling the method and returns decoded result of
// the persisted call.
func Invoke(t testing.TB, inv *neotest.ContractInvoker, method string, args ...any) *outcome.Outcome {
	tx := inv.PrepareInvoke(t, method, args...)
	inv.AddNewBlock(t, tx)
	aer := inv.CheckHalt(t, tx.Hash())

	res, err := outcome.FromStack(aer.Stack)
	require.NoError(t, err)

	return res
}

// Call test-invokes the method and returns decoded result without sending any
// transaction.
func Call(t testing.TB, inv *neotest.ContractInvoker, method string, args ...any) *outcome.Outcome {
	stack, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)

	res := new(outcome.Outcome)
	require.NoError(t, res.FromStackItem(stack.Pop().Item()))

	return res
}

// Int returns integer value of the item.
func Int(t testing.TB, item stackitem.Item) int64 {
	v, err := item.TryInteger()
	require.NoError(t, err)
	require.True(t, v.IsInt64())

	return v.Int64()
}
