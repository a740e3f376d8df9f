package deploy

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testChain accepts every transaction and persists it in the next block.
type testChain struct {
	// methods not used by Deploy are left unimplemented
	actor.RPCActor

	height   uint32
	fault    bool
	deployed map[util.Uint160]struct{}
	sent     []*transaction.Transaction
}

func newTestChain() *testChain {
	return &testChain{deployed: make(map[util.Uint160]struct{})}
}

// Context makes testChain satisfy actor.RPCPollingWaiter.
func (x *testChain) Context() context.Context {
	return context.Background()
}

func (x *testChain) GetVersion() (*result.Version, error) {
	return &result.Version{
		Protocol: result.Protocol{
			Network:                     netmode.UnitTestNet,
			MillisecondsPerBlock:        20,
			MaxValidUntilBlockIncrement: 100,
		},
	}, nil
}

func (x *testChain) InvokeScript(script []byte, _ []transaction.Signer) (*result.Invoke, error) {
	return &result.Invoke{State: vmstate.Halt.String(), GasConsumed: 1000, Script: script}, nil
}

func (x *testChain) CalculateNetworkFee(*transaction.Transaction) (int64, error) {
	return 1000, nil
}

// GetBlockCount produces new block on each call.
func (x *testChain) GetBlockCount() (uint32, error) {
	x.height++
	return x.height, nil
}

func (x *testChain) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	x.sent = append(x.sent, tx)
	return tx.Hash(), nil
}

func (x *testChain) GetApplicationLog(h util.Uint256, _ *trigger.Type) (*result.ApplicationLog, error) {
	for _, tx := range x.sent {
		if !tx.Hash().Equals(h) {
			continue
		}

		ex := state.Execution{Trigger: trigger.Application, VMState: vmstate.Halt}
		if x.fault {
			ex.VMState = vmstate.Fault
			ex.FaultException = "deploy failed"
		}

		return &result.ApplicationLog{Container: h, IsTransaction: true, Executions: []state.Execution{ex}}, nil
	}

	return nil, errors.New("unknown transaction")
}

func (x *testChain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	if _, ok := x.deployed[h]; ok {
		return &state.Contract{ContractBase: state.ContractBase{Hash: h}}, nil
	}

	return nil, errors.New("unknown contract")
}

func anyContract(tb testing.TB, name string) CommonDeployPrm {
	_nef, err := nef.NewFile([]byte(name))
	require.NoError(tb, err)

	return CommonDeployPrm{
		NEF:      *_nef,
		Manifest: *manifest.NewManifest(name),
	}
}

func newPrm(t *testing.T, b Blockchain) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	return Prm{
		Logger:             zaptest.NewLogger(t),
		Blockchain:         b,
		LocalAccount:       acc,
		ProblemContract:    anyContract(t, "Bounty Problem Registry"),
		SolutionContract:   anyContract(t, "Bounty Solution Ledger"),
		ReputationContract: anyContract(t, "Bounty Reputation"),
	}
}

func TestDeployMissingAccount(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{})
	require.ErrorIs(t, err, errMissingLocalAccount)
}

func TestContractAddress(t *testing.T) {
	var c CommonDeployPrm
	c.NEF.Checksum = 42
	c.Manifest.Name = "Bounty Problem Registry"

	sender := util.Uint160{1, 2, 3}

	addr := ContractAddress(sender, c)
	require.Equal(t, addr, ContractAddress(sender, c))
	require.NotEqual(t, addr, ContractAddress(util.Uint160{3, 2, 1}, c))

	c.Manifest.Name = "Bounty Solution Ledger"
	require.NotEqual(t, addr, ContractAddress(sender, c))
}

func TestDeploy(t *testing.T) {
	b := newTestChain()
	prm := newPrm(t, b)
	sender := prm.LocalAccount.ScriptHash()

	addrs, err := Deploy(context.Background(), prm)
	require.NoError(t, err)

	require.Equal(t, ContractAddress(sender, prm.ProblemContract), addrs.Problem)
	require.Equal(t, ContractAddress(sender, prm.SolutionContract), addrs.Solution)
	require.Equal(t, ContractAddress(sender, prm.ReputationContract), addrs.Reputation)

	require.Len(t, b.sent, 3)
	require.False(t, bytes.Contains(b.sent[0].Script, addrs.Problem.BytesBE()))
	require.True(t, bytes.Contains(b.sent[1].Script, addrs.Problem.BytesBE()),
		"solution contract must be deployed with problem contract address")

	t.Run("repeated", func(t *testing.T) {
		for _, h := range []util.Uint160{addrs.Problem, addrs.Solution, addrs.Reputation} {
			b.deployed[h] = struct{}{}
		}

		again, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, addrs, again)
		require.Len(t, b.sent, 3)
	})

	t.Run("partially deployed", func(t *testing.T) {
		b := newTestChain()
		b.deployed[ContractAddress(sender, prm.ProblemContract)] = struct{}{}

		prm := prm
		prm.Blockchain = b

		again, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, addrs, again)
		require.Len(t, b.sent, 2)
	})
}

func TestDeployFault(t *testing.T) {
	b := newTestChain()
	b.fault = true

	_, err := Deploy(context.Background(), newPrm(t, b))
	require.ErrorContains(t, err, "deploy failed")
	require.Len(t, b.sent, 1)
}

func TestDeployContextDone(t *testing.T) {
	b := newTestChain()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Deploy(ctx, newPrm(t, b))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, b.sent)
}
