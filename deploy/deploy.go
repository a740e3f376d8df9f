package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for bounty contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. Missing contract is reported as an error.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// GetApplicationLog returns execution results of the persisted transaction.
	// Transactions which are not persisted yet are reported as an error. It
	// makes actor.Actor wait for transactions by polling.
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the bounty contracts deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract addresses depend on it.
	LocalAccount *wallet.Account

	ProblemContract    CommonDeployPrm
	SolutionContract   CommonDeployPrm
	ReputationContract CommonDeployPrm
}

// Addresses groups on-chain addresses of the deployed bounty contracts.
type Addresses struct {
	Problem    util.Uint160
	Solution   util.Uint160
	Reputation util.Uint160
}

var errMissingLocalAccount = errors.New("missing local account")

// Deploy deploys Problem, Solution and Reputation contracts to the blockchain
// in that order. Solution contract is deployed with the Problem contract
// address. Contracts already present at the expected addresses are left as is,
// so Deploy can be safely repeated after failures.
//
// Deploy waits for each deploying transaction to be persisted and aborts on
// the first failure. The context is checked before each contract.
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	var res Addresses

	if prm.LocalAccount == nil {
		return res, errMissingLocalAccount
	}
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	d := deployer{
		Prm:    prm,
		act:    act,
		mgmt:   management.New(act),
		sender: prm.LocalAccount.ScriptHash(),
	}

	res.Problem, err = d.sync(ctx, "problem", prm.ProblemContract, nil)
	if err != nil {
		return res, err
	}

	res.Solution, err = d.sync(ctx, "solution", prm.SolutionContract, []any{res.Problem})
	if err != nil {
		return res, err
	}

	res.Reputation, err = d.sync(ctx, "reputation", prm.ReputationContract, nil)
	if err != nil {
		return res, err
	}

	return res, nil
}

// ContractAddress returns the address the contract gets when it is deployed
// by the sender.
func ContractAddress(sender util.Uint160, c CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, c.NEF.Checksum, c.Manifest.Name)
}

type deployer struct {
	Prm

	act    *actor.Actor
	mgmt   *management.Contract
	sender util.Uint160
}

func (d *deployer) sync(ctx context.Context, name string, c CommonDeployPrm, data any) (util.Uint160, error) {
	l := d.Logger.With(zap.String("contract", name))
	addr := ContractAddress(d.sender, c)

	err := ctx.Err()
	if err != nil {
		return addr, err
	}

	_, err = d.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		l.Info("contract is already deployed, skip", zap.Stringer("address", addr))
		return addr, nil
	}

	l.Info("deploying contract...", zap.Stringer("address", addr))

	res, err := d.act.Wait(d.mgmt.Deploy(&c.NEF, &c.Manifest, data))
	if err != nil {
		return addr, fmt.Errorf("deploy %s contract: %w", name, err)
	}

	if res.VMState != vmstate.Halt {
		return addr, fmt.Errorf("transaction %s deploying %s contract failed with %s: %s",
			res.Container, name, res.VMState, res.FaultException)
	}

	l.Info("contract successfully deployed", zap.Stringer("address", addr))

	return addr, nil
}
