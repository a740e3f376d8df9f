package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nspcc-dev/bounty-contract/contracts"
	"github.com/nspcc-dev/bounty-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the NEP-6 wallet with the deploying account")
	accAddress := flag.String("address", "", "Address of the deploying account (default: wallet change address)")
	password := flag.String("password", "", "Password of the deploying account")
	contractsDir := flag.String("contracts", "", "Directory with compiled problem, solution and reputation contracts")
	timeout := flag.Duration("timeout", 5*time.Minute, "Deployment timeout")
	debug := flag.Bool("debug", false, "Enable debug logs")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing wallet path")
	case *contractsDir == "":
		log.Fatal("missing contracts directory")
	}

	logCfg := zap.NewProductionConfig()
	if *debug {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := logCfg.Build()
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	addrs, err := _deploy(ctx, logger, *neoRPCEndpoint, *walletPath, *accAddress, *password, *contractsDir)
	if err != nil {
		logger.Fatal("deployment failed", zap.Error(err))
	}

	logger.Info("bounty contracts are successfully deployed",
		zap.String("problem", addrs.Problem.StringLE()),
		zap.String("solution", addrs.Solution.StringLE()),
		zap.String("reputation", addrs.Reputation.StringLE()),
	)
}

func _deploy(ctx context.Context, logger *zap.Logger, endpoint, walletPath, accAddress, password, contractsDir string) (deploy.Addresses, error) {
	var res deploy.Addresses

	acc, err := openAccount(walletPath, accAddress, password)
	if err != nil {
		return res, err
	}

	set, err := contracts.Read(os.DirFS(contractsDir))
	if err != nil {
		return res, fmt.Errorf("read compiled contracts: %w", err)
	}

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return res, fmt.Errorf("RPC client dial: %w", err)
	}
	defer c.Close()

	err = c.Init()
	if err != nil {
		return res, fmt.Errorf("init RPC client: %w", err)
	}

	return deploy.Deploy(ctx, deploy.Prm{
		Logger:       logger,
		Blockchain:   c,
		LocalAccount: acc,
		ProblemContract: deploy.CommonDeployPrm{
			NEF:      set.Problem.NEF,
			Manifest: set.Problem.Manifest,
		},
		SolutionContract: deploy.CommonDeployPrm{
			NEF:      set.Solution.NEF,
			Manifest: set.Solution.Manifest,
		},
		ReputationContract: deploy.CommonDeployPrm{
			NEF:      set.Reputation.NEF,
			Manifest: set.Reputation.Manifest,
		},
	})
}

// openAccount reads the wallet and decrypts the account with the given address
// or the wallet change account if address is empty.
func openAccount(walletPath, accAddress, password string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var addr util.Uint160
	if accAddress != "" {
		addr, err = address.StringToUint160(accAddress)
		if err != nil {
			return nil, fmt.Errorf("decode account address: %w", err)
		}
	} else {
		addr = w.GetChangeAddress()
	}

	acc := w.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address.Uint160ToString(addr))
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}
