/*
Package contracts reads compiled bounty contracts from the file system.

Every contract is expected in its own directory named after the source
package (problem, solution, reputation) holding the contract.nef and
manifest.json files produced by the neo-go compiler.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	problemDir    = "problem"
	solutionDir   = "solution"
	reputationDir = "reputation"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set groups all bounty contracts.
type Set struct {
	Problem    Contract
	Solution   Contract
	Reputation Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// Read reads all bounty contracts from the given file system, e.g. the one
// returned by os.DirFS.
func Read(_fs fs.FS) (Set, error) {
	var (
		res Set
		err error
	)

	for _, c := range []struct {
		dir string
		dst *Contract
	}{
		{problemDir, &res.Problem},
		{solutionDir, &res.Solution},
		{reputationDir, &res.Reputation},
	} {
		*c.dst, err = readContractFromDir(_fs, c.dir)
		if err != nil {
			return res, fmt.Errorf("read contract %s: %w", c.dir, err)
		}
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths always use "/", so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}
