package problem

import (
	"github.com/nspcc-dev/bounty-contract/common"
	"github.com/nspcc-dev/bounty-contract/problem/problemconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Problem is a bounty-backed task published by its submitter.
type Problem struct {
	ID          int
	Title       string
	Description string
	Bounty      int
	Submitter   interop.Hash160
	Status      problemconst.Status
}

const (
	counterKey    = 'n'
	problemPrefix = 'p'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("problem contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("problem contract updated")
}

// SubmitProblem registers a new open problem on behalf of the caller and
// returns its identifier as the Result value. Title and description must be
// non-empty and fit the problemconst limits, bounty must be non-negative.
func SubmitProblem(caller interop.Hash160, title, description string, bounty int) common.Result {
	if !common.IsPrincipal(caller) {
		return common.Fail(common.CodeInvalidInput)
	}

	common.CheckWitness(caller)

	if len(title) == 0 || len(title) > problemconst.MaxTitleLength ||
		len(description) == 0 || len(description) > problemconst.MaxDescriptionLength ||
		bounty < 0 {
		return common.Fail(common.CodeInvalidInput)
	}

	ctx := storage.GetContext()

	id := common.NextID(ctx, []byte{counterKey})
	common.SetSerialized(ctx, problemKey(id), Problem{
		ID:          id,
		Title:       title,
		Description: description,
		Bounty:      bounty,
		Submitter:   caller,
		Status:      problemconst.Open,
	})

	runtime.Notify("ProblemSubmitted", id, caller, bounty)

	return common.Ok(id)
}

// UpdateBounty replaces bounty of the problem. Only the problem submitter
// can do it, new bounty must be non-negative.
func UpdateBounty(caller interop.Hash160, problemID int, newBounty int) common.Result {
	if !common.IsPrincipal(caller) {
		return common.Fail(common.CodeInvalidInput)
	}

	common.CheckWitness(caller)

	ctx := storage.GetContext()

	p, ok := getProblem(ctx, problemID)
	if !ok {
		return common.Fail(common.CodeNotFound)
	}

	res := common.RequireOwner(caller, p.Submitter)
	if !res.Success {
		return res
	}

	if newBounty < 0 {
		return common.Fail(common.CodeInvalidInput)
	}

	p.Bounty = newBounty
	common.SetSerialized(ctx, problemKey(problemID), p)

	runtime.Notify("BountyUpdated", problemID, newBounty)

	return common.Ok(nil)
}

// CloseProblem moves the problem to the closed state. Only the problem
// submitter can do it. Closing of the closed problem does nothing.
func CloseProblem(caller interop.Hash160, problemID int) common.Result {
	if !common.IsPrincipal(caller) {
		return common.Fail(common.CodeInvalidInput)
	}

	common.CheckWitness(caller)

	ctx := storage.GetContext()

	p, ok := getProblem(ctx, problemID)
	if !ok {
		return common.Fail(common.CodeNotFound)
	}

	res := common.RequireOwner(caller, p.Submitter)
	if !res.Success {
		return res
	}

	if p.Status == problemconst.Closed {
		return common.Ok(nil)
	}

	p.Status = problemconst.Closed
	common.SetSerialized(ctx, problemKey(problemID), p)

	runtime.Notify("ProblemClosed", problemID)

	return common.Ok(nil)
}

// GetProblem returns Problem structure with the given identifier as the
// Result value.
func GetProblem(problemID int) common.Result {
	p, ok := getProblem(storage.GetReadOnlyContext(), problemID)
	if !ok {
		return common.Fail(common.CodeNotFound)
	}

	return common.Ok(p)
}

// ProblemCount returns the number of problems submitted so far. It is also
// the identifier of the latest problem.
func ProblemCount() int {
	return common.CurrentID(storage.GetReadOnlyContext(), []byte{counterKey})
}

// ListProblems returns iterator over all submitted Problem structures. Order
// of the problems is not specified.
func ListProblems() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{problemPrefix}, storage.ValuesOnly|storage.DeserializeValues)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getProblem(ctx storage.Context, id int) (Problem, bool) {
	data := storage.Get(ctx, problemKey(id))
	if data == nil {
		return Problem{}, false
	}

	return std.Deserialize(data.([]byte)).(Problem), true
}

func problemKey(id int) []byte {
	return append([]byte{problemPrefix}, convert.ToBytes(id)...)
}
