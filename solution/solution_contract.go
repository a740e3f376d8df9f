package solution

import (
	"github.com/nspcc-dev/bounty-contract/common"
	"github.com/nspcc-dev/bounty-contract/solution/solutionconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Solution is a revisable answer to the problem published by its contributor.
type Solution struct {
	ID          int
	ProblemID   int
	Content     string
	Version     int
	Contributor interop.Hash160
	Status      solutionconst.Status
}

const (
	problemContractKey = 'a'
	counterKey         = 'n'
	solutionPrefix     = 's'
	problemIndexPrefix = 'l'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	args := data.([]any)

	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if len(args) < 1 {
		panic("missing problem contract address")
	}

	addrProblem := args[0].(interop.Hash160)
	if len(addrProblem) != interop.Hash160Len {
		panic("incorrect length of problem contract address")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, []byte{problemContractKey}, addrProblem)

	runtime.Log("solution contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("solution contract updated")
}

// SubmitSolution registers a new solution of the existing problem on behalf of
// the caller and returns its identifier as the Result value. Problem existence
// is checked in the Problem contract set on deployment.
func SubmitSolution(caller interop.Hash160, problemID int, content string) common.Result {
	if !common.IsPrincipal(caller) {
		return common.Fail(common.CodeInvalidInput)
	}

	common.CheckWitness(caller)

	ctx := storage.GetContext()

	if !problemExists(ctx, problemID) {
		return common.Fail(common.CodeNotFound)
	}

	if !validContent(content) {
		return common.Fail(common.CodeInvalidInput)
	}

	id := common.NextID(ctx, []byte{counterKey})
	common.SetSerialized(ctx, solutionKey(id), Solution{
		ID:          id,
		ProblemID:   problemID,
		Content:     content,
		Version:     1,
		Contributor: caller,
		Status:      solutionconst.Submitted,
	})

	storage.Put(ctx, problemIndexKey(problemID, id), id)

	runtime.Notify("SolutionSubmitted", id, problemID, caller)

	return common.Ok(id)
}

// UpdateSolution replaces content of the solution and increments its version.
// Only the solution contributor can do it.
func UpdateSolution(caller interop.Hash160, solutionID int, newContent string) common.Result {
	if !common.IsPrincipal(caller) {
		return common.Fail(common.CodeInvalidInput)
	}

	common.CheckWitness(caller)

	ctx := storage.GetContext()

	s, ok := getSolution(ctx, solutionID)
	if !ok {
		return common.Fail(common.CodeNotFound)
	}

	res := common.RequireOwner(caller, s.Contributor)
	if !res.Success {
		return res
	}

	if !validContent(newContent) {
		return common.Fail(common.CodeInvalidInput)
	}

	s.Content = newContent
	s.Version = s.Version + 1
	s.Status = solutionconst.Updated
	common.SetSerialized(ctx, solutionKey(solutionID), s)

	runtime.Notify("SolutionUpdated", solutionID, s.Version)

	return common.Ok(nil)
}

// GetSolution returns Solution structure with the given identifier as the
// Result value.
func GetSolution(solutionID int) common.Result {
	s, ok := getSolution(storage.GetReadOnlyContext(), solutionID)
	if !ok {
		return common.Fail(common.CodeNotFound)
	}

	return common.Ok(s)
}

// GetProblemSolutions returns iterator over identifiers of the solutions
// submitted for the problem in submission order. Unknown problem has no
// solutions.
func GetProblemSolutions(problemID int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, problemSolutionsPrefix(problemID), storage.ValuesOnly)
}

// SolutionCount returns the number of solutions submitted so far. It is also
// the identifier of the latest solution.
func SolutionCount() int {
	return common.CurrentID(storage.GetReadOnlyContext(), []byte{counterKey})
}

// ProblemContract returns the address of the Problem contract solutions refer to.
func ProblemContract() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), []byte{problemContractKey}).(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func problemExists(ctx storage.Context, problemID int) bool {
	addrProblem := storage.Get(ctx, []byte{problemContractKey}).(interop.Hash160)
	res := contract.Call(addrProblem, "getProblem", contract.ReadOnly, problemID).(common.Result)

	return res.Success
}

func validContent(content string) bool {
	return len(content) > 0 && len(content) <= solutionconst.MaxContentLength
}

func getSolution(ctx storage.Context, id int) (Solution, bool) {
	data := storage.Get(ctx, solutionKey(id))
	if data == nil {
		return Solution{}, false
	}

	return std.Deserialize(data.([]byte)).(Solution), true
}

func solutionKey(id int) []byte {
	return append([]byte{solutionPrefix}, convert.ToBytes(id)...)
}

func problemSolutionsPrefix(problemID int) []byte {
	return append([]byte{problemIndexPrefix}, common.OrderedIDKey(problemID)...)
}

func problemIndexKey(problemID, solutionID int) []byte {
	return append(problemSolutionsPrefix(problemID), common.OrderedIDKey(solutionID)...)
}
