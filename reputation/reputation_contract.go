package reputation

import (
	"github.com/nspcc-dev/bounty-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Reputation is a standing of the contributor.
type Reputation struct {
	Score int
}

const reputationPrefix = 'r'

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("reputation contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("reputation contract updated")
}

// UpdateReputation adds points to the score of the user. Points can be
// negative (penalties) or zero. It can be invoked only by committee which
// applies reputation policies of the problem and solution lifecycle.
func UpdateReputation(user interop.Hash160, points int) common.Result {
	common.CheckCommitteeWitness()

	if !common.IsPrincipal(user) {
		return common.Fail(common.CodeInvalidInput)
	}

	if points == 0 {
		return common.Ok(nil)
	}

	ctx := storage.GetContext()

	rep := getReputation(ctx, user)
	rep.Score = rep.Score + points
	common.SetSerialized(ctx, reputationKey(user), rep)

	runtime.Notify("ReputationUpdated", user, points, rep.Score)

	return common.Ok(nil)
}

// GetReputation returns Reputation structure of the user as the Result value.
// Users without any recorded points have zero score.
func GetReputation(user interop.Hash160) common.Result {
	return common.Ok(getReputation(storage.GetReadOnlyContext(), user))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getReputation(ctx storage.Context, user interop.Hash160) Reputation {
	data := storage.Get(ctx, reputationKey(user))
	if data == nil {
		return Reputation{Score: 0}
	}

	return std.Deserialize(data.([]byte)).(Reputation)
}

func reputationKey(user interop.Hash160) []byte {
	return append([]byte{reputationPrefix}, user...)
}
