package common

import "github.com/nspcc-dev/neo-go/pkg/interop"

// IsPrincipal checks that p is well-formed caller identity.
func IsPrincipal(p interop.Hash160) bool {
	return len(p) == interop.Hash160Len
}

// IsOwner reports whether caller is the recorded owner of an entity. It is the
// only authorization rule of the ledgers: entities are mutated by their authors.
func IsOwner(caller, owner interop.Hash160) bool {
	return caller.Equals(owner)
}

// RequireOwner returns successful Result if caller is the recorded owner and
// failed Result with CodeUnauthorized otherwise.
func RequireOwner(caller, owner interop.Hash160) Result {
	if !IsOwner(caller, owner) {
		return Fail(CodeUnauthorized)
	}

	return Ok(nil)
}
