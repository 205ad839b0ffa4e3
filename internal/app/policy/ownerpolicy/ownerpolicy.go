// internal/app/policy/ownerpolicy/ownerpolicy.go
package ownerpolicy

import (
	"github.com/dalemusser/converge/internal/app/system/regerr"
)

// Guard decides whether a caller may mutate the registry.
// Exactly one identity, fixed when the Guard is built, is allowed to write.
// Reads never consult the Guard.
type Guard struct {
	owner string
}

// New records owner as the only identity allowed to mutate.
func New(owner string) Guard {
	return Guard{owner: owner}
}

// Owner returns the identity recorded at construction.
func (g Guard) Owner() string {
	return g.owner
}

// Authorize returns nil when caller is the owner and an Unauthorized registry
// error otherwise. op names the operation being gated and is only used in the
// error message.
func (g Guard) Authorize(op, caller string) error {
	if !g.IsOwner(caller) {
		return regerr.New(regerr.Unauthorized, op, caller)
	}
	return nil
}

// IsOwner reports whether caller is the owner.
func (g Guard) IsOwner(caller string) bool {
	return caller == g.owner
}
