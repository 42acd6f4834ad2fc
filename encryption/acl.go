package encryption

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ACL is the decrypt-permission table of a backend. One principal, the owner,
// holds an implicit grant on every counter; it is the engine itself, which
// needs to decrypt during reveal. Everyone else must be granted per counter.
type ACL struct {
	owner  common.Address
	mu     sync.RWMutex
	grants map[string]map[common.Address]struct{}
}

// NewACL creates an ACL with the given owner principal.
func NewACL(owner common.Address) *ACL {
	return &ACL{
		owner:  owner,
		grants: make(map[string]map[common.Address]struct{}),
	}
}

// Grant records decrypt permission for principal on the counter. Granting is
// idempotent and permissions are never revoked.
func (a *ACL) Grant(counterID string, principal common.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()
	set, ok := a.grants[counterID]
	if !ok {
		set = make(map[common.Address]struct{})
		a.grants[counterID] = set
	}
	set[principal] = struct{}{}
}

// Allowed reports whether principal may decrypt the counter.
func (a *ACL) Allowed(counterID string, principal common.Address) bool {
	if principal == a.owner {
		return true
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.grants[counterID][principal]
	return ok
}

// Owner returns the principal holding the implicit grant.
func (a *ACL) Owner() common.Address {
	return a.owner
}
