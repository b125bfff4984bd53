package oracle

import (
	"bytes"
	"sort"
)

// AuthorizationManager decides whether a principal may mutate the oracle and
// whether mutation is globally suspended. It is not safe for concurrent use;
// the state machine serializes access to it.
type AuthorizationManager struct {
	owner    Address
	updaters map[Address]struct{}
	paused   bool
}

// NewAuthorizationManager returns a manager owned by owner with no authorized
// updaters, not paused.
func NewAuthorizationManager(owner Address) AuthorizationManager {
	return AuthorizationManager{
		owner:    owner,
		updaters: make(map[Address]struct{}),
	}
}

// Owner returns the owner.
func (a *AuthorizationManager) Owner() Address {
	return a.owner
}

// Paused returns whether updates are suspended.
func (a *AuthorizationManager) Paused() bool {
	return a.paused
}

// IsAuthorized returns true iff caller is the owner or an authorized updater.
func (a *AuthorizationManager) IsAuthorized(caller Address) bool {
	if caller == a.owner {
		return true
	}
	_, ok := a.updaters[caller]
	return ok
}

func (a *AuthorizationManager) requireOwner(caller Address) error {
	if caller != a.owner {
		return ErrNotOwner
	}
	return nil
}

// AddAuthorizedUpdater authorizes target. Re-adding a member is a no-op.
func (a *AuthorizationManager) AddAuthorizedUpdater(caller, target Address) error {
	if err := a.requireOwner(caller); err != nil {
		return err
	}
	if isZero(target) {
		return ErrZeroPrincipal
	}
	a.updaters[target] = struct{}{}
	return nil
}

// RemoveAuthorizedUpdater revokes target. Removing a non-member is a no-op.
// The owner stays authorized regardless.
func (a *AuthorizationManager) RemoveAuthorizedUpdater(caller, target Address) error {
	if err := a.requireOwner(caller); err != nil {
		return err
	}
	delete(a.updaters, target)
	return nil
}

// Pause suspends updates. Pausing a paused oracle succeeds.
func (a *AuthorizationManager) Pause(caller Address) error {
	if err := a.requireOwner(caller); err != nil {
		return err
	}
	a.paused = true
	return nil
}

// Unpause resumes updates. Unpausing an active oracle succeeds.
func (a *AuthorizationManager) Unpause(caller Address) error {
	if err := a.requireOwner(caller); err != nil {
		return err
	}
	a.paused = false
	return nil
}

// Updaters returns the explicitly authorized updaters in byte order. The
// owner is only included if it was added explicitly.
func (a *AuthorizationManager) Updaters() []Address {
	res := make([]Address, 0, len(a.updaters))
	for u := range a.updaters {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i][:], res[j][:]) < 0
	})
	return res
}

func (a *AuthorizationManager) clone() AuthorizationManager {
	c := AuthorizationManager{
		owner:    a.owner,
		updaters: make(map[Address]struct{}, len(a.updaters)),
		paused:   a.paused,
	}
	for u := range a.updaters {
		c.updaters[u] = struct{}{}
	}
	return c
}
