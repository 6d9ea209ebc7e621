// Package guard makes role-based access decisions for protected views.
package guard

import (
	"github.com/safaltravel/marketctl/session"
	"github.com/safaltravel/marketctl/users"
)

// Outcome classifies an access decision.
type Outcome int

const (
	// Wait means the session is still restoring; render a neutral waiting
	// state and do not redirect.
	Wait Outcome = iota
	// Allow means the wrapped content may render.
	Allow
	// Redirect means the caller must navigate to Decision.Target and render
	// nothing further.
	Redirect
)

// Decision is the result of evaluating a snapshot against required roles.
type Decision struct {
	Outcome Outcome
	Target  string // set only for Redirect
}

// Evaluate applies the access rules for a protected view. requiredRoles
// empty means any authenticated role. It is a pure function of its inputs;
// callers re-evaluate whenever the snapshot or the required roles change.
func Evaluate(snap session.Snapshot, requiredRoles ...users.Role) Decision {
	if snap.Loading {
		return Decision{Outcome: Wait}
	}
	if snap.User == nil {
		return Decision{Outcome: Redirect, Target: RouteLogin}
	}
	if !snap.User.HasRole(requiredRoles...) {
		return Decision{Outcome: Redirect, Target: LandingRoute(snap.User.Role)}
	}
	return Decision{Outcome: Allow}
}
