// Package guard decides what an established session may reach.
//
// The gate state is a pure projection of the session snapshot, so it can
// be re-evaluated on every store notification without caching concerns.
package guard

import "github.com/me/hrpulse/internal/session"

// State is the observable gate state.
type State string

const (
	// StateLoading means the session store has not finished Init; no
	// navigation decision may be made yet.
	StateLoading State = "loading"
	// StateUnauthenticated forces the login flow.
	StateUnauthenticated State = "unauthenticated"
	// StatePending is authenticated but awaiting administrator approval.
	StatePending State = "pending_approval"
	// StateAllowed grants access to the requested view.
	StateAllowed State = "allowed"
)

// Evaluate projects a session snapshot onto a gate state. Loading wins
// over everything; then authentication; then approval.
func Evaluate(s session.State) State {
	switch {
	case s.Loading:
		return StateLoading
	case !s.Authenticated:
		return StateUnauthenticated
	case !s.Approved:
		return StatePending
	default:
		return StateAllowed
	}
}

// Target names where a denied navigation is sent instead.
type Target string

const (
	TargetLogin   Target = "login"
	TargetPending Target = "pending-approval"
)

// Decision is the routing outcome for one evaluation.
type Decision struct {
	Allow    bool
	Redirect Target // set only when Allow is false and the gate settled
	Waiting  bool   // still loading; render a placeholder, navigate nowhere
}

// Decide maps a gate state to its routing policy.
func Decide(s State) Decision {
	switch s {
	case StateLoading:
		return Decision{Waiting: true}
	case StateUnauthenticated:
		return Decision{Redirect: TargetLogin}
	case StatePending:
		return Decision{Redirect: TargetPending}
	default:
		return Decision{Allow: true}
	}
}
