// Package guard decides whether a navigation target is reachable for the
// current session. It is a pure function of (session state, claims, required
// roles); navigation itself is the caller's concern.
package guard

import (
	"github.com/ajay-verma30/Neil-admin-sub000/pkg/console/session"
)

// Outcome tells the caller what to do with the requested destination.
type Outcome int

const (
	// OutcomeLoading means the session is still settling; render a neutral
	// loading state and make no redirect decision yet.
	OutcomeLoading Outcome = iota
	// OutcomeRender means the destination is reachable.
	OutcomeRender
	// OutcomeRedirect means navigation must go to Decision.Target instead.
	OutcomeRedirect
)

// Redirect targets.
const (
	TargetLogin        = "/login"
	TargetUnauthorized = "/unauthorized"
)

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Evaluate gates a destination that requires one of the given roles. An
// empty role set admits any authenticated user.
func Evaluate(state session.State, claims session.Claims, authenticated bool, requiredRoles []string) Decision {
	switch state {
	case session.StateInitializing, session.StateAuthenticating:
		return Decision{Outcome: OutcomeLoading}
	}

	if !authenticated {
		return Decision{Outcome: OutcomeRedirect, Target: TargetLogin}
	}

	if len(requiredRoles) == 0 {
		return Decision{Outcome: OutcomeRender}
	}
	for _, role := range requiredRoles {
		if claims.Role == role {
			return Decision{Outcome: OutcomeRender}
		}
	}
	return Decision{Outcome: OutcomeRedirect, Target: TargetUnauthorized}
}

// EvaluateSession is a convenience over Evaluate for a live manager.
func EvaluateSession(m *session.Manager, requiredRoles ...string) Decision {
	claims, ok := m.Claims()
	return Evaluate(m.State(), claims, ok, requiredRoles)
}
