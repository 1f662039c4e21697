// Package guard decides whether a requested view may render for the current
// session, and where to redirect otherwise. The policy is pure: it returns a
// navigation decision and never performs the jump itself.
package guard

import "github.com/arvachan/solestore/internal/models"

// SessionState is the guard's view of the session state machine.
type SessionState int

const (
	// StateLoading means restoration or a profile fetch is outstanding.
	StateLoading SessionState = iota
	// StateUnauthenticated means no identity is present.
	StateUnauthenticated
	// StateCustomer means an authenticated non-admin session.
	StateCustomer
	// StateAdmin means an authenticated admin session.
	StateAdmin
)

// Views the policy redirects to.
const (
	// AuthView is the authentication entry point.
	AuthView = "/auth"
	// DefaultView is the landing view for every authenticated role.
	DefaultView = "/"
)

// Requirements are the per-view gate parameters.
type Requirements struct {
	// RequireAuth gates the view behind an authenticated session.
	RequireAuth bool `json:"require_auth"`
	// AdminOnly additionally restricts the view to admins.
	AdminOnly bool `json:"admin_only"`
}

// Decision is the navigation intent produced by an evaluation. The caller
// applies it; the guard never touches a navigation surface.
type Decision struct {
	// Redirect is false when the requested view should render unchanged.
	Redirect bool `json:"redirect"`
	// Target is the redirect destination, empty when Redirect is false.
	Target string `json:"target,omitempty"`
}

// Stay renders the requested view unchanged.
func Stay() Decision { return Decision{} }

// RedirectTo sends the visitor to target instead.
func RedirectTo(target string) Decision { return Decision{Redirect: true, Target: target} }

// StateFor maps session service output onto a guard state. An identity whose
// profile has not resolved yet counts as loading, never as signed out or
// signed in.
func StateFor(loading bool, id *models.Identity, profile *models.Profile) SessionState {
	switch {
	case loading || (id != nil && profile == nil):
		return StateLoading
	case id == nil:
		return StateUnauthenticated
	case profile.Role == models.RoleAdmin:
		return StateAdmin
	default:
		return StateCustomer
	}
}

// Evaluate applies the gate policy for a view at currentPath with the given
// requirements. Rule order is fixed:
//
//  1. loading: render the placeholder, no redirect
//  2. requireAuth and unauthenticated: redirect to the auth view
//  3. adminOnly and role is not admin: redirect to the default view
//  4. authenticated on the auth view: redirect to the default view
//  5. otherwise: stay
//
// An authenticated non-admin on an admin-only view therefore lands on the
// default view, never on the auth view. Evaluation is pure, so repeating it
// with unchanged inputs yields the same decision and cannot loop: every
// redirect target evaluates to Stay for the state that produced it.
func Evaluate(state SessionState, req Requirements, currentPath string) Decision {
	if state == StateLoading {
		return Stay()
	}

	if req.RequireAuth && state == StateUnauthenticated {
		return RedirectTo(AuthView)
	}

	if req.AdminOnly && state != StateAdmin {
		return RedirectTo(DefaultView)
	}

	authenticated := state == StateCustomer || state == StateAdmin
	if authenticated && currentPath == AuthView {
		return RedirectTo(DefaultView)
	}

	return Stay()
}
