// Package guard decides whether a navigation target may render for the
// current session state. It is pure: no I/O, no clock, no session reads
// beyond the snapshot it is handed.
package guard

import "github.com/spec-kit/hiredesk-session/internal/domain"

// RouteClass tags a route's authorization requirement. The classification
// is static configuration, not derived state.
type RouteClass string

const (
	// Public renders for everyone.
	Public RouteClass = "PUBLIC"
	// ProtectedForAuthenticated requires a session (e.g. the profile page).
	ProtectedForAuthenticated RouteClass = "PROTECTED_AUTHENTICATED"
	// ProtectedForUnauthenticated is public-only (e.g. signin and signup
	// pages); an authenticated user is bounced to their profile.
	ProtectedForUnauthenticated RouteClass = "PROTECTED_UNAUTHENTICATED"
	// Unconditional always renders regardless of session state.
	Unconditional RouteClass = "UNCONDITIONAL"
)

// Decision is the guard's verdict: render, or redirect elsewhere.
type Decision struct {
	Redirect string
}

// Render reports whether the route may render in place.
func (d Decision) Render() bool {
	return d.Redirect == ""
}

func render() Decision {
	return Decision{}
}

func redirectTo(path string) Decision {
	return Decision{Redirect: path}
}

// Table holds the static route classification and the fallback targets.
type Table struct {
	LandingPath string
	SigninPath  string
	ProfilePath string

	routes map[string]RouteClass
}

// NewTable builds the application's route table.
func NewTable() *Table {
	t := &Table{
		LandingPath: "/",
		SigninPath:  "/auth",
		ProfilePath: "/profile",
		routes:      make(map[string]RouteClass),
	}
	t.Register("/", Public)
	t.Register("/auth", ProtectedForUnauthenticated)
	t.Register("/signup", ProtectedForUnauthenticated)
	t.Register("/profile", ProtectedForAuthenticated)
	return t
}

// Register classifies a path. Later registrations overwrite earlier ones.
func (t *Table) Register(path string, class RouteClass) {
	t.routes[path] = class
}

// Evaluate applies the classification rules to a known route class.
func (t *Table) Evaluate(class RouteClass, state domain.SessionState) Decision {
	switch {
	case class == Unconditional:
		return render()
	case class == ProtectedForUnauthenticated && state.IsAuthenticated():
		return redirectTo(t.ProfilePath)
	case class == ProtectedForAuthenticated && !state.IsAuthenticated():
		return redirectTo(t.SigninPath)
	default:
		return render()
	}
}

// Decide resolves a requested path: known paths go through Evaluate,
// unknown paths redirect to the profile when authenticated and the
// landing page otherwise.
func (t *Table) Decide(path string, state domain.SessionState) Decision {
	class, ok := t.routes[path]
	if !ok {
		if state.IsAuthenticated() {
			return redirectTo(t.ProfilePath)
		}
		return redirectTo(t.LandingPath)
	}
	return t.Evaluate(class, state)
}
