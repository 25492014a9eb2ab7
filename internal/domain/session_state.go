package domain

// SessionState is the process-wide authentication status. It is owned and
// mutated exclusively by the session manager; everything else reads snapshots.
type SessionState struct {
	Identity *Identity
}

// Unauthenticated returns the zero session state.
func Unauthenticated() SessionState {
	return SessionState{}
}

// Authenticated wraps an identity in an authenticated state.
func Authenticated(id Identity) SessionState {
	return SessionState{Identity: &id}
}

// IsAuthenticated reports whether an identity is present.
func (s SessionState) IsAuthenticated() bool {
	return s.Identity != nil
}
