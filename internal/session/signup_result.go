package session

import "github.com/spec-kit/hiredesk-session/internal/domain"

// SignUpOutcome distinguishes a fully established session from a signup
// that succeeded without one.
type SignUpOutcome string

const (
	// SignUpFull: account created and the implicit signin established a
	// session.
	SignUpFull SignUpOutcome = "FULL"
	// SignUpPartial: account created but the implicit signin failed; the
	// user signs in manually.
	SignUpPartial SignUpOutcome = "PARTIAL"
)

// SignUpResult is the non-error result of SignUp. Identity is only set
// for SignUpFull; Description is the service's signup message.
type SignUpResult struct {
	Outcome     SignUpOutcome
	Identity    domain.Identity
	Description string
}
