package session

import "fmt"

// AuthErrorKind classifies failures of signin, signup and logout calls.
type AuthErrorKind string

const (
	// KindRejected means the service declined the credentials; the
	// description is surfaced verbatim to the user.
	KindRejected AuthErrorKind = "REJECTED"
	// KindUnreachable covers transport failures and timeouts.
	KindUnreachable AuthErrorKind = "UNREACHABLE"
	// KindCorruptCredential means the service reported success but the
	// returned token does not decode. The token is never adopted.
	KindCorruptCredential AuthErrorKind = "CORRUPT_CREDENTIAL"
	// KindBusy means another auth call is already in flight.
	KindBusy AuthErrorKind = "BUSY"
)

// AuthError is returned by the manager's service-backed operations. Any
// AuthError leaves the session state exactly as it was before the call.
type AuthError struct {
	Kind        AuthErrorKind
	Description string
	Err         error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case KindRejected:
		return fmt.Sprintf("authentication rejected: %s", e.Description)
	case KindUnreachable:
		if e.Err != nil {
			return fmt.Sprintf("authentication service unreachable: %v", e.Err)
		}
		return "authentication service unreachable"
	case KindCorruptCredential:
		return "authentication service returned an undecodable credential"
	case KindBusy:
		return "another authentication call is in flight"
	default:
		return "authentication failed"
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
