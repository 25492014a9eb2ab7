package domain

// Role enumerates account roles issued by the authentication service.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleHR        Role = "HR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated user's profile as exposed to the rest of
// the application. It is derived from credential claims, never persisted.
type Identity struct {
	SubjectID   string
	FullName    string
	Username    string
	Email       string
	CompanyName string
	Role        Role
}
