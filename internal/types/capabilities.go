// internal/types/capabilities.go
package types

// Role is the acting user's role within the organization.
type Role string

const (
	RoleOwner    Role = "OW"
	RoleAdmin    Role = "AD"
	RoleManager  Role = "MA"
	RoleReviewer Role = "RE"
	RoleMember   Role = "member"
)

// Manager reports whether the role belongs to the fixed manager set that may
// force-skip tasks regardless of the task's allow_skip flag.
func (r Role) Manager() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// Capabilities is the immutable capability record resolved once at
// DataManager construction and injected into the wrapper. Capability checks
// are referentially stable for the whole session.
type Capabilities struct {
	CanAnnotate bool
	IsAnnotator bool
	IsClient    bool
	IsExpert    bool
	Role        Role
	User        *User
}
