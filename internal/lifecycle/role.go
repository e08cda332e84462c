package lifecycle

import "strings"

// Role is the closed set of application roles. Raw role strings from
// the user table or JWT claims are normalized into this variant once,
// so authorization rules branch on the variant instead of scattering
// string comparisons.
type Role int

const (
	RoleUnknown Role = iota
	RoleManager
	RoleTechnician
	RoleRequester
)

// ParseRole maps a stored role string onto its variant. The requester
// role is called "user" on the wire and in the database.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return RoleManager
	case "technician":
		return RoleTechnician
	case "user":
		return RoleRequester
	}
	return RoleUnknown
}

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleManager:
		return "manager"
	case RoleTechnician:
		return "technician"
	case RoleRequester:
		return "user"
	}
	return "unknown"
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   uint64
	Role Role
}
