package entities

// Role levels, weakest first. Officer endpoints accept officer and admin;
// member endpoints accept anyone authenticated.
type Role string

const (
	RoleMember  Role = "member"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleOfficer, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleOfficer:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants the privileges of required.
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank()
}

// Principal is the normalized authenticated caller. Both credential paths
// (bearer JWT and server session) resolve to this value before any business
// logic runs, and nothing downstream learns which path produced it.
type Principal struct {
	UserID string
	ClubID string
	Role   Role
}
