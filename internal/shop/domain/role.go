package domain

import "strings"

// Role is the single authorization level derived for a caller. It is a
// closed set: every user resolves to exactly one role.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// rolePrecedence is the fixed resolution order when a user belongs to
// multiple role groups.
var rolePrecedence = [...]Role{RoleAdmin, RoleManager, RoleStaff}

// roleAliases collapses legacy group-name synonyms onto canonical roles.
var roleAliases = map[string]Role{
	"ADMIN":        RoleAdmin,
	"MANAGER":      RoleManager,
	"STAFF":        RoleStaff,
	"ROLE_ADMIN":   RoleAdmin,
	"ROLE_MANAGER": RoleManager,
	"ROLE_STAFF":   RoleStaff,
	"MGR":          RoleManager,
}

// ParseRole validates a request-supplied role name ("admin", "manager",
// "staff", case-insensitive). Returns false for anything outside the set.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, true
	case "MANAGER":
		return RoleManager, true
	case "STAFF":
		return RoleStaff, true
	default:
		return "", false
	}
}

// NormalizeGroup maps a group name onto a canonical role, if it names one.
func NormalizeGroup(name string) (Role, bool) {
	r, ok := roleAliases[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}

// ResolveRole derives the effective role from a superuser flag and the set of
// group names attached to a user. It is total: any input, including an empty
// group set, yields exactly one role.
//
// Superusers are ADMIN outright. Otherwise group names are normalized through
// the alias table and tested in ADMIN > MANAGER > STAFF precedence, with
// STAFF as the fallback.
func ResolveRole(superuser bool, groups []string) Role {
	if superuser {
		return RoleAdmin
	}

	present := make(map[Role]bool, len(groups))
	for _, g := range groups {
		if r, ok := NormalizeGroup(g); ok {
			present[r] = true
		}
	}

	for _, r := range rolePrecedence {
		if present[r] {
			return r
		}
	}
	return RoleStaff
}

// GroupName returns the canonical group name backing a role. Group rows use
// lowercase names; resolution is case-insensitive either way.
func (r Role) GroupName() string { return strings.ToLower(string(r)) }

// IsStaffRole reports whether the role grants back-office access. Mirrored
// onto the user record as the is_staff flag at assignment time.
func (r Role) IsStaffRole() bool { return r == RoleAdmin || r == RoleManager }

func (r Role) String() string { return string(r) }
