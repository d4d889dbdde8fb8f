package domain

import "strings"

// Role is a closed-set label determining which operations an identity may perform.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleLearner  Role = "LEARNER"
	RoleWriter   Role = "WRITER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// Roles is the full enumeration. It is constructed once and never mutated.
var Roles = []Role{RoleCustomer, RoleLearner, RoleWriter, RoleSeller, RoleAdmin}

// ParseRole maps a stored or submitted value onto the enumeration.
func ParseRole(value string) (Role, bool) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(value)))
	for _, role := range Roles {
		if role == candidate {
			return role, true
		}
	}
	return "", false
}

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// RoleSet is the set of roles permitted for an operation. Membership in any
// one role suffices.
type RoleSet []Role

func NewRoleSet(roles ...Role) RoleSet {
	return RoleSet(roles)
}

func (s RoleSet) Contains(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

func (s RoleSet) Empty() bool {
	return len(s) == 0
}

// String renders the set for audit reasons, e.g. "ADMIN, WRITER".
func (s RoleSet) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
