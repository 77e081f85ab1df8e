package enums

import "fmt"

// Role identifies the permission level an actor operates with. Guest is a
// request-time role only; persisted users are either customers or admins.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

var validRoles = []Role{
	RoleGuest,
	RoleCustomer,
	RoleAdmin,
}

// validStoredRoles are the roles a user row may carry in the database.
var validStoredRoles = []Role{
	RoleCustomer,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStorable reports whether the role may be persisted on a user record.
func (r Role) IsStorable() bool {
	for _, candidate := range validStoredRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
