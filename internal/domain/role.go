package domain

import "time"

// RoleName is the closed set of role identifiers. Authorization compares
// against these constants, never raw request strings.
type RoleName string

const (
	RoleUser  RoleName = "User"
	RoleAdmin RoleName = "Admin"
)

// Valid reports whether the role name belongs to the known set.
func (r RoleName) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Role is seeded reference data; rows are created by migrations only.
type Role struct {
	ID   string
	Name RoleName
}

// UserRole assigns a role to a user. A user holds at least RoleUser.
type UserRole struct {
	UserID     string
	RoleID     string
	AssignedAt time.Time
}
