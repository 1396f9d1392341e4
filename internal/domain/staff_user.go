package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAdmin     StaffRole = "admin"
	StaffRoleStaff     StaffRole = "staff"
	StaffRoleCollector StaffRole = "collector"
)

// Valid reports whether the role is a known one.
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleAdmin, StaffRoleStaff, StaffRoleCollector:
		return true
	}
	return false
}

// StaffUser models an internal operator who quotes customers and verifies
// payments. Staff accounts are created by an admin or by the seed bootstrap;
// they are never deleted in the normal flow.
type StaffUser struct {
	ID           string
	Name         string
	Email        string
	Role         StaffRole
	PasswordHash string
	CreatedAt    time.Time
}
