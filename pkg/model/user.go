package model

import "time"

// Role represents the role of a user in the system.
type Role string

const (
	// RoleAdmin has full access including user approval.
	RoleAdmin Role = "admin"
	// RoleExecutive sees organization-wide analytics.
	RoleExecutive Role = "executive"
	// RoleManager sees analytics for their own department.
	RoleManager Role = "manager"
	// RoleAnalyst can run analyses but approves nobody.
	RoleAnalyst Role = "analyst"
	// RoleViewer has read-only dashboard access.
	RoleViewer Role = "viewer"
)

// User represents an HR-analytics user account.
// Accounts are created via registration and remain unusable until an
// administrator flips IsApproved.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials is the locally persisted credential record.
// Both fields must be present for a session to be restorable; a record
// with either one missing is treated as absent.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Valid reports whether the record is complete enough to restore a session.
func (c *Credentials) Valid() bool {
	return c != nil && c.Token != "" && c.User != nil && c.User.Email != ""
}
