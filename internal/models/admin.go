package models

import "time"

const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
)

type Admin struct {
	UID          string    `json:"uid"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"` // cleared before any response
	Role         string    `json:"role"`                   // "Admin", "Super Admin"
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

// Sanitized returns a copy that is safe to send to clients.
func (a Admin) Sanitized() Admin {
	a.PasswordHash = ""
	return a
}
