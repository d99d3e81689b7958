package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the closed role enum consumed by the auth middleware.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleClient UserRole = "client"
)

// IsValidRole reports whether r is a known role.
func IsValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleClient
}

// User is an authenticated account. Email uniqueness is enforced at the
// database layer.
type User struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            UserRole  `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
