package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the role a user acts under.
type UserRole string

const (
	RoleAdmin UserRole = "admin" // fleet administrator, owns vehicles
	RoleUser  UserRole = "user"  // customer, books vehicles
)

// User owns vehicles (admin) or creates bookings (user).
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	FullName     string    `json:"full_name"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks user data consistency.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidUserData
	}
	if u.FullName == "" {
		return ErrInvalidUserData
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return ErrInvalidRole
	}
	return nil
}

// Identity is the authenticated caller passed explicitly into every
// core operation. The services never reach into ambient request state.
type Identity struct {
	UserID uuid.UUID
	Role   UserRole
}

// IsAdmin reports whether the caller is a fleet administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
