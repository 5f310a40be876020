// Package user models login accounts.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// UserStatus tracks whether an account may sign in.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// User is the aggregate root for an account.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	passwordHash string
	role         access.Role
	status       UserStatus
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates an active account. The email is stored lower-cased.
func NewUser(name, email, passwordHash string, role access.Role) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password hash is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role: " + string(role))
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         strings.TrimSpace(name),
		email:        NormalizeEmail(email),
		passwordHash: passwordHash,
		role:         role,
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence.
func Reconstruct(id uuid.UUID, name, email, passwordHash string, role access.Role, status UserStatus, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() access.Role    { return u.role }
func (u *User) Status() UserStatus   { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool { return u.status == StatusActive }

// Principal returns the session identity of the account.
func (u *User) Principal() access.Principal {
	return access.Principal{ID: u.id, Email: u.email, DisplayName: u.name, Role: u.role}
}

// NormalizeEmail trims and lower-cases an address for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
