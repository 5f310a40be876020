package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
)

// ListFilter narrows the admin user list.
type ListFilter struct {
	Role   access.Role
	Search string
	Page   int
	Limit  int
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	// Save inserts a new account; a duplicate email yields a ConflictError.
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
