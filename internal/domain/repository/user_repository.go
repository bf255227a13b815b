// Package repository defines the persistence contracts of the domain.
// Implementations live in internal/infrastructure/persistence.
package repository

import (
	"context"

	"github.com/turtacn/coursehub/internal/domain/models"
)

// UserRepository defines persistence operations for user accounts.
// Implementation: internal/infrastructure/persistence/postgres/user_repo_impl.go
type UserRepository interface {
	// FindByEmail returns the user with the given email.
	// An unknown email is not an error: it returns (nil, nil).
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with the given id or a not_found AppError.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// List returns at most limit users ordered by creation time.
	List(ctx context.Context, limit int) ([]*models.User, error)

	// Create stores a new user. A duplicate email yields a conflict AppError.
	Create(ctx context.Context, user *models.User) error

	// CreateMany stores all users in one transaction; nothing is written if any insert fails.
	CreateMany(ctx context.Context, users []*models.User) error

	// ExistsByEmail reports whether an account already uses email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
