package ports

import (
	"context"

	"github.com/landworks/registry-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Count returns the total number of users; used by the admin seed at startup.
	Count(ctx context.Context) (int64, error)
}
