package ports

import (
	"context"

	"github.com/landworks/registry-system/internal/core/domain"
)

// RegisterInput carries the data needed to create a user account.
type RegisterInput struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// SeedAdmin creates the bootstrap admin account when the user store is
	// empty. Called once at startup.
	SeedAdmin(ctx context.Context, email, password string) error
}
