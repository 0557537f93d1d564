package ports

import (
	"context"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

// AuthRepository defines the interface for account persistence. Role
// memberships are loaded alongside the user on every find.
type AuthRepository interface {
	// Create persists a new account with the given role memberships.
	// Returns domain.ErrUserExists when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
