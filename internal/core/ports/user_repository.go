package ports

import (
	"context"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// UserRepository defines persistence for registered users.
type UserRepository interface {
	// Create stores a new user and returns it with its ID assigned.
	// A username collision is reported as domain.ErrDuplicateUsername by the
	// store's unique constraint, never by a pre-check.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
