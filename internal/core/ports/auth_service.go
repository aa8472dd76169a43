package ports

import (
	"context"
	"time"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Age      int
}

// AdminSeed describes the default administrator created at first startup.
// An empty Password means "generate one".
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
	User      *domain.User
	// Landing is where the client should go next: the admin dashboard for
	// administrators, the hotel list for everyone else.
	Landing string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
}
