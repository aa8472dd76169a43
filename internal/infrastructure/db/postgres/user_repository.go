package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

type UserRepository struct {
	db *DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	out := *user
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, age, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at`,
		user.Username, user.Email, user.PasswordHash, user.Age, user.IsAdmin, createdAt,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	out.CreatedAt = out.CreatedAt.UTC()
	return &out, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.db.pool.QueryRow(ctx, `
		SELECT id::text, username, email, password_hash, age, is_admin, created_at
		FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Age, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
