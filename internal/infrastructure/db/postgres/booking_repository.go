package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

type BookingRepository struct {
	db *DB
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

// Book relies on the row lock taken by the conditional UPDATE: a concurrent
// caller blocks on it, re-evaluates "NOT is_booked" after the winner commits
// and updates nothing.
func (r *BookingRepository) Book(ctx context.Context, userID, roomID string, at time.Time) (*domain.Booking, error) {
	if !validID(roomID) {
		return nil, domain.ErrRoomNotFound
	}
	if !validID(userID) {
		return nil, fmt.Errorf("book room: invalid user id %q", userID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Booking
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE rooms SET is_booked = TRUE WHERE id = $1 AND NOT is_booked`, roomID)
		if err != nil {
			return fmt.Errorf("mark room booked: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return missOrTaken(ctx, tx, roomID)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (user_id, room_id, created_at)
			VALUES ($1, $2, $3)
			RETURNING id::text, user_id::text, room_id::text, created_at`,
			userID, roomID, at.UTC(),
		).Scan(&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt)
		if err != nil {
			switch pgErrorCode(err) {
			case codeUniqueViolation:
				return domain.ErrRoomUnavailable
			case codeForeignKeyViolation:
				return fmt.Errorf("insert booking: unknown user %q: %w", userID, err)
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

func missOrTaken(ctx context.Context, tx pgx.Tx, roomID string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists); err != nil {
		return fmt.Errorf("find room: %w", err)
	}
	if !exists {
		return domain.ErrRoomNotFound
	}
	return domain.ErrRoomUnavailable
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if !validID(userID) {
		return []domain.Booking{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.pool.Query(ctx, `
		SELECT id::text, user_id::text, room_id::text, created_at
		FROM bookings WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	bookings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Booking, error) {
		var b domain.Booking
		err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt)
		b.CreatedAt = b.CreatedAt.UTC()
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
