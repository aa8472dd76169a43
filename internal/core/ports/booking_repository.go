package ports

import (
	"context"
	"time"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// BookingRepository owns the room booking transition.
type BookingRepository interface {
	// Book atomically flips the room to booked and inserts the booking row.
	// Returns domain.ErrRoomNotFound or domain.ErrRoomUnavailable without
	// writing anything when the transition is not possible.
	Book(ctx context.Context, userID, roomID string, at time.Time) (*domain.Booking, error)
	// ListByUser returns the user's bookings, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}
