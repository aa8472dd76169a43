package ports

import (
	"context"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

type BookingService interface {
	Book(ctx context.Context, who domain.Identity, roomID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, who domain.Identity) ([]domain.Booking, error)
}
