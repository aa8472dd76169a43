package ports

import (
	"context"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// NewHotel carries the rows created by HotelRepository.CreateWithRooms.
type NewHotel struct {
	Name      string
	Location  string
	ImagePath string
	RoomType  string
	RoomCount int
}

// HotelRepository handles hotel and room inventory.
//
// CreateWithRooms and DeleteCascade are single transactions: either every
// row they touch is written, or none is.
type HotelRepository interface {
	CreateWithRooms(ctx context.Context, in NewHotel) (*domain.HotelDetail, error)
	// DeleteCascade removes the hotel's bookings, then its rooms, then the
	// hotel. Returns domain.ErrHotelNotFound (and deletes nothing) when the
	// hotel does not exist.
	DeleteCascade(ctx context.Context, hotelID string) (*domain.CascadeResult, error)
	List(ctx context.Context) ([]domain.Hotel, error)
	FindByID(ctx context.Context, hotelID string) (*domain.Hotel, error)
	ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error)
}
