package ports

import (
	"context"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// AddHotelInput carries everything needed to create a hotel and its rooms.
type AddHotelInput struct {
	Name      string
	Location  string
	ImagePath string
	RoomCount int
	RoomType  string
}

// InventoryService defines hotel and room management use cases.
type InventoryService interface {
	AddHotel(ctx context.Context, actor domain.Identity, in AddHotelInput) (*domain.HotelDetail, error)
	DeleteHotel(ctx context.Context, actor domain.Identity, hotelID string) (*domain.CascadeResult, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	HotelDetail(ctx context.Context, hotelID string) (*domain.HotelDetail, error)
}
