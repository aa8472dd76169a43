package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

const (
	maxHotelFieldLen = 200
	maxImagePathLen  = 500
	// MaxRoomsPerHotel bounds the batch created with a hotel.
	MaxRoomsPerHotel = 500
)

// InventoryService manages hotels and their rooms.
type InventoryService struct {
	repo   ports.HotelRepository
	cache  ports.HotelCatalogCache
	logger zerolog.Logger
}

// NewInventoryService returns an InventoryService. cache may be nil.
func NewInventoryService(repo ports.HotelRepository, cache ports.HotelCatalogCache, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, cache: cache, logger: logger}
}

// AddHotel creates a hotel and RoomCount available rooms of RoomType in a
// single store transaction.
func (s *InventoryService) AddHotel(ctx context.Context, actor domain.Identity, in ports.AddHotelInput) (*domain.HotelDetail, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	nh, err := normalizeHotel(in)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.CreateWithRooms(ctx, nh)
	if err != nil {
		s.logger.Error().Err(err).Str("name", nh.Name).Msg("failed to create hotel")
		return nil, fmt.Errorf("add hotel: %w", err)
	}

	s.invalidate(ctx)

	s.logger.Info().
		Str("hotel_id", detail.Hotel.ID).
		Int("rooms", len(detail.Rooms)).
		Str("actor", actor.Username).
		Msg("hotel created")

	return detail, nil
}

// DeleteHotel removes the hotel, its rooms and every booking on them.
func (s *InventoryService) DeleteHotel(ctx context.Context, actor domain.Identity, hotelID string) (*domain.CascadeResult, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return nil, domain.ErrHotelNotFound
	}

	res, err := s.repo.DeleteCascade(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("delete hotel: %w", err)
	}

	s.invalidate(ctx)

	s.logger.Info().
		Str("hotel_id", hotelID).
		Int64("rooms_deleted", res.RoomsDeleted).
		Int64("bookings_deleted", res.BookingsDeleted).
		Str("actor", actor.Username).
		Msg("hotel deleted")

	return res, nil
}

// ListHotels returns every hotel, served from the catalog cache when warm.
// A miss refills the cache under the generation observed before the store
// read.
func (s *InventoryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var (
		gen  int64
		fill bool
	)
	if s.cache != nil {
		hotels, g, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("catalog cache read failed, falling back to store")
		case ok:
			return hotels, nil
		default:
			gen, fill = g, true
		}
	}

	hotels, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	if hotels == nil {
		hotels = []domain.Hotel{}
	}

	if fill {
		if err := s.cache.Set(ctx, gen, hotels); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return hotels, nil
}

// HotelDetail returns the hotel and all its rooms with their current status.
func (s *InventoryService) HotelDetail(ctx context.Context, hotelID string) (*domain.HotelDetail, error) {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return nil, domain.ErrHotelNotFound
	}

	hotel, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel detail: %w", err)
	}

	rooms, err := s.repo.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel detail: list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}

	return &domain.HotelDetail{Hotel: *hotel, Rooms: rooms}, nil
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func normalizeHotel(in ports.AddHotelInput) (ports.NewHotel, error) {
	nh := ports.NewHotel{
		Name:      strings.TrimSpace(in.Name),
		Location:  strings.TrimSpace(in.Location),
		ImagePath: strings.TrimSpace(in.ImagePath),
		RoomType:  strings.TrimSpace(in.RoomType),
		RoomCount: in.RoomCount,
	}

	required := []struct {
		field, value string
	}{
		{"name", nh.Name},
		{"location", nh.Location},
		{"room_type", nh.RoomType},
	}
	for _, r := range required {
		if r.value == "" {
			return nh, domain.NewValidationError(r.field, "is required")
		}
		if len(r.value) > maxHotelFieldLen {
			return nh, domain.NewValidationError(r.field, fmt.Sprintf("must be at most %d characters", maxHotelFieldLen))
		}
	}

	if len(nh.ImagePath) > maxImagePathLen {
		return nh, domain.NewValidationError("image_path", fmt.Sprintf("must be at most %d characters", maxImagePathLen))
	}
	if nh.RoomCount < 0 || nh.RoomCount > MaxRoomsPerHotel {
		return nh, domain.NewValidationError("room_count", fmt.Sprintf("must be between 0 and %d", MaxRoomsPerHotel))
	}
	return nh, nil
}
