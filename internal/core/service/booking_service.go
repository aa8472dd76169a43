package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

// BookingService drives the available -> booked room transition.
type BookingService struct {
	repo   ports.BookingRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewBookingService(repo ports.BookingRepository, logger zerolog.Logger) *BookingService {
	return &BookingService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Book reserves roomID for the caller. Of any number of concurrent callers
// at most one succeeds; the others get domain.ErrRoomUnavailable.
func (s *BookingService) Book(ctx context.Context, who domain.Identity, roomID string) (*domain.Booking, error) {
	if !who.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, domain.ErrRoomNotFound
	}

	booking, err := s.repo.Book(ctx, who.UserID, roomID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomUnavailable):
			s.logger.Info().Str("room_id", roomID).Str("user_id", who.UserID).Msg("booking rejected: room already booked")
			return nil, err
		case errors.Is(err, domain.ErrRoomNotFound):
			return nil, err
		}
		s.logger.Error().Err(err).Str("room_id", roomID).Msg("booking failed")
		return nil, fmt.Errorf("book room: %w", err)
	}

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("room_id", roomID).
		Str("user_id", who.UserID).
		Msg("room booked")

	return booking, nil
}

// ListBookings returns the caller's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, who domain.Identity) ([]domain.Booking, error) {
	if !who.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	bookings, err := s.repo.ListByUser(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}
