package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/infrastructure/db/memory"
)

type errBookingRepo struct{ err error }

func (r errBookingRepo) Book(context.Context, string, string, time.Time) (*domain.Booking, error) {
	return nil, r.err
}

func (r errBookingRepo) ListByUser(context.Context, string) ([]domain.Booking, error) {
	return nil, r.err
}

func guest(id string) domain.Identity {
	return domain.Identity{UserID: id, Username: id, Role: domain.RoleUser}
}

func seedRooms(t *testing.T, store *memory.Store, n int) *domain.HotelDetail {
	t.Helper()
	inv := NewInventoryService(store.Hotels(), nil, zerolog.Nop())
	d, err := inv.AddHotel(context.Background(), admin, lakeviewInput(n))
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return d
}

func TestBookingService_SecondBookerGetsUnavailable(t *testing.T) {
	store := memory.New()
	detail := seedRooms(t, store, 1)
	svc := NewBookingService(store.Bookings(), zerolog.Nop())
	ctx := context.Background()
	roomID := detail.Rooms[0].ID

	b, err := svc.Book(ctx, guest("alice"), roomID)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if b.UserID != "alice" || b.RoomID != roomID {
		t.Fatalf("unexpected booking: %+v", b)
	}

	if _, err := svc.Book(ctx, guest("bob"), roomID); !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}

	inv := NewInventoryService(store.Hotels(), nil, zerolog.Nop())
	after, _ := inv.HotelDetail(ctx, detail.Hotel.ID)
	if after.Rooms[0].Status() != domain.RoomBooked {
		t.Fatalf("expected room to be booked")
	}
	if mine, _ := svc.ListBookings(ctx, guest("bob")); len(mine) != 0 {
		t.Fatalf("bob must have no bookings, got %d", len(mine))
	}
}

func TestBookingService_ConcurrentBookersSingleWinner(t *testing.T) {
	store := memory.New()
	detail := seedRooms(t, store, 1)
	svc := NewBookingService(store.Bookings(), zerolog.Nop())
	roomID := detail.Rooms[0].ID

	const callers = 16
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), guest(id), roomID)
			results <- err
		}(string(rune('a' + i)))
	}
	wg.Wait()
	close(results)

	won := 0
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, domain.ErrRoomUnavailable):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one successful booking, got %d", won)
	}
	if err := store.Consistent(); err != nil {
		t.Fatalf("store inconsistent: %v", err)
	}
}

func TestBookingService_RequiresAuthenticatedCaller(t *testing.T) {
	store := memory.New()
	detail := seedRooms(t, store, 1)
	svc := NewBookingService(store.Bookings(), zerolog.Nop())

	if _, err := svc.Book(context.Background(), domain.Anonymous(), detail.Rooms[0].ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.ListBookings(context.Background(), domain.Anonymous()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, _, _, n := store.Counts(); n != 0 {
		t.Fatalf("expected no bookings, got %d", n)
	}
}

func TestBookingService_UnknownRoom(t *testing.T) {
	svc := NewBookingService(memory.New().Bookings(), zerolog.Nop())

	for _, id := range []string{"", "no-such-room"} {
		if _, err := svc.Book(context.Background(), guest("alice"), id); !errors.Is(err, domain.ErrRoomNotFound) {
			t.Fatalf("room %q: expected ErrRoomNotFound, got %v", id, err)
		}
	}
}

func TestBookingService_StoreErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewBookingService(errBookingRepo{err: cause}, zerolog.Nop())

	_, err := svc.Book(context.Background(), guest("alice"), "room-1")
	if !errors.Is(err, cause) || errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, err := svc.ListBookings(context.Background(), guest("alice")); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestBookingService_ListBookingsNewestFirst(t *testing.T) {
	store := memory.New()
	detail := seedRooms(t, store, 2)
	svc := NewBookingService(store.Bookings(), zerolog.Nop())
	ctx := context.Background()

	for _, r := range detail.Rooms {
		if _, err := svc.Book(ctx, guest("alice"), r.ID); err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
	}

	mine, err := svc.ListBookings(ctx, guest("alice"))
	if err != nil {
		t.Fatalf("ListBookings returned error: %v", err)
	}
	if len(mine) != 2 || mine[0].RoomID != detail.Rooms[1].ID {
		t.Fatalf("unexpected bookings order: %+v", mine)
	}
}
