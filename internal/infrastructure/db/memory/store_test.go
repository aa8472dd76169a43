package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

func seedHotel(t *testing.T, s *Store, rooms int) *domain.HotelDetail {
	t.Helper()
	d, err := s.Hotels().CreateWithRooms(context.Background(), ports.NewHotel{
		Name:      "Lakeview",
		Location:  "Lucerne",
		RoomType:  "double",
		RoomCount: rooms,
	})
	require.NoError(t, err)
	return d
}

func TestUsers_CreateAndFind(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Users().Create(ctx, &domain.User{Username: "alice", Age: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := s.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.Users().FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUsers_DuplicateUsernameLeavesStoreUnchanged(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Users().Create(ctx, &domain.User{Username: "alice", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = s.Users().Create(ctx, &domain.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	users, _, _, _ := s.Counts()
	assert.Equal(t, 1, users)
	found, _ := s.Users().FindByUsername(ctx, "alice")
	assert.Equal(t, "a@example.com", found.Email)
}

func TestHotels_CreateWithRooms(t *testing.T) {
	s := New()
	d := seedHotel(t, s, 3)

	require.Len(t, d.Rooms, 3)
	for _, r := range d.Rooms {
		assert.Equal(t, d.Hotel.ID, r.HotelID)
		assert.Equal(t, "double", r.RoomType)
		assert.False(t, r.IsBooked)
	}

	rooms, err := s.Hotels().ListRooms(context.Background(), d.Hotel.ID)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
	assert.NoError(t, s.Consistent())
}

func TestHotels_ListKeepsCreationOrder(t *testing.T) {
	s := New()
	first := seedHotel(t, s, 0)
	second := seedHotel(t, s, 1)

	hotels, err := s.Hotels().List(context.Background())
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	assert.Equal(t, first.Hotel.ID, hotels[0].ID)
	assert.Equal(t, second.Hotel.ID, hotels[1].ID)
}

func TestBookings_BookOnceThenUnavailable(t *testing.T) {
	s := New()
	d := seedHotel(t, s, 1)
	roomID := d.Rooms[0].ID
	ctx := context.Background()

	b, err := s.Bookings().Book(ctx, "user-a", roomID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "user-a", b.UserID)

	_, err = s.Bookings().Book(ctx, "user-b", roomID, time.Now())
	assert.ErrorIs(t, err, domain.ErrRoomUnavailable)

	_, err = s.Bookings().Book(ctx, "user-b", "missing", time.Now())
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, _, _, bookings := s.Counts()
	assert.Equal(t, 1, bookings)
	assert.NoError(t, s.Consistent())
}

func TestBookings_ConcurrentBookingHasSingleWinner(t *testing.T) {
	s := New()
	d := seedHotel(t, s, 1)
	roomID := d.Rooms[0].ID

	const callers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		losses    int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := s.Bookings().Book(context.Background(), "user", roomID, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrRoomUnavailable):
				losses++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, losses)
	_, _, _, bookings := s.Counts()
	assert.Equal(t, 1, bookings)
	assert.NoError(t, s.Consistent())
}

func TestHotels_DeleteCascade(t *testing.T) {
	s := New()
	ctx := context.Background()
	doomed := seedHotel(t, s, 3)
	kept := seedHotel(t, s, 2)

	_, err := s.Bookings().Book(ctx, "u1", doomed.Rooms[0].ID, time.Now())
	require.NoError(t, err)
	_, err = s.Bookings().Book(ctx, "u2", doomed.Rooms[2].ID, time.Now())
	require.NoError(t, err)
	_, err = s.Bookings().Book(ctx, "u1", kept.Rooms[0].ID, time.Now())
	require.NoError(t, err)

	res, err := s.Hotels().DeleteCascade(ctx, doomed.Hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.RoomsDeleted)
	assert.EqualValues(t, 2, res.BookingsDeleted)

	_, err = s.Hotels().FindByID(ctx, doomed.Hotel.ID)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
	rooms, _ := s.Hotels().ListRooms(ctx, doomed.Hotel.ID)
	assert.Empty(t, rooms)

	_, hotels, roomCount, bookings := s.Counts()
	assert.Equal(t, 1, hotels)
	assert.Equal(t, 2, roomCount)
	assert.Equal(t, 1, bookings)
	assert.NoError(t, s.Consistent())

	u1, _ := s.Bookings().ListByUser(ctx, "u1")
	assert.Len(t, u1, 1)
}

func TestHotels_DeleteUnknownIsNotFound(t *testing.T) {
	s := New()
	seedHotel(t, s, 1)

	_, err := s.Hotels().DeleteCascade(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)

	_, hotels, rooms, _ := s.Counts()
	assert.Equal(t, 1, hotels)
	assert.Equal(t, 1, rooms)
}

func TestBookings_ListByUserNewestFirst(t *testing.T) {
	s := New()
	d := seedHotel(t, s, 3)
	ctx := context.Background()

	for _, r := range d.Rooms {
		_, err := s.Bookings().Book(ctx, "u1", r.ID, time.Now())
		require.NoError(t, err)
	}

	got, err := s.Bookings().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, d.Rooms[2].ID, got[0].RoomID)
	assert.Equal(t, d.Rooms[0].ID, got[2].RoomID)
}
