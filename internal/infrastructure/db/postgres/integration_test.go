//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("hotelbook"),
		tcpostgres.WithUsername("hotelbook"),
		tcpostgres.WithPassword("hotelbook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, Migrate(zerolog.Nop(), dsn, false))

	db, err := New(ctx, zerolog.Nop(), Config{DSN: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func createUser(t *testing.T, db *DB, username string) *domain.User {
	t.Helper()
	u, err := db.Users().Create(context.Background(), &domain.User{
		Username: username, PasswordHash: "x", Age: 25,
	})
	require.NoError(t, err)
	return u
}

func TestIntegration_Postgres(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("duplicate username", func(t *testing.T) {
		createUser(t, db, "alice")
		_, err := db.Users().Create(ctx, &domain.User{Username: "alice", PasswordHash: "y", Age: 40})
		assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

		found, err := db.Users().FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "x", found.PasswordHash)

		_, err = db.Users().FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("create hotel with rooms", func(t *testing.T) {
		d, err := db.Hotels().CreateWithRooms(ctx, ports.NewHotel{Name: "Lakeview", Location: "Lucerne", RoomType: "double", RoomCount: 3})
		require.NoError(t, err)
		require.Len(t, d.Rooms, 3)

		rooms, err := db.Hotels().ListRooms(ctx, d.Hotel.ID)
		require.NoError(t, err)
		assert.Len(t, rooms, 3)
		for _, r := range rooms {
			assert.False(t, r.IsBooked)
			assert.Equal(t, d.Hotel.ID, r.HotelID)
		}
	})

	t.Run("concurrent booking has one winner", func(t *testing.T) {
		d, err := db.Hotels().CreateWithRooms(ctx, ports.NewHotel{Name: "Harbor", Location: "Oslo", RoomType: "single", RoomCount: 1})
		require.NoError(t, err)
		roomID := d.Rooms[0].ID

		const callers = 10
		users := make([]*domain.User, callers)
		for i := range users {
			users[i] = createUser(t, db, "racer-"+string(rune('a'+i)))
		}

		var wg sync.WaitGroup
		errs := make(chan error, callers)
		for _, u := range users {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, err := db.Bookings().Book(ctx, userID, roomID, time.Now())
				errs <- err
			}(u.ID)
		}
		wg.Wait()
		close(errs)

		won := 0
		for err := range errs {
			if err == nil {
				won++
				continue
			}
			assert.True(t, errors.Is(err, domain.ErrRoomUnavailable), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, won)
	})

	t.Run("delete cascades", func(t *testing.T) {
		guest := createUser(t, db, "guest")
		d, err := db.Hotels().CreateWithRooms(ctx, ports.NewHotel{Name: "Doomed", Location: "Nowhere", RoomType: "suite", RoomCount: 2})
		require.NoError(t, err)
		_, err = db.Bookings().Book(ctx, guest.ID, d.Rooms[0].ID, time.Now())
		require.NoError(t, err)

		res, err := db.Hotels().DeleteCascade(ctx, d.Hotel.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.RoomsDeleted)
		assert.EqualValues(t, 1, res.BookingsDeleted)

		_, err = db.Hotels().FindByID(ctx, d.Hotel.ID)
		assert.ErrorIs(t, err, domain.ErrHotelNotFound)
		mine, err := db.Bookings().ListByUser(ctx, guest.ID)
		require.NoError(t, err)
		assert.Empty(t, mine)

		_, err = db.Hotels().DeleteCascade(ctx, d.Hotel.ID)
		assert.ErrorIs(t, err, domain.ErrHotelNotFound)
	})

	t.Run("delete races bookings", func(t *testing.T) {
		const rooms = 8
		d, err := db.Hotels().CreateWithRooms(ctx, ports.NewHotel{Name: "Busy", Location: "Bern", RoomType: "double", RoomCount: rooms})
		require.NoError(t, err)

		guests := make([]*domain.User, rooms)
		for i := range guests {
			guests[i] = createUser(t, db, "busy-"+string(rune('a'+i)))
		}

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			booked int
			res    *domain.CascadeResult
			delErr error
		)
		start := make(chan struct{})
		for i, g := range guests {
			wg.Add(1)
			go func(userID, roomID string) {
				defer wg.Done()
				<-start
				_, err := db.Bookings().Book(ctx, userID, roomID, time.Now())
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					booked++
				case errors.Is(err, domain.ErrRoomNotFound):
				default:
					t.Errorf("unexpected booking error: %v", err)
				}
			}(g.ID, d.Rooms[i].ID)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, delErr = db.Hotels().DeleteCascade(ctx, d.Hotel.ID)
		}()
		close(start)
		wg.Wait()

		require.NoError(t, delErr)
		assert.EqualValues(t, rooms, res.RoomsDeleted)
		assert.EqualValues(t, booked, res.BookingsDeleted)

		left, err := db.Hotels().ListRooms(ctx, d.Hotel.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
		for _, g := range guests {
			mine, err := db.Bookings().ListByUser(ctx, g.ID)
			require.NoError(t, err)
			assert.Empty(t, mine)
		}
	})

	t.Run("book unknown room", func(t *testing.T) {
		guest := createUser(t, db, "lost")
		_, err := db.Bookings().Book(ctx, guest.ID, "6f1d2c3b-4a59-4e7f-8a9b-0c1d2e3f4a5b", time.Now())
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}
