package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

func TestMaskDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://app:s3cret@db:5432/hotels?sslmode=disable": "postgres://app:*****@db:5432/hotels?sslmode=disable",
		"postgres://app@db/hotels":                              "postgres://app@db/hotels",
		"host=db user=app":                                      "host=db user=app",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskDSN(in), in)
	}
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h/db", migrateURL("postgres://u:p@h/db"))
	assert.Equal(t, "pgx5://u:p@h/db", migrateURL("postgresql://u:p@h/db"))
	assert.Equal(t, "pgx5://u:p@h/db", migrateURL("pgx5://u:p@h/db"))
	assert.Equal(t, "pgx5://u:p@h/db", migrateURL("u:p@h/db"))
}

func TestPgErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	assert.Equal(t, codeUniqueViolation, pgErrorCode(wrapped))
	assert.Empty(t, pgErrorCode(errors.New("plain")))
}

func TestInvalidIDsShortCircuit(t *testing.T) {
	db := &DB{}
	ctx := context.Background()

	_, err := db.Hotels().FindByID(ctx, "lakeview")
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)

	_, err = db.Hotels().DeleteCascade(ctx, "lakeview")
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)

	rooms, err := db.Hotels().ListRooms(ctx, "lakeview")
	assert.NoError(t, err)
	assert.Empty(t, rooms)

	_, err = db.Bookings().Book(ctx, "0b7c3c9e-5e0e-4c1e-9d3b-1f2e3d4c5b6a", "room-7", time.Now())
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	bookings, err := db.Bookings().ListByUser(ctx, "alice")
	assert.NoError(t, err)
	assert.Empty(t, bookings)
}
