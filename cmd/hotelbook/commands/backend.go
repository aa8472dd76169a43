package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lakeview/hotel-booking/internal/core/ports"
	"github.com/lakeview/hotel-booking/internal/infrastructure/db/memory"
	mongostore "github.com/lakeview/hotel-booking/internal/infrastructure/db/mongo"
	"github.com/lakeview/hotel-booking/internal/infrastructure/db/postgres"
	"github.com/lakeview/hotel-booking/internal/pkg/config"
)

var errDownUnsupported = errors.New("migrate --down is only supported by the postgres driver")

// backend is the store selected by STORE_DRIVER.
type backend struct {
	users    ports.UserRepository
	hotels   ports.HotelRepository
	bookings ports.BookingRepository

	ping func(ctx context.Context) error
	// prepare creates indexes (mongo) or applies migrations (postgres).
	prepare func(ctx context.Context, down bool) error
	close   func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(db)
		return &backend{
			users:    store.Users(),
			hotels:   store.Hotels(),
			bookings: store.Bookings(),
			ping:     store.Ping,
			prepare: func(ctx context.Context, down bool) error {
				if down {
					return errDownUnsupported
				}
				return store.EnsureIndexes(ctx)
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverPostgres:
		db, err := postgres.New(ctx, log, postgres.Config{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		return &backend{
			users:    db.Users(),
			hotels:   db.Hotels(),
			bookings: db.Bookings(),
			ping:     db.Ping,
			prepare: func(_ context.Context, down bool) error {
				return postgres.Migrate(log, cfg.Postgres.DSN, down)
			},
			close: db.Close,
		}, nil

	case config.DriverMemory:
		store := memory.New()
		log.Warn().Msg("using the in-memory store; data is lost on exit")
		return &backend{
			users:    store.Users(),
			hotels:   store.Hotels(),
			bookings: store.Bookings(),
			ping:     store.Ping,
			prepare: func(_ context.Context, down bool) error {
				if down {
					return errDownUnsupported
				}
				return nil
			},
			close: func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
