// Package postgres stores users, hotels, rooms and bookings in PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxConns = 10

	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Config holds the connection settings.
type Config struct {
	DSN      string
	MaxConns int32
}

// DB wraps the pool shared by every repository.
type DB struct {
	pool *pgxpool.Pool
}

// New opens a pool and pings it. The caller must Close the DB.
func New(ctx context.Context, logger zerolog.Logger, cfg Config) (*DB, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	pcfg.MaxConns = cfg.MaxConns
	if pcfg.MaxConns <= 0 {
		pcfg.MaxConns = defaultMaxConns
	}
	pcfg.MaxConnLifetime = 30 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	logger.Debug().Str("dsn", maskDSN(cfg.DSN)).Int32("max_conns", pcfg.MaxConns).Msg("postgres pool established")
	return &DB{pool: pool}, nil
}

func (db *DB) Close() { db.pool.Close() }

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return db.pool.Ping(ctx)
}

func (db *DB) Users() *UserRepository       { return &UserRepository{db: db} }
func (db *DB) Hotels() *HotelRepository     { return &HotelRepository{db: db} }
func (db *DB) Bookings() *BookingRepository { return &BookingRepository{db: db} }

// WithTransaction runs fn in a transaction. It commits when fn returns nil
// and rolls back on error or panic.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	err = fn(ctx, tx)
	return err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// maskDSN hides the password of a URL-style DSN.
func maskDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":*****@" + host
}
