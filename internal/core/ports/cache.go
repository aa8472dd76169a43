package ports

import (
	"context"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// HotelCatalogCache caches the hotel list shown on the dashboards.
//
// Get reports a miss with ok=false and returns the generation current at
// the time of the read. Set stores hotels only if no Invalidate has happened
// since that generation was observed, so a list loaded before a write never
// replaces the invalidation that write performed.
type HotelCatalogCache interface {
	Get(ctx context.Context) (hotels []domain.Hotel, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, hotels []domain.Hotel) error
	Invalidate(ctx context.Context) error
}

// LoginThrottle counts failed logins per username.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
