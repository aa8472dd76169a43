package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

const (
	catalogKey        = "hotels:catalog"
	generationKey     = "hotels:catalog:gen"
	defaultCatalogTTL = time.Minute
)

var errStaleGeneration = errors.New("catalog generation changed")

// CatalogCache stores the hotel list as one JSON value.
// Writers invalidate it by bumping hotels:catalog:gen; readers refill it on
// a miss, and the refill is dropped when the generation moved meanwhile.
type CatalogCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ ports.HotelCatalogCache = (*CatalogCache)(nil)

func NewCatalogCache(client redis.UniversalClient, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) Get(ctx context.Context) ([]domain.Hotel, int64, bool, error) {
	vals, err := c.client.MGet(ctx, generationKey, catalogKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("catalog cache get: %w", err)
	}

	gen, err := parseGeneration(vals[0])
	if err != nil {
		return nil, 0, false, fmt.Errorf("catalog cache get: %w", err)
	}

	raw, ok := vals[1].(string)
	if !ok {
		return nil, gen, false, nil
	}

	var hotels []domain.Hotel
	if err := json.Unmarshal([]byte(raw), &hotels); err != nil {
		// A corrupt entry is treated as a miss and overwritten on refill.
		return nil, gen, false, nil
	}
	if hotels == nil {
		hotels = []domain.Hotel{}
	}
	return hotels, gen, true, nil
}

// Set stores hotels when the generation still equals gen. A moved
// generation is not an error: the list is simply not cached.
func (c *CatalogCache) Set(ctx context.Context, gen int64, hotels []domain.Hotel) error {
	raw, err := json.Marshal(hotels)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil, errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return nil
	}
	return fmt.Errorf("catalog cache set: %w", err)
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation %q: %w", s, err)
	}
	return gen, nil
}
