package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lakeview/hotel-booking/internal/core/ports"
)

const (
	defaultMaxAttempts = 5
	defaultLoginWindow = 15 * time.Minute
)

// LoginLimiter blocks a username once it has collected maxAttempts failed
// logins, until window has passed since the last failure.
// Key format: login:fail:<username>
type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

var _ ports.LoginThrottle = (*LoginLimiter)(nil)

func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func (l *LoginLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.maxAttempts, nil
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "login:fail:" + username
}
