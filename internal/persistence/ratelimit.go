package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis.
// Key format: ratelimit:<scope>:<subject>
type RateLimiter struct {
	client *redis.Client
	window time.Duration
}

// NewRateLimiter creates a limiter with the given window.
func NewRateLimiter(client *redis.Client, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, window: window}
}

// Allow increments the counter for subject and reports whether it is
// still within limit. The first hit in a window sets the expiry.
func (r *RateLimiter) Allow(ctx context.Context, scope, subject string, limit int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("ratelimit:%s:%s", scope, subject)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(limit), nil
}
