package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store using a
// fixed-window counter per key. The key already encodes the window, so a
// simple INCR with expiry is sufficient.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := s.prefix + key

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	// go-redis has no typed PExpireNX helper; issue PEXPIRE ... NX directly.
	pipe.Do(ctx, "pexpire", redisKey, window.Milliseconds(), "NX")

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
