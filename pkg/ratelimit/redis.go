package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "coivault:ratelimit:"

// RedisLimiter shares a fixed-window counter across instances. The counter
// and its TTL are read in one transaction; a key found without a TTL gets
// the window as its expiry, so a lost EXPIRE cannot pin the counter.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisLimiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{client: client, max: int64(maxRequests), window: window}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := keyPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", redisKey, err)
	}

	// TTL reports -1 for a key with no expiry.
	if ttl.Val() < 0 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}
	return incr.Val() <= r.max, nil
}
