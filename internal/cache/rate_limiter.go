package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult describes the state of one fixed window after a hit
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error)
}

type redisRateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimiter counts hits per key in fixed windows shared by every instance
func NewRedisRateLimiter(client *redis.Client, prefix string) RateLimiter {
	return &redisRateLimiter{client: client, prefix: prefix}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	fullKey := l.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		ttl = pipe.PTTL(ctx, fullKey)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to record rate limit hit: %w", err)
	}
	count := int(incr.Val())

	// a counter without expiry opens the window, whether this is the first hit
	// or an earlier hit lost its PEXPIRE
	resetIn := ttl.Val()
	if resetIn < 0 {
		if err := l.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return nil, fmt.Errorf("failed to set rate limit window: %w", err)
		}
		resetIn = window
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
