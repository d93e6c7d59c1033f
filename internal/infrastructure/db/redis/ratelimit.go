package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateDecision is the outcome of one limiter hit.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts hits per key in fixed windows.
// Key format: <prefix>:<key>:<window_start_unix>
type RateLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit hits per key in every window.
func NewRateLimiter(client redis.Cmdable, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	start := l.now().Truncate(l.window)
	resetAt := start.Add(l.window)
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, start.Unix())

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireAt(ctx, k, resetAt)
		return nil
	})
	if err != nil {
		return RateDecision{}, fmt.Errorf("rate limit hit: %w", err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return RateDecision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
