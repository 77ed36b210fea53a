package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Time, err error)
}

// MemoryLimiter is a fixed-window limiter held in process memory.
type MemoryLimiter struct {
	limiter *limiter.Limiter
}

// NewMemoryLimiter allows max requests per key within each window.
func NewMemoryLimiter(window time.Duration, max int) *MemoryLimiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "teller",
		CleanUpInterval: window,
	})
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	return &MemoryLimiter{limiter: limiter.New(store, rate)}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	res, err := l.limiter.Get(ctx, key)
	if err != nil {
		return false, 0, time.Time{}, err
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}
