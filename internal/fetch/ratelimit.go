package fetch

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between consecutive calls that share
// a key. The first call for a key never waits.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastCall    map[string]time.Time
	now         func() time.Time
	sleep       func(context.Context, time.Duration) error
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithClock overrides the time source used to measure spacing.
func WithClock(now func() time.Time) LimiterOption {
	return func(r *RateLimiter) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSleeper overrides how the limiter waits out the remaining interval.
func WithSleeper(sleep func(context.Context, time.Duration) error) LimiterOption {
	return func(r *RateLimiter) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// NewRateLimiter builds a limiter with the given minimum spacing. A
// non-positive interval disables waiting but still tracks call times.
func NewRateLimiter(minInterval time.Duration, opts ...LimiterOption) *RateLimiter {
	if minInterval < 0 {
		minInterval = 0
	}
	r := &RateLimiter{
		minInterval: minInterval,
		lastCall:    make(map[string]time.Time),
		now:         time.Now,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until the slot for key is free, then claims it. The slot is
// claimed with the clock reading taken after the wait so the next caller is
// spaced from the actual call, not from when this caller arrived.
func (r *RateLimiter) Wait(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.lastCall[key]; ok {
		if wait := r.minInterval - r.now().Sub(last); wait > 0 {
			if err := r.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	r.lastCall[key] = r.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
