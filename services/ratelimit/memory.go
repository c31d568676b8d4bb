package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	policy   Policy
	lastSeen time.Time
}

// MemoryLimiter keeps buckets in process memory. Each bucket is a
// golang.org/x/time/rate limiter with burst MaxTokens and rate MaxTokens/Window,
// which is the same continuous refill.
type MemoryLimiter struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	now           func() time.Time
	sweepInterval time.Duration
	lastSweep     time.Time
}

// MemoryOption customizes a MemoryLimiter.
type MemoryOption func(*MemoryLimiter)

// WithClock replaces the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryLimiter) { m.now = now }
}

// WithSweepInterval sets how often idle buckets are dropped.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(m *MemoryLimiter) { m.sweepInterval = d }
}

func NewMemoryLimiter(opts ...MemoryOption) *MemoryLimiter {
	m := &MemoryLimiter{
		buckets:       make(map[string]*bucket),
		now:           time.Now,
		sweepInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m
}

func newBucket(p Policy) *bucket {
	perSecond := float64(p.MaxTokens) / p.Window.Seconds()
	return &bucket{
		limiter: rate.NewLimiter(rate.Limit(perSecond), p.MaxTokens),
		policy:  p,
	}
}

// Allow consumes one token from key's bucket or returns ErrRateLimited.
func (m *MemoryLimiter) Allow(_ context.Context, key string, policy Policy) error {
	if !policy.Valid() {
		return fmt.Errorf("invalid rate limit policy %+v", policy)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	b, ok := m.buckets[key]
	if !ok || b.policy != policy {
		b = newBucket(policy)
		m.buckets[key] = b
	}
	b.lastSeen = now

	if !b.limiter.AllowN(now, 1) {
		return ErrRateLimited
	}
	return nil
}

// sweep drops buckets idle for a full window. Such a bucket has refilled to
// capacity, so recreating it later is indistinguishable. Callers hold m.mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.sweepInterval {
		return
	}
	m.lastSweep = now
	for key, b := range m.buckets {
		if now.Sub(b.lastSeen) >= b.policy.Window {
			delete(m.buckets, key)
		}
	}
}

// Len returns the number of live buckets.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
