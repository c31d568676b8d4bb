package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestMemoryLimiterBurstThenReject(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now))
	policy := Policy{MaxTokens: 3, Window: 60 * time.Second}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, lim.Allow(ctx, "items:create:u1", policy), "request %d", i)
	}
	assert.ErrorIs(t, lim.Allow(ctx, "items:create:u1", policy), ErrRateLimited)
}

func TestMemoryLimiterRefillsContinuously(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now))
	policy := Policy{MaxTokens: 4, Window: 4 * time.Second}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, lim.Allow(ctx, "k", policy))
	}
	require.ErrorIs(t, lim.Allow(ctx, "k", policy), ErrRateLimited)

	clock.Advance(500 * time.Millisecond)
	require.ErrorIs(t, lim.Allow(ctx, "k", policy), ErrRateLimited)

	// A rejected call does not consume, so the half token carries over.
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, lim.Allow(ctx, "k", policy))
	require.ErrorIs(t, lim.Allow(ctx, "k", policy), ErrRateLimited)
}

func TestMemoryLimiterCapsAtMaxTokens(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now))
	policy := Policy{MaxTokens: 2, Window: time.Second}
	ctx := context.Background()

	require.NoError(t, lim.Allow(ctx, "k", policy))
	clock.Advance(time.Hour)

	admitted := 0
	for i := 0; i < 5; i++ {
		if lim.Allow(ctx, "k", policy) == nil {
			admitted++
		}
	}
	assert.Equal(t, 2, admitted)
}

func TestMemoryLimiterAdmissionsBoundedOverInterval(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now))
	policy := Policy{MaxTokens: 5, Window: 10 * time.Second}
	ctx := context.Background()

	// Hammer every 100ms for 20s: at most max + 20s*max/window admissions.
	admitted := 0
	for step := 0; step <= 200; step++ {
		if lim.Allow(ctx, "k", policy) == nil {
			admitted++
		}
		clock.Advance(100 * time.Millisecond)
	}
	assert.LessOrEqual(t, admitted, 5+10)
	assert.GreaterOrEqual(t, admitted, 14)
}

func TestMemoryLimiterNeverRejectsSpacedCalls(t *testing.T) {
	policies := []Policy{
		{MaxTokens: 1, Window: time.Second},
		{MaxTokens: 3, Window: 10 * time.Second},
		{MaxTokens: 7, Window: time.Minute},
		{MaxTokens: 30, Window: time.Minute},
		{MaxTokens: 40, Window: 15 * time.Second},
	}
	ctx := context.Background()

	for _, policy := range policies {
		clock := newFakeClock()
		lim := NewMemoryLimiter(WithClock(clock.Now))
		// One millisecond over W/M absorbs integer division.
		spacing := policy.Window/time.Duration(policy.MaxTokens) + time.Millisecond

		for i := 0; i < 3*policy.MaxTokens+5; i++ {
			require.NoError(t, lim.Allow(ctx, "spaced", policy), "policy %+v call %d", policy, i)
			clock.Advance(spacing)
		}
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now))
	policy := Policy{MaxTokens: 1, Window: time.Minute}
	ctx := context.Background()

	require.NoError(t, lim.Allow(ctx, "a", policy))
	require.ErrorIs(t, lim.Allow(ctx, "a", policy), ErrRateLimited)
	assert.NoError(t, lim.Allow(ctx, "b", policy))
}

func TestMemoryLimiterSweepsIdleBuckets(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now), WithSweepInterval(time.Second))
	policy := Policy{MaxTokens: 1, Window: time.Second}
	ctx := context.Background()

	require.NoError(t, lim.Allow(ctx, "a", policy))
	require.NoError(t, lim.Allow(ctx, "b", policy))
	require.Equal(t, 2, lim.Len())

	clock.Advance(2 * time.Second)
	require.NoError(t, lim.Allow(ctx, "c", policy))
	assert.Equal(t, 1, lim.Len())
}

func TestMemoryLimiterConcurrentCallers(t *testing.T) {
	clock := newFakeClock()
	lim := NewMemoryLimiter(WithClock(clock.Now))
	policy := Policy{MaxTokens: 10, Window: time.Minute}
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if lim.Allow(ctx, "shared", policy) == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, admitted)
}

func TestPolicyScaled(t *testing.T) {
	p := Policy{MaxTokens: 30, Window: time.Minute}
	assert.Equal(t, 5, p.Scaled(5).MaxTokens)
	assert.Equal(t, 30, p.Scaled(40).MaxTokens)
	assert.Equal(t, 30, p.Scaled(0).MaxTokens)
	assert.Error(t, NewMemoryLimiter().Allow(context.Background(), "k", Policy{}))
}
