package suggestions

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const runGuardPrefix = "ai:generate:"

// runGuardTTL outlives the scheduled job timeout so a crashed run eventually frees the theme.
const runGuardTTL = 3 * time.Minute

// RunGuard ensures one generation per theme at a time across callers.
type RunGuard interface {
	// Acquire reports false when another run holds the theme.
	Acquire(ctx context.Context, themeWeekID string) (bool, error)
	Release(ctx context.Context, themeWeekID string) error
}

// RedisRunGuard shares the guard between instances.
type RedisRunGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRunGuard(client *redis.Client) *RedisRunGuard {
	return &RedisRunGuard{client: client, ttl: runGuardTTL}
}

func (g *RedisRunGuard) Acquire(ctx context.Context, themeWeekID string) (bool, error) {
	return g.client.SetNX(ctx, runGuardPrefix+themeWeekID, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

func (g *RedisRunGuard) Release(ctx context.Context, themeWeekID string) error {
	return g.client.Del(ctx, runGuardPrefix+themeWeekID).Err()
}

// LocalRunGuard serializes runs inside one process.
type LocalRunGuard struct {
	mu      sync.Mutex
	running map[string]bool
}

func NewLocalRunGuard() *LocalRunGuard {
	return &LocalRunGuard{running: map[string]bool{}}
}

func (g *LocalRunGuard) Acquire(_ context.Context, themeWeekID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[themeWeekID] {
		return false, nil
	}
	g.running[themeWeekID] = true
	return true, nil
}

func (g *LocalRunGuard) Release(_ context.Context, themeWeekID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, themeWeekID)
	return nil
}
