package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisLimiterMatchesBucketRules(t *testing.T) {
	client := startRedis(t)
	clock := newFakeClock()
	lim := NewRedisLimiter(client)
	lim.now = clock.Now
	policy := Policy{MaxTokens: 4, Window: 4 * time.Second}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, lim.Allow(ctx, "themes:create:admin", policy))
	}
	require.ErrorIs(t, lim.Allow(ctx, "themes:create:admin", policy), ErrRateLimited)

	clock.Advance(time.Second)
	require.NoError(t, lim.Allow(ctx, "themes:create:admin", policy))
	require.ErrorIs(t, lim.Allow(ctx, "themes:create:admin", policy), ErrRateLimited)

	ttl, err := client.PTTL(ctx, redisKeyPrefix+"themes:create:admin").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 8*time.Second)
}

func TestRedisLimiterToleratesSkewedInstances(t *testing.T) {
	client := startRedis(t)
	ahead, behind := newFakeClock(), newFakeClock()
	ahead.Advance(2 * time.Second)

	first := NewRedisLimiter(client)
	first.now = ahead.Now
	second := NewRedisLimiter(client)
	second.now = behind.Now
	policy := Policy{MaxTokens: 2, Window: 2 * time.Second}
	ctx := context.Background()
	key := "eco:view:203.0.113.7"

	require.NoError(t, first.Allow(ctx, key, policy))
	require.NoError(t, first.Allow(ctx, key, policy))
	require.ErrorIs(t, second.Allow(ctx, key, policy), ErrRateLimited)

	tokens, err := client.HGet(ctx, redisKeyPrefix+key, "tokens").Float64()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, tokens, 0.0)

	// The lagging clock must not move lastRefill backwards.
	ahead.Advance(time.Second)
	require.NoError(t, first.Allow(ctx, key, policy))
	require.ErrorIs(t, first.Allow(ctx, key, policy), ErrRateLimited)
}
