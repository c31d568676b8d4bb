package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "ratelimit:"

// tokenBucketScript applies refill and consumption atomically. State lives in a
// hash {tokens, lastRefill(ms)} that expires after two idle windows.
var tokenBucketScript = redis.NewScript(`
local maxTokens = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])
local nowMs = tonumber(ARGV[3])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'lastRefill')
local tokens = tonumber(state[1])
local lastRefill = tonumber(state[2])
if tokens == nil or lastRefill == nil then
  tokens = maxTokens
  lastRefill = nowMs
end

-- Instances may disagree on the time; a clock behind lastRefill refills nothing.
local elapsed = math.max(0, nowMs - lastRefill)
tokens = math.max(0, math.min(maxTokens, tokens + elapsed * maxTokens / windowMs))
if nowMs > lastRefill then
  lastRefill = nowMs
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'lastRefill', tostring(lastRefill))
redis.call('PEXPIRE', KEYS[1], windowMs * 2)
return allowed
`)

// RedisLimiter shares buckets between service instances through redis.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

// Allow consumes one token from key's bucket or returns ErrRateLimited.
func (r *RedisLimiter) Allow(ctx context.Context, key string, policy Policy) error {
	if !policy.Valid() {
		return fmt.Errorf("invalid rate limit policy %+v", policy)
	}

	allowed, err := tokenBucketScript.Run(ctx, r.client, []string{redisKeyPrefix + key},
		policy.MaxTokens, policy.Window.Milliseconds(), r.now().UnixMilli()).Int()
	if err != nil {
		return fmt.Errorf("rate limit script failed for %s: %w", key, err)
	}
	if allowed != 1 {
		return ErrRateLimited
	}
	return nil
}
