package utils

import (
	"context"
	"fmt"
	"time"

	"secondlife/config"

	"github.com/go-redis/redis/v8"
)

// RateLimitClient backs the shared token buckets and the generation guard.
var RateLimitClient *redis.Client

// InitRateLimitCache connects the Redis client used for rate limiting.
func InitRateLimitCache(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRateLimitDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (rate limit): %w", err)
	}
	RateLimitClient = client
	return client, nil
}
