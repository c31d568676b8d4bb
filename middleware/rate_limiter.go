package middleware

import (
	"errors"

	"secondlife/services/ratelimit"
	"secondlife/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit admits one request per token from the bucket "<scope>:<caller>".
// The caller is the authenticated uid when present, the client IP otherwise.
// A positive maxTokens caps the base policy's capacity.
func RateLimit(limiter ratelimit.Limiter, base ratelimit.Policy, scope string, maxTokens int) gin.HandlerFunc {
	policy := base.Scaled(maxTokens)
	return func(c *gin.Context) {
		caller := utils.ClientIP(c)
		if authCtx, ok := AuthFromContext(c); ok {
			caller = authCtx.UID
		}
		key := scope + ":" + caller

		err := limiter.Allow(c.Request.Context(), key, policy)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, ratelimit.ErrRateLimited):
			zap.L().Warn("Rate limit exceeded", zap.String("key", key))
			utils.RespondError(c, utils.TooManyRequests())
		default:
			// A broken limiter store must not take the API down.
			zap.L().Error("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
		}
	}
}
