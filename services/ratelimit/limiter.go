// Package ratelimit implements a continuous-refill token bucket keyed by caller.
//
// A bucket starts full with MaxTokens. Tokens refill linearly at
// MaxTokens/Window per unit of time, capped at MaxTokens. Each admitted request
// consumes one token; a rejected request consumes nothing.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrRateLimited is returned when a bucket holds less than one token.
var ErrRateLimited = errors.New("rate limit exceeded")

// Policy configures a bucket.
type Policy struct {
	MaxTokens int
	Window    time.Duration
}

// Valid reports whether the policy can drive a bucket.
func (p Policy) Valid() bool {
	return p.MaxTokens > 0 && p.Window > 0
}

// Scaled returns a policy whose capacity is min(p.MaxTokens, limit).
// A non-positive limit leaves the policy unchanged.
func (p Policy) Scaled(limit int) Policy {
	if limit > 0 && limit < p.MaxTokens {
		p.MaxTokens = limit
	}
	return p
}

// Limiter admits or rejects one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string, policy Policy) error
}
