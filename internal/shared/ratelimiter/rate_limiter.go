// Package ratelimiter provides a token-bucket limiter for outbound
// registry calls.
package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Waiter is the interface consumed by the sync engine. Wait blocks until
// a token is available or ctx is cancelled; waiting is not a failure.
type Waiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter enforces the registry's published quota as a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

var _ Waiter = (*RateLimiter)(nil)

// NewRateLimiter creates a limiter allowing callsPerSecond sustained
// requests with the given burst capacity. A burst below 1 is raised to 1
// so the first call never blocks forever.
func NewRateLimiter(callsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(callsPerSecond), burst)}
}

// Wait blocks until the next call may be dispatched.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
