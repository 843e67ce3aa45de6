package qsynth

import (
	"context"
	"sync"
	"time"
)

/*
RateLimiter is a token bucket that paces record generation. Up to maxTokens records may
start back to back; after that one more is admitted every refillRate.
*/
type RateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

/*
NewRateLimiter creates a bucket holding maxTokens, refilled one token per refillRate.

Example:

	limiter := NewRateLimiter(100, 10*time.Millisecond) // bursts of 100, then 100/s
*/
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	maxTokens = max(maxTokens, 1)
	refillRate = max(refillRate, time.Microsecond)

	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// PerSecond admits rate records per second with a one second burst.
func PerSecond(rate int) *RateLimiter {
	rate = max(rate, 1)
	return NewRateLimiter(rate, time.Second/time.Duration(rate))
}

// Limit consumes a token when one is available and reports whether the caller must wait.
func (rl *RateLimiter) Limit() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return false
	}
	return true
}

// Wait blocks until a token is taken or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for rl.Limit() {
		timer := time.NewTimer(rl.refillRate / 2)

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// refill adds one token per whole refillRate elapsed, rounding at the half period.
// The caller holds mu.
func (rl *RateLimiter) refill() {
	elapsed := time.Since(rl.lastRefill)
	tokensToAdd := (elapsed + rl.refillRate/2) / rl.refillRate

	if tokensToAdd > 0 {
		rl.tokens = min(rl.maxTokens, rl.tokens+int(tokensToAdd))
		rl.lastRefill = rl.lastRefill.Add(tokensToAdd * rl.refillRate)
	}
}
