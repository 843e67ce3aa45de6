package qsynth

import (
	"fmt"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
BreakerState represents the state of the failure breaker.
*/
type BreakerState int

const (
	BreakerClosed BreakerState = iota // Records are being generated
	BreakerOpen                       // Too many consecutive failures, stop the run
)

/*
Breaker implements the abort-all policy of a batch driver. The core never stops a batch on
its own; a driver feeds every record outcome into a Breaker and stops once it opens.

Consecutive failures open the breaker. A success resets the count while it is still
closed; once open it stays open.
*/
type Breaker struct {
	mu           sync.RWMutex
	maxFailures  int
	failureCount int
	total        int
	state        BreakerState
}

/*
NewBreaker creates a breaker that opens after maxFailures consecutive failures. A value
below 1 is treated as 1.
*/
func NewBreaker(maxFailures int) *Breaker {
	return &Breaker{
		maxFailures: max(maxFailures, 1),
		state:       BreakerClosed,
	}
}

// RecordFailure records a failure and updates the breaker state
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.total++

	if b.state == BreakerClosed && b.failureCount >= b.maxFailures {
		b.state = BreakerOpen
		errnie.Warn("breaker opened after %d consecutive failures", b.failureCount)
	}
}

// RecordSuccess resets the consecutive failure count
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerClosed {
		b.failureCount = 0
	}
}

// Allow reports whether the run may continue
func (b *Breaker) Allow() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state == BreakerClosed
}

func (b *Breaker) State() BreakerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Failures is the total number of failures seen, consecutive or not.
func (b *Breaker) Failures() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.total
}

// Err describes why the breaker stopped the run, or nil while closed.
func (b *Breaker) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state == BreakerClosed {
		return nil
	}
	return fmt.Errorf("aborted after %d consecutive failed records", b.failureCount)
}
