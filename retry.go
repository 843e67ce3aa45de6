package qsynth

import "errors"

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxAttempts int
	Filter      func(error) bool
}

// degenerateRetry reruns a circuit once when a measurement finds no probability mass.
func degenerateRetry() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 2,
		Filter: func(err error) bool {
			return errors.Is(err, ErrDegenerateDistribution)
		},
	}
}

/*
Do calls fn until it succeeds, the filter rejects the error, or attempts run out. The
last error is returned unchanged.
*/
func (p *RetryPolicy) Do(fn func(attempt int) error) error {
	var lastErr error

	for attempt := 0; attempt < max(p.MaxAttempts, 1); attempt++ {
		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}

		if p.Filter != nil && !p.Filter(lastErr) {
			break
		}
	}

	return lastErr
}
