// Package retry provides bounded retries with exponential backoff for
// transient failures in outbound adapters.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Config controls retry behavior.
type Config struct {
	// Attempts is the total number of tries, including the first. Values
	// below 1 are treated as 1.
	Attempts int

	// MinDelay is the delay before the first retry.
	MinDelay time.Duration

	// MaxDelay caps the exponential growth of the delay.
	MaxDelay time.Duration

	// Jitter adds up to one extra MinDelay of randomness to every wait,
	// so synchronized clients do not hammer an API in lockstep.
	Jitter bool
}

// Defaults returns a configuration suitable for REST API calls.
func Defaults() Config {
	return Config{
		Attempts: 4,
		MinDelay: 500 * time.Millisecond,
		MaxDelay: 10 * time.Second,
		Jitter:   true,
	}
}

// Retryable marks errors worth retrying. Anything not wrapped with it is
// returned to the caller on the first occurrence.
type Retryable struct {
	Err error
}

func (e *Retryable) Error() string { return e.Err.Error() }

func (e *Retryable) Unwrap() error { return e.Err }

// Mark wraps err as retryable.
func Mark(err error) error {
	if err == nil {
		return nil
	}
	return &Retryable{Err: err}
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted, or ctx is cancelled. onRetry, if non-nil, is called before
// each wait with the 1-based retry attempt and the error that caused it.
func Do[T any](ctx context.Context, cfg Config, onRetry func(attempt int, err error, wait time.Duration), fn func() (T, error)) (T, error) {
	var zero T
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}

	delay := cfg.MinDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		var retryable *Retryable
		if !asRetryable(err, &retryable) {
			return zero, err
		}
		lastErr = retryable.Err

		if attempt == cfg.Attempts {
			break
		}

		wait := delay
		if cfg.Jitter {
			wait += time.Duration(rand.Int63n(int64(cfg.MinDelay)))
		}
		if onRetry != nil {
			onRetry(attempt, lastErr, wait)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(wait):
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return zero, fmt.Errorf("giving up after %d attempts: %w", cfg.Attempts, lastErr)
}

func asRetryable(err error, target **Retryable) bool {
	for err != nil {
		if r, ok := err.(*Retryable); ok {
			*target = r
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
