// Package retry provides a bounded exponential backoff policy with jitter for
// calls to external services.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy configures how many times an operation is attempted and how long to
// wait between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration
	// Multiplier grows the delay after each failed attempt.
	Multiplier float64
	// JitterFraction spreads each delay by +/- this fraction (0.0-1.0).
	JitterFraction float64
}

// DefaultPolicy retries a call up to three times in total.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// Classifier reports whether an error is worth another attempt.
type Classifier func(error) bool

// Always retries everything except context cancellation.
func Always(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do runs fn until it succeeds, returns a non-retryable error, the policy's
// attempts are used up, or ctx is done.
func Do(ctx context.Context, p Policy, classify Classifier, fn func(context.Context) error) error {
	if classify == nil {
		classify = Always
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	backoff := p.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !classify(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		sleep := backoff + jitter(backoff, p.JitterFraction)
		if p.MaxBackoff > 0 && sleep > p.MaxBackoff {
			sleep = p.MaxBackoff
		}
		if sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		if p.Multiplier > 0 {
			backoff = time.Duration(float64(backoff) * p.Multiplier)
		}
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// jitter returns a random duration in [-fraction*d, +fraction*d].
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return 0
	}
	spread := float64(d) * fraction
	return time.Duration((rand.Float64()*2 - 1) * spread)
}
