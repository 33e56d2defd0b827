package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ermoeini/google-serp-filtered-external-links/pkg/failure"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/timeutil"
)

// Retry executes the provided function with retry logic.
// It will retry the function up to MaxAttempts total attempts, applying
// exponential backoff between attempts: the sleep between attempt i
// (0-indexed) and attempt i+1 is unit * base^i, with optional jitter.
// No sleep happens after the final attempt. Only retryable errors trigger
// a retry; a non-retryable error is returned immediately.
//
// The backoff sleep is a cancellable scope: a cancelled ctx wakes the
// sleep and surfaces a RetryError with ErrCancelled so no pending sleep
// outlives the caller.
//
// Type parameter T represents the return type of the function being retried.
func Retry[T any](ctx context.Context, param Param, fn func() (T, failure.ClassifiedError)) (T, failure.ClassifiedError) {
	var lastErr failure.ClassifiedError
	var zero T

	if param.MaxAttempts < 1 {
		return zero, &RetryError{
			Message:   "max attempt cannot be 0",
			Cause:     ErrZeroAttempt,
			Retryable: true,
		}
	}

	rng := rand.New(rand.NewSource(param.RandomSeed))

	for attempt := 0; attempt < param.MaxAttempts; attempt++ {
		result, err := fn()

		// Success case: no error
		if err == nil {
			return result, nil
		}

		lastErr = err

		// If not retryable, return immediately
		if !isErrorRetryable(err) {
			return zero, err
		}

		// If this was the last attempt, break and return exhausted error
		if attempt == param.MaxAttempts-1 {
			break
		}

		backoffDelay := timeutil.ExponentialBackoffDelay(
			attempt,
			param.Jitter,
			rng,
			param.BackoffParam,
		)

		if err := sleep(ctx, backoffDelay); err != nil {
			return zero, &RetryError{
				Message:   fmt.Sprintf("cancelled while backing off: %v", err),
				Cause:     ErrCancelled,
				Retryable: false,
				Last:      lastErr,
			}
		}
	}

	// Return the "zero value" of T and the final error when reached max attempts
	return zero, &RetryError{
		Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", param.MaxAttempts, lastErr),
		Cause:     ErrExhaustedAttempts,
		Retryable: true, // recoverable at crawler level
		Last:      lastErr,
	}
}

// sleep waits for the given delay or until ctx is done, whichever comes first.
func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isErrorRetryable checks if an error should be retried.
// It uses type assertion to check for the Retryable property.
func isErrorRetryable(err failure.ClassifiedError) bool {
	type hasRetryable interface {
		IsRetryable() bool
	}

	if r, ok := err.(hasRetryable); ok {
		return r.IsRetryable()
	}

	// Default to retryable if we can't determine
	return true
}
