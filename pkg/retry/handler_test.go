package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ermoeini/google-serp-filtered-external-links/pkg/failure"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/retry"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastBackoffParam returns a backoff parameter small enough for tests
func fastBackoffParam() timeutil.BackoffParam {
	return timeutil.NewBackoffParam(
		10*time.Millisecond,
		2.0,
		time.Second,
	)
}

func fastParam(maxAttempts int) retry.Param {
	return retry.NewParam(0, 42, maxAttempts, fastBackoffParam())
}

// mockError is a mock implementation of failure.ClassifiedError for testing
type mockError struct {
	msg       string
	retryable bool
}

func (m *mockError) Error() string {
	return m.msg
}

func (m *mockError) Severity() failure.Severity {
	if m.retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (m *mockError) IsRetryable() bool {
	return m.retryable
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	callCount := 0
	fn := func() (string, failure.ClassifiedError) {
		callCount++
		return "success", nil
	}

	result, err := retry.Retry(context.Background(), fastParam(3), fn)

	require.Nil(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	// Fails n < maxAttempts times, then succeeds: must yield a success.
	tests := []struct {
		name        string
		failures    int
		maxAttempts int
	}{
		{"one failure then success", 1, 3},
		{"two failures then success", 2, 3},
		{"four failures then success", 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callCount := 0
			fn := func() (int, failure.ClassifiedError) {
				callCount++
				if callCount <= tt.failures {
					return 0, &mockError{msg: "transient", retryable: true}
				}
				return 7, nil
			}

			result, err := retry.Retry(context.Background(), fastParam(tt.maxAttempts), fn)

			require.Nil(t, err)
			assert.Equal(t, 7, result)
			assert.Equal(t, tt.failures+1, callCount)
		})
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	callCount := 0
	fn := func() (string, failure.ClassifiedError) {
		callCount++
		return "", &mockError{msg: "always failing", retryable: true}
	}

	result, err := retry.Retry(context.Background(), fastParam(3), fn)

	require.NotNil(t, err)
	assert.Empty(t, result)
	// Exactly maxAttempts total attempts, no more
	assert.Equal(t, 3, callCount)

	var retryErr *retry.RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, retry.RetryErrorCause(retry.ErrExhaustedAttempts), retryErr.Cause)
	assert.NotNil(t, retryErr.Last)
}

func TestRetry_NonRetryableErrorReturnsImmediately(t *testing.T) {
	callCount := 0
	fatalErr := &mockError{msg: "fatal", retryable: false}
	fn := func() (string, failure.ClassifiedError) {
		callCount++
		return "", fatalErr
	}

	_, err := retry.Retry(context.Background(), fastParam(5), fn)

	require.NotNil(t, err)
	assert.Equal(t, 1, callCount)
	assert.Same(t, failure.ClassifiedError(fatalErr), err)
}

func TestRetry_ZeroMaxAttemptsIsAnError(t *testing.T) {
	fn := func() (string, failure.ClassifiedError) {
		t.Fatal("fn must not be called")
		return "", nil
	}

	_, err := retry.Retry(context.Background(), fastParam(0), fn)

	var retryErr *retry.RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, retry.RetryErrorCause(retry.ErrZeroAttempt), retryErr.Cause)
}

func TestRetry_BackoffDelaysFollowBasePowAttempt(t *testing.T) {
	// unit=20ms, base=2: expected sleeps 20ms then 40ms between the three
	// attempts. Wall-clock gaps can only be larger, never smaller.
	param := retry.NewParam(0, 42, 3, timeutil.NewBackoffParam(
		20*time.Millisecond,
		2.0,
		time.Second,
	))

	var attemptTimes []time.Time
	fn := func() (string, failure.ClassifiedError) {
		attemptTimes = append(attemptTimes, time.Now())
		return "", &mockError{msg: "transient", retryable: true}
	}

	_, err := retry.Retry(context.Background(), param, fn)
	require.NotNil(t, err)
	require.Len(t, attemptTimes, 3)

	firstGap := attemptTimes[1].Sub(attemptTimes[0])
	secondGap := attemptTimes[2].Sub(attemptTimes[1])

	assert.GreaterOrEqual(t, firstGap, 20*time.Millisecond)
	assert.GreaterOrEqual(t, secondGap, 40*time.Millisecond)
	assert.Greater(t, secondGap, firstGap)
}

func TestRetry_NoSleepAfterFinalAttempt(t *testing.T) {
	// With a large backoff unit, an exhausted retry must still return
	// promptly after the last attempt: only maxAttempts-1 sleeps happen.
	param := retry.NewParam(0, 42, 2, timeutil.NewBackoffParam(
		50*time.Millisecond,
		2.0,
		time.Second,
	))

	fn := func() (string, failure.ClassifiedError) {
		return "", &mockError{msg: "transient", retryable: true}
	}

	start := time.Now()
	_, err := retry.Retry(context.Background(), param, fn)
	elapsed := time.Since(start)

	require.NotNil(t, err)
	// One inter-attempt sleep of 50ms; allow generous headroom but assert
	// we did not also pay the would-be second sleep of 100ms.
	assert.Less(t, elapsed, 120*time.Millisecond)
}

func TestRetry_CancelledContextWakesBackoffSleep(t *testing.T) {
	param := retry.NewParam(0, 42, 3, timeutil.NewBackoffParam(
		10*time.Second,
		2.0,
		time.Minute,
	))

	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	fn := func() (string, failure.ClassifiedError) {
		callCount++
		cancel()
		return "", &mockError{msg: "transient", retryable: true}
	}

	start := time.Now()
	_, err := retry.Retry(ctx, param, fn)
	elapsed := time.Since(start)

	require.NotNil(t, err)
	assert.Equal(t, 1, callCount)
	// The 10s backoff sleep must be abandoned immediately.
	assert.Less(t, elapsed, time.Second)

	var retryErr *retry.RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, retry.RetryErrorCause(retry.ErrCancelled), retryErr.Cause)
}

func TestRetryError_UnwrapExposesLastError(t *testing.T) {
	last := &mockError{msg: "inner", retryable: true}
	retryErr := &retry.RetryError{
		Message: "outer",
		Cause:   retry.ErrExhaustedAttempts,
		Last:    last,
	}

	var inner *mockError
	require.True(t, errors.As(retryErr, &inner))
	assert.Equal(t, "inner", inner.msg)
}
