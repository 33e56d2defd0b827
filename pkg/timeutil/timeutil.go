package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoffDelay computes the delay to wait after a failed attempt.
// attempt is 0-indexed: the delay between attempt i and attempt i+1 is
// unit * base^i, capped at the configured maximum, plus jitter when given.
func ExponentialBackoffDelay(
	attempt int,
	jitter time.Duration,
	rng *rand.Rand,
	param BackoffParam,
) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(param.unit) * math.Pow(param.base, float64(attempt))
	if param.maxDuration > 0 && delay > float64(param.maxDuration) {
		delay = float64(param.maxDuration)
	}

	d := time.Duration(delay)
	if jitter > 0 && rng != nil {
		d += time.Duration(rng.Int63n(int64(jitter)))
	}
	return d
}

// MaxDuration returns the largest duration in the slice, or zero for an
// empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range durations {
		if d > max {
			max = d
		}
	}
	return max
}

// DurationPtr is a helper function to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}
