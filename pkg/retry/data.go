package retry

import (
	"time"

	"github.com/ermoeini/google-serp-filtered-external-links/pkg/timeutil"
)

// Param holds the parameters for retry logic.
// These parameters are passed from outside (e.g., config) and should not
// be known by the retry handler internally.
type Param struct {
	Jitter       time.Duration
	RandomSeed   int64
	MaxAttempts  int
	BackoffParam timeutil.BackoffParam
}

// NewParam creates a new Param with the given settings.
func NewParam(
	jitter time.Duration,
	randomSeed int64,
	maxAttempts int,
	backoffParam timeutil.BackoffParam,
) Param {
	return Param{
		Jitter:       jitter,
		RandomSeed:   randomSeed,
		MaxAttempts:  maxAttempts,
		BackoffParam: backoffParam,
	}
}

// DefaultParam is the retry policy used when the caller does not supply one:
// 3 total attempts, one-second backoff unit doubling each failure, no jitter.
func DefaultParam() Param {
	return Param{
		RandomSeed:  time.Now().UnixNano(),
		MaxAttempts: 3,
		BackoffParam: timeutil.NewBackoffParam(
			time.Second,
			2.0,
			30*time.Second,
		),
	}
}
