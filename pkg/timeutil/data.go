package timeutil

import "time"

// Exponential backoff parameters
// example:
//
//	unit := 1 * time.Second      // One backoff time unit
//	base := 2.0                  // Delay grows as base^attempt
//	maxDuration := 30 * time.Second // Cap

type BackoffParam struct {
	unit        time.Duration
	base        float64
	maxDuration time.Duration
}

func NewBackoffParam(
	unit time.Duration,
	base float64,
	maxDuration time.Duration,
) BackoffParam {
	return BackoffParam{
		unit:        unit,
		base:        base,
		maxDuration: maxDuration,
	}
}

func (b *BackoffParam) Unit() time.Duration {
	return b.unit
}

func (b *BackoffParam) Base() float64 {
	return b.base
}

func (b *BackoffParam) MaxDuration() time.Duration {
	return b.maxDuration
}
