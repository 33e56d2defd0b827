package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// AdmissionGate
// Specialized component to bound simultaneous in-flight work during crawling
// Responsibilities:
// - Admit at most `limit` holders at any instant
// - Block additional callers until a slot frees
// - Hand a freed slot to the next waiting caller on a first-ready basis
// - Respect caller cancellation while waiting
type AdmissionGate interface {
	Enter(ctx context.Context) error
	Leave()
	Limit() int
}

type CountingGate struct {
	sem   *semaphore.Weighted
	limit int
}

func NewCountingGate(limit int) *CountingGate {
	if limit < 1 {
		limit = 1
	}
	return &CountingGate{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// Enter blocks until a slot is available or ctx is done.
func (g *CountingGate) Enter(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Leave releases a previously acquired slot.
// Calling Leave without a matching Enter is a programming error.
func (g *CountingGate) Leave() {
	g.sem.Release(1)
}

func (g *CountingGate) Limit() int {
	return g.limit
}
