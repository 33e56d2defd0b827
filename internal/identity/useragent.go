package identity

import (
	"math/rand"
	"sync"
	"time"
)

// The identity header is process-wide, read-only configuration: one value is
// picked before any fetch and reused for every request of the run, so the
// fetcher stays callable concurrently without synchronization.

// userAgentPool holds realistic browser identities. One entry is selected
// once per process lifetime, not per request.
var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

var (
	once     sync.Once
	selected string
)

// UserAgent returns the process-wide User-Agent string. The first call picks
// a random entry from the pool; every later call returns the same value.
func UserAgent() string {
	once.Do(func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		selected = userAgentPool[rng.Intn(len(userAgentPool))]
	})
	return selected
}

// Override pins the process-wide User-Agent to the given value. It only has
// effect when called before the first UserAgent call; a later call is a
// no-op because the identity must stay fixed for the run.
func Override(userAgent string) {
	if userAgent == "" {
		return
	}
	once.Do(func() {
		selected = userAgent
	})
}
