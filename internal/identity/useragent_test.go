package identity_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/ermoeini/google-serp-filtered-external-links/internal/identity"
	"github.com/stretchr/testify/assert"
)

func TestUserAgent_StableAcrossCalls(t *testing.T) {
	first := identity.UserAgent()
	assert.NotEmpty(t, first)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, identity.UserAgent())
	}
}

func TestUserAgent_StableUnderConcurrency(t *testing.T) {
	expected := identity.UserAgent()

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = identity.UserAgent()
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, expected, got)
	}
}

func TestUserAgent_LooksLikeABrowser(t *testing.T) {
	assert.True(t, strings.HasPrefix(identity.UserAgent(), "Mozilla/5.0"))
}

func TestOverride_AfterSelectionIsNoop(t *testing.T) {
	// The identity is already fixed by the calls above; overriding now must
	// not change it.
	before := identity.UserAgent()
	identity.Override("test-agent/1.0")
	assert.Equal(t, before, identity.UserAgent())
}
