package hashutil_test

import (
	"testing"

	"github.com/ermoeini/google-serp-filtered-external-links/pkg/hashutil"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	data := []byte("deterministic test data")

	hash1 := hashutil.Fingerprint(data)
	hash2 := hashutil.Fingerprint(data)

	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, 64) // 32 bytes = 64 hex characters
}

func TestFingerprint_DifferentDataProducesDifferentHashes(t *testing.T) {
	hash1 := hashutil.Fingerprint([]byte("data set 1"))
	hash2 := hashutil.Fingerprint([]byte("data set 2"))
	assert.NotEqual(t, hash1, hash2)
}

func TestFingerprintStrings_Deterministic(t *testing.T) {
	parts := []string{"https://a.com", "https://b.com/z", "https://b.com/z"}

	hash1 := hashutil.FingerprintStrings(parts)
	hash2 := hashutil.FingerprintStrings(parts)

	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, 64)
}

func TestFingerprintStrings_BoundariesMatter(t *testing.T) {
	// Length prefixing means concatenation-equal inputs still differ.
	hash1 := hashutil.FingerprintStrings([]string{"ab", "c"})
	hash2 := hashutil.FingerprintStrings([]string{"a", "bc"})
	assert.NotEqual(t, hash1, hash2)
}

func TestFingerprintStrings_OrderMatters(t *testing.T) {
	hash1 := hashutil.FingerprintStrings([]string{"x", "y"})
	hash2 := hashutil.FingerprintStrings([]string{"y", "x"})
	assert.NotEqual(t, hash1, hash2)
}

func TestFingerprintStrings_EmptyInput(t *testing.T) {
	hash1 := hashutil.FingerprintStrings(nil)
	hash2 := hashutil.FingerprintStrings([]string{})
	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, 64)
}
