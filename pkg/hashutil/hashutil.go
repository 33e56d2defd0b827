package hashutil

import (
	"encoding/binary"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Fingerprint returns the BLAKE3 hash of data as a hex string.
func Fingerprint(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FingerprintStrings returns a stable BLAKE3 digest over an ordered sequence
// of strings. Each part is length-prefixed before hashing so that
// ["ab","c"] and ["a","bc"] produce different digests.
func FingerprintStrings(parts []string) string {
	h := blake3.New(32, nil)
	var lenBuf [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
