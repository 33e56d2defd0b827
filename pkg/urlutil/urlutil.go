package urlutil

import (
	"net/url"
	"strings"
)

// Domain returns the lowercased hostname of a URL, without port.
// Domain identity is the unit of the "known result domain set": two URLs
// belong to the same domain iff Domain(a) == Domain(b).
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
func Domain(u url.URL) string {
	return lowerASCII(u.Hostname())
}

// ParseAbsolute parses raw as a URL and reports whether it is a
// syntactically complete URL: it must carry both a scheme and a host.
// Relative references, fragments, and bare paths all fail this test.
func ParseAbsolute(raw string) (url.URL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return url.URL{}, false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return url.URL{}, false
	}
	return *parsed, true
}

// ContainsAny reports whether s contains any of the given substrings.
// An empty substring list never matches; empty substrings are skipped so a
// stray blank exclusion line cannot wipe out every result.
func ContainsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub == "" {
			continue
		}
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
