package resultset

import (
	"net/url"

	"github.com/ermoeini/google-serp-filtered-external-links/pkg/urlutil"
)

// Crawl input & ordering

/*
Resultset Responsibilities
- Hold the ordered candidate URLs produced by the result scraper
- Derive the set of known result domains exactly once, before fan-out
- Answer domain membership questions during link extraction
- Knows nothing about:
	- fetching
	- extraction
	- concurrency

It is a data structure, not a pipeline executor.
*/

// Candidates is the ordered list of result-page URLs. Position matters:
// the crawl output preserves this order 1:1, duplicates included.
type Candidates []url.URL

// NewCandidates parses raw URL strings in order. Strings that are not
// syntactically complete URLs are kept out; the caller decides whether a
// shrunken list is acceptable.
func NewCandidates(raw []string) Candidates {
	candidates := make(Candidates, 0, len(raw))
	for _, r := range raw {
		if u, ok := urlutil.ParseAbsolute(r); ok {
			candidates = append(candidates, u)
		}
	}
	return candidates
}

// Strings returns the candidate URLs in order.
func (c Candidates) Strings() []string {
	out := make([]string, len(c))
	for i, u := range c {
		out[i] = u.String()
	}
	return out
}

// DomainSet is the set of domains belonging to the candidate result set.
// It is computed once before fan-out and read-only afterwards, so concurrent
// tasks may share it without synchronization.
type DomainSet map[string]struct{}

// NewDomainSet derives the known result-domain set from the candidates.
// Duplicate candidate domains collapse into one membership entry; this does
// not affect the positional 1:1 guarantee of the crawl output.
func NewDomainSet(candidates Candidates) DomainSet {
	set := make(DomainSet, len(candidates))
	for _, u := range candidates {
		set[urlutil.Domain(u)] = struct{}{}
	}
	return set
}

// Contains reports whether the given domain belongs to the result set.
func (d DomainSet) Contains(domain string) bool {
	_, ok := d[domain]
	return ok
}
