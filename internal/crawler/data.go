package crawler

import (
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/hashutil"
)

// LinkRecord holds the extraction outcome for one candidate URL.
// It is created exactly once by the crawler and immutable afterwards.
// An empty ExternalLinks slice is the soft-failure marker: the page could
// not be fetched or parsed, or simply had no qualifying links.
type LinkRecord struct {
	SourceURL     string
	ExternalLinks []string
}

// CrawlResult is the sole artifact the crawl hands back to its caller:
// one record per input candidate URL, position-preserving, duplicates
// processed independently. len(Records) always equals the input length.
type CrawlResult struct {
	Records []LinkRecord
}

// Fingerprint returns a stable digest of the whole result. Two crawls over
// identical fixtures produce identical fingerprints, which is how callers
// verify byte-identical re-runs.
func (r CrawlResult) Fingerprint() string {
	var parts []string
	for _, record := range r.Records {
		parts = append(parts, record.SourceURL)
		parts = append(parts, record.ExternalLinks...)
	}
	return hashutil.FingerprintStrings(parts)
}

// TotalLinks counts the external links across all records.
func (r CrawlResult) TotalLinks() int {
	var total int
	for _, record := range r.Records {
		total += len(record.ExternalLinks)
	}
	return total
}
