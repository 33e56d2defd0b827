package crawler

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/ermoeini/google-serp-filtered-external-links/internal/extractor"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/fetcher"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/identity"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/metadata"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/resultset"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/limiter"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/retry"
)

/*
 ConcurrentCrawler is the fan-out authority of the crawl.

 Ordering and isolation guarantees:
 - One logical task per candidate URL, launched in input order.
 - At most `concurrencyLimit` fetches are in flight at any instant; further
   tasks wait at the admission gate until a slot frees.
 - Completion order is unconstrained; every task writes its own
   position-indexed result slot, so output order always equals input order.
 - No task may mutate another task's slot. The only shared state is the
   read-only identity header and the precomputed domain set.
 - A task failure is recorded as an empty link list for that slot and never
   escalates beyond it: one unreachable site cannot sink the batch.
 - The crawl waits for every task before returning; there is no early return
   on first failure.
 - Caller cancellation propagates to in-flight fetches and pending backoff
   sleeps; unfinished slots are left with empty link lists.
*/

// DefaultConcurrencyLimit bounds simultaneous in-flight fetches when the
// caller does not supply a limit.
const DefaultConcurrencyLimit = 5

type ConcurrentCrawler struct {
	metadataSink   metadata.MetadataSink
	crawlFinalizer metadata.CrawlFinalizer
	htmlFetcher    fetcher.Fetcher
	linkExtractor  extractor.LinkExtractor
	retryParam     retry.Param
}

func NewConcurrentCrawler(
	metadataSink metadata.MetadataSink,
	crawlFinalizer metadata.CrawlFinalizer,
	htmlFetcher fetcher.Fetcher,
) ConcurrentCrawler {
	return ConcurrentCrawler{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		htmlFetcher:    htmlFetcher,
		linkExtractor:  extractor.NewLinkExtractor(metadataSink),
		retryParam:     retry.DefaultParam(),
	}
}

// NewConcurrentCrawlerWithRetryParam overrides the default per-fetch retry
// policy, mainly so tests can run without real backoff sleeps.
func NewConcurrentCrawlerWithRetryParam(
	metadataSink metadata.MetadataSink,
	crawlFinalizer metadata.CrawlFinalizer,
	htmlFetcher fetcher.Fetcher,
	retryParam retry.Param,
) ConcurrentCrawler {
	return ConcurrentCrawler{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		htmlFetcher:    htmlFetcher,
		linkExtractor:  extractor.NewLinkExtractor(metadataSink),
		retryParam:     retryParam,
	}
}

// Crawl fans the link extraction out over the candidate list.
// It always returns one record per candidate, in candidate order. The error
// is non-nil only when ctx was cancelled before every task could finish;
// the partial result still holds len(candidates) records.
func (c *ConcurrentCrawler) Crawl(
	ctx context.Context,
	candidates resultset.Candidates,
	concurrencyLimit int,
) (CrawlResult, error) {
	crawlStartTime := time.Now()

	if concurrencyLimit < 1 {
		concurrencyLimit = DefaultConcurrencyLimit
	}

	// The known result-domain set is derived exactly once, before fan-out,
	// and shared read-only by every task.
	knownDomains := resultset.NewDomainSet(candidates)

	records := make([]LinkRecord, len(candidates))
	for i, candidate := range candidates {
		records[i] = LinkRecord{
			SourceURL:     candidate.String(),
			ExternalLinks: []string{},
		}
	}

	// failed marks slots whose task fetch or extraction failed; like the
	// record slots, each entry is owned by exactly one task.
	failed := make([]bool, len(candidates))

	gate := limiter.NewCountingGate(concurrencyLimit)
	userAgent := identity.UserAgent()

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		if err := gate.Enter(ctx); err != nil {
			// Cancelled while waiting for a slot. Remaining slots keep
			// their empty link lists; in-flight tasks still get awaited.
			failed[i] = true
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer gate.Leave()

			links, ok := c.extractLinksForCandidate(
				ctx,
				candidate,
				userAgent,
				knownDomains,
			)
			records[i].ExternalLinks = links
			failed[i] = !ok
		}()
	}

	wg.Wait()

	result := CrawlResult{Records: records}

	c.crawlFinalizer.RecordFinalCrawlStats(
		len(records),
		result.TotalLinks(),
		countFailures(failed),
		time.Since(crawlStartTime),
	)

	return result, ctx.Err()
}

// extractLinksForCandidate runs one task: fetch the candidate page, then
// extract its external links. Any failure yields the empty list and a false
// flag; the error itself has already been recorded by the failing stage.
func (c *ConcurrentCrawler) extractLinksForCandidate(
	ctx context.Context,
	candidate url.URL,
	userAgent string,
	knownDomains resultset.DomainSet,
) ([]string, bool) {
	fetchParam := fetcher.NewFetchParam(candidate, userAgent)
	fetchResult, err := c.htmlFetcher.Fetch(ctx, fetchParam, c.retryParam)
	if err != nil {
		return []string{}, false
	}

	links, extractErr := c.linkExtractor.ExtractExternalLinks(
		candidate,
		fetchResult.Body(),
		knownDomains,
	)
	if extractErr != nil {
		return []string{}, false
	}
	if links == nil {
		links = []string{}
	}
	return links, true
}

func countFailures(failed []bool) int {
	var count int
	for _, f := range failed {
		if f {
			count++
		}
	}
	return count
}
