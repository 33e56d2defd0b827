package serp

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/fetcher"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/identity"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/metadata"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/resultset"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/retry"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/urlutil"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Build the single search URL embedding query, result-count hint, and locale
- Fetch it through the retrying fetcher (default policy: 3 attempts, base 2)
- Select the primary link of each organic result container
- Drop results whose full URL contains any caller-supplied exclude substring

Failure Semantics
- Total fetch failure is a batch failure: an empty list plus a user-visible
  ScrapeError. The caller decides whether to halt or retry with different
  parameters; the scraper itself never aborts the process.
*/

const (
	searchEndpoint = "https://www.google.com/search"

	// organicResultSelector matches the container of one organic search
	// result; the primary link is its first anchor.
	organicResultSelector = "div.tF2Cxc"
)

type ResultScraper struct {
	metadataSink metadata.MetadataSink
	htmlFetcher  fetcher.Fetcher
	retryParam   retry.Param
}

func NewResultScraper(
	metadataSink metadata.MetadataSink,
	htmlFetcher fetcher.Fetcher,
) ResultScraper {
	return ResultScraper{
		metadataSink: metadataSink,
		htmlFetcher:  htmlFetcher,
		retryParam:   retry.DefaultParam(),
	}
}

// NewResultScraperWithRetryParam overrides the default retry policy, mainly
// so tests can run without real backoff sleeps.
func NewResultScraperWithRetryParam(
	metadataSink metadata.MetadataSink,
	htmlFetcher fetcher.Fetcher,
	retryParam retry.Param,
) ResultScraper {
	return ResultScraper{
		metadataSink: metadataSink,
		htmlFetcher:  htmlFetcher,
		retryParam:   retryParam,
	}
}

// Scrape produces the ordered candidate URL list for the given query.
// The returned list preserves result-page order after exclusion filtering.
func (s *ResultScraper) Scrape(ctx context.Context, param ScrapeParam) (resultset.Candidates, error) {
	callerMethod := "ResultScraper.Scrape"

	if param.query == "" {
		scrapeErr := &ScrapeError{
			Message:   "query must not be empty",
			Retryable: false,
			Cause:     ErrCauseEmptyQuery,
		}
		s.recordScrapeError(callerMethod, param.query, scrapeErr)
		return resultset.Candidates{}, scrapeErr
	}

	searchURL := buildSearchURL(param.query, param.numResults, param.locale)

	fetchParam := fetcher.NewFetchParam(searchURL, identity.UserAgent())
	fetchResult, fetchErr := s.htmlFetcher.Fetch(ctx, fetchParam, s.retryParam)
	if fetchErr != nil {
		scrapeErr := &ScrapeError{
			Message:   fmt.Sprintf("failed to fetch result page: %v", fetchErr),
			Retryable: true,
			Cause:     ErrCauseFetchFailed,
		}
		s.recordScrapeError(callerMethod, param.query, scrapeErr)
		return resultset.Candidates{}, scrapeErr
	}

	candidates, parseErr := s.parseResultPage(fetchResult.Body(), param.excludeList)
	if parseErr != nil {
		s.recordScrapeError(callerMethod, param.query, parseErr)
		return resultset.Candidates{}, parseErr
	}

	return candidates, nil
}

// parseResultPage selects the primary anchor of every organic result
// container and applies the exclusion filter, preserving document order.
func (s *ResultScraper) parseResultPage(body []byte, excludeList []string) (resultset.Candidates, *ScrapeError) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ScrapeError{
			Message:   fmt.Sprintf("failed to parse result page: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	gqDoc := goquery.NewDocumentFromNode(doc)

	var candidates resultset.Candidates
	gqDoc.Find(organicResultSelector).Each(func(_ int, result *goquery.Selection) {
		href, ok := result.Find("a[href]").First().Attr("href")
		if !ok || href == "" {
			return
		}

		linkURL, ok := urlutil.ParseAbsolute(href)
		if !ok {
			return
		}

		if urlutil.ContainsAny(linkURL.String(), excludeList) {
			return
		}

		candidates = append(candidates, linkURL)
	})

	return candidates, nil
}

func (s *ResultScraper) recordScrapeError(callerMethod string, query string, err *ScrapeError) {
	s.metadataSink.RecordError(
		time.Now(),
		"serp",
		callerMethod,
		mapScrapeErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrQuery, query),
		},
	)
}

// buildSearchURL embeds the query, the result-count hint, and the locale
// hint into one search URL. The locale value is used verbatim.
func buildSearchURL(query string, numResults int, locale string) url.URL {
	values := url.Values{}
	values.Set("q", query)
	if numResults > 0 {
		values.Set("num", strconv.Itoa(numResults))
	}
	if locale != "" {
		values.Set("gl", locale)
	}

	endpoint, _ := url.Parse(searchEndpoint)
	endpoint.RawQuery = values.Encode()
	return *endpoint
}
