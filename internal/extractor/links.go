package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/metadata"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/resultset"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/failure"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/urlutil"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse fetched HTML into a DOM tree
- Walk every anchor carrying a hyperlink attribute
- Keep only links that cross between known result domains

Filtering Rules
A link survives only when all three hold:
  - the href is a syntactically complete URL with a scheme and host
  - the link's domain differs from the page's own domain
  - the link's domain is a member of the known result-domain set

"External" here means "points to another entry in the known result-domain
set", not just any outside domain.

Document order is preserved and duplicates are kept: a page linking to the
same target twice yields it twice in the output.
*/

type LinkExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewLinkExtractor(
	metadataSink metadata.MetadataSink,
) LinkExtractor {
	return LinkExtractor{
		metadataSink: metadataSink,
	}
}

// ExtractExternalLinks returns the ordered external links of one fetched
// page. Errors here are page-scoped: the caller records an empty link list
// and moves on, so one bad page never sinks the batch.
func (l *LinkExtractor) ExtractExternalLinks(
	pageURL url.URL,
	htmlByte []byte,
	knownDomains resultset.DomainSet,
) ([]string, failure.ClassifiedError) {
	links, err := l.extract(pageURL, htmlByte, knownDomains)
	if err != nil {
		var extractionError *ExtractionError
		errors.As(err, &extractionError)
		l.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"LinkExtractor.ExtractExternalLinks",
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrSourceURL, pageURL.String()),
			},
		)
		return nil, extractionError
	}
	return links, nil
}

func (l *LinkExtractor) extract(
	pageURL url.URL,
	htmlByte []byte,
	knownDomains resultset.DomainSet,
) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	gqDoc := goquery.NewDocumentFromNode(doc)
	pageDomain := urlutil.Domain(pageURL)

	var externalLinks []string
	gqDoc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}

		linkURL, ok := urlutil.ParseAbsolute(href)
		if !ok {
			return
		}

		linkDomain := urlutil.Domain(linkURL)
		if linkDomain == pageDomain {
			return
		}
		if !knownDomains.Contains(linkDomain) {
			return
		}

		externalLinks = append(externalLinks, linkURL.String())
	})

	return externalLinks, nil
}
