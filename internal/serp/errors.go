package serp

import (
	"fmt"

	"github.com/ermoeini/google-serp-filtered-external-links/internal/metadata"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/failure"
)

type ScrapeErrorCause string

const (
	ErrCauseEmptyQuery  = "empty query"
	ErrCauseFetchFailed = "result page fetch failed"
	ErrCauseNotHTML     = "result page not html"
)

// ScrapeError is the batch-level failure of the result-scraping phase.
// It is user-visible and non-fatal: the process stays re-invokable with the
// same or different parameters.
type ScrapeError struct {
	Message   string
	Retryable bool
	Cause     ScrapeErrorCause
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape error: %s, %s", e.Cause, e.Message)
}

func (e *ScrapeError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapScrapeErrorToMetadataCause maps scraper-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapScrapeErrorToMetadataCause(err *ScrapeError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseEmptyQuery:
		return metadata.CauseInputInvalid
	case ErrCauseFetchFailed:
		return metadata.CauseNetworkFailure
	case ErrCauseNotHTML:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
