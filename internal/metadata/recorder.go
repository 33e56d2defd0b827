package metadata

import (
	"log/slog"
	"time"
)

/*
Metadata Collected
- Fetch timestamps, status codes, durations, retry counts
- Per-page extraction failures
- Crawl-level aggregate stats

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not reorder crawl results
 - Output records are stable given identical inputs

Metadata is write-only.
No component may read metadata to influence crawl decisions.
*/

// MetadataSink receives structured crawl events from every pipeline stage.
type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		retryCount int,
		sizeByte uint64,
	)
}

// CrawlFinalizer records the terminal summary of a completed crawl.
// It MUST be called exactly once per crawl execution, only after every
// task has finished, and the recorded stats MUST NOT influence control flow.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(
		totalPages int,
		totalLinks int,
		totalErrors int,
		duration time.Duration,
	)
}

/*
Recorder captures structured crawl events and emits them through slog.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order each task emits them.
- No global ordering across concurrent tasks is guaranteed.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	args := []any{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("details", details),
	}
	for _, a := range attrs {
		args = append(args, slog.String(string(a.Key), a.Value))
	}
	r.logger.Error("crawl event failed", args...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	retryCount int,
	sizeByte uint64,
) {
	r.logger.Info("fetch completed",
		slog.String("url", fetchUrl),
		slog.Int("http_status", httpStatus),
		slog.Duration("duration", duration),
		slog.Int("retry_count", retryCount),
		slog.Uint64("size_byte", sizeByte),
	)
}

func (r *Recorder) RecordFinalCrawlStats(
	totalPages int,
	totalLinks int,
	totalErrors int,
	duration time.Duration,
) {
	stats := crawlStats{
		totalPages:  totalPages,
		totalLinks:  totalLinks,
		totalErrors: totalErrors,
		durationMs:  duration.Milliseconds(),
	}

	r.logger.Info("crawl finished",
		slog.Int("total_pages", stats.totalPages),
		slog.Int("total_links", stats.totalLinks),
		slog.Int("total_errors", stats.totalErrors),
		slog.Int64("duration_ms", stats.durationMs),
	)
}

// NoopSink implements MetadataSink and CrawlFinalizer but does nothing.
// Callers (or tests) decide whether to inject Recorder or NoopSink;
// the purpose is to keep metadata orthogonal.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	retryCount int,
	sizeByte uint64,
) {
}

func (n *NoopSink) RecordFinalCrawlStats(
	totalPages int,
	totalLinks int,
	totalErrors int,
	duration time.Duration,
) {
}
