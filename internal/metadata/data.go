package metadata

import (
	"time"
)

/*
crawlStats
  - Represents a terminal, derived summary of a completed crawl
  - Contains only aggregate counts and durations
  - Is computed by the caller after all tasks have finished
  - Is recorded exactly once
  - Must not influence scheduling, retries, or crawl termination
*/
type crawlStats struct {
	totalPages  int
	totalLinks  int
	totalErrors int
	durationMs  int64
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

// Canonical ErrorCause table:
//   - CauseUnknown: safe fallback for unclassified failures.
//   - CauseNetworkFailure: transport or remote availability failures
//     (timeouts, DNS, connection resets).
//   - CauseRetryFailure: every attempt of a retried operation failed.
//   - CauseContentInvalid: content was fetched but could not be processed
//     (non-HTML bodies, broken markup, empty result pages).
//   - CauseInputInvalid: caller-supplied parameters were unusable
//     (malformed URLs, empty query).
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseRetryFailure
	CauseContentInvalid
	CauseInputInvalid
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseRetryFailure:
		return "retry_failure"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseInputInvalid:
		return "input_invalid"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrSourceURL  AttributeKey = "source_url"
	AttrHost       AttributeKey = "host"
	AttrQuery      AttributeKey = "query"
	AttrPosition   AttributeKey = "position"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrMessage    AttributeKey = "message"
	AttrField      AttributeKey = "field"
)

// FetchEvent mirrors the arguments of MetadataSink.RecordFetch; kept as a
// value type so capturing sinks in tests can store received events.
type FetchEvent struct {
	FetchURL   string
	HTTPStatus int
	Duration   time.Duration
	RetryCount int
	SizeByte   uint64
}
