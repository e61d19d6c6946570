package sitetext

import (
	"context"
	"time"
)

// OutcomeKind classifies a single retrieval attempt.
type OutcomeKind int

// Outcome kinds.
const (
	// OutcomeSuccess is a 2xx response with a readable body.
	OutcomeSuccess OutcomeKind = iota + 1
	// OutcomeRetryable is a throttling status (429, 503, 403) or a
	// network-level error. Another attempt may succeed.
	OutcomeRetryable
	// OutcomeFatal is any other non-success status. It is never retried.
	OutcomeFatal
)

// String returns the outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	}
	return "unknown"
}

// FetchOutcome is the tagged result of a retrieval. Only the fields relevant
// to Kind are set.
type FetchOutcome struct {
	Kind       OutcomeKind
	StatusCode int

	// Body is the response body decoded to UTF-8. Success only.
	Body []byte
	// Encoding is the name of the charset the body was decoded from. Success only.
	Encoding string

	// RetryAfter is the server-requested wait, valid when HasRetryAfter is set.
	RetryAfter    time.Duration
	HasRetryAfter bool

	// Err describes why the attempt failed. Failures only.
	Err error
}

// Success returns a successful outcome.
func Success(statusCode int, body []byte, encoding string) FetchOutcome {
	return FetchOutcome{Kind: OutcomeSuccess, StatusCode: statusCode, Body: body, Encoding: encoding}
}

// RetryableFailure returns a retryable outcome without a server wait hint.
func RetryableFailure(statusCode int, err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeRetryable, StatusCode: statusCode, Err: err}
}

// RetryableAfter returns a retryable outcome carrying a Retry-After hint.
func RetryableAfter(statusCode int, err error, wait time.Duration) FetchOutcome {
	return FetchOutcome{Kind: OutcomeRetryable, StatusCode: statusCode, Err: err, RetryAfter: wait, HasRetryAfter: true}
}

// FatalFailure returns a non-retryable outcome.
func FatalFailure(statusCode int, err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeFatal, StatusCode: statusCode, Err: err}
}

// OK reports whether the outcome is a success.
func (o FetchOutcome) OK() bool { return o.Kind == OutcomeSuccess }

// Fetcher performs a single retrieval attempt. Retries, backoff and pacing
// are the caller's concern.
type Fetcher interface {
	// Fetch issues one GET for url. Context cancellation is reported as a
	// retryable outcome whose Err wraps the context error.
	Fetch(ctx context.Context, url string) FetchOutcome
}
