// Package http provides net/http implementations of sitetext.Fetcher and
// sitetext.SitemapService.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sitetext"
	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultUserAgent    = "sitetext/1.0"
	DefaultMaxBodySize  = 10 << 20

	// MaxRetryAfter caps the wait a server can request with Retry-After.
	MaxRetryAfter = time.Hour
)

// Ensure Fetcher implements sitetext.Fetcher at compile time.
var _ sitetext.Fetcher = (*Fetcher)(nil)

// Fetcher performs single GET attempts and classifies the response.
// It does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	now         func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch issues one GET for url.
//
// 2xx responses are successes with the body decoded to UTF-8. 429, 503 and
// 403 are retryable and carry any Retry-After hint. Other statuses are
// fatal. Transport errors, timeouts and cancellation are retryable.
func (f *Fetcher) Fetch(ctx context.Context, url string) sitetext.FetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sitetext.FatalFailure(0, sitetext.Errorf(sitetext.EINVALID, "creating request for %s: %v", url, err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sitetext.RetryableFailure(0, ctxErr)
		}
		return sitetext.RetryableFailure(0, sitetext.Errorf(sitetext.EUNAVAILABLE, "GET %s: %v", url, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sitetext.RetryableFailure(resp.StatusCode, ctxErr)
			}
			return sitetext.RetryableFailure(resp.StatusCode, sitetext.Errorf(sitetext.EUNAVAILABLE, "reading %s: %v", url, err))
		}
		body, enc := DecodeBody(raw, resp.Header.Get("Content-Type"))
		return sitetext.Success(resp.StatusCode, body, enc)

	case isRetryableStatus(resp.StatusCode):
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		statusErr := sitetext.Errorf(sitetext.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
		if wait, ok := ParseRetryAfter(resp.Header.Get("Retry-After"), f.now()); ok {
			return sitetext.RetryableAfter(resp.StatusCode, statusErr, wait)
		}
		return sitetext.RetryableFailure(resp.StatusCode, statusErr)
	}

	code := sitetext.EUNAVAILABLE
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		code = sitetext.ENOTFOUND
	}
	return sitetext.FatalFailure(resp.StatusCode, sitetext.Errorf(code, "HTTP %d for %s", resp.StatusCode, url))
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusForbidden:
		return true
	}
	return false
}

// ParseRetryAfter interprets a Retry-After header value relative to now.
// It accepts delay seconds or an HTTP-date, clamped to MaxRetryAfter.
// Dates that are not in the future, negative numbers and garbage yield no hint.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	secs, err := strconv.ParseInt(value, 10, 64)
	switch {
	case err == nil && secs < 0:
		return 0, false
	case err == nil:
		if secs > int64(MaxRetryAfter/time.Second) {
			return MaxRetryAfter, true
		}
		return time.Duration(secs) * time.Second, true
	case errors.Is(err, strconv.ErrRange):
		if strings.HasPrefix(value, "-") {
			return 0, false
		}
		return MaxRetryAfter, true
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	d := t.Sub(now)
	if d <= 0 {
		return 0, false
	}
	return min(d, MaxRetryAfter), true
}

// DecodeBody converts raw to UTF-8 using a byte order mark, the
// Content-Type charset or a <meta> declaration, in that order. Undeclared
// content that is valid UTF-8 is kept as is and anything else is read as
// windows-1252. It returns the decoded body and the name of the source
// encoding, falling back to the raw bytes labelled utf-8 when decoding fails.
func DecodeBody(raw []byte, contentType string) ([]byte, string) {
	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if !certain && name == "windows-1252" && utf8.Valid(raw) {
		name = "utf-8"
	}
	if name == "utf-8" {
		return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), name
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return raw, "utf-8"
	}
	return decoded, name
}
