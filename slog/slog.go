// Package slog decorates sitetext services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitetext"
)

// Ensure decorators implement their interfaces.
var (
	_ sitetext.Fetcher        = (*LoggingFetcher)(nil)
	_ sitetext.RobotsService  = (*LoggingRobotsService)(nil)
	_ sitetext.SitemapService = (*LoggingSitemapService)(nil)
	_ sitetext.Extractor      = (*LoggingExtractor)(nil)
	_ sitetext.DocumentStore  = (*LoggingDocumentStore)(nil)
)

// LoggingFetcher wraps a Fetcher with debug logging of every attempt.
type LoggingFetcher struct {
	next   sitetext.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitetext.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (outcome sitetext.FetchOutcome) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"outcome", outcome.Kind,
			"status", outcome.StatusCode,
			"bytes", len(outcome.Body),
			"encoding", outcome.Encoding,
			"duration", time.Since(begin),
			"err", outcome.Err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// LoggingRobotsService wraps a RobotsService with debug logging.
type LoggingRobotsService struct {
	next   sitetext.RobotsService
	logger *slog.Logger
}

// NewLoggingRobotsService creates a new LoggingRobotsService.
func NewLoggingRobotsService(next sitetext.RobotsService, logger *slog.Logger) *LoggingRobotsService {
	return &LoggingRobotsService{next: next, logger: logger}
}

// LoadRobots delegates to the wrapped service and logs the result.
func (s *LoggingRobotsService) LoadRobots(ctx context.Context, originURL string) (robots *sitetext.Robots, err error) {
	defer func(begin time.Time) {
		var sitemaps int
		if robots != nil {
			sitemaps = len(robots.Sitemaps)
		}
		s.logger.Debug("robots.txt",
			"origin", originURL,
			"sitemaps", sitemaps,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadRobots(ctx, originURL)
}

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   sitetext.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next sitetext.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// FetchSitemap delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) FetchSitemap(ctx context.Context, url string) (sitemap *sitetext.Sitemap, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin), "err", err}
		if sitemap != nil {
			attrs = append(attrs, "kind", sitemap.Kind, "count", len(sitemap.URLs))
		}
		s.logger.Debug("sitemap", attrs...)
	}(time.Now())
	return s.next.FetchSitemap(ctx, url)
}

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   sitetext.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sitetext.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs sizes.
func (e *LoggingExtractor) Extract(html []byte, pageURL string) (text string, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"url", pageURL,
			"html_bytes", len(html),
			"text_bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, pageURL)
}

// LoggingDocumentStore wraps a DocumentStore with logging. Persisting
// happens once per run, so it logs at info level.
type LoggingDocumentStore struct {
	next   sitetext.DocumentStore
	logger *slog.Logger
}

// NewLoggingDocumentStore creates a new LoggingDocumentStore.
func NewLoggingDocumentStore(next sitetext.DocumentStore, logger *slog.Logger) *LoggingDocumentStore {
	return &LoggingDocumentStore{next: next, logger: logger}
}

// Persist delegates to the wrapped store and logs the operation.
func (s *LoggingDocumentStore) Persist(ctx context.Context, docs []*sitetext.Document, originKey string) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "persist",
			"origin", originKey,
			"documents", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Persist(ctx, docs, originKey)
}
