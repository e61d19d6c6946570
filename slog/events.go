package slog

import (
	"log/slog"

	"github.com/fwojciec/sitetext"
)

// NewEventLogger returns an EventFunc that writes crawl progress to logger.
// Saves and skips are debug-level; failures are warnings.
func NewEventLogger(logger *slog.Logger) sitetext.EventFunc {
	return func(e sitetext.Event) {
		switch e.Type {
		case sitetext.EventStarted:
			logger.Info("crawl started", "mode", e.Mode, "url", e.URL, "seeds", e.Total)
		case sitetext.EventSkipped:
			logger.Debug("disallowed by robots.txt", "url", e.URL, "depth", e.Depth)
		case sitetext.EventRetrying:
			logger.Info("retrying",
				"url", e.URL,
				"attempt", e.Attempt,
				"status", e.StatusCode,
				"wait", e.Wait,
				"err", e.Err,
			)
		case sitetext.EventFailed:
			logger.Warn("fetch failed", "url", e.URL, "status", e.StatusCode, "err", e.Err)
		case sitetext.EventNoContent:
			attrs := []any{"url", e.URL}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.Info("no content extracted", attrs...)
		case sitetext.EventSaved:
			logger.Debug("saved", "url", e.URL, "depth", e.Depth)
		case sitetext.EventFinished:
			logger.Info("crawl finished", "mode", e.Mode, "url", e.URL, "saved", e.Total)
		}
	}
}
