package slog_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/sitetext"
	stslog "github.com/fwojciec/sitetext/slog"
	"github.com/stretchr/testify/assert"
)

func TestNewEventLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event sitetext.Event
		want  []string
	}{
		{
			name:  "started",
			event: sitetext.Event{Type: sitetext.EventStarted, Mode: sitetext.ModeSitemap, URL: "https://example.com/", Total: 12},
			want:  []string{"level=INFO", "crawl started", "mode=sitemap", "seeds=12"},
		},
		{
			name:  "retrying",
			event: sitetext.Event{Type: sitetext.EventRetrying, URL: "https://example.com/a", Attempt: 2, StatusCode: 429, Wait: 4 * time.Second},
			want:  []string{"level=INFO", "retrying", "attempt=2", "status=429", "wait=4s"},
		},
		{
			name:  "failed",
			event: sitetext.Event{Type: sitetext.EventFailed, URL: "https://example.com/a", StatusCode: 404, Err: errors.New("not found")},
			want:  []string{"level=WARN", "fetch failed", "status=404", "err=\"not found\""},
		},
		{
			name:  "no content",
			event: sitetext.Event{Type: sitetext.EventNoContent, URL: "https://example.com/a"},
			want:  []string{"level=INFO", "no content extracted", "url=https://example.com/a"},
		},
		{
			name:  "skipped",
			event: sitetext.Event{Type: sitetext.EventSkipped, URL: "https://example.com/private", Depth: 1},
			want:  []string{"level=DEBUG", "disallowed by robots.txt", "depth=1"},
		},
		{
			name:  "saved",
			event: sitetext.Event{Type: sitetext.EventSaved, URL: "https://example.com/a", Depth: 2},
			want:  []string{"level=DEBUG", "msg=saved", "depth=2"},
		},
		{
			name:  "finished",
			event: sitetext.Event{Type: sitetext.EventFinished, Mode: sitetext.ModeRecursive, URL: "https://example.com/", Total: 3},
			want:  []string{"level=INFO", "crawl finished", "mode=recursive", "saved=3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logEvent := stslog.NewEventLogger(debugLogger(&buf))

			logEvent(tt.event)

			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
