package sitetext

import "time"

// DiscoveryMode is the strategy a crawl run uses to find pages.
type DiscoveryMode string

// Discovery modes. A run uses exactly one of them.
const (
	ModeSitemap   DiscoveryMode = "sitemap"
	ModeRecursive DiscoveryMode = "recursive"
)

// EventType identifies a crawl progress event.
type EventType int

// Crawl event types.
const (
	EventStarted EventType = iota
	EventSkipped
	EventRetrying
	EventFailed
	EventNoContent
	EventSaved
	EventFinished
)

// String returns a short name for the event type.
func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventSkipped:
		return "skipped"
	case EventRetrying:
		return "retrying"
	case EventFailed:
		return "failed"
	case EventNoContent:
		return "no_content"
	case EventSaved:
		return "saved"
	case EventFinished:
		return "finished"
	}
	return "unknown"
}

// Event reports progress during a crawl run.
type Event struct {
	Type       EventType
	Mode       DiscoveryMode
	URL        string
	Depth      int
	Attempt    int
	Wait       time.Duration
	StatusCode int

	// Total is the number of seeded URLs for EventStarted and the number
	// of saved documents for EventFinished.
	Total int

	Err error
}

// EventFunc receives crawl events. It is called from worker goroutines
// and must be safe for concurrent use.
type EventFunc func(Event)
