package sitetext

import "context"

// FrontierEntry is a scheduled URL together with its discovery depth.
// Entries are owned by the Frontier until dequeued and then passed by value.
type FrontierEntry struct {
	URL   string
	Depth int
}

// Frontier is the single authority on what has been scheduled.
type Frontier interface {
	// Offer schedules url at depth. It returns false if the URL was already
	// scheduled, depth exceeds the maximum, or the page budget is spent.
	// Implementations must make the check-and-insert atomic.
	Offer(url string, depth int) bool

	// Next dequeues the oldest pending entry. The bool result is false if
	// nothing is pending.
	Next() (FrontierEntry, bool)

	// Exhausted reports whether the pending queue is empty.
	Exhausted() bool

	// Scheduled returns the number of accepted offers.
	Scheduled() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
