package crawl

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/sitetext"
)

// Compile-time interface verification.
var _ sitetext.Frontier = (*Frontier)(nil)

// VisitedSet records every URL ever accepted by a Frontier.
// Insert adds url and reports whether it was absent before.
// Access is serialized by the Frontier.
type VisitedSet interface {
	Insert(url string) bool
}

// ExactSet is a VisitedSet that remembers URLs exactly.
type ExactSet map[string]struct{}

// Insert implements VisitedSet.
func (s ExactSet) Insert(url string) bool {
	if _, ok := s[url]; ok {
		return false
	}
	s[url] = struct{}{}
	return true
}

// BloomSet is a VisitedSet backed by a Bloom filter. It uses constant
// memory but may wrongly report an unseen URL as visited, in which case the
// URL is never scheduled. It never forgets a URL it has accepted.
type BloomSet struct {
	f *bloom.BloomFilter
}

// NewBloomSet returns a BloomSet sized for n URLs at the given false
// positive rate.
func NewBloomSet(n uint, fpRate float64) *BloomSet {
	return &BloomSet{f: bloom.NewWithEstimates(n, fpRate)}
}

// Insert implements VisitedSet.
func (s *BloomSet) Insert(url string) bool {
	return !s.f.TestAndAddString(url)
}

// Frontier is an in-memory FIFO frontier with a visited set and page budget.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu        sync.Mutex
	visited   VisitedSet
	queue     []sitetext.FrontierEntry
	maxDepth  int
	maxPages  int
	scheduled int
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithVisitedSet replaces the default ExactSet.
func WithVisitedSet(v VisitedSet) FrontierOption {
	return func(f *Frontier) {
		f.visited = v
	}
}

// NewFrontier creates a Frontier that accepts entries up to maxDepth and
// schedules at most maxPages URLs. A maxPages of zero means unbounded.
func NewFrontier(maxDepth, maxPages int, opts ...FrontierOption) *Frontier {
	f := &Frontier{
		visited:  ExactSet{},
		maxDepth: maxDepth,
		maxPages: maxPages,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Offer schedules url at depth. The URL must already be canonical.
// It is rejected when the budget is spent, the depth is out of range, or
// the URL was accepted before. Acceptance marks the URL visited and
// consumes one unit of budget in the same critical section.
func (f *Frontier) Offer(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxPages > 0 && f.scheduled >= f.maxPages {
		return false
	}
	if depth < 0 || depth > f.maxDepth {
		return false
	}
	if !f.visited.Insert(url) {
		return false
	}

	f.scheduled++
	f.queue = append(f.queue, sitetext.FrontierEntry{URL: url, Depth: depth})
	return true
}

// Next dequeues the oldest pending entry.
// The bool result is false if the frontier is empty.
func (f *Frontier) Next() (sitetext.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return sitetext.FrontierEntry{}, false
	}
	entry := f.queue[0]
	f.queue[0] = sitetext.FrontierEntry{}
	f.queue = f.queue[1:]
	return entry, true
}

// Exhausted reports whether no entries are pending.
func (f *Frontier) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0
}

// Len returns the number of pending entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Scheduled returns the number of accepted offers.
func (f *Frontier) Scheduled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduled
}
