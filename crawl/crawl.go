// Package crawl provides crawl orchestration.
// It coordinates discovery, the frontier, paced fetching with retries,
// extraction, and persistence of a single-origin crawl run.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitetext"
	"golang.org/x/sync/errgroup"
)

// Crawler orchestrates a crawl run.
type Crawler struct {
	// Discoverer plans the run. Its SitemapDepth is replaced by Config.SitemapDepth.
	Discoverer *Discoverer
	Fetcher    sitetext.Fetcher
	Extractor  sitetext.Extractor
	Links      sitetext.LinkExtractor
	Store      sitetext.DocumentStore

	// RateLimiter, if set, is a per-host ceiling shared by all workers.
	RateLimiter sitetext.DomainLimiter

	Config Config

	// Filter, if set, drops discovered links that do not match.
	Filter *sitetext.URLFilter

	// ScopePath restricts recursive mode to paths under the start URL's path.
	ScopePath bool

	// VisitedSet, if set, creates the frontier's visited set.
	VisitedSet func() VisitedSet

	Events sitetext.EventFunc
	Sleep  SleepFunc
}

// Result summarizes a crawl run.
type Result struct {
	Mode sitetext.DiscoveryMode

	// OriginKey is the key the documents were persisted under.
	OriginKey string

	Scheduled        int
	Fetched          int
	Saved            int
	Failed           int
	Skipped          int
	NoContent        int
	DuplicateContent int

	// Documents are the persisted documents in completion order.
	Documents []*sitetext.Document
}

// pageResult holds the outcome of processing a single frontier entry.
type pageResult struct {
	entry      sitetext.FrontierEntry
	canceled   bool
	skipped    bool
	outcome    sitetext.FetchOutcome
	content    string
	extractErr error
	links      []string
}

// Crawl discovers and fetches pages starting at startURL and persists the
// extracted documents once the frontier is exhausted. Whatever has been
// collected is also persisted when ctx is canceled, in which case the
// partial result is returned together with the context error.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (result *Result, err error) {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	canonical, err := sitetext.CanonicalURL(startURL)
	if err != nil {
		return nil, err
	}
	start, err := url.Parse(canonical)
	if err != nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "invalid start URL %q: %v", startURL, err)
	}

	result = &Result{OriginKey: sitetext.OriginKey(start)}
	defer func() {
		if perr := c.Store.Persist(context.WithoutCancel(ctx), result.Documents, result.OriginKey); perr != nil {
			err = errors.Join(err, fmt.Errorf("persist: %w", perr))
		}
	}()

	discoverer := *c.Discoverer
	discoverer.SitemapDepth = cfg.SitemapDepth
	plan, err := discoverer.Plan(ctx, canonical)
	if err != nil {
		return result, err
	}
	result.Mode = plan.Mode

	maxDepth := cfg.MaxDepth
	if plan.Mode == sitetext.ModeSitemap {
		maxDepth = 0
	}
	var opts []FrontierOption
	if c.VisitedSet != nil {
		opts = append(opts, WithVisitedSet(c.VisitedSet()))
	}
	frontier := NewFrontier(maxDepth, cfg.MaxPages, opts...)

	// Disallowed URLs never reach the frontier, so they use no budget.
	// Each one is reported once however often it is linked.
	disallowed := make(map[string]bool)
	var disallowedSeeds []string
	for _, seed := range plan.Seeds {
		if !plan.Robots.Allowed(seed) {
			if !disallowed[seed] {
				disallowed[seed] = true
				disallowedSeeds = append(disallowedSeeds, seed)
			}
			continue
		}
		frontier.Offer(seed, 0)
	}

	c.emit(sitetext.Event{
		Type:  sitetext.EventStarted,
		Mode:  plan.Mode,
		URL:   canonical,
		Total: frontier.Scheduled(),
	})

	skip := func(link string, depth int) {
		result.Skipped++
		c.emit(sitetext.Event{Type: sitetext.EventSkipped, Mode: plan.Mode, URL: link, Depth: depth})
	}
	for _, seed := range disallowedSeeds {
		skip(seed, 0)
	}

	pathPrefix := ""
	if c.ScopePath {
		pathPrefix = plan.Start.Path
	}
	seenContent := make(map[uint64]bool)

	handle := func(res pageResult) {
		switch {
		case res.canceled:
			return
		case res.skipped:
			skip(res.entry.URL, res.entry.Depth)
			return
		case !res.outcome.OK():
			result.Failed++
			c.emit(sitetext.Event{
				Type:       sitetext.EventFailed,
				Mode:       plan.Mode,
				URL:        res.entry.URL,
				Depth:      res.entry.Depth,
				StatusCode: res.outcome.StatusCode,
				Err:        res.outcome.Err,
			})
			return
		}
		result.Fetched++

		if len(res.links) > 0 {
			base, err := url.Parse(res.entry.URL)
			if err == nil {
				for _, href := range res.links {
					link, ok := sitetext.NormalizeURL(href, base)
					if !ok || !inScope(link, pathPrefix) || !c.Filter.Match(link) {
						continue
					}
					if !plan.Robots.Allowed(link) {
						if !disallowed[link] && res.entry.Depth+1 <= maxDepth {
							disallowed[link] = true
							skip(link, res.entry.Depth+1)
						}
						continue
					}
					frontier.Offer(link, res.entry.Depth+1)
				}
			}
		}

		if res.extractErr != nil || strings.TrimSpace(res.content) == "" {
			result.NoContent++
			c.emit(sitetext.Event{Type: sitetext.EventNoContent, Mode: plan.Mode, URL: res.entry.URL, Depth: res.entry.Depth, Err: res.extractErr})
			return
		}

		hash := xxhash.Sum64String(res.content)
		if seenContent[hash] {
			result.DuplicateContent++
		}
		seenContent[hash] = true

		result.Documents = append(result.Documents, &sitetext.Document{URL: res.entry.URL, Content: res.content})
		result.Saved++
		c.emit(sitetext.Event{Type: sitetext.EventSaved, Mode: plan.Mode, URL: res.entry.URL, Depth: res.entry.Depth})
	}

	workCh := make(chan sitetext.FrontierEntry)
	resultCh := make(chan pageResult)

	var g errgroup.Group
	for i := 0; i < cfg.Concurrency; i++ {
		rc := NewRateController(cfg.MinDelay, cfg.MaxDelay, c.Sleep)
		g.Go(func() error {
			for entry := range workCh {
				resultCh <- c.visit(ctx, entry, rc, plan, maxDepth)
			}
			return nil
		})
	}

	// Coordinator loop
	pending := 0
	var next *sitetext.FrontierEntry
coordinatorLoop:
	for {
		if next == nil {
			if entry, ok := frontier.Next(); ok {
				next = &entry
			}
		}
		if next == nil && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		var sendCh chan<- sitetext.FrontierEntry
		var entry sitetext.FrontierEntry
		if next != nil {
			sendCh = workCh
			entry = *next
		}

		select {
		case <-ctx.Done():
			break coordinatorLoop
		case sendCh <- entry:
			pending++
			next = nil
		case res := <-resultCh:
			pending--
			handle(res)
		}
	}

	// Let in-flight workers finish; their fetches observe ctx.
	close(workCh)
	for ; pending > 0; pending-- {
		handle(<-resultCh)
	}
	_ = g.Wait()

	result.Scheduled = frontier.Scheduled()
	c.emit(sitetext.Event{Type: sitetext.EventFinished, Mode: plan.Mode, URL: canonical, Total: result.Saved})

	return result, ctx.Err()
}

// visit processes one frontier entry. It runs on a worker goroutine and
// must not touch run state owned by the coordinator.
func (c *Crawler) visit(ctx context.Context, entry sitetext.FrontierEntry, rc *RateController, plan *Plan, maxDepth int) pageResult {
	res := pageResult{entry: entry}

	if !plan.Robots.Allowed(entry.URL) {
		res.skipped = true
		return res
	}

	if err := rc.Wait(ctx); err != nil {
		res.canceled = true
		return res
	}
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, plan.Start.Host); err != nil {
			res.canceled = true
			return res
		}
	}

	policy := RetryPolicy{
		MaxAttempts: c.Config.MaxRetries,
		BaseDelay:   rc.Delay(),
		MaxDelay:    c.Config.MaxDelay,
		Sleep:       c.Sleep,
	}
	res.outcome = FetchWithRetry(ctx, entry.URL, c.Fetcher, policy, func(a Attempt) {
		switch a.Outcome.Kind {
		case sitetext.OutcomeSuccess:
			rc.OnSuccess()
		case sitetext.OutcomeRetryable:
			rc.OnFailure()
		}
		if !a.Final {
			c.emit(sitetext.Event{
				Type:       sitetext.EventRetrying,
				Mode:       plan.Mode,
				URL:        entry.URL,
				Depth:      entry.Depth,
				Attempt:    a.Number,
				Wait:       a.Wait,
				StatusCode: a.Outcome.StatusCode,
				Err:        a.Outcome.Err,
			})
		}
	})
	if ctx.Err() != nil {
		res.canceled = true
		return res
	}
	if !res.outcome.OK() {
		return res
	}

	res.content, res.extractErr = c.extract(res.outcome.Body, entry.URL)

	if plan.Mode == sitetext.ModeRecursive && entry.Depth < maxDepth {
		links, err := c.Links.ExtractLinks(res.outcome.Body)
		if err == nil {
			res.links = links
		}
	}

	return res
}

func (c *Crawler) extract(body []byte, pageURL string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = sitetext.Errorf(sitetext.EINTERNAL, "extractor panic on %s: %v", pageURL, r)
		}
	}()
	return c.Extractor.Extract(body, pageURL)
}

func (c *Crawler) emit(e sitetext.Event) {
	if c.Events != nil {
		c.Events(e)
	}
}

func inScope(link, pathPrefix string) bool {
	if pathPrefix == "" || pathPrefix == "/" {
		return true
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, pathPrefix)
}

