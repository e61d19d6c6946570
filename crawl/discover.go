package crawl

import (
	"context"
	"errors"
	"net/url"

	"github.com/fwojciec/sitetext"
)

// Plan is the outcome of discovery: how a run finds pages and where it starts.
type Plan struct {
	Mode sitetext.DiscoveryMode

	// Start is the canonical start URL. Its origin bounds recursive mode.
	Start *url.URL

	// Robots is never nil. A missing or unreadable robots.txt yields an
	// allow-all policy.
	Robots *sitetext.Robots

	// Seeds are the depth-0 frontier entries, in discovery order.
	Seeds []string
}

// OriginKey names the run's output.
func (p *Plan) OriginKey() string {
	return sitetext.OriginKey(p.Start)
}

// Discoverer loads the crawl policy for an origin and picks a discovery mode.
type Discoverer struct {
	Robots   sitetext.RobotsService
	Sitemaps sitetext.SitemapService

	// SitemapDepth bounds how many nested sitemap indexes are followed.
	SitemapDepth int

	// ProbeSitemap makes discovery try /sitemap.xml when robots.txt
	// names no sitemaps.
	ProbeSitemap bool

	// Filter, if set, drops sitemap URLs that do not match.
	Filter *sitetext.URLFilter
}

// Plan loads robots.txt for the origin of startURL and decides the mode.
// Sitemap mode is used when robots.txt (or the optional probe) yields
// sitemaps that enumerate at least one page. Otherwise the run recurses
// from startURL. Only an invalid start URL or a canceled context is an error.
func (d *Discoverer) Plan(ctx context.Context, startURL string) (*Plan, error) {
	canonical, err := sitetext.CanonicalURL(startURL)
	if err != nil {
		return nil, err
	}
	start, err := url.Parse(canonical)
	if err != nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "invalid start URL %q: %v", startURL, err)
	}

	plan := &Plan{Start: start, Robots: &sitetext.Robots{}}

	robots, err := d.Robots.LoadRobots(ctx, sitetext.Origin(start))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err == nil && robots != nil {
		plan.Robots = robots
	}

	roots := plan.Robots.Sitemaps
	if len(roots) == 0 && d.ProbeSitemap {
		roots = []string{sitetext.Origin(start) + "/sitemap.xml"}
	}

	if len(roots) > 0 {
		pages, err := ResolveSitemaps(ctx, d.Sitemaps, roots, d.SitemapDepth)
		if err != nil {
			return nil, err
		}
		for _, page := range pages {
			if d.Filter.Match(page) {
				plan.Seeds = append(plan.Seeds, page)
			}
		}
		if len(plan.Seeds) > 0 {
			plan.Mode = sitetext.ModeSitemap
			return plan, nil
		}
	}

	plan.Mode = sitetext.ModeRecursive
	plan.Seeds = []string{canonical}
	return plan, nil
}

// ResolveSitemaps walks sitemap indexes breadth first and returns the
// deduplicated canonical page URLs of every leaf sitemap reached.
// Indexes nested deeper than maxDepth below the roots are not fetched and
// no sitemap is fetched twice, so cyclic references terminate.
// Sitemaps that cannot be fetched or parsed are skipped.
func ResolveSitemaps(ctx context.Context, svc sitetext.SitemapService, roots []string, maxDepth int) ([]string, error) {
	seenSitemaps := make(map[string]bool)
	seenPages := make(map[string]bool)
	var pages []string

	level := roots
	for depth := 0; depth <= maxDepth && len(level) > 0; depth++ {
		var next []string
		for _, loc := range level {
			if seenSitemaps[loc] {
				continue
			}
			seenSitemaps[loc] = true

			sm, err := svc.FetchSitemap(ctx, loc)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				continue
			}

			switch sm.Kind {
			case sitetext.SitemapIndex:
				next = append(next, sm.URLs...)
			case sitetext.SitemapLeaf:
				for _, raw := range sm.URLs {
					page, err := sitetext.CanonicalURL(raw)
					if err != nil || seenPages[page] {
						continue
					}
					seenPages[page] = true
					pages = append(pages, page)
				}
			}
		}
		level = next
	}

	return pages, nil
}
