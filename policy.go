package sitetext

import "context"

// PolicyGate decides whether a URL may be fetched.
type PolicyGate interface {
	Allowed(rawURL string) bool
}

// Robots is the crawl policy loaded for one origin.
type Robots struct {
	// Gate answers per-URL decisions. A nil Gate allows everything, which
	// is how a missing or unreadable robots.txt is represented.
	Gate PolicyGate

	// Sitemaps lists the Sitemap: directives found in robots.txt.
	Sitemaps []string
}

// Allowed reports whether rawURL may be fetched. A nil Robots or Gate allows all URLs.
func (r *Robots) Allowed(rawURL string) bool {
	if r == nil || r.Gate == nil {
		return true
	}
	return r.Gate.Allowed(rawURL)
}

// RobotsService loads the crawl policy for an origin.
type RobotsService interface {
	// LoadRobots fetches and parses robots.txt for originURL. A missing or
	// non-200 robots.txt is reported as an error; callers treat any error
	// other than context cancellation as "no policy" and allow everything.
	LoadRobots(ctx context.Context, originURL string) (*Robots, error)
}
