// Package robotstxt loads robots.txt crawl policies using
// github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/sitetext"
	"github.com/temoto/robotstxt"
)

// DefaultMaxSize is the largest robots.txt body read. Content past it is ignored.
const DefaultMaxSize = 500 << 10

// Ensure interfaces are implemented at compile time.
var (
	_ sitetext.PolicyGate    = (*Gate)(nil)
	_ sitetext.RobotsService = (*RobotsService)(nil)
)

// Gate answers fetch-permission queries for one user agent.
type Gate struct {
	group *robotstxt.Group
}

// Allowed reports whether the rules permit fetching rawURL.
// Unparsable URLs are allowed.
func (g *Gate) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return g.group.Test(u.RequestURI())
}

// Parse parses a robots.txt body. The returned Robots applies the group
// that best matches userAgent. Relative sitemap locations are resolved
// against robotsURL and unusable ones dropped.
func Parse(body []byte, robotsURL, userAgent string) (*sitetext.Robots, error) {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "parsing robots.txt %s: %v", robotsURL, err)
	}

	base, _ := url.Parse(robotsURL)
	robots := &sitetext.Robots{Gate: &Gate{group: data.FindGroup(userAgent)}}
	for _, raw := range data.Sitemaps {
		loc := strings.TrimSpace(raw)
		if base != nil {
			ref, err := url.Parse(loc)
			if err != nil {
				continue
			}
			loc = base.ResolveReference(ref).String()
		}
		if _, err := sitetext.CanonicalURL(loc); err != nil {
			continue
		}
		robots.Sitemaps = append(robots.Sitemaps, loc)
	}
	return robots, nil
}

// RobotsService fetches robots.txt over HTTP.
type RobotsService struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// NewRobotsService creates a RobotsService that evaluates rules for userAgent.
// If client is nil, http.DefaultClient is used.
func NewRobotsService(client *http.Client, userAgent string) *RobotsService {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsService{client: client, userAgent: userAgent, maxSize: DefaultMaxSize}
}

// LoadRobots fetches and parses originURL/robots.txt.
//
// Any status other than 200 is reported as an error so the caller can fall
// back to allowing everything. A robots.txt served as XML is treated as a
// sitemap with no rules.
func (s *RobotsService) LoadRobots(ctx context.Context, originURL string) (*sitetext.Robots, error) {
	robotsURL := strings.TrimSuffix(originURL, "/") + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "creating request for %s: %v", robotsURL, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, sitetext.Errorf(sitetext.EUNAVAILABLE, "fetching %s: %v", robotsURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		code := sitetext.EUNAVAILABLE
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			code = sitetext.ENOTFOUND
		}
		return nil, sitetext.Errorf(code, "robots.txt %s returned status %d", robotsURL, resp.StatusCode)
	}

	if isXML(resp.Header.Get("Content-Type")) {
		return &sitetext.Robots{Sitemaps: []string{robotsURL}}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, sitetext.Errorf(sitetext.EUNAVAILABLE, "reading %s: %v", robotsURL, err)
	}

	return Parse(body, robotsURL, s.userAgent)
}

func isXML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/xml" || mediaType == "text/xml"
}
