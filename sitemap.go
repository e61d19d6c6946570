package sitetext

import (
	"context"
	"regexp"
)

// SitemapKind distinguishes sitemap indexes from leaf sitemaps.
type SitemapKind int

// Sitemap kinds.
const (
	SitemapLeaf SitemapKind = iota
	SitemapIndex
)

func (k SitemapKind) String() string {
	if k == SitemapIndex {
		return "index"
	}
	return "leaf"
}

// Sitemap is one parsed sitemap document.
type Sitemap struct {
	Kind SitemapKind

	// URLs holds child sitemap locations for an index and page locations
	// for a leaf.
	URLs []string
}

// SitemapService fetches individual sitemap documents.
type SitemapService interface {
	// FetchSitemap retrieves and parses the sitemap at url. The kind is
	// determined by the root element's tag within the sitemap namespace.
	FetchSitemap(ctx context.Context, url string) (*Sitemap, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
