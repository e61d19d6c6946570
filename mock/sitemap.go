package mock

import (
	"context"

	"github.com/fwojciec/sitetext"
)

var _ sitetext.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitetext.SitemapService.
type SitemapService struct {
	FetchSitemapFn func(ctx context.Context, url string) (*sitetext.Sitemap, error)
}

func (s *SitemapService) FetchSitemap(ctx context.Context, url string) (*sitetext.Sitemap, error) {
	return s.FetchSitemapFn(ctx, url)
}
