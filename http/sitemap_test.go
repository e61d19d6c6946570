package http_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/fwojciec/sitetext"
	sitetexthttp "github.com/fwojciec/sitetext/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_FetchSitemap(t *testing.T) {
	t.Parallel()

	t.Run("parses a urlset as a leaf sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>
    {{BASE}}/docs/guide
  </loc></url>
  <url><loc></loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
</urlset>`,
		})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		sm, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		require.NoError(t, err)
		assert.Equal(t, sitetext.SitemapLeaf, sm.Kind)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, sm.URLs)
	})

	t.Run("parses a sitemapindex as an index", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-posts.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`,
		})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		sm, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		require.NoError(t, err)
		assert.Equal(t, sitetext.SitemapIndex, sm.Kind)
		assert.Equal(t, []string{srv.URL + "/sitemap-posts.xml", srv.URL + "/sitemap-pages.xml"}, sm.URLs)
	})

	t.Run("accepts a sitemap without a namespace", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<urlset><url><loc>{{BASE}}/a</loc></url></urlset>`,
		})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		sm, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/a"}, sm.URLs)
	})

	t.Run("rejects a foreign namespace", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<urlset xmlns="http://example.test/not-sitemaps"><url><loc>{{BASE}}/a</loc></url></urlset>`,
		})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		_, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
	})

	t.Run("rejects an unknown root element", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/feed.xml": `<rss version="2.0"><channel></channel></rss>`,
		})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		_, err := svc.FetchSitemap(context.Background(), srv.URL+"/feed.xml")

		assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
	})

	t.Run("rejects malformed XML", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<urlset><url><loc>broken`,
		})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		_, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
	})

	t.Run("reports a missing sitemap as not found", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		_, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		assert.Equal(t, sitetext.ENOTFOUND, sitetext.ErrorCode(err))
	})

	t.Run("decompresses gzip sitemaps", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>https://example.test/gz</loc></url></urlset>`))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/gzip")
			_, _ = w.Write(buf.Bytes())
		}))
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "")
		sm, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml.gz")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.test/gz"}, sm.URLs)
	})

	t.Run("sends the user agent", func(t *testing.T) {
		t.Parallel()

		gotUA := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA <- r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`<urlset/>`))
		}))
		defer srv.Close()

		svc := sitetexthttp.NewSitemapService(srv.Client(), "sitemap-agent/1.0")
		_, err := svc.FetchSitemap(context.Background(), srv.URL+"/sitemap.xml")

		require.NoError(t, err)
		assert.Equal(t, "sitemap-agent/1.0", <-gotUA)
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		svc := sitetexthttp.NewSitemapService(nil, "")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.FetchSitemap(ctx, "http://example.test/sitemap.xml")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

// Ensure SitemapService implements sitetext.SitemapService.
var _ sitetext.SitemapService = (*sitetexthttp.SitemapService)(nil)

func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Replace {{BASE}} with actual server URL
		body = replaceBaseURL(body, srv.URL)

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}
