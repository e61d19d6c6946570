package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitetext"
	"golang.org/x/net/html/charset"
)

// SitemapNamespace is the XML namespace of the sitemaps.org protocol.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Ensure SitemapService implements sitetext.SitemapService.
var _ sitetext.SitemapService = (*SitemapService)(nil)

// SitemapService fetches and parses sitemap documents via HTTP.
type SitemapService struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, userAgent string) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &SitemapService{client: client, userAgent: userAgent, maxBodySize: 50 << 20}
}

// FetchSitemap retrieves the sitemap at sitemapURL. Gzip-compressed
// sitemaps are decompressed. The root element decides the kind: a
// <sitemapindex> lists child sitemaps and a <urlset> lists pages.
// Documents in a foreign namespace are rejected; documents without a
// namespace are accepted.
func (s *SitemapService) FetchSitemap(ctx context.Context, sitemapURL string) (*sitetext.Sitemap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	br := bufio.NewReader(io.LimitReader(body, s.maxBodySize))
	var r io.Reader = br
	if isGzip(br) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, sitetext.Errorf(sitetext.EINVALID, "decompressing sitemap %s: %v", sitemapURL, err)
		}
		defer zr.Close()
		r = zr
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, sitetext.Errorf(sitetext.EINVALID, "parsing sitemap XML %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "empty sitemap XML at %s", sitemapURL)
	}
	if ns := root.NamespaceURI(); ns != "" && ns != SitemapNamespace {
		return nil, sitetext.Errorf(sitetext.EINVALID, "sitemap %s has unexpected namespace %q", sitemapURL, ns)
	}

	switch root.Tag {
	case "sitemapindex":
		return &sitetext.Sitemap{Kind: sitetext.SitemapIndex, URLs: locs(root, "sitemap")}, nil
	case "urlset":
		return &sitetext.Sitemap{Kind: sitetext.SitemapLeaf, URLs: locs(root, "url")}, nil
	}
	return nil, sitetext.Errorf(sitetext.EINVALID, "sitemap %s has unknown root element <%s>", sitemapURL, root.Tag)
}

// locs returns the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var urls []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// isGzip peeks at the gzip magic number.
func isGzip(r *bufio.Reader) bool {
	magic, err := r.Peek(2)
	return err == nil && magic[0] == 0x1f && magic[1] == 0x8b
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	return charset.NewReaderLabel(label, input)
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "creating request for %s: %v", targetURL, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, sitetext.Errorf(sitetext.EUNAVAILABLE, "GET %s: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		code := sitetext.EUNAVAILABLE
		if resp.StatusCode == http.StatusNotFound {
			code = sitetext.ENOTFOUND
		}
		return nil, sitetext.Errorf(code, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
