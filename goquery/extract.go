// Package goquery extracts hyperlinks from HTML using github.com/PuerkitoBio/goquery.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitetext"
)

// Ensure LinkExtractor implements sitetext.LinkExtractor.
var _ sitetext.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor returns the href of every anchor in a document.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns hrefs in document order, deduplicated.
// Empty and non-HTTP hrefs (javascript:, mailto:, tel:, data:) are skipped.
// When the document declares an absolute <base href>, relative hrefs are
// resolved against it; otherwise they are returned as written for the
// caller to resolve against the page URL.
func (e *LinkExtractor) ExtractLinks(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, sitetext.Errorf(sitetext.EINVALID, "failed to parse HTML: %v", err)
	}

	base := documentBase(doc)

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) {
			return
		}
		if base != nil {
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			href = base.ResolveReference(ref).String()
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})

	return links, nil
}

// documentBase returns the first <base href> if it is absolute.
func documentBase(doc *goquery.Document) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return nil
	}
	base, err := url.Parse(strings.TrimSpace(href))
	if err != nil || !base.IsAbs() {
		return nil
	}
	return base
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
