package sitetext

import "strings"

// Extractor produces the main text of an HTML page, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL and returns its
	// normalized text. An empty result means the page had no usable
	// content. Implementations must not panic on malformed input.
	Extract(html []byte, pageURL string) (string, error)
}

// LinkExtractor finds outbound links in an HTML page.
type LinkExtractor interface {
	// ExtractLinks returns the href values of the page's anchors in
	// document order. Hrefs are made absolute only when the page declares
	// an absolute <base>. Canonicalization is the caller's job.
	ExtractLinks(html []byte) ([]string, error)
}

// NormalizeText trims every line of s and drops blank lines.
func NormalizeText(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
