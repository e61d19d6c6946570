package mock

import "github.com/fwojciec/sitetext"

// Compile-time interface verification.
var (
	_ sitetext.Extractor     = (*Extractor)(nil)
	_ sitetext.LinkExtractor = (*LinkExtractor)(nil)
)

// Extractor is a mock implementation of sitetext.Extractor.
type Extractor struct {
	ExtractFn func(html []byte, pageURL string) (string, error)
}

func (e *Extractor) Extract(html []byte, pageURL string) (string, error) {
	return e.ExtractFn(html, pageURL)
}

// LinkExtractor is a mock implementation of sitetext.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html []byte) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html []byte) ([]string, error) {
	return e.ExtractLinksFn(html)
}
