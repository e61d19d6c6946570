package trafilatura

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/sitetext"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitetext.Extractor at compile time.
var _ sitetext.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	converter sitetext.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter makes the Extractor render the main content as markdown
// through c instead of returning plain text.
func WithConverter(c sitetext.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized main content of rawHTML. Pages without
// recognizable content yield an empty string.
func (e *Extractor) Extract(rawHTML []byte, pageURL string) (text string, err error) {
	if len(bytes.TrimSpace(rawHTML)) == 0 {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", sitetext.Errorf(sitetext.EINTERNAL, "trafilatura panicked on %s: %v", pageURL, r)
		}
	}()

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, perr := url.Parse(pageURL); perr == nil && u.IsAbs() {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(bytes.NewReader(rawHTML), opts)
	if err != nil {
		return "", fmt.Errorf("trafilatura: %w", err)
	}
	if result == nil {
		return "", nil
	}

	if e.converter == nil || result.ContentNode == nil {
		return sitetext.NormalizeText(result.ContentText), nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return "", err
	}
	md, err := e.converter.Convert(contentHTML, pageURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
