package readability

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/sitetext"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sitetext.Extractor at compile time.
var _ sitetext.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	converter sitetext.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter makes the Extractor convert the article HTML to markdown
// through c instead of returning its plain text.
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

// Extract processes raw HTML and returns the article text.
func (e *Extractor) Extract(rawHTML []byte, pageURL string) (text string, err error) {
	if len(bytes.TrimSpace(rawHTML)) == 0 {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", sitetext.Errorf(sitetext.EINTERNAL, "readability panicked on %s: %v", pageURL, r)
		}
	}()

	var u *url.URL
	if parsed, perr := url.Parse(pageURL); perr == nil && parsed.IsAbs() {
		u = parsed
	}

	article, err := readability.FromReader(bytes.NewReader(rawHTML), u)
	if err != nil {
		return "", sitetext.Errorf(sitetext.EINVALID, "readability: %v", err)
	}

	if e.converter == nil {
		return sitetext.NormalizeText(article.TextContent), nil
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", nil
	}
	md, err := e.converter.Convert(article.Content, pageURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
