// Package htmltomarkdown renders extracted HTML as Markdown using
// github.com/JohannesKaufmann/html-to-markdown/v2.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sitetext"
)

// Ensure Converter implements sitetext.Converter at compile time.
var _ sitetext.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with CommonMark and table support.
// Empty table rows are dropped.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(table.WithSkipEmptyRows(true)),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Blank input yields an
// empty result.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}

	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", sitetext.Errorf(sitetext.EINVALID, "converting %s to markdown: %v", pageURL, err)
	}

	return strings.TrimSpace(result), nil
}
