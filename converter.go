package sitetext

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms a content fragment produced during extraction
	// into Markdown. Relative links and images are made absolute against
	// pageURL when it is non-empty.
	Convert(html, pageURL string) (string, error)
}
