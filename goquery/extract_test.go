package goquery_test

import (
	"testing"

	"github.com/fwojciec/sitetext/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns hrefs in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<nav><a href="/docs">Docs</a></nav>
			<main>
				<a href="guide.html">Guide</a>
				<a href="https://other.test/x">Elsewhere</a>
				<a href="/docs">Docs again</a>
				<map><area href="/map-target" alt="x"></map>
			</main>
		</body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks([]byte(html))

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs", "guide.html", "https://other.test/x", "/map-target"}, links)
	})

	t.Run("skips empty and non-HTTP hrefs", func(t *testing.T) {
		t.Parallel()

		html := `<a href="">empty</a>
			<a>no href</a>
			<a href="javascript:void(0)">js</a>
			<a href="MAILTO:someone@example.test">mail</a>
			<a href="tel:+100">tel</a>
			<a href="data:text/plain,hi">data</a>
			<a href=" /kept ">kept</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks([]byte(html))

		require.NoError(t, err)
		assert.Equal(t, []string{"/kept"}, links)
	})

	t.Run("resolves relative hrefs against an absolute base element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><base href="https://example.test/blog/"></head>
			<body><a href="post-1">One</a><a href="/about">About</a></body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks([]byte(html))

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.test/blog/post-1", "https://example.test/about"}, links)
	})

	t.Run("ignores a relative base element", func(t *testing.T) {
		t.Parallel()

		html := `<base href="/static/"><a href="page">Page</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks([]byte(html))

		require.NoError(t, err)
		assert.Equal(t, []string{"page"}, links)
	})

	t.Run("keeps non-ASCII hrefs untouched", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/مقاله/۱">Article</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks([]byte(html))

		require.NoError(t, err)
		assert.Equal(t, []string{"/مقاله/۱"}, links)
	})

	t.Run("returns nothing for a page without links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor().ExtractLinks([]byte(`<p>No links here</p>`))

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
