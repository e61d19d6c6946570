package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements sitetext.Converter at compile time.
var _ sitetext.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts article structure", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Release notes</h1>
<p>Version <strong>2.0</strong> adds <em>streaming</em> and <code>--resume</code>.</p>
<ul><li>Faster sitemaps</li><li>Smaller output</li></ul>
<blockquote><p>Upgrade before June.</p></blockquote>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "# Release notes")
		assert.Contains(t, md, "**2.0**")
		assert.Contains(t, md, "*streaming*")
		assert.Contains(t, md, "`--resume`")
		assert.Contains(t, md, "- Faster sitemaps")
		assert.Contains(t, md, "> Upgrade before June.")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		html := `<pre><code class="language-go">package main

func main() {}
</code></pre>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "```go")
		assert.Contains(t, md, "package main")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>City</th><th>Population</th></tr></thead>
<tbody><tr><td>Tabriz</td><td>1.6M</td></tr><tr><td></td><td></td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "City")
		assert.Contains(t, md, "Tabriz")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("makes relative links absolute against the page URL", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="/docs/setup">setup</a> and <a href="next">the next post</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "https://example.test/blog/post")

		require.NoError(t, err)
		assert.Contains(t, md, "[setup](https://example.test/docs/setup)")
		assert.Contains(t, md, "[the next post](https://example.test/blog/next)")
	})

	t.Run("keeps relative links without a page URL", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<a href="/docs/setup">setup</a>`, "")

		require.NoError(t, err)
		assert.Contains(t, md, "[setup](/docs/setup)")
	})

	t.Run("preserves non-ASCII text", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>این یک مقاله است.</p>`, "")

		require.NoError(t, err)
		assert.Equal(t, "این یک مقاله است.", md)
	})

	t.Run("returns empty output for blank input", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("  \n ", "")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}
