package trafilatura_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/mock"
	"github.com/fwojciec/sitetext/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements sitetext.Extractor at compile time.
var _ sitetext.Extractor = (*trafilatura.Extractor)(nil)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Field notes</title></head>
<body>
<nav class="main-nav"><ul><li><a href="/">Home</a></li><li><a href="/about">About us</a></li></ul></nav>
<article>
<h1>Field notes from the coast</h1>
<p>The tide came in early this morning and covered the lower path entirely.</p>
<p>We waited on the ridge for two hours before the water receded enough to continue.</p>
</article>
<footer><p>Copyright 2026 Example Press</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns the main text without boilerplate", func(t *testing.T) {
		t.Parallel()

		text, err := trafilatura.NewExtractor().Extract([]byte(articlePage), "https://example.test/notes")

		require.NoError(t, err)
		assert.Contains(t, text, "covered the lower path entirely")
		assert.Contains(t, text, "water receded")
		assert.NotContains(t, text, "Copyright 2026 Example Press")
	})

	t.Run("normalizes whitespace", func(t *testing.T) {
		t.Parallel()

		text, err := trafilatura.NewExtractor().Extract([]byte(articlePage), "https://example.test/notes")

		require.NoError(t, err)
		for _, line := range strings.Split(text, "\n") {
			assert.NotEmpty(t, line)
			assert.Equal(t, strings.TrimSpace(line), line)
		}
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		text, err := trafilatura.NewExtractor().Extract([]byte(`<html><body><p>Simple content</p></body></html>`), "")

		require.NoError(t, err)
		assert.Contains(t, text, "Simple content")
	})

	t.Run("returns empty text for empty input", func(t *testing.T) {
		t.Parallel()

		text, err := trafilatura.NewExtractor().Extract(nil, "https://example.test/")

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("renders content through the converter", func(t *testing.T) {
		t.Parallel()

		var gotHTML, gotURL string
		conv := &mock.Converter{
			ConvertFn: func(html, pageURL string) (string, error) {
				gotHTML, gotURL = html, pageURL
				return "\n# Field notes\n\nconverted body\n", nil
			},
		}

		text, err := trafilatura.NewExtractor(trafilatura.WithConverter(conv)).
			Extract([]byte(articlePage), "https://example.test/notes")

		require.NoError(t, err)
		assert.Equal(t, "# Field notes\n\nconverted body", text)
		assert.Contains(t, gotHTML, "covered the lower path entirely")
		assert.Equal(t, "https://example.test/notes", gotURL)
	})

	t.Run("returns converter errors", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(string, string) (string, error) {
				return "", errors.New("boom")
			},
		}

		_, err := trafilatura.NewExtractor(trafilatura.WithConverter(conv)).
			Extract([]byte(articlePage), "https://example.test/notes")

		require.Error(t, err)
	})
}
