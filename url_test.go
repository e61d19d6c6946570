package sitetext_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/sitetext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://example.test/docs/intro")

	t.Run("resolves root-relative hrefs against the origin", func(t *testing.T) {
		t.Parallel()

		got, ok := sitetext.NormalizeURL("/a", base)

		require.True(t, ok)
		assert.Equal(t, "https://example.test/a", got)
	})

	t.Run("resolves document-relative hrefs against the page", func(t *testing.T) {
		t.Parallel()

		got, ok := sitetext.NormalizeURL("guide", base)

		require.True(t, ok)
		assert.Equal(t, "https://example.test/docs/guide", got)
	})

	t.Run("strips query strings and fragments", func(t *testing.T) {
		t.Parallel()

		fromFragment, ok := sitetext.NormalizeURL("/a#x", base)
		require.True(t, ok)
		fromQuery, ok := sitetext.NormalizeURL("/a?y=1", base)
		require.True(t, ok)

		assert.Equal(t, "https://example.test/a", fromFragment)
		assert.Equal(t, fromFragment, fromQuery)
	})

	t.Run("keeps absolute same-origin hrefs", func(t *testing.T) {
		t.Parallel()

		got, ok := sitetext.NormalizeURL("https://example.test/b/c", base)

		require.True(t, ok)
		assert.Equal(t, "https://example.test/b/c", got)
	})

	t.Run("treats host case and default ports as the same origin", func(t *testing.T) {
		t.Parallel()

		got, ok := sitetext.NormalizeURL("HTTPS://Example.TEST:443/b", base)

		require.True(t, ok)
		assert.Equal(t, "https://example.test/b", got)
	})

	t.Run("rejects other origins", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"https://other.test/",
			"http://example.test/a",
			"https://example.test:8443/a",
			"//cdn.example.test/lib.js",
		} {
			_, ok := sitetext.NormalizeURL(href, base)
			assert.False(t, ok, href)
		}
	})

	t.Run("rejects non-http links and empty hrefs", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{"mailto:a@example.test", "javascript:void(0)", "", "   "} {
			_, ok := sitetext.NormalizeURL(href, base)
			assert.False(t, ok, href)
		}
	})

	t.Run("percent-encodes non-ASCII paths", func(t *testing.T) {
		t.Parallel()

		got, ok := sitetext.NormalizeURL("/مقاله", base)

		require.True(t, ok)
		assert.Equal(t, "https://example.test/%D9%85%D9%82%D8%A7%D9%84%D9%87", got)
	})

	t.Run("gives the bare origin a root path", func(t *testing.T) {
		t.Parallel()

		got, ok := sitetext.NormalizeURL("https://example.test", base)

		require.True(t, ok)
		assert.Equal(t, "https://example.test/", got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"/a", "/a?x=1", "/a#frag", "guide/../api/", "./x/./y", "/مقاله",
			"https://EXAMPLE.test:443", "/a%20b", "/a/b/", "https://example.test/p?q#f",
		} {
			once, ok := sitetext.NormalizeURL(href, base)
			require.True(t, ok, href)
			twice, ok := sitetext.NormalizeURL(once, base)
			require.True(t, ok, once)
			assert.Equal(t, once, twice, href)
		}
	})
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	t.Run("accepts other origins", func(t *testing.T) {
		t.Parallel()

		got, err := sitetext.CanonicalURL(" https://other.test/post?id=3#top ")

		require.NoError(t, err)
		assert.Equal(t, "https://other.test/post", got)
	})

	t.Run("rejects relative and non-http URLs", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"/relative", "ftp://example.test/file", "::"} {
			_, err := sitetext.CanonicalURL(raw)
			require.Error(t, err, raw)
			assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
		}
	})
}

func TestOriginKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.test", sitetext.OriginKey(mustParse(t, "https://Example.test/a")))
	assert.Equal(t, "example.test_8080", sitetext.OriginKey(mustParse(t, "http://example.test:8080/")))
	assert.Equal(t, "https://example.test", sitetext.Origin(mustParse(t, "HTTPS://example.TEST/a/b")))
}
