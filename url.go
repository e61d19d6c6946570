package sitetext

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a link found on the page at base.
//
// Relative references are resolved against base. The query string and
// fragment are dropped, scheme and host are lowercased, and an empty path
// becomes "/". Links that leave base's origin (scheme, host and port) are
// rejected, as are unparsable hrefs. The bool result reports whether the
// link is usable.
func NormalizeURL(href string, base *url.URL) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)
	if !SameOrigin(resolved, base) {
		return "", false
	}
	return canonical(resolved), true
}

// CanonicalURL canonicalizes an absolute http(s) URL without any origin
// restriction. It is used for sitemap entries, which may legitimately point
// at other hosts.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", Errorf(EINVALID, "unsupported scheme in %q", rawURL)
	}
	return canonical(u), nil
}

// SameOrigin reports whether a and b share scheme, host and port.
// Default ports are treated as equal to an omitted port.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

// Origin returns the scheme://host[:port] form of u.
func Origin(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// OriginKey returns a filesystem-safe key derived from u's host component.
// It names per-origin output, e.g. "example.com" or "example.com_8080".
func OriginKey(u *url.URL) string {
	return strings.ReplaceAll(strings.ToLower(u.Host), ":", "_")
}

func canonical(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	if p := c.Port(); p != "" && p == defaultPort(c.Scheme) {
		c.Host = strings.TrimSuffix(c.Host, ":"+p)
	}
	c.RawQuery = ""
	c.ForceQuery = false
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return c.String()
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	return defaultPort(u.Scheme)
}

func defaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}
