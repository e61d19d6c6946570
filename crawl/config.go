package crawl

import (
	"time"

	"github.com/fwojciec/sitetext"
)

// Default crawl limits.
const (
	DefaultMaxDepth     = 3
	DefaultMinDelay     = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
	DefaultMaxRetries   = 5
	DefaultConcurrency  = 1
	DefaultSitemapDepth = 3
)

// Config bounds a crawl run.
type Config struct {
	// MaxDepth is the longest link chain followed from the start URL in
	// recursive mode. The start URL has depth 0.
	MaxDepth int

	// MaxPages caps the number of URLs ever scheduled, including ones that
	// later fail. Zero means unbounded.
	MaxPages int

	// MinDelay and MaxDelay bound the adaptive pause taken before each request.
	MinDelay time.Duration
	MaxDelay time.Duration

	// MaxRetries is the number of attempts made for each URL.
	MaxRetries int

	// Concurrency is the number of workers. Each worker paces itself with
	// its own rate controller.
	Concurrency int

	// SitemapDepth is how many levels of nested sitemap indexes are followed.
	SitemapDepth int
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		MaxDepth:     DefaultMaxDepth,
		MinDelay:     DefaultMinDelay,
		MaxDelay:     DefaultMaxDelay,
		MaxRetries:   DefaultMaxRetries,
		Concurrency:  DefaultConcurrency,
		SitemapDepth: DefaultSitemapDepth,
	}
}

// Validate returns an EINVALID error describing the first bad field.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return sitetext.Errorf(sitetext.EINVALID, "max depth must not be negative, got %d", c.MaxDepth)
	case c.MaxPages < 0:
		return sitetext.Errorf(sitetext.EINVALID, "max pages must not be negative, got %d", c.MaxPages)
	case c.MinDelay <= 0:
		return sitetext.Errorf(sitetext.EINVALID, "min delay must be positive, got %s", c.MinDelay)
	case c.MaxDelay < c.MinDelay:
		return sitetext.Errorf(sitetext.EINVALID, "max delay %s is below min delay %s", c.MaxDelay, c.MinDelay)
	case c.MaxRetries < 1:
		return sitetext.Errorf(sitetext.EINVALID, "max retries must be at least 1, got %d", c.MaxRetries)
	case c.Concurrency < 1:
		return sitetext.Errorf(sitetext.EINVALID, "concurrency must be at least 1, got %d", c.Concurrency)
	case c.SitemapDepth < 0:
		return sitetext.Errorf(sitetext.EINVALID, "sitemap depth must not be negative, got %d", c.SitemapDepth)
	}
	return nil
}
