package main

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/crawl"
	"github.com/fwojciec/sitetext/fs"
	"gopkg.in/yaml.v3"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL string `arg:"" required:"" help:"Start URL. Its origin bounds the crawl."`

	MaxDepth     int           `name:"max-depth" default:"3" env:"SITETEXT_MAX_DEPTH" help:"Maximum link depth in recursive mode."`
	MaxPages     int           `name:"max-pages" default:"0" env:"SITETEXT_MAX_PAGES" help:"Maximum number of pages to schedule (0 for no limit)."`
	MinDelay     time.Duration `name:"min-delay" default:"1s" env:"SITETEXT_MIN_DELAY" help:"Lower bound of the adaptive delay between requests."`
	MaxDelay     time.Duration `name:"max-delay" default:"30s" env:"SITETEXT_MAX_DELAY" help:"Upper bound of the adaptive delay between requests."`
	Timeout      time.Duration `short:"t" default:"15s" env:"SITETEXT_TIMEOUT" help:"Timeout per request."`
	MaxRetries   int           `name:"max-retries" default:"5" env:"SITETEXT_MAX_RETRIES" help:"Attempts per URL before giving up."`
	UserAgent    string        `name:"user-agent" default:"sitetext/1.0" env:"SITETEXT_USER_AGENT" help:"User-Agent header and robots.txt agent name."`
	Concurrency  int           `short:"c" default:"1" env:"SITETEXT_CONCURRENCY" help:"Number of concurrent workers."`
	SitemapDepth int           `name:"sitemap-depth" default:"3" env:"SITETEXT_SITEMAP_DEPTH" help:"Maximum nesting of sitemap indexes."`
	ProbeSitemap bool          `name:"probe-sitemap" env:"SITETEXT_PROBE_SITEMAP" help:"Try /sitemap.xml when robots.txt lists no sitemaps."`

	Include   []string `short:"i" env:"SITETEXT_INCLUDE" help:"Only crawl URLs matching one of these regular expressions."`
	Exclude   []string `short:"x" env:"SITETEXT_EXCLUDE" help:"Skip URLs matching any of these regular expressions."`
	ScopePath bool     `name:"scope-path" env:"SITETEXT_SCOPE_PATH" help:"Only follow links under the start URL's path."`

	Extractor string `enum:"trafilatura,readability" default:"trafilatura" env:"SITETEXT_EXTRACTOR" help:"Content extractor (${enum})."`
	Format    string `enum:"text,markdown" default:"text" env:"SITETEXT_FORMAT" help:"Document content format (${enum})."`

	BloomCapacity uint    `name:"bloom-capacity" default:"0" env:"SITETEXT_BLOOM_CAPACITY" help:"Track visited URLs in a bloom filter sized for this many URLs (0 for an exact set)."`
	MaxRPS        float64 `name:"max-rps" default:"0" env:"SITETEXT_MAX_RPS" help:"Hard ceiling on requests per second across workers (0 to disable)."`

	Output   string `short:"o" default:"${output_dir}" type:"path" env:"SITETEXT_OUTPUT" help:"Directory for <host>_scraped_data.json."`
	PagesDir string `name:"pages-dir" type:"path" env:"SITETEXT_PAGES_DIR" help:"Also write one markdown file per page under this directory."`
	SQLite   string `name:"sqlite" type:"path" env:"SITETEXT_SQLITE" help:"Also store documents in this SQLite database."`

	Preview bool `short:"p" help:"Show the discovery plan without crawling."`

	LogLevel  string `name:"log-level" enum:"debug,info,warn,error" default:"info" env:"SITETEXT_LOG_LEVEL" help:"Log level (${enum})."`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" env:"SITETEXT_LOG_FORMAT" help:"Log format (${enum})."`
	LogFile   string `name:"log-file" type:"path" env:"SITETEXT_LOG_FILE" help:"Append logs to this file instead of stderr."`

	Config kong.ConfigFlag `help:"YAML file with flag defaults." type:"path"`

	filter *sitetext.URLFilter
}

// Validate compiles the URL patterns.
// Kong calls it after parsing.
func (c *CLI) Validate() error {
	include, err := compilePatterns(c.Include)
	if err != nil {
		return fmt.Errorf("--include: %w", err)
	}
	exclude, err := compilePatterns(c.Exclude)
	if err != nil {
		return fmt.Errorf("--exclude: %w", err)
	}
	if len(include) > 0 || len(exclude) > 0 {
		c.filter = &sitetext.URLFilter{Include: include, Exclude: exclude}
	}
	return nil
}

// CrawlConfig returns the crawl settings selected on the command line.
func (c *CLI) CrawlConfig() crawl.Config {
	return crawl.Config{
		MaxDepth:     c.MaxDepth,
		MaxPages:     c.MaxPages,
		MinDelay:     c.MinDelay,
		MaxDelay:     c.MaxDelay,
		MaxRetries:   c.MaxRetries,
		Concurrency:  c.Concurrency,
		SitemapDepth: c.SitemapDepth,
	}
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// cliVars are interpolated into struct tags.
func cliVars() kong.Vars {
	return kong.Vars{
		"output_dir": fs.DefaultOutputDir,
	}
}

// yamlLoader reads flag defaults from a YAML mapping. Keys are flag names,
// with either dashes or underscores.
func yamlLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			if v, ok := values[key]; ok {
				return v, nil
			}
		}
		return nil, nil
	}
	return f, nil
}
