package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/crawl"
	"github.com/fwojciec/sitetext/fs"
	"github.com/fwojciec/sitetext/goquery"
	"github.com/fwojciec/sitetext/htmltomarkdown"
	sthttp "github.com/fwojciec/sitetext/http"
	"github.com/fwojciec/sitetext/readability"
	"github.com/fwojciec/sitetext/robotstxt"
	stslog "github.com/fwojciec/sitetext/slog"
	"github.com/fwojciec/sitetext/sqlite"
	"github.com/fwojciec/sitetext/trafilatura"
)

// bloomFalsePositiveRate is the target error rate of the visited-URL filter.
const bloomFalsePositiveRate = 0.001

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// DB is the SQLite database opened for --sqlite.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitetext"),
		kong.Description("Crawl one website and save the text of its pages as JSON"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(yamlLoader),
		cliVars(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cli, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	deps, err := m.wire(cli, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if cli.Preview {
		return runPreview(ctx, deps.Crawler.Discoverer, cli.URL, stdout)
	}
	return runCrawl(ctx, deps, cli, stdout)
}

// Dependencies holds the services assembled for a run.
type Dependencies struct {
	Crawler  *crawl.Crawler
	JSONPath func(originKey string) string
}

// wire builds the crawler and its collaborators from the parsed flags.
func (m *Main) wire(cli *CLI, logger *slog.Logger) (*Dependencies, error) {
	client := &http.Client{Timeout: cli.Timeout}

	robots := stslog.NewLoggingRobotsService(robotstxt.NewRobotsService(client, cli.UserAgent), logger)
	sitemaps := stslog.NewLoggingSitemapService(sthttp.NewSitemapService(client, cli.UserAgent), logger)
	fetcher := stslog.NewLoggingFetcher(sthttp.NewFetcher(
		sthttp.WithTimeout(cli.Timeout),
		sthttp.WithUserAgent(cli.UserAgent),
	), logger)

	var converter sitetext.Converter
	if cli.Format == "markdown" {
		converter = htmltomarkdown.NewConverter()
	}
	var extractor sitetext.Extractor
	switch cli.Extractor {
	case "readability":
		var opts []readability.Option
		if converter != nil {
			opts = append(opts, readability.WithConverter(converter))
		}
		extractor = readability.NewExtractor(opts...)
	default:
		var opts []trafilatura.Option
		if converter != nil {
			opts = append(opts, trafilatura.WithConverter(converter))
		}
		extractor = trafilatura.NewExtractor(opts...)
	}

	jsonStore := fs.NewJSONStore(cli.Output)
	stores := multiStore{jsonStore}
	if cli.PagesDir != "" {
		stores = append(stores, fs.NewPageTree(cli.PagesDir))
	}
	if cli.SQLite != "" {
		if dir := filepath.Dir(cli.SQLite); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		m.DB = sqlite.NewDB(cli.SQLite)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", cli.SQLite, err)
		}
		stores = append(stores, sqlite.NewDocumentStore(m.DB))
	}

	c := &crawl.Crawler{
		Discoverer: &crawl.Discoverer{
			Robots:       robots,
			Sitemaps:     sitemaps,
			SitemapDepth: cli.SitemapDepth,
			ProbeSitemap: cli.ProbeSitemap,
			Filter:       cli.filter,
		},
		Fetcher:   fetcher,
		Extractor: stslog.NewLoggingExtractor(extractor, logger),
		Links:     goquery.NewLinkExtractor(),
		Store:     stslog.NewLoggingDocumentStore(stores, logger),
		Config:    cli.CrawlConfig(),
		Filter:    cli.filter,
		ScopePath: cli.ScopePath,
		Events:    stslog.NewEventLogger(logger),
	}
	if cli.MaxRPS > 0 {
		c.RateLimiter = crawl.NewDomainLimiter(cli.MaxRPS)
	}
	if cli.BloomCapacity > 0 {
		capacity := cli.BloomCapacity
		c.VisitedSet = func() crawl.VisitedSet {
			return crawl.NewBloomSet(capacity, bloomFalsePositiveRate)
		}
	}

	return &Dependencies{Crawler: c, JSONPath: jsonStore.Path}, nil
}
