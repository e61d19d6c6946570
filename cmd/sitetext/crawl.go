package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/sitetext/crawl"
)

// runPreview prints the discovery plan: the mode and the seed URLs.
func runPreview(ctx context.Context, d *crawl.Discoverer, startURL string, w io.Writer) error {
	plan, err := d.Plan(ctx, startURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "mode: %s\n", plan.Mode)
	fmt.Fprintf(w, "output: %s\n", plan.OriginKey())
	for _, seed := range plan.Seeds {
		fmt.Fprintln(w, seed)
	}
	return nil
}

// runCrawl crawls the site and prints a summary. An interrupted run still
// reports what was saved before returning the cancellation error.
func runCrawl(ctx context.Context, deps *Dependencies, cli *CLI, w io.Writer) error {
	result, err := deps.Crawler.Crawl(ctx, cli.URL)
	if result == nil {
		return err
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Interrupted, saving partial results")
	}
	fmt.Fprintf(w, "Mode: %s\n", result.Mode)
	fmt.Fprintf(w, "Fetched %d of %d scheduled pages (%d failed, %d disallowed, %d without content, %d duplicates)\n",
		result.Fetched, result.Scheduled, result.Failed, result.Skipped, result.NoContent, result.DuplicateContent)
	fmt.Fprintf(w, "Saved %d documents to %s\n", result.Saved, deps.JSONPath(result.OriginKey))

	return err
}
