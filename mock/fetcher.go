package mock

import (
	"context"

	"github.com/fwojciec/sitetext"
)

var _ sitetext.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitetext.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) sitetext.FetchOutcome
}

func (f *Fetcher) Fetch(ctx context.Context, url string) sitetext.FetchOutcome {
	return f.FetchFn(ctx, url)
}
