package mock

import (
	"context"

	"github.com/fwojciec/sitetext"
)

var _ sitetext.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of sitetext.DocumentStore.
type DocumentStore struct {
	PersistFn func(ctx context.Context, docs []*sitetext.Document, originKey string) error
}

func (s *DocumentStore) Persist(ctx context.Context, docs []*sitetext.Document, originKey string) error {
	return s.PersistFn(ctx, docs, originKey)
}
