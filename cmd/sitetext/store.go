package main

import (
	"context"
	"errors"

	"github.com/fwojciec/sitetext"
)

// multiStore persists to every store and reports all failures.
type multiStore []sitetext.DocumentStore

func (m multiStore) Persist(ctx context.Context, docs []*sitetext.Document, originKey string) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Persist(ctx, docs, originKey))
	}
	return errors.Join(errs...)
}
