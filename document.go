package sitetext

import "context"

// Document is the extracted text of one successfully crawled page.
// Documents are immutable once collected.
type Document struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// DocumentStore persists the documents collected for one origin.
type DocumentStore interface {
	// Persist writes all documents collected for the origin identified by
	// originKey. It is called exactly once per crawl run, including runs
	// that were canceled or produced no documents.
	Persist(ctx context.Context, docs []*Document, originKey string) error
}
