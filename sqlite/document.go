package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitetext"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitetext.DocumentStore = (*DocumentStore)(nil)

// Crawl records one persisted crawl run for an origin.
type Crawl struct {
	ID            string
	Origin        string
	DocumentCount int
	PersistedAt   time.Time
}

// StoredDocument is a document row as saved in the database.
type StoredDocument struct {
	ID          string
	CrawlID     string
	Origin      string
	URL         string
	Content     string
	ContentHash string
	Position    int
	FetchedAt   time.Time
}

// DocumentFilter narrows FindDocuments. Nil fields match everything.
type DocumentFilter struct {
	Origin      *string
	URL         *string
	ContentHash *string

	Offset int
	Limit  int
}

// DocumentStore implements sitetext.DocumentStore using SQLite. Each
// Persist replaces whatever an earlier run stored for the same origin.
type DocumentStore struct {
	db  *DB
	now func() time.Time
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db, now: time.Now}
}

func parseRFC3339(value, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// appendPagination adds LIMIT and OFFSET clauses. SQLite only accepts
// OFFSET after a LIMIT, so an offset alone gets "LIMIT -1".
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit <= 0 && offset <= 0 {
		return
	}
	if limit <= 0 {
		limit = -1
	}
	query.WriteString(" LIMIT ?")
	*args = append(*args, limit)
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// Persist stores docs as a new crawl of originKey in a single transaction.
func (s *DocumentStore) Persist(ctx context.Context, docs []*sitetext.Document, originKey string) error {
	if originKey == "" {
		return sitetext.Errorf(sitetext.EINVALID, "origin key required")
	}
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Documents of earlier crawls go with them through the cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM crawls WHERE origin = ?", originKey); err != nil {
		return err
	}

	now := s.now().UTC().Format(time.RFC3339)
	crawlID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO crawls (id, origin, document_count, persisted_at)
		VALUES (?, ?, ?, ?)
	`, crawlID, originKey, len(docs), now); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, crawl_id, origin, url, content, content_hash, position, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, doc := range docs {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), crawlID, originKey,
			doc.URL, doc.Content, hashContent(doc.Content), i, now); err != nil {
			return fmt.Errorf("failed to insert %s: %w", doc.URL, err)
		}
	}

	return tx.Commit()
}

// FindCrawl returns the latest persisted crawl of an origin.
func (s *DocumentStore) FindCrawl(ctx context.Context, originKey string) (*Crawl, error) {
	var c Crawl
	var persistedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, origin, document_count, persisted_at
		FROM crawls
		WHERE origin = ?
		ORDER BY persisted_at DESC
		LIMIT 1
	`, originKey).Scan(&c.ID, &c.Origin, &c.DocumentCount, &persistedAt)

	if err == sql.ErrNoRows {
		return nil, sitetext.Errorf(sitetext.ENOTFOUND, "no crawl stored for %s", originKey)
	}
	if err != nil {
		return nil, err
	}

	if c.PersistedAt, err = parseRFC3339(persistedAt, "persisted_at"); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindDocuments retrieves documents matching the filter in crawl order.
func (s *DocumentStore) FindDocuments(ctx context.Context, filter DocumentFilter) ([]*StoredDocument, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, crawl_id, origin, url, content, content_hash, position, fetched_at FROM documents WHERE 1=1")

	if filter.Origin != nil {
		query.WriteString(" AND origin = ?")
		args = append(args, *filter.Origin)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY origin ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*StoredDocument
	for rows.Next() {
		var doc StoredDocument
		var fetchedAt string

		if err := rows.Scan(&doc.ID, &doc.CrawlID, &doc.Origin, &doc.URL, &doc.Content,
			&doc.ContentHash, &doc.Position, &fetchedAt); err != nil {
			return nil, err
		}

		if doc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}
