// Package fs persists crawl results to the local filesystem.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/sitetext"
)

// DefaultOutputDir is where JSON results go when no directory is given.
const DefaultOutputDir = "data/output"

// Ensure JSONStore implements sitetext.DocumentStore at compile time.
var _ sitetext.DocumentStore = (*JSONStore)(nil)

// JSONStore writes each origin's documents to a single JSON array file.
// Files are written to a temporary name first and renamed into place, so
// readers never observe a partial file.
type JSONStore struct {
	dir string
}

// NewJSONStore creates a JSONStore writing into dir.
func NewJSONStore(dir string) *JSONStore {
	if dir == "" {
		dir = DefaultOutputDir
	}
	return &JSONStore{dir: dir}
}

// Filename returns the file name used for an origin key.
func Filename(originKey string) string {
	return originKey + "_scraped_data.json"
}

// Path returns the full path of the file written for originKey.
func (s *JSONStore) Path(originKey string) string {
	return filepath.Join(s.dir, Filename(originKey))
}

// Persist replaces the origin's file with docs. A nil or empty slice
// writes an empty array.
func (s *JSONStore) Persist(ctx context.Context, docs []*sitetext.Document, originKey string) error {
	if originKey == "" {
		return sitetext.Errorf(sitetext.EINVALID, "origin key required")
	}
	if docs == nil {
		docs = []*sitetext.Document{}
	}

	data, err := encodeDocuments(docs)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFileAtomic(s.Path(originKey), data)
}

// encodeDocuments renders docs as indented JSON without escaping HTML or
// non-ASCII characters.
func encodeDocuments(docs []*sitetext.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(docs); err != nil {
		return nil, fmt.Errorf("failed to encode documents: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to path and renames it.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
