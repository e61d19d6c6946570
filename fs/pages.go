package fs

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/sitetext"
	"gopkg.in/yaml.v3"
)

// Ensure PageTree implements sitetext.DocumentStore at compile time.
var _ sitetext.DocumentStore = (*PageTree)(nil)

// PageTree writes every document as its own markdown file, mirroring the
// URL path under baseDir/<originKey>. Pages are written to a temporary
// directory and moved into place once all of them succeeded.
type PageTree struct {
	baseDir string
	now     func() time.Time
}

// NewPageTree creates a PageTree rooted at baseDir.
func NewPageTree(baseDir string) *PageTree {
	return &PageTree{baseDir: baseDir, now: time.Now}
}

// frontmatter is the YAML header of each page file.
type frontmatter struct {
	Source  string `yaml:"source"`
	Crawled string `yaml:"crawled"`
}

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitetext.Errorf(sitetext.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")
	if strings.HasSuffix(path, "/") {
		path += "index.md"
	} else {
		path += ".md"
	}

	path = filepath.Clean(filepath.FromSlash(path))
	if !filepath.IsLocal(path) {
		return "", sitetext.Errorf(sitetext.EINVALID, "page URL %q escapes the output directory", rawURL)
	}
	return path, nil
}

// FormatPage renders a document with YAML frontmatter.
func FormatPage(doc *sitetext.Document, crawled time.Time) ([]byte, error) {
	header, err := yaml.Marshal(frontmatter{
		Source:  doc.URL,
		Crawled: crawled.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	b.WriteString("\n")
	return b.Bytes(), nil
}

func (p *PageTree) tempDir(originKey string) string {
	return filepath.Join(p.baseDir, originKey+".tmp")
}

func (p *PageTree) finalDir(originKey string) string {
	return filepath.Join(p.baseDir, originKey)
}

// Persist writes docs and swaps them in for the origin's previous pages.
func (p *PageTree) Persist(ctx context.Context, docs []*sitetext.Document, originKey string) error {
	if originKey == "" {
		return sitetext.Errorf(sitetext.EINVALID, "origin key required")
	}

	tmp := p.tempDir(originKey)
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return err
	}

	crawled := p.now()
	for _, doc := range docs {
		if err := p.save(tmp, doc, crawled); err != nil {
			os.RemoveAll(tmp)
			return err
		}
	}

	if err := os.RemoveAll(p.finalDir(originKey)); err != nil {
		return err
	}
	return os.Rename(tmp, p.finalDir(originKey))
}

func (p *PageTree) save(dir string, doc *sitetext.Document, crawled time.Time) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	relPath, err := URLToPath(doc.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(dir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatPage(doc, crawled)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, content, 0644)
}
