// Package fs exports installed documentation as Markdown files.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docvault"
	yaml "gopkg.in/yaml.v3"
)

// EntryFile converts an entry path to a relative file path.
// Example: std/vec/struct.Vec → std/vec/struct.Vec.md
func EntryFile(entryPath string) (string, error) {
	p := docvault.EntryPath(entryPath)
	rel := filepath.FromSlash(p) + ".md"
	if !filepath.IsLocal(rel) {
		return "", docvault.Errorf(docvault.EINVALID, "entry path %q escapes the export directory", entryPath)
	}
	return rel, nil
}

// frontmatter is the YAML header written above each exported entry.
type frontmatter struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title"`
	Type    string `yaml:"type,omitempty"`
	Version string `yaml:"version,omitempty"`
	Updated string `yaml:"updated,omitempty"`
}

// FormatEntry formats an entry with YAML frontmatter.
func FormatEntry(doc *docvault.Documentation, entry *docvault.Entry) (string, error) {
	fm := frontmatter{
		Source:  doc.Name + ":" + entry.Path,
		Title:   entry.Title,
		Type:    entry.EntryType,
		Version: doc.Version,
	}
	if !doc.UpdatedAt.IsZero() {
		fm.Updated = doc.UpdatedAt.Format("2006-01-02")
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", docvault.Errorf(docvault.EINTERNAL, "failed to encode frontmatter for %q: %v", entry.Path, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(entry.Content)
	return b.String(), nil
}

// FileStore writes entries with atomic update semantics.
// Entries are saved to a temporary directory, then moved into place on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes one entry below the temporary directory.
func (s *FileStore) Save(ctx context.Context, doc *docvault.Documentation, entry *docvault.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := EntryFile(entry.Path)
	if err != nil {
		return err
	}
	content, err := FormatEntry(doc, entry)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return docvault.Errorf(docvault.EIO, "failed to create directory for %q: %v", entry.Path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return docvault.Errorf(docvault.EIO, "failed to write %q: %v", entry.Path, err)
	}
	return nil
}

// Commit replaces the final directory with the saved entries.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return docvault.Errorf(docvault.EIO, "failed to create %q: %v", s.tempDir(), err)
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return docvault.Errorf(docvault.EIO, "failed to remove %q: %v", s.finalDir(), err)
	}
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return docvault.Errorf(docvault.EIO, "failed to move export into place: %v", err)
	}
	return nil
}

// Abort discards the saved entries.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// Dir returns the directory entries are committed to.
func (s *FileStore) Dir() string {
	return s.finalDir()
}
