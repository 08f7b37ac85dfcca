package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/docvault"
	"github.com/google/uuid"
)

var _ docvault.RepoWalker = (*Walker)(nil)

// markdownExtensions are the file extensions collected by the walker.
var markdownExtensions = []string{".md", ".mdx"}

// Walker implements docvault.RepoWalker over a shallow clone.
type Walker struct {
	// Cloner checks out the repository. Required.
	Cloner docvault.Cloner

	// TempDir is the parent of the clone directory.
	// Defaults to os.TempDir().
	TempDir string

	Logger *slog.Logger
}

// Walk clones the repository named by cfg, collects its Markdown files,
// and returns one entry per file with section entries synthesized for
// every directory on the way. The clone is removed before Walk returns.
// Unreadable files are logged and skipped.
func (w *Walker) Walk(ctx context.Context, cfg *docvault.RepoConfig, progress chan<- docvault.ProgressEvent) (entries []docvault.Entry, err error) {
	logger := w.logger()

	defer func() {
		if err != nil && ctx.Err() == nil {
			docvault.SendProgress(progress, docvault.ProgressEvent{
				Phase:   docvault.PhaseFailed,
				Message: docvault.ErrorMessage(err),
			})
		}
	}()

	info, err := w.setup(cfg)
	if err != nil {
		return nil, err
	}

	docvault.SendProgress(progress, docvault.ProgressEvent{
		Phase:   docvault.PhaseStarting,
		Message: "Cloning repository...",
	})

	dir := filepath.Join(w.tempDir(), fmt.Sprintf("docvault-%s-%s", info.Repo, uuid.NewString()))
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("remove clone", "dir", dir, "err", err)
		}
	}()

	if err := w.clone(ctx, info, dir); err != nil {
		return nil, err
	}

	docvault.SendProgress(progress, docvault.ProgressEvent{
		Phase:   docvault.PhaseProcessing,
		Message: "Collecting files...",
	})

	root := filepath.Join(dir, filepath.FromSlash(info.Subpath))
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "directory %q not found in %s@%s", info.Subpath, info.Slug(), info.Branch)
	}

	files, err := w.collect(root, cfg)
	if err != nil {
		return nil, err
	}

	tree := docvault.NewHierarchy()
	var failed int
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return tree.Entries(), err
		}

		docvault.SendProgress(progress, docvault.ProgressEvent{
			Phase:   docvault.PhaseScraping,
			Current: i + 1,
			Total:   len(files),
			Path:    rel,
			Entries: tree.Len(),
		})

		entryPath := docvault.EntryPath(rel)
		tree.EnsureAncestors(entryPath)

		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			failed++
			logger.Warn("read file", "repo", cfg.Name, "path", rel, "err", err)
			continue
		}

		tree.Add(docvault.Entry{
			Path:      entryPath,
			Title:     Title(content, rel),
			Content:   string(content),
			EntryType: ClassifyPath(rel),
		})
	}

	entries = tree.Entries()
	logger.Info("walk",
		"repo", cfg.Name,
		"branch", info.Branch,
		"files", len(files),
		"failed", failed,
		"entries", len(entries),
	)

	docvault.SendProgress(progress, docvault.ProgressEvent{
		Phase:   docvault.PhaseCompleted,
		Current: len(files),
		Total:   len(files),
		Entries: len(entries),
		Message: "Walk completed",
	})
	return entries, nil
}

func (w *Walker) setup(cfg *docvault.RepoConfig) (RepoInfo, error) {
	if cfg == nil {
		return RepoInfo{}, docvault.Errorf(docvault.EINVALID, "repository config required")
	}
	if err := cfg.Validate(); err != nil {
		return RepoInfo{}, err
	}
	info, err := ParseRepoURL(cfg.BaseURL)
	if err != nil {
		return RepoInfo{}, err
	}
	if w.Cloner == nil {
		return RepoInfo{}, docvault.Errorf(docvault.EINTERNAL, "walker is missing a cloner")
	}
	return info, nil
}

func (w *Walker) clone(ctx context.Context, info RepoInfo, dir string) (err error) {
	defer func(begin time.Time) {
		w.logger().Info("clone",
			"repo", info.Slug(),
			"branch", info.Branch,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	if err := w.Cloner.Clone(ctx, info.CloneURL(), info.Branch, dir); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		var appErr *docvault.Error
		if errors.As(err, &appErr) {
			return err
		}
		return docvault.Errorf(docvault.ECLONE, "clone %s: %v", info.Slug(), err)
	}
	return nil
}

// collect returns the slash-separated paths, relative to root, of every
// Markdown file outside ignored directories, in lexical walk order.
func (w *Walker) collect(root string, cfg *docvault.RepoConfig) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			w.logger().Warn("walk", "path", p, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if ignoreDir(cfg.IgnoreDirs, d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !isMarkdown(rel) {
			return nil
		}
		if ignoreFile(cfg.IgnoreFiles, d.Name(), rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, docvault.Errorf(docvault.EIO, "walk %s: %v", cfg.Name, err)
	}
	return files, nil
}

func (w *Walker) tempDir() string {
	if w.TempDir != "" {
		return w.TempDir
	}
	return os.TempDir()
}

func (w *Walker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger
}

// ignoreDir matches a directory by substring of its name, or by glob
// against its name or relative path.
func ignoreDir(patterns []string, name, rel string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if isGlob(p) {
			if globMatch(p, name, rel) {
				return true
			}
			continue
		}
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// ignoreFile matches a file by name, by substring of its relative path,
// or by glob against its name or relative path.
func ignoreFile(patterns []string, name, rel string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if isGlob(p) {
			if globMatch(p, name, rel) {
				return true
			}
			continue
		}
		if name == p || strings.Contains(rel, p) {
			return true
		}
	}
	return false
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func globMatch(pattern, name, rel string) bool {
	if ok, _ := doublestar.Match(pattern, rel); ok {
		return true
	}
	ok, _ := doublestar.Match(pattern, name)
	return ok
}

func isMarkdown(rel string) bool {
	ext := strings.ToLower(path.Ext(rel))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
