package mock

import (
	"context"

	"github.com/fwojciec/docvault"
)

var _ docvault.SourceRegistry = (*SourceRegistry)(nil)

// SourceRegistry is a mock implementation of docvault.SourceRegistry.
type SourceRegistry struct {
	DefinitionFn func(name string) (*docvault.SourceDefinition, error)
	RepositoryFn func(name string) (*docvault.RepoConfig, error)
	AvailableFn  func() []docvault.AvailableSource
}

func (r *SourceRegistry) Definition(name string) (*docvault.SourceDefinition, error) {
	return r.DefinitionFn(name)
}

func (r *SourceRegistry) Repository(name string) (*docvault.RepoConfig, error) {
	return r.RepositoryFn(name)
}

func (r *SourceRegistry) Available() []docvault.AvailableSource {
	return r.AvailableFn()
}

var _ docvault.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of docvault.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, src *docvault.SourceDefinition, progress chan<- docvault.ProgressEvent) ([]docvault.Entry, error)
}

func (c *Crawler) Crawl(ctx context.Context, src *docvault.SourceDefinition, progress chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
	return c.CrawlFn(ctx, src, progress)
}

var _ docvault.RepoWalker = (*RepoWalker)(nil)

// RepoWalker is a mock implementation of docvault.RepoWalker.
type RepoWalker struct {
	WalkFn func(ctx context.Context, cfg *docvault.RepoConfig, progress chan<- docvault.ProgressEvent) ([]docvault.Entry, error)
}

func (w *RepoWalker) Walk(ctx context.Context, cfg *docvault.RepoConfig, progress chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
	return w.WalkFn(ctx, cfg, progress)
}

var _ docvault.Ingester = (*Ingester)(nil)

// Ingester is a mock implementation of docvault.Ingester.
type Ingester struct {
	IngestFn func(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (*docvault.Documentation, error)
}

func (i *Ingester) Ingest(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (*docvault.Documentation, error) {
	return i.IngestFn(ctx, name, progress)
}

var _ docvault.Cloner = (*Cloner)(nil)

// Cloner is a mock implementation of docvault.Cloner.
type Cloner struct {
	CloneFn func(ctx context.Context, repoURL, branch, dir string) error
}

func (c *Cloner) Clone(ctx context.Context, repoURL, branch, dir string) error {
	return c.CloneFn(ctx, repoURL, branch, dir)
}
