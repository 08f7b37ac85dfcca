package docvault

import "context"

// Crawler walks a documentation web site breadth-first and returns its
// entries in a tree-complete order.
type Crawler interface {
	Crawl(ctx context.Context, src *SourceDefinition, progress chan<- ProgressEvent) ([]Entry, error)
}

// RepoWalker ingests Markdown documentation from a git repository.
type RepoWalker interface {
	Walk(ctx context.Context, cfg *RepoConfig, progress chan<- ProgressEvent) ([]Entry, error)
}

// Ingester installs or refreshes a documentation source by name.
type Ingester interface {
	// Ingest resolves name, collects its entries, and stores them.
	// Returns ENOTFOUND if no source has that name.
	Ingest(ctx context.Context, name string, progress chan<- ProgressEvent) (*Documentation, error)
}

// Cloner fetches a shallow copy of a git repository.
type Cloner interface {
	// Clone checks out branch of repoURL into dir at depth 1.
	// Returns ECLONE if the clone fails.
	Clone(ctx context.Context, repoURL, branch, dir string) error
}
