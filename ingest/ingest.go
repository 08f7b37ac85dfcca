// Package ingest installs documentation: it resolves a source by name,
// collects its entries with the crawler or the repository walker, and
// stores the result.
package ingest

import (
	"context"
	"log/slog"

	"github.com/fwojciec/docvault"
)

var _ docvault.Ingester = (*Service)(nil)

// Service implements docvault.Ingester.
type Service struct {
	Sources        docvault.SourceRegistry
	Crawler        docvault.Crawler
	Walker         docvault.RepoWalker
	Documentations docvault.DocumentationService
	Entries        docvault.EntryService
	Logger         *slog.Logger
}

// Ingest resolves name, preferring repositories over web sources, and
// stores the collected entries. An installed documentation set with the
// same name has its entries replaced, then its metadata refreshed. Nothing
// is stored when collection fails or is cancelled, and an installed set
// keeps its entries and metadata when the replace fails.
func (s *Service) Ingest(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (*docvault.Documentation, error) {
	doc, entries, err := s.collect(ctx, name, progress)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "no documentation found for %q", name)
	}
	return s.store(ctx, doc, entries)
}

// Available lists the sources that can be ingested.
func (s *Service) Available() []docvault.AvailableSource {
	return s.Sources.Available()
}

func (s *Service) collect(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (*docvault.Documentation, []docvault.Entry, error) {
	repo, err := s.Sources.Repository(name)
	if err == nil {
		entries, err := s.Walker.Walk(ctx, repo, progress)
		if err != nil {
			return nil, nil, err
		}
		return &docvault.Documentation{
			Name:        repo.Name,
			DisplayName: repo.DisplayName,
			Version:     repo.Version,
			SourceURL:   repo.BaseURL,
			Kind:        docvault.SourceKindRepo,
		}, entries, nil
	} else if docvault.ErrorCode(err) != docvault.ENOTFOUND {
		return nil, nil, err
	}

	def, err := s.Sources.Definition(name)
	if docvault.ErrorCode(err) == docvault.ENOTFOUND {
		return nil, nil, docvault.Errorf(docvault.ENOTFOUND, "unknown documentation source %q", name)
	} else if err != nil {
		return nil, nil, err
	}

	entries, err := s.Crawler.Crawl(ctx, def, progress)
	if err != nil {
		return nil, nil, err
	}
	return &docvault.Documentation{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		Version:     def.Version,
		SourceURL:   def.BaseURL,
		Kind:        docvault.SourceKindWeb,
		Attribution: def.Attribution,
	}, entries, nil
}

func (s *Service) store(ctx context.Context, doc *docvault.Documentation, entries []docvault.Entry) (*docvault.Documentation, error) {
	existing, err := s.Documentations.FindDocumentations(ctx, docvault.DocumentationFilter{Name: &doc.Name})
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		// Metadata follows the entries so a failed replace leaves the
		// installed set untouched.
		if err := s.Entries.ReplaceEntries(ctx, existing[0].ID, entries); err != nil {
			return nil, err
		}
		return s.Documentations.UpdateDocumentation(ctx, existing[0].ID, docvault.DocumentationUpdate{
			DisplayName: &doc.DisplayName,
			Version:     &doc.Version,
			SourceURL:   &doc.SourceURL,
			Attribution: &doc.Attribution,
		})
	}

	if err := s.Documentations.CreateDocumentation(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.Entries.ReplaceEntries(ctx, doc.ID, entries); err != nil {
		// A documentation row without entries would read as installed.
		if delErr := s.Documentations.DeleteDocumentation(context.WithoutCancel(ctx), doc.ID); delErr != nil {
			s.logger().Warn("remove documentation after failed insert", "name", doc.Name, "err", delErr)
		}
		return nil, err
	}
	return doc, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
