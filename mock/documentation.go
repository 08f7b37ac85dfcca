package mock

import (
	"context"

	"github.com/fwojciec/docvault"
)

var _ docvault.DocumentationService = (*DocumentationService)(nil)

// DocumentationService is a mock implementation of docvault.DocumentationService.
type DocumentationService struct {
	CreateDocumentationFn   func(ctx context.Context, doc *docvault.Documentation) error
	FindDocumentationByIDFn func(ctx context.Context, id string) (*docvault.Documentation, error)
	FindDocumentationsFn    func(ctx context.Context, filter docvault.DocumentationFilter) ([]*docvault.Documentation, error)
	UpdateDocumentationFn   func(ctx context.Context, id string, upd docvault.DocumentationUpdate) (*docvault.Documentation, error)
	DeleteDocumentationFn   func(ctx context.Context, id string) error
}

func (s *DocumentationService) CreateDocumentation(ctx context.Context, doc *docvault.Documentation) error {
	return s.CreateDocumentationFn(ctx, doc)
}

func (s *DocumentationService) FindDocumentationByID(ctx context.Context, id string) (*docvault.Documentation, error) {
	return s.FindDocumentationByIDFn(ctx, id)
}

func (s *DocumentationService) FindDocumentations(ctx context.Context, filter docvault.DocumentationFilter) ([]*docvault.Documentation, error) {
	return s.FindDocumentationsFn(ctx, filter)
}

func (s *DocumentationService) UpdateDocumentation(ctx context.Context, id string, upd docvault.DocumentationUpdate) (*docvault.Documentation, error) {
	return s.UpdateDocumentationFn(ctx, id, upd)
}

func (s *DocumentationService) DeleteDocumentation(ctx context.Context, id string) error {
	return s.DeleteDocumentationFn(ctx, id)
}

var _ docvault.EntryService = (*EntryService)(nil)

// EntryService is a mock implementation of docvault.EntryService.
type EntryService struct {
	ReplaceEntriesFn  func(ctx context.Context, docID string, entries []docvault.Entry) error
	FindEntryByPathFn func(ctx context.Context, docID, path string) (*docvault.Entry, error)
	FindEntriesFn     func(ctx context.Context, filter docvault.EntryFilter) ([]*docvault.Entry, error)
	TreeLevelFn       func(ctx context.Context, docID, parentPath string) ([]*docvault.TreeNode, error)
	SearchEntriesFn   func(ctx context.Context, query string, filter docvault.SearchFilter) ([]*docvault.SearchResult, error)
}

func (s *EntryService) ReplaceEntries(ctx context.Context, docID string, entries []docvault.Entry) error {
	return s.ReplaceEntriesFn(ctx, docID, entries)
}

func (s *EntryService) FindEntryByPath(ctx context.Context, docID, path string) (*docvault.Entry, error) {
	return s.FindEntryByPathFn(ctx, docID, path)
}

func (s *EntryService) FindEntries(ctx context.Context, filter docvault.EntryFilter) ([]*docvault.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *EntryService) TreeLevel(ctx context.Context, docID, parentPath string) ([]*docvault.TreeNode, error) {
	return s.TreeLevelFn(ctx, docID, parentPath)
}

func (s *EntryService) SearchEntries(ctx context.Context, query string, filter docvault.SearchFilter) ([]*docvault.SearchResult, error) {
	return s.SearchEntriesFn(ctx, query, filter)
}
