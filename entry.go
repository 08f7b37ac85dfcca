package docvault

import (
	"context"
	"time"
)

// Entry types assigned by the crawler and the repository walker.
const (
	EntryTypeSection  = "section"
	EntryTypePage     = "page"
	EntryTypeClass    = "class"
	EntryTypeFunction = "function"
	EntryTypeModule   = "module"
	EntryTypeTrait    = "trait"
	EntryTypeEnum     = "enum"
	EntryTypeConstant = "constant"
	EntryTypeType     = "type"
	EntryTypeAPI      = "api"
	EntryTypeGuide    = "guide"
	EntryTypeExample  = "example"
)

// Entry is one unit of extracted documentation: either a leaf holding
// fetched content or a synthesized section grouping its children.
type Entry struct {
	ID          string    `json:"id"`
	DocID       string    `json:"docId"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	EntryType   string    `json:"entryType"`
	ParentPath  string    `json:"parentPath"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.Path == "" {
		return Errorf(EINVALID, "entry path required")
	}
	if e.Title == "" {
		return Errorf(EINVALID, "entry %q: title required", e.Path)
	}
	return nil
}

// Documentation is an installed documentation set.
type Documentation struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Version     string     `json:"version"`
	SourceURL   string     `json:"sourceUrl"`
	Kind        SourceKind `json:"kind"`
	Attribution string     `json:"attribution"`
	InstalledAt time.Time  `json:"installedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Validate returns an error if the documentation contains invalid fields.
func (d *Documentation) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "documentation name required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "documentation source URL required")
	}
	return nil
}

// DocumentationService represents a service for managing installed documentation.
type DocumentationService interface {
	// CreateDocumentation creates a new documentation record.
	CreateDocumentation(ctx context.Context, doc *Documentation) error

	// FindDocumentationByID retrieves documentation by ID.
	// Returns ENOTFOUND if it does not exist.
	FindDocumentationByID(ctx context.Context, id string) (*Documentation, error)

	// FindDocumentations retrieves documentation matching the filter.
	FindDocumentations(ctx context.Context, filter DocumentationFilter) ([]*Documentation, error)

	// UpdateDocumentation updates an existing documentation record.
	// Returns ENOTFOUND if it does not exist.
	UpdateDocumentation(ctx context.Context, id string, upd DocumentationUpdate) (*Documentation, error)

	// DeleteDocumentation permanently removes documentation and its entries.
	// Returns ENOTFOUND if it does not exist.
	DeleteDocumentation(ctx context.Context, id string) error
}

// DocumentationFilter represents a filter for FindDocumentations.
type DocumentationFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentationUpdate represents fields that can be updated on documentation.
type DocumentationUpdate struct {
	DisplayName *string `json:"displayName"`
	Version     *string `json:"version"`
	SourceURL   *string `json:"sourceUrl"`
	Attribution *string `json:"attribution"`
}

// EntryService represents a service for storing and querying entries.
type EntryService interface {
	// ReplaceEntries atomically swaps all entries of a documentation set
	// for the given ones, preserving their order.
	ReplaceEntries(ctx context.Context, docID string, entries []Entry) error

	// FindEntryByPath retrieves a single entry.
	// Returns ENOTFOUND if it does not exist.
	FindEntryByPath(ctx context.Context, docID, path string) (*Entry, error)

	// FindEntries retrieves entries matching the filter.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// TreeLevel returns the children of parentPath ordered by title.
	// The empty parentPath selects root-level entries.
	TreeLevel(ctx context.Context, docID, parentPath string) ([]*TreeNode, error)

	// SearchEntries runs a full-text query over entry titles and content.
	SearchEntries(ctx context.Context, query string, filter SearchFilter) ([]*SearchResult, error)
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	DocID     *string `json:"docId"`
	EntryType *string `json:"entryType"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TreeNode is one entry within a tree level.
type TreeNode struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	EntryType   string `json:"entryType"`
	HasContent  bool   `json:"hasContent"`
	HasChildren bool   `json:"hasChildren"`
}

// SearchFilter narrows a full-text query.
type SearchFilter struct {
	DocID *string `json:"docId"`
	Limit int     `json:"limit"`
}

// SearchResult is one full-text match.
type SearchResult struct {
	DocID   string `json:"docId"`
	DocName string `json:"docName"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}
