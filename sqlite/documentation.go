package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/docvault"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docvault.DocumentationService = (*DocumentationService)(nil)

// DocumentationService implements docvault.DocumentationService using SQLite.
type DocumentationService struct {
	db *DB
}

// NewDocumentationService creates a new DocumentationService.
func NewDocumentationService(db *DB) *DocumentationService {
	return &DocumentationService{db: db}
}

const documentationColumns = "id, name, display_name, version, source_url, kind, attribution, installed_at, updated_at"

// CreateDocumentation creates a new documentation record.
// Returns EINVALID if documentation with the same name is installed.
func (s *DocumentationService) CreateDocumentation(ctx context.Context, doc *docvault.Documentation) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.Kind == "" {
		doc.Kind = docvault.SourceKindWeb
	}

	doc.ID = uuid.New().String()
	now := time.Now().UTC()
	doc.InstalledAt = now
	doc.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documentations (`+documentationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Name, doc.DisplayName, doc.Version, doc.SourceURL, string(doc.Kind), doc.Attribution,
		formatTime(doc.InstalledAt), formatTime(doc.UpdatedAt))
	if err != nil && isUniqueViolation(err) {
		return docvault.Errorf(docvault.EINVALID, "documentation %q is already installed", doc.Name)
	}
	return err
}

// FindDocumentationByID retrieves documentation by ID.
func (s *DocumentationService) FindDocumentationByID(ctx context.Context, id string) (*docvault.Documentation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentationColumns+` FROM documentations WHERE id = ?`, id)
	doc, err := scanDocumentation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "documentation not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocumentations retrieves documentation matching the filter, ordered by name.
func (s *DocumentationService) FindDocumentations(ctx context.Context, filter docvault.DocumentationFilter) ([]*docvault.Documentation, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentationColumns + " FROM documentations WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*docvault.Documentation
	for rows.Next() {
		doc, err := scanDocumentation(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateDocumentation updates an existing documentation record and bumps
// its UpdatedAt.
func (s *DocumentationService) UpdateDocumentation(ctx context.Context, id string, upd docvault.DocumentationUpdate) (*docvault.Documentation, error) {
	doc, err := s.FindDocumentationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.DisplayName != nil {
		doc.DisplayName = *upd.DisplayName
	}
	if upd.Version != nil {
		doc.Version = *upd.Version
	}
	if upd.SourceURL != nil {
		doc.SourceURL = *upd.SourceURL
	}
	if upd.Attribution != nil {
		doc.Attribution = *upd.Attribution
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	doc.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE documentations
		SET display_name = ?, version = ?, source_url = ?, attribution = ?, updated_at = ?
		WHERE id = ?
	`, doc.DisplayName, doc.Version, doc.SourceURL, doc.Attribution, formatTime(doc.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocumentation permanently removes documentation and its entries.
func (s *DocumentationService) DeleteDocumentation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documentations WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docvault.Errorf(docvault.ENOTFOUND, "documentation not found")
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocumentation(row scanner) (*docvault.Documentation, error) {
	var doc docvault.Documentation
	var kind, installedAt, updatedAt string

	if err := row.Scan(&doc.ID, &doc.Name, &doc.DisplayName, &doc.Version, &doc.SourceURL,
		&kind, &doc.Attribution, &installedAt, &updatedAt); err != nil {
		return nil, err
	}
	doc.Kind = docvault.SourceKind(kind)

	var err error
	if doc.InstalledAt, err = parseTime(installedAt, "installed_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
