package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docvault"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docvault.EntryService = (*EntryService)(nil)

// DefaultSearchLimit caps search results when the filter sets no limit.
const DefaultSearchLimit = 20

// EntryService implements docvault.EntryService using SQLite.
type EntryService struct {
	db *DB
}

// NewEntryService creates a new EntryService.
func NewEntryService(db *DB) *EntryService {
	return &EntryService{db: db}
}

const entryColumns = "id, doc_id, path, title, content, content_hash, entry_type, parent_path, created_at"

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}

// ReplaceEntries deletes every entry of docID and inserts entries in
// order, in one transaction. IDs, hashes, and timestamps are assigned
// on the passed slice.
func (s *EntryService) ReplaceEntries(ctx context.Context, docID string, entries []docvault.Entry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM documentations WHERE id = ?", docID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return docvault.Errorf(docvault.ENOTFOUND, "documentation not found")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM doc_entries WHERE doc_id = ?", docID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO doc_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range entries {
		e := &entries[i]
		e.ID = uuid.New().String()
		e.DocID = docID
		e.ContentHash = hashContent(e.Content)
		e.CreatedAt = now

		if _, err := stmt.ExecContext(ctx, e.ID, e.DocID, e.Path, e.Title, e.Content, e.ContentHash,
			e.EntryType, e.ParentPath, formatTime(e.CreatedAt)); err != nil {
			if isUniqueViolation(err) {
				return docvault.Errorf(docvault.EINVALID, "duplicate entry path %q", e.Path)
			}
			return fmt.Errorf("insert entry %q: %w", e.Path, err)
		}
	}

	return tx.Commit()
}

// FindEntryByPath retrieves a single entry.
func (s *EntryService) FindEntryByPath(ctx context.Context, docID, path string) (*docvault.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM doc_entries
		WHERE doc_id = ? AND path = ?
	`, docID, path)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "entry %q not found", path)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindEntries retrieves entries matching the filter in insertion order.
func (s *EntryService) FindEntries(ctx context.Context, filter docvault.EntryFilter) ([]*docvault.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + entryColumns + " FROM doc_entries WHERE 1=1")

	if filter.DocID != nil {
		query.WriteString(" AND doc_id = ?")
		args = append(args, *filter.DocID)
	}
	if filter.EntryType != nil {
		query.WriteString(" AND entry_type = ?")
		args = append(args, *filter.EntryType)
	}

	query.WriteString(" ORDER BY seq ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*docvault.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TreeLevel returns the children of parentPath ordered by title.
func (s *EntryService) TreeLevel(ctx context.Context, docID, parentPath string) ([]*docvault.TreeNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.path, e.title, e.entry_type, e.content != '',
			EXISTS (SELECT 1 FROM doc_entries c WHERE c.doc_id = e.doc_id AND c.parent_path = e.path)
		FROM doc_entries e
		WHERE e.doc_id = ? AND e.parent_path = ?
		ORDER BY e.title COLLATE NOCASE ASC, e.path ASC
	`, docID, parentPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*docvault.TreeNode
	for rows.Next() {
		var n docvault.TreeNode
		if err := rows.Scan(&n.Path, &n.Title, &n.EntryType, &n.HasContent, &n.HasChildren); err != nil {
			return nil, err
		}
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}

// SearchEntries runs a full-text query over entry titles and content,
// best matches first. Every whitespace-separated term must match.
func (s *EntryService) SearchEntries(ctx context.Context, query string, filter docvault.SearchFilter) ([]*docvault.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, docvault.Errorf(docvault.EINVALID, "search query required")
	}

	var q strings.Builder
	args := []any{match}

	q.WriteString(`
		SELECT e.doc_id, d.name, e.path, e.title,
			snippet(doc_entries_fts, 1, '**', '**', '...', 16)
		FROM doc_entries_fts
		JOIN doc_entries e ON e.seq = doc_entries_fts.rowid
		JOIN documentations d ON d.id = e.doc_id
		WHERE doc_entries_fts MATCH ?`)

	if filter.DocID != nil {
		q.WriteString(" AND e.doc_id = ?")
		args = append(args, *filter.DocID)
	}

	q.WriteString(" ORDER BY bm25(doc_entries_fts, 10.0, 1.0)")
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	appendPagination(&q, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*docvault.SearchResult
	for rows.Next() {
		var r docvault.SearchResult
		if err := rows.Scan(&r.DocID, &r.DocName, &r.Path, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// ftsQuery quotes every term of query as an FTS5 string so that user
// input cannot inject query syntax. Terms without letters or digits
// are dropped.
func ftsQuery(query string) string {
	var terms []string
	for _, t := range strings.Fields(query) {
		if strings.IndexFunc(t, isWordRune) < 0 {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func scanEntry(row scanner) (*docvault.Entry, error) {
	var e docvault.Entry
	var createdAt string

	if err := row.Scan(&e.ID, &e.DocID, &e.Path, &e.Title, &e.Content, &e.ContentHash,
		&e.EntryType, &e.ParentPath, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if e.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &e, nil
}
