// Package store persists autosaved document revisions in SQLite.
//
// Each revision is a full serialized document snapshot keyed by the
// document's identity. The store keeps a bounded history per document;
// [Store.Prune] trims old revisions past the configured keep count.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/patchbay/pkg/observability"
)

// Sentinel errors for revision operations.
var (
	// ErrRevisionNotFound is returned when no revision exists for a document.
	ErrRevisionNotFound = errors.New("revision not found")
)

// Revision is a stored document snapshot.
type Revision struct {
	ID        int64
	DocID     string
	Data      []byte
	CreatedAt time.Time
}

// Store is a SQLite-backed revision store.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS revisions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  doc_id TEXT NOT NULL,
  data BLOB NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_revisions_doc_id ON revisions(doc_id, id)`

// Open opens (or creates) a revision store at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRevision stores a document snapshot and returns its revision id.
func (s *Store) SaveRevision(ctx context.Context, docID string, data []byte) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO revisions (doc_id, data, created_at) VALUES (?, ?, ?)`,
		docID, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		observability.Revision().OnStoreError(ctx, "save", err)
		return 0, fmt.Errorf("saving revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("saving revision: %w", err)
	}
	observability.Revision().OnRevisionSaved(ctx, docID, len(data))
	return id, nil
}

// Latest returns the most recent revision for a document.
// Returns [ErrRevisionNotFound] if the document has no revisions.
func (s *Store) Latest(ctx context.Context, docID string) (*Revision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, doc_id, data, created_at FROM revisions WHERE doc_id = ? ORDER BY id DESC LIMIT 1`,
		docID)
	rev, err := scanRevision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRevisionNotFound
		}
		observability.Revision().OnStoreError(ctx, "latest", err)
		return nil, fmt.Errorf("loading revision: %w", err)
	}
	return rev, nil
}

// Get returns a specific revision by id.
func (s *Store) Get(ctx context.Context, id int64) (*Revision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, doc_id, data, created_at FROM revisions WHERE id = ?`, id)
	rev, err := scanRevision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRevisionNotFound
		}
		observability.Revision().OnStoreError(ctx, "get", err)
		return nil, fmt.Errorf("loading revision: %w", err)
	}
	return rev, nil
}

// List returns all revisions for a document, newest first.
// The Data field is left nil; use [Store.Get] to fetch a snapshot.
func (s *Store) List(ctx context.Context, docID string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc_id, length(data), created_at FROM revisions WHERE doc_id = ? ORDER BY id DESC`,
		docID)
	if err != nil {
		observability.Revision().OnStoreError(ctx, "list", err)
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var rev Revision
		var size int64
		var created string
		if err := rows.Scan(&rev.ID, &rev.DocID, &size, &created); err != nil {
			return nil, fmt.Errorf("listing revisions: %w", err)
		}
		rev.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// Prune deletes all but the newest keep revisions of a document.
// Returns the number of revisions removed.
func (s *Store) Prune(ctx context.Context, docID string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM revisions WHERE doc_id = ? AND id NOT IN (
		   SELECT id FROM revisions WHERE doc_id = ? ORDER BY id DESC LIMIT ?
		 )`,
		docID, docID, keep)
	if err != nil {
		observability.Revision().OnStoreError(ctx, "prune", err)
		return 0, fmt.Errorf("pruning revisions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning revisions: %w", err)
	}
	if n > 0 {
		observability.Revision().OnRevisionPruned(ctx, docID, int(n))
	}
	return int(n), nil
}

// Documents returns the distinct document ids with stored revisions.
func (s *Store) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT doc_id FROM revisions ORDER BY doc_id`)
	if err != nil {
		observability.Revision().OnStoreError(ctx, "documents", err)
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanRevision(row *sql.Row) (*Revision, error) {
	var rev Revision
	var created string
	if err := row.Scan(&rev.ID, &rev.DocID, &rev.Data, &created); err != nil {
		return nil, err
	}
	rev.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &rev, nil
}
