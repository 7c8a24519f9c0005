// Package sqlite provides a store.Store backed by an embedded SQLite
// database via the pure-Go modernc.org/sqlite driver. It is the default
// engine: the application assumes a single logical writer, which is exactly
// the regime SQLite is happiest in.
//
// Schema (created by the goose migrations in migrations/sqlite):
//
//	records(collection, id, doc)            — one row per stored document
//	record_keys(collection, id, key, value) — secondary-index values
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/avoss/trip-pantry/internal/store"
)

// Store is a SQLite-backed record store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at path and applies
// the pragmas the store relies on. Run migrations before first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	// A single writer connection sidesteps SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.Open: %s: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an already-open database handle (used by tests).
func NewFromDB(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the document stored under (collection, id).
func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	const q = `SELECT doc FROM records WHERE collection = ? AND id = ?`

	var doc []byte
	err := s.db.QueryRowContext(ctx, q, collection, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.Store.Get: %w", err)
	}
	return doc, nil
}

// Put upserts the document and replaces its keys inside one transaction.
func (s *Store) Put(ctx context.Context, collection, id string, doc []byte, keys map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite.Store.Put: begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO records (collection, id, doc) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc`
	if _, err := tx.ExecContext(ctx, upsert, collection, id, doc); err != nil {
		return fmt.Errorf("sqlite.Store.Put: upsert: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM record_keys WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("sqlite.Store.Put: clear keys: %w", err)
	}
	for k, v := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_keys (collection, id, key, value) VALUES (?, ?, ?, ?)`,
			collection, id, k, v); err != nil {
			return fmt.Errorf("sqlite.Store.Put: insert key %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Store.Put: commit: %w", err)
	}
	return nil
}

// Delete removes the document and its keys, or returns store.ErrNotFound.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite.Store.Delete: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("sqlite.Store.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite.Store.Delete: rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM record_keys WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("sqlite.Store.Delete: keys: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Store.Delete: commit: %w", err)
	}
	return nil
}

// List returns every document in the collection, ordered by id.
func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	const q = `SELECT doc FROM records WHERE collection = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Store.List: %w", err)
	}
	defer rows.Close()
	return collectDocs(rows, "sqlite.Store.List")
}

// FindByKey returns every document whose key equals value, ordered by id.
func (s *Store) FindByKey(ctx context.Context, collection, key, value string) ([][]byte, error) {
	const q = `
		SELECT r.doc
		FROM records r
		JOIN record_keys k ON k.collection = r.collection AND k.id = r.id
		WHERE r.collection = ? AND k.key = ? AND k.value = ?
		ORDER BY r.id`

	rows, err := s.db.QueryContext(ctx, q, collection, key, value)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Store.FindByKey: %w", err)
	}
	defer rows.Close()
	return collectDocs(rows, "sqlite.Store.FindByKey")
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	const q = `SELECT COUNT(*) FROM records WHERE collection = ?`

	var n int64
	if err := s.db.QueryRowContext(ctx, q, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite.Store.Count: %w", err)
	}
	return n, nil
}

func collectDocs(rows *sql.Rows, op string) ([][]byte, error) {
	docs := [][]byte{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return docs, nil
}
