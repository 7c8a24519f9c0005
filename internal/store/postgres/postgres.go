// Package postgres provides a store.Store backed by Postgres via pgx. Use it
// when several processes need to share one durable store; the schema is the
// same records/record_keys pair the sqlite adapter uses, created by the goose
// migrations in migrations/postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avoss/trip-pantry/internal/store"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Integration tests pass a transaction that is rolled back after each
// test, giving per-test isolation without manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a Postgres-backed record store.
type Store struct {
	db db
}

var _ store.Store = (*Store)(nil)

// New constructs a Store over the given connection. In production pass
// *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func New(db db) *Store { return &Store{db: db} }

// Get returns the document stored under (collection, id).
func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	const q = `SELECT doc FROM records WHERE collection = @collection AND id = @id`

	var doc []byte
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"collection": collection, "id": id}).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.Get: %w", err)
	}
	return doc, nil
}

// Put upserts the document and replaces its keys. The two statements are not
// wrapped in a transaction: the store contract assumes a single logical
// writer, and a retried Put converges on the same state either way.
func (s *Store) Put(ctx context.Context, collection, id string, doc []byte, keys map[string]string) error {
	const upsert = `
		INSERT INTO records (collection, id, doc)
		VALUES (@collection, @id, @doc)
		ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc`

	args := pgx.NamedArgs{"collection": collection, "id": id, "doc": doc}
	if _, err := s.db.Exec(ctx, upsert, args); err != nil {
		return fmt.Errorf("postgres.Store.Put: upsert: %w", err)
	}

	const clear = `DELETE FROM record_keys WHERE collection = @collection AND id = @id`
	if _, err := s.db.Exec(ctx, clear, pgx.NamedArgs{"collection": collection, "id": id}); err != nil {
		return fmt.Errorf("postgres.Store.Put: clear keys: %w", err)
	}

	const insertKey = `
		INSERT INTO record_keys (collection, id, key, value)
		VALUES (@collection, @id, @key, @value)`
	for k, v := range keys {
		args := pgx.NamedArgs{"collection": collection, "id": id, "key": k, "value": v}
		if _, err := s.db.Exec(ctx, insertKey, args); err != nil {
			return fmt.Errorf("postgres.Store.Put: insert key %q: %w", k, err)
		}
	}
	return nil
}

// Delete removes the document and its keys, or returns store.ErrNotFound.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	args := pgx.NamedArgs{"collection": collection, "id": id}

	tag, err := s.db.Exec(ctx, `DELETE FROM records WHERE collection = @collection AND id = @id`, args)
	if err != nil {
		return fmt.Errorf("postgres.Store.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM record_keys WHERE collection = @collection AND id = @id`, args); err != nil {
		return fmt.Errorf("postgres.Store.Delete: keys: %w", err)
	}
	return nil
}

// List returns every document in the collection, ordered by id.
func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	const q = `SELECT doc FROM records WHERE collection = @collection ORDER BY id`

	rows, err := s.db.Query(ctx, q, pgx.NamedArgs{"collection": collection})
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.List: %w", err)
	}
	defer rows.Close()
	return collectDocs(rows, "postgres.Store.List")
}

// FindByKey returns every document whose key equals value, ordered by id.
func (s *Store) FindByKey(ctx context.Context, collection, key, value string) ([][]byte, error) {
	const q = `
		SELECT r.doc
		FROM records r
		JOIN record_keys k ON k.collection = r.collection AND k.id = r.id
		WHERE r.collection = @collection AND k.key = @key AND k.value = @value
		ORDER BY r.id`

	rows, err := s.db.Query(ctx, q, pgx.NamedArgs{"collection": collection, "key": key, "value": value})
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.FindByKey: %w", err)
	}
	defer rows.Close()
	return collectDocs(rows, "postgres.Store.FindByKey")
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	const q = `SELECT COUNT(*) FROM records WHERE collection = @collection`

	var n int64
	if err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"collection": collection}).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres.Store.Count: %w", err)
	}
	return n, nil
}

func collectDocs(rows pgx.Rows, op string) ([][]byte, error) {
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
