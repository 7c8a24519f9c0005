// Package store defines the generic record-store contract the repositories
// are built on: an asynchronous key-value store of flat JSON documents,
// grouped into collections and queryable through caller-declared secondary
// index keys. The store knows nothing about entities; it moves opaque
// documents. Adapters live in the subpackages memory, sqlite, and postgres.
//
// The store promises read-your-writes consistency within a single process
// and assumes a single logical writer. Put is an idempotent upsert: retrying
// a write after an ambiguous failure is always safe and never duplicates a
// record.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Delete when no record with the given id
// exists in the collection. Repositories translate it into a structured
// domain not-found error.
var ErrNotFound = errors.New("record not found")

// Store is the persistence contract. doc is a marshaled flat record; keys are
// the secondary-index values the caller wants the record to be queryable by.
// Every Put replaces the full document and its key set.
type Store interface {
	// Get returns the document stored under (collection, id), or ErrNotFound.
	Get(ctx context.Context, collection, id string) ([]byte, error)

	// Put upserts the document and replaces its secondary-index keys.
	Put(ctx context.Context, collection, id string, doc []byte, keys map[string]string) error

	// Delete removes the document and its keys. Returns ErrNotFound when the
	// id is absent.
	Delete(ctx context.Context, collection, id string) error

	// List returns every document in the collection, ordered by id.
	List(ctx context.Context, collection string) ([][]byte, error)

	// FindByKey returns every document whose secondary index key equals
	// value, ordered by id.
	FindByKey(ctx context.Context, collection, key, value string) ([][]byte, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int64, error)
}
