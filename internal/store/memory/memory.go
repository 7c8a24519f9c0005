// Package memory provides an in-memory store.Store used by unit tests and
// ephemeral runs. All data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/avoss/trip-pantry/internal/store"
)

// entry holds one stored document plus its secondary-index values.
type entry struct {
	doc  []byte
	keys map[string]string
}

// Store is a thread-safe in-memory record store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]entry
}

var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]entry)}
}

// Get returns the document stored under (collection, id).
func (s *Store) Get(_ context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneDoc(e.doc), nil
}

// Put upserts the document and replaces its keys. Inputs are copied so later
// caller mutations cannot corrupt stored state.
func (s *Store) Put(_ context.Context, collection, id string, doc []byte, keys map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]entry)
		s.collections[collection] = coll
	}

	copiedKeys := make(map[string]string, len(keys))
	for k, v := range keys {
		copiedKeys[k] = v
	}
	coll[id] = entry{doc: cloneDoc(doc), keys: copiedKeys}
	return nil
}

// Delete removes the document, or returns store.ErrNotFound.
func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if _, ok := coll[id]; !ok {
		return store.ErrNotFound
	}
	delete(coll, id)
	return nil
}

// List returns every document in the collection, ordered by id.
func (s *Store) List(_ context.Context, collection string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([][]byte, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, cloneDoc(coll[id].doc))
	}
	return docs, nil
}

// FindByKey returns every document whose key equals value, ordered by id.
func (s *Store) FindByKey(_ context.Context, collection, key, value string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	ids := make([]string, 0, len(coll))
	for id, e := range coll {
		if e.keys[key] == value {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	docs := make([][]byte, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, cloneDoc(coll[id].doc))
	}
	return docs, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.collections[collection])), nil
}

func cloneDoc(doc []byte) []byte {
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}
