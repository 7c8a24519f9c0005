package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/store"
	"github.com/avoss/trip-pantry/internal/store/sqlite"
	"github.com/avoss/trip-pantry/testutil"
)

// newStore opens a migrated throwaway SQLite database.
func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	return sqlite.NewFromDB(testutil.NewSQLiteDB(t))
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	st := newStore(t)

	_, err := st.Get(context.Background(), "trips", "nope")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "trips", "t1", []byte(`{"id":"t1","name":"Beach Week"}`), nil))

	doc, err := st.Get(ctx, "trips", "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1","name":"Beach Week"}`, string(doc))
}

func TestSQLiteStore_PutIsUpsert(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "trips", "t1", []byte(`{"v":1}`), map[string]string{"k": "a"}))
	require.NoError(t, st.Put(ctx, "trips", "t1", []byte(`{"v":2}`), map[string]string{"k": "b"}))

	doc, err := st.Get(ctx, "trips", "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(doc))

	n, err := st.Count(ctx, "trips")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// The old key value no longer matches.
	docs, err := st.FindByKey(ctx, "trips", "k", "a")
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = st.FindByKey(ctx, "trips", "k", "b")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSQLiteStore_DeleteRemovesKeys(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, "participants", "p1", []byte(`{}`), map[string]string{"tripId": "t1"}))

	require.NoError(t, st.Delete(ctx, "participants", "p1"))

	_, err := st.Get(ctx, "participants", "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	docs, err := st.FindByKey(ctx, "participants", "tripId", "t1")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSQLiteStore_DeleteMissing(t *testing.T) {
	st := newStore(t)

	err := st.Delete(context.Background(), "participants", "nope")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteStore_ListOrderedByID(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, "trips", "b", []byte(`{"id":"b"}`), nil))
	require.NoError(t, st.Put(ctx, "trips", "a", []byte(`{"id":"a"}`), nil))

	docs, err := st.List(ctx, "trips")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"a"}`, string(docs[0]))
	assert.JSONEq(t, `{"id":"b"}`, string(docs[1]))
}

func TestSQLiteStore_FindByKeyOrderedByID(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, "consumptions", "c2", []byte(`{"id":"c2"}`), map[string]string{"tripId": "t1", "meal": "dinner"}))
	require.NoError(t, st.Put(ctx, "consumptions", "c1", []byte(`{"id":"c1"}`), map[string]string{"tripId": "t1", "meal": "lunch"}))
	require.NoError(t, st.Put(ctx, "consumptions", "c3", []byte(`{"id":"c3"}`), map[string]string{"tripId": "t2", "meal": "dinner"}))

	docs, err := st.FindByKey(ctx, "consumptions", "tripId", "t1")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"c1"}`, string(docs[0]))
	assert.JSONEq(t, `{"id":"c2"}`, string(docs[1]))
}

func TestSQLiteStore_CollectionsAreIsolated(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, "trips", "x", []byte(`{}`), nil))

	_, err := st.Get(ctx, "products", "x")

	assert.ErrorIs(t, err, store.ErrNotFound)
}
