package hotcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bohradivyansh-maker/translation-assistant/internal/store"
)

type fakeStore struct {
	records map[string]store.Record
	finds   int
	adds    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]store.Record)}
}

func (f *fakeStore) Find(_ context.Context, text, src, dst string) (*store.Record, bool) {
	f.finds++
	rec, ok := f.records[text+"|"+src+"|"+dst]
	if !ok {
		return nil, false
	}
	return &rec, true
}

func (f *fakeStore) Add(_ context.Context, rec store.Record) int64 {
	f.adds++
	k := rec.OriginalText + "|" + rec.SourceLang + "|" + rec.TargetLang
	if existing, ok := f.records[k]; ok {
		existing.UsageCount++
		f.records[k] = existing
		return existing.ID
	}
	rec.ID = int64(len(f.records) + 1)
	rec.UsageCount = 1
	f.records[k] = rec
	return rec.ID
}

func TestMemory_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := newFakeStore()
	m := NewMemory(NewInMemory(0), backing, nil)

	id := m.Add(ctx, store.Record{OriginalText: "Hello", TranslatedText: "Hola", SourceLang: "en", TargetLang: "es"})
	require.Equal(t, int64(1), id)

	rec, ok := m.Find(ctx, "Hello", "en", "es")
	require.True(t, ok)
	assert.Equal(t, "Hola", rec.TranslatedText)
	assert.Equal(t, 1, backing.finds)

	rec, ok = m.Find(ctx, "Hello", "en", "es")
	require.True(t, ok)
	assert.Equal(t, "Hola", rec.TranslatedText)
	assert.Equal(t, 1, backing.finds, "second read should be served from the cache")
}

func TestMemory_AddInvalidates(t *testing.T) {
	ctx := context.Background()
	backing := newFakeStore()
	m := NewMemory(NewInMemory(0), backing, nil)

	rec := store.Record{OriginalText: "Hello", TranslatedText: "Hola", SourceLang: "en", TargetLang: "es"}
	m.Add(ctx, rec)
	m.Find(ctx, "Hello", "en", "es")
	m.Add(ctx, rec)

	got, ok := m.Find(ctx, "Hello", "en", "es")
	require.True(t, ok)
	assert.Equal(t, 2, got.UsageCount)
	assert.Equal(t, 2, backing.finds)
}

func TestMemory_Miss(t *testing.T) {
	m := NewMemory(NewInMemory(0), newFakeStore(), nil)
	_, ok := m.Find(context.Background(), "nothing", "en", "es")
	assert.False(t, ok)
}

func TestMemory_RedisFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	defer db.Close()

	backing := newFakeStore()
	backing.Add(ctx, store.Record{OriginalText: "Hello", TranslatedText: "Hola", SourceLang: "en", TargetLang: "es"})
	m := NewMemory(NewRedisFromClient(db, 0, "test:"), backing, nil)

	key := "test:" + Key("Hello", "en", "es")
	mock.ExpectGet(key).SetErr(errors.New("redis down"))

	rec, ok := m.Find(ctx, "Hello", "en", "es")
	require.True(t, ok)
	assert.Equal(t, "Hola", rec.TranslatedText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemory_PurgeFlushesCache(t *testing.T) {
	ctx := context.Background()
	db, err := store.New(filepath.Join(t.TempDir(), "tm.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	cache := NewInMemory(0)
	m := NewMemory(cache, db, nil)
	m.Add(ctx, store.Record{OriginalText: "Hello", TranslatedText: "Hola", SourceLang: "en", TargetLang: "es"})
	_, ok := m.Find(ctx, "Hello", "en", "es")
	require.True(t, ok)
	require.Equal(t, 1, cache.Len())

	n, ok := m.Purge(ctx, nil)
	require.True(t, ok)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 0, cache.Len())

	_, ok = m.Find(ctx, "Hello", "en", "es")
	assert.False(t, ok, "purged translation should not be served")
}

func TestMemory_PurgeUnsupportedStore(t *testing.T) {
	cache := NewInMemory(0)
	require.NoError(t, cache.Set(context.Background(), "k", "v"))
	m := NewMemory(cache, newFakeStore(), nil)

	_, ok := m.Purge(context.Background(), nil)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}
