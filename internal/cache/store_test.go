package cache

import (
	"context"
	"path/filepath"
	"testing"
	"wt-summariser/internal/components/chrono"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	week := chrono.Week{Year: 2024, Week: 35}

	_, ok, err := store.Get(ctx, Key(week))
	require.NoError(t, err)
	require.False(t, ok)

	_, err = Load(ctx, store, week)
	require.ErrorIs(t, err, ErrNotFound)

	record := sampleRecord()
	require.NoError(t, Save(ctx, store, week, record))

	raw, ok, err := store.Get(ctx, "content-2024-35")
	require.NoError(t, err)
	require.True(t, ok)
	expected, err := Encode(record)
	require.NoError(t, err)
	require.Equal(t, expected, raw)

	loaded, err := Load(ctx, store, week)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(record, loaded))

	require.NoError(t, store.Set(ctx, Key(week), "overwritten"))
	raw, _, err = store.Get(ctx, Key(week))
	require.NoError(t, err)
	require.Equal(t, "overwritten", raw)
}

func TestKey(t *testing.T) {
	require.Equal(t, "content-2024-35", Key(chrono.Week{Year: 2024, Week: 35}))
	require.Equal(t, "content-2025-1", Key(chrono.Week{Year: 2025, Week: 1}))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	testStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), SQLiteConfig{File: ":memory:"})
	require.NoError(t, err)
	defer store.Close()
	testStore(t, store)
}

func TestSQLiteStoreFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "cache.db")
	store, err := OpenSQLite(context.Background(), SQLiteConfig{File: file})
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "k", "v"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(context.Background(), SQLiteConfig{File: file})
	require.NoError(t, err)
	defer reopened.Close()
	value, ok, err := reopened.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), Config{Backend: BackendMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)

	store, err = Open(context.Background(), Config{Backend: BackendSQLite, SQLite: SQLiteConfig{File: ":memory:"}})
	require.NoError(t, err)
	require.IsType(t, &SQLStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(context.Background(), Config{Backend: BackendSQLite})
	require.Error(t, err)

	_, err = Open(context.Background(), Config{Backend: "etcd"})
	require.Error(t, err)
}
