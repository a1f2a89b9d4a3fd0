package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// createTestStore opens a SQLite store in a temp directory.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// backends returns every KV implementation under test.
func backends(t *testing.T) map[string]KV {
	return map[string]KV{
		"sqlite": createTestStore(t),
		"memory": NewMemory(),
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "theme", "nord"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var theme string
	found, err := s2.Get(ctx, "theme", &theme)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "nord", theme)

	var version int
	require.NoError(t, s2.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	s := &SQLite{db: nil}
	assert.NoError(t, s.Close())
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestKV_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			in := record{Title: "Notes", Tags: []string{"a", "b"}}
			require.NoError(t, store.Set(ctx, "doc", in))

			var out record
			found, err := store.Get(ctx, "doc", &out)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, in, out)
		})
	}
}

func TestKV_MissingKey(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var out record
			found, err := store.Get(ctx, "absent", &out)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestKV_Overwrite(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "n", 1))
			require.NoError(t, store.Set(ctx, "n", 2))

			var n int
			_, err := store.Get(ctx, "n", &n)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestKV_Remove(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "gone", "x"))
			require.NoError(t, store.Remove(ctx, "gone"))
			require.NoError(t, store.Remove(ctx, "never-existed"))

			var s string
			found, err := store.Get(ctx, "gone", &s)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestKV_UnencodableValue(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Set(ctx, "bad", make(chan int))
			assert.Error(t, err)
		})
	}
}

func TestSQLite_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES ('documents', '{not json')`)
	require.NoError(t, err)

	var out []record
	found, err := s.Get(ctx, "documents", &out)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestMemory_CorruptValue(t *testing.T) {
	m := NewMemory()
	m.SetRaw("documents", []byte("{not json"))

	var out []record
	found, err := m.Get(context.Background(), "documents", &out)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestSQLite_Keys(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.Set(ctx, "snapshots", []string{}))
	require.NoError(t, s.Set(ctx, "documents", []string{}))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"documents", "snapshots"}, keys)
}
