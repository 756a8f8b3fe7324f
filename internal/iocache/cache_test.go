package iocache

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/commitscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleCommits() []schema.Commit {
	at := time.Date(2025, 2, 3, 9, 30, 0, 0, time.FixedZone("", -8*3600))
	line := schema.LineRecord{Commit: "5b6e2a1", File: "index.html", Type: "html", Line: 1, Length: 15, Author: "Erika Tan", Datetime: at}
	return []schema.Commit{{
		ID: "5b6e2a1", Author: "Erika Tan", Datetime: at, HourFrac: 9.5,
		TotalLines: 1, Lines: []schema.LineRecord{line},
	}}
}

func sqliteStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(snapshotTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := sqliteStore(t)

	_, _, _, err := store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("k", []byte("v1"), 1, 100))
	require.NoError(t, store.Set("k", []byte("v2"), 2, 200))
	data, version, ts, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)

	require.NoError(t, store.Set("other", []byte("x"), 1, 50))
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(200, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(50, 0), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)

	require.NoError(t, store.Clear())
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalEntries)
}

func TestNoneStore(t *testing.T) {
	store, err := NewCacheStore(snapshotTable, schema.NoneBackend, "")
	require.NoError(t, err)

	require.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreRejects(t *testing.T) {
	_, err := NewCacheStore("bad name; drop", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore(snapshotTable, schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("commit\n"), "")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint([]byte("commit\n"), ""))
	assert.NotEqual(t, a, Fingerprint([]byte("commit\n"), "https://example.com/commit"))
	assert.NotEqual(t, a, Fingerprint([]byte("commit,file\n"), ""))
}

func TestLoadOrBuildRoundTrip(t *testing.T) {
	store := sqliteStore(t)
	builds := 0
	build := func() ([]schema.Commit, error) {
		builds++
		return sampleCommits(), nil
	}

	first, hit, err := LoadOrBuild(store, "key", build)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := LoadOrBuild(store, "key", build)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, builds)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Datetime.Equal(second[0].Datetime))
	_, offset := second[0].Datetime.Zone()
	assert.Equal(t, -8*3600, offset)
	assert.Equal(t, first[0].Lines[0].File, second[0].Lines[0].File)
}

func TestLoadOrBuildStaleVersion(t *testing.T) {
	store := sqliteStore(t)
	require.NoError(t, store.Set("key", []byte("[]"), SnapshotVersion+1, 1))

	commits, hit, err := LoadOrBuild(store, "key", func() ([]schema.Commit, error) { return sampleCommits(), nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, commits, 1)
}

func TestLoadOrBuildWithMock(t *testing.T) {
	store := &MockCacheStore{}
	store.On("Get", "key").Return(nil, 0, int64(0), errors.New("connection reset"))
	store.On("Set", "key", mock.Anything, SnapshotVersion, mock.Anything).Return(nil)

	commits, hit, err := LoadOrBuild(store, "key", func() ([]schema.Commit, error) { return sampleCommits(), nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, commits, 1)
	store.AssertExpectations(t)
}

func TestLoadOrBuildPropagatesBuildError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := LoadOrBuild(nil, "key", func() ([]schema.Commit, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCaching(t *testing.T) {
	t.Run("init and close", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		path := filepath.Join(t.TempDir(), "cache.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, path))
		require.NoError(t, InitCaching(schema.SQLiteBackend, path), "second init is a no-op")
		assert.NotNil(t, Manager.GetSnapshotStore())

		CloseCaching()
		CloseCaching()
		assert.Nil(t, Manager.GetSnapshotStore())
		assert.FileExists(t, path)
	})

	t.Run("disabled", func(t *testing.T) {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		require.NoError(t, InitCaching("", ""))
		assert.Nil(t, Manager.GetSnapshotStore())
	})
}

func TestClearCacheSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o600))

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	assert.NoFileExists(t, path)
	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""), "missing file is fine")
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache("redis", "", ""))
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 2,
		LastEntryTime: time.Now(), OldestEntryTime: time.Now().Add(-time.Hour),
		TableSizeBytes: 8192,
	})
	assert.Contains(t, buf.String(), "Snapshots: 2")
	assert.Contains(t, buf.String(), "Table Size: 8.2 kB")
}
