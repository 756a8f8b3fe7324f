package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/internal/iocache"
	"github.com/huangsam/commitscope/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		DataPath:     filepath.Join("testdata", "loc.csv"),
		URLPrefix:    "https://github.com/erikat/portfolio/commit",
		Title:        "portfolio",
		Layout:       schema.DefaultLayout(),
		Output:       schema.TextOut,
		Precision:    1,
		Width:        120,
		Step:         contract.NoStep,
		CacheBackend: schema.NoneBackend,
	}
}

func TestLoadCommits(t *testing.T) {
	commits, err := LoadCommits(WithSuppressHeader(context.Background()), testCfg(t), nil)
	require.NoError(t, err)
	require.Len(t, commits, 3)
	assert.Equal(t, "5b6e2a1", commits[0].ID)
	assert.Equal(t, "https://github.com/erikat/portfolio/commit/5b6e2a1", commits[0].URL)
	assert.Equal(t, 3, commits[0].TotalLines)
}

func TestLoadCommitsUsesSnapshotCache(t *testing.T) {
	store, err := iocache.NewCacheStore("snapshot_cache", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)

	ctx := WithSuppressHeader(context.Background())
	first, err := LoadCommits(ctx, testCfg(t), mgr)
	require.NoError(t, err)
	second, err := LoadCommits(ctx, testCfg(t), mgr)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first[2].ID, second[2].ID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalEntries, "one fingerprint, one snapshot")
	mgr.AssertNumberOfCalls(t, "GetSnapshotStore", 2)
}

func TestLoadCommitsMissingFile(t *testing.T) {
	cfg := testCfg(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := LoadCommits(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenSessionAppliesInitialInteraction(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("step", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Step = 0
		sess, err := OpenSession(ctx, cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"5b6e2a1"}, sess.Snapshot().VisibleIDs)
		assert.Equal(t, schema.ScrollChannel, sess.Channel())
	})

	t.Run("progress", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Progress, cfg.HasProgress = 0, true
		sess, err := OpenSession(ctx, cfg, nil)
		require.NoError(t, err)
		assert.Len(t, sess.Snapshot().VisibleIDs, 1)
	})

	t.Run("brush", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Brush = &schema.Rect{X0: 0, Y0: 0, X1: cfg.Layout.Width, Y1: cfg.Layout.Height}
		sess, err := OpenSession(ctx, cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "3 commits selected", sess.Snapshot().SelectionCount)
	})

	t.Run("step out of range", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Step = 5
		_, err := OpenSession(ctx, cfg, nil)
		assert.ErrorIs(t, err, schema.ErrStepOutOfRange)
	})
}

func TestExecuteRender(t *testing.T) {
	cfg := testCfg(t)
	cfg.Step = 1
	cfg.OutputFile = filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, ExecuteRender(WithSuppressHeader(context.Background()), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "<title>portfolio</title>")
	assert.Contains(t, page, `id="commit-91c0d7e"`)
	assert.NotContains(t, page, `id="commit-c44f01b"`)
}

func TestExecuteStats(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("json", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "view.json")
		require.NoError(t, ExecuteStats(ctx, cfg, nil))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var got struct {
			Stats   schema.Stats `json:"stats"`
			Commits []struct {
				ID string `json:"id"`
			} `json:"commits"`
		}
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, 3, got.Stats.TotalCommits)
		assert.Equal(t, 8, got.Stats.TotalLOC)
		assert.Len(t, got.Commits, 3)
	})

	t.Run("text", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Step = 0
		cfg.OutputFile = filepath.Join(t.TempDir(), "view.txt")
		require.NoError(t, ExecuteStats(ctx, cfg, nil))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "portfolio: 1 of 3 commits visible (threshold mode")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "commits.parquet")
		require.NoError(t, ExecuteStats(ctx, cfg, nil))

		file, err := os.Open(cfg.OutputFile)
		require.NoError(t, err)
		defer file.Close()
		info, err := file.Stat()
		require.NoError(t, err)
		pf, err := parquet.OpenFile(file, info.Size())
		require.NoError(t, err)
		assert.Equal(t, int64(3), pf.NumRows())
	})
}

func TestExecuteExport(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("lines as parquet", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "lines.parquet")
		require.NoError(t, ExecuteExport(ctx, cfg, nil))

		file, err := os.Open(cfg.OutputFile)
		require.NoError(t, err)
		defer file.Close()
		info, err := file.Stat()
		require.NoError(t, err)
		pf, err := parquet.OpenFile(file, info.Size())
		require.NoError(t, err)
		assert.Equal(t, int64(8), pf.NumRows())
	})

	t.Run("echarts page", func(t *testing.T) {
		cfg := testCfg(t)
		cfg.Output = schema.HTMLOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "scatter.html")
		require.NoError(t, ExecuteExport(ctx, cfg, nil))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "echarts")
		assert.Contains(t, string(data), "c44f01b")
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ExecuteExport(ctx, testCfg(t), nil))
	})
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	const numGoroutines = 50
	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
		}(i)
	}
	wg.Wait()

	assert.False(t, shouldSuppressHeader(context.Background()))
}
