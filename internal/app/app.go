// Package app runs the commitscope commands. It loads the line-change table
// through the snapshot cache, applies the configured interaction and hands
// the session to a writer, the HTTP server or the MCP server.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/core/agg"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/internal/echarts"
	"github.com/huangsam/commitscope/internal/iocache"
	"github.com/huangsam/commitscope/internal/loader"
	"github.com/huangsam/commitscope/internal/mcp"
	"github.com/huangsam/commitscope/internal/outwriter"
	"github.com/huangsam/commitscope/internal/parquet"
	"github.com/huangsam/commitscope/internal/server"
	"github.com/huangsam/commitscope/internal/session"
	"github.com/huangsam/commitscope/schema"
)

// ExecutorFunc defines the function signature for executing a command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// LoadCommits reads the line-change table and aggregates it into commits.
// The aggregate is cached under a fingerprint of the file contents, so an
// unchanged table is never parsed twice.
func LoadCommits(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.Commit, error) {
	data, err := os.ReadFile(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("read line records: %w", err)
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetSnapshotStore()
	}
	commits, hit, err := iocache.LoadOrBuild(store, iocache.Fingerprint(data, cfg.URLPrefix), func() ([]schema.Commit, error) {
		lines, err := loader.Load(cfg.DataPath, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return agg.Aggregate(lines, cfg.URLPrefix), nil
	})
	if err != nil {
		return nil, err
	}

	if !shouldSuppressHeader(ctx) {
		source := "parsed"
		if hit {
			source = "cached"
		}
		contract.LogInfo("Loaded %d commits from %s (%s)", len(commits), contract.TruncatePath(cfg.DataPath, 60), source)
	}
	return commits, nil
}

// OpenSession loads the commits, renders every view and applies the initial
// interaction from the configuration.
func OpenSession(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*session.Session, error) {
	commits, err := LoadCommits(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	sess := session.New(commits, cfg.Layout, cfg.Title)
	if err := applyInitial(sess, cfg); err != nil {
		return nil, err
	}
	return sess, nil
}

// applyInitial applies at most one of --progress, --step and --brush.
func applyInitial(sess *session.Session, cfg *contract.Config) error {
	var (
		entry string
		fn    func(st *core.State) error
	)
	switch {
	case cfg.HasProgress:
		entry, fn = "progress", func(st *core.State) error { return st.SetProgress(cfg.Progress) }
	case cfg.Step != contract.NoStep:
		entry, fn = "step", func(st *core.State) error { return st.EnterStep(cfg.Step) }
	case cfg.Brush != nil:
		entry, fn = "brush", func(st *core.State) error { return st.Brush(cfg.Brush) }
	default:
		return nil
	}
	if _, err := sess.Apply(entry, fn); err != nil {
		return fmt.Errorf("initial %s: %w", entry, err)
	}
	return nil
}

// ExecuteRender writes the standalone HTML page for the configured view.
func ExecuteRender(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	sess, err := OpenSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHTML(cfg, sess.WritePage)
}

// ExecuteStats prints the projections of the configured view as a table,
// CSV, JSON or Parquet.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	sess, err := OpenSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	switch cfg.Output {
	case schema.ParquetOut:
		records := parquet.ConvertCommitRows(sess.Rows())
		if err := parquet.WriteCommitsParquet(records, cfg.OutputFile); err != nil {
			return err
		}
		logWrote(ctx, "Parquet", cfg.OutputFile)
		return nil
	case schema.HTMLOut:
		return ow.WriteHTML(cfg, sess.WritePage)
	default:
		return ow.WriteView(sess.Snapshot(), sess.Rows(), cfg, time.Since(start))
	}
}

// ExecuteExport writes every loaded line record as Parquet, or the commit
// scatter as an interactive ECharts page.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	commits, err := LoadCommits(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	switch cfg.Output {
	case schema.ParquetOut:
		if err := parquet.WriteLinesParquet(parquet.ConvertLineRecords(commits), cfg.OutputFile); err != nil {
			return err
		}
		logWrote(ctx, "Parquet", cfg.OutputFile)
		return nil
	case schema.HTMLOut:
		return outwriter.NewOutWriter().WriteHTML(cfg, func(w io.Writer) error {
			return echarts.WriteScatter(w, commits, cfg.Title)
		})
	default:
		return fmt.Errorf("export supports parquet and html output, not %s", cfg.Output)
	}
}

// ExecuteServe hosts the page and its interaction endpoints until ctx ends.
func ExecuteServe(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	sess, err := OpenSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return server.New(sess, cfg).Run(ctx)
}

// ExecuteMCP serves the session to agents over stdio.
func ExecuteMCP(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ctx = WithSuppressHeader(ctx)
	sess, err := OpenSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return mcp.StartMCPServer(ctx, sess, cfg)
}

func logWrote(ctx context.Context, what, path string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", what, path)
}
