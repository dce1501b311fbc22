// Package pipeline wires the run together: source discovery, parallel
// parsing, and single-writer ingestion into the graph store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/config"
	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/engine"
	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/frontend"
	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/graph"
)

// Result summarizes one indexing run.
type Result struct {
	Files    int
	Parsed   int
	Failed   int
	Visited  int
	Entities int
	Writes   graph.Summary
}

// Run executes one indexing run. Store open and schema definition failures
// abort; a file that cannot be read or parsed is logged and skipped.
//
// Parsing fans out across workers; ingestion replays the converted units in
// deterministic file order through a single writer, so identity assignment
// and the persisted rows are reproducible for unchanged input.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	start := time.Now()

	files, err := cfg.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	slog.Info("pipeline.start",
		"files", len(files),
		"database", cfg.Database,
		"flags", len(cfg.Flags))

	store, err := graph.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	units, failed := parseAll(ctx, files, cfg.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := ingest(store, cfg, units)
	res.Files = len(files)
	res.Failed = failed
	res.Parsed = len(files) - failed

	slog.Info("pipeline.done",
		"files", res.Files,
		"parsed", res.Parsed,
		"failed", res.Failed,
		"entities", res.Entities,
		"node_ops", res.Writes.NodeOps,
		"rel_ops", res.Writes.RelOps,
		"write_failures", res.Writes.Failures,
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// parseAll converts every file in parallel. The result slice keeps file
// order; failed slots stay nil.
func parseAll(ctx context.Context, files []config.FileInfo, workers int) ([]*frontend.Unit, int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	start := time.Now()

	units := make([]*frontend.Unit, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(f.Path)
			if err != nil {
				slog.Warn("pipeline.read.err", "file", f.RelPath, "err", err)
				return nil
			}
			unit, err := frontend.ParseUnit(f.RelPath, source)
			if err != nil {
				slog.Warn("pipeline.parse.err", "file", f.RelPath, "err", err)
				return nil
			}
			units[i] = unit
			return nil
		})
	}
	// Workers never return file-level errors, only cancellation.
	_ = g.Wait()

	failed := 0
	for _, u := range units {
		if u == nil {
			failed++
		}
	}
	slog.Info("pipeline.parse.done",
		"files", len(files),
		"failed", failed,
		"workers", workers,
		"duration", time.Since(start).Round(time.Millisecond))
	return units, failed
}

// ingest replays the converted units through one indexer over one session and
// one batched writer. Write-level failures are tolerated inside the batcher;
// only transaction-level failures surface, and even those end the run with a
// partial graph rather than discarding it.
func ingest(store *graph.Store, cfg *config.Config, units []*frontend.Unit) *Result {
	start := time.Now()

	var opts []graph.BatcherOption
	if cfg.BatchSize > 0 {
		opts = append(opts, graph.WithBatchSize(cfg.BatchSize))
	}
	if cfg.CommitEvery > 0 {
		opts = append(opts, graph.WithCommitEvery(cfg.CommitEvery))
	}
	batcher := graph.NewBatcher(store, opts...)

	session := engine.NewSession()
	ix := engine.NewIndexer(session, batcher)

	for _, unit := range units {
		if unit == nil {
			continue
		}
		for _, ev := range unit.Events {
			if ev.Leave {
				ix.LeaveNode(ev.Node)
			} else {
				ix.EnterNode(ev.Node)
			}
		}
		slog.Debug("pipeline.unit.done",
			"file", unit.Path,
			"hash", fmt.Sprintf("%016x", unit.Hash),
			"events", len(unit.Events))
	}
	ix.Finish()

	if err := batcher.Close(); err != nil {
		slog.Error("pipeline.flush.err", "err", err)
	}

	res := &Result{
		Visited:  ix.Visited(),
		Entities: session.EntityCount(),
		Writes:   batcher.Summary(),
	}
	slog.Info("pipeline.ingest.done",
		"visited", res.Visited,
		"entities", res.Entities,
		"batches", res.Writes.Batches,
		"commits", res.Writes.Commits,
		"duration", time.Since(start).Round(time.Millisecond))
	return res
}
