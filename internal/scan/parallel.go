package scan

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hf-selopt/internal/model"
	"hf-selopt/internal/store"
)

// RunParallel scans each chunk into its own store and merges the stores in
// chunk order once every worker is done. res is shared read-only between
// workers. workers <= 0 uses GOMAXPROCS. Workers stop between candidates
// once ctx is cancelled or another chunk has failed.
func (e *Engine) RunParallel(ctx context.Context, chunks [][]model.Candidate, res Resolver, workers int) (*Result, error) {
	if res == nil {
		return nil, fmt.Errorf("resolver is nil")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	stores := make([]*store.Store, len(chunks))
	stats := make([]Stats, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stores[i] = e.NewStore()
			s, err := e.runInto(gctx, stores[i], NewSliceSource(chunk), res)
			stats[i] = s
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			return nil
		})
	}
	runErr := g.Wait()

	out := &Result{Store: e.NewStore(), Stats: newStats(), Complete: runErr == nil}
	for i, st := range stores {
		if st == nil {
			continue
		}
		if err := out.Store.Merge(st); err != nil {
			out.Complete = false
			return out, err
		}
		out.Stats.add(stats[i])
	}
	if runErr != nil {
		return out, runErr
	}
	e.log.Info("parallel scan complete",
		zap.Int("chunks", len(chunks)),
		zap.Int("workers", workers),
		zap.Int64("processed", out.Stats.Processed),
		zap.Int64("skipped", out.Stats.TotalSkipped()))
	return out, nil
}
