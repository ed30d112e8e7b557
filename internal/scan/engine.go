// Package scan runs the selection study over a candidate stream: classify,
// derive the cut variables, then sweep every threshold grid into the store.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"hf-selopt/internal/classify"
	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
	"hf-selopt/internal/store"
)

// Source yields candidates one at a time and returns io.EOF at the end.
type Source interface {
	Next() (model.Candidate, error)
}

// SliceSource streams a candidate slice.
type SliceSource struct {
	cands []model.Candidate
	pos   int
}

func NewSliceSource(cands []model.Candidate) *SliceSource {
	return &SliceSource{cands: cands}
}

func (s *SliceSource) Next() (model.Candidate, error) {
	if s.pos >= len(s.cands) {
		return model.Candidate{}, io.EOF
	}
	c := s.cands[s.pos]
	s.pos++
	return c, nil
}

// Resolver looks up constituent tracks by id.
type Resolver interface {
	Track(id int64) (model.Track, bool)
}

// Observer is notified for every candidate read. Implementations used with
// RunParallel must be safe for concurrent use.
type Observer interface {
	Processed(p model.Prong, scans int)
	Skipped(p model.Prong, reason SkipReason)
}

type Engine struct {
	grids    *cuts.Registry
	axis     *cuts.PtAxis
	log      *zap.Logger
	observer Observer
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

func New(grids *cuts.Registry, axis *cuts.PtAxis, opts ...Option) *Engine {
	e := &Engine{grids: grids, axis: axis, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewStore allocates an empty store with the engine's grids and binning.
func (e *Engine) NewStore() *store.Store {
	return store.New(e.grids, e.axis)
}

// Run consumes src to the end. If src fails, the partial result is returned
// together with the error and Result.Complete is false.
func (e *Engine) Run(src Source, res Resolver) (*Result, error) {
	if src == nil {
		return nil, errors.New("source is nil")
	}
	if res == nil {
		return nil, errors.New("resolver is nil")
	}
	st := e.NewStore()
	stats, err := e.runInto(context.Background(), st, src, res)
	out := &Result{Store: st, Stats: stats, Complete: err == nil}
	if err != nil {
		e.log.Warn("scan stopped early",
			zap.Int64("read", stats.Read),
			zap.Int64("processed", stats.Processed),
			zap.Error(err))
		return out, err
	}
	e.log.Info("scan complete",
		zap.Int64("read", stats.Read),
		zap.Int64("processed", stats.Processed),
		zap.Int64("scans", stats.Scans),
		zap.Int64("skipped", stats.TotalSkipped()))
	return out, nil
}

func (e *Engine) runInto(ctx context.Context, st *store.Store, src Source, res Resolver) (Stats, error) {
	stats := newStats()
	acc := NewAccumulator(st)
	tracks := make([]model.Track, 0, 3)
	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("candidate %d: %w", stats.Read, err)
		}
		c, err := src.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("candidate %d: %w", stats.Read, err)
		}
		stats.Read++

		if err := c.Validate(); err != nil {
			e.skip(&stats, c, SkipMalformed, zap.Error(err))
			continue
		}
		tracks = tracks[:0]
		missing := int64(-1)
		for _, id := range c.TrackIDs {
			t, ok := res.Track(id)
			if !ok {
				missing = id
				break
			}
			tracks = append(tracks, t)
		}
		if missing >= 0 || len(tracks) != len(c.TrackIDs) {
			e.skip(&stats, c, SkipUnresolvedTrack, zap.Int64("track_id", missing))
			continue
		}

		n, err := e.process(acc, c, tracks)
		if err != nil {
			return stats, fmt.Errorf("candidate %d: %w", stats.Read-1, err)
		}
		stats.Processed++
		stats.ByProng[c.Prong]++
		stats.Scans += int64(n)
		if e.observer != nil {
			e.observer.Processed(c.Prong, n)
		}
	}
}

// process classifies one candidate and runs every scan it triggers,
// returning the number of scans.
func (e *Engine) process(acc *Accumulator, c model.Candidate, tracks []model.Track) (int, error) {
	dec := classify.Classify(c)
	if len(dec.Outcomes) == 0 && !dec.HasSummary {
		return 0, nil
	}
	q, err := Extract(c, tracks)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range dec.Outcomes {
		if err := acc.Accumulate(store.Key{Prong: c.Prong, Class: o.Class, Channel: o.Channel}, q); err != nil {
			return n, err
		}
		n++
	}
	if dec.HasSummary {
		k := store.Key{Prong: c.Prong, Class: dec.Summary, Channel: model.SummaryChannel(c.Prong)}
		if err := acc.Accumulate(k, q); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (e *Engine) skip(stats *Stats, c model.Candidate, reason SkipReason, fields ...zap.Field) {
	stats.Skipped[reason]++
	if e.observer != nil {
		e.observer.Skipped(c.Prong, reason)
	}
	e.log.Debug("candidate skipped",
		append([]zap.Field{zap.String("reason", string(reason)), zap.Int("prong", int(c.Prong))}, fields...)...)
}
