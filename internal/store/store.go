// Package store owns every counter filled during a run. All families are
// allocated up front; the scan only ever increments existing cells.
package store

import (
	"errors"
	"fmt"

	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
)

// Family is the yield counter plus one pass-count counter per applicable
// dimension for a single key. Cuts[d] is nil when d does not apply to the prong.
type Family struct {
	Key   Key
	Yield *Hist1D
	Cuts  [cuts.NumDimensions]*Hist2D
}

type Store struct {
	grids *cuts.Registry
	axis  *cuts.PtAxis
	fams  []*Family
}

func New(grids *cuts.Registry, axis *cuts.PtAxis) *Store {
	s := &Store{grids: grids, axis: axis}
	nx := axis.NBins() + 2
	for _, k := range AllKeys() {
		f := &Family{Key: k, Yield: newHist1D(nx)}
		for _, d := range cuts.Dimensions() {
			if d.AppliesTo(k.Prong) {
				f.Cuts[d] = newHist2D(nx, grids.Len(d)+1)
			}
		}
		s.fams = append(s.fams, f)
	}
	return s
}

func (s *Store) Grids() *cuts.Registry { return s.grids }
func (s *Store) Axis() *cuts.PtAxis    { return s.axis }

// Family returns the family for k, or nil if k is not reachable.
func (s *Store) Family(k Key) *Family {
	i, ok := index(k)
	if !ok {
		return nil
	}
	return s.fams[i]
}

// Families returns every family in storage order.
func (s *Store) Families() []*Family {
	return append([]*Family(nil), s.fams...)
}

// FillYield increments the yield counter of k at the given pT storage bin.
func (s *Store) FillYield(k Key, ptBin int) error {
	f := s.Family(k)
	if f == nil {
		return fmt.Errorf("unknown counter key %+v", k)
	}
	if err := f.Yield.Inc(ptBin); err != nil {
		return fmt.Errorf("%s: %w", k.Name(), err)
	}
	return nil
}

// FillCut increments the d counter of k at (ptBin, index). index is 1-based.
func (s *Store) FillCut(k Key, d cuts.Dimension, ptBin, index int) error {
	f := s.Family(k)
	if f == nil {
		return fmt.Errorf("unknown counter key %+v", k)
	}
	h := f.Cuts[d]
	if h == nil {
		return fmt.Errorf("%s has no %s counter", model.ChannelName(k.Prong, k.Channel), d)
	}
	if err := h.Inc(ptBin, index); err != nil {
		return fmt.Errorf("%s: %w", k.CutName(d), err)
	}
	return nil
}

// Merge adds every counter of o into s. Both stores must share binning and
// grid lengths.
func (s *Store) Merge(o *Store) error {
	if o == nil {
		return errors.New("merge: nil store")
	}
	if len(o.fams) != len(s.fams) || o.axis.NBins() != s.axis.NBins() {
		return errors.New("merge: store shapes differ")
	}
	for i, f := range s.fams {
		of := o.fams[i]
		if err := addAll(f.Yield.counts, of.Yield.counts); err != nil {
			return fmt.Errorf("merge %s: %w", f.Key.Name(), err)
		}
		for d, h := range f.Cuts {
			if h == nil {
				continue
			}
			oh := of.Cuts[d]
			if oh == nil || oh.ny != h.ny {
				return errors.New("merge: store shapes differ")
			}
			if err := addAll(h.counts, oh.counts); err != nil {
				return fmt.Errorf("merge %s: %w", f.Key.CutName(cuts.Dimension(d)), err)
			}
		}
	}
	return nil
}

// Cell is one counter bin in flattened form. Yield cells have Dimension -1
// and Index 0.
type Cell struct {
	Name      string
	Key       Key
	Dimension cuts.Dimension
	PtBin     int
	Index     int
	Count     uint64
}

func (c Cell) IsYield() bool { return c.Dimension < 0 }

// Snapshot flattens the store in storage order, skipping the reserved
// threshold index 0.
func (s *Store) Snapshot() []Cell {
	var out []Cell
	for _, f := range s.fams {
		for b := 0; b < f.Yield.Len(); b++ {
			out = append(out, Cell{Name: f.Key.Name(), Key: f.Key, Dimension: -1, PtBin: b, Count: f.Yield.Count(b)})
		}
		for _, d := range cuts.Dimensions() {
			h := f.Cuts[d]
			if h == nil {
				continue
			}
			name := f.Key.CutName(d)
			for x := 0; x < h.NX(); x++ {
				for y := 1; y < h.NY(); y++ {
					out = append(out, Cell{Name: name, Key: f.Key, Dimension: d, PtBin: x, Index: y, Count: h.Count(x, y)})
				}
			}
		}
	}
	return out
}
