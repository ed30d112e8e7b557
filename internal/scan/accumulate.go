package scan

import (
	"hf-selopt/internal/cuts"
	"hf-selopt/internal/store"
)

// Accumulator sweeps every grid for one classified candidate and records the
// passing threshold indices.
type Accumulator struct {
	grids *cuts.Registry
	axis  *cuts.PtAxis
	store *store.Store
}

func NewAccumulator(st *store.Store) *Accumulator {
	return &Accumulator{grids: st.Grids(), axis: st.Axis(), store: st}
}

// Accumulate fills the yield of k once and, per applicable dimension, every
// threshold index the candidate passes. Thresholds are tested independently,
// so one candidate yields a whole efficiency curve.
func (a *Accumulator) Accumulate(k store.Key, q Quantities) error {
	bin := a.axis.Bin(q.Pt)
	if err := a.store.FillYield(k, bin); err != nil {
		return err
	}
	for _, d := range cuts.Dimensions() {
		if !d.AppliesTo(k.Prong) {
			continue
		}
		v := q.Value(d)
		for i, thr := range a.grids.Grid(d) {
			if !d.Pass(v, thr) {
				continue
			}
			if err := a.store.FillCut(k, d, bin, i+1); err != nil {
				return err
			}
		}
	}
	return nil
}
