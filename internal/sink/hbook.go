package sink

import (
	"go-hep.org/x/hep/hbook"

	"hf-selopt/internal/cuts"
	"hf-selopt/internal/store"
)

// Histogram is one counter converted to an hbook histogram.
type Histogram struct {
	Name string
	H1   *hbook.H1D
	H2   *hbook.H2D
}

// ToHbook converts every counter of st to hbook histograms. Zero-width pT
// bins are dropped from the axis since hbook needs strictly increasing
// edges; they can never hold entries. The threshold axis is quantised as
// 0.5..N+0.5 so bin i holds threshold index i. Every stored count is
// replayed as unit-weight entries so bin errors come out as sqrt(n).
func ToHbook(st *store.Store) []Histogram {
	axis := st.Axis()
	grids := st.Grids()
	edges := dedupEdges(axis.Edges())

	var out []Histogram
	for _, f := range st.Families() {
		name := f.Key.Name()
		h1 := hbook.NewH1DFromEdges(edges)
		h1.Ann["name"] = name
		h1.Ann["title"] = name
		for b := 0; b < f.Yield.Len(); b++ {
			if n := f.Yield.Count(b); n > 0 {
				x := binCenter(axis, b)
				for i := uint64(0); i < n; i++ {
					h1.Fill(x, 1)
				}
			}
		}
		out = append(out, Histogram{Name: name, H1: h1})

		for _, d := range cuts.Dimensions() {
			h := f.Cuts[d]
			if h == nil {
				continue
			}
			name := f.Key.CutName(d)
			n := grids.Len(d)
			yedges := make([]float64, n+1)
			for i := range yedges {
				yedges[i] = float64(i) + 0.5
			}
			h2 := hbook.NewH2DFromEdges(edges, yedges)
			h2.Ann["name"] = name
			h2.Ann["title"] = d.Title()
			for x := 0; x < h.NX(); x++ {
				for y := 1; y < h.NY(); y++ {
					if c := h.Count(x, y); c > 0 {
						px, py := binCenter(axis, x), float64(y)
						for i := uint64(0); i < c; i++ {
							h2.Fill(px, py, 1)
						}
					}
				}
			}
			out = append(out, Histogram{Name: name, H2: h2})
		}
	}
	return out
}

func dedupEdges(edges []float64) []float64 {
	out := edges[:1]
	for _, e := range edges[1:] {
		if e > out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// binCenter returns an x inside storage bin b, outside the axis for
// under- and overflow.
func binCenter(axis *cuts.PtAxis, b int) float64 {
	lo, hi := axis.Range(b)
	switch {
	case b <= 0:
		return hi - 1
	case b > axis.NBins():
		return lo + 1
	}
	return 0.5 * (lo + hi)
}
