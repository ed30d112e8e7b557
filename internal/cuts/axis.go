package cuts

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrBadBinning = errors.New("invalid pT binning")

// DefaultPtEdges is the historical pT binning. The repeated leading 0 yields
// a zero-width first bin that never fills; it is kept as-is so counters stay
// comparable with earlier outputs.
var DefaultPtEdges = []float64{0, 0., 2., 5., 20.}

// PtAxis is a variable-width binning over candidate pT.
// Bin 0 is underflow, bins 1..N cover [edges[i-1], edges[i]), bin N+1 is overflow.
type PtAxis struct {
	edges []float64
}

func NewPtAxis(edges []float64) (*PtAxis, error) {
	if edges == nil {
		edges = DefaultPtEdges
	}
	if len(edges) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 edges, got %d", ErrBadBinning, len(edges))
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, fmt.Errorf("%w: edge %d is not finite", ErrBadBinning, i)
		}
		if i > 0 && e < edges[i-1] {
			return nil, fmt.Errorf("%w: edges decrease at index %d", ErrBadBinning, i)
		}
	}
	if edges[len(edges)-1] == edges[0] {
		return nil, fmt.Errorf("%w: axis has zero extent", ErrBadBinning)
	}
	return &PtAxis{edges: append([]float64(nil), edges...)}, nil
}

// NBins is the number of in-range bins.
func (a *PtAxis) NBins() int { return len(a.edges) - 1 }

// Edges returns a copy of the bin edges.
func (a *PtAxis) Edges() []float64 { return append([]float64(nil), a.edges...) }

// Bin returns the storage index for x, including under- and overflow.
func (a *PtAxis) Bin(x float64) int {
	if math.IsNaN(x) {
		return len(a.edges)
	}
	// first edge strictly above x
	return sort.Search(len(a.edges), func(i int) bool { return a.edges[i] > x })
}

// Range returns the [lo, hi) bounds of storage bin b; under- and overflow
// are open towards -Inf and +Inf.
func (a *PtAxis) Range(b int) (lo, hi float64) {
	switch {
	case b <= 0:
		return math.Inf(-1), a.edges[0]
	case b >= len(a.edges):
		return a.edges[len(a.edges)-1], math.Inf(1)
	}
	return a.edges[b-1], a.edges[b]
}
