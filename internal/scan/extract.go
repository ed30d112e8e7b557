package scan

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
)

var ErrTrackCount = errors.New("track count does not match prong multiplicity")

// Quantities are the scalars each cut dimension is tested against.
type Quantities struct {
	Pt          float64
	CosPointing float64
	DecayLength float64
	ImpParProd  float64

	// AbsDCA and TrackPt are sorted ascending.
	AbsDCA  []float64
	TrackPt []float64
}

// Extract derives the scan quantities from a candidate and its resolved
// daughters, given in the candidate's track order.
func Extract(c model.Candidate, tracks []model.Track) (Quantities, error) {
	if len(tracks) != int(c.Prong) || len(tracks) == 0 {
		return Quantities{}, fmt.Errorf("%w: %s with %d tracks", ErrTrackCount, c.Prong, len(tracks))
	}
	q := Quantities{
		Pt:          c.Pt,
		CosPointing: c.CosPointing,
		DecayLength: c.DecayLength,
		AbsDCA:      make([]float64, len(tracks)),
		TrackPt:     make([]float64, len(tracks)),
	}
	if c.Prong == model.Prong2 {
		q.ImpParProd = c.ImpParProd
	}
	for i, t := range tracks {
		q.AbsDCA[i] = math.Abs(t.DCAxy)
		q.TrackPt[i] = t.Pt
	}
	sort.Float64s(q.AbsDCA)
	sort.Float64s(q.TrackPt)
	return q, nil
}

// Value returns the quantity compared against the grid of d.
func (q Quantities) Value(d cuts.Dimension) float64 {
	switch d {
	case cuts.CosPointing:
		return q.CosPointing
	case cuts.DecayLength:
		return q.DecayLength
	case cuts.ImpParProd:
		return q.ImpParProd
	case cuts.MinDCAxy:
		return q.AbsDCA[0]
	case cuts.MinTrackPt:
		return q.TrackPt[0]
	}
	return math.NaN()
}
