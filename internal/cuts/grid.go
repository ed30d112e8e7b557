// Package cuts holds the threshold grids scanned by the selection study and
// the pT binning shared by every counter.
package cuts

import (
	"errors"
	"fmt"
	"math"

	"hf-selopt/internal/model"
)

// Dimension identifies one of the five scanned selection variables.
type Dimension int

const (
	CosPointing Dimension = iota
	DecayLength
	ImpParProd
	MinDCAxy
	MinTrackPt

	NumDimensions = 5
)

// Comparison is the fixed direction a candidate value must satisfy to pass.
type Comparison int

const (
	Greater Comparison = iota
	Less
)

var ErrEmptyGrid = errors.New("cut grid is empty")

var dimensionInfo = [NumDimensions]struct {
	name  string
	key   string
	title string
	cmp   Comparison
}{
	CosPointing: {"Cosp", "cosp", "cos(#theta_{P}) >", Greater},
	DecayLength: {"DecLen", "decay_length", "decay length (cm) >", Greater},
	ImpParProd:  {"ImpParProd", "imp_par_prod", "#it{d}_{0}#times#it{d}_{0} (cm^{2}) <", Less},
	MinDCAxy:    {"MinDCAxy", "min_dca_xy", "min track #it{d}_{0} (cm) >", Greater},
	MinTrackPt:  {"MinTrackPt", "min_track_pt", "min track #it{p}_{T} (GeV/#it{c}) >", Greater},
}

// Dimensions lists all dimensions in storage order.
func Dimensions() []Dimension {
	return []Dimension{CosPointing, DecayLength, ImpParProd, MinDCAxy, MinTrackPt}
}

// String is the short name used inside counter names (e.g. "Cosp").
func (d Dimension) String() string {
	if d < 0 || d >= NumDimensions {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionInfo[d].name
}

// Key is the snake_case name used in config files and query strings.
func (d Dimension) Key() string { return dimensionInfo[d].key }

// Title is the threshold-axis title.
func (d Dimension) Title() string { return dimensionInfo[d].title }

func (d Dimension) Comparison() Comparison { return dimensionInfo[d].cmp }

// AppliesTo reports whether the dimension is scanned for candidates of
// multiplicity p. The impact-parameter product only exists for 2-prongs.
func (d Dimension) AppliesTo(p model.Prong) bool {
	if d == ImpParProd {
		return p == model.Prong2
	}
	return true
}

// Pass applies the dimension's strict comparison of value against threshold.
func (d Dimension) Pass(value, threshold float64) bool {
	if d.Comparison() == Less {
		return value < threshold
	}
	return value > threshold
}

// ParseDimension accepts either the short name or the config key.
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range Dimensions() {
		if s == d.String() || s == d.Key() {
			return d, true
		}
	}
	return 0, false
}

// Default grids. These define the reference acceptance grid; do not edit.
var (
	DefaultCosPointing = []float64{0.70, 0.75, 0.80, 0.85, 0.88, 0.90, 0.92, 0.93, 0.94, 0.95, 0.96, 0.97, 0.98, 0.99, 0.995}
	DefaultDecayLength = []float64{0., 0.005, 0.01, 0.015, 0.02, 0.025, 0.03, 0.04, 0.05, 0.075, 0.1}
	DefaultImpParProd  = []float64{-0.00005, -0.00004, -0.00003, -0.00002, -0.00001, 0., 0.00001, 0.00002, 0.00003, 0.00004, 0.00005}
	DefaultMinDCAxy    = []float64{0., 0.0005, 0.001, 0.0015, 0.0020, 0.0025, 0.0030, 0.0040, 0.0050}
	DefaultMinTrackPt  = []float64{0.30, 0.35, 0.40, 0.45, 0.50, 0.55, 0.60}
)

// Default returns a copy of the default grid for d.
func Default(d Dimension) []float64 {
	var src []float64
	switch d {
	case CosPointing:
		src = DefaultCosPointing
	case DecayLength:
		src = DefaultDecayLength
	case ImpParProd:
		src = DefaultImpParProd
	case MinDCAxy:
		src = DefaultMinDCAxy
	case MinTrackPt:
		src = DefaultMinTrackPt
	}
	return append([]float64(nil), src...)
}

// Grids is the caller-supplied set of thresholds, indexed by Dimension.
// A nil entry selects the default grid; a non-nil empty entry is an error.
type Grids [NumDimensions][]float64

// Registry holds the validated grids for a run. It is immutable after
// construction and safe to share between workers.
type Registry struct {
	grids [NumDimensions][]float64
}

func NewRegistry(g Grids) (*Registry, error) {
	r := &Registry{}
	for _, d := range Dimensions() {
		vals := g[d]
		if vals == nil {
			r.grids[d] = Default(d)
			continue
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("%s: %w", d.Key(), ErrEmptyGrid)
		}
		for i, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s[%d]: threshold must be finite", d.Key(), i)
			}
		}
		r.grids[d] = append([]float64(nil), vals...)
	}
	return r, nil
}

// DefaultRegistry returns a registry holding every default grid.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Grids{})
	if err != nil {
		panic(err)
	}
	return r
}

// Grid returns the thresholds for d. The slice is shared; callers must not modify it.
func (r *Registry) Grid(d Dimension) []float64 { return r.grids[d] }

// Values returns a copy of the thresholds for d.
func (r *Registry) Values(d Dimension) []float64 {
	return append([]float64(nil), r.grids[d]...)
}

func (r *Registry) Len(d Dimension) int { return len(r.grids[d]) }

// Threshold returns the value behind a 1-based threshold-axis index.
func (r *Registry) Threshold(d Dimension, index int) (float64, bool) {
	if index < 1 || index > len(r.grids[d]) {
		return 0, false
	}
	return r.grids[d][index-1], true
}
