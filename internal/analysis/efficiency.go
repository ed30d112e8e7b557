package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
	"hf-selopt/internal/store"
)

// ThresholdPoint summarises one threshold of one dimension across classes.
// Counts are summed over pT; efficiencies are relative to the class yield
// and are zero when the yield is zero.
type ThresholdPoint struct {
	Index     int
	Threshold float64

	Pass       [model.NumClasses]float64
	Efficiency [model.NumClasses]float64
}

// Curve is the efficiency-vs-threshold curve of one (prong, channel, dimension).
type Curve struct {
	Prong     model.Prong
	Channel   model.Channel
	Dimension cuts.Dimension

	Yield  [model.NumClasses]float64
	Points []ThresholdPoint
}

// Efficiencies builds the curve for one channel (or the summary slot) and
// one dimension.
func Efficiencies(st *store.Store, p model.Prong, ch model.Channel, d cuts.Dimension) (*Curve, error) {
	if !d.AppliesTo(p) {
		return nil, fmt.Errorf("%s is not scanned for %s candidates", d, p)
	}
	grid := st.Grids().Grid(d)
	c := &Curve{Prong: p, Channel: ch, Dimension: d, Points: make([]ThresholdPoint, len(grid))}
	for i, thr := range grid {
		c.Points[i] = ThresholdPoint{Index: i + 1, Threshold: thr}
	}
	for _, cls := range model.Classes() {
		f := st.Family(store.Key{Prong: p, Class: cls, Channel: ch})
		if f == nil {
			return nil, fmt.Errorf("no counters for %s channel %d", p, ch)
		}
		yield := make([]float64, f.Yield.Len())
		for b := range yield {
			yield[b] = float64(f.Yield.Count(b))
		}
		c.Yield[cls] = floats.Sum(yield)

		pass := f.Cuts[d].ProjectY()
		for i := range c.Points {
			n := pass[i+1]
			c.Points[i].Pass[cls] = n
			if c.Yield[cls] > 0 {
				c.Points[i].Efficiency[cls] = n / c.Yield[cls]
			}
		}
	}
	return c, nil
}

// ParseSelector validates a (prong, channel, dimension) triple given as
// user input.
func ParseSelector(prong int, channel, dim string) (model.Prong, model.Channel, cuts.Dimension, error) {
	p := model.Prong(prong)
	if !p.Valid() {
		return 0, 0, 0, fmt.Errorf("prong must be 2 or 3, got %d", prong)
	}
	ch, ok := model.ParseChannel(p, channel)
	if !ok {
		return 0, 0, 0, fmt.Errorf("unknown %s channel %q", p, channel)
	}
	d, ok := cuts.ParseDimension(dim)
	if !ok {
		return 0, 0, 0, fmt.Errorf("unknown cut dimension %q", dim)
	}
	if !d.AppliesTo(p) {
		return 0, 0, 0, fmt.Errorf("%s is not scanned for %s candidates", d.Key(), p)
	}
	return p, ch, d, nil
}
