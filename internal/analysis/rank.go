package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"hf-selopt/internal/model"
)

// RankedThreshold is a threshold with its figure of merit.
type RankedThreshold struct {
	ThresholdPoint
	// Significance is S/sqrt(S+B) with S the prompt and B the background
	// pass count; zero when both are zero.
	Significance float64
	// PromptFraction is S/(S+B).
	PromptFraction float64
}

func score(p ThresholdPoint) RankedThreshold {
	s := p.Pass[model.ClassPrompt]
	b := p.Pass[model.ClassBackground]
	r := RankedThreshold{ThresholdPoint: p}
	if s+b > 0 {
		r.Significance = s / math.Sqrt(s+b)
		r.PromptFraction = s / (s + b)
	}
	return r
}

// RankThresholds scores every threshold of the curve and sorts descending by
// significance. Ties keep threshold order.
func RankThresholds(c *Curve) []RankedThreshold {
	out := make([]RankedThreshold, len(c.Points))
	for i, p := range c.Points {
		out[i] = score(p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Significance > out[j].Significance
	})
	return out
}

// Best returns the position in c.Points with the highest significance, or -1
// for an empty curve.
func Best(c *Curve) int {
	if len(c.Points) == 0 {
		return -1
	}
	sig := make([]float64, len(c.Points))
	for i, p := range c.Points {
		sig[i] = score(p).Significance
	}
	return floats.MaxIdx(sig)
}
