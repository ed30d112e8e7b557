package cuts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPtAxis(t *testing.T) {
	a, err := NewPtAxis(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, a.NBins())
	assert.Equal(t, []float64{0, 0, 2, 5, 20}, a.Edges())

	tests := []struct {
		pt   float64
		want int
	}{
		{-1, 0},
		{0, 2}, // bin 1 has zero width
		{1.5, 2},
		{2, 3},
		{4.99, 3},
		{5, 4},
		{19.9, 4},
		{20, 5},
		{100, 5},
		{math.NaN(), 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Bin(tt.pt), "pt=%v", tt.pt)
	}
}

func TestPtAxisRange(t *testing.T) {
	a, err := NewPtAxis([]float64{1, 2, 4})
	require.NoError(t, err)

	lo, hi := a.Range(0)
	assert.True(t, math.IsInf(lo, -1))
	assert.Equal(t, 1.0, hi)

	lo, hi = a.Range(2)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)

	lo, hi = a.Range(3)
	assert.Equal(t, 4.0, lo)
	assert.True(t, math.IsInf(hi, 1))
}

func TestNewPtAxisErrors(t *testing.T) {
	bad := map[string][]float64{
		"too few":    {1},
		"empty":      {},
		"decreasing": {0, 5, 2},
		"nan":        {0, math.NaN()},
		"inf":        {0, math.Inf(1)},
		"flat":       {3, 3, 3},
	}
	for name, edges := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := NewPtAxis(edges)
			require.ErrorIs(t, err, ErrBadBinning)
		})
	}
}

func TestPtAxisCopiesEdges(t *testing.T) {
	edges := []float64{0, 1, 2}
	a, err := NewPtAxis(edges)
	require.NoError(t, err)
	edges[1] = 10
	assert.Equal(t, 2, a.Bin(1.5))

	out := a.Edges()
	out[0] = -5
	assert.Equal(t, 0, a.Bin(-1))
}
