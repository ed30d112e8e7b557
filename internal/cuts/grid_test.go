package cuts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hf-selopt/internal/model"
)

func TestDefaultGrids(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []float64{0.70, 0.75, 0.80, 0.85, 0.88, 0.90, 0.92, 0.93, 0.94, 0.95, 0.96, 0.97, 0.98, 0.99, 0.995}, r.Grid(CosPointing))
	assert.Equal(t, []float64{0, 0.005, 0.01, 0.015, 0.02, 0.025, 0.03, 0.04, 0.05, 0.075, 0.1}, r.Grid(DecayLength))
	assert.Equal(t, []float64{-0.00005, -0.00004, -0.00003, -0.00002, -0.00001, 0, 0.00001, 0.00002, 0.00003, 0.00004, 0.00005}, r.Grid(ImpParProd))
	assert.Equal(t, []float64{0, 0.0005, 0.001, 0.0015, 0.0020, 0.0025, 0.0030, 0.0040, 0.0050}, r.Grid(MinDCAxy))
	assert.Equal(t, []float64{0.30, 0.35, 0.40, 0.45, 0.50, 0.55, 0.60}, r.Grid(MinTrackPt))

	assert.Equal(t, 15, r.Len(CosPointing))
	assert.Equal(t, 11, r.Len(DecayLength))
	assert.Equal(t, 11, r.Len(ImpParProd))
	assert.Equal(t, 9, r.Len(MinDCAxy))
	assert.Equal(t, 7, r.Len(MinTrackPt))
}

func TestDefaultReturnsCopy(t *testing.T) {
	g := Default(CosPointing)
	g[0] = 42
	assert.Equal(t, 0.70, DefaultCosPointing[0])

	r := DefaultRegistry()
	v := r.Values(MinTrackPt)
	v[0] = 42
	assert.Equal(t, 0.30, r.Grid(MinTrackPt)[0])
}

func TestNewRegistry(t *testing.T) {
	t.Run("custom grid replaces default", func(t *testing.T) {
		var g Grids
		g[CosPointing] = []float64{0.9, 0.99}
		r, err := NewRegistry(g)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.9, 0.99}, r.Grid(CosPointing))
		assert.Equal(t, DefaultDecayLength, r.Grid(DecayLength))
	})

	t.Run("empty grid rejected", func(t *testing.T) {
		var g Grids
		g[MinDCAxy] = []float64{}
		_, err := NewRegistry(g)
		require.ErrorIs(t, err, ErrEmptyGrid)
		assert.Contains(t, err.Error(), "min_dca_xy")
	})

	t.Run("non-finite rejected", func(t *testing.T) {
		var g Grids
		g[DecayLength] = []float64{0.01, math.NaN()}
		_, err := NewRegistry(g)
		require.Error(t, err)

		g[DecayLength] = []float64{math.Inf(1)}
		_, err = NewRegistry(g)
		require.Error(t, err)
	})

	t.Run("caller slice is not retained", func(t *testing.T) {
		vals := []float64{0.1, 0.2}
		var g Grids
		g[MinTrackPt] = vals
		r, err := NewRegistry(g)
		require.NoError(t, err)
		vals[0] = 9
		assert.Equal(t, 0.1, r.Grid(MinTrackPt)[0])
	})
}

func TestThresholdIndex(t *testing.T) {
	r := DefaultRegistry()

	v, ok := r.Threshold(CosPointing, 1)
	require.True(t, ok)
	assert.Equal(t, 0.70, v)

	v, ok = r.Threshold(CosPointing, 15)
	require.True(t, ok)
	assert.Equal(t, 0.995, v)

	_, ok = r.Threshold(CosPointing, 0)
	assert.False(t, ok)
	_, ok = r.Threshold(CosPointing, 16)
	assert.False(t, ok)
}

func TestDimensionPass(t *testing.T) {
	tests := []struct {
		name string
		d    Dimension
		v    float64
		thr  float64
		want bool
	}{
		{"cosp above", CosPointing, 0.99, 0.98, true},
		{"cosp equal fails", CosPointing, 0.98, 0.98, false},
		{"decay length equal fails", DecayLength, 0.03, 0.03, false},
		{"decay length zero threshold", DecayLength, 0.0001, 0, true},
		{"imp par below", ImpParProd, -0.00003, -0.00002, true},
		{"imp par equal fails", ImpParProd, 0, 0, false},
		{"imp par above fails", ImpParProd, 0.00001, 0, false},
		{"min dca above", MinDCAxy, 0.002, 0.0015, true},
		{"min track pt below", MinTrackPt, 0.29, 0.30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Pass(tt.v, tt.thr))
		})
	}
}

func TestDimensionNames(t *testing.T) {
	names := []string{"Cosp", "DecLen", "ImpParProd", "MinDCAxy", "MinTrackPt"}
	for i, d := range Dimensions() {
		assert.Equal(t, names[i], d.String())

		byName, ok := ParseDimension(d.String())
		require.True(t, ok)
		assert.Equal(t, d, byName)

		byKey, ok := ParseDimension(d.Key())
		require.True(t, ok)
		assert.Equal(t, d, byKey)
	}
	_, ok := ParseDimension("mass")
	assert.False(t, ok)
	assert.Equal(t, "Dimension(7)", Dimension(7).String())
}

func TestAppliesTo(t *testing.T) {
	for _, d := range Dimensions() {
		assert.True(t, d.AppliesTo(model.Prong2), d.String())
	}
	assert.False(t, ImpParProd.AppliesTo(model.Prong3))
	assert.True(t, CosPointing.AppliesTo(model.Prong3))
	assert.Equal(t, Less, ImpParProd.Comparison())
	assert.Equal(t, Greater, MinTrackPt.Comparison())
}
