package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	axis, err := cuts.NewPtAxis(nil)
	require.NoError(t, err)
	return New(cuts.DefaultRegistry(), axis)
}

func TestKeyNames(t *testing.T) {
	k := Key{Prong: model.Prong2, Class: model.ClassPrompt, Channel: model.D0ToPiK}
	assert.Equal(t, "hPromptVsPtD0ToPiK", k.Name())
	assert.Equal(t, "hPromptCospVsPtD0ToPiK", k.CutName(cuts.CosPointing))
	assert.False(t, k.IsSummary())

	s := Key{Prong: model.Prong3, Class: model.ClassBackground, Channel: model.SummaryChannel(model.Prong3)}
	assert.Equal(t, "hBkgVsPt3Prong", s.Name())
	assert.Equal(t, "hBkgMinDCAxyVsPt3Prong", s.CutName(cuts.MinDCAxy))
	assert.True(t, s.IsSummary())
}

func TestAllKeysMatchIndex(t *testing.T) {
	keys := AllKeys()
	require.Len(t, keys, 3*3+3*5)
	names := map[string]bool{}
	for i, k := range keys {
		got, ok := index(k)
		require.True(t, ok, "%+v", k)
		assert.Equal(t, i, got)
		assert.False(t, names[k.Name()], "duplicate name %s", k.Name())
		names[k.Name()] = true
	}

	_, ok := index(Key{Prong: model.Prong2, Class: model.ClassPrompt, Channel: 3})
	assert.False(t, ok)
	_, ok = index(Key{Prong: 4, Class: model.ClassPrompt})
	assert.False(t, ok)
}

func TestStoreShape(t *testing.T) {
	st := newTestStore(t)
	k2 := Key{Prong: model.Prong2, Class: model.ClassPrompt, Channel: model.D0ToPiK}
	k3 := Key{Prong: model.Prong3, Class: model.ClassBackground, Channel: model.LcToPKPi}

	f2 := st.Family(k2)
	require.NotNil(t, f2)
	assert.Equal(t, 6, f2.Yield.Len())
	require.NotNil(t, f2.Cuts[cuts.ImpParProd])
	assert.Equal(t, 12, f2.Cuts[cuts.ImpParProd].NY())
	assert.Equal(t, 16, f2.Cuts[cuts.CosPointing].NY())

	f3 := st.Family(k3)
	require.NotNil(t, f3)
	assert.Nil(t, f3.Cuts[cuts.ImpParProd])
	assert.Equal(t, 8, f3.Cuts[cuts.MinTrackPt].NY())

	assert.Nil(t, st.Family(Key{Prong: model.Prong2, Channel: 7}))
}

func TestFill(t *testing.T) {
	st := newTestStore(t)
	k := Key{Prong: model.Prong3, Class: model.ClassNonPrompt, Channel: model.DsToPiKK}

	require.NoError(t, st.FillYield(k, 3))
	require.NoError(t, st.FillYield(k, 3))
	require.NoError(t, st.FillCut(k, cuts.DecayLength, 3, 1))
	assert.Equal(t, uint64(2), st.Family(k).Yield.Count(3))
	assert.Equal(t, uint64(1), st.Family(k).Cuts[cuts.DecayLength].Count(3, 1))

	err := st.FillCut(k, cuts.ImpParProd, 3, 1)
	assert.Error(t, err)
	err = st.FillYield(Key{Prong: 5}, 0)
	assert.Error(t, err)
}

func TestCounterOverflow(t *testing.T) {
	st := newTestStore(t)
	k := Key{Prong: model.Prong2, Class: model.ClassBackground, Channel: model.JpsiToEE}
	f := st.Family(k)
	f.Yield.counts[2] = math.MaxUint64

	err := st.FillYield(k, 2)
	require.ErrorIs(t, err, ErrCounterOverflow)
	assert.Equal(t, uint64(math.MaxUint64), f.Yield.Count(2))
}

func TestMerge(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	k := Key{Prong: model.Prong2, Class: model.ClassPrompt, Channel: model.SummaryChannel(model.Prong2)}

	require.NoError(t, a.FillYield(k, 2))
	require.NoError(t, b.FillYield(k, 2))
	require.NoError(t, b.FillCut(k, cuts.MinTrackPt, 4, 7))
	require.NoError(t, a.Merge(b))

	assert.Equal(t, uint64(2), a.Family(k).Yield.Count(2))
	assert.Equal(t, uint64(1), a.Family(k).Cuts[cuts.MinTrackPt].Count(4, 7))
	// b unchanged
	assert.Equal(t, uint64(1), b.Family(k).Yield.Count(2))
}

func TestMergeRejectsDifferentShapes(t *testing.T) {
	a := newTestStore(t)
	axis, err := cuts.NewPtAxis([]float64{0, 10})
	require.NoError(t, err)
	b := New(cuts.DefaultRegistry(), axis)
	assert.Error(t, a.Merge(b))

	var g cuts.Grids
	g[cuts.CosPointing] = []float64{0.9}
	reg, err := cuts.NewRegistry(g)
	require.NoError(t, err)
	c := New(reg, a.Axis())
	assert.Error(t, a.Merge(c))
	assert.Error(t, a.Merge(nil))
}

func TestMergeOverflowLeavesHistogram(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	k := AllKeys()[0]
	a.Family(k).Yield.counts[1] = math.MaxUint64
	b.Family(k).Yield.counts[1] = 1
	b.Family(k).Yield.counts[2] = 5

	require.ErrorIs(t, a.Merge(b), ErrCounterOverflow)
	assert.Equal(t, uint64(0), a.Family(k).Yield.Count(2))
}

func TestSnapshot(t *testing.T) {
	st := newTestStore(t)
	k := Key{Prong: model.Prong2, Class: model.ClassPrompt, Channel: model.D0ToPiK}
	require.NoError(t, st.FillCut(k, cuts.CosPointing, 2, 15))

	cells := st.Snapshot()
	var found bool
	for _, c := range cells {
		if !c.IsYield() {
			assert.NotZero(t, c.Index, "reserved index leaked for %s", c.Name)
		}
		if c.Name == "hPromptCospVsPtD0ToPiK" && c.PtBin == 2 && c.Index == 15 {
			assert.Equal(t, uint64(1), c.Count)
			found = true
		}
	}
	assert.True(t, found)

	// 2-prong: 9 families * (6 yield + 6*(15+11+11+9+7))
	// 3-prong: 15 families * (6 yield + 6*(15+11+9+7))
	assert.Len(t, cells, 9*(6+6*53)+15*(6+6*42))
}

func TestProjectY(t *testing.T) {
	h := newHist2D(3, 4)
	require.NoError(t, h.Inc(0, 1))
	require.NoError(t, h.Inc(2, 1))
	require.NoError(t, h.Inc(1, 3))
	assert.Equal(t, []float64{0, 2, 0, 1}, h.ProjectY())
}
