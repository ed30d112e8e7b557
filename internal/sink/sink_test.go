package sink

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"

	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
	"hf-selopt/internal/scan"
	"hf-selopt/internal/store"
)

var promptD0 = store.Key{Prong: model.Prong2, Class: model.ClassPrompt, Channel: model.D0ToPiK}

func filledStore(t *testing.T) *store.Store {
	t.Helper()
	axis, err := cuts.NewPtAxis(nil)
	require.NoError(t, err)
	st := store.New(cuts.DefaultRegistry(), axis)
	require.NoError(t, st.FillYield(promptD0, 3))
	require.NoError(t, st.FillYield(promptD0, 3))
	require.NoError(t, st.FillCut(promptD0, cuts.CosPointing, 3, 2))
	return st
}

func TestEncodeCountersCSV(t *testing.T) {
	st := filledStore(t)
	var buf bytes.Buffer
	require.NoError(t, EncodeCountersCSV(&buf, st))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "prong", "class", "channel", "dimension", "pt_bin", "pt_low", "pt_high", "threshold_index", "threshold", "count"}, rows[0])
	assert.Len(t, rows, 1+len(st.Snapshot()))

	var yield, cut []string
	for _, r := range rows[1:] {
		if r[0] == "hPromptVsPtD0ToPiK" && r[5] == "3" {
			yield = r
		}
		if r[0] == "hPromptCospVsPtD0ToPiK" && r[5] == "3" && r[8] == "2" {
			cut = r
		}
	}
	require.NotNil(t, yield)
	assert.Equal(t, []string{"hPromptVsPtD0ToPiK", "2", "Prompt", "D0ToPiK", "", "3", "2", "5", "0", "", "2"}, yield)
	require.NotNil(t, cut)
	assert.Equal(t, []string{"hPromptCospVsPtD0ToPiK", "2", "Prompt", "D0ToPiK", "cosp", "3", "2", "5", "2", "0.75", "1"}, cut)

	// underflow row
	assert.Equal(t, "-inf", rows[1][6])
}

func TestToHbook(t *testing.T) {
	st := filledStore(t)
	hs := ToHbook(st)
	// one H1 per family plus one H2 per applicable dimension
	assert.Len(t, hs, 9*(1+5)+15*(1+4))

	byName := map[string]Histogram{}
	for _, h := range hs {
		byName[h.Name] = h
	}
	h1 := byName["hPromptVsPtD0ToPiK"].H1
	require.NotNil(t, h1)
	assert.Equal(t, 3, h1.Len()) // zero-width bin dropped
	assert.Equal(t, 2.0, h1.SumW())

	h2 := byName["hPromptCospVsPtD0ToPiK"].H2
	require.NotNil(t, h2)
	assert.Equal(t, 1.0, h2.SumW())
	assert.Equal(t, 0.5, h2.YMin())
	assert.Equal(t, 15.5, h2.YMax())
}

func TestToHbookUnitWeights(t *testing.T) {
	axis, err := cuts.NewPtAxis(nil)
	require.NoError(t, err)
	st := store.New(cuts.DefaultRegistry(), axis)
	for i := 0; i < 100; i++ {
		require.NoError(t, st.FillYield(promptD0, 3))
	}
	for i := 0; i < 9; i++ {
		require.NoError(t, st.FillCut(promptD0, cuts.CosPointing, 3, 4))
	}

	byName := map[string]Histogram{}
	for _, h := range ToHbook(st) {
		byName[h.Name] = h
	}

	h1 := byName["hPromptVsPtD0ToPiK"].H1
	require.NotNil(t, h1)
	assert.Equal(t, int64(100), h1.Entries())
	assert.Equal(t, 100.0, h1.SumW())
	assert.Equal(t, h1.SumW(), h1.SumW2())
	var filled int
	for _, b := range h1.Binning.Bins {
		if b.SumW() == 0 {
			continue
		}
		filled++
		assert.InDelta(t, 10.0, b.ErrW(), 1e-12)
	}
	assert.Equal(t, 1, filled)

	h2 := byName["hPromptCospVsPtD0ToPiK"].H2
	require.NotNil(t, h2)
	assert.Equal(t, int64(9), h2.Entries())
	assert.Equal(t, 9.0, h2.SumW())
	assert.Equal(t, h2.SumW(), h2.SumW2())
}

func TestDedupEdges(t *testing.T) {
	assert.Equal(t, []float64{0, 2, 5, 20}, dedupEdges([]float64{0, 0, 2, 5, 20}))
	assert.Equal(t, []float64{1, 2}, dedupEdges([]float64{1, 2, 2}))
}

func TestWriteYODA(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYODA(&buf, filledStore(t)))
	out := buf.String()
	assert.Contains(t, out, "BEGIN YODA_HISTO1D")
	assert.Contains(t, out, "hPromptVsPtD0ToPiK")
	assert.Contains(t, out, "hBkgMinTrackPtVsPt3Prong")
	assert.Equal(t, 9*(1+5)+15*(1+4), strings.Count(out, "BEGIN YODA"))
}

func TestWriteROOT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counters.root")
	require.NoError(t, WriteROOT(path, filledStore(t)))

	f, err := riofs.Open(path)
	require.NoError(t, err)
	defer f.Close()

	obj, err := f.Get("hPromptVsPtD0ToPiK")
	require.NoError(t, err)
	h1, ok := obj.(rhist.H1)
	require.True(t, ok)
	assert.Equal(t, 2.0, h1.SumW())

	obj, err = f.Get("hPromptCospVsPtD0ToPiK")
	require.NoError(t, err)
	_, ok = obj.(rhist.H2)
	assert.True(t, ok)
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	res := &scan.Result{
		Store:    filledStore(t),
		Stats:    scan.Stats{Read: 3, Processed: 2, Scans: 4, Skipped: map[scan.SkipReason]int64{scan.SkipMalformed: 1}},
		Complete: true,
	}
	require.NoError(t, db.SaveRun("run-1", res))

	runs, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, "run-1", r.ID)
	assert.Equal(t, int64(3), r.Read)
	assert.Equal(t, int64(2), r.Processed)
	assert.Equal(t, int64(1), r.Skipped)
	assert.True(t, r.Complete)
	assert.Equal(t, "[0 0 2 5 20]", r.PtEdges)

	rows, err := db.LoadCounters("run-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CounterRow{Name: "hPromptVsPtD0ToPiK", Prong: 2, Class: "Prompt", Channel: "D0ToPiK", PtBin: 3, Count: 2}, rows[0])
	assert.Equal(t, CounterRow{Name: "hPromptCospVsPtD0ToPiK", Prong: 2, Class: "Prompt", Channel: "D0ToPiK", Dimension: "cosp", PtBin: 3, ThresholdIndex: 2, Count: 1}, rows[1])

	// duplicate run ids are rejected and leave no partial rows
	require.Error(t, db.SaveRun("run-1", res))
	rows, err = db.LoadCounters("run-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
