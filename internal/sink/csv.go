// Package sink drains a finished store into files and databases.
package sink

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"hf-selopt/internal/model"
	"hf-selopt/internal/store"
)

func WriteCountersCSV(path string, st *store.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := EncodeCountersCSV(f, st); err != nil {
		return err
	}
	return f.Close()
}

// EncodeCountersCSV writes one row per counter cell, yield cells first for
// each family.
func EncodeCountersCSV(out io.Writer, st *store.Store) error {
	w := csv.NewWriter(out)

	header := []string{
		"name",
		"prong",
		"class",
		"channel",
		"dimension",
		"pt_bin",
		"pt_low",
		"pt_high",
		"threshold_index",
		"threshold",
		"count",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	axis := st.Axis()
	grids := st.Grids()
	for _, c := range st.Snapshot() {
		lo, hi := axis.Range(c.PtBin)
		dim, thr := "", ""
		if !c.IsYield() {
			dim = c.Dimension.Key()
			if v, ok := grids.Threshold(c.Dimension, c.Index); ok {
				thr = fmtFloat(v)
			}
		}
		row := []string{
			c.Name,
			strconv.Itoa(int(c.Key.Prong)),
			c.Key.Class.String(),
			model.ChannelName(c.Key.Prong, c.Key.Channel),
			dim,
			strconv.Itoa(c.PtBin),
			fmtFloat(lo),
			fmtFloat(hi),
			strconv.Itoa(c.Index),
			thr,
			strconv.FormatUint(c.Count, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
