package scan

import (
	"hf-selopt/internal/model"
	"hf-selopt/internal/store"
)

// SkipReason says why a candidate did not reach the scan.
// Keep these values stable; they are used as metric labels.
type SkipReason string

const (
	SkipUnresolvedTrack SkipReason = "unresolved_track"
	// SkipMalformed covers bad prong, track count and pT. Negative or NaN pT
	// candidates land here and never reach the pT underflow bin, which a
	// plain histogram fill would use for them.
	SkipMalformed SkipReason = "malformed"
)

// Stats tallies what happened to the input stream.
type Stats struct {
	// Read counts candidates pulled from the source.
	Read int64
	// Processed counts candidates that were classified (with or without a
	// set decay bit).
	Processed int64
	// Scans counts Accumulate calls, per-channel and summary.
	Scans   int64
	ByProng map[model.Prong]int64
	Skipped map[SkipReason]int64
}

func newStats() Stats {
	return Stats{
		ByProng: map[model.Prong]int64{},
		Skipped: map[SkipReason]int64{},
	}
}

func (s *Stats) add(o Stats) {
	s.Read += o.Read
	s.Processed += o.Processed
	s.Scans += o.Scans
	for k, v := range o.ByProng {
		s.ByProng[k] += v
	}
	for k, v := range o.Skipped {
		s.Skipped[k] += v
	}
}

// TotalSkipped sums every skip reason.
func (s Stats) TotalSkipped() int64 {
	var n int64
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Result is the outcome of one pass. Complete is false when the source or
// the store failed before the stream ended; counters then hold whatever was
// accumulated up to that point.
type Result struct {
	Store    *store.Store
	Stats    Stats
	Complete bool
}
