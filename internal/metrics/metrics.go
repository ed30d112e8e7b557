// Package metrics exposes scan progress as Prometheus counters.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"hf-selopt/internal/model"
	"hf-selopt/internal/scan"
)

// Collector implements scan.Observer.
type Collector struct {
	processed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	scans     *prometheus.CounterVec
	runs      *prometheus.CounterVec
}

var _ scan.Observer = (*Collector)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selopt",
			Name:      "candidates_processed_total",
			Help:      "Candidates classified, by prong multiplicity.",
		}, []string{"prong"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selopt",
			Name:      "candidates_skipped_total",
			Help:      "Candidates dropped before the scan, by reason.",
		}, []string{"prong", "reason"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selopt",
			Name:      "threshold_scans_total",
			Help:      "Per-channel and summary threshold sweeps.",
		}, []string{"prong"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selopt",
			Name:      "runs_total",
			Help:      "Scan runs, by completion status.",
		}, []string{"complete"}),
	}
	for _, col := range []prometheus.Collector{c.processed, c.skipped, c.scans, c.runs} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func prongLabel(p model.Prong) string { return strconv.Itoa(int(p)) }

func (c *Collector) Processed(p model.Prong, scans int) {
	c.processed.WithLabelValues(prongLabel(p)).Inc()
	c.scans.WithLabelValues(prongLabel(p)).Add(float64(scans))
}

func (c *Collector) Skipped(p model.Prong, reason scan.SkipReason) {
	c.skipped.WithLabelValues(prongLabel(p), string(reason)).Inc()
}

// RunFinished records the end of one run.
func (c *Collector) RunFinished(complete bool) {
	c.runs.WithLabelValues(strconv.FormatBool(complete)).Inc()
}
