package models

import "hf-selopt/internal/model"

// ScanRequest represents the request body for running a scan.
// Exactly one of Sample and SampleFile must be set.
type ScanRequest struct {
	Sample     *model.Sample `json:"sample,omitempty"`
	SampleFile string        `json:"sample_file,omitempty"` // file name under SAMPLE_DIR
	Config     ScanConfig    `json:"config"`
	Options    ScanOptions   `json:"options,omitempty"`
}

// ScanConfig contains cut grids and binning. Omitted grids use the defaults.
type ScanConfig struct {
	CutsFile  string     `json:"cuts_file,omitempty"` // preset id under CUTS_DIR
	Cuts      CutsConfig `json:"cuts,omitempty"`
	PtBinning []float64  `json:"pt_binning,omitempty"`
}

// CutsConfig lists thresholds per dimension.
type CutsConfig struct {
	CosPointing []float64 `json:"cosp,omitempty"`
	DecayLength []float64 `json:"decay_length,omitempty"`
	ImpParProd  []float64 `json:"imp_par_prod,omitempty"`
	MinDCAxy    []float64 `json:"min_dca_xy,omitempty"`
	MinTrackPt  []float64 `json:"min_track_pt,omitempty"`
}

// ScanOptions contains optional run parameters
type ScanOptions struct {
	Workers         int  `json:"workers,omitempty"`          // 0 or 1 = serial
	IncludeCounters bool `json:"include_counters,omitempty"` // default: false
}

// CurveQuery selects one efficiency curve.
type CurveQuery struct {
	Prong     int    `form:"prong" binding:"required"`
	Channel   string `form:"channel" binding:"required"` // e.g. D0ToPiK or 2Prong
	Dimension string `form:"dim" binding:"required"`     // e.g. cosp or Cosp
}
