package models

import "time"

// ScanResponse represents the response from a scan run
type ScanResponse struct {
	ID       string        `json:"id"`
	Status   string        `json:"status"` // "complete" or "partial"
	Summary  ScanSummary   `json:"summary"`
	Counters []CounterCell `json:"counters,omitempty"`
}

// ScanSummary contains the run tallies
type ScanSummary struct {
	Read      int64            `json:"read"`
	Processed int64            `json:"processed"`
	Scans     int64            `json:"scans"`
	ByProng   map[string]int64 `json:"by_prong"`
	Skipped   map[string]int64 `json:"skipped"`
	PtEdges   []float64        `json:"pt_edges"`
	CreatedAt time.Time        `json:"created_at"`
}

// CounterCell is one non-zero counter bin
type CounterCell struct {
	Name           string   `json:"name"`
	Prong          int      `json:"prong"`
	Class          string   `json:"class"`
	Channel        string   `json:"channel"`
	Dimension      string   `json:"dimension,omitempty"`
	PtBin          int      `json:"pt_bin"`
	ThresholdIndex int      `json:"threshold_index,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	Count          uint64   `json:"count"`
}

// CountersResponse lists counters of a stored run
type CountersResponse struct {
	ID       string        `json:"id"`
	Counters []CounterCell `json:"counters"`
}

// EfficiencyResponse is one efficiency-vs-threshold curve
type EfficiencyResponse struct {
	ID        string             `json:"id"`
	Prong     int                `json:"prong"`
	Channel   string             `json:"channel"`
	Dimension string             `json:"dimension"`
	Yield     map[string]float64 `json:"yield"`
	Points    []EfficiencyPoint  `json:"points"`
}

// EfficiencyPoint is one threshold of a curve
type EfficiencyPoint struct {
	Index      int                `json:"index"`
	Threshold  float64            `json:"threshold"`
	Pass       map[string]float64 `json:"pass"`
	Efficiency map[string]float64 `json:"efficiency"`
}

// RankResponse represents ranked thresholds for one curve
type RankResponse struct {
	ID        string    `json:"id"`
	BestIndex int       `json:"best_index"` // threshold index with the highest significance
	Rankings  []Ranking `json:"rankings"`
}

// Ranking represents one ranked threshold
type Ranking struct {
	Rank           int     `json:"rank"`
	Index          int     `json:"index"`
	Threshold      float64 `json:"threshold"`
	PromptPass     float64 `json:"prompt_pass"`
	BkgPass        float64 `json:"bkg_pass"`
	Significance   float64 `json:"significance"`
	PromptFraction float64 `json:"prompt_fraction"`
}

// GridInfo describes one cut dimension and its default grid
type GridInfo struct {
	Dimension  string    `json:"dimension"`
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	Comparison string    `json:"comparison"` // ">" or "<"
	Prongs     []int     `json:"prongs"`
	Defaults   []float64 `json:"defaults"`
}

// PresetInfo represents a cut preset file
type PresetInfo struct {
	ID    string         `json:"id"`
	File  string         `json:"file"`
	Sizes map[string]int `json:"sizes"` // grid length per dimension, 0 = default
}

// SampleInfo represents a sample file available to the server
type SampleInfo struct {
	ID   string `json:"id"`
	File string `json:"file"`
	Size int64  `json:"size"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
