package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hf-selopt/internal/api/models"
	"hf-selopt/internal/config"
	"hf-selopt/internal/data"
	"hf-selopt/internal/metrics"
	"hf-selopt/internal/model"
	"hf-selopt/internal/scan"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run is a finished scan kept for later queries.
type Run struct {
	ID        string
	Result    *scan.Result
	CreatedAt time.Time
}

// ScanHandler handles scan-related requests
type ScanHandler struct {
	runs      *data.ResultCache[*Run]
	log       *zap.Logger
	metrics   *metrics.Collector
	sampleDir string
	presetDir string
}

// NewScanHandler creates a new scan handler. m may be nil.
func NewScanHandler(runs *data.ResultCache[*Run], log *zap.Logger, m *metrics.Collector, sampleDir, presetDir string) *ScanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScanHandler{
		runs:      runs,
		log:       log,
		metrics:   m,
		sampleDir: sampleDir,
		presetDir: presetDir,
	}
}

// RunScan handles POST /api/v1/scan
func (h *ScanHandler) RunScan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	sample, err := h.loadSample(req)
	if err != nil {
		badRequest(c, "INVALID_SAMPLE", err.Error())
		return
	}

	cfg, err := h.buildConfig(req.Config)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}
	reg, err := cfg.Registry()
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}
	axis, err := cfg.PtAxis()
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	opts := []scan.Option{scan.WithLogger(h.log)}
	if h.metrics != nil {
		opts = append(opts, scan.WithObserver(h.metrics))
	}
	engine := scan.New(reg, axis, opts...)
	tracks := data.NewTrackTable(sample.Tracks)
	cands := sample.Candidates()

	var result *scan.Result
	if req.Options.Workers > 1 {
		result, err = engine.RunParallel(c.Request.Context(), data.Chunk(cands, req.Options.Workers), tracks, req.Options.Workers)
	} else {
		result, err = engine.Run(scan.NewSliceSource(cands), tracks)
	}
	if result == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SCAN_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	if h.metrics != nil {
		h.metrics.RunFinished(result.Complete)
	}

	run := &Run{ID: uuid.NewString(), Result: result, CreatedAt: time.Now().UTC()}
	h.runs.Set(run.ID, run)

	resp := models.ScanResponse{
		ID:      run.ID,
		Status:  "complete",
		Summary: buildSummary(run),
	}
	if !result.Complete {
		resp.Status = "partial"
		h.log.Warn("partial scan stored", zap.String("run_id", run.ID), zap.Error(err))
	}
	if req.Options.IncludeCounters {
		resp.Counters = convertCounters(result, true)
	}
	c.JSON(http.StatusOK, resp)
}

// GetCounters handles GET /api/v1/scan/:id/counters
func (h *ScanHandler) GetCounters(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	nonZero := true
	if v := c.Query("all"); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "INVALID_REQUEST", "all must be a boolean")
			return
		}
		nonZero = !all
	}
	c.JSON(http.StatusOK, models.CountersResponse{
		ID:       run.ID,
		Counters: convertCounters(run.Result, nonZero),
	})
}

// Helper methods

func (h *ScanHandler) lookup(c *gin.Context) (*Run, bool) {
	id := c.Param("id")
	run, ok := h.runs.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RUN_NOT_FOUND",
				Message: fmt.Sprintf("no scan run with id %q (runs expire from memory)", id),
			},
		})
		return nil, false
	}
	return run, true
}

func (h *ScanHandler) loadSample(req models.ScanRequest) (*model.Sample, error) {
	switch {
	case req.Sample != nil && req.SampleFile != "":
		return nil, errors.New("set either sample or sample_file, not both")
	case req.Sample != nil:
		return req.Sample, nil
	case req.SampleFile != "":
		name, err := safeName(req.SampleFile)
		if err != nil {
			return nil, err
		}
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		return data.LoadSampleJSON(filepath.Join(h.sampleDir, name))
	}
	return nil, errors.New("sample or sample_file is required")
}

func (h *ScanHandler) buildConfig(req models.ScanConfig) (*config.Config, error) {
	cfg := config.Default()
	cfg.PtBinning = req.PtBinning
	cfg.Cuts = config.CutsConfig{
		CosPointing: req.Cuts.CosPointing,
		DecayLength: req.Cuts.DecayLength,
		ImpParProd:  req.Cuts.ImpParProd,
		MinDCAxy:    req.Cuts.MinDCAxy,
		MinTrackPt:  req.Cuts.MinTrackPt,
	}

	// cuts_file is a preset id; presets are always looked up in the preset directory.
	if req.CutsFile != "" {
		name, err := safeName(req.CutsFile)
		if err != nil {
			return nil, err
		}
		if !strings.HasSuffix(name, ".yaml") {
			name += ".yaml"
		}
		preset, err := config.LoadCutsFile(filepath.Join(h.presetDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("cut preset %q not found", req.CutsFile)
			}
			return nil, err
		}
		cfg.Cuts = config.MergeCuts(preset, cfg.Cuts)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// safeName rejects anything that is not a bare file name.
func safeName(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return name, nil
}

func buildSummary(run *Run) models.ScanSummary {
	st := run.Result.Stats
	s := models.ScanSummary{
		Read:      st.Read,
		Processed: st.Processed,
		Scans:     st.Scans,
		ByProng:   map[string]int64{},
		Skipped:   map[string]int64{},
		PtEdges:   run.Result.Store.Axis().Edges(),
		CreatedAt: run.CreatedAt,
	}
	for p, n := range st.ByProng {
		s.ByProng[p.String()] = n
	}
	for r, n := range st.Skipped {
		s.Skipped[string(r)] = n
	}
	return s
}

func convertCounters(res *scan.Result, nonZero bool) []models.CounterCell {
	grids := res.Store.Grids()
	out := []models.CounterCell{}
	for _, cell := range res.Store.Snapshot() {
		if nonZero && cell.Count == 0 {
			continue
		}
		cc := models.CounterCell{
			Name:    cell.Name,
			Prong:   int(cell.Key.Prong),
			Class:   cell.Key.Class.String(),
			Channel: model.ChannelName(cell.Key.Prong, cell.Key.Channel),
			PtBin:   cell.PtBin,
			Count:   cell.Count,
		}
		if !cell.IsYield() {
			cc.Dimension = cell.Dimension.Key()
			cc.ThresholdIndex = cell.Index
			if v, ok := grids.Threshold(cell.Dimension, cell.Index); ok {
				cc.Threshold = &v
			}
		}
		out = append(out, cc)
	}
	return out
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
		},
	})
}
