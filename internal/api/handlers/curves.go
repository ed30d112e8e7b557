package handlers

import (
	"net/http"
	"strconv"

	"hf-selopt/internal/analysis"
	"hf-selopt/internal/api/models"
	"hf-selopt/internal/model"

	"github.com/gin-gonic/gin"
)

// GetEfficiency handles GET /api/v1/scan/:id/efficiency
func (h *ScanHandler) GetEfficiency(c *gin.Context) {
	run, curve, ok := h.curve(c)
	if !ok {
		return
	}
	resp := models.EfficiencyResponse{
		ID:        run.ID,
		Prong:     int(curve.Prong),
		Channel:   model.ChannelName(curve.Prong, curve.Channel),
		Dimension: curve.Dimension.Key(),
		Yield:     byClass(curve.Yield),
		Points:    make([]models.EfficiencyPoint, len(curve.Points)),
	}
	for i, p := range curve.Points {
		resp.Points[i] = models.EfficiencyPoint{
			Index:      p.Index,
			Threshold:  p.Threshold,
			Pass:       byClass(p.Pass),
			Efficiency: byClass(p.Efficiency),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RankThresholds handles GET /api/v1/scan/:id/rank
func (h *ScanHandler) RankThresholds(c *gin.Context) {
	run, curve, ok := h.curve(c)
	if !ok {
		return
	}
	ranked := analysis.RankThresholds(curve)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		badRequest(c, "INVALID_REQUEST", "limit must be an integer")
		return
	}
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:           i + 1,
			Index:          r.Index,
			Threshold:      r.Threshold,
			PromptPass:     r.Pass[model.ClassPrompt],
			BkgPass:        r.Pass[model.ClassBackground],
			Significance:   r.Significance,
			PromptFraction: r.PromptFraction,
		}
	}
	resp := models.RankResponse{ID: run.ID, Rankings: rankings}
	if best := analysis.Best(curve); best >= 0 {
		resp.BestIndex = curve.Points[best].Index
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScanHandler) curve(c *gin.Context) (*Run, *analysis.Curve, bool) {
	run, ok := h.lookup(c)
	if !ok {
		return nil, nil, false
	}
	var q models.CurveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return nil, nil, false
	}
	p, ch, d, err := analysis.ParseSelector(q.Prong, q.Channel, q.Dimension)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return nil, nil, false
	}
	curve, err := analysis.Efficiencies(run.Result.Store, p, ch, d)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return nil, nil, false
	}
	return run, curve, true
}

func byClass(v [model.NumClasses]float64) map[string]float64 {
	out := make(map[string]float64, model.NumClasses)
	for _, cls := range model.Classes() {
		out[cls.String()] = v[cls]
	}
	return out
}
