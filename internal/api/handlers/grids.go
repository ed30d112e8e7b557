package handlers

import (
	"net/http"

	"hf-selopt/internal/api/models"
	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"

	"github.com/gin-gonic/gin"
)

// ListGrids handles GET /api/v1/grids
func ListGrids(c *gin.Context) {
	grids := make([]models.GridInfo, 0, cuts.NumDimensions)
	for _, d := range cuts.Dimensions() {
		info := models.GridInfo{
			Dimension:  d.String(),
			Key:        d.Key(),
			Title:      d.Title(),
			Comparison: ">",
			Defaults:   cuts.Default(d),
		}
		if d.Comparison() == cuts.Less {
			info.Comparison = "<"
		}
		for _, p := range []model.Prong{model.Prong2, model.Prong3} {
			if d.AppliesTo(p) {
				info.Prongs = append(info.Prongs, int(p))
			}
		}
		grids = append(grids, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"grids":    grids,
		"pt_edges": cuts.DefaultPtEdges,
	})
}
