package handlers

import (
	"net/http"
	"os"
	"strings"

	"hf-selopt/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ListSamples handles GET /api/v1/samples
func (h *ScanHandler) ListSamples(c *gin.Context) {
	samples := []models.SampleInfo{}
	entries, err := os.ReadDir(h.sampleDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"samples": samples, "count": 0})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SAMPLES_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		samples = append(samples, models.SampleInfo{
			ID:   strings.TrimSuffix(e.Name(), ".json"),
			File: e.Name(),
			Size: info.Size(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples, "count": len(samples)})
}
