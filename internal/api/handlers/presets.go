package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"hf-selopt/internal/api/models"
	"hf-selopt/internal/config"
	"hf-selopt/internal/cuts"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PresetHandler lists cut presets
type PresetHandler struct {
	presetDir string
	log       *zap.Logger
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(dir string, log *zap.Logger) *PresetHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PresetHandler{presetDir: dir, log: log}
}

// Dir returns the preset directory path.
func (h *PresetHandler) Dir() string { return h.presetDir }

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []models.PresetInfo{}

	entries, err := os.ReadDir(h.presetDir)
	if err != nil {
		h.log.Warn("cannot read preset directory", zap.String("dir", h.presetDir), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.presetDir, entry.Name())
		cc, err := config.LoadCutsFile(path)
		if err != nil {
			h.log.Warn("skipping invalid preset", zap.String("file", path), zap.Error(err))
			continue
		}
		sizes := map[string]int{}
		for d, g := range cc.Grids() {
			sizes[cuts.Dimension(d).Key()] = len(g)
		}
		presets = append(presets, models.PresetInfo{
			ID:    strings.TrimSuffix(entry.Name(), ".yaml"),
			File:  path,
			Sizes: sizes,
		})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
