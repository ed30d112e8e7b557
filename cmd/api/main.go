package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hf-selopt/internal/api/handlers"
	"hf-selopt/internal/api/middleware"
	"hf-selopt/internal/data"
	"hf-selopt/internal/logging"
	"hf-selopt/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Get configuration from environment
	port := envOr("API_PORT", "8080")
	env := os.Getenv("API_ENV")

	log, err := logging.New(env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	wd, _ := os.Getwd()
	sampleDir := envOr("SAMPLE_DIR", filepath.Join(wd, "examples", "samples"))
	presetDir := envOr("CUTS_DIR", filepath.Join(wd, "examples", "cuts"))

	ttl := time.Hour
	if v := os.Getenv("RUN_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Fatal("invalid RUN_TTL", zap.String("value", v), zap.Error(err))
		}
		ttl = parsed
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatal("metrics", zap.Error(err))
	}

	// Set up Gin router
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(splitList(os.Getenv("CORS_ORIGINS"))...))
	router.Use(middleware.Logger(log))

	// Initialize handlers
	runs := data.NewResultCache[*handlers.Run](ttl, 5*time.Minute)
	defer runs.Close()
	scanHandler := handlers.NewScanHandler(runs, log, m, sampleDir, presetDir)
	presetHandler := handlers.NewPresetHandler(presetDir, log)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "runs": runs.Len()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/scan", scanHandler.RunScan)
		api.GET("/scan/:id/counters", scanHandler.GetCounters)
		api.GET("/scan/:id/efficiency", scanHandler.GetEfficiency)
		api.GET("/scan/:id/rank", scanHandler.RankThresholds)

		api.GET("/grids", handlers.ListGrids)
		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/samples", scanHandler.ListSamples)
	}

	log.Info("starting API server",
		zap.String("addr", ":"+port),
		zap.String("sample_dir", sampleDir),
		zap.String("preset_dir", presetHandler.Dir()),
		zap.Duration("run_ttl", ttl))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
