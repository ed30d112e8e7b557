package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hf-selopt/internal/cuts"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load cut grids from a separate preset YAML.
	// Grids listed under Cuts override the ones from CutsFile.
	CutsFile  string     `yaml:"cuts_file"`
	Cuts      CutsConfig `yaml:"cuts"`
	PtBinning []float64  `yaml:"pt_binning"`
	Workers   int        `yaml:"workers"`
}

// CutsConfig lists the thresholds to scan. A missing key means "use the
// default grid"; an explicitly empty list is rejected.
type CutsConfig struct {
	CosPointing []float64 `yaml:"cosp"`
	DecayLength []float64 `yaml:"decay_length"`
	ImpParProd  []float64 `yaml:"imp_par_prod"`
	MinDCAxy    []float64 `yaml:"min_dca_xy"`
	MinTrackPt  []float64 `yaml:"min_track_pt"`
}

// Default returns a config that reproduces the reference study.
func Default() *Config {
	return &Config{Workers: 1}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.CutsFile != "" {
		cutsPath := c.CutsFile
		if !filepath.IsAbs(cutsPath) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), cutsPath)
			if _, err := os.Stat(cand); err == nil {
				cutsPath = cand
			}
		}
		loaded, err := LoadCutsFile(cutsPath)
		if err != nil {
			return nil, err
		}
		c.Cuts = MergeCuts(loaded, c.Cuts)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("cuts invalid: %w", err)
	}
	if _, err := c.PtAxis(); err != nil {
		return fmt.Errorf("pt_binning invalid: %w", err)
	}
	return nil
}

// Registry builds the cut registry described by the config.
func (c *Config) Registry() (*cuts.Registry, error) {
	return cuts.NewRegistry(c.Cuts.Grids())
}

func (c *Config) PtAxis() (*cuts.PtAxis, error) {
	return cuts.NewPtAxis(c.PtBinning)
}

func (cc CutsConfig) Grids() cuts.Grids {
	var g cuts.Grids
	g[cuts.CosPointing] = cc.CosPointing
	g[cuts.DecayLength] = cc.DecayLength
	g[cuts.ImpParProd] = cc.ImpParProd
	g[cuts.MinDCAxy] = cc.MinDCAxy
	g[cuts.MinTrackPt] = cc.MinTrackPt
	return g
}

type cutsFileWrapper struct {
	Cuts CutsConfig `yaml:"cuts"`
}

// LoadCutsFile reads a preset file holding a top-level "cuts" block.
func LoadCutsFile(path string) (CutsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CutsConfig{}, err
	}
	var w cutsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return CutsConfig{}, err
	}
	return w.Cuts, nil
}

// MergeCuts overlays the grids present in override onto base.
// An explicitly empty override is kept so that validation can reject it.
func MergeCuts(base, override CutsConfig) CutsConfig {
	out := base
	if override.CosPointing != nil {
		out.CosPointing = override.CosPointing
	}
	if override.DecayLength != nil {
		out.DecayLength = override.DecayLength
	}
	if override.ImpParProd != nil {
		out.ImpParProd = override.ImpParProd
	}
	if override.MinDCAxy != nil {
		out.MinDCAxy = override.MinDCAxy
	}
	if override.MinTrackPt != nil {
		out.MinTrackPt = override.MinTrackPt
	}
	return out
}
