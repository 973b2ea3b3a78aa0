package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid")

// Load returns defaults overlaid with the yaml file at path. An empty path
// or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as yaml, creating parent directories.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config: save: nil config")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create dir: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the values the simulation cannot run without.
func (c *Config) Validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("%w: simulation.tick_rate must be positive", ErrInvalid)
	}
	m := c.Motion
	if m.SkinWidth <= 0 {
		return fmt.Errorf("%w: motion.skin_width must be positive", ErrInvalid)
	}
	if m.SurfaceGap < 0 {
		return fmt.Errorf("%w: motion.surface_gap must not be negative", ErrInvalid)
	}
	if m.MaxSlopeDegrees <= 0 || m.MaxSlopeDegrees >= 90 {
		return fmt.Errorf("%w: motion.max_slope_degrees must be in (0, 90)", ErrInvalid)
	}
	if m.SnapWindow <= 0 {
		return fmt.Errorf("%w: motion.snap_window must be positive", ErrInvalid)
	}
	if m.MaxSlideDepth <= 0 {
		return fmt.Errorf("%w: motion.max_slide_depth must be positive", ErrInvalid)
	}
	return nil
}
