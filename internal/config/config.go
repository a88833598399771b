// Package config handles meshreduce configuration loading and management.
package config

import (
	"fmt"
	"slices"

	"github.com/Faultbox/meshreduce/pkg/mesh"
	"github.com/Faultbox/meshreduce/pkg/simplify"
)

// MethodAll selects every simplification method.
const MethodAll = "all"

// Config holds all settings.
type Config struct {
	Simplify SimplifyConfig `yaml:"simplify"`
	Input    InputConfig    `yaml:"input"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SimplifyConfig holds algorithm selection and thresholds.
type SimplifyConfig struct {
	Method         string  `yaml:"method"`          // edge_collapse, vertex_decimation, vertex_clustering or all
	Reduction      float32 `yaml:"reduction"`       // Fraction of vertices to keep
	GridResolution int     `yaml:"grid_resolution"` // 0 = derive from reduction
	FeatureAngle   float64 `yaml:"feature_angle"`   // Degrees
	AspectRatio    float64 `yaml:"aspect_ratio"`
	MaxDistance    float64 `yaml:"max_distance"`
	DropDegenerate bool    `yaml:"drop_degenerate"`
}

// InputConfig describes the generated input mesh.
type InputConfig struct {
	Shape  string  `yaml:"shape"`
	Detail int     `yaml:"detail"`
	Size   float32 `yaml:"size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := simplify.DefaultOptions()
	return &Config{
		Simplify: SimplifyConfig{
			Method:         MethodAll,
			Reduction:      opts.Reduction,
			GridResolution: 0,
			FeatureAngle:   opts.FeatureAngle,
			AspectRatio:    opts.AspectRatio,
			MaxDistance:    opts.MaxDistance,
			DropDegenerate: false,
		},
		Input: InputConfig{
			Shape:  "sphere",
			Detail: 16,
			Size:   2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be clamped sensibly.
func (c *Config) Validate() error {
	if _, err := c.Methods(); err != nil {
		return err
	}
	if c.Simplify.Reduction < 0 || c.Simplify.Reduction > 1 {
		return fmt.Errorf("simplify.reduction %v outside [0, 1]", c.Simplify.Reduction)
	}
	if c.Simplify.GridResolution < 0 {
		return fmt.Errorf("simplify.grid_resolution %d is negative", c.Simplify.GridResolution)
	}
	if !slices.Contains(mesh.Shapes, c.Input.Shape) {
		return fmt.Errorf("input.shape: %w: %q", mesh.ErrUnknownShape, c.Input.Shape)
	}
	if c.Input.Size <= 0 {
		return fmt.Errorf("input.size %v must be positive", c.Input.Size)
	}
	return nil
}

// Methods resolves the configured method name.
func (c *Config) Methods() ([]simplify.Method, error) {
	if c.Simplify.Method == MethodAll {
		return slices.Clone(simplify.Methods), nil
	}
	m, err := simplify.ParseMethod(c.Simplify.Method)
	if err != nil {
		return nil, fmt.Errorf("simplify.method: %w", err)
	}
	return []simplify.Method{m}, nil
}

// Options converts the simplify section for pkg/simplify.
func (c *Config) Options() simplify.Options {
	return simplify.Options{
		Reduction:      c.Simplify.Reduction,
		GridResolution: c.Simplify.GridResolution,
		FeatureAngle:   c.Simplify.FeatureAngle,
		AspectRatio:    c.Simplify.AspectRatio,
		MaxDistance:    c.Simplify.MaxDistance,
		DropDegenerate: c.Simplify.DropDegenerate,
	}
}
