// Package config loads rigfit settings from a TOML file.
//
// Every key is optional; omitted keys keep the library defaults:
//
//	log_level = "info"
//
//	[circle]
//	iterations = 100
//	inlier_threshold = 2.5
//	early_exit_fraction = 0.9
//	seed = 0 # 0 draws from the global random source
//
//	[mirror]
//	threshold = 0.5
//	snap_tolerance = 0.1
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/philipparndt/rigfit/pkg/geometry"
)

// MaxFileSize is the largest config file Load accepts
const MaxFileSize = 1 << 20

// Config holds all tunables read from a config file
type Config struct {
	LogLevel string       `toml:"log_level"`
	Circle   CircleConfig `toml:"circle"`
	Mirror   MirrorConfig `toml:"mirror"`
}

// CircleConfig tunes the RANSAC circle fit
type CircleConfig struct {
	Iterations        int     `toml:"iterations"`
	InlierThreshold   float64 `toml:"inlier_threshold"`
	EarlyExitFraction float64 `toml:"early_exit_fraction"`
	Seed              int64   `toml:"seed"`
}

// MirrorConfig tunes mirror pair matching
type MirrorConfig struct {
	Threshold     float64 `toml:"threshold"`
	SnapTolerance float64 `toml:"snap_tolerance"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	ransac := geometry.DefaultRansacOptions()
	mirror := geometry.DefaultMirrorOptions()
	return &Config{
		LogLevel: "info",
		Circle: CircleConfig{
			Iterations:        ransac.Iterations,
			InlierThreshold:   ransac.InlierThreshold,
			EarlyExitFraction: ransac.EarlyExitFraction,
		},
		Mirror: MirrorConfig{
			Threshold:     mirror.Threshold,
			SnapTolerance: mirror.SnapTolerance,
		},
	}
}

// Load reads and validates a config file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return nil, fmt.Errorf("config file must be .toml, got %q", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, MaxFileSize)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML config data on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every value is in range
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Circle.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("circle.iterations must be positive, got %d", c.Circle.Iterations))
	}
	if c.Circle.InlierThreshold <= 0 {
		errs = append(errs, fmt.Errorf("circle.inlier_threshold must be positive, got %g", c.Circle.InlierThreshold))
	}
	if c.Circle.EarlyExitFraction <= 0 || c.Circle.EarlyExitFraction > 1 {
		errs = append(errs, fmt.Errorf("circle.early_exit_fraction must be in (0, 1], got %g", c.Circle.EarlyExitFraction))
	}
	if c.Mirror.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("mirror.threshold must be positive, got %g", c.Mirror.Threshold))
	}
	if c.Mirror.SnapTolerance < 0 {
		errs = append(errs, fmt.Errorf("mirror.snap_tolerance must not be negative, got %g", c.Mirror.SnapTolerance))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level
func (c *Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

// RansacOptions builds circle fit options. A non-zero seed makes the fit
// repeatable.
func (c *Config) RansacOptions() geometry.RansacOptions {
	return geometry.RansacOptions{
		Iterations:        c.Circle.Iterations,
		InlierThreshold:   c.Circle.InlierThreshold,
		EarlyExitFraction: c.Circle.EarlyExitFraction,
		Seed:              c.Circle.Seed,
	}
}

// MirrorOptions builds mirror matching options
func (c *Config) MirrorOptions() geometry.MirrorOptions {
	return geometry.MirrorOptions{
		Threshold:     c.Mirror.Threshold,
		SnapTolerance: c.Mirror.SnapTolerance,
	}
}
