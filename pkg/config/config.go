// Package config provides configuration loading and validation shared by
// the trace-analysis, stitch, and mermaid binaries.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidTZOffset     = errors.New("tz_offset_minutes out of range")
	ErrInvalidDropCount    = errors.New("drop_count must be non-negative")
	ErrInvalidSTNumPoints  = errors.New("st_num_points must be positive")
	ErrInvalidScaledBound  = errors.New("scaled_slope_bound must be positive")
	ErrInvalidSTScaledBnd  = errors.New("scaled_st_slope_bound must be positive")
	ErrInvalidL1DevBound   = errors.New("l1_dev_bound must be positive")
	ErrInvalidCacheBackend = errors.New("unsupported cache backend")
)

// Default configuration values.
const (
	defaultTZOffsetMinutes    = 0
	defaultDropCount          = 0
	defaultSTNumPoints        = 5
	defaultScaledSlopeBound   = 0.25
	defaultSTScaledSlopeBound = 0.5
	defaultL1DevBound         = 0.2
	minTZOffsetMinutes        = -12 * 60
	maxTZOffsetMinutes        = 14 * 60
)

// Config holds all configuration shared across jaeger-stats binaries.
type Config struct {
	Run     RunConfig     `mapstructure:"run"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Stitch  StitchConfig  `mapstructure:"stitch"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RunConfig holds the process-wide run settings threaded through
// internal/runctx.RunContext rather than kept as package globals.
type RunConfig struct {
	// TZOffsetMinutes shifts span timestamps (stored as UTC epoch micros in
	// the Jaeger dump) to local wall-clock time for report rendering.
	TZOffsetMinutes int `mapstructure:"tz_offset_minutes"`

	// CommaFloat selects the comma decimal separator locale when formatting
	// floating-point figures in reports and CSV output.
	CommaFloat bool `mapstructure:"comma_float"`

	// Strict enables strict JSON-schema validation of ingested Jaeger dumps.
	Strict bool `mapstructure:"strict"`
}

// CacheConfig holds the call-chain cache configuration.
type CacheConfig struct {
	Backend   string `mapstructure:"backend"`
	Directory string `mapstructure:"directory"`
	MaxSize   string `mapstructure:"max_size"`
	Enabled   bool   `mapstructure:"enabled"`
}

// StitchConfig holds the stitcher's tunable anomaly-detection bounds.
type StitchConfig struct {
	// DropCount is the number of warm-up runs discarded from the head of a
	// stitched series before slope/anomaly computation.
	DropCount int `mapstructure:"drop_count"`

	// STNumPoints is the width, in runs, of the short-window slope.
	STNumPoints int `mapstructure:"st_num_points"`

	// ScaledSlopeBound is the OR-gate bound on the full-series scaled slope.
	ScaledSlopeBound float64 `mapstructure:"scaled_slope_bound"`

	// ScaledSTSlopeBound is the OR-gate bound on the short-window scaled slope.
	ScaledSTSlopeBound float64 `mapstructure:"scaled_st_slope_bound"`

	// L1DevBound is the OR-gate bound on L1 deviation from the regression line.
	L1DevBound float64 `mapstructure:"l1_dev_bound"`

	// OutputDir is where the stitched record and its --csv-output tables are
	// written; the anomalies report and plot go to their own flag paths.
	OutputDir string `mapstructure:"output_dir"`

	// Format selects the Stitched file codec stitch uses when --ext is not
	// passed: json, bson, or bincode.
	Format string `mapstructure:"format"`

	// Compress wraps codec output in lz4.
	Compress bool `mapstructure:"compress"`
}

// ReportConfig holds report-sink configuration.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Color     bool   `mapstructure:"color"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("jaeger-stats")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/jaeger-stats")
	}

	viperCfg.SetEnvPrefix("JAEGER_STATS")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&cfg)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("run.tz_offset_minutes", defaultTZOffsetMinutes)
	viperCfg.SetDefault("run.comma_float", false)
	viperCfg.SetDefault("run.strict", false)

	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.backend", "local")
	viperCfg.SetDefault("cache.directory", "./.jaeger-stats-cache")
	viperCfg.SetDefault("cache.max_size", "256MB")

	viperCfg.SetDefault("stitch.drop_count", defaultDropCount)
	viperCfg.SetDefault("stitch.st_num_points", defaultSTNumPoints)
	viperCfg.SetDefault("stitch.scaled_slope_bound", defaultScaledSlopeBound)
	viperCfg.SetDefault("stitch.scaled_st_slope_bound", defaultSTScaledSlopeBound)
	viperCfg.SetDefault("stitch.l1_dev_bound", defaultL1DevBound)
	viperCfg.SetDefault("stitch.output_dir", "./stitched")
	viperCfg.SetDefault("stitch.format", "json")
	viperCfg.SetDefault("stitch.compress", false)

	viperCfg.SetDefault("report.output_dir", "./reports")
	viperCfg.SetDefault("report.color", true)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Run.TZOffsetMinutes < minTZOffsetMinutes || cfg.Run.TZOffsetMinutes > maxTZOffsetMinutes {
		return fmt.Errorf("%w: %d", ErrInvalidTZOffset, cfg.Run.TZOffsetMinutes)
	}

	if cfg.Stitch.DropCount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDropCount, cfg.Stitch.DropCount)
	}

	if cfg.Stitch.STNumPoints <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSTNumPoints, cfg.Stitch.STNumPoints)
	}

	if cfg.Stitch.ScaledSlopeBound <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidScaledBound, cfg.Stitch.ScaledSlopeBound)
	}

	if cfg.Stitch.ScaledSTSlopeBound <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSTScaledBnd, cfg.Stitch.ScaledSTSlopeBound)
	}

	if cfg.Stitch.L1DevBound <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidL1DevBound, cfg.Stitch.L1DevBound)
	}

	if cfg.Cache.Backend != "local" {
		return fmt.Errorf("%w: %q", ErrInvalidCacheBackend, cfg.Cache.Backend)
	}

	return nil
}
