// Package stitch implements the stitcher (C6): it aligns per-run StatsRec
// slots into longitudinal tables, computes slope/L1-deviation summary
// statistics for every row, and flags anomalies against configurable
// bounds.
package stitch

import "github.com/jayvdb/jaeger-stats/pkg/pipeline"

// Config holds the stitcher's tunable bounds.
type Config struct {
	DropCount          int
	ScaledSlopeBound   float64
	STNumPoints        int
	ScaledSTSlopeBound float64
	L1DevBound         float64
}

// DefaultConfig returns the stitcher's out-of-the-box tunables.
func DefaultConfig() Config {
	return Config{
		DropCount:          0,
		ScaledSlopeBound:   0.5,
		STNumPoints:        5,
		ScaledSTSlopeBound: 0.75,
		L1DevBound:         0.3,
	}
}

// ConfigurationOptions describes the stitcher's tunables the way
// pkg/pipeline.ConfigurationOption declares an analyzer's flags, so
// cmd/stitch can generate its CLI surface from this single source of
// truth instead of hand-duplicating flag definitions.
func ConfigurationOptions() []pipeline.ConfigurationOption {
	defaults := DefaultConfig()

	return []pipeline.ConfigurationOption{
		{
			Name: "drop_count", Flag: "drop-count",
			Description: "number of leading run slots to discard as warm-up before computing slopes",
			Type:        pipeline.IntConfigurationOption, Default: defaults.DropCount,
		},
		{
			Name: "scaled_slope_bound", Flag: "scaled-slope-bound",
			Description: "anomaly threshold for |slope / row mean| over the full row",
			Type:        pipeline.FloatConfigurationOption, Default: defaults.ScaledSlopeBound,
		},
		{
			Name: "st_num_points", Flag: "st-num-points",
			Description: "number of trailing points used for the short-window slope",
			Type:        pipeline.IntConfigurationOption, Default: defaults.STNumPoints,
		},
		{
			Name: "scaled_st_slope_bound", Flag: "scaled-st-slope-bound",
			Description: "anomaly threshold for the scaled short-window slope",
			Type:        pipeline.FloatConfigurationOption, Default: defaults.ScaledSTSlopeBound,
		},
		{
			Name: "l1_dev_bound", Flag: "l1-dev-bound",
			Description: "anomaly threshold for mean absolute deviation from the regression line",
			Type:        pipeline.FloatConfigurationOption, Default: defaults.L1DevBound,
		},
	}
}
