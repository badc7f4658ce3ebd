package stitch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jayvdb/jaeger-stats/internal/stitch"
)

func vals(xs ...float64) []*float64 {
	out := make([]*float64, len(xs))
	for i, x := range xs {
		v := x
		out[i] = &v
	}

	return out
}

func TestSlopeMetricRisingSeries(t *testing.T) {
	t.Parallel()

	slope := stitch.NewSlopeMetric().Compute(vals(1, 2, 3, 4, 5))
	assert.InDelta(t, 1.0, slope, 0.0001)
}

func TestSlopeMetricToleratesMissingValues(t *testing.T) {
	t.Parallel()

	values := vals(1, 2, 3, 4, 5)
	values[2] = nil

	slope := stitch.NewSlopeMetric().Compute(values)
	assert.InDelta(t, 1.0, slope, 0.0001)
}

func TestScaledSlopeDividesByMean(t *testing.T) {
	t.Parallel()

	scaled := stitch.NewScaledSlopeMetric().Compute(vals(10, 20, 30))
	assert.InDelta(t, 10.0/20.0, scaled, 0.0001)
}

func TestL1DeviationZeroForPerfectLine(t *testing.T) {
	t.Parallel()

	dev := stitch.NewL1DeviationMetric().Compute(vals(1, 2, 3, 4, 5))
	assert.InDelta(t, 0.0, dev, 0.0001)
}

func TestL1DeviationPositiveForNoisySeries(t *testing.T) {
	t.Parallel()

	dev := stitch.NewL1DeviationMetric().Compute(vals(1, 5, 1, 5, 1))
	assert.Greater(t, dev, 0.0)
}

func TestShortWindowSlopeUsesTrailingPointsOnly(t *testing.T) {
	t.Parallel()

	values := vals(100, 100, 100, 1, 2, 3)

	slope := stitch.NewShortWindowSlopeMetric(3).Compute(values)
	assert.Greater(t, slope, 0.0)
}

func TestComputeRowStatsFlagsAnomalyOnSteepScaledSlope(t *testing.T) {
	t.Parallel()

	row := stitch.Row{Key: "k", Values: vals(1, 2, 4, 8, 16)}
	cfg := stitch.DefaultConfig()

	rs := stitch.ComputeRowStats(row, cfg)
	assert.True(t, rs.Anomaly)
}

func TestComputeRowStatsNoAnomalyOnFlatSeries(t *testing.T) {
	t.Parallel()

	row := stitch.Row{Key: "k", Values: vals(10, 10, 10, 10, 10)}
	cfg := stitch.DefaultConfig()

	rs := stitch.ComputeRowStats(row, cfg)
	assert.False(t, rs.Anomaly)
}

func TestComputeRowStatsDropCountDiscardsWarmup(t *testing.T) {
	t.Parallel()

	row := stitch.Row{Key: "k", Values: vals(1000, 1000, 1, 1, 1)}
	cfg := stitch.DefaultConfig()
	cfg.DropCount = 2

	rs := stitch.ComputeRowStats(row, cfg)
	assert.False(t, rs.Anomaly)
}
