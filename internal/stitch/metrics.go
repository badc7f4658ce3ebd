package stitch

import "github.com/jayvdb/jaeger-stats/pkg/metrics"

// SlopeMetric computes the least-squares slope of a row's non-missing
// values against their run index.
type SlopeMetric struct{ metrics.MetricMeta }

// NewSlopeMetric returns the slope metric.
func NewSlopeMetric() SlopeMetric {
	return SlopeMetric{metrics.MetricMeta{
		MetricName: "slope", MetricDisplayName: "Slope",
		MetricDescription: "least-squares slope of a row's values over run index",
		MetricType:        "time_series",
	}}
}

// Compute implements metrics.Metric.
func (SlopeMetric) Compute(values []*float64) float64 {
	slope, _ := leastSquaresSlope(values)

	return slope
}

// ScaledSlopeMetric divides SlopeMetric by the row's mean, so rows of
// different magnitude are comparable against one bound.
type ScaledSlopeMetric struct{ metrics.MetricMeta }

// NewScaledSlopeMetric returns the scaled-slope metric.
func NewScaledSlopeMetric() ScaledSlopeMetric {
	return ScaledSlopeMetric{metrics.MetricMeta{
		MetricName: "scaled_slope", MetricDisplayName: "Scaled slope",
		MetricDescription: "slope divided by the row's mean value",
		MetricType:        "time_series",
	}}
}

// Compute implements metrics.Metric.
func (ScaledSlopeMetric) Compute(values []*float64) float64 {
	slope, mean := leastSquaresSlope(values)
	if mean == 0 {
		return 0
	}

	return slope / mean
}

// ShortWindowSlopeMetric computes a scaled slope over only the trailing
// stNumPoints non-missing values of a row.
type ShortWindowSlopeMetric struct {
	metrics.MetricMeta

	stNumPoints int
}

// NewShortWindowSlopeMetric returns the short-window slope metric,
// considering only the trailing stNumPoints non-missing values.
func NewShortWindowSlopeMetric(stNumPoints int) ShortWindowSlopeMetric {
	return ShortWindowSlopeMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName: "scaled_st_slope", MetricDisplayName: "Scaled short-window slope",
			MetricDescription: "scaled slope over the trailing st_num_points values",
			MetricType:        "time_series",
		},
		stNumPoints: stNumPoints,
	}
}

// Compute implements metrics.Metric.
func (m ShortWindowSlopeMetric) Compute(values []*float64) float64 {
	window := trailingNonNil(values, m.stNumPoints)
	slope, mean := leastSquaresSlope(window)

	if mean == 0 {
		return 0
	}

	return slope / mean
}

// L1DeviationMetric computes the mean absolute deviation of a row's
// values from its least-squares regression line.
type L1DeviationMetric struct{ metrics.MetricMeta }

// NewL1DeviationMetric returns the L1-deviation metric.
func NewL1DeviationMetric() L1DeviationMetric {
	return L1DeviationMetric{metrics.MetricMeta{
		MetricName: "l1_dev", MetricDisplayName: "L1 deviation",
		MetricDescription: "mean absolute deviation from the row's regression line",
		MetricType:        "time_series",
	}}
}

// Compute implements metrics.Metric.
func (L1DeviationMetric) Compute(values []*float64) float64 {
	return l1Deviation(values)
}

func trailingNonNil(values []*float64, n int) []*float64 {
	var nonNil []*float64

	for _, v := range values {
		if v != nil {
			nonNil = append(nonNil, v)
		}
	}

	if len(nonNil) <= n {
		return nonNil
	}

	return nonNil[len(nonNil)-n:]
}

// leastSquaresSlope fits y = a + b*x over the non-missing (index, value)
// pairs and returns b along with the mean of the values used, so callers
// can scale the slope without a second pass.
func leastSquaresSlope(values []*float64) (slope, mean float64) {
	var (
		n              float64
		sumX, sumY     float64
		sumXY, sumXX   float64
	)

	for i, v := range values {
		if v == nil {
			continue
		}

		x := float64(i)
		y := *v

		n++
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	if n < 2 {
		return 0, safeMean(sumY, n)
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom

	return slope, sumY / n
}

func safeMean(sum, n float64) float64 {
	if n == 0 {
		return 0
	}

	return sum / n
}

// l1Deviation returns the mean absolute deviation of the non-missing
// values from their least-squares regression line.
func l1Deviation(values []*float64) float64 {
	var (
		n              float64
		sumX, sumY     float64
		sumXY, sumXX   float64
	)

	type point struct {
		x, y float64
	}

	var points []point

	for i, v := range values {
		if v == nil {
			continue
		}

		x := float64(i)
		y := *v

		points = append(points, point{x, y})
		n++
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	if n < 2 {
		return 0
	}

	denom := n*sumXX - sumX*sumX

	var slope, intercept float64
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / n
	} else {
		intercept = sumY / n
	}

	var sumAbsDev float64
	for _, p := range points {
		predicted := intercept + slope*p.x
		dev := p.y - predicted

		if dev < 0 {
			dev = -dev
		}

		sumAbsDev += dev
	}

	return sumAbsDev / n
}
