package stitch

import "math"

// RowStats is the summary computed for one stitched row: its raw and
// scaled slopes, short-window scaled slope, L1 deviation from the
// regression line, and whether any bound was exceeded.
type RowStats struct {
	Key             string
	Slope           float64
	ScaledSlope     float64
	ScaledSTSlope   float64
	L1Dev           float64
	Anomaly         bool
}

// ComputeRowStats drops the row's first cfg.DropCount slots as warm-up,
// then computes slope/scaled-slope/short-window-slope/L1-deviation and
// flags an anomaly if any of the three bounds is exceeded.
func ComputeRowStats(row Row, cfg Config) RowStats {
	values := row.Values
	if cfg.DropCount > 0 && cfg.DropCount < len(values) {
		values = values[cfg.DropCount:]
	} else if cfg.DropCount >= len(values) {
		values = nil
	}

	scaledSlope := NewScaledSlopeMetric().Compute(values)
	scaledSTSlope := NewShortWindowSlopeMetric(cfg.STNumPoints).Compute(values)
	l1Dev := NewL1DeviationMetric().Compute(values)

	anomaly := math.Abs(scaledSlope) > cfg.ScaledSlopeBound ||
		math.Abs(scaledSTSlope) > cfg.ScaledSTSlopeBound ||
		l1Dev > cfg.L1DevBound

	return RowStats{
		Key:           row.Key,
		Slope:         NewSlopeMetric().Compute(values),
		ScaledSlope:   scaledSlope,
		ScaledSTSlope: scaledSTSlope,
		L1Dev:         l1Dev,
		Anomaly:       anomaly,
	}
}

// ComputeTableStats computes RowStats for every row of table, in the
// table's existing key-sorted order.
func ComputeTableStats(table Table, cfg Config) []RowStats {
	stats := make([]RowStats, len(table.Rows))
	for i, row := range table.Rows {
		stats[i] = ComputeRowStats(row, cfg)
	}

	return stats
}

// Anomalies filters a stats slice down to the flagged rows.
func Anomalies(stats []RowStats) []RowStats {
	var anomalies []RowStats

	for _, s := range stats {
		if s.Anomaly {
			anomalies = append(anomalies, s)
		}
	}

	return anomalies
}
