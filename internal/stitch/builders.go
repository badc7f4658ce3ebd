package stitch

import (
	"fmt"

	"github.com/jayvdb/jaeger-stats/internal/stats"
)

// BuildBasicTable produces one row per scalar corpus metric, aligned
// across every run slot (a nil slot contributes nil values throughout).
func BuildBasicTable(slots []*stats.StatsRec) Table {
	byKey := map[string][]*float64{
		"num_files":        make([]*float64, len(slots)),
		"num_traces":       make([]*float64, len(slots)),
		"min_duration_ms":  make([]*float64, len(slots)),
		"median_duration_ms": make([]*float64, len(slots)),
		"avg_duration_ms":  make([]*float64, len(slots)),
		"max_duration_ms":  make([]*float64, len(slots)),
		"total_rate":       make([]*float64, len(slots)),
	}

	for i, rec := range slots {
		if rec == nil {
			continue
		}

		byKey["num_files"][i] = f(float64(rec.NumFiles))
		byKey["num_traces"][i] = f(float64(len(rec.TraceIDs)))

		minMs, medianMs, avgMs, maxMs, ok := traceDurationStats(rec)
		if ok {
			byKey["min_duration_ms"][i] = f(minMs)
			byKey["median_duration_ms"][i] = f(medianMs)
			byKey["avg_duration_ms"][i] = f(avgMs)
			byKey["max_duration_ms"][i] = f(maxMs)
		}

		if rate, ok := corpusRate(rec); ok {
			byKey["total_rate"][i] = f(rate)
		}
	}

	return NewTable(byKey)
}

// BuildMethodTable produces one row per (leaf process, metric) pair,
// aggregating every chain terminating at that process within each run.
func BuildMethodTable(slots []*stats.StatsRec) Table {
	processes := map[string]bool{}
	for _, rec := range slots {
		if rec == nil {
			continue
		}

		for name := range rec.Leaves {
			processes[name] = true
		}
	}

	byKey := map[string][]*float64{}

	for process := range processes {
		for metric, extract := range leafMetricExtractors() {
			key := fmt.Sprintf("%s/%s", process, metric)
			values := make([]*float64, len(slots))

			for i, rec := range slots {
				if rec == nil {
					continue
				}

				ls, ok := rec.Leaves[process]
				if !ok {
					continue
				}

				values[i] = extract(ls.OperationStats, rec.NumFiles, len(rec.TraceIDs))
			}

			byKey[key] = values
		}
	}

	return NewTable(byKey)
}

// BuildCallChainTable produces one row per (chain key, metric) pair.
func BuildCallChainTable(slots []*stats.StatsRec) Table {
	chainKeys := map[string]bool{}

	for _, rec := range slots {
		if rec == nil {
			continue
		}

		for _, ls := range rec.Leaves {
			for key := range ls.CallChains {
				chainKeys[string(key)] = true
			}
		}
	}

	byKey := map[string][]*float64{}

	for chainKey := range chainKeys {
		for metric, extract := range leafMetricExtractors() {
			key := fmt.Sprintf("%s/%s", chainKey, metric)
			values := make([]*float64, len(slots))

			for i, rec := range slots {
				if rec == nil {
					continue
				}

				cv := findChain(rec, chainKey)
				if cv == nil {
					continue
				}

				values[i] = extract(cv, rec.NumFiles, len(rec.TraceIDs))
			}

			byKey[key] = values
		}
	}

	return NewTable(byKey)
}

func findChain(rec *stats.StatsRec, chainKey string) *stats.CChainStatsValue {
	for _, ls := range rec.Leaves {
		for key, cv := range ls.CallChains {
			if string(key) == chainKey {
				return cv
			}
		}
	}

	return nil
}

// leafMetricExtractors enumerates the metrics computed for both the
// method and call-chain tables: count, occurrence fraction, avg rate,
// min/median/avg/max millis, and the two error fractions. Each extractor
// receives the chain/operation value, the run's file count, and its
// trace count.
func leafMetricExtractors() map[string]func(*stats.CChainStatsValue, int, int) *float64 {
	return map[string]func(*stats.CChainStatsValue, int, int) *float64{
		"count": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			return f(float64(v.Count))
		},
		"occurrence": func(v *stats.CChainStatsValue, _, numTraces int) *float64 {
			if numTraces == 0 {
				return nil
			}

			return f(float64(v.Count) / float64(numTraces))
		},
		"avg_rate": func(v *stats.CChainStatsValue, numFiles, _ int) *float64 {
			rate, ok := v.Rate(numFiles)
			if !ok {
				return nil
			}

			return f(rate)
		},
		"min_millis": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			return pickMillis(v, 0)
		},
		"median_millis": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			return pickMillis(v, 1)
		},
		"avg_millis": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			return pickMillis(v, 2)
		},
		"max_millis": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			return pickMillis(v, 3)
		},
		"frac_not_http_ok": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			if v.Count == 0 {
				return nil
			}

			return f(float64(v.NonOKHTTPCount) / float64(v.Count))
		},
		"frac_error_logs": func(v *stats.CChainStatsValue, _, _ int) *float64 {
			if v.Count == 0 {
				return nil
			}

			return f(float64(v.ErrorLogCount) / float64(v.Count))
		},
	}
}

func pickMillis(v *stats.CChainStatsValue, which int) *float64 {
	minMs, medianMs, avgMs, maxMs, ok := v.MinMaxMillis()
	if !ok {
		return nil
	}

	switch which {
	case 0:
		return f(minMs)
	case 1:
		return f(medianMs)
	case 2:
		return f(avgMs)
	default:
		return f(maxMs)
	}
}

func traceDurationStats(rec *stats.StatsRec) (minMs, medianMs, avgMs, maxMs float64, ok bool) {
	v := stats.NewCChainStatsValue()
	for _, d := range rec.TraceDurationsMicros {
		v.DurationsMicros = append(v.DurationsMicros, d)
	}

	return v.MinMaxMillis()
}

func corpusRate(rec *stats.StatsRec) (float64, bool) {
	var total int64

	for _, ls := range rec.Leaves {
		total += ls.OperationStats.Count
	}

	minMs, _, _, maxMs, ok := traceDurationStats(rec)
	if !ok || maxMs <= minMs {
		return 0, false
	}

	spanSeconds := (maxMs - minMs) / 1000.0
	if spanSeconds <= 0 {
		return 0, false
	}

	return float64(total) / spanSeconds / float64(maxInt(rec.NumFiles, 1)), true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
