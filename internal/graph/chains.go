package graph

import (
	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

// ChainsFromStatsRec flattens every leaf's call chains in rec into
// ChainInputs, computing each chain's edge value per mode. A chain whose
// key fails to parse, or whose value is unavailable for mode (e.g. a rate
// with no duration span), is skipped.
func ChainsFromStatsRec(rec *stats.StatsRec, mode EdgeValueMode) []ChainInput {
	var out []ChainInput

	for _, leaf := range rec.Leaves {
		for key, cv := range leaf.CallChains {
			calls, _, _, err := callchain.ParseKey(key)
			if err != nil || len(calls) == 0 {
				continue
			}

			value, ok := edgeValue(cv, rec.NumFiles, mode)
			if !ok {
				continue
			}

			out = append(out, ChainInput{Chain: callchain.Chain{Calls: calls}, Value: value})
		}
	}

	return out
}

func edgeValue(cv *stats.CChainStatsValue, numFiles int, mode EdgeValueMode) (float64, bool) {
	switch mode {
	case EdgeValueCount:
		return float64(cv.Count), true
	case EdgeValueAvgDuration:
		_, _, avgMs, _, ok := cv.MinMaxMillis()
		return avgMs, ok
	case EdgeValueRate:
		return cv.Rate(numFiles)
	default:
		return float64(cv.Count), true
	}
}
