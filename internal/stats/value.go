package stats

import (
	"sort"
	"strconv"
)

// CChainStatsValue is the aggregate recorded for one chain key across all
// traces in a run.
type CChainStatsValue struct {
	Count           int64
	Depth           int
	DurationsMicros []int64
	StartMicros     []int64
	Looped          []string
	Rooted          bool
	NonOKHTTPCount  int64
	ErrorLogCount   int64
	// StatusCodes counts HTTP status occurrences keyed by decimal string
	// (e.g. "500"), not int64: BSON documents require string keys, and
	// this value is persisted through internal/statsio's BSON codec.
	StatusCodes Counted[string]
	LogMessages Counted[string]
}

// NewCChainStatsValue returns a zero-valued aggregate ready for Observe.
func NewCChainStatsValue() *CChainStatsValue {
	return &CChainStatsValue{
		StatusCodes: make(Counted[string]),
		LogMessages: make(Counted[string]),
	}
}

// Observe folds one occurrence of the chain into the aggregate.
func (v *CChainStatsValue) Observe(o Observation) {
	v.Count++
	v.Depth = len(o.Calls)
	v.DurationsMicros = append(v.DurationsMicros, o.DurationMicros)
	v.StartMicros = append(v.StartMicros, o.StartMicros)
	v.Rooted = o.Rooted

	v.Looped = mergeLooped(v.Looped, o.Looped)

	if o.NonOKHTTP {
		v.NonOKHTTPCount++
	}

	switch {
	case len(o.HTTPStatuses) > 0:
		for _, status := range o.HTTPStatuses {
			v.StatusCodes.Add(strconv.Itoa(status))
		}
	case o.HasHTTPStatus:
		v.StatusCodes.Add(strconv.Itoa(o.HTTPStatus))
	}

	if o.ErrorLog {
		v.ErrorLogCount++
	}

	for _, msg := range o.LogMessages {
		v.LogMessages.Add(msg)
	}
}

func mergeLooped(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p] = true
	}

	merged := append([]string(nil), existing...)

	for _, p := range incoming {
		if !seen[p] {
			seen[p] = true

			merged = append(merged, p)
		}
	}

	sort.Strings(merged)

	return merged
}

// MinMaxMillis returns the min, median, average, and max of the
// recorded durations in milliseconds, derived from the integer-microsecond
// samples as µs/1000.0. ok is false when there are no samples.
func (v *CChainStatsValue) MinMaxMillis() (minMs, medianMs, avgMs, maxMs float64, ok bool) {
	return timeStats(v.DurationsMicros)
}

// LogMessagesSorted returns the distinct observed error log messages in
// sorted order, for deterministic report rendering.
func (v *CChainStatsValue) LogMessagesSorted() []string {
	return sortedStringKeys(v.LogMessages)
}

// Rate returns count divided by the span of start times in seconds,
// normalized by numFiles. When fewer than two samples exist the rate is
// undefined (ok is false) rather than zero, since a span-of-time needs at
// least two points.
func (v *CChainStatsValue) Rate(numFiles int) (rate float64, ok bool) {
	return computeRate(v.StartMicros, v.Count, numFiles)
}
