package stats

import "sort"

const microsPerSecond = 1_000_000.0

// timeStats computes min/median/avg/max, in milliseconds, over a set of
// integer-microsecond samples. ok is false when samples is empty.
func timeStats(samples []int64) (minMs, medianMs, avgMs, maxMs float64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, 0, 0, false
	}

	sorted := append([]int64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, s := range sorted {
		sum += s
	}

	minMs = microsToMillis(sorted[0])
	maxMs = microsToMillis(sorted[len(sorted)-1])
	avgMs = microsToMillis(sum) / float64(len(sorted))
	medianMs = microsToMillis(median(sorted))

	return minMs, medianMs, avgMs, maxMs, true
}

func microsToMillis(micros int64) float64 {
	return float64(micros) / 1000.0
}

func median(sorted []int64) int64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// computeRate returns count divided by the span of start times (in
// seconds), normalized by numFiles. Fewer than two start-time samples
// leaves the span undefined, so ok is false rather than returning zero.
func computeRate(startMicros []int64, count int64, numFiles int) (rate float64, ok bool) {
	if len(startMicros) < 2 || numFiles <= 0 {
		return 0, false
	}

	minStart, maxStart := startMicros[0], startMicros[0]

	for _, s := range startMicros {
		if s < minStart {
			minStart = s
		}

		if s > maxStart {
			maxStart = s
		}
	}

	spanSeconds := float64(maxStart-minStart) / microsPerSecond
	if spanSeconds <= 0 {
		return 0, false
	}

	return float64(count) / spanSeconds / float64(numFiles), true
}
