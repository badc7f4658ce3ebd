// Package stats implements the stats aggregator (C5): it consumes the
// call chains extracted from every trace in a run and accumulates, per
// chain key and per leaf process, the counters, duration samples, and
// HTTP/error-log markers that feed the stitcher and the graph projector.
package stats

import "sort"

// Counted is a map from an observed value to its occurrence count, used
// for tallying HTTP status codes and log messages across many traces.
type Counted[K comparable] map[K]int64

// Add increments the count for key by one.
func (c Counted[K]) Add(key K) {
	c[key]++
}

// Merge folds other's counts into c.
func (c Counted[K]) Merge(other Counted[K]) {
	for k, n := range other {
		c[k] += n
	}
}

// Total returns the sum of all counts.
func (c Counted[K]) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}

	return total
}

// sortedStringKeys returns a Counted[string]'s keys in ascending order, for
// deterministic report/table rendering.
func sortedStringKeys(c Counted[string]) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
