package stats

import (
	"sort"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
)

// LeafStats holds the aggregate for a single leaf process: an overall
// operation_stats value combining every chain terminating at this process,
// plus the per-chain-key breakdown.
type LeafStats struct {
	OperationStats *CChainStatsValue
	CallChains     map[callchain.Key]*CChainStatsValue
}

func newLeafStats() *LeafStats {
	return &LeafStats{
		OperationStats: NewCChainStatsValue(),
		CallChains:     make(map[callchain.Key]*CChainStatsValue),
	}
}

// StatsRec is the aggregate for one input file (or folder of files):
// num_files processed, the trace ids and durations observed, and a
// per-leaf-process breakdown of call-chain statistics. Every chain key
// under Leaves[p].CallChains has LeafProcess() == p.
type StatsRec struct {
	NumFiles             int
	TraceIDs             []string
	TraceDurationsMicros []int64
	Leaves               map[string]*LeafStats
}

// NewStatsRec returns an empty StatsRec for a run of numFiles input files.
func NewStatsRec(numFiles int) *StatsRec {
	return &StatsRec{
		NumFiles: numFiles,
		Leaves:   make(map[string]*LeafStats),
	}
}

// Observe folds one chain's observation into the record, keyed by its
// leaf process and its canonical chain key.
func (r *StatsRec) Observe(obs Observation) {
	leaf := obs.Chain.LeafProcess()
	if leaf == "" {
		return
	}

	ls, ok := r.Leaves[leaf]
	if !ok {
		ls = newLeafStats()
		r.Leaves[leaf] = ls
	}

	ls.OperationStats.Observe(obs)

	key := obs.Chain.Key()

	cv, ok := ls.CallChains[key]
	if !ok {
		cv = NewCChainStatsValue()
		ls.CallChains[key] = cv
	}

	cv.Observe(obs)
}

// LeafProcesses returns the record's leaf process names in sorted order,
// for deterministic report/table rendering.
func (r *StatsRec) LeafProcesses() []string {
	names := make([]string, 0, len(r.Leaves))
	for name := range r.Leaves {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ChainKeys returns a leaf's chain keys in sorted order.
func (ls *LeafStats) ChainKeys() []callchain.Key {
	keys := make([]callchain.Key, 0, len(ls.CallChains))
	for k := range ls.CallChains {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
