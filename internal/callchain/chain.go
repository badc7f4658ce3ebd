package callchain

import (
	"sort"

	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/span"
)

// Chain is one root-to-span call chain extracted from a trace.
type Chain struct {
	Calls          []Call
	CachingProcess string
	IsLeaf         bool
	Rooted         bool
	Looped         []string

	// SpanID and SpanPath identify the originating spans within the trace
	// that produced this chain (SpanPath parallels Calls, root to leaf).
	// They are not part of the canonical Key and are dropped by any
	// round-trip through FormatKey/ParseKey, e.g. after a cchaincache
	// remap onto a stored expected chain.
	SpanID   string
	SpanPath []string
}

// Key returns the chain's canonical string identity.
func (c Chain) Key() Key {
	return FormatKey(c.Calls, c.CachingProcess, c.IsLeaf)
}

// LeafProcess returns the process name of the chain's terminating call, or
// "" for an empty chain.
func (c Chain) LeafProcess() string {
	if len(c.Calls) == 0 {
		return ""
	}

	return c.Calls[len(c.Calls)-1].Process
}

// LeafOperation returns the "process/method" of the chain's terminating
// call, or "" for an empty chain.
func (c Chain) LeafOperation() string {
	if len(c.Calls) == 0 {
		return ""
	}

	last := c.Calls[len(c.Calls)-1]

	return last.Process + "/" + last.Method
}

// Endpoint returns the "process/method" of the chain's first call, used as
// the cache key for remap lookups.
func (c Chain) Endpoint() string {
	if len(c.Calls) == 0 {
		return ""
	}

	return c.Calls[0].Process + "/" + c.Calls[0].Method
}

// Extract walks trace rooted at trace.RootID and at every orphan span,
// emitting one Chain per visited span. Rooted chains are emitted first, in
// a deterministic order (root-to-leaf depth-first, children visited in
// sorted-id order, matching span.Normalize's child ordering); non-rooted
// chains follow, one tree per orphan, in sorted orphan-id order.
func Extract(ctx *runctx.RunContext, trace *span.Trace, cachedProcesses []string) []Chain {
	if ctx == nil {
		ctx = runctx.Default()
	}

	var chains []Chain

	if trace.RootID != "" {
		chains = append(chains, walk(trace, trace.RootID, true, cachedProcesses)...)
	}

	for _, orphanID := range trace.Orphans {
		chains = append(chains, walk(trace, orphanID, false, cachedProcesses)...)
	}

	return chains
}

func walk(trace *span.Trace, startID string, rooted bool, cachedProcesses []string) []Chain {
	var chains []Chain

	counts := make(map[string]int)

	var dfs func(spanID string, path []Call, spanPath []string)

	dfs = func(spanID string, path []Call, spanPath []string) {
		sp := trace.Spans[spanID]
		if sp == nil {
			return
		}

		call := Call{
			Process:   sp.Service,
			Method:    sp.Operation,
			Direction: DirectionFromTag(sp.Kind),
		}

		newPath := append(append([]Call(nil), path...), call)
		newSpanPath := append(append([]string(nil), spanPath...), spanID)

		counts[sp.Service]++

		chains = append(chains, Chain{
			Calls:          append([]Call(nil), newPath...),
			CachingProcess: BuildCachingProcessLabel(newPath, cachedProcesses),
			IsLeaf:         len(sp.Children) == 0,
			Rooted:         rooted,
			Looped:         loopedProcesses(counts),
			SpanID:         spanID,
			SpanPath:       newSpanPath,
		})

		for _, childID := range sp.Children {
			dfs(childID, newPath, newSpanPath)
		}

		counts[sp.Service]--
	}

	dfs(startID, nil, nil)

	return chains
}

func loopedProcesses(counts map[string]int) []string {
	var looped []string

	for process, n := range counts {
		if n > 1 {
			looped = append(looped, process)
		}
	}

	sort.Strings(looped)

	return looped
}
