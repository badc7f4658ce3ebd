package stats

import (
	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/cchaincache"
	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/span"
)

// Aggregator drives one run's worth of trace ingestion into a StatsRec,
// remapping non-rooted chains through an optional chain-key cache and
// accumulating a corpus Summary alongside the detailed per-leaf stats.
type Aggregator struct {
	ctx             *runctx.RunContext
	cache           *cchaincache.Cache
	cachedProcesses []string

	rec     *StatsRec
	summary Summary
}

// NewAggregator creates an Aggregator for numFiles input files. cache may
// be nil, in which case non-rooted chains are never remapped.
func NewAggregator(ctx *runctx.RunContext, numFiles int, cache *cchaincache.Cache, cachedProcesses []string) *Aggregator {
	if ctx == nil {
		ctx = runctx.Default()
	}

	return &Aggregator{
		ctx:             ctx,
		cache:           cache,
		cachedProcesses: cachedProcesses,
		rec:             NewStatsRec(numFiles),
	}
}

// AddTrace extracts and remaps the call chains of an already-normalized
// trace, and folds the results into the accumulating StatsRec and Summary. It returns
// the number of call chains extracted, for callers reporting ingest
// progress.
func (a *Aggregator) AddTrace(trace *span.Trace) int {
	chains := callchain.Extract(a.ctx, trace, a.cachedProcesses)

	for i, chain := range chains {
		if !chain.Rooted && a.cache != nil {
			expected, err := a.cache.Get(chain.Endpoint())
			if err != nil {
				a.ctx.Logger.Warn("chain-key cache load failed", "endpoint", chain.Endpoint(), "error", err)
			} else if len(expected) > 0 {
				remapped := callchain.Remap(chain, expected, a.ctx.Report)
				remapped.SpanID = chain.SpanID
				remapped.SpanPath = chain.SpanPath
				chains[i] = remapped
				chain = remapped
			}
		}

		a.rec.Observe(ObservationFor(trace, chain))
	}

	a.summary.observeTrace(trace)

	var rootDuration int64
	if trace.RootID != "" {
		if root, ok := trace.Spans[trace.RootID]; ok {
			rootDuration = root.DurationMicros
		}
	}

	a.rec.TraceIDs = append(a.rec.TraceIDs, trace.ID)
	a.rec.TraceDurationsMicros = append(a.rec.TraceDurationsMicros, rootDuration)

	return len(chains)
}

// StatsRec returns the accumulated per-leaf statistics.
func (a *Aggregator) StatsRec() *StatsRec {
	return a.rec
}

// Summary returns the accumulated corpus summary.
func (a *Aggregator) Summary() Summary {
	return a.summary
}

// WriteSummary appends the corpus summary to the Summary report chapter.
func (a *Aggregator) WriteSummary(sink *report.Sink) {
	a.summary.WriteTo(sink)
}
