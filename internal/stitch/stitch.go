package stitch

import (
	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

// RunDescriptor names one run to stitch: a StatsRec file path and a
// human-readable label (typically the run's timestamp or tag).
type RunDescriptor struct {
	Path  string
	Label string
}

// Loader loads a StatsRec from a run's path. Implementations live in
// internal/statsio, keeping stitch independent of the concrete file codec.
type Loader func(path string) (*stats.StatsRec, error)

// Stitched is a run's aligned dataset: the per-slot StatsRecs (nil where a
// slot failed to load), the three derived tables, and each table's
// per-row summary statistics.
type Stitched struct {
	Labels    []string
	Slots     []*stats.StatsRec
	Basic     Table
	Method    Table
	CallChain Table

	BasicStats     []RowStats
	MethodStats    []RowStats
	CallChainStats []RowStats
}

// Stitch loads every descriptor's StatsRec (retaining a nil slot, logged
// to Summary, on failure so run-order alignment is preserved), then builds
// and scores the basic/method/call-chain tables.
func Stitch(ctx *runctx.RunContext, descriptors []RunDescriptor, cfg Config, load Loader) *Stitched {
	if ctx == nil {
		ctx = runctx.Default()
	}

	slots := make([]*stats.StatsRec, len(descriptors))
	labels := make([]string, len(descriptors))

	for i, d := range descriptors {
		labels[i] = d.Label

		rec, err := load(d.Path)
		if err != nil {
			ctx.Report.Append(report.Summary, "failed to load run %q (%s): %v, keeping slot empty", d.Label, d.Path, err)

			continue
		}

		slots[i] = rec
	}

	result := &Stitched{
		Labels:    labels,
		Slots:     slots,
		Basic:     BuildBasicTable(slots),
		Method:    BuildMethodTable(slots),
		CallChain: BuildCallChainTable(slots),
	}

	result.BasicStats = ComputeTableStats(result.Basic, cfg)
	result.MethodStats = ComputeTableStats(result.Method, cfg)
	result.CallChainStats = ComputeTableStats(result.CallChain, cfg)

	return result
}

// TaggedAnomaly is a flagged row, tagged with which table it came from.
type TaggedAnomaly struct {
	Table string
	RowStats
}

// AllAnomalies collects the flagged rows from Basic, Method, and
// CallChain, in that order.
func (s *Stitched) AllAnomalies() []TaggedAnomaly {
	var out []TaggedAnomaly

	for _, a := range Anomalies(s.BasicStats) {
		out = append(out, TaggedAnomaly{Table: "basic", RowStats: a})
	}

	for _, a := range Anomalies(s.MethodStats) {
		out = append(out, TaggedAnomaly{Table: "method", RowStats: a})
	}

	for _, a := range Anomalies(s.CallChainStats) {
		out = append(out, TaggedAnomaly{Table: "call_chain", RowStats: a})
	}

	return out
}
