package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricTracesIngested   = "jaeger_stats.traces.ingested"
	metricSpansNormalized  = "jaeger_stats.spans.normalized"
	metricSpansOrphaned    = "jaeger_stats.spans.orphaned"
	metricChainsExtracted  = "jaeger_stats.chains.extracted"
	metricRunsStitched     = "jaeger_stats.runs.stitched"
	metricAnomaliesFlagged = "jaeger_stats.anomalies.flagged"
	metricStageDuration    = "jaeger_stats.stage.duration.seconds"

	attrFile  = "file"
	attrStage = "stage"
)

// stageDurationBoundaries covers sub-millisecond table lookups up to
// multi-minute ingests of large trace dumps.
var stageDurationBoundaries = []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300}

// PipelineMetrics holds the OTel instruments recording progress through the
// ingest -> stats -> stitch -> graph pipeline. A nil *PipelineMetrics is not
// valid; always construct through NewPipelineMetrics.
type PipelineMetrics struct {
	tracesIngested   metric.Int64Counter
	spansNormalized  metric.Int64Counter
	spansOrphaned    metric.Int64Counter
	chainsExtracted  metric.Int64Counter
	runsStitched     metric.Int64Counter
	anomaliesFlagged metric.Int64Counter
	stageDuration    metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instrument set from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	tracesIngested, err := mt.Int64Counter(metricTracesIngested,
		metric.WithDescription("Number of Jaeger traces ingested"),
		metric.WithUnit("{trace}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTracesIngested, err)
	}

	spansNormalized, err := mt.Int64Counter(metricSpansNormalized,
		metric.WithDescription("Number of spans normalized into the span tree"),
		metric.WithUnit("{span}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSpansNormalized, err)
	}

	spansOrphaned, err := mt.Int64Counter(metricSpansOrphaned,
		metric.WithDescription("Number of spans whose parent could not be resolved"),
		metric.WithUnit("{span}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSpansOrphaned, err)
	}

	chainsExtracted, err := mt.Int64Counter(metricChainsExtracted,
		metric.WithDescription("Number of call chains extracted from span trees"),
		metric.WithUnit("{chain}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricChainsExtracted, err)
	}

	runsStitched, err := mt.Int64Counter(metricRunsStitched,
		metric.WithDescription("Number of per-run stats records merged into a stitched series"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsStitched, err)
	}

	anomaliesFlagged, err := mt.Int64Counter(metricAnomaliesFlagged,
		metric.WithDescription("Number of call chains flagged anomalous by the stitcher"),
		metric.WithUnit("{anomaly}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricAnomaliesFlagged, err)
	}

	stageDuration, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Wall-clock duration of a pipeline stage"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageDurationBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	return &PipelineMetrics{
		tracesIngested:   tracesIngested,
		spansNormalized:  spansNormalized,
		spansOrphaned:    spansOrphaned,
		chainsExtracted:  chainsExtracted,
		runsStitched:     runsStitched,
		anomaliesFlagged: anomaliesFlagged,
		stageDuration:    stageDuration,
	}, nil
}

// RecordIngest records one ingested trace's contribution to the pipeline,
// attributed to the file it was read from.
func (pm *PipelineMetrics) RecordIngest(ctx context.Context, file string, spans, orphaned int64) {
	attrs := metric.WithAttributes(attribute.String(attrFile, file))
	pm.tracesIngested.Add(ctx, 1, attrs)
	pm.spansNormalized.Add(ctx, spans, attrs)

	if orphaned > 0 {
		pm.spansOrphaned.Add(ctx, orphaned, attrs)
	}
}

// RecordChains records the number of call chains extracted from one trace,
// attributed to the file it was read from.
func (pm *PipelineMetrics) RecordChains(ctx context.Context, file string, count int64) {
	pm.chainsExtracted.Add(ctx, count, metric.WithAttributes(attribute.String(attrFile, file)))
}

// RecordStitch records one run merged into a stitched series and how many
// call chains within it were flagged anomalous.
func (pm *PipelineMetrics) RecordStitch(ctx context.Context, anomalies int64) {
	pm.runsStitched.Add(ctx, 1)

	if anomalies > 0 {
		pm.anomaliesFlagged.Add(ctx, anomalies)
	}
}

// TrackStage returns a function that records the elapsed wall-clock time for
// a named pipeline stage (ingest, normalize, extract, stitch, project) when
// called, typically via defer.
func (pm *PipelineMetrics) TrackStage(ctx context.Context, stage string) func(seconds float64) {
	attrs := metric.WithAttributes(attribute.String(attrStage, stage))

	return func(seconds float64) {
		pm.stageDuration.Record(ctx, seconds, attrs)
	}
}
