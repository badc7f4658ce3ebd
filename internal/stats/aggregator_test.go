package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/rawjaeger"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/span"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

func twoSpanItem() rawjaeger.Item {
	return rawjaeger.Item{
		TraceID: "t1",
		Spans: []rawjaeger.Span{
			{
				TraceID: "t1", SpanID: "s1", OperationName: "POST",
				StartTime: 1000, Duration: 10000, ProcessID: "p1",
			},
			{
				TraceID: "t1", SpanID: "s2", OperationName: "GET",
				StartTime: 1001, Duration: 4000, ProcessID: "p2",
				References: []rawjaeger.Reference{{RefType: "CHILD_OF", TraceID: "t1", SpanID: "s1"}},
				Tags: []rawjaeger.Tag{
					rawjaeger.NewNumberTag("http.status_code", 500),
				},
			},
		},
		Processes: map[string]rawjaeger.Process{
			"p1": {ServiceName: "svcA"},
			"p2": {ServiceName: "svcB"},
		},
	}
}

func TestAggregatorAddTraceBuildsLeafStats(t *testing.T) {
	t.Parallel()

	ctx := runctx.Default()
	trace := span.Normalize(ctx, twoSpanItem())

	agg := stats.NewAggregator(ctx, 1, nil, nil)
	agg.AddTrace(trace)

	rec := agg.StatsRec()
	require.Contains(t, rec.Leaves, "svcB")

	leaf := rec.Leaves["svcB"]
	assert.Equal(t, int64(1), leaf.OperationStats.Count)
	assert.Equal(t, int64(1), leaf.OperationStats.NonOKHTTPCount)

	summary := agg.Summary()
	assert.Equal(t, 1, summary.TraceCount)
	assert.Equal(t, int64(2), summary.SpanCount)
}
