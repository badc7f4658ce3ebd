package span_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/rawjaeger"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/span"
)

func twoSpanItem() rawjaeger.Item {
	return rawjaeger.Item{
		TraceID: "t1",
		Spans: []rawjaeger.Span{
			{
				TraceID: "t1", SpanID: "s1", OperationName: "POST",
				StartTime: 1000, Duration: 10000, ProcessID: "p1",
				Tags: []rawjaeger.Tag{rawjaeger.NewStringTag("span.kind", "server")},
			},
			{
				TraceID: "t1", SpanID: "s2", OperationName: "GET",
				StartTime: 1001, Duration: 4000, ProcessID: "p2",
				References: []rawjaeger.Reference{{RefType: "CHILD_OF", TraceID: "t1", SpanID: "s1"}},
				Tags:       []rawjaeger.Tag{rawjaeger.NewStringTag("span.kind", "client")},
			},
		},
		Processes: map[string]rawjaeger.Process{
			"p1": {ServiceName: "svcA"},
			"p2": {ServiceName: "svcB"},
		},
	}
}

func TestNormalizeResolvesParentAndRoot(t *testing.T) {
	t.Parallel()

	trace := span.Normalize(runctx.Default(), twoSpanItem())

	require.Equal(t, "s1", trace.RootID)
	assert.Empty(t, trace.Orphans)

	child := trace.Spans["s2"]
	require.NotNil(t, child)
	assert.Equal(t, "s1", child.ParentID)
	assert.Equal(t, "svcB", child.Service)
	assert.Equal(t, "client", child.Kind)

	assert.True(t, trace.IsLeaf("s2"))
	assert.False(t, trace.IsLeaf("s1"))
}

func TestNormalizeOrphanWhenParentMissing(t *testing.T) {
	t.Parallel()

	item := twoSpanItem()
	item.Spans[1].References = []rawjaeger.Reference{{RefType: "CHILD_OF", TraceID: "t1", SpanID: "missing"}}

	trace := span.Normalize(runctx.Default(), item)

	assert.Contains(t, trace.Orphans, "s2")
}

func TestNormalizeDropsCrossTraceReference(t *testing.T) {
	t.Parallel()

	item := twoSpanItem()
	item.Spans[1].References = []rawjaeger.Reference{{RefType: "CHILD_OF", TraceID: "other-trace", SpanID: "s1"}}

	trace := span.Normalize(runctx.Default(), item)

	child := trace.Spans["s2"]
	assert.Empty(t, child.ParentID)
	assert.Contains(t, trace.Orphans, "s2")
}

func TestNormalizeUnresolvedProcessDegradesNotAborts(t *testing.T) {
	t.Parallel()

	item := twoSpanItem()
	item.Spans[0].ProcessID = "unknown-process"

	trace := span.Normalize(runctx.Default(), item)

	require.NotNil(t, trace.Spans["s1"])
	assert.Empty(t, trace.Spans["s1"].Service)
}
