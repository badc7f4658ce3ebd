package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/graph"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

func TestChainsFromStatsRecUsesCountByDefault(t *testing.T) {
	t.Parallel()

	rec := stats.NewStatsRec(1)
	rec.Observe(stats.Observation{
		Chain: callchain.Chain{Calls: []callchain.Call{
			{Process: "svcA", Method: "POST"}, {Process: "svcB", Method: "GET"},
		}},
		DurationMicros: 5_000,
		Rooted:         true,
	})

	chains := graph.ChainsFromStatsRec(rec, graph.EdgeValueCount)

	require.Len(t, chains, 1)
	assert.Equal(t, 1.0, chains[0].Value)
	assert.Len(t, chains[0].Chain.Calls, 2)
}
