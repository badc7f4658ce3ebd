package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/graph"
)

func chainOf(calls ...callchain.Call) callchain.Chain {
	return callchain.Chain{Calls: calls}
}

func TestClassifyEmbeddedWhenChainEndsAtFocus(t *testing.T) {
	t.Parallel()

	chain := chainOf(
		callchain.Call{Process: "svcA", Method: "POST"},
		callchain.Call{Process: "svcB", Method: "GET"},
	)

	focus := graph.MakeNodeKey(callchain.Call{Process: "svcB", Method: "GET"})

	assert.Equal(t, graph.Embedded, graph.Classify(chain, focus))
}

func TestClassifyExtendedWhenChainContinuesPastFocus(t *testing.T) {
	t.Parallel()

	chain := chainOf(
		callchain.Call{Process: "svcA", Method: "POST"},
		callchain.Call{Process: "svcB", Method: "GET"},
		callchain.Call{Process: "svcC", Method: "PUT"},
	)

	focus := graph.MakeNodeKey(callchain.Call{Process: "svcB", Method: "GET"})

	assert.Equal(t, graph.Extended, graph.Classify(chain, focus))
}

func TestClassifyNoneWhenChainNeverReachesFocus(t *testing.T) {
	t.Parallel()

	chain := chainOf(callchain.Call{Process: "svcX", Method: "GET"})
	focus := graph.MakeNodeKey(callchain.Call{Process: "svcB", Method: "GET"})

	assert.Equal(t, graph.EmbeddingNone, graph.Classify(chain, focus))
}

func TestProjectBuildsEdgeAndEmphasizesFocus(t *testing.T) {
	t.Parallel()

	svcA := callchain.Call{Process: "svcA", Method: "POST"}
	svcB := callchain.Call{Process: "svcB", Method: "GET"}
	focus := graph.MakeNodeKey(svcB)

	g := graph.Project([]graph.ChainInput{
		{Chain: chainOf(svcA, svcB), Value: 3},
	}, focus, "", nil)

	nodes := g.Nodes()
	require.Contains(t, nodes, focus)
	assert.Equal(t, graph.Emphasized, nodes[focus].Type)

	edges := g.Edges()
	require.Len(t, edges, 1)

	for _, e := range edges {
		assert.InDelta(t, 3.0, e.EdgeValue, 0.0001)
	}
}

func TestProjectIsAcyclicPerChain(t *testing.T) {
	t.Parallel()

	svcA := callchain.Call{Process: "svcA", Method: "POST"}
	svcB := callchain.Call{Process: "svcB", Method: "GET"}
	focus := graph.MakeNodeKey(svcB)

	g := graph.Project([]graph.ChainInput{{Chain: chainOf(svcA, svcB), Value: 1}}, focus, "", nil)

	_, acyclic := g.Toposort()
	assert.True(t, acyclic)
}

func TestFilterScopeInboundDropsOutboundNodes(t *testing.T) {
	t.Parallel()

	svcA := callchain.Call{Process: "svcA", Method: "POST"}
	svcB := callchain.Call{Process: "svcB", Method: "GET"}
	svcC := callchain.Call{Process: "svcC", Method: "PUT"}
	focus := graph.MakeNodeKey(svcB)

	g := graph.Project([]graph.ChainInput{
		{Chain: chainOf(svcA, svcB), Value: 1},
		{Chain: chainOf(svcA, svcB, svcC), Value: 1},
	}, focus, "", nil)

	filtered := graph.Filter(g, graph.ScopeInbound)

	_, hasC := filtered.Nodes()[graph.MakeNodeKey(svcC)]
	assert.False(t, hasC)

	_, hasA := filtered.Nodes()[graph.MakeNodeKey(svcA)]
	assert.True(t, hasA)
}

func TestCompactCollapsesServiceNodes(t *testing.T) {
	t.Parallel()

	svcA1 := callchain.Call{Process: "svcA", Method: "POST"}
	svcA2 := callchain.Call{Process: "svcA", Method: "PUT"}
	svcB := callchain.Call{Process: "svcB", Method: "GET"}
	focus := graph.MakeNodeKey(svcB)

	g := graph.Project([]graph.ChainInput{
		{Chain: chainOf(svcA1, svcB), Value: 2},
		{Chain: chainOf(svcA2, svcB), Value: 3},
	}, focus, "", nil)

	compacted := graph.Compact(g)

	svcANode := graph.NodeKey("svcA")
	require.Contains(t, compacted.Nodes(), svcANode)

	var total float64
	for _, e := range compacted.Edges() {
		total += e.EdgeValue
	}

	assert.InDelta(t, 5.0, total, 0.0001)
}

func TestSanitizeServiceOperationReplacesSlashes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "svcA_POST", graph.SanitizeServiceOperation(graph.NodeKey("svcA/POST")))
}
