// Package graph implements the service-operation graph projector (C7):
// given the chains aggregated for a run, it builds a node/edge graph
// focused on a chosen service/operation, classifies every chain's
// relationship to that focus, and prunes the result to a requested scope
// for Mermaid rendering.
package graph

import (
	"fmt"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/pkg/toposort"
)

// Position locates a node relative to the graph's focus node.
type Position int

// The three node positions.
const (
	Center Position = iota
	Inbound
	Outbound
)

// ServiceOperationType distinguishes the focus node (and, when a chain key
// is selected, every node on that chain) from ordinary nodes.
type ServiceOperationType int

// The two node emphasis levels.
const (
	Default ServiceOperationType = iota
	Emphasized
)

// LinkType records whether an edge belongs to the currently selected
// call chain.
type LinkType int

// The two edge link types.
const (
	PlainLink LinkType = iota
	ChainLink
)

// EdgeValueMode selects which quantity an edge's EdgeValue carries.
type EdgeValueMode int

// The three edge value modes.
const (
	EdgeValueCount EdgeValueMode = iota
	EdgeValueAvgDuration
	EdgeValueRate
)

// Scope prunes nodes by their Position before Mermaid emission.
type Scope int

// The four scopes.
const (
	ScopeFull Scope = iota
	ScopeInbound
	ScopeOutbound
	ScopeCentered
)

// NodeKey identifies a node as "service/operation".
type NodeKey string

// Node is one (service, operation) pair in the projected graph.
type Node struct {
	Key      NodeKey
	Position Position
	Type     ServiceOperationType
}

// edgeKey identifies a directed edge by its endpoints.
type edgeKey struct {
	From, To NodeKey
}

// Edge is one directed (from, to) call relationship.
type Edge struct {
	From             NodeKey
	To               NodeKey
	EdgeValue        float64
	LinkType         LinkType
	InboundPathCount int
}

// Graph is the projected service-operation graph. Its structural
// adjacency is held in an adapted pkg/toposort.Graph (used directly by
// the acyclic-per-chain invariant test, via Toposort); per-node and
// per-edge domain attributes live in side maps keyed by NodeKey/edgeKey.
type Graph struct {
	topo  *toposort.Graph
	nodes map[NodeKey]*Node
	edges map[edgeKey]*Edge
}

// New returns an empty projected graph.
func New() *Graph {
	return &Graph{
		topo:  toposort.NewGraph(),
		nodes: make(map[NodeKey]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// MakeNodeKey builds the canonical node key for a call.
func MakeNodeKey(call callchain.Call) NodeKey {
	return NodeKey(fmt.Sprintf("%s/%s", call.Process, call.Method))
}

func (g *Graph) upsertNode(key NodeKey, position Position) *Node {
	n, ok := g.nodes[key]
	if !ok {
		n = &Node{Key: key, Position: position, Type: Default}
		g.nodes[key] = n
		g.topo.AddNode(string(key))

		return n
	}

	return n
}

func (g *Graph) upsertEdge(from, to NodeKey, value float64) *Edge {
	key := edgeKey{from, to}

	e, ok := g.edges[key]
	if !ok {
		e = &Edge{From: from, To: to, EdgeValue: value}
		g.edges[key] = e
		g.topo.AddEdge(string(from), string(to))

		return e
	}

	e.EdgeValue += value

	return e
}

// Nodes returns every node in the graph.
func (g *Graph) Nodes() map[NodeKey]*Node {
	return g.nodes
}

// Edges returns every edge in the graph.
func (g *Graph) Edges() map[edgeKey]*Edge {
	return g.edges
}

// Toposort exposes the underlying structural ordering, used by tests
// asserting that a single chain's contribution to the graph is acyclic.
func (g *Graph) Toposort() ([]string, bool) {
	return g.topo.Toposort()
}
