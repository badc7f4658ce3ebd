package graph

import (
	"strings"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/report"
)

// Embedding classifies one chain's relationship to the focus node.
type Embedding int

// The three embedding classes.
const (
	EmbeddingNone Embedding = iota
	Embedded
	Extended
)

// ChainInput pairs an aggregated chain with the numeric value its edge
// should carry (count, average duration, or rate, chosen by the caller
// per the requested EdgeValueMode).
type ChainInput struct {
	Chain callchain.Chain
	Value float64
}

// Classify reports how chain relates to focus: Embedded if the chain's
// path reaches focus and does not continue past it, Extended if it
// continues downstream of focus, None if it never reaches focus at all.
func Classify(chain callchain.Chain, focus NodeKey) Embedding {
	for i, call := range chain.Calls {
		if MakeNodeKey(call) != focus {
			continue
		}

		if i == len(chain.Calls)-1 {
			return Embedded
		}

		return Extended
	}

	return EmbeddingNone
}

// Project builds the service-operation graph focused on focus. chains is
// every call chain aggregated for the run; selectedChain, if non-empty,
// additionally emphasizes the matching chain's nodes/edges and marks
// inbound-path reachability along chains sharing its prefix up to focus.
func Project(chains []ChainInput, focus NodeKey, selectedChain callchain.Key, sink *report.Sink) *Graph {
	g := New()
	g.upsertNode(focus, Center)

	var selectedPrefix []callchain.Call

	if selectedChain != "" {
		if calls, _, _, err := callchain.ParseKey(selectedChain); err == nil {
			selectedPrefix = prefixUpTo(calls, focus)
		}
	}

	for _, ci := range chains {
		embedding := Classify(ci.Chain, focus)
		if embedding == EmbeddingNone {
			continue
		}

		if len(ci.Chain.Calls) < 1 {
			if sink != nil {
				sink.Append(report.Details, "skipping empty chain while projecting graph for %q", focus)
			}

			continue
		}

		position := Inbound
		if embedding == Extended {
			position = Outbound
		}

		for _, call := range ci.Chain.Calls {
			key := MakeNodeKey(call)
			if key != focus {
				g.upsertNode(key, position)
			}
		}

		if len(ci.Chain.Calls) >= 2 {
			last := ci.Chain.Calls[len(ci.Chain.Calls)-1]
			secondLast := ci.Chain.Calls[len(ci.Chain.Calls)-2]

			edge := g.upsertEdge(MakeNodeKey(secondLast), MakeNodeKey(last), ci.Value)

			if len(selectedPrefix) > 0 && chainSharesPrefix(ci.Chain.Calls, selectedPrefix) {
				edge.InboundPathCount++
			}
		}
	}

	if len(selectedPrefix) > 0 {
		emphasizeChain(g, selectedPrefix)
	}

	if n, ok := g.nodes[focus]; ok {
		n.Type = Emphasized
	}

	return g
}

// prefixUpTo returns calls up to and including the first occurrence of
// focus, or the full slice if focus never appears.
func prefixUpTo(calls []callchain.Call, focus NodeKey) []callchain.Call {
	for i, c := range calls {
		if MakeNodeKey(c) == focus {
			return calls[:i+1]
		}
	}

	return calls
}

func chainSharesPrefix(calls []callchain.Call, prefix []callchain.Call) bool {
	if len(calls) < len(prefix) {
		return false
	}

	for i, c := range prefix {
		if calls[i] != c {
			return false
		}
	}

	return true
}

func emphasizeChain(g *Graph, calls []callchain.Call) {
	for i, call := range calls {
		key := MakeNodeKey(call)
		if n, ok := g.nodes[key]; ok {
			n.Type = Emphasized
		}

		if i == 0 {
			continue
		}

		from := MakeNodeKey(calls[i-1])
		if e, ok := g.edges[edgeKey{from, key}]; ok {
			e.LinkType = ChainLink
		}
	}
}

// SanitizeServiceOperation replaces path separators in a NodeKey so it is
// safe to use as a Mermaid-output filename stem.
func SanitizeServiceOperation(key NodeKey) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(string(key))
}
