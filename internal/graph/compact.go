package graph

import "strings"

// serviceOf returns the service portion of a "service/operation" NodeKey.
func serviceOf(key NodeKey) string {
	service, _, _ := strings.Cut(string(key), "/")

	return service
}

// Compact collapses every node belonging to the same service into a
// single service-level node, summing the EdgeValue of any edges that
// collapse onto the same pair as a result. Node Position/Type is taken
// from whichever constituent node is most significant (Center beats
// Inbound/Outbound, Emphasized beats Default).
func Compact(g *Graph) *Graph {
	out := New()

	serviceKey := func(key NodeKey) NodeKey {
		return NodeKey(serviceOf(key))
	}

	for _, n := range g.nodes {
		sk := serviceKey(n.Key)

		existing, ok := out.nodes[sk]
		if !ok {
			out.nodes[sk] = &Node{Key: sk, Position: n.Position, Type: n.Type}
			out.topo.AddNode(string(sk))

			continue
		}

		if n.Position == Center {
			existing.Position = Center
		}

		if n.Type == Emphasized {
			existing.Type = Emphasized
		}
	}

	for ek, e := range g.edges {
		from := serviceKey(ek.From)
		to := serviceKey(ek.To)

		if from == to {
			continue
		}

		key := edgeKey{from, to}

		existing, ok := out.edges[key]
		if !ok {
			out.edges[key] = &Edge{
				From: from, To: to, EdgeValue: e.EdgeValue,
				LinkType: e.LinkType, InboundPathCount: e.InboundPathCount,
			}
			out.topo.AddEdge(string(from), string(to))

			continue
		}

		existing.EdgeValue += e.EdgeValue
		existing.InboundPathCount += e.InboundPathCount

		if e.LinkType == ChainLink {
			existing.LinkType = ChainLink
		}
	}

	return out
}
