package graph

// Filter returns a new Graph containing only the nodes permitted by scope
// (and every edge whose endpoints both survive the filter). For ScopeFull it
// returns g itself, not a copy.
func Filter(g *Graph, scope Scope) *Graph {
	if scope == ScopeFull {
		return g
	}

	keep := func(p Position) bool {
		switch scope {
		case ScopeInbound:
			return p == Inbound || p == Center
		case ScopeOutbound:
			return p == Outbound || p == Center
		case ScopeCentered:
			return p == Center
		default:
			return true
		}
	}

	out := New()

	for key, n := range g.nodes {
		if keep(n.Position) {
			out.nodes[key] = &Node{Key: n.Key, Position: n.Position, Type: n.Type}
			out.topo.AddNode(string(key))
		}
	}

	for ek, e := range g.edges {
		if _, fromOK := out.nodes[ek.From]; !fromOK {
			continue
		}

		if _, toOK := out.nodes[ek.To]; !toOK {
			continue
		}

		out.edges[ek] = &Edge{
			From: e.From, To: e.To, EdgeValue: e.EdgeValue,
			LinkType: e.LinkType, InboundPathCount: e.InboundPathCount,
		}
		out.topo.AddEdge(string(ek.From), string(ek.To))
	}

	return out
}
