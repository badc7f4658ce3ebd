package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Render emits a Mermaid flowchart for g: the focus node styled distinctly
// from ordinary nodes, emphasized nodes and chain-link edges styled to
// stand out, and edge labels carrying the value selected by mode. Node and
// edge iteration order is sorted by key so repeated renders of the same
// graph are byte-identical.
func Render(g *Graph, mode EdgeValueMode) string {
	var b strings.Builder

	b.WriteString("flowchart LR\n")

	keys := make([]NodeKey, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	ids := make(map[NodeKey]string, len(keys))
	for i, k := range keys {
		ids[k] = fmt.Sprintf("n%d", i)
	}

	for _, k := range keys {
		n := g.nodes[k]
		fmt.Fprintf(&b, "    %s[%q]\n", ids[k], string(k))

		if n.Type == Emphasized {
			fmt.Fprintf(&b, "    style %s stroke-width:3px\n", ids[k])
		}

		if n.Position == Center {
			fmt.Fprintf(&b, "    style %s fill:#f96\n", ids[k])
		}
	}

	edgeKeys := make([]edgeKey, 0, len(g.edges))
	for ek := range g.edges {
		edgeKeys = append(edgeKeys, ek)
	}

	sort.Slice(edgeKeys, func(i, j int) bool {
		if edgeKeys[i].From != edgeKeys[j].From {
			return edgeKeys[i].From < edgeKeys[j].From
		}

		return edgeKeys[i].To < edgeKeys[j].To
	})

	for _, ek := range edgeKeys {
		e := g.edges[ek]

		fromID, toID := ids[ek.From], ids[ek.To]
		if fromID == "" || toID == "" {
			continue
		}

		arrow := "-->"
		if e.LinkType == ChainLink {
			arrow = "==>"
		}

		fmt.Fprintf(&b, "    %s %s|%s| %s\n", fromID, arrow, formatEdgeValue(e.EdgeValue, mode), toID)
	}

	return b.String()
}

func formatEdgeValue(v float64, mode EdgeValueMode) string {
	switch mode {
	case EdgeValueCount:
		return fmt.Sprintf("%.0f", v)
	case EdgeValueAvgDuration:
		return fmt.Sprintf("%.1fms", v)
	case EdgeValueRate:
		return fmt.Sprintf("%.2f/s", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
