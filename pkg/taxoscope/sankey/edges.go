// Package sankey builds the rank-aligned flow graph: rank-compressed
// parent/child edges, per-column top-K selection with ghost padding, and
// the final plot-ready shape.
package sankey

import (
	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
)

// Edge connects a node to its effective parent. Weight is the target's
// assigned reads; reads of skipped intermediate ranks are not aggregated
// onto the edge.
type Edge struct {
	Source int
	Target int
	Weight int64
	Label  string
}

// BuildEdges produces one edge per node whose rank code is in the selected
// letter set. The edge source is the nearest strict ancestor with a
// selected code (rank compression); a node with no such ancestor attaches
// to its forest root. Nodes are visited in id order, so output ordering is
// stable across runs.
func BuildEdges(t *hierarchy.Tree, letters []string) []Edge {
	sel := make(map[string]struct{}, len(letters))
	for _, l := range letters {
		sel[l] = struct{}{}
	}

	var edges []Edge
	for _, n := range t.Nodes() {
		if _, ok := sel[n.Record.Code]; !ok {
			continue
		}
		src := effectiveParent(t, n, sel)
		if src < 0 {
			continue
		}
		edges = append(edges, Edge{
			Source: src,
			Target: n.ID,
			Weight: n.Record.ReadsAssigned,
			Label:  n.Record.Name,
		})
	}
	return edges
}

func effectiveParent(t *hierarchy.Tree, n hierarchy.Node, sel map[string]struct{}) int {
	id := n.Parent
	for id >= 0 {
		p, ok := t.Node(id)
		if !ok {
			return -1
		}
		if _, selected := sel[p.Record.Code]; selected {
			return p.ID
		}
		if p.Parent < 0 {
			// No selected ancestor: anchor at the forest root.
			return p.ID
		}
		id = p.Parent
	}
	return -1
}
