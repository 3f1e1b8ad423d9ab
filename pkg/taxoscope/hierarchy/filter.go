package hierarchy

import "github.com/taxoscope/taxoscope/pkg/taxoscope/report"

// FilterDomains prunes the tree to nodes whose ancestor chain (including
// the node itself) never passes through a domain-rank node outside the
// allowed set. Surviving nodes keep their original ids and ordering, so
// applying the same filter twice is a no-op.
func FilterDomains(t *Tree, allowed []string) *Tree {
	allow := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allow[name] = struct{}{}
	}

	keep := make(map[int]bool, len(t.nodes))
	var kept []Node

	// Pre-order ids guarantee parents are decided before children.
	for _, n := range t.nodes {
		ok := n.Parent < 0 || keep[n.Parent]
		if ok && n.Record.Rank == report.RankDomain {
			_, ok = allow[n.Record.Name]
		}
		keep[n.ID] = ok
		if ok {
			kept = append(kept, n)
		}
	}

	for i := range kept {
		var children []int
		for _, c := range kept[i].Children {
			if keep[c] {
				children = append(children, c)
			}
		}
		kept[i].Children = children
	}

	return index(kept)
}
