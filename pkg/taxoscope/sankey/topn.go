package sankey

import (
	"sort"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
)

// Grid is a rectangular, plot-ready node/edge set. Labels lists every
// surviving tree node in id order followed by Ghosts ghost labels; Edges
// reference node ids, not label positions.
type Grid struct {
	Labels []string
	Edges  []Edge
	Ghosts int
}

// SelectTop keeps, independently per rank column and per effective parent,
// the K children with the most assigned reads (ties broken by ascending
// node id). Dropped siblings leave the edge set entirely; there is no
// aggregate "other" bucket, so column read totals are not conserved after
// filtering. Every column is then padded with zero-weight ghost nodes up
// to the widest column's node count.
func SelectTop(t *hierarchy.Tree, edges []Edge, letters []string, k int, ghostLabel string) Grid {
	col := make(map[string]int, len(letters))
	for i, l := range letters {
		col[l] = i
	}
	colOf := func(e Edge) int {
		n, ok := t.Node(e.Target)
		if !ok {
			return 0
		}
		return col[n.Record.Code]
	}

	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ca, cb := colOf(a), colOf(b); ca != cb {
			return ca < cb
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.Target < b.Target
	})

	var kept []Edge
	widths := make([]int, len(letters))
	run := 0
	for i, e := range sorted {
		if i > 0 && (colOf(e) != colOf(sorted[i-1]) || e.Source != sorted[i-1].Source) {
			run = 0
		}
		if run >= k {
			continue
		}
		run++
		kept = append(kept, e)
		widths[colOf(e)]++
	}

	// Each node has a single effective parent, so targets are unique and
	// ascending-target order is a total, reproducible order.
	sort.Slice(kept, func(i, j int) bool { return kept[i].Target < kept[j].Target })

	maxWidth := 0
	for _, w := range widths {
		if w > maxWidth {
			maxWidth = w
		}
	}
	ghosts := 0
	for _, w := range widths {
		ghosts += maxWidth - w
	}

	labels := make([]string, 0, t.Len()+ghosts)
	for _, n := range t.Nodes() {
		labels = append(labels, n.Record.Name)
	}
	for i := 0; i < ghosts; i++ {
		labels = append(labels, ghostLabel)
	}

	return Grid{Labels: labels, Edges: kept, Ghosts: ghosts}
}
