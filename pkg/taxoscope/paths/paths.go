// Package paths derives the flat ancestor-path table behind the icicle and
// sunburst charts. Its filtering policy is independent of the Sankey
// top-K selection: one global minimum-reads threshold.
package paths

import (
	"sort"
	"strconv"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
)

// Row links a taxon to its parent by label. The chart downstream keys
// strictly by label string, so labels must be unique per table.
type Row struct {
	Taxon  string `json:"taxon"`
	Parent string `json:"parent"`
	Reads  int64  `json:"reads"`
}

// Table is the external path shape consumed by the rendering collaborator.
type Table struct {
	Rows []Row `json:"rows"`
}

// Build retains every node with at least minReads assigned reads, together
// with its full ancestor chain, and emits one row per retained taxon. The
// root anchor never gets a row of its own: its children carry its label in
// their parent field, and a retained node with no parent at all uses the
// empty-string sentinel. Retained nodes sharing a name are disambiguated
// by suffixing the node id onto the label. A threshold of 0 returns the
// whole tree; a threshold above every node's assigned reads returns an
// empty table.
func Build(t *hierarchy.Tree, minReads int64) Table {
	retained := make(map[int]bool)
	for _, n := range t.Nodes() {
		if n.IsAnchor() || n.Record.ReadsAssigned < minReads {
			continue
		}
		for id := n.ID; id >= 0 && !retained[id]; {
			node, ok := t.Node(id)
			if !ok || node.IsAnchor() {
				break
			}
			retained[id] = true
			id = node.Parent
		}
	}

	nameCount := make(map[string]int)
	var emit []hierarchy.Node
	for _, n := range t.Nodes() {
		if retained[n.ID] {
			emit = append(emit, n)
			nameCount[n.Record.Name]++
		}
	}

	label := func(n hierarchy.Node) string {
		if nameCount[n.Record.Name] > 1 {
			return n.Record.Name + "_" + strconv.Itoa(n.ID)
		}
		return n.Record.Name
	}

	sort.Slice(emit, func(i, j int) bool {
		if emit[i].Record.ReadsAssigned != emit[j].Record.ReadsAssigned {
			return emit[i].Record.ReadsAssigned > emit[j].Record.ReadsAssigned
		}
		return emit[i].ID < emit[j].ID
	})

	rows := make([]Row, 0, len(emit))
	for _, n := range emit {
		parent := ""
		if n.Parent >= 0 {
			if p, ok := t.Node(n.Parent); ok {
				if p.IsAnchor() {
					parent = p.Record.Name
				} else {
					parent = label(p)
				}
			}
		}
		rows = append(rows, Row{
			Taxon:  label(n),
			Parent: parent,
			Reads:  n.Record.ReadsAssigned,
		})
	}
	return Table{Rows: rows}
}

// Placeholder returns a structurally valid empty table.
func Placeholder() Table {
	return Table{Rows: []Row{}}
}
