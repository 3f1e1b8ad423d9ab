// Package toplist lists the most abundant taxa at the selected rank
// letters.
package toplist

import (
	"sort"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
)

// Row is one entry of the abundance list. Reads is the count assigned to
// the taxon alone, not its clade.
type Row struct {
	Name  string `json:"name"`
	TaxID int64  `json:"tax_id"`
	Code  string `json:"rank"`
	Reads int64  `json:"reads"`
}

// Table holds the abundance list, most abundant first.
type Table struct {
	Rows []Row `json:"rows"`
}

// Build returns the n taxa with the most assigned reads among nodes whose
// rank code is in letters, ordered descending with ascending node id as
// the tiebreak.
func Build(t *hierarchy.Tree, letters []string, n int) Table {
	sel := make(map[string]struct{}, len(letters))
	for _, l := range letters {
		sel[l] = struct{}{}
	}

	var nodes []hierarchy.Node
	for _, node := range t.Nodes() {
		if _, ok := sel[node.Record.Code]; ok {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Record.ReadsAssigned != nodes[j].Record.ReadsAssigned {
			return nodes[i].Record.ReadsAssigned > nodes[j].Record.ReadsAssigned
		}
		return nodes[i].ID < nodes[j].ID
	})
	if n >= 0 && len(nodes) > n {
		nodes = nodes[:n]
	}

	rows := make([]Row, 0, len(nodes))
	for _, node := range nodes {
		rows = append(rows, Row{
			Name:  node.Record.Name,
			TaxID: node.Record.TaxID,
			Code:  node.Record.Code,
			Reads: node.Record.ReadsAssigned,
		})
	}
	return Table{Rows: rows}
}
