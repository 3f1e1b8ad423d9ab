// Package hierarchy reconstructs the taxonomic tree implicit in a report's
// depth-annotated rows and prunes it by top-level domain.
package hierarchy

import (
	"github.com/taxoscope/taxoscope/pkg/taxoscope/report"
)

// Node is one taxon in the reconstructed forest. IDs are assigned in row
// order starting at 0, so re-indexing identical rows always yields
// identical ids.
type Node struct {
	ID       int
	Record   report.TaxonRecord
	Parent   int // -1 when the node is a forest root
	Children []int
}

// IsAnchor reports whether the node is the injected root-row anchor: a
// forest root carrying the reserved root rank. The anchor belongs to the
// node table but is not a taxon; path output never emits a row for it.
func (n Node) IsAnchor() bool {
	return n.Parent == -1 && n.Record.Rank == report.RankRoot
}

type nameKey struct {
	name  string
	taxID int64
}

// Tree is an immutable node table. A filtered Tree keeps the original node
// ids, so ids may be sparse; positional indexing (Pos) gives the dense
// label index used by layout output.
type Tree struct {
	nodes []Node
	pos   map[int]int
	names map[nameKey]int
	byTax map[int64]int
}

// Build walks records in order, maintaining a stack of (depth, id) pairs.
// A row at depth d pops the stack while its top is at depth >= d and links
// to the remaining top, if any. Rows whose depth jumps by more than one
// level therefore attach to the nearest preceding shallower row; no
// intermediate nodes are fabricated.
func Build(records []report.TaxonRecord) *Tree {
	nodes := make([]Node, len(records))

	type frame struct {
		depth int
		id    int
	}
	var stack []frame

	for i, rec := range records {
		for len(stack) > 0 && stack[len(stack)-1].depth >= rec.Depth {
			stack = stack[:len(stack)-1]
		}
		parent := -1
		if len(stack) > 0 {
			parent = stack[len(stack)-1].id
		}
		nodes[i] = Node{ID: i, Record: rec, Parent: parent}
		if parent >= 0 {
			nodes[parent].Children = append(nodes[parent].Children, i)
		}
		stack = append(stack, frame{depth: rec.Depth, id: i})
	}

	return index(nodes)
}

func index(nodes []Node) *Tree {
	t := &Tree{
		nodes: nodes,
		pos:   make(map[int]int, len(nodes)),
		names: make(map[nameKey]int, len(nodes)),
		byTax: make(map[int64]int, len(nodes)),
	}
	for i, n := range nodes {
		t.pos[n.ID] = i
		// Keyed by (name, tax id): distinct lineages may share a leaf name.
		t.names[nameKey{name: n.Record.Name, taxID: n.Record.TaxID}] = n.ID
		t.byTax[n.Record.TaxID] = n.ID
	}
	return t
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns the node table in id order. Callers must not mutate it.
func (t *Tree) Nodes() []Node { return t.nodes }

// Node returns the node with the given id.
func (t *Tree) Node(id int) (Node, bool) {
	if i, ok := t.pos[id]; ok {
		return t.nodes[i], true
	}
	return Node{}, false
}

// Pos returns the dense position of the node id in the table.
func (t *Tree) Pos(id int) (int, bool) {
	i, ok := t.pos[id]
	return i, ok
}

// Find looks up a node by its (name, tax id) pair.
func (t *Tree) Find(name string, taxID int64) (Node, bool) {
	if id, ok := t.names[nameKey{name: name, taxID: taxID}]; ok {
		return t.Node(id)
	}
	return Node{}, false
}

// FindTaxID looks up a node by tax id alone.
func (t *Tree) FindTaxID(taxID int64) (Node, bool) {
	if id, ok := t.byTax[taxID]; ok {
		return t.Node(id)
	}
	return Node{}, false
}
