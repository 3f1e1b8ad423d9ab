package sankey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/report"
)

func rec(name, code string, taxID int64, depth int, assigned int64) report.TaxonRecord {
	rank, _ := report.ParseRank(code)
	return report.TaxonRecord{
		Name:          name,
		Code:          code,
		Rank:          rank,
		TaxID:         taxID,
		Depth:         depth,
		ReadsAssigned: assigned,
	}
}

// threeNodeTree is the root -> Bacteria -> E.coli chain with an unranked
// intermediate that rank compression must skip.
func threeNodeTree() *hierarchy.Tree {
	return hierarchy.Build([]report.TaxonRecord{
		rec("root", "R", 1, 0, 10),
		rec("cellular organisms", "R1", 131567, 1, 5),
		rec("Bacteria", "D", 2, 2, 10),
		rec("E.coli", "S", 562, 3, 80),
	})
}

func TestBuildEdgesRankCompression(t *testing.T) {
	tree := threeNodeTree()
	edges := BuildEdges(tree, []string{"D", "S"})

	want := []Edge{
		{Source: 0, Target: 2, Weight: 10, Label: "Bacteria"},
		{Source: 2, Target: 3, Weight: 80, Label: "E.coli"},
	}
	if diff := cmp.Diff(want, edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEdgesSkipsSubLevels(t *testing.T) {
	// "G1" must not match a selected "G" even though it is a genus sub-level.
	tree := hierarchy.Build([]report.TaxonRecord{
		rec("root", "R", 1, 0, 0),
		rec("Escherichia", "G", 561, 1, 10),
		rec("Escherichia subgroup", "G1", 5610, 2, 5),
		rec("E.coli", "S", 562, 3, 80),
	})
	edges := BuildEdges(tree, []string{"G", "S"})

	require.Len(t, edges, 2)
	assert.Equal(t, 1, edges[0].Target)
	// The species attaches to the genus, not the sub-level between them.
	assert.Equal(t, Edge{Source: 1, Target: 3, Weight: 80, Label: "E.coli"}, edges[1])
}

func TestBuildEdgesAnchorsAtForestRoot(t *testing.T) {
	// A selected node with no selected ancestor links back to the root.
	tree := threeNodeTree()
	edges := BuildEdges(tree, []string{"S"})

	require.Len(t, edges, 1)
	assert.Equal(t, Edge{Source: 0, Target: 3, Weight: 80, Label: "E.coli"}, edges[0])
}

func TestBuildEdgesEmptySelection(t *testing.T) {
	assert.Empty(t, BuildEdges(threeNodeTree(), nil))
}

func wideTree() *hierarchy.Tree {
	return hierarchy.Build([]report.TaxonRecord{
		rec("root", "R", 1, 0, 0),    // 0
		rec("Bacteria", "D", 2, 1, 0), // 1
		rec("a", "S", 10, 2, 50),      // 2
		rec("b", "S", 11, 2, 30),      // 3
		rec("c", "S", 12, 2, 30),      // 4
		rec("d", "S", 13, 2, 70),      // 5
		rec("Archaea", "D", 2157, 1, 0), // 6
		rec("e", "S", 20, 2, 5),       // 7
	})
}

func TestSelectTopPerParent(t *testing.T) {
	tree := wideTree()
	edges := BuildEdges(tree, []string{"D", "S"})
	grid := SelectTop(tree, edges, []string{"D", "S"}, 2, "none")

	// Both domains survive; under Bacteria only the two heaviest species
	// (d, a) remain while Archaea keeps its single child.
	var targets []int
	for _, e := range grid.Edges {
		targets = append(targets, e.Target)
	}
	assert.Equal(t, []int{1, 2, 5, 6, 7}, targets)
}

func TestSelectTopTieBreaksByID(t *testing.T) {
	tree := wideTree()
	edges := BuildEdges(tree, []string{"D", "S"})
	grid := SelectTop(tree, edges, []string{"D", "S"}, 3, "none")

	// b and c tie at 30 reads; the third slot under Bacteria goes to the
	// lower node id.
	var targets []int
	for _, e := range grid.Edges {
		targets = append(targets, e.Target)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7}, targets)
}

func TestSelectTopGhostPadding(t *testing.T) {
	tree := wideTree()
	edges := BuildEdges(tree, []string{"D", "S"})
	grid := SelectTop(tree, edges, []string{"D", "S"}, 2, "none")

	// Widths: D column 2, S column 3 (two under Bacteria, one under
	// Archaea). One ghost pads D up to the widest column.
	require.Equal(t, 1, grid.Ghosts)
	require.Len(t, grid.Labels, tree.Len()+1)
	assert.Equal(t, "none", grid.Labels[len(grid.Labels)-1])
}

func TestSelectTopEqualWidthsNoGhosts(t *testing.T) {
	tree := threeNodeTree()
	edges := BuildEdges(tree, []string{"D", "S"})
	grid := SelectTop(tree, edges, []string{"D", "S"}, 5, "none")
	assert.Zero(t, grid.Ghosts)
}

func TestSelectTopDeterminism(t *testing.T) {
	tree := wideTree()
	edges := BuildEdges(tree, []string{"D", "S"})
	first := SelectTop(tree, edges, []string{"D", "S"}, 2, "none")
	second := SelectTop(tree, edges, []string{"D", "S"}, 2, "none")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("selection not deterministic (-first +second):\n%s", diff)
	}
}

func TestFormatWorkedExample(t *testing.T) {
	tree := threeNodeTree()
	filtered := hierarchy.FilterDomains(tree, []string{"Bacteria"})
	// Drop the unranked intermediate from the selectable set by letter
	// choice; it still occupies a label slot.
	letters := []string{"D", "S"}
	edges := BuildEdges(filtered, letters)
	grid := SelectTop(filtered, edges, letters, 5, "none")
	data := Format(filtered, grid, 30)

	want := Data{
		Labels: []string{"root", "cellular organisms", "Bacteria", "E.coli"},
		Links: Links{
			Source: []int{0, 2},
			Target: []int{2, 3},
			Value:  []int64{10, 80},
			Label:  []string{"Bacteria", "E.coli"},
		},
		Pad: 30,
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("sankey data mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatSparseIDs(t *testing.T) {
	// After domain filtering ids are sparse; link indices must be dense
	// label positions, not raw node ids.
	tree := wideTree()
	filtered := hierarchy.FilterDomains(tree, []string{"Archaea"})
	edges := BuildEdges(filtered, []string{"D", "S"})
	grid := SelectTop(filtered, edges, []string{"D", "S"}, 5, "none")
	data := Format(filtered, grid, 30)

	require.Equal(t, []string{"root", "Archaea", "e"}, data.Labels)
	assert.Equal(t, []int{0, 1}, data.Links.Source)
	assert.Equal(t, []int{1, 2}, data.Links.Target)
}

func TestPlaceholder(t *testing.T) {
	data := Placeholder(30)
	assert.NotNil(t, data.Labels)
	assert.NotNil(t, data.Links.Source)
	assert.Empty(t, data.Links.Source)
	assert.Equal(t, 30, data.Pad)
}
