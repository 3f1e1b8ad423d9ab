package toplist

import (
	"testing"

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

func sampleTree() *hierarchy.Tree {
	return hierarchy.Build([]report.TaxonRecord{
		rec("root", "R", 1, 0, 0),
		rec("Bacteria", "D", 2, 1, 500),
		rec("E.coli", "S", 562, 2, 80),
		rec("S.enterica", "S", 28901, 2, 120),
		rec("B.subtilis", "S", 1423, 2, 80),
	})
}

func TestBuildOrdersByReads(t *testing.T) {
	got := Build(sampleTree(), []string{"S"}, 10)

	require.Len(t, got.Rows, 3)
	assert.Equal(t, "S.enterica", got.Rows[0].Name)
	// 80-read tie resolves to the earlier row.
	assert.Equal(t, "E.coli", got.Rows[1].Name)
	assert.Equal(t, "B.subtilis", got.Rows[2].Name)
}

func TestBuildTruncates(t *testing.T) {
	got := Build(sampleTree(), []string{"S"}, 1)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, Row{Name: "S.enterica", TaxID: 28901, Code: "S", Reads: 120}, got.Rows[0])
}

func TestBuildNegativeNKeepsAll(t *testing.T) {
	got := Build(sampleTree(), []string{"D", "S"}, -1)
	require.Len(t, got.Rows, 4)
	assert.Equal(t, "Bacteria", got.Rows[0].Name)
}

func TestBuildNoMatches(t *testing.T) {
	got := Build(sampleTree(), []string{"G"}, 10)
	assert.NotNil(t, got.Rows)
	assert.Empty(t, got.Rows)
}
