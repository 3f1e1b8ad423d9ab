// Package watchlist reports the abundance of configured species of
// interest, in the configured order, whether or not the classifier has
// seen them yet.
package watchlist

import (
	"math"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
)

// NotFoundName marks a configured tax id absent from the current snapshot.
const NotFoundName = "not found in DB"

// Row is one watched species.
type Row struct {
	Name       string  `json:"name"`
	TaxID      int64   `json:"tax_id"`
	Reads      int64   `json:"reads"`
	Percent    float64 `json:"percent"`
	Log10Reads float64 `json:"log10_reads"`
}

// Table lists every watched species plus the highest log10 read count,
// which gauge-style consumers display directly.
type Table struct {
	Rows     []Row   `json:"rows"`
	MaxLog10 float64 `json:"max_log10_reads"`
}

// Build produces one row per watched tax id, preserving the configured
// order. IDs missing from the snapshot yield a zero-count placeholder row.
func Build(t *hierarchy.Tree, taxIDs []int64) Table {
	rows := make([]Row, 0, len(taxIDs))
	maxLog := 0.0

	for _, id := range taxIDs {
		row := Row{Name: NotFoundName, TaxID: id}
		if n, ok := t.FindTaxID(id); ok {
			row.Name = n.Record.Name
			row.Reads = n.Record.ReadsAssigned
			row.Percent = n.Record.Percent
			if row.Reads > 0 {
				row.Log10Reads = math.Log10(float64(row.Reads))
			}
		}
		if row.Log10Reads > maxLog {
			maxLog = row.Log10Reads
		}
		rows = append(rows, row)
	}

	return Table{Rows: rows, MaxLog10: maxLog}
}
