// Package report parses cumulative classification reports: one row per
// taxon, tab-separated columns for percent, cumulative reads, assigned
// reads, rank code and tax id, with the taxon name indented two spaces per
// tree level. The first two rows are reserved unclassified/root totals.
package report

// TaxonRecord is one parsed report row.
type TaxonRecord struct {
	Percent       float64
	ReadsCum      int64 // reads in this taxon plus all descendants
	ReadsAssigned int64 // reads specific to this taxon alone
	Code          string
	Rank          Rank
	TaxID         int64
	Name          string
	Depth         int
}

// Totals is the side-channel summary carried by the two reserved rows.
type Totals struct {
	Classified          int64   `json:"classified"`
	Unclassified        int64   `json:"unclassified"`
	Total               int64   `json:"total"`
	PercentClassified   float64 `json:"percent_classified"`
	PercentUnclassified float64 `json:"percent_unclassified"`
}

// Report is a fully parsed snapshot of the source file. Records are in
// file order, which the producer guarantees is depth-first pre-order. The
// unclassified reserved row appears only in Totals; the root reserved row
// feeds Totals and also opens Records as the depth-0 forest anchor.
type Report struct {
	Records []TaxonRecord
	Totals  Totals
}
