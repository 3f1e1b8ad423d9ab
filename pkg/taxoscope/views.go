package taxoscope

import (
	"fmt"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/internalerr"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/paths"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/report"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/sankey"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/toplist"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/watchlist"
)

// SankeyFilter selects what the Sankey view shows. Zero values fall back
// to the configured defaults: all domains, the default rank letters, the
// default top-K.
type SankeyFilter struct {
	Domains     []string
	RankLetters []string
	TopK        int
}

// PathFilter selects what the icicle/sunburst path table shows. A
// negative MinReads falls back to the configured default; zero keeps
// every taxon.
type PathFilter struct {
	Domains  []string
	MinReads int64
}

// TopListFilter selects what the abundance top list shows. Nil
// RankLetters defaults to species only; a negative N falls back to 20.
type TopListFilter struct {
	Domains     []string
	RankLetters []string
	N           int
}

// Sankey builds the flow-graph view of a snapshot. A nil snapshot yields
// the placeholder shape.
func (e *Engine) Sankey(snap *Snapshot, f SankeyFilter) (sankey.Data, error) {
	domains, err := e.resolveDomains(f.Domains)
	if err != nil {
		return sankey.Placeholder(e.cfg.SankeyPad), err
	}
	letters, err := e.resolveLetters(f.RankLetters, e.cfg.DefaultRankLetters)
	if err != nil {
		return sankey.Placeholder(e.cfg.SankeyPad), err
	}
	topK := f.TopK
	if topK <= 0 {
		topK = e.cfg.DefaultTopK
	}
	if snap == nil {
		return sankey.Placeholder(e.cfg.SankeyPad), nil
	}

	tree := hierarchy.FilterDomains(snap.Tree, domains)
	edges := sankey.BuildEdges(tree, letters)
	grid := sankey.SelectTop(tree, edges, letters, topK, e.cfg.GhostLabel)
	return sankey.Format(tree, grid, e.cfg.SankeyPad), nil
}

// Paths builds the ancestor-path table of a snapshot. A nil snapshot
// yields the placeholder table.
func (e *Engine) Paths(snap *Snapshot, f PathFilter) (paths.Table, error) {
	domains, err := e.resolveDomains(f.Domains)
	if err != nil {
		return paths.Placeholder(), err
	}
	minReads := f.MinReads
	if minReads < 0 {
		minReads = e.cfg.DefaultMinReads
	}
	if snap == nil {
		return paths.Placeholder(), nil
	}

	tree := hierarchy.FilterDomains(snap.Tree, domains)
	return paths.Build(tree, minReads), nil
}

// TopList builds the most-abundant-taxa view of a snapshot.
func (e *Engine) TopList(snap *Snapshot, f TopListFilter) (toplist.Table, error) {
	domains, err := e.resolveDomains(f.Domains)
	if err != nil {
		return toplist.Table{Rows: []toplist.Row{}}, err
	}
	letters := f.RankLetters
	if letters == nil {
		letters = []string{"S"}
	} else {
		if letters, err = e.resolveLetters(letters, nil); err != nil {
			return toplist.Table{Rows: []toplist.Row{}}, err
		}
	}
	n := f.N
	if n < 0 {
		n = 20
	}
	if snap == nil {
		return toplist.Table{Rows: []toplist.Row{}}, nil
	}

	tree := hierarchy.FilterDomains(snap.Tree, domains)
	return toplist.Build(tree, letters, n), nil
}

// Watchlist builds the species-of-interest view of a snapshot using the
// configured tax ids. It is never domain filtered: a watched species must
// stay visible regardless of dashboard filter state.
func (e *Engine) Watchlist(snap *Snapshot) watchlist.Table {
	if snap == nil {
		return watchlist.Table{Rows: []watchlist.Row{}}
	}
	return watchlist.Build(snap.Tree, e.cfg.SpeciesOfInterest)
}

// Totals returns the classified/unclassified side-channel record.
func (e *Engine) Totals(snap *Snapshot) report.Totals {
	if snap == nil {
		return report.Totals{}
	}
	return snap.Totals
}

// resolveDomains validates a domain selection against the configured set.
// An empty selection means all configured domains.
func (e *Engine) resolveDomains(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return e.cfg.Domains, nil
	}
	known := make(map[string]struct{}, len(e.cfg.Domains))
	for _, d := range e.cfg.Domains {
		known[d] = struct{}{}
	}
	for _, d := range selected {
		if _, ok := known[d]; !ok {
			return nil, fmt.Errorf("%w: unknown domain %q", internalerr.ErrInvalidFilter, d)
		}
	}
	return selected, nil
}

// resolveLetters validates a rank-letter selection and reorders it to the
// configured canonical hierarchy order, since interactive callers hand
// letters back in click order.
func (e *Engine) resolveLetters(selected, fallback []string) ([]string, error) {
	if len(selected) == 0 {
		selected = fallback
	}
	known := make(map[string]struct{}, len(e.cfg.RankLetters))
	for _, l := range e.cfg.RankLetters {
		known[l] = struct{}{}
	}
	pick := make(map[string]struct{}, len(selected))
	for _, l := range selected {
		if _, ok := known[l]; !ok {
			return nil, fmt.Errorf("%w: unknown rank letter %q", internalerr.ErrInvalidFilter, l)
		}
		pick[l] = struct{}{}
	}
	ordered := make([]string, 0, len(pick))
	for _, l := range e.cfg.RankLetters {
		if _, ok := pick[l]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}
