// Package taxoscope rebuilds, from a periodically rewritten classification
// report, the derived structures behind the live dashboard: a rank-aligned
// Sankey flow graph, the ancestor-path tables for the icicle and sunburst
// charts, an abundance top list and a species-of-interest watchlist. Every
// refresh is a full rebuild producing an immutable snapshot; nothing is
// persisted or mutated across refreshes.
package taxoscope

import (
	"context"
	"crypto/rand"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/config"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/internalerr"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/report"
)

// Engine is the main transform engine facade. It owns no background work:
// Refresh is invoked by a timer tick or an explicit request, and view
// builders are pure functions over the snapshot they are handed.
type Engine struct {
	cfg config.Config
	log *zap.Logger

	mu      sync.Mutex
	last    *Snapshot
	entropy *ulid.MonotonicEntropy
}

// Options configures an Engine instance.
type Options struct {
	Config config.Config
	Logger *zap.Logger
}

// New creates an Engine with the given configuration.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     opts.Config,
		log:     logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Snapshot is one immutable refresh result. Consumers may hold on to it
// across later refreshes; the engine never touches it again.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Tree      *hierarchy.Tree
	Totals    report.Totals
	Rows      int
}

// Refresh re-reads the report file and swaps in a fresh snapshot.
// Refreshes serialize: a caller either supersedes the previous snapshot or
// observes it unchanged, never a half-built one. A missing report yields a
// well-formed empty snapshot; a malformed one (typically a read racing the
// producer's rewrite) keeps the previous good snapshot. Both are logged,
// not surfaced: per-refresh degradation is not a caller defect.
func (e *Engine) Refresh(ctx context.Context) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return e.last, err
	}

	rep, err := report.ParseFile(e.cfg.ReportPath)
	if err != nil {
		var perr *internalerr.ParseError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			e.log.Warn("report not produced yet",
				zap.String("path", e.cfg.ReportPath))
		case errors.As(err, &perr):
			e.log.Warn("report parse failed, keeping previous snapshot",
				zap.String("path", e.cfg.ReportPath),
				zap.Int("line", perr.Line),
				zap.Error(err))
		default:
			e.log.Warn("report read failed, keeping previous snapshot",
				zap.String("path", e.cfg.ReportPath),
				zap.Error(err))
		}
		if e.last == nil {
			e.last = e.newSnapshot(&report.Report{})
		}
		return e.last, nil
	}

	snap := e.newSnapshot(rep)
	e.last = snap
	e.log.Debug("snapshot rebuilt",
		zap.String("snapshot", snap.ID),
		zap.Int("taxa", snap.Rows),
		zap.Int64("classified", snap.Totals.Classified))
	return snap, nil
}

// Snapshot returns the latest snapshot, or ErrNoSnapshot before the first
// refresh.
func (e *Engine) Snapshot() (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return nil, internalerr.ErrNoSnapshot
	}
	return e.last, nil
}

func (e *Engine) newSnapshot(rep *report.Report) *Snapshot {
	now := time.Now()
	return &Snapshot{
		ID:        ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		CreatedAt: now,
		Tree:      hierarchy.Build(rep.Records),
		Totals:    rep.Totals,
		Rows:      len(rep.Records),
	}
}
