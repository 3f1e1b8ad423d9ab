// Package watch triggers engine refreshes: promptly when the report file
// is rewritten, and on a fixed interval as a fallback.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher drives a refresh callback from filesystem events on the report
// file and from a periodic ticker. The producer replaces the report
// atomically, so the watcher monitors the parent directory and filters by
// base name; rewrite bursts are debounced into one refresh.
type Watcher struct {
	path     string
	interval time.Duration
	debounce time.Duration
	log      *zap.Logger
	refresh  func(context.Context)

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending time.Time
	running bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// Options configures a Watcher.
type Options struct {
	// Path of the report file to watch.
	Path string
	// Interval between fallback refreshes.
	Interval time.Duration
	// Debounce window for rewrite bursts. Defaults to 500ms.
	Debounce time.Duration
	Logger   *zap.Logger
	// Refresh is invoked for every trigger, on the watcher goroutine.
	Refresh func(context.Context)
}

// New creates a Watcher. The report file itself need not exist yet; its
// directory must.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		path:     opts.Path,
		interval: opts.Interval,
		debounce: debounce,
		log:      logger,
		refresh:  opts.Refresh,
		fsw:      fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the loop runs on its own goroutine
// until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		w.log.Warn("report directory not watchable, interval refresh only",
			zap.String("dir", filepath.Dir(w.path)), zap.Error(err))
	}

	go w.run(ctx)
	return nil
}

// Stop halts the loop and waits for it to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.fsw.Close(); err != nil {
		w.log.Warn("closing fs watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	settle := time.NewTicker(w.debounce / 2)
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watch error", zap.Error(err))

		case <-settle.C:
			if w.takeSettled() {
				w.log.Debug("report rewritten, refreshing", zap.String("path", w.path))
				w.refresh(ctx)
				ticker.Reset(w.interval)
			}

		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// takeSettled reports whether a pending rewrite has sat past the debounce
// window, clearing it if so.
func (w *Watcher) takeSettled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}
