// Package watch re-runs a handler for documents that change inside a
// directory, after a fixed quiet period.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called once per settled file.
type Handler func(ctx context.Context, path string) error

// Stats counts watcher activity.
type Stats struct {
	Events   int
	Handled  int
	Errors   int
	LastPath string
}

// Watcher watches one directory (non-recursive) and calls a Handler for
// files that match Filter once no event has arrived for them for Delay.
type Watcher struct {
	Dir    string
	Delay  time.Duration
	Filter func(path string) bool

	handle Handler
	log    *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	pending map[string]time.Time
	stats   Stats
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a watcher for dir. A nil filter accepts every file.
func New(dir string, delay time.Duration, filter func(string) bool, h Handler, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	return &Watcher{
		Dir:     dir,
		Delay:   delay,
		Filter:  filter,
		handle:  h,
		log:     log,
		pending: make(map[string]time.Time),
	}
}

// Start begins watching. It returns once the directory is registered; events
// are processed on a background goroutine until Stop or ctx cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.Dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.log.Info("watching directory", "dir", w.Dir, "delay", w.Delay)

	go w.run(ctx, fsw, w.stopCh, w.doneCh)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh, fsw := w.stopCh, w.doneCh, w.fsw
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	if err := fsw.Close(); err != nil {
		w.log.Warn("closing watcher", "error", err)
	}
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	tick := w.Delay / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.observe(ev, time.Now())
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case now := <-ticker.C:
			for _, path := range w.due(now) {
				w.fire(ctx, path)
			}
		}
	}
}

// observe records a create or write event; other operations are ignored.
func (w *Watcher) observe(ev fsnotify.Event, now time.Time) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	path := filepath.Clean(ev.Name)
	if !w.Filter(path) {
		return
	}
	w.mu.Lock()
	w.pending[path] = now
	w.stats.Events++
	w.mu.Unlock()
	w.log.Debug("file changed", "path", path, "op", ev.Op.String())
}

// due removes and returns, sorted, the paths quiet for at least Delay.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.Delay {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) fire(ctx context.Context, path string) {
	err := w.handle(ctx, path)
	w.mu.Lock()
	w.stats.LastPath = path
	if err != nil {
		w.stats.Errors++
	} else {
		w.stats.Handled++
	}
	w.mu.Unlock()
	if err != nil {
		w.log.Error("handler failed", "path", path, "error", err)
	}
}
