package worker

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"freightdash/internal/model"
)

type OrderCache interface {
	Orders(ctx context.Context) ([]model.OrderRecord, error)
	Invalidate()
}

// RefreshWorker keeps the order cache warm. It reloads on every tick and, when
// a local file path is watched, shortly after the file changes.
type RefreshWorker struct {
	cache     OrderCache
	interval  time.Duration
	watchPath string
	debounce  time.Duration
	done      chan struct{}
}

// NewRefreshWorker creates a worker. interval <= 0 disables polling and an
// empty watchPath disables file watching.
func NewRefreshWorker(cache OrderCache, interval time.Duration, watchPath string) *RefreshWorker {
	if watchPath != "" {
		if abs, err := filepath.Abs(watchPath); err == nil {
			watchPath = abs
		}
	}
	return &RefreshWorker{
		cache:     cache,
		interval:  interval,
		watchPath: watchPath,
		debounce:  250 * time.Millisecond,
		done:      make(chan struct{}),
	}
}

// Done is closed once Start returns.
func (w *RefreshWorker) Done() <-chan struct{} { return w.done }

func (w *RefreshWorker) Start(ctx context.Context) {
	defer close(w.done)
	slog.Info("starting refresh worker", "interval", w.interval, "watch", w.watchPath)

	w.refresh(ctx)

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if w.watchPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			slog.Warn("file watcher unavailable", "error", err)
		} else {
			defer watcher.Close()
			if err := watcher.Add(filepath.Dir(w.watchPath)); err != nil {
				slog.Warn("failed to watch source directory", "path", w.watchPath, "error", err)
			} else {
				events, errs = watcher.Events, watcher.Errors
			}
		}
	}

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	settle := time.NewTimer(w.debounce)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh worker stopped")
			return
		case <-tick:
			w.refresh(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != w.watchPath {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				settle.Reset(w.debounce)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Error("file watcher error", "error", err)
		case <-settle.C:
			slog.Info("source file changed", "path", w.watchPath)
			w.cache.Invalidate()
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	if _, err := w.cache.Orders(ctx); err != nil && ctx.Err() == nil {
		slog.Error("order refresh failed", "error", err)
	}
}
