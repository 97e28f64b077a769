package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a changed template file is
// reloaded.
const DefaultDebounce = 200 * time.Millisecond

// TemplateWatcher reloads the user template file when it changes.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename are still picked up.
type TemplateWatcher struct {
	path     string
	interval time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce *debouncer
}

// NewTemplateWatcher creates a watcher for path. interval <= 0 means
// DefaultDebounce.
func NewTemplateWatcher(path string, interval time.Duration, logger *slog.Logger) (*TemplateWatcher, error) {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &TemplateWatcher{
		path:     abs,
		interval: interval,
		logger:   logger.With("component", "template-watcher"),
		watcher:  w,
		debounce: newDebouncer(interval),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onReload after each burst of
// changes to the template file.
func (tw *TemplateWatcher) Watch(ctx context.Context, onReload func() error) error {
	defer func() {
		tw.debounce.stop()
		_ = tw.watcher.Close()
	}()

	if err := tw.watcher.Add(filepath.Dir(tw.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(tw.path), err)
	}
	tw.logger.Info("template watcher started", "path", tw.path, "debounce_ms", tw.interval.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			tw.logger.Info("template watcher stopped")
			return nil

		case ev, ok := <-tw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !tw.relevant(ev) {
				continue
			}
			tw.logger.Debug("template file event", "op", ev.Op.String())
			tw.debounce.trigger(func() {
				if err := onReload(); err != nil {
					tw.logger.Error("template reload failed", "error", err)
					return
				}
				tw.logger.Info("templates reloaded", "path", tw.path)
			})

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			tw.logger.Error("template watcher error", "error", err)
		}
	}
}

func (tw *TemplateWatcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == tw.path
}

// debouncer collapses bursts of events into one callback after a quiet
// period.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
