// Package watch reruns a callback when a release folder changes.
//
// The watcher covers the release root and its immediate subfolders, which
// is where disc folders appear when a rip lands. Bursts of events collapse
// into one call after the debounce window.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"bdindex/internal/logging"
)

// DefaultDebounce is the quiet period before a change triggers a call.
const DefaultDebounce = 2 * time.Second

// Func is called on start and after each settled burst of changes.
type Func func(ctx context.Context) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for watch events and callback errors.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher watches one release root.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *slog.Logger
}

// New validates root and returns a watcher for it.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", abs)
	}
	w := &Watcher{root: abs, debounce: DefaultDebounce, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root is the absolute folder being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Run calls fn once, then again whenever the watched folders settle after a
// change. Errors from fn are logged and watching continues. Run returns nil
// when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := w.addTree(watcher); err != nil {
		return err
	}

	w.call(ctx, fn, "start")

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			w.handleEvent(watcher, event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.call(ctx, fn, "change")
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logging.WarnWithContext(w.logger, "fsnotify watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "changes may be missed until the next event"),
			)
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(w.root); err != nil {
		return fmt.Errorf("watch directory %s: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("list %s: %w", w.root, err)
	}
	for _, entry := range entries {
		path := filepath.Join(w.root, entry.Name())
		if !isDir(path) {
			continue
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
	}
	return nil
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	w.logger.Debug("release folder changed",
		logging.String("path", event.Name),
		logging.String("op", event.Op.String()),
	)
	if !event.Has(fsnotify.Create) || filepath.Dir(event.Name) != w.root || !isDir(event.Name) {
		return
	}
	if err := watcher.Add(event.Name); err != nil {
		logging.WarnWithContext(w.logger, "failed to watch new folder", "watch_add_failed",
			logging.String("path", event.Name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "changes inside this folder are not seen"),
		)
	}
}

func (w *Watcher) call(ctx context.Context, fn Func, reason string) {
	if ctx.Err() != nil {
		return
	}
	if err := fn(ctx); err != nil {
		logging.ErrorWithContext(w.logger, "watch callback failed", "watch_callback_failed",
			logging.String("reason", reason),
			logging.Error(err),
		)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
