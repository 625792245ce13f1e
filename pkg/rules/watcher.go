package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ingredient-scout/scout/pkg/conflict"
)

// DefaultDebounceInterval is used when WatcherConfig.DebounceInterval is zero.
const DefaultDebounceInterval = 250 * time.Millisecond

// ReloadHook observes every reload attempt. engine is nil when err is not.
type ReloadHook func(engine *conflict.RuleEngine, err error)

// WatcherConfig contains configuration for the rules file watcher.
type WatcherConfig struct {
	// Path is the rules file to watch.
	Path string

	// DebounceInterval is the quiet period required before a reload.
	DebounceInterval time.Duration
}

// Watcher reloads a rules file whenever it changes on disk and publishes the
// result through a conflict.Swappable.
//
// The parent directory is watched rather than the file itself so that
// editors and config-map updates that replace the file by rename are seen.
type Watcher struct {
	path     string
	dir      string
	target   *conflict.Swappable
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	logger   *slog.Logger

	hooksMu sync.RWMutex
	hooks   []ReloadHook

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher for cfg.Path that publishes into target.
func NewWatcher(cfg WatcherConfig, target *conflict.Swappable, logger *slog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("rules file path is required")
	}
	if target == nil {
		return nil, errors.New("swappable target is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = DefaultDebounceInterval
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rules path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		target:   target,
		watcher:  fsw,
		debounce: NewDebouncer(cfg.DebounceInterval),
		logger:   logger.With("component", "rules.watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnReload registers a hook that runs after every reload attempt.
func (w *Watcher) OnReload(hook ReloadHook) {
	w.hooksMu.Lock()
	defer w.hooksMu.Unlock()
	w.hooks = append(w.hooks, hook)
}

// Reload loads the rules file and, if it is valid, makes it the active
// engine. On failure the active engine is left untouched.
func (w *Watcher) Reload() error {
	start := time.Now()
	engine, err := LoadEngine(w.path)

	w.hooksMu.RLock()
	for _, hook := range w.hooks {
		hook(engine, err)
	}
	w.hooksMu.RUnlock()

	if err != nil {
		w.logger.Error("Rules reload failed, keeping previous catalog",
			"path", w.path,
			"error", err,
		)
		return err
	}

	w.target.Replace(engine)
	w.logger.Info("Rules reloaded",
		"path", w.path,
		"version", engine.Version(),
		"rules", len(engine.RuleIDs()),
		"duration", time.Since(start),
	)
	return nil
}

// Watch blocks, reloading on every change, until ctx is cancelled or Stop is
// called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	select {
	case <-w.stopCh:
		w.mu.Unlock()
		return errors.New("watcher stopped")
	default:
	}
	w.running = true
	w.mu.Unlock()

	defer close(w.doneCh)

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.dir, err)
	}

	w.logger.Info("Rules watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Rules watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("Rules watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("Rules file event", "path", event.Name, "op", event.Op.String())
			w.debounce.Trigger(func() {
				_ = w.Reload()
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop stops watching and releases the fsnotify watcher. It is safe to call
// more than once and before Watch.
func (w *Watcher) Stop() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		running := w.running
		close(w.stopCh)
		w.mu.Unlock()

		if running {
			<-w.doneCh
		}

		w.debounce.Stop()
		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

// shouldProcessEvent reports whether event concerns the rules file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}
