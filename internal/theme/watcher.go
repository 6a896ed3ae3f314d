package theme

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long to wait after the last change before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the structured logger.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher reloads a theme file when it changes on disk. Editors commonly
// save via rename-replace, so the watch is placed on the parent directory
// and filtered to the theme file's name.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Theme)
	logger   *zap.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// Watch loads the theme at path, starts watching it, and calls onReload
// with each successfully reloaded theme. The initial load must succeed.
func Watch(path string, onReload func(*Theme), opts ...WatchOption) (*Watcher, *Theme, error) {
	initial, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		onReload: onReload,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("starting theme watcher: %w", err)
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		w.fsw.Close()
		return nil, nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.wg.Add(1)
	go w.run()
	return w, initial, nil
}

// Close stops the watcher. No reload callback fires after Close returns.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-fire
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", zap.Error(err))
		case <-fire:
			timer = nil
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	t, err := Load(w.path)
	if err != nil {
		w.logger.Warn("theme reload failed",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}
	w.logger.Info("theme reloaded",
		zap.String("path", w.path),
		zap.String("name", t.Name()))
	if w.onReload != nil {
		w.onReload(t)
	}
}
