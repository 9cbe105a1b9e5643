package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file and reloads it on change.
// Only configs that pass validation are handed to the reload callback.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	path    string
	watcher *fsnotify.Watcher

	onReload func(cfg *Config)
	onError  func(err error)

	done    chan struct{}
	running bool
}

// NewWatcher creates a Watcher for the config file at path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		logger:  logger,
		path:    path,
		watcher: fw,
		done:    make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with each valid new config.
func (w *Watcher) SetReloadCallback(callback func(cfg *Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback invoked when a changed config fails to load.
func (w *Watcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start begins watching. The config directory is created if missing so a
// config file written later is still picked up.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.mu.Unlock()
		return err
	}

	// Watch the directory, editors often replace the file on save
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Unlock()
		return err
	}
	w.running = true
	w.mu.Unlock()

	go w.watch(ctx)

	w.logger.Debug("config watcher started", "path", w.path)
	return nil
}

// Stop stops watching and releases the underlying inotify handle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	_ = w.watcher.Close()
	if running {
		<-w.done
	}
	w.logger.Debug("config watcher stopped")
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.done)
	filename := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	w.mu.RLock()
	onReload := w.onReload
	onError := w.onError
	w.mu.RUnlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Info("config reloaded successfully", "path", w.path)
	if onReload != nil {
		onReload(cfg)
	}
}
