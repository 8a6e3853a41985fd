package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/voidaudio/internal/device"
)

// DefaultReloadDebounce coalesces bursts of writes to one source file.
const DefaultReloadDebounce = 250 * time.Millisecond

// Watcher reloads tracks when their source files change on disk.
type Watcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	manager *Manager
	watcher *fsnotify.Watcher

	debounce time.Duration
	pending  map[string]*time.Timer
	dirs     map[string]bool

	// Control channels
	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a source watcher for the manager's tracks.
func NewWatcher(m *Manager, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger:   logger,
		manager:  m,
		debounce: DefaultReloadDebounce,
		pending:  make(map[string]*time.Timer),
		dirs:     make(map[string]bool),
	}
}

// SetDebounce sets how long the watcher waits for writes to settle.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching the directories of all registered track sources.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fw
	w.dirs = make(map[string]bool)
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	if err := w.Refresh(); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		_ = fw.Close()
		return err
	}

	go w.watchLoop(ctx)

	w.logger.Debug("audio watcher started", "debounce", w.debounce)
	return nil
}

// Refresh adds watches for tracks loaded since Start.
func (w *Watcher) Refresh() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	for _, info := range w.manager.Tracks() {
		dir := filepath.Dir(sourcePath(info.Source))
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
		w.logger.Debug("watching sound directory", "dir", dir)
	}
	return nil
}

// Stop stops watching and cancels pending reloads.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	fw := w.watcher
	w.mu.Unlock()

	_ = fw.Close()
	<-w.doneCh
	w.logger.Debug("audio watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(ctx, filepath.Clean(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("audio watcher error", "error", err)
		}
	}
}

// schedule (re)arms the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		running := w.running
		w.mu.Unlock()

		if running {
			w.reload(ctx, path)
		}
	})
}

// reload reloads every track whose source resolves to path.
func (w *Watcher) reload(ctx context.Context, path string) {
	if inv, ok := w.manager.backend.(device.Invalidator); ok {
		inv.Invalidate(path)
	}

	for _, info := range w.manager.Tracks() {
		if sourcePath(info.Source) != path {
			continue
		}
		w.logger.Debug("sound file changed, reloading", "id", info.ID, "path", path)
		if err := w.manager.ReloadTrack(ctx, info.ID); err != nil {
			w.logger.Warn("failed to reload changed sound", "id", info.ID, "error", err)
		}
	}
}

func sourcePath(source string) string {
	return device.ResolvePath(source)
}
