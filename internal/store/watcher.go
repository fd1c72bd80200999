package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// CatalogWatcher watches the surfaces directory and reloads the catalog when
// authored files change. Rapid editor save bursts are debounced so one edit
// does not trigger a reload storm.
type CatalogWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	catalog *Catalog
	log     *zap.Logger

	debounce time.Duration
	pending  bool
	lastHit  time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	// Reloads counts completed reloads, for tests and debugging.
	reloads int
}

// NewCatalogWatcher creates a watcher over the catalog's directory.
func NewCatalogWatcher(catalog *Catalog, log *zap.Logger) (*CatalogWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogWatcher{
		watcher:  w,
		catalog:  catalog,
		log:      log,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop or context cancellation.
func (cw *CatalogWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(cw.catalog.Dir()); err != nil {
		cw.mu.Lock()
		cw.running = false
		cw.mu.Unlock()
		return err
	}
	cw.log.Info("watching surfaces directory", zap.String("dir", cw.catalog.Dir()))

	go cw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (cw *CatalogWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh

	if err := cw.watcher.Close(); err != nil {
		cw.log.Warn("error closing surfaces watcher", zap.Error(err))
	}
}

// Reloads reports how many reloads have completed.
func (cw *CatalogWatcher) Reloads() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.reloads
}

func (cw *CatalogWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("surfaces watcher error", zap.Error(err))
		case <-ticker.C:
			cw.flush()
		}
	}
}

func (cw *CatalogWatcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	cw.mu.Lock()
	cw.pending = true
	cw.lastHit = time.Now()
	cw.mu.Unlock()
}

// flush performs the debounced reload once the directory has been quiet.
func (cw *CatalogWatcher) flush() {
	cw.mu.Lock()
	due := cw.pending && time.Since(cw.lastHit) >= cw.debounce
	if due {
		cw.pending = false
	}
	cw.mu.Unlock()
	if !due {
		return
	}

	if err := cw.catalog.Reload(); err != nil {
		// Keep the previous snapshot; authoring errors must not take the
		// running catalog down.
		cw.log.Error("surfaces reload failed, keeping previous snapshot", zap.Error(err))
		return
	}
	cw.mu.Lock()
	cw.reloads++
	cw.mu.Unlock()
	cw.log.Info("surfaces reloaded", zap.Strings("surfaces", cw.catalog.SurfaceIDs()))
}
