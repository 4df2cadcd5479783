package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.lsp.dev/uri"

	"github.com/Trivaxy/Spyglass/src/internal/common"
)

// Watcher invalidates and rebinds cache entries when workspace files
// change outside the editor. Files the filter rejects are ignored, so
// only data pack resources reach the session.
type Watcher struct {
	watcher *fsnotify.Watcher
	session *Session
	filter  func(path string) bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewWatcher creates a watcher over the given session. filter decides
// which paths are workspace resources; nil accepts everything.
func NewWatcher(session *Session, filter func(path string) bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	return &Watcher{watcher: fsWatcher, session: session, filter: filter}, nil
}

// Start watches root and all nested directories and begins processing
// events until Stop.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("watcher already started")
	}

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true
	go w.run(ctx)

	common.ServerLogger.Infof("watching %s for external changes", root)
	return nil
}

// Stop halts event processing and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}
	w.cancel()
	<-w.done
	w.started = false
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			common.ServerLogger.Warningf("file watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	// New directories need their own watch before events inside them
	// can arrive.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				common.ServerLogger.Warningf("failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.filter(event.Name) {
		return
	}
	document := uri.File(event.Name)

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.session.Invalidate(document)

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		content, err := os.ReadFile(event.Name)
		if err != nil {
			common.ServerLogger.Warningf("failed to read changed file %s: %v", event.Name, err)
			return
		}
		if w.session.UpToDate(document, content) {
			return
		}
		info, err := os.Stat(event.Name)
		if err != nil {
			common.ServerLogger.Warningf("failed to stat changed file %s: %v", event.Name, err)
			return
		}
		if err := w.session.Rebind(ctx, document, content, info.ModTime().UnixMilli()); err != nil {
			common.ServerLogger.Errorf("failed to rebind %s: %v", event.Name, err)
		}
	}
}
