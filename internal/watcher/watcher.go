// Package watcher reports changes to a workspace's media folders and
// spreadsheet so a running view can refresh itself.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/media"
)

// DefaultDebounce is used when Config.DebounceDelay is zero.
const DefaultDebounce = 200 * time.Millisecond

// Change classifies what a batch of filesystem events touched.
type Change string

const (
	ChangeMedia Change = "media"
	ChangeSheet Change = "sheet"
)

// Event is one debounced change. Kind is set for media changes.
type Event struct {
	Change Change
	Kind   media.Kind
	Paths  []string
}

// Config holds configuration options for the Watcher.
type Config struct {
	MediaDirs     map[media.Kind]string
	SheetPath     string
	DebounceDelay time.Duration
	Logger        *zap.Logger
	OnChange      func(Event)
}

// Watcher monitors the media folders and the spreadsheet.
type Watcher struct {
	dirs      map[media.Kind]string
	sheetPath string

	debounceDelay time.Duration
	log           *zap.Logger
	onChange      func(Event)

	fsWatcher *fsnotify.Watcher
	pending   map[string]*batch
	mu        sync.Mutex
	ready     chan struct{}
}

type batch struct {
	event Event
	last  time.Time
}

// New creates a Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if len(cfg.MediaDirs) == 0 && cfg.SheetPath == "" {
		return nil, fmt.Errorf("nothing to watch")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	dirs := make(map[media.Kind]string, len(cfg.MediaDirs))
	for kind, dir := range cfg.MediaDirs {
		dirs[kind] = filepath.Clean(dir)
	}
	sheetPath := ""
	if cfg.SheetPath != "" {
		sheetPath = filepath.Clean(cfg.SheetPath)
	}

	return &Watcher{
		dirs:          dirs,
		sheetPath:     sheetPath,
		debounceDelay: debounce,
		log:           log,
		onChange:      cfg.OnChange,
		pending:       make(map[string]*batch),
		ready:         make(chan struct{}),
	}, nil
}

// Ready is closed once every folder is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Start watches until ctx is cancelled. Folders that do not exist are
// skipped with a warning.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	watched := 0
	for _, dir := range w.watchDirs() {
		if err := w.fsWatcher.Add(dir); err != nil {
			w.log.Warn("cannot watch folder", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched++
		w.log.Debug("watching folder", zap.String("dir", dir))
	}
	if watched == 0 {
		return fmt.Errorf("none of the workspace folders could be watched")
	}
	close(w.ready)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) watchDirs() []string {
	var dirs []string
	for _, kind := range media.Kinds {
		if dir, ok := w.dirs[kind]; ok && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	if w.sheetPath != "" {
		if dir := filepath.Dir(w.sheetPath); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Classify maps a changed path to what it affects. Files in a media folder
// count only with an extension of that kind; in the spreadsheet's folder
// only the spreadsheet itself counts.
func (w *Watcher) Classify(path string) (Change, media.Kind, bool) {
	path = filepath.Clean(path)
	if w.sheetPath != "" && path == w.sheetPath {
		return ChangeSheet, "", true
	}
	dir := filepath.Dir(path)
	ext := strings.ToLower(filepath.Ext(path))
	for _, kind := range media.Kinds {
		if w.dirs[kind] == dir && slices.Contains(kind.Extensions(), ext) {
			return ChangeMedia, kind, true
		}
	}
	return "", "", false
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	change, kind, ok := w.Classify(event.Name)
	if !ok {
		return
	}
	w.log.Debug("file event",
		zap.String("op", event.Op.String()),
		zap.String("file", event.Name),
		zap.String("change", string(change)))
	w.schedule(change, kind, event.Name)
}

func (w *Watcher) schedule(change Change, kind media.Kind, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := string(change) + ":" + string(kind)
	b, ok := w.pending[key]
	if !ok {
		b = &batch{event: Event{Change: change, Kind: kind}}
		w.pending[key] = b
	}
	if !slices.Contains(b.event.Paths, path) {
		b.event.Paths = append(b.event.Paths, path)
	}
	b.last = time.Now()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flush(time.Now())
		}
	}
}

// flush delivers every batch that has been quiet for the debounce delay.
// Sheet changes are delivered before media changes.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	var ready []Event
	for key, b := range w.pending {
		if now.Sub(b.last) >= w.debounceDelay {
			ready = append(ready, b.event)
			delete(w.pending, key)
		}
	}
	w.mu.Unlock()

	slices.SortFunc(ready, func(a, b Event) int {
		if a.Change != b.Change {
			if a.Change == ChangeSheet {
				return -1
			}
			return 1
		}
		return strings.Compare(string(a.Kind), string(b.Kind))
	})
	for _, ev := range ready {
		w.onChange(ev)
	}
}
