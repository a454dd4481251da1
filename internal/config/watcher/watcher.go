// Package watcher provides file watching for live reload.
//
// The watcher monitors individual files for changes and triggers
// callbacks when modifications are detected. Parent directories are
// watched so files replaced by rename (as most editors save) keep
// reporting.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrNotWatching indicates the path is not being watched.
	ErrNotWatching = errors.New("path is not being watched")
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher

	// Watched files and the reference count of their directories
	files map[string]bool
	dirs  map[string]int

	handlers []Handler

	// Debounce settings
	debounce time.Duration
	timers   map[string]*time.Timer
	pending  map[string]Operation

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a new file watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
		pending:  make(map[string]Operation),
		closeCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching returns true if the path is being watched.
func (w *Watcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[absPath]
}

// OnChange registers a handler for file changes.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Close stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleFSEvent filters an fsnotify event down to watched files.
func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	if w.debounce == 0 {
		go w.dispatch(Event{Path: path, Op: op, Time: time.Now()})
		return
	}

	w.pending[path] = op
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		op, ok := w.pending[path]
		delete(w.pending, path)
		delete(w.timers, path)
		closed := w.closed
		w.mu.Unlock()

		if ok && !closed {
			w.dispatch(Event{Path: path, Op: op, Time: time.Now()})
		}
	})
}

// dispatch calls every handler with event.
func (w *Watcher) dispatch(event Event) {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// convertOp maps an fsnotify op to an Operation. Chmod is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}
