// Package watcher reports changes to configuration files.
//
// It watches the directory holding each file rather than the file itself,
// so editors that save by writing a temporary file and renaming it over
// the original are still seen. Bursts of events for one file are
// coalesced into a single event after a quiet period.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrRunning is returned by Watch after Start.
var ErrRunning = errors.New("watcher already running")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last underlying event arrived.
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

	// OpRename indicates the file was renamed away.
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

// Handler is called when a file change is detected. Handlers run on the
// watcher goroutine.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher

	// files maps watched absolute paths; dirs counts files per directory.
	files map[string]bool
	dirs  map[string]int

	handlers []Handler
	debounce time.Duration
	log      zerolog.Logger

	pending map[string]Event
	timer   *time.Timer

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before an event is delivered. Zero
// delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = log
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
		log:      zerolog.Nop(),
		pending:  make(map[string]Event),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet, but
// its directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

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

	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// WatchedFiles returns the watched paths.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins delivering events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
}

// Close stops the watcher and releases the underlying watches.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.running {
		w.cancel()
		w.running = false
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		var fire <-chan time.Time
		w.mu.Lock()
		if w.timer != nil {
			fire = w.timer.C
		}
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
				w.timer = nil
			}
			w.mu.Unlock()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			event, relevant := w.convert(ev)
			if !relevant {
				continue
			}
			if w.debounce == 0 {
				w.emit(event)
				continue
			}
			w.queueEvent(event)

		case <-fire:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watch error")
		}
	}
}

// convert maps an fsnotify event onto a watched file.
func (w *Watcher) convert(ev fsnotify.Event) (Event, bool) {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return Event{}, false
	}

	w.mu.Lock()
	watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return Event{}, false
	}

	event := Event{Path: path, Time: time.Now()}
	switch {
	case ev.Has(fsnotify.Remove):
		event.Op = OpRemove
	case ev.Has(fsnotify.Rename):
		event.Op = OpRename
	case ev.Has(fsnotify.Create):
		event.Op = OpCreate
	case ev.Has(fsnotify.Write):
		event.Op = OpWrite
	default:
		return Event{}, false
	}
	return event, true
}

// queueEvent holds event until the file has been quiet for the debounce
// period. It coalesces events:
// - create + write => create
// - write + write => write (latest time)
// - any + remove => remove
// - remove + create => write (an atomic save)
func (w *Watcher) queueEvent(event Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.pending[event.Path]; ok {
		switch {
		case event.Op == OpRemove || event.Op == OpRename:
		case (existing.Op == OpRemove || existing.Op == OpRename) && event.Op == OpCreate:
			event.Op = OpWrite
		case event.Op == OpWrite:
			event.Op = existing.Op
		}
	}
	w.pending[event.Path] = event

	if w.timer == nil {
		w.timer = time.NewTimer(w.debounce)
		return
	}
	if !w.timer.Stop() {
		select {
		case <-w.timer.C:
		default:
		}
	}
	w.timer.Reset(w.debounce)
}

// flush delivers every pending event.
func (w *Watcher) flush() {
	w.mu.Lock()
	events := make([]Event, 0, len(w.pending))
	for _, ev := range w.pending {
		events = append(events, ev)
	}
	w.pending = make(map[string]Event)
	w.timer = nil
	w.mu.Unlock()

	for _, ev := range events {
		w.emit(ev)
	}
}

func (w *Watcher) emit(event Event) {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}
