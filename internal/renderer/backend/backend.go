// Package backend abstracts the terminal. The renderer hands it the
// command list produced by the screen diff; input comes back as Events.
package backend

import (
	"sync"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

// EventType identifies the kind of input event.
type EventType int

// Event types.
const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventInterrupt // wake-up posted by a background worker
	EventClosed    // the terminal is gone
)

// Event is one input event.
type Event struct {
	Type EventType

	// Key events. Ctrl+letter arrives as KeyRune with ModCtrl.
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize events.
	Width, Height int

	// Paste events carry the whole bracketed paste.
	PasteText string
}

// Key represents a keyboard key.
type Key int

// Keys. Printable characters use KeyRune with the Rune field.
const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// ModMask represents modifier keys.
type ModMask int

// Modifier flags.
const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// KeyEvent builds a key event, mainly for tests and key replay.
func KeyEvent(k Key, r rune, mod ModMask) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}
}

// RuneEvent builds the event for typing r.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// Backend is the terminal seen by the application.
type Backend interface {
	// Init takes over the terminal.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the terminal size in cells.
	Size() (width, height int)

	// Apply performs a frame's commands and flushes them.
	Apply(cmds []screen.Command)

	// PollEvent blocks for the next event.
	PollEvent() Event

	// PostEvent queues an event; it is safe to call from any goroutine.
	PostEvent(event Event)

	// Beep rings the bell, if the terminal has one.
	Beep()
}

// NullBackend is an in-memory backend for tests. Commands are replayed
// onto a grid so tests can read back what a terminal would show.
type NullBackend struct {
	mu     sync.Mutex
	width  int
	height int
	grid   *screen.Grid
	frames [][]screen.Command
	events chan Event
	beeps  int
}

// NewNullBackend creates a null backend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		grid:   screen.NewGrid(width, height),
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case b.events <- Event{Type: EventClosed}:
	default:
	}
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// Resize changes the size and queues the resize event, the way a
// terminal does when its window changes. The shown grid is cleared.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.grid = screen.NewGrid(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (b *NullBackend) Apply(cmds []screen.Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	screen.Apply(b.grid, cmds)
	b.frames = append(b.frames, cmds)
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

func (b *NullBackend) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beeps++
}

// Row returns the text shown on row y.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Row(y)
}

// Cell returns the cell shown at (x, y).
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Cell(x, y)
}

// Cursor returns the shown cursor.
func (b *NullBackend) Cursor() (core.ScreenPos, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Cursor()
}

// Frames returns the command lists applied so far.
func (b *NullBackend) Frames() [][]screen.Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]screen.Command(nil), b.frames...)
}

// Beeps returns how often the bell rang.
func (b *NullBackend) Beeps() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}
