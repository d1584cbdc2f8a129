package engine

import (
	"time"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/history"
)

// Default configuration values.
const (
	DefaultTabWidth       = buffer.DefaultTabWidth
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithBuffer uses buf as the document instead of an empty one.
func WithBuffer(buf *buffer.Buffer) Option {
	return func(e *Engine) {
		if buf != nil {
			e.buf = buf
		}
	}
}

// WithTabWidth sets the tab width for the engine.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		e.tabWidth = width
	}
}

// WithUndoPolicy sets the coalescing policy of the transaction log.
func WithUndoPolicy(p history.Policy) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithPolicy(p))
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithMaxEntries(max))
	}
}

// WithClock replaces the transaction log's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithClock(now))
	}
}

// WithWrapCursor lets horizontal motion cross row boundaries.
func WithWrapCursor(wrap bool) Option {
	return func(e *Engine) {
		e.wrapCursor = wrap
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithFaultHandler receives errors that indicate the buffer and the
// transaction log disagree. They are reported rather than returned because
// the methods that hit them (Undo, Redo) report success as a bool.
func WithFaultHandler(fn func(error)) Option {
	return func(e *Engine) {
		e.onFault = fn
	}
}
