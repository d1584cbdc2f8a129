package history

import (
	"errors"
	"time"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// Common conditions for history operations. Neither is fatal; they exist
// so callers can report "nothing to undo" with errors.Is.
var (
	ErrEmptyUndoStack = errors.New("nothing to undo")
	ErrEmptyRedoStack = errors.New("nothing to redo")
)

// Default policy values.
const (
	DefaultIdleGap    = time.Second
	DefaultMaxEntries = 1000
)

// Policy controls when consecutive edits coalesce.
type Policy struct {
	// IdleGap is the longest pause between two edits of the same kind that
	// still coalesces. Zero disables coalescing.
	IdleGap time.Duration

	// BreakOnWhitespace seals the open transaction after typed whitespace,
	// so each word undoes separately.
	BreakOnWhitespace bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{IdleGap: DefaultIdleGap, BreakOnWhitespace: true}
}

// OperationInfo describes a stack entry.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// History manages undo/redo state for a buffer.
type History struct {
	undoStack []*Transaction
	redoStack []*Transaction

	// current is the open transaction between Begin and Commit.
	current *Transaction

	// sealed prevents the next Begin from reopening the newest transaction.
	sealed bool

	// savedDepth is the undo depth matching the file on disk, or -1 when
	// that state is no longer reachable.
	savedDepth int

	policy     Policy
	maxEntries int
	now        func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithPolicy sets the coalescing policy.
func WithPolicy(p Policy) Option {
	return func(h *History) {
		h.policy = p
	}
}

// WithMaxEntries limits the undo stack depth.
func WithMaxEntries(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates a history manager.
func New(opts ...Option) *History {
	h := &History{
		policy:     DefaultPolicy(),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Policy returns the coalescing policy.
func (h *History) Policy() Policy {
	return h.policy
}

// SetPolicy changes the coalescing policy for future edits.
func (h *History) SetPolicy(p Policy) {
	h.policy = p
}

// Begin opens a transaction. Nested calls are ignored. When the edit can
// coalesce with the newest transaction, that transaction is reopened and
// keeps its original "before" cursors.
func (h *History) Begin(kind Kind, name string, before []cursor.Selection) {
	if h.current != nil {
		return
	}
	now := h.now()

	if top := h.peek(); top != nil && h.canCoalesce(top, kind, now) {
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
		h.current = top
		return
	}

	h.current = &Transaction{
		Name:          name,
		Kind:          kind,
		CursorsBefore: before,
		Started:       now,
		Updated:       now,
	}
	h.sealed = false
}

func (h *History) canCoalesce(top *Transaction, kind Kind, now time.Time) bool {
	switch {
	case h.sealed, len(h.redoStack) > 0:
		return false
	case kind == KindOther || top.Kind != kind:
		return false
	case h.policy.IdleGap <= 0 || now.Sub(top.Updated) > h.policy.IdleGap:
		return false
	case h.savedDepth == len(h.undoStack):
		// Extending the saved transaction would lose the save marker.
		return false
	}
	return true
}

// Record appends an applied op to the open transaction.
func (h *History) Record(ops ...buffer.Op) {
	if h.current == nil {
		return
	}
	h.current.Ops = append(h.current.Ops, ops...)
}

// Commit closes the open transaction and pushes it onto the undo stack.
// A transaction with no ops is dropped.
func (h *History) Commit(after []cursor.Selection) {
	t := h.current
	h.current = nil
	if t == nil || len(t.Ops) == 0 {
		return
	}

	t.CursorsAfter = after
	t.Updated = h.now()
	h.undoStack = append(h.undoStack, t)
	h.redoStack = nil
	if h.savedDepth >= len(h.undoStack) {
		h.savedDepth = -1
	}

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
		if h.savedDepth >= 0 {
			h.savedDepth -= excess
			if h.savedDepth < 0 {
				h.savedDepth = -1
			}
		}
	}
}

// Seal makes the next edit start a new transaction.
func (h *History) Seal() {
	h.sealed = true
}

// InTransaction returns true between Begin and Commit.
func (h *History) InTransaction() bool {
	return h.current != nil
}

// Undo reverts the newest transaction. It returns false when the undo
// stack is empty. An error means the buffer no longer matches the log.
func (h *History) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) (bool, error) {
	if len(h.undoStack) == 0 {
		return false, nil
	}
	t := h.undoStack[len(h.undoStack)-1]
	if err := t.Undo(buf, cursors); err != nil {
		return false, err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, t)
	h.sealed = true
	return true, nil
}

// Redo reapplies the most recently undone transaction. It returns false
// when the redo stack is empty.
func (h *History) Redo(buf *buffer.Buffer, cursors *cursor.CursorSet) (bool, error) {
	if len(h.redoStack) == 0 {
		return false, nil
	}
	t := h.redoStack[len(h.redoStack)-1]
	if err := t.Redo(buf, cursors); err != nil {
		return false, err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, t)
	h.sealed = true
	return true, nil
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	t := h.peek()
	if t == nil {
		return OperationInfo{}, false
	}
	return OperationInfo{Description: t.Description(), Timestamp: t.Updated}, true
}

func (h *History) peek() *Transaction {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

// MarkSaved records the current state as the one on disk.
func (h *History) MarkSaved() {
	h.savedDepth = len(h.undoStack)
	h.sealed = true
}

// Modified returns true if the buffer differs from the last saved state.
func (h *History) Modified() bool {
	return h.savedDepth != len(h.undoStack)
}

// Clear removes all undo/redo history and treats the current state as
// saved.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.current = nil
	h.sealed = false
	h.savedDepth = 0
}
