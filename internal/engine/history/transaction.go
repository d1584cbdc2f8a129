package history

import (
	"fmt"
	"time"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// Kind classifies an edit for coalescing.
type Kind uint8

const (
	// KindInsert is typed text.
	KindInsert Kind = iota

	// KindDelete is backward or forward character deletion.
	KindDelete

	// KindNewline is a row split from the enter key.
	KindNewline

	// KindOther covers paste, replace, delete-line and scripted edits.
	// Edits of this kind never coalesce.
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindNewline:
		return "newline"
	default:
		return "edit"
	}
}

// Transaction is one undo unit.
type Transaction struct {
	Name string
	Kind Kind
	Ops  []buffer.Op

	CursorsBefore []cursor.Selection
	CursorsAfter  []cursor.Selection

	Started time.Time
	Updated time.Time
}

// Description returns a short label for feedback messages.
func (t *Transaction) Description() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Kind.String()
}

// Undo applies the inverse ops in reverse order and restores the cursors
// captured before the transaction.
func (t *Transaction) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	for i := len(t.Ops) - 1; i >= 0; i-- {
		if err := buf.Apply(t.Ops[i].Invert()); err != nil {
			return fmt.Errorf("undo %s: %w", t.Description(), err)
		}
	}
	cursors.SetAll(t.CursorsBefore)
	return nil
}

// Redo replays the ops and restores the cursors captured after the
// transaction.
func (t *Transaction) Redo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	if err := buf.ApplyAll(t.Ops); err != nil {
		return fmt.Errorf("redo %s: %w", t.Description(), err)
	}
	cursors.SetAll(t.CursorsAfter)
	return nil
}
