package engine

import (
	"fmt"

	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
)

// The methods in this file address the document by explicit position and
// are the surface exposed to scripts. Unlike the cursor-driven edits they
// reject out-of-range positions instead of clamping them.

// InsertTextAt inserts text at p as one transaction. Cursors after p move
// with the text.
func (e *Engine) InsertTextAt(p Point, text string) error {
	if !e.buf.Valid(p) {
		return fmt.Errorf("insert at %s: %w", p, ErrPositionOutOfBounds)
	}
	if text == "" {
		return nil
	}
	return e.edit(history.KindOther, "insert", func(t *tx) error {
		return t.insertAt(p, text)
	})
}

// DeleteRange removes r as one transaction. An empty range is a no-op.
func (e *Engine) DeleteRange(r Range) error {
	if !e.buf.Valid(r.Start) || !e.buf.Valid(r.End) {
		return fmt.Errorf("delete %s: %w", r, ErrPositionOutOfBounds)
	}
	if r.End.Before(r.Start) {
		r = Range{Start: r.End, End: r.Start}
	}
	if r.IsEmpty() {
		return nil
	}
	return e.edit(history.KindOther, "delete range", func(t *tx) error {
		return t.deleteRange(r)
	})
}

// Selection returns the primary selection's range and whether it is
// non-empty.
func (e *Engine) Selection() (Range, bool) {
	p := e.cursors.Primary()
	return p.Range(), p.HasSelection()
}

// SetCursor collapses the cursor set to a single cursor at p.
func (e *Engine) SetCursor(p Point) error {
	if !e.buf.Valid(p) {
		return fmt.Errorf("set cursor %s: %w", p, ErrPositionOutOfBounds)
	}
	e.history.Seal()
	e.cursors.Set(cursor.NewCursorSelection(p))
	return nil
}

// SetSelection replaces the cursor set with a single selection from
// anchor to head.
func (e *Engine) SetSelection(anchor, head Point) error {
	if !e.buf.Valid(anchor) || !e.buf.Valid(head) {
		return fmt.Errorf("set selection %s-%s: %w", anchor, head, ErrPositionOutOfBounds)
	}
	e.history.Seal()
	e.cursors.Set(cursor.NewSelection(anchor, head))
	return nil
}

// CurrentLine returns the text of the primary cursor's row.
func (e *Engine) CurrentLine() string {
	line, _ := e.buf.Line(e.cursors.Primary().Head.Row)
	return line
}
