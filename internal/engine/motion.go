package engine

import (
	"github.com/dshills/quill/internal/engine/cursor"
)

// Motion names a cursor movement.
type Motion int

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MoveWordNext
	MoveWordPrev
	MoveDocStart
	MoveDocEnd
)

// Move applies m to every cursor. With extend, each cursor anchors at its
// current position first so the motion grows a selection; without it,
// existing selections collapse.
func (e *Engine) Move(m Motion, extend bool) {
	e.moveBy(extend, func(sel Selection) Selection {
		switch m {
		case MoveLeft:
			if !extend && sel.HasSelection() {
				return sel.MoveTo(sel.Start())
			}
			return cursor.MoveSelection(e.buf, sel, cursor.Delta{Cols: -1}, e.wrapCursor)
		case MoveRight:
			if !extend && sel.HasSelection() {
				return sel.MoveTo(sel.End())
			}
			return cursor.MoveSelection(e.buf, sel, cursor.Delta{Cols: 1}, e.wrapCursor)
		case MoveUp:
			return cursor.MoveSelection(e.buf, sel, cursor.Delta{Rows: -1}, e.wrapCursor)
		case MoveDown:
			return cursor.MoveSelection(e.buf, sel, cursor.Delta{Rows: 1}, e.wrapCursor)
		case MoveLineStart:
			return sel.MoveTo(cursor.LineStart(sel.Head))
		case MoveLineEnd:
			return sel.MoveTo(cursor.LineEnd(e.buf, sel.Head))
		case MoveWordNext:
			return sel.MoveTo(cursor.WordNext(e.buf, sel.Head))
		case MoveWordPrev:
			return sel.MoveTo(cursor.WordPrev(e.buf, sel.Head))
		case MoveDocStart:
			return sel.MoveTo(Point{})
		case MoveDocEnd:
			return sel.MoveTo(e.buf.End())
		}
		return sel
	})
}

// MoveRows moves every cursor vertically by n rows, for page motion.
func (e *Engine) MoveRows(n int, extend bool) {
	e.moveBy(extend, func(sel Selection) Selection {
		return cursor.MoveSelection(e.buf, sel, cursor.Delta{Rows: n}, false)
	})
}

func (e *Engine) moveBy(extend bool, fn func(Selection) Selection) {
	// Motion breaks typing runs, so the next edit is its own undo step.
	e.history.Seal()
	e.cursors.MapInPlace(func(sel Selection) Selection {
		switch {
		case extend && !sel.Anchored:
			sel = sel.WithAnchor()
		case !extend && sel.Anchored:
			moved := fn(sel)
			return moved.Collapse()
		}
		return fn(sel)
	})
}

// MoveCursor moves the cursor at index by d. It reports false when index
// does not name a cursor.
func (e *Engine) MoveCursor(index int, d cursor.Delta) bool {
	e.history.Seal()
	return e.cursors.Move(e.buf, index, d, e.wrapCursor)
}

// SetAnchor starts a selection at the cursor at index.
func (e *Engine) SetAnchor(index int) bool {
	e.history.Seal()
	return e.cursors.SetAnchor(index)
}

// AddCursor adds a cursor at p. Positions outside the document are
// clamped.
func (e *Engine) AddCursor(p Point) {
	e.history.Seal()
	e.cursors.AddCursor(e.buf.Clamp(p))
}

// AddCursorVertical adds a cursor one row above (dir < 0) or below each
// existing cursor's head, keeping the visual column.
func (e *Engine) AddCursorVertical(dir int) {
	var added []Selection
	for _, sel := range e.cursors.All() {
		p, goal := cursor.Vertical(e.buf, sel.Head, sel.Goal, dir)
		if p.Row == sel.Head.Row {
			continue
		}
		n := cursor.NewCursorSelection(p)
		n.Goal = goal
		added = append(added, n)
	}
	for _, sel := range added {
		e.cursors.Add(sel)
	}
	e.history.Seal()
}

// ClearSecondary drops every cursor except the primary and collapses it.
func (e *Engine) ClearSecondary() {
	e.history.Seal()
	e.cursors.Clear()
	e.cursors.CollapseAll()
}

// SelectAll selects the whole document with a single cursor.
func (e *Engine) SelectAll() {
	e.history.Seal()
	e.cursors.Set(cursor.SelectAll(e.buf))
}

// ClampCursors moves every cursor to a valid position.
func (e *Engine) ClampCursors() {
	e.cursors.ClampAll(e.buf)
}
