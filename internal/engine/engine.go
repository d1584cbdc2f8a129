package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
)

// Type aliases for convenience.
type (
	// Point is a row and grapheme column.
	Point = buffer.Point

	// Range is a span between two points.
	Range = buffer.Range

	// Selection is one cursor with an optional anchor.
	Selection = cursor.Selection
)

// Engine is the editing facade for one document.
type Engine struct {
	buf     *buffer.Buffer
	cursors *cursor.CursorSet
	history *history.History

	historyOpts []history.Option
	tabWidth    int
	wrapCursor  bool
	readOnly    bool
	onFault     func(error)
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.buf == nil {
		e.buf = buffer.New()
	}
	if e.tabWidth > 0 {
		e.buf.SetTabWidth(e.tabWidth)
	}
	e.cursors = cursor.NewCursorSetAt(Point{})
	e.history = history.New(e.historyOpts...)
	return e
}

// Load creates an engine whose rows are lines.
func Load(lines []string, opts ...Option) (*Engine, error) {
	buf, err := buffer.FromLines(lines)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithBuffer(buf)}, opts...)...), nil
}

// Serialize returns the document rows in order.
func (e *Engine) Serialize() []string {
	return e.buf.Lines()
}

// Buffer returns the underlying row store. Callers must not mutate it
// directly; edits go through the engine so they are recorded.
func (e *Engine) Buffer() *buffer.Buffer {
	return e.buf
}

// History returns the transaction log.
func (e *Engine) History() *history.History {
	return e.history
}

// Cursors returns a copy of the cursor set.
func (e *Engine) Cursors() *cursor.CursorSet {
	return e.cursors.Clone()
}

// Selections returns all selections, sorted top to bottom.
func (e *Engine) Selections() []Selection {
	return e.cursors.All()
}

// Primary returns the primary selection.
func (e *Engine) Primary() Selection {
	return e.cursors.Primary()
}

// LineCount returns the number of rows.
func (e *Engine) LineCount() int {
	return e.buf.LineCount()
}

// Line returns the text of a row.
func (e *Engine) Line(row int) (string, error) {
	return e.buf.Line(row)
}

// Text returns the whole document joined with "\n".
func (e *Engine) Text() string {
	return e.buf.Text()
}

// IsReadOnly returns true if edits are refused.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// SetReadOnly toggles read-only mode.
func (e *Engine) SetReadOnly(ro bool) {
	e.readOnly = ro
}

// WrapCursor reports whether horizontal motion wraps across rows.
func (e *Engine) WrapCursor() bool {
	return e.wrapCursor
}

// SetWrapCursor toggles wrapping of horizontal motion.
func (e *Engine) SetWrapCursor(wrap bool) {
	e.wrapCursor = wrap
}

// SetUndoPolicy changes coalescing for future edits.
func (e *Engine) SetUndoPolicy(p history.Policy) {
	e.history.SetPolicy(p)
}

// Modified returns true if the document differs from its saved state.
func (e *Engine) Modified() bool {
	return e.history.Modified()
}

// MarkSaved records the current state as saved.
func (e *Engine) MarkSaved() {
	e.history.MarkSaved()
}

// Undo reverts the newest transaction. It returns false when there is
// nothing to undo.
func (e *Engine) Undo() bool {
	ok, err := e.history.Undo(e.buf, e.cursors)
	if err != nil {
		e.fault(err)
		return false
	}
	if ok {
		e.cursors.ClampAll(e.buf)
	}
	return ok
}

// Redo reapplies the most recently undone transaction. It returns false
// when there is nothing to redo.
func (e *Engine) Redo() bool {
	ok, err := e.history.Redo(e.buf, e.cursors)
	if err != nil {
		e.fault(err)
		return false
	}
	if ok {
		e.cursors.ClampAll(e.buf)
	}
	return ok
}

func (e *Engine) fault(err error) {
	if e.onFault != nil {
		e.onFault(err)
	}
}

// edit wraps fn in a transaction. The cursors are tracked in byte space
// for the duration of fn and restored afterwards.
func (e *Engine) edit(kind history.Kind, name string, fn func(tx *tx) error) error {
	if e.readOnly {
		return ErrReadOnly
	}
	e.history.Begin(kind, name, e.cursors.All())
	t := &tx{e: e, marks: e.cursors.Track(e.buf)}
	err := fn(t)
	e.cursors.Restore(e.buf, t.marks)
	e.history.Commit(e.cursors.All())
	if err != nil {
		e.fault(err)
	}
	return err
}

// tx is an in-flight edit.
type tx struct {
	e     *Engine
	marks *cursor.Marks
}

// apply performs op, records it and moves every tracked cursor through it.
func (t *tx) apply(op buffer.Op) error {
	if (op.Kind == buffer.OpInsert || op.Kind == buffer.OpDelete) && op.Text == "" {
		return nil
	}
	if err := t.e.buf.Apply(op); err != nil {
		return err
	}
	t.record(op)
	return nil
}

// record notes ops that were already applied to the buffer.
func (t *tx) record(ops ...buffer.Op) {
	t.e.history.Record(ops...)
	for _, op := range ops {
		t.marks.Transform(op)
	}
}

func (t *tx) point(p cursor.Pos) Point {
	col, _ := t.e.buf.Column(p.Row, p.Offset)
	return Point{Row: p.Row, Col: col}
}

// selection returns cursor i's current head and, when it has an active
// selection, the selected range.
func (t *tx) selection(i int) (Point, Range, bool) {
	head := t.point(t.marks.Head(i))
	anchorPos, anchored := t.marks.Anchor(i)
	if !anchored {
		return head, Range{}, false
	}
	anchor := t.point(anchorPos)
	if anchor == head {
		return head, Range{}, false
	}
	return head, buffer.NewRange(anchor, head), true
}

// deleteRange removes r and records the ops.
func (t *tx) deleteRange(r Range) error {
	ops, err := t.e.buf.Delete(r)
	t.record(ops...)
	return err
}

// insertAt inserts text, which may span rows, at p as one op.
func (t *tx) insertAt(p Point, text string) error {
	op, err := t.e.buf.InsertText(p, text)
	if err != nil || op.Text == "" {
		return err
	}
	t.record(op)
	return nil
}

// eachCursor runs fn for every cursor from top to bottom and drops each
// cursor's anchor once it has edited.
func (t *tx) eachCursor(fn func(i int) error) error {
	for i := 0; i < t.marks.Len(); i++ {
		if err := fn(i); err != nil {
			return err
		}
		t.marks.SetHead(i, t.marks.Head(i))
	}
	return nil
}

// InsertText types text at every cursor, replacing active selections.
// A single grapheme coalesces with neighbouring typing; a newline or
// longer text is a transaction of its own kind.
func (e *Engine) InsertText(text string) error {
	if text == "" {
		return nil
	}
	kind, name := classifyInsert(text)
	err := e.edit(kind, name, func(t *tx) error {
		return t.eachCursor(func(i int) error {
			head, sel, ok := t.selection(i)
			if ok {
				if err := t.deleteRange(sel); err != nil {
					return err
				}
				head = sel.Start
			}
			return t.insertAt(head, text)
		})
	})
	if err == nil && kind == history.KindInsert && e.history.Policy().BreakOnWhitespace && isSpace(text) {
		e.history.Seal()
	}
	return err
}

func classifyInsert(text string) (history.Kind, string) {
	switch {
	case text == "\n" || text == "\r\n":
		return history.KindNewline, "newline"
	case strings.ContainsAny(text, "\r\n") || uniseg.GraphemeClusterCount(text) > 1:
		return history.KindOther, "paste"
	default:
		return history.KindInsert, "typing"
	}
}

func isSpace(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsSpace(r)
}

// Newline splits the row at every cursor.
func (e *Engine) Newline() error {
	return e.InsertText("\n")
}

// Paste inserts text as one non-coalescing transaction.
func (e *Engine) Paste(text string) error {
	if text == "" {
		return nil
	}
	return e.edit(history.KindOther, "paste", func(t *tx) error {
		return t.eachCursor(func(i int) error {
			head, sel, ok := t.selection(i)
			if ok {
				if err := t.deleteRange(sel); err != nil {
					return err
				}
				head = sel.Start
			}
			return t.insertAt(head, text)
		})
	})
}

// Backspace deletes the selection, or the grapheme before each cursor,
// joining with the previous row at column 0.
func (e *Engine) Backspace() error {
	return e.edit(history.KindDelete, "delete", func(t *tx) error {
		return t.eachCursor(func(i int) error {
			head, sel, ok := t.selection(i)
			switch {
			case ok:
				return t.deleteRange(sel)
			case head.Col > 0:
				return t.deleteRange(Range{Start: Point{Row: head.Row, Col: head.Col - 1}, End: head})
			case head.Row > 0:
				op, err := e.buf.JoinRows(head.Row - 1)
				if err != nil {
					return err
				}
				t.record(op)
			}
			return nil
		})
	})
}

// DeleteForward deletes the selection, or the grapheme after each cursor,
// joining with the next row at the row end.
func (e *Engine) DeleteForward() error {
	return e.edit(history.KindDelete, "delete", func(t *tx) error {
		return t.eachCursor(func(i int) error {
			head, sel, ok := t.selection(i)
			if ok {
				return t.deleteRange(sel)
			}
			n, _ := e.buf.RowLen(head.Row)
			switch {
			case head.Col < n:
				return t.deleteRange(Range{Start: head, End: Point{Row: head.Row, Col: head.Col + 1}})
			case head.Row+1 < e.buf.LineCount():
				op, err := e.buf.JoinRows(head.Row)
				if err != nil {
					return err
				}
				t.record(op)
			}
			return nil
		})
	})
}

// DeleteLine removes each cursor's row. The last remaining row is emptied
// instead.
func (e *Engine) DeleteLine() error {
	seen := make(map[int]bool)
	rows := make([]int, 0, e.cursors.Count())
	for _, sel := range e.cursors.All() {
		rows = append(rows, sel.Head.Row)
	}
	return e.edit(history.KindOther, "delete line", func(t *tx) error {
		return t.eachCursor(func(i int) error {
			if seen[rows[i]] {
				return nil
			}
			seen[rows[i]] = true

			row := t.marks.Head(i).Row
			n, _ := e.buf.RowLen(row)
			last := e.buf.LineCount() - 1
			switch {
			case last == 0:
				return t.deleteRange(Range{End: Point{Col: n}})
			case row == last:
				prev, _ := e.buf.RowLen(row - 1)
				return t.deleteRange(Range{Start: Point{Row: row - 1, Col: prev}, End: Point{Row: row, Col: n}})
			default:
				return t.deleteRange(Range{Start: Point{Row: row}, End: Point{Row: row + 1}})
			}
		})
	})
}

// DeleteSelection removes every active selection.
func (e *Engine) DeleteSelection() error {
	if !e.cursors.HasSelection() {
		return nil
	}
	return e.edit(history.KindOther, "delete selection", func(t *tx) error {
		return t.eachCursor(func(i int) error {
			if _, sel, ok := t.selection(i); ok {
				return t.deleteRange(sel)
			}
			return nil
		})
	})
}

// SelectedText returns the text of every active selection, joined by "\n".
func (e *Engine) SelectedText() string {
	var parts []string
	for _, sel := range e.cursors.All() {
		if !sel.HasSelection() {
			continue
		}
		text, err := e.buf.TextRange(sel.Range())
		if err == nil {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
