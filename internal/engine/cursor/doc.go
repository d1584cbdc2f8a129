// Package cursor provides cursor and selection management for text editing.
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Head: the cursor position, where typing occurs
//   - Anchor: the other end of the selection, present only after
//     SetAnchor has been called for that cursor
//
// A selection is active when it is anchored and Anchor != Head.
//
// Multi-Cursor Support:
//
// CursorSet manages multiple selections that are:
//   - Kept sorted by position, top to bottom
//   - Collapsed when two bare cursors land on the same position
//   - Merged when active selections overlap
//   - Transformed together through every primitive buffer op
//
// Positions are grapheme columns. Because an edit can re-segment a row
// (a combining mark joins the cluster before it), transformation happens in
// byte space: Track converts every selection to byte positions before an op
// is applied, TransformPos moves them through the op, and Restore converts
// them back against the edited buffer.
//
// Basic usage:
//
//	cs := cursor.NewCursorSetAt(buffer.Pt(0, 2))
//	cs.Add(cursor.NewCursorSelection(buffer.Pt(0, 5)))
//
//	marks := cs.Track(buf)
//	op, _ := buf.Insert(0, 2, "X")
//	marks.Transform(op)
//	cs.Restore(buf, marks)
//
// Thread Safety:
//
// Selection is an immutable value type. CursorSet is owned by the goroutine
// that owns the document's buffer.
package cursor
