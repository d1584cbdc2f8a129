// Package buffer provides the row store that holds one document's text.
//
// Text is kept as an ordered slice of rows. A row never contains a line
// terminator; row boundaries are the only line-break representation. Each
// row carries grapheme cluster boundaries and per-cluster display widths
// (computed with rivo/uniseg) so that columns are counted in user-perceived
// characters rather than bytes or code points.
//
// Positions:
//
//   - Point: (Row, Col), both 0-indexed, Col in graphemes
//   - Range: a pair of Points, Start inclusive and End exclusive
//
// All positions are validated. Requests outside the document fail with
// ErrPositionOutOfBounds; the buffer never clamps on behalf of its callers.
//
// Mutations:
//
// Every change to the buffer is expressed as a primitive Op (insert,
// delete, split, join, or an insert or delete block spanning rows)
// addressed by byte offset within a row. A block moves the rows below it
// once, so pasting or deleting k rows costs one slice move, not k. An Op
// carries the exact bytes it adds or removes, so Op.Invert always yields
// the operation that restores the previous state byte for byte. The
// high-level Insert, InsertText, Delete, SplitRow and JoinRows methods validate
// grapheme positions, build the ops, apply them and return them so that
// the transaction log can record them.
//
// Basic usage:
//
//	buf, _ := buffer.FromLines([]string{"hello", "world"})
//	op, _ := buf.Insert(0, 5, ", there")
//	_ = buf.Apply(op.Invert()) // back to "hello"
//
// Thread Safety:
//
// A Buffer is owned by a single goroutine. Work that must run elsewhere
// (background highlighting, for example) takes a copy of the rows with
// Lines first.
package buffer
