// Package history provides the edit transaction log behind undo and redo.
//
// # Transactions
//
// A Transaction is an ordered list of primitive buffer ops (insert, delete,
// split, join) plus the cursor selections captured before and after it.
// Because every buffer.Op carries the exact bytes it touched, undoing a
// transaction is applying the inverses of its ops in reverse order and
// restoring the "before" cursors; redo replays the ops and restores the
// "after" cursors.
//
// # Lifecycle
//
//	h.Begin(history.KindInsert, "typing", cursors.All())
//	h.Record(op)
//	h.Commit(cursors.All())
//
// Commit pushes onto the undo stack and clears the redo stack. History is
// linear; there is no branching.
//
// # Coalescing
//
// Begin reopens the newest transaction instead of starting a new one when
// the edit has the same Kind, arrives within the policy's idle gap, nothing
// was undone in between and the transaction was not sealed. Typing a word
// quickly therefore undoes in one step. Both the idle gap and whitespace
// sealing are configurable through Policy.
//
// # Save marker
//
// MarkSaved records the undo depth that matches the file on disk, and
// Modified compares against it, so undoing back to the saved state clears
// the modified flag.
package history
