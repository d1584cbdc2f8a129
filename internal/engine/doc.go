// Package engine provides the editing core for one document.
//
// The engine package serves as the main facade, combining the row store,
// the cursor set and the transaction log into a single API that the app
// layer and the scripting bridge call.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: row store with grapheme columns and invertible primitive ops
//   - cursor: multi-cursor selections, motions and op transformation
//   - history: transaction log with coalescing and a save marker
//
// # Edits
//
// Every editing method opens a transaction, applies its ops at each cursor
// from top to bottom, and commits. Later cursors are moved through each op
// as it is applied, so two cursors on one row both insert where the user
// sees them:
//
//	e, _ := engine.Load([]string{"abcdefgh"})
//	e.SetCursor(buffer.Pt(0, 2))
//	e.AddCursor(buffer.Pt(0, 5))
//	e.InsertText("X") // "abXcdeXfgh"
//
// # Thread Safety
//
// An Engine is owned by one goroutine, the editor's event loop. The buffer
// is never shared; background work receives copies made with Lines.
package engine
