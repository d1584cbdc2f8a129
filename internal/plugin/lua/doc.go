// Package lua embeds a sandboxed gopher-lua runtime for editor scripts.
//
// A State opens only the base, package, table, string and math libraries.
// Code loading functions are removed and require returns only those
// libraries and the editor module. Every run has a deadline.
//
// # The editor module
//
// InstallEditor exposes the active document and the editor around it.
// Rows and columns are 1-based, columns count graphemes.
//
//	editor.insert_text(text [, row, col])
//	editor.delete_range(start_row, start_col, end_row, end_col)
//	editor.get_selection()        -- table or nil
//	editor.set_cursor(row, col)
//	editor.get_cursor()           -- row, col
//	editor.undo() / editor.redo() -- boolean
//	editor.current_line()
//	editor.get_line(row)
//	editor.line_count()
//	editor.bind(chord, fn)
//	editor.message(...)
//
// Errors from the document, such as a position outside it, are raised as
// Lua errors and can be caught with pcall.
package lua
