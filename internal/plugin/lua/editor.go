package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// Editor is the document surface a script can reach. Positions are
// 0-based here; the Lua side is 1-based.
type Editor interface {
	InsertTextAt(p buffer.Point, text string) error
	DeleteRange(r buffer.Range) error
	Selection() (buffer.Range, bool)
	SetCursor(p buffer.Point) error
	Primary() cursor.Selection
	Undo() bool
	Redo() bool
	CurrentLine() string
	LineCount() int
	Line(row int) (string, error)
}

// Host is the editor around the document: key bindings and the feedback
// line.
type Host interface {
	// Bind maps a key chord to fn. fn runs on the UI goroutine.
	Bind(chord string, fn func() error) error
	// Message shows text on the feedback line.
	Message(text string)
}

// InstallEditor registers the "editor" module, both as a global and for
// require. active returns the document scripts act on; it may return nil
// when no document is open, in which case document functions raise an
// error.
func InstallEditor(s *State, active func() Editor, host Host) {
	L := s.L
	b := NewBridge(L)

	doc := func(L *lua.LState) Editor {
		ed := active()
		if ed == nil {
			L.RaiseError("no active document")
		}
		return ed
	}
	check := func(L *lua.LState, err error) {
		if err != nil {
			L.RaiseError("%s", err.Error())
		}
	}
	// point reads a 1-based row and column at argument n.
	point := func(L *lua.LState, n int) buffer.Point {
		return buffer.Pt(L.CheckInt(n)-1, L.CheckInt(n+1)-1)
	}

	funcs := map[string]lua.LGFunction{
		// insert_text(text [, row, col]) inserts at the position or at
		// the primary cursor.
		"insert_text": func(L *lua.LState) int {
			ed := doc(L)
			text := L.CheckString(1)
			p := ed.Primary().Head
			if L.GetTop() >= 3 {
				p = point(L, 2)
			}
			check(L, ed.InsertTextAt(p, text))
			return 0
		},
		"delete_range": func(L *lua.LState) int {
			ed := doc(L)
			check(L, ed.DeleteRange(buffer.NewRange(point(L, 1), point(L, 3))))
			return 0
		},
		// get_selection returns {start_row, start_col, end_row, end_col}
		// or nil.
		"get_selection": func(L *lua.LState) int {
			r, ok := doc(L).Selection()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(b.ToLuaValue(map[string]any{
				"start_row": r.Start.Row + 1,
				"start_col": r.Start.Col + 1,
				"end_row":   r.End.Row + 1,
				"end_col":   r.End.Col + 1,
			}))
			return 1
		},
		"set_cursor": func(L *lua.LState) int {
			check(L, doc(L).SetCursor(point(L, 1)))
			return 0
		},
		"get_cursor": func(L *lua.LState) int {
			head := doc(L).Primary().Head
			L.Push(lua.LNumber(head.Row + 1))
			L.Push(lua.LNumber(head.Col + 1))
			return 2
		},
		"undo": func(L *lua.LState) int {
			L.Push(lua.LBool(doc(L).Undo()))
			return 1
		},
		"redo": func(L *lua.LState) int {
			L.Push(lua.LBool(doc(L).Redo()))
			return 1
		},
		"current_line": func(L *lua.LState) int {
			L.Push(lua.LString(doc(L).CurrentLine()))
			return 1
		},
		"line_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(doc(L).LineCount()))
			return 1
		},
		// get_line(row) returns the text of a 1-based row.
		"get_line": func(L *lua.LState) int {
			line, err := doc(L).Line(L.CheckInt(1) - 1)
			check(L, err)
			L.Push(lua.LString(line))
			return 1
		},
		// bind(chord, fn)
		"bind": func(L *lua.LState) int {
			chord := L.CheckString(1)
			fn := L.CheckFunction(2)
			err := host.Bind(chord, func() error {
				return s.CallFunction(chord, fn)
			})
			check(L, err)
			return 0
		},
		// message(...) joins its arguments with spaces.
		"message": func(L *lua.LState) int {
			text := ""
			for i := 1; i <= L.GetTop(); i++ {
				if i > 1 {
					text += " "
				}
				text += L.ToStringMeta(L.Get(i)).String()
			}
			host.Message(text)
			return 0
		},
	}

	loader := func(L *lua.LState) int {
		L.Push(L.SetFuncs(L.NewTable(), funcs))
		return 1
	}
	L.PreloadModule("editor", loader)
	L.SetGlobal("editor", L.SetFuncs(L.NewTable(), funcs))
}
