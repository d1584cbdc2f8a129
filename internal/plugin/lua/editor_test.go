package lua

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/buffer"
)

type fakeHost struct {
	bindings map[string]func() error
	messages []string
}

func (h *fakeHost) Bind(chord string, fn func() error) error {
	if chord == "bad" {
		return errors.New("unknown chord")
	}
	h.bindings[chord] = fn
	return nil
}

func (h *fakeHost) Message(text string) {
	h.messages = append(h.messages, text)
}

func newEditorState(t *testing.T, lines ...string) (*State, *engine.Engine, *fakeHost) {
	t.Helper()
	e, err := engine.Load(lines)
	require.NoError(t, err)

	s := NewState()
	t.Cleanup(func() { _ = s.Close() })
	host := &fakeHost{bindings: map[string]func() error{}}
	InstallEditor(s, func() Editor { return e }, host)
	return s, e, host
}

func TestEditorInsertAndQuery(t *testing.T) {
	s, e, host := newEditorState(t, "hello", "world")

	require.NoError(t, s.DoString(`
		editor.insert_text(">> ", 2, 1)
		editor.set_cursor(1, 6)
		editor.insert_text("!")
		editor.message("lines", editor.line_count(), editor.current_line())
	`))

	assert.Equal(t, []string{"hello!", ">> world"}, e.Serialize())
	assert.Equal(t, []string{"lines 2 hello!"}, host.messages)
}

func TestEditorDeleteRangeAndUndo(t *testing.T) {
	s, e, host := newEditorState(t, "abc", "def")

	require.NoError(t, s.DoString(`
		editor.delete_range(1, 2, 2, 2)
		local r, c = editor.get_cursor()
		editor.message(editor.get_line(1), r, c)
		editor.message(tostring(editor.undo()), tostring(editor.redo()), tostring(editor.redo()))
	`))

	assert.Equal(t, []string{"aef"}, e.Serialize())
	assert.Equal(t, []string{"aef 1 1", "true true false"}, host.messages)
}

func TestEditorSelection(t *testing.T) {
	s, e, host := newEditorState(t, "one two")

	require.NoError(t, s.DoString(`editor.message(tostring(editor.get_selection()))`))
	require.NoError(t, e.SetSelection(buffer.Pt(0, 4), buffer.Pt(0, 7)))
	require.NoError(t, s.DoString(`
		local sel = editor.get_selection()
		editor.message(sel.start_row, sel.start_col, sel.end_row, sel.end_col)
	`))

	assert.Equal(t, []string{"nil", "1 5 1 8"}, host.messages)
}

func TestEditorErrorsAreCatchable(t *testing.T) {
	s, e, host := newEditorState(t, "x")

	require.NoError(t, s.DoString(`
		local ok, err = pcall(editor.set_cursor, 9, 1)
		editor.message(tostring(ok))
	`))
	assert.Equal(t, []string{"false"}, host.messages)
	assert.Equal(t, []string{"x"}, e.Serialize())

	err := s.DoString(`editor.insert_text("a", 5, 5)`)
	var se *ScriptError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "<string>", se.Chunk)
}

func TestEditorBind(t *testing.T) {
	s, e, host := newEditorState(t, "")

	require.NoError(t, s.DoString(`
		editor.bind("ctrl+t", function() editor.insert_text("t") end)
		editor.bind("ctrl+e", function() error("boom") end)
	`))
	require.Contains(t, host.bindings, "ctrl+t")

	require.NoError(t, host.bindings["ctrl+t"]())
	require.NoError(t, host.bindings["ctrl+t"]())
	assert.Equal(t, []string{"tt"}, e.Serialize())

	err := host.bindings["ctrl+e"]()
	var se *ScriptError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "ctrl+e", se.Chunk)

	assert.Error(t, s.DoString(`editor.bind("bad", function() end)`))
}

func TestEditorRequire(t *testing.T) {
	s, _, host := newEditorState(t, "a", "b", "c")

	require.NoError(t, s.DoString(`
		local ed = require("editor")
		ed.message(ed.line_count())
	`))
	assert.Equal(t, []string{"3"}, host.messages)
}

func TestNoActiveDocument(t *testing.T) {
	s := NewState()
	defer s.Close()
	host := &fakeHost{bindings: map[string]func() error{}}
	InstallEditor(s, func() Editor { return nil }, host)

	assert.Error(t, s.DoString(`editor.line_count()`))
	require.NoError(t, s.DoString(`editor.message("still here")`))
	assert.Equal(t, []string{"still here"}, host.messages)
}

func TestSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	tests := []struct {
		name string
		code string
	}{
		{"io", `io.write("x")`},
		{"os", `os.exit(1)`},
		{"dofile", `dofile("/etc/passwd")`},
		{"load", `load("return 1")()`},
		{"require io", `require("io")`},
		{"require file", `require("mymodule")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, s.DoString(tt.code))
		})
	}

	require.NoError(t, s.DoString(`local m = require("math"); assert(m.floor(1.5) == 1)`))
	require.NoError(t, s.DoString(`assert(string.upper("a") == "A")`))
}

func TestExecutionTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)

	// The state stays usable after a timeout.
	require.NoError(t, s.DoString(`local x = 1`))
}

func TestClosedState(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.DoString(`local x = 1`), ErrStateClosed)
	require.NoError(t, s.Close())
}

func TestBridgeRoundTrip(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	lv := b.ToLuaValue(map[string]any{"n": 3, "list": []string{"a", "b"}, "ok": true})
	got := b.ToGoValue(lv).(map[string]any)
	assert.Equal(t, int64(3), got["n"])
	assert.Equal(t, []any{"a", "b"}, got["list"])
	assert.Equal(t, true, got["ok"])
}
