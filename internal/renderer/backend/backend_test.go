package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

func frame(w, h int, text string, cursor core.ScreenPos) *screen.Grid {
	g := screen.NewGrid(w, h)
	g.SetString(0, 0, text, core.DefaultStyle().Bold(), w)
	g.SetCursor(cursor, true)
	return g
}

func TestNullBackendApply(t *testing.T) {
	b := NewNullBackend(10, 2)
	require.NoError(t, b.Init())

	w, h := b.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 2, h)

	b.Apply(screen.Diff(nil, frame(10, 2, "hello", core.ScreenPos{Col: 5})))
	assert.Equal(t, "hello     ", b.Row(0))
	assert.True(t, b.Cell(0, 0).Style.Attributes.Has(core.AttrBold))

	pos, visible := b.Cursor()
	assert.True(t, visible)
	assert.Equal(t, core.ScreenPos{Row: 0, Col: 5}, pos)
	assert.Len(t, b.Frames(), 1)
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 2)

	b.PostEvent(RuneEvent('x'))
	ev := b.PollEvent()
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, 'x', ev.Rune)

	b.Resize(20, 5)
	ev = b.PollEvent()
	assert.Equal(t, Event{Type: EventResize, Width: 20, Height: 5}, ev)

	b.Beep()
	assert.Equal(t, 1, b.Beeps())

	b.Shutdown()
	assert.Equal(t, EventClosed, b.PollEvent().Type)
}

func TestModMaskHas(t *testing.T) {
	m := ModCtrl | ModShift
	assert.True(t, m.Has(ModCtrl))
	assert.True(t, m.Has(ModShift))
	assert.False(t, m.Has(ModAlt))
	assert.False(t, ModNone.Has(ModCtrl))
}

func TestEventChord(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"rune", RuneEvent('x'), "x"},
		{"upper rune drops shift", KeyEvent(KeyRune, 'X', ModShift), "X"},
		{"ctrl letter", KeyEvent(KeyRune, 's', ModCtrl), "ctrl+s"},
		{"ctrl shift letter", KeyEvent(KeyRune, 'Z', ModCtrl|ModShift), "ctrl+shift+z"},
		{"ctrl space", KeyEvent(KeyRune, ' ', ModCtrl), "ctrl+space"},
		{"named", KeyEvent(KeyPageDown, 0, ModNone), "pgdn"},
		{"modified named", KeyEvent(KeyLeft, 0, ModShift|ModAlt), "alt+shift+left"},
		{"not a key", Event{Type: EventResize}, ""},
		{"unknown key", KeyEvent(KeyNone, 0, ModNone), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.Chord())
		})
	}
}

func TestNormalizeChord(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Ctrl+S", "ctrl+s", false},
		{"ctrl+shift+z", "ctrl+shift+z", false},
		{"alt+Left", "alt+left", false},
		{"Shift+Alt+PageUp", "alt+shift+pgup", false},
		{"shift+a", "A", false},
		{"ctrl+space", "ctrl+space", false},
		{"+", "+", false},
		{"ctrl++", "ctrl++", false},
		{"escape", "esc", false},
		{"", "", true},
		{"hyper+x", "", true},
		{"ctrl+", "", true},
		{"ctrl+nosuchkey", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeChord(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	require.NoError(t, term.Init())
	sim.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return term, sim
}

func TestTerminalApply(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 2)

	g := screen.NewGrid(10, 2)
	g.SetString(0, 0, "a日b", core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)), 10)
	g.SetCursor(core.ScreenPos{Row: 1, Col: 3}, true)
	term.Apply(screen.Diff(nil, g))

	mainc, _, style, _ := sim.GetContent(0, 0)
	assert.Equal(t, 'a', mainc)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)

	mainc, _, _, width := sim.GetContent(1, 0)
	assert.Equal(t, '日', mainc)
	assert.Equal(t, 2, width)

	mainc, _, _, _ = sim.GetContent(3, 0)
	assert.Equal(t, 'b', mainc)

	x, y, visible := sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
}

func TestTerminalCombiningMarks(t *testing.T) {
	term, sim := newSimTerminal(t, 5, 1)

	term.Apply([]screen.Command{
		{Op: screen.OpMove, X: 0, Y: 0},
		{Op: screen.OpWrite, Text: "e\u0301x", Width: 2},
		{Op: screen.OpHideCursor},
	})

	mainc, combc, _, _ := sim.GetContent(0, 0)
	assert.Equal(t, 'e', mainc)
	assert.Equal(t, []rune{'\u0301'}, combc)
	mainc, _, _, _ = sim.GetContent(1, 0)
	assert.Equal(t, 'x', mainc)
}

func TestTerminalBracketedPaste(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 2)

	require.NoError(t, sim.PostEvent(tcell.NewEventPaste(true)))
	for _, r := range "ab" {
		require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)))
	}
	require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)))
	require.NoError(t, sim.PostEvent(tcell.NewEventPaste(false)))
	require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))

	ev := term.PollEvent()
	assert.Equal(t, EventPaste, ev.Type)
	assert.Equal(t, "ab\n\tc", ev.PasteText)

	ev = term.PollEvent()
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, 'z', ev.Rune)
}

func TestTerminalInterrupt(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 2)

	term.PostEvent(Event{Type: EventInterrupt})
	assert.Equal(t, EventInterrupt, term.PollEvent().Type)
}

func TestConvertKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		in   *tcell.EventKey
		want Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), RuneEvent('q')},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), KeyEvent(KeyRune, 's', ModCtrl)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), KeyEvent(KeyEnter, 0, ModNone)},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), KeyEvent(KeyTab, 0, ModNone)},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), KeyEvent(KeyBackspace, 0, ModNone)},
		{"shift arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift), KeyEvent(KeyRight, 0, ModShift)},
		{"meta is alt", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModMeta), KeyEvent(KeyRune, 'f', ModAlt)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertKeyEvent(tt.in))
		})
	}
}

func TestConvertStyle(t *testing.T) {
	s := core.DefaultStyle().
		WithForeground(core.ColorFromIndex(3)).
		WithBackground(core.ColorFromRGB(1, 2, 3)).
		Bold().
		Reverse()

	got := convertStyle(s)
	fg, bg, attrs := got.Decompose()
	assert.Equal(t, tcell.PaletteColor(3), fg)
	assert.Equal(t, tcell.NewRGBColor(1, 2, 3), bg)
	assert.NotZero(t, attrs&tcell.AttrBold)
	assert.NotZero(t, attrs&tcell.AttrReverse)
	assert.Zero(t, attrs&tcell.AttrItalic)

	fg, _, _ = convertStyle(core.DefaultStyle()).Decompose()
	assert.Equal(t, tcell.ColorDefault, fg)
}
