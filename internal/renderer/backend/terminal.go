package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// bracketed paste in progress
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: s}, nil
}

// NewTerminalWithScreen wraps an existing tcell screen, such as a
// simulation screen in tests.
func NewTerminalWithScreen(s tcell.Screen) *Terminal {
	return &Terminal{screen: s}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Apply replays the commands onto the tcell screen and shows it.
func (t *Terminal) Apply(cmds []screen.Command) {
	t.mu.Lock()
	defer t.mu.Unlock()

	x, y := 0, 0
	style := tcell.StyleDefault
	for _, c := range cmds {
		switch c.Op {
		case screen.OpMove:
			x, y = c.X, c.Y
		case screen.OpStyle:
			style = convertStyle(c.Style)
		case screen.OpWrite:
			gr := uniseg.NewGraphemes(c.Text)
			for gr.Next() {
				w := core.GraphemeWidth(gr.Str())
				if w == 0 {
					continue
				}
				rs := gr.Runes()
				t.screen.SetContent(x, y, rs[0], rs[1:], style)
				x += w
			}
		case screen.OpCursor:
			t.screen.ShowCursor(c.X, c.Y)
		case screen.OpHideCursor:
			t.screen.HideCursor()
		}
	}
	t.screen.Show()
}

// PollEvent returns the next event. A bracketed paste is collected into
// a single EventPaste.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}
		if p, ok := ev.(*tcell.EventPaste); ok {
			if p.Start() {
				t.pasting = true
				t.paste.Reset()
				continue
			}
			t.pasting = false
			return Event{Type: EventPaste, PasteText: t.paste.String()}
		}
		if k, ok := ev.(*tcell.EventKey); ok && t.pasting {
			switch k.Key() {
			case tcell.KeyRune:
				t.paste.WriteRune(k.Rune())
			case tcell.KeyEnter, tcell.KeyLF:
				t.paste.WriteByte('\n')
			case tcell.KeyTab:
				t.paste.WriteByte('\t')
			}
			continue
		}
		if out := convertEvent(ev); out.Type != EventNone {
			return out
		}
	}
}

// PostEvent queues an event. Only interrupts and key events cross the
// tcell queue; key events are used for replay.
func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // queue full drops a redundant wake-up
	case EventKey:
		_ = t.screen.PostEvent(tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod)))
	}
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKeyEvent(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}
	default:
		return Event{Type: EventNone}
	}
}

func convertKeyEvent(e *tcell.EventKey) Event {
	mod := convertMod(e.Modifiers())
	k := e.Key()

	// Ctrl+letter arrives as its own control key code.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && !isNamedControl(k) {
		return Event{Type: EventKey, Key: KeyRune, Rune: rune('a' + (k - tcell.KeyCtrlA)), Mod: mod | ModCtrl}
	}
	if k == tcell.KeyCtrlSpace {
		return Event{Type: EventKey, Key: KeyRune, Rune: ' ', Mod: mod | ModCtrl}
	}
	if k == tcell.KeyRune {
		return Event{Type: EventKey, Key: KeyRune, Rune: e.Rune(), Mod: mod}
	}
	key, ok := tcellKeys[k]
	if !ok {
		return Event{Type: EventNone}
	}
	// Enter, Tab and Backspace share codes with Ctrl+M, Ctrl+I and Ctrl+H;
	// tcell reports a ctrl modifier only when the chord was real.
	return Event{Type: EventKey, Key: key, Mod: mod}
}

// isNamedControl reports control codes that double as named keys.
func isNamedControl(k tcell.Key) bool {
	return k == tcell.KeyEnter || k == tcell.KeyTab || k == tcell.KeyBackspace || k == tcell.KeyLF
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyLF:         KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	for tk, key := range tcellKeys {
		if key == k && tk != tcell.KeyLF && tk != tcell.KeyBackspace {
			return tk
		}
	}
	return tcell.KeyRune
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		result |= ModAlt
	}
	return result
}

// convertToTcellMod converts our ModMask to tcell.ModMask.
func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m&ModShift != 0 {
		result |= tcell.ModShift
	}
	if m&ModCtrl != 0 {
		result |= tcell.ModCtrl
	}
	if m&ModAlt != 0 {
		result |= tcell.ModAlt
	}
	return result
}
