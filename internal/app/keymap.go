package app

import (
	"fmt"
	"sort"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/renderer/backend"
)

// Action is a named editor command bound to key chords.
type Action func(s *Session) error

// motionActions are the cursor motions. Each also has a "select_" variant
// that extends the selection.
var motionActions = map[string]engine.Motion{
	"left":       engine.MoveLeft,
	"right":      engine.MoveRight,
	"up":         engine.MoveUp,
	"down":       engine.MoveDown,
	"line_start": engine.MoveLineStart,
	"line_end":   engine.MoveLineEnd,
	"word_next":  engine.MoveWordNext,
	"word_prev":  engine.MoveWordPrev,
	"doc_start":  engine.MoveDocStart,
	"doc_end":    engine.MoveDocEnd,
}

// actions returns the command table.
func actions() map[string]Action {
	table := map[string]Action{
		"save":             (*Session).save,
		"save_as":          (*Session).saveAsPrompt,
		"save_all":         (*Session).saveAll,
		"quit":             (*Session).quitAction,
		"close":            (*Session).closeAction,
		"new":              (*Session).newAction,
		"open":             (*Session).openPrompt,
		"next_doc":         (*Session).nextDoc,
		"prev_doc":         (*Session).prevDoc,
		"undo":             (*Session).undo,
		"redo":             (*Session).redo,
		"find":             (*Session).findPrompt,
		"find_next":        func(s *Session) error { return s.findNext(true) },
		"find_prev":        func(s *Session) error { return s.findNext(false) },
		"replace":          (*Session).replacePrompt,
		"replace_all":      (*Session).replaceAllPrompt,
		"delete_line":      editAction((*engine.Engine).DeleteLine),
		"select_all":       func(s *Session) error { s.doc().Engine.SelectAll(); return nil },
		"newline":          editAction((*engine.Engine).Newline),
		"backspace":        editAction((*engine.Engine).Backspace),
		"delete":           editAction((*engine.Engine).DeleteForward),
		"tab":              func(s *Session) error { return s.doc().Engine.InsertText("\t") },
		"add_cursor_up":    func(s *Session) error { s.doc().Engine.AddCursorVertical(-1); return nil },
		"add_cursor_down":  func(s *Session) error { s.doc().Engine.AddCursorVertical(1); return nil },
		"escape":           (*Session).escape,
		"page_up":          func(s *Session) error { s.page(-1, false); return nil },
		"page_down":        func(s *Session) error { s.page(1, false); return nil },
		"select_page_up":   func(s *Session) error { s.page(-1, true); return nil },
		"select_page_down": func(s *Session) error { s.page(1, true); return nil },
	}
	for name, m := range motionActions {
		table[name] = moveAction(m, false)
		table["select_"+name] = moveAction(m, true)
	}
	return table
}

func editAction(fn func(*engine.Engine) error) Action {
	return func(s *Session) error {
		return fn(s.doc().Engine)
	}
}

func moveAction(m engine.Motion, extend bool) Action {
	return func(s *Session) error {
		s.doc().Engine.Move(m, extend)
		return nil
	}
}

// DefaultKeys returns the built-in chord bindings.
func DefaultKeys() map[string]string {
	return map[string]string{
		"ctrl+s":       "save",
		"alt+s":        "save_as",
		"ctrl+alt+s":   "save_all",
		"ctrl+q":       "quit",
		"ctrl+w":       "close",
		"ctrl+n":       "new",
		"ctrl+o":       "open",
		"ctrl+pgdn":    "next_doc",
		"ctrl+pgup":    "prev_doc",
		"ctrl+z":       "undo",
		"ctrl+y":       "redo",
		"ctrl+shift+z": "redo",
		"ctrl+f":       "find",
		"ctrl+g":       "find_next",
		"f3":           "find_next",
		"shift+f3":     "find_prev",
		"ctrl+r":       "replace",
		"ctrl+shift+r": "replace_all",
		"ctrl+k":       "delete_line",
		"ctrl+a":       "select_all",
		"enter":        "newline",
		"backspace":    "backspace",
		"delete":       "delete",
		"tab":          "tab",
		"alt+up":       "add_cursor_up",
		"alt+down":     "add_cursor_down",
		"esc":          "escape",

		"left":             "left",
		"right":            "right",
		"up":               "up",
		"down":             "down",
		"home":             "line_start",
		"end":              "line_end",
		"ctrl+left":        "word_prev",
		"ctrl+right":       "word_next",
		"ctrl+home":        "doc_start",
		"ctrl+end":         "doc_end",
		"pgup":             "page_up",
		"pgdn":             "page_down",
		"shift+left":       "select_left",
		"shift+right":      "select_right",
		"shift+up":         "select_up",
		"shift+down":       "select_down",
		"shift+home":       "select_line_start",
		"shift+end":        "select_line_end",
		"ctrl+shift+left":  "select_word_prev",
		"ctrl+shift+right": "select_word_next",
		"ctrl+shift+home":  "select_doc_start",
		"ctrl+shift+end":   "select_doc_end",
		"shift+pgup":       "select_page_up",
		"shift+pgdn":       "select_page_down",
	}
}

// Keymap resolves chords to actions. Script bindings take precedence over
// configured ones, which take precedence over the defaults.
type Keymap struct {
	actions map[string]Action
	keys    map[string]string
	script  map[string]func() error
}

// NewKeymap builds the keymap from the defaults and overrides. Override
// chords must already be normalized.
func NewKeymap(overrides map[string]string) (*Keymap, error) {
	km := &Keymap{
		actions: actions(),
		keys:    DefaultKeys(),
		script:  make(map[string]func() error),
	}
	if err := km.SetOverrides(overrides); err != nil {
		return nil, err
	}
	return km, nil
}

// SetOverrides resets the chord table to the defaults plus overrides.
// Nothing changes when an override names an unknown action.
func (km *Keymap) SetOverrides(overrides map[string]string) error {
	keys := DefaultKeys()
	chords := make([]string, 0, len(overrides))
	for chord := range overrides {
		chords = append(chords, chord)
	}
	sort.Strings(chords)
	for _, chord := range chords {
		name := overrides[chord]
		if _, ok := km.actions[name]; !ok {
			return fmt.Errorf("%s = %q: %w", chord, name, ErrUnknownAction)
		}
		keys[chord] = name
	}
	km.keys = keys
	return nil
}

// BindScript binds chord to a script callback.
func (km *Keymap) BindScript(chord string, fn func() error) error {
	norm, err := backend.NormalizeChord(chord)
	if err != nil {
		return err
	}
	km.script[norm] = fn
	return nil
}

// Lookup returns what chord runs: a script callback or a named action.
func (km *Keymap) Lookup(chord string) (script func() error, name string, action Action) {
	if fn, ok := km.script[chord]; ok {
		return fn, "", nil
	}
	if name, ok := km.keys[chord]; ok {
		return nil, name, km.actions[name]
	}
	return nil, "", nil
}

// Binding returns the action name bound to chord, if any.
func (km *Keymap) Binding(chord string) (string, bool) {
	name, ok := km.keys[chord]
	return name, ok
}
