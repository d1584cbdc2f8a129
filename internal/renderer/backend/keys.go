package backend

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var keyNames = map[Key]string{
	KeyEscape:    "esc",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

var namedKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+2)
	for k, name := range keyNames {
		m[name] = k
	}
	m["escape"] = KeyEscape
	m["return"] = KeyEnter
	m["del"] = KeyDelete
	m["pageup"] = KeyPageUp
	m["pagedown"] = KeyPageDown
	return m
}()

// Chord returns the canonical name of a key event, such as "ctrl+s",
// "alt+shift+left" or "x". Modifiers come in the order ctrl, alt, shift.
// Without ctrl, shift is implied by the rune and not spelled out.
// Non-key events have no chord.
func (e Event) Chord() string {
	if e.Type != EventKey {
		return ""
	}
	var base string
	mod := e.Mod
	switch e.Key {
	case KeyRune:
		r := e.Rune
		if mod.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		if r == ' ' {
			base = "space"
		} else {
			base = string(r)
		}
		if !mod.Has(ModCtrl) {
			mod &^= ModShift
		}
	default:
		name, ok := keyNames[e.Key]
		if !ok {
			return ""
		}
		base = name
	}
	return modPrefix(mod) + base
}

func modPrefix(mod ModMask) string {
	var sb strings.Builder
	if mod.Has(ModCtrl) {
		sb.WriteString("ctrl+")
	}
	if mod.Has(ModAlt) {
		sb.WriteString("alt+")
	}
	if mod.Has(ModShift) {
		sb.WriteString("shift+")
	}
	return sb.String()
}

// NormalizeChord parses a user-written chord ("Ctrl+S", "alt+Left",
// "ctrl+shift+z") and returns its canonical form as produced by Chord.
func NormalizeChord(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty key chord")
	}

	// A trailing "++" (or a lone "+") names the plus key itself.
	var mods []string
	key := s
	if s == "+" || strings.HasSuffix(s, "++") {
		key = "+"
		if rest := strings.TrimSuffix(s[:len(s)-1], "+"); rest != "" {
			mods = strings.Split(rest, "+")
		}
	} else {
		parts := strings.Split(s, "+")
		key, mods = parts[len(parts)-1], parts[:len(parts)-1]
	}

	var mod ModMask
	for _, p := range mods {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mod |= ModCtrl
		case "alt", "meta":
			mod |= ModAlt
		case "shift":
			mod |= ModShift
		default:
			return "", fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}

	key = strings.TrimSpace(key)
	ev := Event{Type: EventKey, Mod: mod}
	switch {
	case key == "":
		return "", fmt.Errorf("missing key in %q", s)
	case strings.EqualFold(key, "space"):
		ev.Key, ev.Rune = KeyRune, ' '
	case utf8.RuneCountInString(key) == 1:
		r, _ := utf8.DecodeRuneInString(key)
		ev.Key, ev.Rune = KeyRune, r
		if mod.Has(ModShift) && !mod.Has(ModCtrl) {
			ev.Rune = unicode.ToUpper(r)
		}
	default:
		k, ok := namedKeys[strings.ToLower(key)]
		if !ok {
			return "", fmt.Errorf("unknown key %q in %q", key, s)
		}
		ev.Key = k
	}
	return ev.Chord(), nil
}
