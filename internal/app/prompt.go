package app

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/statusline"
)

// prompt is a one-line input on the feedback line. Input is kept as
// graphemes so the cursor never splits a cluster.
type prompt struct {
	op     string // names the action in error reports
	label  string
	input  []string
	cursor int

	// submit runs on enter with the input text.
	submit func(s *Session, text string) error
}

func newPrompt(op, label, initial string, submit func(s *Session, text string) error) *prompt {
	p := &prompt{op: op, label: label, submit: submit}
	p.insert(initial)
	return p
}

func (p *prompt) text() string {
	return strings.Join(p.input, "")
}

func (p *prompt) insert(text string) {
	var gs []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		gs = append(gs, gr.Str())
	}
	if len(gs) == 0 {
		return
	}
	tail := append(gs, p.input[p.cursor:]...)
	p.input = append(p.input[:p.cursor], tail...)
	p.cursor += len(gs)
}

func (p *prompt) view() *statusline.Prompt {
	return &statusline.Prompt{Label: p.label, Input: p.text(), Cursor: p.cursor}
}

// promptResult tells the session what a key did to the prompt.
type promptResult int

const (
	promptEdited promptResult = iota
	promptIgnored
	promptSubmitted
	promptCancelled
)

// handle applies a key or paste event.
func (p *prompt) handle(ev backend.Event) promptResult {
	if ev.Type == backend.EventPaste {
		p.insert(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(ev.PasteText))
		return promptEdited
	}
	if ev.Type != backend.EventKey {
		return promptIgnored
	}

	switch ev.Key {
	case backend.KeyEnter:
		return promptSubmitted
	case backend.KeyEscape:
		return promptCancelled
	case backend.KeyBackspace:
		if p.cursor > 0 {
			p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
			p.cursor--
		}
	case backend.KeyDelete:
		if p.cursor < len(p.input) {
			p.input = append(p.input[:p.cursor], p.input[p.cursor+1:]...)
		}
	case backend.KeyLeft:
		p.cursor = max(p.cursor-1, 0)
	case backend.KeyRight:
		p.cursor = min(p.cursor+1, len(p.input))
	case backend.KeyHome:
		p.cursor = 0
	case backend.KeyEnd:
		p.cursor = len(p.input)
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return promptIgnored
		}
		p.insert(string(ev.Rune))
	default:
		return promptIgnored
	}
	return promptEdited
}
