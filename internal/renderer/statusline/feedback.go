package statusline

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

// MessageType indicates the type of feedback message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Message is the text on the feedback line.
type Message struct {
	Text string
	Type MessageType
}

// FeedbackStyles colors the feedback line by message type.
type FeedbackStyles struct {
	Base    core.Style
	Info    core.Style
	Warning core.Style
	Error   core.Style
}

func (fs FeedbackStyles) forType(t MessageType) core.Style {
	switch t {
	case MessageInfo:
		return fs.Info
	case MessageWarning:
		return fs.Warning
	case MessageError:
		return fs.Error
	default:
		return fs.Base
	}
}

// RenderFeedback draws msg on row y, truncated to the grid width.
func RenderFeedback(grid *screen.Grid, y int, msg Message, styles FeedbackStyles) {
	width, _ := grid.Size()
	grid.Fill(core.RectFromSize(y, 0, 1, width), core.BlankCell(styles.Base))
	if msg.Text == "" {
		return
	}
	grid.SetString(0, y, runewidth.Truncate(msg.Text, width, "…"), styles.forType(msg.Type), width)
}

// Prompt is a one-line input shown on the feedback line, such as the
// search query.
type Prompt struct {
	Label  string
	Input  string
	Cursor int // grapheme index into Input
}

// Render draws the prompt on row y and returns the screen column of its
// cursor. Long input scrolls so the cursor stays visible.
func (p Prompt) Render(grid *screen.Grid, y int, style core.Style) int {
	width, _ := grid.Size()
	grid.Fill(core.RectFromSize(y, 0, 1, width), core.BlankCell(style))

	label := runewidth.Truncate(p.Label, width/2, "…")
	x := grid.SetString(0, y, label, style, width)
	room := width - x - 1
	if room <= 0 {
		return width - 1
	}

	// Visual column of each grapheme boundary in Input.
	var graphemes []string
	cols := []int{0}
	gr := uniseg.NewGraphemes(p.Input)
	for gr.Next() {
		graphemes = append(graphemes, gr.Str())
		cols = append(cols, cols[len(cols)-1]+core.GraphemeWidth(gr.Str()))
	}
	cursor := min(max(p.Cursor, 0), len(graphemes))

	start := 0
	for cols[cursor]-cols[start] > room {
		start++
	}
	col := x
	for _, g := range graphemes[start:] {
		w := core.GraphemeWidth(g)
		if col+w > width {
			break
		}
		if w > 0 {
			grid.Set(col, y, core.NewCell(g, style))
		}
		col += w
	}
	return x + cols[cursor] - cols[start]
}
