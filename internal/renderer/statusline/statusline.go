// Package statusline draws the one-row UI chrome around the text area:
// the tab line, the status line and the feedback line with its prompt.
package statusline

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

// StatusLine describes the active document.
type StatusLine struct {
	Name       string // empty for a scratch document
	Modified   bool
	ReadOnly   bool
	Language   string
	LineEnding string

	// Cursor position, 0-indexed; shown 1-indexed.
	Row, Col int
	RowCount int
	Cursors  int
}

// Left returns the file part of the status line.
func (s StatusLine) Left() string {
	name := s.Name
	if name == "" {
		name = "[No Name]"
	}
	if s.Modified {
		name += " [+]"
	}
	if s.ReadOnly {
		name += " [RO]"
	}
	return " " + name
}

// Right returns the position part of the status line.
func (s StatusLine) Right() string {
	lang := s.Language
	if lang == "" {
		lang = "Plain"
	}
	pos := fmt.Sprintf("%d:%d/%d", s.Row+1, s.Col+1, s.RowCount)
	if s.Cursors > 1 {
		pos = fmt.Sprintf("%d cursors  %s", s.Cursors, pos)
	}
	return fmt.Sprintf("%s  %s  %s ", lang, s.LineEnding, pos)
}

// Render draws the status line on row y. The right part wins when the
// row is too narrow for both.
func (s StatusLine) Render(grid *screen.Grid, y int, style core.Style) {
	width, _ := grid.Size()
	grid.Fill(core.RectFromSize(y, 0, 1, width), core.BlankCell(style))

	right := runewidth.Truncate(s.Right(), width, "")
	rw := runewidth.StringWidth(right)
	left := runewidth.Truncate(s.Left(), width-rw-1, "…")

	grid.SetString(0, y, left, style, width-rw)
	grid.SetString(width-rw, y, right, style, rw)
}
