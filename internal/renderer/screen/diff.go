package screen

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/renderer/core"
)

// Op identifies a terminal command.
type Op uint8

// Terminal commands emitted by Diff.
const (
	OpMove       Op = iota // position the write head at (X, Y)
	OpStyle                // set the style for following writes
	OpWrite                // write Text at the write head, advancing it
	OpCursor               // show the terminal cursor at (X, Y)
	OpHideCursor           // hide the terminal cursor
)

// Command is one step of a frame update.
type Command struct {
	Op    Op
	X, Y  int
	Style core.Style
	Text  string
	Width int // columns covered by Text
}

// String returns a debug form of the command.
func (c Command) String() string {
	switch c.Op {
	case OpMove:
		return fmt.Sprintf("move(%d,%d)", c.X, c.Y)
	case OpStyle:
		return fmt.Sprintf("style(%s/%s/%d)", c.Style.Foreground, c.Style.Background, c.Style.Attributes)
	case OpWrite:
		return fmt.Sprintf("write(%q)", c.Text)
	case OpCursor:
		return fmt.Sprintf("cursor(%d,%d)", c.X, c.Y)
	case OpHideCursor:
		return "hide-cursor"
	}
	return "unknown"
}

// Diff computes the commands that turn a terminal showing prev into one
// showing next. Changed cells are grouped into runs per row; each run is a
// move followed by writes, with a style command only when the style
// changes. A nil prev, or one of a different size, redraws every cell.
// Identical grids yield no commands. Whenever anything is emitted the last
// command places (or hides) the cursor.
func Diff(prev, next *Grid) []Command {
	full := prev == nil || prev.width != next.width || prev.height != next.height

	var (
		cmds     []Command
		styleSet bool
		style    core.Style
	)
	for y := 0; y < next.height; y++ {
		x := 0
		for x < next.width {
			if !full && !changed(prev, next, x, y) {
				x++
				continue
			}
			start := x
			if next.Cell(x, y).IsContinuation() && x > 0 {
				start = x - 1
			}
			end := runEnd(prev, next, start, y, full)
			cmds = append(cmds, Command{Op: OpMove, X: start, Y: y})
			cmds = writeRun(cmds, next, start, end, y, &style, &styleSet)
			x = end
		}
	}

	pcur, pvis := core.ScreenPos{}, false
	if prev != nil {
		pcur, pvis = prev.Cursor()
	}
	ncur, nvis := next.Cursor()
	cursorMoved := pvis != nvis || (nvis && pcur != ncur)
	if len(cmds) == 0 && !full && !cursorMoved {
		return nil
	}
	if nvis {
		cmds = append(cmds, Command{Op: OpCursor, X: ncur.Col, Y: ncur.Row})
	} else {
		cmds = append(cmds, Command{Op: OpHideCursor})
	}
	return cmds
}

func changed(prev, next *Grid, x, y int) bool {
	return !prev.Cell(x, y).Equals(next.Cell(x, y))
}

// runEnd returns the exclusive end of the changed run starting at x.
// A wide cell always carries its continuation column with it.
func runEnd(prev, next *Grid, x, y int, full bool) int {
	for x < next.width {
		c := next.Cell(x, y)
		w := max(c.Width, 1)
		if !full && !changed(prev, next, x, y) && !(w == 2 && changed(prev, next, x+1, y)) {
			break
		}
		x += w
	}
	return min(x, next.width)
}

func writeRun(cmds []Command, g *Grid, start, end, y int, style *core.Style, styleSet *bool) []Command {
	var (
		text  strings.Builder
		width int
	)
	flush := func() {
		if width > 0 {
			cmds = append(cmds, Command{Op: OpWrite, Text: text.String(), Width: width})
			text.Reset()
			width = 0
		}
	}
	for x := start; x < end; x++ {
		c := g.Cell(x, y)
		if c.IsContinuation() {
			continue
		}
		if !*styleSet || !style.Equals(c.Style) {
			flush()
			*style, *styleSet = c.Style, true
			cmds = append(cmds, Command{Op: OpStyle, Style: c.Style})
		}
		text.WriteString(c.Text)
		width += c.Width
	}
	flush()
	return cmds
}

// Apply replays cmds onto g. Writing a grapheme behaves the way a terminal
// does: it fills the cell under the write head and advances by its width.
func Apply(g *Grid, cmds []Command) {
	var (
		x, y  int
		style = core.DefaultStyle()
	)
	for _, cmd := range cmds {
		switch cmd.Op {
		case OpMove:
			x, y = cmd.X, cmd.Y
		case OpStyle:
			style = cmd.Style
		case OpWrite:
			gr := uniseg.NewGraphemes(cmd.Text)
			for gr.Next() {
				cell := core.NewCell(gr.Str(), style)
				if cell.Width == 0 {
					continue
				}
				g.Set(x, y, cell)
				x += cell.Width
			}
		case OpCursor:
			g.SetCursor(core.ScreenPos{Row: cmd.Y, Col: cmd.X}, true)
		case OpHideCursor:
			g.SetCursor(g.cursor, false)
		}
	}
}
