// Package screen holds the virtual screen: a grid of styled cells built
// fresh every frame, and the diff that turns two grids into the minimal
// terminal commands.
package screen

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/renderer/core"
)

// Grid is a width x height array of cells plus the terminal cursor.
type Grid struct {
	width, height int
	cells         []core.Cell

	cursor        core.ScreenPos
	cursorVisible bool
}

// NewGrid creates a grid filled with empty cells.
func NewGrid(width, height int) *Grid {
	width, height = max(0, width), max(0, height)
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]core.Cell, width*height),
	}
	empty := core.EmptyCell()
	for i := range g.cells {
		g.cells[i] = empty
	}
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Bounds returns the whole grid as a rectangle.
func (g *Grid) Bounds() core.ScreenRect {
	return core.RectFromSize(0, 0, g.height, g.width)
}

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns the cell at (x, y), or an empty cell outside the grid.
func (g *Grid) Cell(x, y int) core.Cell {
	if !g.inside(x, y) {
		return core.EmptyCell()
	}
	return g.cells[y*g.width+x]
}

// Set stores cell at (x, y). A wide cell also claims the column to its
// right; one that would not fit is replaced by a blank. Overwriting half
// of an existing wide cell blanks the other half.
func (g *Grid) Set(x, y int, cell core.Cell) {
	if !g.inside(x, y) || cell.Width == 0 {
		return
	}
	if cell.Width == 2 && x+1 >= g.width {
		cell = core.BlankCell(cell.Style)
	}
	g.clearWide(x, y)
	g.cells[y*g.width+x] = cell
	if cell.Width == 2 {
		g.clearWide(x+1, y)
		g.cells[y*g.width+x+1] = core.ContinuationCell(cell.Style)
	}
}

// clearWide blanks the partner of a wide cell that is about to be
// overwritten at (x, y).
func (g *Grid) clearWide(x, y int) {
	i := y*g.width + x
	old := g.cells[i]
	switch {
	case old.IsContinuation() && x > 0:
		g.cells[i-1] = core.BlankCell(g.cells[i-1].Style)
	case old.Width == 2 && x+1 < g.width:
		g.cells[i+1] = core.BlankCell(old.Style)
	}
}

// SetString writes s from (x, y) grapheme by grapheme, clipped at limit
// columns (or the grid edge when limit <= 0). It returns the number of
// columns written.
func (g *Grid) SetString(x, y int, s string, style core.Style, limit int) int {
	if limit <= 0 || x+limit > g.width {
		limit = g.width - x
	}
	col := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cell := core.NewCell(gr.Str(), style)
		if cell.Width == 0 {
			continue
		}
		if col+cell.Width > limit {
			break
		}
		g.Set(x+col, y, cell)
		col += cell.Width
	}
	return col
}

// Fill sets every cell in rect to cell.
func (g *Grid) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < g.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < g.width; x++ {
			g.Set(x, y, cell)
		}
	}
}

// SetCursor places the terminal cursor. A hidden cursor is not shown.
func (g *Grid) SetCursor(pos core.ScreenPos, visible bool) {
	g.cursor = pos
	g.cursorVisible = visible && g.inside(pos.Col, pos.Row)
}

// Cursor returns the cursor position and visibility.
func (g *Grid) Cursor() (core.ScreenPos, bool) {
	return g.cursor, g.cursorVisible
}

// Row returns the text of row y, for tests and debugging.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	return core.StringFromCells(g.cells[y*g.width : (y+1)*g.width])
}

// String renders the grid as text rows, for test failures.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.WriteString(g.Row(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = make([]core.Cell, len(g.cells))
	copy(c.cells, g.cells)
	return &c
}

// Equals compares cells and cursor.
func (g *Grid) Equals(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	if g.cursorVisible != other.cursorVisible || (g.cursorVisible && g.cursor != other.cursor) {
		return false
	}
	for i := range g.cells {
		if !g.cells[i].Equals(other.cells[i]) {
			return false
		}
	}
	return true
}
