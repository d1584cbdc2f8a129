// Package gutter draws the line-number column to the left of the text.
package gutter

import (
	"strconv"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinWidth is the minimum number of digit columns.
	MinWidth int

	// Mode selects absolute or relative numbering.
	Mode LineNumberMode
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers: true,
		MinWidth:        3,
		Mode:            LineNumberAbsolute,
	}
}

// Styles colors the gutter.
type Styles struct {
	Number  core.Style
	Current core.Style
}

// Gutter renders line numbers into a grid.
type Gutter struct {
	config Config
}

// New creates a gutter.
func New(config Config) *Gutter {
	return &Gutter{config: config}
}

// Config returns the gutter configuration.
func (g *Gutter) Config() Config {
	return g.config
}

// SetConfig replaces the gutter configuration.
func (g *Gutter) SetConfig(config Config) {
	g.config = config
}

// Width returns the number of columns the gutter takes for a document of
// rowCount rows, including the separator column.
func (g *Gutter) Width(rowCount int) int {
	if !g.config.ShowLineNumbers {
		return 0
	}
	return CalculateWidth(rowCount, g.config.MinWidth) + 1
}

// Render draws numbers for document rows first.. into rect. Rows past the
// end of the document are left blank. current is the cursor row.
func (g *Gutter) Render(grid *screen.Grid, rect core.ScreenRect, first, rowCount, current int, styles Styles) {
	if rect.IsEmpty() {
		return
	}
	grid.Fill(rect, core.BlankCell(styles.Number))

	f := NewLineNumberFormatter(g.config.Mode, rect.Width()-1)
	f.SetCurrentLine(current)
	for y := rect.Top; y < rect.Bottom; y++ {
		row := first + (y - rect.Top)
		if row >= rowCount {
			break
		}
		text, isCurrent := f.FormatWithHighlight(row)
		style := styles.Number
		if isCurrent {
			style = styles.Current
		}
		grid.SetString(rect.Left, y, text, style, rect.Width()-1)
	}
}

func countDigits(n int) int {
	if n <= 0 {
		return 1
	}
	return len(strconv.Itoa(n))
}
