// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between renderer, screen and backend.
package core

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Attributes: AttrNone,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Reverse returns a new style with reverse video attribute added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Merge layers other on top of s. Default colors in other let s show
// through; attributes accumulate.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() &&
		s.Background.IsDefault() &&
		s.Attributes == AttrNone
}

// Cell is one terminal cell. Text holds a whole grapheme cluster so that
// combining sequences reach the terminal intact. A wide grapheme occupies
// its cell plus a continuation cell to its right.
type Cell struct {
	Text  string
	Width int
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1, Style: DefaultStyle()}
}

// BlankCell returns a blank cell with the given style.
func BlankCell(style Style) Cell {
	return Cell{Text: " ", Width: 1, Style: style}
}

// ContinuationCell returns the placeholder to the right of a wide cell.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// NewCell creates a cell holding grapheme g.
func NewCell(g string, style Style) Cell {
	return Cell{Text: g, Width: GraphemeWidth(g), Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Text == ""
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Text == other.Text &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

// String returns a debug form of the cell.
func (c Cell) String() string {
	if c.IsContinuation() {
		return "<cont>"
	}
	return fmt.Sprintf("%q", c.Text)
}

// GraphemeWidth returns the terminal width of one grapheme cluster,
// clamped to 0..2. Control characters are zero width.
func GraphemeWidth(g string) int {
	if g == "" {
		return 0
	}
	if r := g[0]; len(g) == 1 && (r < 0x20 || r == 0x7f) {
		return 0
	}
	w := uniseg.StringWidth(g)
	if w > 2 {
		w = 2
	}
	return w
}

// CellsFromString splits s into grapheme cells with the given style.
// Wide graphemes are followed by a continuation cell.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		g := gr.Str()
		w := GraphemeWidth(g)
		if w == 0 {
			continue
		}
		cells = append(cells, Cell{Text: g, Width: w, Style: style})
		if w == 2 {
			cells = append(cells, ContinuationCell(style))
		}
	}
	return cells
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	var out []byte
	for _, c := range cells {
		if !c.IsContinuation() {
			out = append(out, c.Text...)
		}
	}
	return string(out)
}

// ScreenPos represents a position on screen (0-indexed).
type ScreenPos struct {
	Row int
	Col int
}

// ScreenRect represents a rectangular region on screen.
type ScreenRect struct {
	Top    int // First row (inclusive)
	Left   int // First column (inclusive)
	Bottom int // Last row (exclusive)
	Right  int // Last column (exclusive)
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(top, left, height, width int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the width of the rectangle.
func (r ScreenRect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r ScreenRect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if pos is within the rectangle.
func (r ScreenRect) Contains(pos ScreenPos) bool {
	return pos.Row >= r.Top && pos.Row < r.Bottom &&
		pos.Col >= r.Left && pos.Col < r.Right
}

// SplitTop returns the first n rows of r and the remainder.
func (r ScreenRect) SplitTop(n int) (top, rest ScreenRect) {
	n = max(0, min(n, r.Height()))
	top, rest = r, r
	top.Bottom = r.Top + n
	rest.Top = r.Top + n
	return top, rest
}

// SplitBottom returns the last n rows of r and the remainder above.
func (r ScreenRect) SplitBottom(n int) (rest, bottom ScreenRect) {
	n = max(0, min(n, r.Height()))
	rest, bottom = r, r
	rest.Bottom = r.Bottom - n
	bottom.Top = r.Bottom - n
	return rest, bottom
}

// SplitLeft returns the first n columns of r and the remainder.
func (r ScreenRect) SplitLeft(n int) (left, rest ScreenRect) {
	n = max(0, min(n, r.Width()))
	left, rest = r, r
	left.Right = r.Left + n
	rest.Left = r.Left + n
	return left, rest
}
