package buffer

import (
	"sort"

	"github.com/rivo/uniseg"
)

// Row is one line of text with its grapheme layout.
// The zero value is an empty row. A Row obtained from a Buffer is a
// read-only view; it stays valid until the next mutation of that row.
type Row struct {
	text   string
	starts []int   // byte offset at which each grapheme begins
	widths []uint8 // display width of each grapheme: 0, 1 or 2
}

func newRow(text string) Row {
	r := Row{text: text}
	r.segment()
	return r
}

// segment rebuilds the grapheme boundaries. Cost is linear in the row length.
func (r *Row) segment() {
	starts := make([]int, 0, len(r.text))
	widths := make([]uint8, 0, len(r.text))

	rest := r.text
	offset := 0
	state := -1
	for len(rest) > 0 {
		var cluster string
		var boundaries int
		cluster, rest, boundaries, state = uniseg.StepString(rest, state)
		starts = append(starts, offset)
		widths = append(widths, clampWidth(boundaries>>uniseg.ShiftWidth))
		offset += len(cluster)
	}

	r.starts = starts
	r.widths = widths
}

func clampWidth(w int) uint8 {
	switch {
	case w <= 0:
		return 0
	case w >= 2:
		return 2
	default:
		return 1
	}
}

// Text returns the row content.
func (r Row) Text() string {
	return r.text
}

// Len returns the number of graphemes in the row.
func (r Row) Len() int {
	return len(r.starts)
}

// Grapheme returns the cluster at col, or "" when col is out of range.
func (r Row) Grapheme(col int) string {
	if col < 0 || col >= len(r.starts) {
		return ""
	}
	return r.text[r.starts[col]:r.ByteOffset(col+1)]
}

// Width returns the display width of the cluster at col.
func (r Row) Width(col int) int {
	if col < 0 || col >= len(r.widths) {
		return 0
	}
	return int(r.widths[col])
}

// DisplayWidth returns the summed width of graphemes in [0, col).
// Tabs are not expanded here; see the layout package.
func (r Row) DisplayWidth(col int) int {
	if col > len(r.widths) {
		col = len(r.widths)
	}
	w := 0
	for i := 0; i < col; i++ {
		w += int(r.widths[i])
	}
	return w
}

// ByteOffset converts a grapheme column to a byte offset.
// A column equal to Len maps to the end of the text.
func (r Row) ByteOffset(col int) int {
	if col >= len(r.starts) {
		return len(r.text)
	}
	if col <= 0 {
		return 0
	}
	return r.starts[col]
}

// Column converts a byte offset to a grapheme column, rounding up when the
// offset falls inside a cluster.
func (r Row) Column(offset int) int {
	if offset >= len(r.text) {
		return len(r.starts)
	}
	if offset <= 0 {
		return 0
	}
	return sort.SearchInts(r.starts, offset)
}

// VisualColumn returns the terminal column at which col starts, with tabs
// expanded to the next multiple of tabWidth.
func (r Row) VisualColumn(col, tabWidth int) int {
	if col > len(r.starts) {
		col = len(r.starts)
	}
	v := 0
	for i := 0; i < col; i++ {
		v += r.cellWidth(i, v, tabWidth)
	}
	return v
}

// ColumnAtVisual returns the grapheme column whose cells cover the visual
// column v. Positions past the end map to Len.
func (r Row) ColumnAtVisual(v, tabWidth int) int {
	x := 0
	for i := range r.starts {
		w := r.cellWidth(i, x, tabWidth)
		if v < x+w || (w == 0 && v == x) {
			return i
		}
		x += w
	}
	return len(r.starts)
}

// CellWidth returns how many terminal cells the grapheme at col occupies
// when it starts at visual column x.
func (r Row) CellWidth(col, x, tabWidth int) int {
	if col < 0 || col >= len(r.starts) {
		return 0
	}
	return r.cellWidth(col, x, tabWidth)
}

func (r Row) cellWidth(col, x, tabWidth int) int {
	if r.text[r.starts[col]] == '\t' {
		if tabWidth <= 0 {
			tabWidth = DefaultTabWidth
		}
		return tabWidth - x%tabWidth
	}
	return int(r.widths[col])
}
