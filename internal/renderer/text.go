package renderer

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/screen"
)

// colRange is a half-open grapheme column range on one row. eol marks a
// range that continues past the end of the row.
type colRange struct {
	start, end int
	eol        bool
}

func (c colRange) contains(col int) bool {
	return col >= c.start && (col < c.end || c.eol)
}

// rangeOnRow clips r to row.
func rangeOnRow(r buffer.Range, row, rowLen int) (colRange, bool) {
	if row < r.Start.Row || row > r.End.Row {
		return colRange{}, false
	}
	c := colRange{start: 0, end: rowLen}
	if row == r.Start.Row {
		c.start = r.Start.Col
	}
	if row == r.End.Row {
		c.end = r.End.Col
	} else {
		c.eol = true
	}
	return c, c.start < c.end || c.eol
}

// rowPaint collects what decorates one row besides syntax.
type rowPaint struct {
	primary   []colRange
	secondary []colRange
	match     []colRange
	cursors   []int // secondary cursor columns
}

func (r *Renderer) paintFor(v View, row, rowLen int) rowPaint {
	var p rowPaint
	for _, sel := range v.Selections {
		isPrimary := sel.Head == v.Primary.Head
		if sel.HasSelection() {
			if c, ok := rangeOnRow(sel.Range(), row, rowLen); ok {
				if isPrimary {
					p.primary = append(p.primary, c)
				} else {
					p.secondary = append(p.secondary, c)
				}
			}
		}
		if !isPrimary && sel.Head.Row == row {
			p.cursors = append(p.cursors, sel.Head.Col)
		}
	}
	if v.Match != nil {
		if c, ok := rangeOnRow(*v.Match, row, rowLen); ok {
			p.match = append(p.match, c)
		}
	}
	return p
}

func inAny(ranges []colRange, col int) bool {
	for _, c := range ranges {
		if c.contains(col) {
			return true
		}
	}
	return false
}

// styleAt layers selection, match and secondary cursors over base.
func (r *Renderer) styleAt(base core.Style, p rowPaint, col int) core.Style {
	switch {
	case inAny(p.match, col):
		base = base.WithBackground(r.theme.SearchMatch)
	case inAny(p.primary, col):
		base = base.WithBackground(r.theme.Selection)
	case inAny(p.secondary, col):
		base = base.WithBackground(r.theme.Background.Blend(r.theme.Selection, 0.6))
	}
	for _, c := range p.cursors {
		if c == col {
			return base.Reverse()
		}
	}
	return base
}

// renderText paints the visible rows of v into rect.
func (r *Renderer) renderText(grid *screen.Grid, rect core.ScreenRect, v View) {
	if rect.IsEmpty() {
		return
	}
	vp := v.Viewport
	count := v.Buffer.LineCount()
	base := r.theme.Base()

	for y := rect.Top; y < rect.Bottom; y++ {
		row := vp.TopRow() + (y - rect.Top)
		if row >= count {
			break
		}
		line, err := v.Buffer.RowAt(row)
		if err != nil {
			break
		}

		rowBase := base
		if row == v.Primary.Head.Row && !v.Primary.HasSelection() {
			rowBase = base.WithBackground(r.theme.LineHighlight)
			grid.Fill(core.ScreenRect{Top: y, Bottom: y + 1, Left: rect.Left, Right: rect.Right}, core.BlankCell(rowBase))
		}

		var spans []highlight.Span
		if v.Highlighter != nil {
			spans = v.Highlighter.Spans(row)
		}
		r.renderRow(grid, rect, y, line, rowBase, spans, r.paintFor(v, row, line.Len()), vp.LeftColumn())
	}
}

func (r *Renderer) renderRow(grid *screen.Grid, rect core.ScreenRect, y int, line buffer.Row, rowBase core.Style, spans []highlight.Span, paint rowPaint, left int) {
	right := left + rect.Width()
	x := 0
	si := 0
	n := line.Len()

	for col := 0; col < n && x < right; col++ {
		w := line.CellWidth(col, x, r.opts.TabWidth)
		if w == 0 {
			continue
		}
		for si < len(spans) && spans[si].End <= col {
			si++
		}
		style := rowBase
		if si < len(spans) && spans[si].Start <= col {
			style = rowBase.Merge(r.theme.StyleForToken(spans[si].Type))
		}
		style = r.styleAt(style, paint, col)

		g := line.Grapheme(col)
		switch {
		case x+w <= left:
			// scrolled off to the left
		case g == "\t" || x < left || x+w > right:
			// Tabs and graphemes cut by either edge show as blank cells.
			for cx := max(x, left); cx < min(x+w, right); cx++ {
				grid.Set(rect.Left+cx-left, y, core.BlankCell(style))
			}
		default:
			grid.Set(rect.Left+x-left, y, core.Cell{Text: g, Width: w, Style: style})
		}
		x += w
	}

	// One cell past the end shows a selection or cursor at end of line.
	if x >= left && x < right {
		if style := r.styleAt(rowBase, paint, n); !style.Equals(rowBase) {
			grid.Set(rect.Left+x-left, y, core.BlankCell(style))
		}
	}
}
