// Package viewport tracks which part of a document is visible and keeps
// the active cursor inside the scroll margins.
package viewport

// Viewport is the visible window onto a document. Rows are document rows;
// columns are visual columns after tab and wide-character expansion.
type Viewport struct {
	// First visible row and visual column.
	topRow  int
	leftCol int

	// Size in screen cells.
	width  int
	height int

	margins MarginConfig

	// Number of rows in the document.
	rowCount int
}

// NewViewport creates a viewport with the given size and default margins.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{margins: DefaultMargins(), rowCount: 1}
	v.Resize(width, height)
	return v
}

// Width returns the viewport width.
func (v *Viewport) Width() int { return v.width }

// Height returns the viewport height.
func (v *Viewport) Height() int { return v.height }

// TopRow returns the first visible row.
func (v *Viewport) TopRow() int { return v.topRow }

// LeftColumn returns the first visible visual column.
func (v *Viewport) LeftColumn() int { return v.leftCol }

// BottomRow returns the last visible row, limited to the document.
func (v *Viewport) BottomRow() int {
	bottom := v.topRow + v.height - 1
	if bottom > v.rowCount-1 {
		bottom = v.rowCount - 1
	}
	return bottom
}

// VisibleRows returns the first and last visible document rows.
func (v *Viewport) VisibleRows() (first, last int) {
	return v.topRow, v.BottomRow()
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
}

// SetRowCount records the document length and keeps the top row inside it.
func (v *Viewport) SetRowCount(n int) {
	if n < 1 {
		n = 1
	}
	v.rowCount = n
	if v.topRow > n-1 {
		v.topRow = n - 1
	}
}

// IsRowVisible returns true if the row is within the viewport.
func (v *Viewport) IsRowVisible(row int) bool {
	return row >= v.topRow && row <= v.BottomRow()
}

// ToScreen converts a document row and visual column to viewport-relative
// coordinates. ok is false when the position is scrolled out of view.
func (v *Viewport) ToScreen(row, visualCol int) (y, x int, ok bool) {
	y, x = row-v.topRow, visualCol-v.leftCol
	ok = y >= 0 && y < v.height && x >= 0 && x < v.width
	return y, x, ok
}

// ScrollTo shows row at the top.
func (v *Viewport) ScrollTo(row int) {
	if row > v.rowCount-1 {
		row = v.rowCount - 1
	}
	if row < 0 {
		row = 0
	}
	v.topRow = row
}

// ScrollBy scrolls by delta rows.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.topRow + delta)
}

// ScrollHorizontalBy scrolls by delta visual columns.
func (v *Viewport) ScrollHorizontalBy(delta int) {
	v.leftCol += delta
	if v.leftCol < 0 {
		v.leftCol = 0
	}
}

// PageRows is how many rows PageUp and PageDown move the cursor.
func (v *Viewport) PageRows() int {
	if v.height > 2 {
		return v.height - 2
	}
	return 1
}

// CenterOn centers the viewport on row.
func (v *Viewport) CenterOn(row int) {
	v.ScrollTo(row - v.height/2)
}

// Reveal scrolls minimally so the cursor at (row, visualCol) sits inside
// the scroll margins. It returns true if the viewport moved.
func (v *Viewport) Reveal(row, visualCol int) bool {
	m := v.EffectiveMargins()
	top, left := v.topRow, v.leftCol

	switch {
	case row < v.topRow+m.Top:
		top = row - m.Top
	case row > v.topRow+v.height-1-m.Bottom:
		top = row - v.height + 1 + m.Bottom
	}
	if top > v.rowCount-1 {
		top = v.rowCount - 1
	}
	if top < 0 {
		top = 0
	}

	switch {
	case visualCol < v.leftCol+m.Left:
		left = visualCol - m.Left
	case visualCol > v.leftCol+v.width-1-m.Right:
		left = visualCol - v.width + 1 + m.Right
	}
	if left < 0 {
		left = 0
	}

	moved := top != v.topRow || left != v.leftCol
	v.topRow, v.leftCol = top, left
	return moved
}
