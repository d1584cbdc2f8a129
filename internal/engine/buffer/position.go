package buffer

import "fmt"

// Point represents a row and column position.
// Both Row and Col are 0-indexed. Col counts grapheme clusters, and may
// equal the row length to address the position after the last cluster.
type Point struct {
	Row int
	Col int
}

// Pt is shorthand for Point{Row: row, Col: col}.
func Pt(row, col int) Point {
	return Point{Row: row, Col: col}
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Row < other.Row {
		return -1
	}
	if p.Row > other.Row {
		return 1
	}
	if p.Col < other.Col {
		return -1
	}
	if p.Col > other.Col {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Range is a span between two points. Start is inclusive, End exclusive.
type Range struct {
	Start Point
	End   Point
}

// NewRange creates a range from two points in either order.
func NewRange(a, b Point) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if p lies within [Start, End).
func (r Range) Contains(p Point) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// MultiRow returns true if the range crosses a row boundary.
func (r Range) MultiRow() bool {
	return r.Start.Row != r.End.Row
}
