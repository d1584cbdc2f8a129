package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Delta is a relative move: Cols grapheme steps horizontally, then Rows
// steps vertically. Negative values move left and up.
type Delta struct {
	Rows int
	Cols int
}

// Move moves the selection at index by d and reports whether index exists.
// Horizontal steps wrap across row ends when wrap is true. Vertical steps
// keep the selection's goal visual column.
func (cs *CursorSet) Move(buf *buffer.Buffer, index int, d Delta, wrap bool) bool {
	sel, ok := cs.Get(index)
	if !ok {
		return false
	}
	cs.selections[index] = MoveSelection(buf, sel, d, wrap)
	cs.normalize()
	return true
}

// MoveSelection returns sel with its head moved by d.
func MoveSelection(buf *buffer.Buffer, sel Selection, d Delta, wrap bool) Selection {
	head := buf.Clamp(sel.Head)
	goal := sel.Goal

	for ; d.Cols < 0; d.Cols++ {
		head = Left(buf, head, wrap)
		goal = NoGoal
	}
	for ; d.Cols > 0; d.Cols-- {
		head = Right(buf, head, wrap)
		goal = NoGoal
	}
	if d.Rows != 0 {
		head, goal = Vertical(buf, head, goal, d.Rows)
	}

	out := sel.MoveTo(head)
	out.Goal = goal
	return out
}

// Left returns the position one grapheme before p.
func Left(buf *buffer.Buffer, p Point, wrap bool) Point {
	if p.Col > 0 {
		return Point{Row: p.Row, Col: p.Col - 1}
	}
	if wrap && p.Row > 0 {
		n, _ := buf.RowLen(p.Row - 1)
		return Point{Row: p.Row - 1, Col: n}
	}
	return p
}

// Right returns the position one grapheme after p.
func Right(buf *buffer.Buffer, p Point, wrap bool) Point {
	n, _ := buf.RowLen(p.Row)
	if p.Col < n {
		return Point{Row: p.Row, Col: p.Col + 1}
	}
	if wrap && p.Row+1 < buf.LineCount() {
		return Point{Row: p.Row + 1}
	}
	return p
}

// Vertical moves p by rows, landing on the grapheme that covers the goal
// visual column. A goal of NoGoal is taken from p. The returned goal is
// carried by the selection for the next vertical move.
func Vertical(buf *buffer.Buffer, p Point, goal, rows int) (Point, int) {
	tab := buf.TabWidth()
	if goal == NoGoal {
		row, _ := buf.RowAt(p.Row)
		goal = row.VisualColumn(p.Col, tab)
	}

	target := p.Row + rows
	if target < 0 {
		return Point{}, goal
	}
	if target >= buf.LineCount() {
		return buf.End(), goal
	}
	row, _ := buf.RowAt(target)
	return Point{Row: target, Col: row.ColumnAtVisual(goal, tab)}, goal
}

// LineStart returns the first column of p's row.
func LineStart(p Point) Point {
	return Point{Row: p.Row}
}

// LineEnd returns the position after the last grapheme of p's row.
func LineEnd(buf *buffer.Buffer, p Point) Point {
	n, _ := buf.RowLen(p.Row)
	return Point{Row: p.Row, Col: n}
}

type class int

const (
	classSpace class = iota
	classWord
	classPunct
)

func classOf(g string) class {
	r, _ := utf8.DecodeRuneInString(g)
	switch {
	case g == "" || unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// WordNext returns the start of the next word after p. Row ends count as
// word boundaries.
func WordNext(buf *buffer.Buffer, p Point) Point {
	row, err := buf.RowAt(p.Row)
	if err != nil {
		return p
	}
	if p.Col >= row.Len() {
		if p.Row+1 < buf.LineCount() {
			return skipSpace(buf, Point{Row: p.Row + 1})
		}
		return p
	}

	c := classOf(row.Grapheme(p.Col))
	col := p.Col
	for col < row.Len() && c != classSpace && classOf(row.Grapheme(col)) == c {
		col++
	}
	return skipSpace(buf, Point{Row: p.Row, Col: col})
}

func skipSpace(buf *buffer.Buffer, p Point) Point {
	row, _ := buf.RowAt(p.Row)
	for p.Col < row.Len() && classOf(row.Grapheme(p.Col)) == classSpace {
		p.Col++
	}
	return p
}

// WordPrev returns the start of the word before p.
func WordPrev(buf *buffer.Buffer, p Point) Point {
	if p.Col == 0 {
		if p.Row == 0 {
			return p
		}
		n, _ := buf.RowLen(p.Row - 1)
		return Point{Row: p.Row - 1, Col: n}
	}

	row, _ := buf.RowAt(p.Row)
	col := p.Col
	for col > 0 && classOf(row.Grapheme(col-1)) == classSpace {
		col--
	}
	if col == 0 {
		return Point{Row: p.Row}
	}
	c := classOf(row.Grapheme(col - 1))
	for col > 0 && classOf(row.Grapheme(col-1)) == c {
		col--
	}
	return Point{Row: p.Row, Col: col}
}

// SelectAll returns a selection covering the whole buffer.
func SelectAll(buf *buffer.Buffer) Selection {
	return NewSelection(Point{}, buf.End())
}
