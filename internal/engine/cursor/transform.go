package cursor

import "github.com/dshills/quill/internal/engine/buffer"

// Pos is a byte-addressed position: Offset is a byte offset within Row.
// Unlike Point it survives the grapheme re-segmentation an edit can cause.
type Pos struct {
	Row    int
	Offset int
}

// TransformPos moves p through op.
//
// Transformation rules:
//   - insert at or before p on p's row: p shifts right by the inserted bytes
//   - delete on p's row: p shifts left, or snaps to the delete start when
//     it was inside the deleted text
//   - split above p, or at or before p on p's row: p moves down a row
//   - join of p's row into the row above: p moves up and right
//   - blocks behave like an insert or delete that spans rows, moving
//     everything below by the number of rows added or removed
func TransformPos(p Pos, op buffer.Op) Pos {
	switch op.Kind {
	case buffer.OpInsert:
		if p.Row == op.Row && p.Offset >= op.Offset {
			p.Offset += len(op.Text)
		}

	case buffer.OpDelete:
		if p.Row == op.Row {
			end := op.Offset + len(op.Text)
			switch {
			case p.Offset >= end:
				p.Offset -= len(op.Text)
			case p.Offset > op.Offset:
				p.Offset = op.Offset
			}
		}

	case buffer.OpSplit:
		switch {
		case p.Row > op.Row:
			p.Row++
		case p.Row == op.Row && p.Offset >= op.Offset:
			p.Row++
			p.Offset -= op.Offset
		}

	case buffer.OpJoin:
		switch {
		case p.Row == op.Row+1:
			p.Row = op.Row
			p.Offset += op.Offset
		case p.Row > op.Row+1:
			p.Row--
		}

	case buffer.OpInsertBlock:
		n := op.Breaks()
		switch {
		case p.Row > op.Row:
			p.Row += n
		case p.Row == op.Row && p.Offset >= op.Offset:
			p.Row += n
			p.Offset += len(op.LastLine()) - op.Offset
		}

	case buffer.OpDeleteBlock:
		n := op.Breaks()
		last := op.Row + n
		endOff := len(op.LastLine())
		switch {
		case p.Row > last:
			p.Row -= n
		case p.Row == last && p.Offset >= endOff:
			p.Row = op.Row
			p.Offset += op.Offset - endOff
		case p.Row > op.Row || (p.Row == op.Row && p.Offset > op.Offset):
			p.Row, p.Offset = op.Row, op.Offset
		}
	}
	return p
}

// mark is a selection held in byte space while ops are applied.
type mark struct {
	head, anchor Pos
	anchored     bool
	goal         int
}

// Marks is a snapshot of a cursor set in byte space.
type Marks struct {
	marks []mark
}

// Len returns the number of tracked selections.
func (m *Marks) Len() int {
	return len(m.marks)
}

// Transform moves every tracked selection through op.
func (m *Marks) Transform(op buffer.Op) {
	m.TransformFrom(0, op)
}

// TransformFrom moves the tracked selections at index from onward through
// op, leaving earlier ones untouched.
func (m *Marks) TransformFrom(from int, op buffer.Op) {
	for i := from; i < len(m.marks); i++ {
		m.marks[i].head = TransformPos(m.marks[i].head, op)
		m.marks[i].anchor = TransformPos(m.marks[i].anchor, op)
	}
}

// Head returns the head of tracked selection i in byte space.
func (m *Marks) Head(i int) Pos {
	return m.marks[i].head
}

// Anchor returns the anchor of tracked selection i and whether it is set.
func (m *Marks) Anchor(i int) (Pos, bool) {
	return m.marks[i].anchor, m.marks[i].anchored
}

// SetHead replaces the head of tracked selection i and drops its anchor.
func (m *Marks) SetHead(i int, p Pos) {
	m.marks[i].head = p
	m.marks[i].anchor = p
	m.marks[i].anchored = false
	m.marks[i].goal = NoGoal
}

// Track converts every selection to byte space against buf.
// Positions outside buf are clamped first.
func (cs *CursorSet) Track(buf *buffer.Buffer) *Marks {
	m := &Marks{marks: make([]mark, len(cs.selections))}
	for i, sel := range cs.selections {
		m.marks[i] = mark{
			head:     toPos(buf, sel.Head),
			anchor:   toPos(buf, sel.Anchor),
			anchored: sel.Anchored,
			goal:     sel.Goal,
		}
	}
	return m
}

// Restore replaces the selections with marks converted back to grapheme
// columns against buf, then clamps and normalizes.
func (cs *CursorSet) Restore(buf *buffer.Buffer, m *Marks) {
	sels := make([]Selection, len(m.marks))
	for i, mk := range m.marks {
		sels[i] = Selection{
			Head:     toPoint(buf, mk.head),
			Anchor:   toPoint(buf, mk.anchor),
			Anchored: mk.anchored,
			Goal:     mk.goal,
		}
		if !sels[i].Anchored {
			sels[i].Anchor = sels[i].Head
		}
	}
	cs.SetAll(sels)
}

func toPos(buf *buffer.Buffer, p Point) Pos {
	p = buf.Clamp(p)
	off, _ := buf.ByteOffset(p)
	return Pos{Row: p.Row, Offset: off}
}

func toPoint(buf *buffer.Buffer, p Pos) Point {
	if p.Row < 0 {
		return Point{}
	}
	if p.Row >= buf.LineCount() {
		return buf.End()
	}
	line, _ := buf.Line(p.Row)
	off := p.Offset
	if off > len(line) {
		off = len(line)
	}
	if off < 0 {
		off = 0
	}
	col, _ := buf.Column(p.Row, off)
	return Point{Row: p.Row, Col: col}
}
