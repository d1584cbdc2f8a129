package buffer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Errors returned by buffer operations.
var (
	// ErrPositionOutOfBounds indicates a row, column or byte offset outside
	// the document. Callers are expected to clamp before calling.
	ErrPositionOutOfBounds = errors.New("position out of bounds")

	// ErrLineTerminator indicates text passed to a single-row operation
	// contained a line terminator.
	ErrLineTerminator = errors.New("text contains a line terminator")

	// ErrOpMismatch indicates an op's recorded text does not match the
	// buffer contents it addresses.
	ErrOpMismatch = errors.New("op does not match buffer contents")
)

// DefaultTabWidth is used when no tab width option is given.
const DefaultTabWidth = 4

// Buffer is the row store for one document.
type Buffer struct {
	rows       []Row
	lineEnding LineEnding
	tabWidth   int
	revision   uint64
	observers  []func(Op)
}

// New creates a buffer holding a single empty row.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		rows:     []Row{newRow("")},
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromLines creates a buffer whose rows are lines. An empty slice yields a
// single empty row. Lines must not contain line terminators.
func FromLines(lines []string, opts ...Option) (*Buffer, error) {
	b := New(opts...)
	if len(lines) == 0 {
		return b, nil
	}
	rows := make([]Row, len(lines))
	for i, line := range lines {
		if hasTerminator(line) {
			return nil, fmt.Errorf("line %d: %w", i, ErrLineTerminator)
		}
		rows[i] = newRow(line)
	}
	b.rows = rows
	return b, nil
}

// FromString creates a buffer from text, splitting on any line ending.
// The detected line ending is kept unless an option overrides it.
func FromString(text string, opts ...Option) *Buffer {
	opts = append([]Option{WithLineEnding(DetectLineEnding(text))}, opts...)
	b, _ := FromLines(SplitLines(text), opts...)
	return b
}

func hasTerminator(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// LineCount returns the number of rows. It is always at least 1.
func (b *Buffer) LineCount() int {
	return len(b.rows)
}

// Line returns the text of a row.
func (b *Buffer) Line(row int) (string, error) {
	if row < 0 || row >= len(b.rows) {
		return "", ErrPositionOutOfBounds
	}
	return b.rows[row].text, nil
}

// RowAt returns a read-only view of a row.
func (b *Buffer) RowAt(row int) (Row, error) {
	if row < 0 || row >= len(b.rows) {
		return Row{}, ErrPositionOutOfBounds
	}
	return b.rows[row], nil
}

// RowLen returns the number of graphemes in a row.
func (b *Buffer) RowLen(row int) (int, error) {
	if row < 0 || row >= len(b.rows) {
		return 0, ErrPositionOutOfBounds
	}
	return b.rows[row].Len(), nil
}

// GraphemeWidth returns the display width (0, 1 or 2) of the grapheme at
// (row, col).
func (b *Buffer) GraphemeWidth(row, col int) (int, error) {
	if row < 0 || row >= len(b.rows) {
		return 0, ErrPositionOutOfBounds
	}
	r := b.rows[row]
	if col < 0 || col >= r.Len() {
		return 0, ErrPositionOutOfBounds
	}
	return r.Width(col), nil
}

// Lines returns a copy of every row's text.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.rows))
	for i, r := range b.rows {
		out[i] = r.text
	}
	return out
}

// Text returns the whole document joined with "\n".
func (b *Buffer) Text() string {
	return strings.Join(b.Lines(), "\n")
}

// Revision increments on every applied op.
func (b *Buffer) Revision() uint64 {
	return b.revision
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// SetLineEnding changes the line ending used when writing.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.lineEnding = le
}

// TabWidth returns the tab width.
func (b *Buffer) TabWidth() int {
	return b.tabWidth
}

// SetTabWidth sets the tab width. Non-positive values are ignored.
func (b *Buffer) SetTabWidth(width int) {
	if width > 0 {
		b.tabWidth = width
	}
}

// Valid reports whether p addresses a position inside the document.
func (b *Buffer) Valid(p Point) bool {
	if p.Row < 0 || p.Row >= len(b.rows) {
		return false
	}
	return p.Col >= 0 && p.Col <= b.rows[p.Row].Len()
}

// Clamp returns the nearest valid position to p.
func (b *Buffer) Clamp(p Point) Point {
	if p.Row < 0 {
		return Point{}
	}
	if p.Row >= len(b.rows) {
		last := len(b.rows) - 1
		return Point{Row: last, Col: b.rows[last].Len()}
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if n := b.rows[p.Row].Len(); p.Col > n {
		p.Col = n
	}
	return p
}

// End returns the position after the last grapheme of the document.
func (b *Buffer) End() Point {
	last := len(b.rows) - 1
	return Point{Row: last, Col: b.rows[last].Len()}
}

// ByteOffset converts p to a byte offset within its row.
func (b *Buffer) ByteOffset(p Point) (int, error) {
	if !b.Valid(p) {
		return 0, ErrPositionOutOfBounds
	}
	return b.rows[p.Row].ByteOffset(p.Col), nil
}

// Column converts a byte offset within row to a grapheme column.
func (b *Buffer) Column(row, offset int) (int, error) {
	if row < 0 || row >= len(b.rows) {
		return 0, ErrPositionOutOfBounds
	}
	if offset < 0 || offset > len(b.rows[row].text) {
		return 0, ErrPositionOutOfBounds
	}
	return b.rows[row].Column(offset), nil
}

// Insert inserts single-row text at (row, col) and returns the applied op.
func (b *Buffer) Insert(row, col int, text string) (Op, error) {
	if hasTerminator(text) {
		return Op{}, ErrLineTerminator
	}
	off, err := b.ByteOffset(Point{Row: row, Col: col})
	if err != nil {
		return Op{}, err
	}
	op := Op{Kind: OpInsert, Row: row, Offset: off, Text: text}
	if text == "" {
		return op, nil
	}
	return op, b.Apply(op)
}

// InsertText inserts text, which may span rows, at p and returns the
// applied op. Any line ending in text becomes a row break. Text without a
// break is a plain insert; anything else is a single insert-block op.
func (b *Buffer) InsertText(p Point, text string) (Op, error) {
	off, err := b.ByteOffset(p)
	if err != nil {
		return Op{}, err
	}
	op := Op{Kind: OpInsert, Row: p.Row, Offset: off, Text: text}
	if hasTerminator(text) {
		op.Kind, op.Text = OpInsertBlock, normalizeBreaks(text)
	}
	if op.Text == "" {
		return op, nil
	}
	return op, b.Apply(op)
}

// normalizeBreaks rewrites every line ending in text as "\n".
func normalizeBreaks(text string) string {
	s := strings.Join(SplitLines(text), "\n")
	if strings.HasSuffix(text, "\n") || strings.HasSuffix(text, "\r") {
		s += "\n"
	}
	return s
}

// Delete removes the text in r and returns the applied ops in order. A
// multi-row range is removed by one delete-block op, so the rows below
// move up once however many rows go.
func (b *Buffer) Delete(r Range) ([]Op, error) {
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	if !b.Valid(r.Start) || !b.Valid(r.End) {
		return nil, ErrPositionOutOfBounds
	}
	if r.IsEmpty() {
		return nil, nil
	}

	text, err := b.TextRange(r)
	if err != nil {
		return nil, err
	}
	op := Op{
		Kind:   OpDelete,
		Row:    r.Start.Row,
		Offset: b.rows[r.Start.Row].ByteOffset(r.Start.Col),
		Text:   text,
	}
	if r.MultiRow() {
		op.Kind = OpDeleteBlock
	}
	if err := b.Apply(op); err != nil {
		return nil, err
	}
	return []Op{op}, nil
}

// SplitRow breaks the row at col, moving the tail to a new row below.
func (b *Buffer) SplitRow(row, col int) (Op, error) {
	off, err := b.ByteOffset(Point{Row: row, Col: col})
	if err != nil {
		return Op{}, err
	}
	op := Op{Kind: OpSplit, Row: row, Offset: off}
	return op, b.Apply(op)
}

// JoinRows appends row+1 to row.
func (b *Buffer) JoinRows(row int) (Op, error) {
	if row < 0 || row+1 >= len(b.rows) {
		return Op{}, ErrPositionOutOfBounds
	}
	op := Op{Kind: OpJoin, Row: row, Offset: len(b.rows[row].text)}
	return op, b.Apply(op)
}

// Apply performs a primitive op. Ops are validated against the current
// contents; an op recorded against different text fails with ErrOpMismatch.
func (b *Buffer) Apply(op Op) error {
	if op.Row < 0 || op.Row >= len(b.rows) {
		return fmt.Errorf("%s: %w", op, ErrPositionOutOfBounds)
	}
	row := &b.rows[op.Row]
	if op.Offset < 0 || op.Offset > len(row.text) {
		return fmt.Errorf("%s: %w", op, ErrPositionOutOfBounds)
	}

	switch op.Kind {
	case OpInsert:
		if hasTerminator(op.Text) {
			return ErrLineTerminator
		}
		row.text = row.text[:op.Offset] + op.Text + row.text[op.Offset:]
		row.segment()

	case OpDelete:
		end := op.Offset + len(op.Text)
		if end > len(row.text) {
			return fmt.Errorf("%s: %w", op, ErrPositionOutOfBounds)
		}
		if row.text[op.Offset:end] != op.Text {
			return fmt.Errorf("%s: %w", op, ErrOpMismatch)
		}
		row.text = row.text[:op.Offset] + row.text[end:]
		row.segment()

	case OpSplit:
		head, tail := row.text[:op.Offset], row.text[op.Offset:]
		*row = newRow(head)
		b.rows = slices.Insert(b.rows, op.Row+1, newRow(tail))

	case OpJoin:
		if op.Row+1 >= len(b.rows) {
			return fmt.Errorf("%s: %w", op, ErrPositionOutOfBounds)
		}
		if op.Offset != len(row.text) {
			return fmt.Errorf("%s: %w", op, ErrOpMismatch)
		}
		*row = newRow(row.text + b.rows[op.Row+1].text)
		b.rows = slices.Delete(b.rows, op.Row+1, op.Row+2)

	case OpInsertBlock:
		if err := b.insertBlock(op); err != nil {
			return err
		}

	case OpDeleteBlock:
		if err := b.deleteBlock(op); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown op kind %d", op.Kind)
	}

	b.revision++
	for _, fn := range b.observers {
		fn(op)
	}
	return nil
}

// insertBlock splices the rows of op.Text in below op.Row with a single
// move of the rows that follow.
func (b *Buffer) insertBlock(op Op) error {
	lines := strings.Split(op.Text, "\n")
	if len(lines) < 2 {
		return fmt.Errorf("%s: %w", op, ErrOpMismatch)
	}
	if strings.ContainsRune(op.Text, '\r') {
		return ErrLineTerminator
	}
	row := b.rows[op.Row]
	head, tail := row.text[:op.Offset], row.text[op.Offset:]
	last := len(lines) - 1

	added := make([]Row, last)
	for i := 1; i < last; i++ {
		added[i-1] = newRow(lines[i])
	}
	added[last-1] = newRow(lines[last] + tail)
	b.rows[op.Row] = newRow(head + lines[0])
	b.rows = slices.Insert(b.rows, op.Row+1, added...)
	return nil
}

// deleteBlock checks that op.Text matches the rows it spans, then cuts
// them out with a single move of the rows that follow.
func (b *Buffer) deleteBlock(op Op) error {
	lines := strings.Split(op.Text, "\n")
	last := len(lines) - 1
	if last < 1 {
		return fmt.Errorf("%s: %w", op, ErrOpMismatch)
	}
	if op.Row+last >= len(b.rows) {
		return fmt.Errorf("%s: %w", op, ErrPositionOutOfBounds)
	}
	if b.rows[op.Row].text[op.Offset:] != lines[0] {
		return fmt.Errorf("%s: %w", op, ErrOpMismatch)
	}
	for i := 1; i < last; i++ {
		if b.rows[op.Row+i].text != lines[i] {
			return fmt.Errorf("%s: %w", op, ErrOpMismatch)
		}
	}
	end := b.rows[op.Row+last].text
	if !strings.HasPrefix(end, lines[last]) {
		return fmt.Errorf("%s: %w", op, ErrOpMismatch)
	}

	b.rows[op.Row] = newRow(b.rows[op.Row].text[:op.Offset] + end[len(lines[last]):])
	b.rows = slices.Delete(b.rows, op.Row+1, op.Row+last+1)
	return nil
}

// Observe registers fn to be called after every successfully applied op,
// including the ops replayed by undo and redo.
func (b *Buffer) Observe(fn func(Op)) {
	b.observers = append(b.observers, fn)
}

// ApplyAll applies ops in order, stopping at the first failure.
func (b *Buffer) ApplyAll(ops []Op) error {
	for _, op := range ops {
		if err := b.Apply(op); err != nil {
			return err
		}
	}
	return nil
}

// TextRange returns the text covered by r, with "\n" between rows.
func (b *Buffer) TextRange(r Range) (string, error) {
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	if !b.Valid(r.Start) || !b.Valid(r.End) {
		return "", ErrPositionOutOfBounds
	}
	first := b.rows[r.Start.Row]
	startOff := first.ByteOffset(r.Start.Col)
	if !r.MultiRow() {
		return first.text[startOff:first.ByteOffset(r.End.Col)], nil
	}

	var sb strings.Builder
	sb.WriteString(first.text[startOff:])
	for row := r.Start.Row + 1; row < r.End.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(b.rows[row].text)
	}
	last := b.rows[r.End.Row]
	sb.WriteByte('\n')
	sb.WriteString(last.text[:last.ByteOffset(r.End.Col)])
	return sb.String(), nil
}
