package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/quill/internal/engine/buffer"
)

func newTestBuffer(t *testing.T, lines ...string) *buffer.Buffer {
	t.Helper()
	buf, err := buffer.FromLines(lines)
	require.NoError(t, err)
	return buf
}

func TestSelectionBasics(t *testing.T) {
	c := NewCursorSelection(buffer.Pt(1, 2))
	assert.True(t, c.IsEmpty())
	assert.Equal(t, buffer.Pt(1, 2), c.Start())

	s := NewSelection(buffer.Pt(2, 0), buffer.Pt(1, 3))
	assert.True(t, s.HasSelection())
	assert.Equal(t, buffer.Pt(1, 3), s.Start())
	assert.Equal(t, buffer.Pt(2, 0), s.End())

	anchored := c.WithAnchor()
	assert.False(t, anchored.HasSelection(), "anchor at head selects nothing")
	moved := anchored.MoveTo(buffer.Pt(1, 5))
	assert.True(t, moved.HasSelection())
	assert.Equal(t, buffer.Pt(1, 2), moved.Anchor)

	assert.False(t, moved.Collapse().Anchored)
}

func TestCursorSetMergesDuplicates(t *testing.T) {
	cs := NewCursorSetAt(buffer.Pt(0, 5))
	cs.AddCursor(buffer.Pt(0, 2))
	cs.AddCursor(buffer.Pt(0, 5))

	require.Equal(t, 2, cs.Count())
	first, _ := cs.Get(0)
	second, _ := cs.Get(1)
	assert.Equal(t, buffer.Pt(0, 2), first.Head)
	assert.Equal(t, buffer.Pt(0, 5), second.Head)
}

func TestCursorSetMergesOverlappingSelections(t *testing.T) {
	cs := NewCursorSet(NewSelection(buffer.Pt(0, 0), buffer.Pt(0, 4)))
	cs.Add(NewSelection(buffer.Pt(0, 2), buffer.Pt(0, 6)))
	cs.AddCursor(buffer.Pt(0, 3))

	require.Equal(t, 1, cs.Count())
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 6)), cs.Primary().Range())
}

func TestCursorSetKeepsAdjacentCursors(t *testing.T) {
	cs := NewCursorSet(NewSelection(buffer.Pt(0, 0), buffer.Pt(0, 4)))
	cs.AddCursor(buffer.Pt(0, 4))
	assert.Equal(t, 2, cs.Count())
}

func TestTransformPos(t *testing.T) {
	tests := []struct {
		name string
		pos  Pos
		op   buffer.Op
		want Pos
	}{
		{"insert before", Pos{0, 5}, buffer.Op{Kind: buffer.OpInsert, Row: 0, Offset: 2, Text: "X"}, Pos{0, 6}},
		{"insert at", Pos{0, 2}, buffer.Op{Kind: buffer.OpInsert, Row: 0, Offset: 2, Text: "XY"}, Pos{0, 4}},
		{"insert after", Pos{0, 1}, buffer.Op{Kind: buffer.OpInsert, Row: 0, Offset: 2, Text: "X"}, Pos{0, 1}},
		{"insert other row", Pos{1, 5}, buffer.Op{Kind: buffer.OpInsert, Row: 0, Offset: 0, Text: "X"}, Pos{1, 5}},
		{"delete before", Pos{0, 8}, buffer.Op{Kind: buffer.OpDelete, Row: 0, Offset: 2, Text: "abc"}, Pos{0, 5}},
		{"delete spanning", Pos{0, 3}, buffer.Op{Kind: buffer.OpDelete, Row: 0, Offset: 2, Text: "abc"}, Pos{0, 2}},
		{"split before", Pos{0, 6}, buffer.Op{Kind: buffer.OpSplit, Row: 0, Offset: 4}, Pos{1, 2}},
		{"split after", Pos{0, 2}, buffer.Op{Kind: buffer.OpSplit, Row: 0, Offset: 4}, Pos{0, 2}},
		{"split above", Pos{3, 1}, buffer.Op{Kind: buffer.OpSplit, Row: 0, Offset: 4}, Pos{4, 1}},
		{"join into", Pos{1, 2}, buffer.Op{Kind: buffer.OpJoin, Row: 0, Offset: 4}, Pos{0, 6}},
		{"join below", Pos{5, 2}, buffer.Op{Kind: buffer.OpJoin, Row: 0, Offset: 4}, Pos{4, 2}},
		{"insert block at", Pos{1, 3}, buffer.Op{Kind: buffer.OpInsertBlock, Row: 1, Offset: 2, Text: "ab\nc\nxyz"}, Pos{3, 4}},
		{"insert block after", Pos{1, 1}, buffer.Op{Kind: buffer.OpInsertBlock, Row: 1, Offset: 2, Text: "a\nb"}, Pos{1, 1}},
		{"insert block above", Pos{4, 0}, buffer.Op{Kind: buffer.OpInsertBlock, Row: 1, Offset: 2, Text: "a\nb\nc"}, Pos{6, 0}},
		{"delete block inside", Pos{2, 1}, buffer.Op{Kind: buffer.OpDeleteBlock, Row: 1, Offset: 2, Text: "cd\nefg\nhi"}, Pos{1, 2}},
		{"delete block end row", Pos{3, 5}, buffer.Op{Kind: buffer.OpDeleteBlock, Row: 1, Offset: 2, Text: "cd\nefg\nhi"}, Pos{1, 5}},
		{"delete block below", Pos{7, 1}, buffer.Op{Kind: buffer.OpDeleteBlock, Row: 1, Offset: 2, Text: "cd\nefg\nhi"}, Pos{5, 1}},
		{"delete block before", Pos{1, 1}, buffer.Op{Kind: buffer.OpDeleteBlock, Row: 1, Offset: 2, Text: "cd\nefg\nhi"}, Pos{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformPos(tt.pos, tt.op))
		})
	}
}

func TestTrackRestoreAcrossRowDeletion(t *testing.T) {
	buf := newTestBuffer(t, "zero", "one", "two is long", "three")
	cs := NewCursorSetAt(buffer.Pt(2, 5))

	marks := cs.Track(buf)
	ops, err := buf.Delete(buffer.NewRange(buffer.Pt(2, 0), buffer.Pt(3, 0)))
	require.NoError(t, err)
	for _, op := range ops {
		marks.Transform(op)
	}
	cs.Restore(buf, marks)

	head := cs.Primary().Head
	assert.Equal(t, 2, head.Row)
	n, _ := buf.RowLen(2)
	assert.LessOrEqual(t, head.Col, n)
	assert.True(t, buf.Valid(head))
}

func TestClampAll(t *testing.T) {
	buf := newTestBuffer(t, "ab", "c")
	cs := NewCursorSetAt(buffer.Pt(0, 9))
	cs.AddCursor(buffer.Pt(5, 5))
	cs.ClampAll(buf)

	for _, sel := range cs.All() {
		assert.True(t, buf.Valid(sel.Head), "%s", sel)
	}
}

func TestMoveWideCharacter(t *testing.T) {
	buf := newTestBuffer(t, "a世b")
	row, _ := buf.RowAt(0)

	cs := NewCursorSetAt(buffer.Pt(0, 1))
	require.True(t, cs.Move(buf, 0, Delta{Cols: 1}, false))

	head := cs.Primary().Head
	assert.Equal(t, 2, head.Col)
	assert.Equal(t, 1, row.VisualColumn(1, 4))
	assert.Equal(t, 3, row.VisualColumn(head.Col, 4), "one step skips both cells")
}

func TestMoveWrap(t *testing.T) {
	buf := newTestBuffer(t, "ab", "cd")

	cs := NewCursorSetAt(buffer.Pt(0, 2))
	cs.Move(buf, 0, Delta{Cols: 1}, true)
	assert.Equal(t, buffer.Pt(1, 0), cs.Primary().Head)

	cs.Move(buf, 0, Delta{Cols: -1}, true)
	assert.Equal(t, buffer.Pt(0, 2), cs.Primary().Head)

	cs = NewCursorSetAt(buffer.Pt(0, 2))
	cs.Move(buf, 0, Delta{Cols: 1}, false)
	assert.Equal(t, buffer.Pt(0, 2), cs.Primary().Head)
}

func TestVerticalGoalColumn(t *testing.T) {
	buf := newTestBuffer(t, "abcdef", "ab", "abcdef")
	cs := NewCursorSetAt(buffer.Pt(0, 5))

	cs.Move(buf, 0, Delta{Rows: 1}, false)
	assert.Equal(t, buffer.Pt(1, 2), cs.Primary().Head)

	cs.Move(buf, 0, Delta{Rows: 1}, false)
	assert.Equal(t, buffer.Pt(2, 5), cs.Primary().Head, "goal column restored")
}

func TestVerticalAcrossTabs(t *testing.T) {
	buf := newTestBuffer(t, "\tx", "abcdef")
	cs := NewCursorSetAt(buffer.Pt(0, 1))
	cs.Move(buf, 0, Delta{Rows: 1}, false)
	assert.Equal(t, buffer.Pt(1, 4), cs.Primary().Head)
}

func TestWordMotions(t *testing.T) {
	buf := newTestBuffer(t, "foo.bar  baz", "next")

	p := buffer.Pt(0, 0)
	p = WordNext(buf, p)
	assert.Equal(t, buffer.Pt(0, 3), p)
	p = WordNext(buf, p)
	assert.Equal(t, buffer.Pt(0, 4), p)
	p = WordNext(buf, p)
	assert.Equal(t, buffer.Pt(0, 9), p)
	p = WordNext(buf, p)
	assert.Equal(t, buffer.Pt(0, 12), p)
	p = WordNext(buf, p)
	assert.Equal(t, buffer.Pt(1, 0), p)

	p = WordPrev(buf, buffer.Pt(0, 12))
	assert.Equal(t, buffer.Pt(0, 9), p)
	p = WordPrev(buf, p)
	assert.Equal(t, buffer.Pt(0, 4), p)
	assert.Equal(t, buffer.Pt(0, 12), WordPrev(buf, buffer.Pt(1, 0)))
}

func TestSetAnchorExtends(t *testing.T) {
	buf := newTestBuffer(t, "hello")
	cs := NewCursorSetAt(buffer.Pt(0, 1))
	require.True(t, cs.SetAnchor(0))
	cs.Move(buf, 0, Delta{Cols: 3}, false)

	sel := cs.Primary()
	assert.True(t, sel.HasSelection())
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 1), buffer.Pt(0, 4)), sel.Range())
	assert.False(t, cs.SetAnchor(3))
}

// Random edits never leave a cursor outside the buffer.
func TestCursorsStayValidProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z世 ]{0,8}`), 1, 6).Draw(rt, "lines")
		buf, err := buffer.FromLines(lines)
		if err != nil {
			rt.Fatal(err)
		}

		cs := NewCursorSetAt(buffer.Pt(0, 0))
		n := rapid.IntRange(1, 4).Draw(rt, "cursors")
		for i := 0; i < n; i++ {
			row := rapid.IntRange(0, buf.LineCount()-1).Draw(rt, "row")
			rowLen, _ := buf.RowLen(row)
			col := rapid.IntRange(0, rowLen).Draw(rt, "col")
			cs.AddCursor(buffer.Pt(row, col))
		}

		steps := rapid.IntRange(1, 10).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			marks := cs.Track(buf)
			var ops []buffer.Op
			row := rapid.IntRange(0, buf.LineCount()-1).Draw(rt, "editRow")
			rowLen, _ := buf.RowLen(row)
			col := rapid.IntRange(0, rowLen).Draw(rt, "editCol")

			switch rapid.IntRange(0, 4).Draw(rt, "kind") {
			case 0:
				op, err := buf.Insert(row, col, "x世")
				if err != nil {
					rt.Fatal(err)
				}
				ops = append(ops, op)
			case 1:
				end := buf.Clamp(buffer.Pt(row+1, 1))
				del, err := buf.Delete(buffer.NewRange(buffer.Pt(row, col), end))
				if err != nil {
					rt.Fatal(err)
				}
				ops = append(ops, del...)
			case 2:
				op, err := buf.SplitRow(row, col)
				if err != nil {
					rt.Fatal(err)
				}
				ops = append(ops, op)
			case 3:
				if row+1 < buf.LineCount() {
					op, err := buf.JoinRows(row)
					if err != nil {
						rt.Fatal(err)
					}
					ops = append(ops, op)
				}
			case 4:
				op, err := buf.InsertText(buffer.Pt(row, col), "a\n世\nb")
				if err != nil {
					rt.Fatal(err)
				}
				ops = append(ops, op)
			}

			for _, op := range ops {
				marks.Transform(op)
			}
			cs.Restore(buf, marks)

			prev := buffer.Pt(-1, -1)
			for _, sel := range cs.All() {
				if !buf.Valid(sel.Head) {
					rt.Fatalf("cursor %s outside buffer %q", sel, buf.Lines())
				}
				if !sel.Head.After(prev) {
					rt.Fatalf("cursors not strictly ordered: %v", cs.All())
				}
				prev = sel.Head
			}
		}
	})
}
