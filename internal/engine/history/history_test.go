package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// fakeClock is advanced by hand.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBufferAndCursors(t *testing.T, lines ...string) (*buffer.Buffer, *cursor.CursorSet) {
	t.Helper()
	buf, err := buffer.FromLines(lines)
	require.NoError(t, err)
	return buf, cursor.NewCursorSetAt(buffer.Pt(0, 0))
}

// typeText inserts text one grapheme per transaction call, the way the
// engine records keystrokes.
func typeText(t *testing.T, h *History, buf *buffer.Buffer, cs *cursor.CursorSet, text string) {
	t.Helper()
	for _, r := range text {
		h.Begin(KindInsert, "typing", cs.All())
		head := cs.Primary().Head
		op, err := buf.Insert(head.Row, head.Col, string(r))
		require.NoError(t, err)
		h.Record(op)
		cs.Set(cursor.NewCursorSelection(buffer.Pt(head.Row, head.Col+1)))
		h.Commit(cs.All())
	}
}

func TestCoalescingTypedRun(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := New(WithClock(clock.Now))
	buf, cs := newTestBufferAndCursors(t, "")

	typeText(t, h, buf, cs, "abc")
	assert.Equal(t, 1, h.UndoCount())

	ok, err := h.Undo(buf, cs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{""}, buf.Lines())
	assert.Equal(t, buffer.Pt(0, 0), cs.Primary().Head)
}

func TestCoalescingBreaksOnIdleGap(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := New(WithClock(clock.Now), WithPolicy(Policy{IdleGap: 500 * time.Millisecond}))
	buf, cs := newTestBufferAndCursors(t, "")

	typeText(t, h, buf, cs, "ab")
	clock.Advance(time.Second)
	typeText(t, h, buf, cs, "cd")
	assert.Equal(t, 2, h.UndoCount())

	_, err := h.Undo(buf, cs)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, buf.Lines())
}

func TestCoalescingBreaksOnKindChange(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := New(WithClock(clock.Now))
	buf, cs := newTestBufferAndCursors(t, "")

	typeText(t, h, buf, cs, "abc")

	h.Begin(KindDelete, "delete", cs.All())
	ops, err := buf.Delete(buffer.NewRange(buffer.Pt(0, 2), buffer.Pt(0, 3)))
	require.NoError(t, err)
	h.Record(ops...)
	cs.Set(cursor.NewCursorSelection(buffer.Pt(0, 2)))
	h.Commit(cs.All())

	assert.Equal(t, 2, h.UndoCount())
	info, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "delete", info.Description)
}

func TestSealStartsNewTransaction(t *testing.T) {
	h := New()
	buf, cs := newTestBufferAndCursors(t, "")
	typeText(t, h, buf, cs, "a")
	h.Seal()
	typeText(t, h, buf, cs, "b")
	assert.Equal(t, 2, h.UndoCount())
}

func TestOtherKindNeverCoalesces(t *testing.T) {
	h := New()
	buf, cs := newTestBufferAndCursors(t, "")
	for i := 0; i < 3; i++ {
		h.Begin(KindOther, "paste", cs.All())
		op, err := buf.Insert(0, 0, "x")
		require.NoError(t, err)
		h.Record(op)
		h.Commit(cs.All())
	}
	assert.Equal(t, 3, h.UndoCount())
}

func TestEmptyStacks(t *testing.T) {
	h := New()
	buf, cs := newTestBufferAndCursors(t, "text")

	ok, err := h.Undo(buf, cs)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.Redo(buf, cs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewEditClearsRedo(t *testing.T) {
	h := New()
	buf, cs := newTestBufferAndCursors(t, "")

	typeText(t, h, buf, cs, "abc")
	_, err := h.Undo(buf, cs)
	require.NoError(t, err)
	require.True(t, h.CanRedo())

	typeText(t, h, buf, cs, "x")
	assert.False(t, h.CanRedo())
	assert.Equal(t, 1, h.UndoCount())
}

func TestUndoRedoRestoresCursors(t *testing.T) {
	h := New()
	buf, cs := newTestBufferAndCursors(t, "hello")
	cs.Set(cursor.NewCursorSelection(buffer.Pt(0, 5)))

	h.Begin(KindNewline, "newline", cs.All())
	op, err := buf.SplitRow(0, 5)
	require.NoError(t, err)
	h.Record(op)
	cs.Set(cursor.NewCursorSelection(buffer.Pt(1, 0)))
	h.Commit(cs.All())

	_, err = h.Undo(buf, cs)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, buf.Lines())
	assert.Equal(t, buffer.Pt(0, 5), cs.Primary().Head)

	_, err = h.Redo(buf, cs)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", ""}, buf.Lines())
	assert.Equal(t, buffer.Pt(1, 0), cs.Primary().Head)
}

func TestEmptyTransactionDropped(t *testing.T) {
	h := New()
	_, cs := newTestBufferAndCursors(t, "")
	h.Begin(KindInsert, "typing", cs.All())
	h.Commit(cs.All())
	assert.Equal(t, 0, h.UndoCount())
	assert.False(t, h.InTransaction())
}

func TestMaxEntries(t *testing.T) {
	h := New(WithMaxEntries(2), WithPolicy(Policy{}))
	buf, cs := newTestBufferAndCursors(t, "")
	typeText(t, h, buf, cs, "abcd")
	assert.Equal(t, 2, h.UndoCount())
}

func TestSavedMarker(t *testing.T) {
	h := New()
	buf, cs := newTestBufferAndCursors(t, "")
	assert.False(t, h.Modified())

	typeText(t, h, buf, cs, "ab")
	assert.True(t, h.Modified())

	h.MarkSaved()
	assert.False(t, h.Modified())

	typeText(t, h, buf, cs, "c")
	assert.True(t, h.Modified())
	assert.Equal(t, 2, h.UndoCount(), "saved transaction is not extended")

	_, err := h.Undo(buf, cs)
	require.NoError(t, err)
	assert.False(t, h.Modified())

	_, err = h.Undo(buf, cs)
	require.NoError(t, err)
	assert.True(t, h.Modified())

	typeText(t, h, buf, cs, "z")
	assert.True(t, h.Modified(), "saved state is unreachable after a new edit")
}
