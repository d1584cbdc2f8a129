package highlight

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rows is an in-memory Source.
type rows []string

func (r *rows) LineCount() int { return len(*r) }

func (r *rows) Line(i int) (string, error) {
	if i < 0 || i >= len(*r) {
		return "", fmt.Errorf("row %d out of range", i)
	}
	return (*r)[i], nil
}

func newHighlighter(t *testing.T, lines ...string) (*Highlighter, *rows) {
	t.Helper()
	src := rows(lines)
	return New(&src, mustLexer(t, goLanguage())), &src
}

func TestRecomputeStopsAtFixedPoint(t *testing.T) {
	h, src := newHighlighter(t, "text /* open", "still inside", "end */ text", "row3")
	h.Recompute(0, 3)
	assert.Equal(t, []int{0, 1, 2, 3}, h.LastPass())

	spans, ok := h.SpansFor(1)
	require.True(t, ok)
	assert.Equal(t, []Span{{0, 12, TokenComment}}, spans)

	(*src)[0] = "text  open"
	h.MarkDirty(0)
	h.Recompute(0, 0)
	assert.Equal(t, []int{0, 1, 2}, h.LastPass())

	spans, ok = h.SpansFor(1)
	require.True(t, ok)
	assert.Empty(t, spans)
}

func TestSingleRowEditWithoutCarryChange(t *testing.T) {
	h, src := newHighlighter(t, "package main", "", "var x = 1", "", "func f() {}")
	h.Recompute(0, 4)

	(*src)[2] = `var x = "one"`
	h.MarkDirty(2)
	h.Recompute(2, 2)
	assert.Equal(t, []int{2}, h.LastPass())

	spans, ok := h.SpansFor(2)
	require.True(t, ok)
	assert.Contains(t, spans, Span{8, 13, TokenString})
}

func TestSpansForReportsStaleRows(t *testing.T) {
	h, _ := newHighlighter(t, "var a", "var b")

	_, ok := h.SpansFor(0)
	assert.False(t, ok)

	spans := h.Spans(0)
	assert.Equal(t, []Span{{0, 3, TokenKeywordDeclaration}}, spans)

	h.MarkDirty(0)
	_, ok = h.SpansFor(0)
	assert.False(t, ok)

	_, ok = h.SpansFor(7)
	assert.False(t, ok)
}

func TestInsertAndRemoveRows(t *testing.T) {
	h, src := newHighlighter(t, "a /* x", "b", "c */", "d")
	h.Recompute(0, 3)

	// Split row 0 after "a".
	*src = rows{"a", " /* x", "b", "c */", "d"}
	h.MarkDirty(0)
	h.InsertRows(1, 1)
	h.Recompute(0, 1)
	assert.Equal(t, []int{0, 1}, h.LastPass())

	spans, ok := h.SpansFor(2)
	require.True(t, ok)
	assert.Equal(t, []Span{{0, 1, TokenComment}}, spans)

	// Join them back.
	*src = rows{"a /* x", "b", "c */", "d"}
	h.RemoveRows(1, 1)
	h.MarkDirty(0)
	h.Recompute(0, 0)
	assert.Equal(t, []int{0}, h.LastPass())
	assert.Empty(t, h.dirty)
}

func TestDirtyRowAboveViewIsRecomputed(t *testing.T) {
	h, src := newHighlighter(t, "x", "y", "z", "w")
	h.Recompute(0, 3)

	(*src)[0] = "/* x"
	h.MarkDirty(0)
	h.Recompute(2, 3)

	spans, ok := h.SpansFor(3)
	require.True(t, ok)
	assert.Equal(t, []Span{{0, 1, TokenComment}}, spans)
}

func TestPlainTextHighlighter(t *testing.T) {
	src := rows{"func main() {}"}
	h := New(&src, nil)

	assert.Nil(t, h.Spans(0))
	h.Recompute(0, 0)
	assert.Empty(t, h.LastPass())
	assert.False(t, h.Pending())
}

func TestGuessedRowsBeyondBacktrack(t *testing.T) {
	lines := make([]string, maxBacktrack+500)
	for i := range lines {
		lines[i] = "x"
	}
	h, _ := newHighlighter(t, lines...)

	first := maxBacktrack + 400
	h.Recompute(first, first+5)
	assert.Equal(t, first-maxBacktrack, h.LastPass()[0])
	assert.True(t, h.rows[first].guessed)
	assert.True(t, h.Guessed())
	assert.True(t, h.Pending())

	for b := range Warmup(context.Background(), h.Lexer(), lines, h.Version(), 500, nil) {
		require.NoError(t, h.Apply(b))
	}
	assert.False(t, h.Guessed())
	assert.False(t, h.Pending())
}

func TestGuessedRowsRemoved(t *testing.T) {
	lines := make([]string, maxBacktrack+10)
	for i := range lines {
		lines[i] = "x"
	}
	h, src := newHighlighter(t, lines...)
	h.Recompute(maxBacktrack+5, maxBacktrack+9)
	require.True(t, h.Guessed())

	*src = (*src)[:4]
	h.RemoveRows(4, len(lines)-4)
	assert.False(t, h.Guessed())
}

func TestInsertRowsBlockShiftsDirtyRows(t *testing.T) {
	h, src := newHighlighter(t, "a", "b", "c", "d", "e", "f")
	h.Recompute(0, 5)
	h.MarkDirty(1)
	h.MarkDirty(4)

	*src = rows{"a", "b", "n1", "n2", "n3", "c", "d", "e", "f"}
	h.InsertRows(2, 3)
	assert.Equal(t, []int{1, 2, 3, 4, 7}, h.dirty)
	for r := 2; r < 5; r++ {
		assert.True(t, h.rows[r].dirty, "row %d", r)
	}

	*src = rows{"a", "b", "c", "d", "e", "f"}
	h.RemoveRows(2, 3)
	assert.Equal(t, []int{1, 4}, h.dirty)
	h.Recompute(0, 5)
	assert.Empty(t, h.dirty)
}

func TestWarmupBatchesFillRows(t *testing.T) {
	lines := make([]string, 1000)
	lines[0] = "/* open"
	for i := 1; i < len(lines); i++ {
		lines[i] = "inside"
	}
	h, _ := newHighlighter(t, lines...)

	ch := Warmup(context.Background(), h.Lexer(), lines, h.Version(), 100, nil)
	batches := 0
	for b := range ch {
		require.NoError(t, h.Apply(b))
		batches++
	}
	assert.Equal(t, 10, batches)
	assert.False(t, h.Pending())

	spans, ok := h.SpansFor(999)
	require.True(t, ok)
	assert.Equal(t, []Span{{0, 6, TokenComment}}, spans)
}

func TestStaleBatchIsRejected(t *testing.T) {
	lines := []string{"var a", "var b"}
	h, _ := newHighlighter(t, lines...)

	ch := Warmup(context.Background(), h.Lexer(), lines, h.Version(), 10, nil)
	b := <-ch

	h.MarkDirty(0)
	err := h.Apply(b)
	assert.True(t, errors.Is(err, ErrStaleHighlightVersion))
	_, ok := h.SpansFor(1)
	assert.False(t, ok)
}

func TestBatchDoesNotOverwriteForegroundRows(t *testing.T) {
	h, _ := newHighlighter(t, "var a", "var b")
	h.Recompute(0, 0)
	own, _ := h.SpansFor(0)

	err := h.Apply(Batch{
		Version: h.Version(),
		Start:   0,
		Rows: []RowResult{
			{Spans: []Span{{0, 5, TokenComment}}},
			{Spans: []Span{{0, 5, TokenString}}},
		},
	})
	require.NoError(t, err)

	got, _ := h.SpansFor(0)
	assert.Equal(t, own, got)
	got, ok := h.SpansFor(1)
	require.True(t, ok)
	assert.Equal(t, []Span{{0, 5, TokenString}}, got)
}

func TestStartWarmupAndDrain(t *testing.T) {
	lines := make([]string, 300)
	for i := range lines {
		lines[i] = fmt.Sprintf("var v%d = %d", i, i)
	}
	h, _ := newHighlighter(t, lines...)

	h.StartWarmup(context.Background(), lines, 32, nil)
	require.True(t, h.WarmupRunning())

	require.Eventually(t, func() bool {
		_, err := h.Drain()
		return err == nil && !h.WarmupRunning()
	}, 2*time.Second, time.Millisecond)

	assert.False(t, h.Pending())
}

func TestDrainStopsOnStaleBatch(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "x"
	}
	h, _ := newHighlighter(t, lines...)

	h.StartWarmup(context.Background(), lines, 10, nil)
	h.MarkDirty(5)

	require.Eventually(t, func() bool {
		_, err := h.Drain()
		if err != nil {
			assert.ErrorIs(t, err, ErrStaleHighlightVersion)
		}
		return !h.WarmupRunning()
	}, 2*time.Second, time.Millisecond)
}
