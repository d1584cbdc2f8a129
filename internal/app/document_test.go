package app

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/highlight"
)

func testDoc(t *testing.T, path string, lines ...string) *Document {
	t.Helper()
	if len(lines) == 0 {
		lines = []string{""}
	}
	eng, err := engine.Load(lines)
	require.NoError(t, err)
	return newDocument(path, eng, nil)
}

func names(docs []*Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out
}

func TestDocumentManagerNaming(t *testing.T) {
	dm := NewDocumentManager()
	assert.Nil(t, dm.Active())
	assert.Equal(t, -1, dm.ActiveIndex())

	dm.Add(testDoc(t, ""))
	dm.Add(testDoc(t, "/src/main.go"))
	dm.Add(testDoc(t, ""))

	assert.Equal(t, []string{"Untitled", "main.go", "Untitled-2"}, names(dm.All()))
	assert.Equal(t, 2, dm.ActiveIndex())
	assert.Equal(t, 3, dm.Count())

	d, ok := dm.FindPath("/src/main.go")
	require.True(t, ok)
	assert.Equal(t, "main.go", d.Name)
	_, ok = dm.FindPath("")
	assert.False(t, ok)
}

func TestDocumentManagerCycle(t *testing.T) {
	dm := NewDocumentManager()
	assert.Nil(t, dm.Next())
	assert.Nil(t, dm.Previous())

	a, b, c := testDoc(t, "/a"), testDoc(t, "/b"), testDoc(t, "/c")
	dm.Add(a)
	dm.Add(b)
	dm.Add(c)

	assert.Same(t, a, dm.Next())
	assert.Same(t, b, dm.Next())
	assert.Same(t, a, dm.Previous())
	assert.Same(t, c, dm.Previous())

	require.NoError(t, dm.SetActive(b.ID))
	assert.Same(t, b, dm.Active())
	assert.ErrorIs(t, dm.SetActive(uuid.New()), ErrDocumentNotFound)
}

func TestDocumentManagerRemove(t *testing.T) {
	dm := NewDocumentManager()
	a, b, c := testDoc(t, "/a"), testDoc(t, "/b"), testDoc(t, "/c")
	dm.Add(a)
	dm.Add(b)
	dm.Add(c)

	// Removing the active last document activates its left neighbour.
	require.NoError(t, dm.Remove(c.ID))
	assert.Same(t, b, dm.Active())

	// Removing a document left of the active one keeps the active one.
	dm.Add(c)
	require.NoError(t, dm.SetActive(c.ID))
	require.NoError(t, dm.Remove(a.ID))
	assert.Same(t, c, dm.Active())

	require.NoError(t, dm.SetActive(b.ID))
	require.NoError(t, dm.Remove(b.ID))
	assert.Same(t, c, dm.Active())

	assert.ErrorIs(t, dm.Remove(b.ID), ErrDocumentNotFound)
	require.NoError(t, dm.Remove(c.ID))
	assert.Nil(t, dm.Active())
	assert.Equal(t, 0, dm.Count())
}

func TestDirtyDocuments(t *testing.T) {
	dm := NewDocumentManager()
	a, b := testDoc(t, "/a"), testDoc(t, "/b")
	dm.Add(a)
	dm.Add(b)
	assert.Empty(t, dm.DirtyDocuments())

	require.NoError(t, b.Engine.InsertText("x"))
	assert.Equal(t, []*Document{b}, dm.DirtyDocuments())
	assert.Equal(t, "x", b.Content())
}

func TestDocumentMatchFollowsSelection(t *testing.T) {
	d := testDoc(t, "", "foo foo")
	r, err := d.Engine.FindNext("foo", true)
	require.NoError(t, err)
	d.match = &r
	require.NotNil(t, d.Match())

	require.NoError(t, d.Engine.SetCursor(buffer.Pt(0, 0)))
	assert.Nil(t, d.Match())
	assert.Nil(t, d.match)
}

func TestDocumentFeedsHighlighter(t *testing.T) {
	reg := highlight.DefaultRegistry()
	lexer, err := reg.Lexer("Go")
	require.NoError(t, err)

	eng, err := engine.Load([]string{"package main", "", "func main() {}"})
	require.NoError(t, err)
	hl := highlight.New(eng.Buffer(), lexer)
	d := newDocument("/main.go", eng, hl)

	hl.Recompute(0, 2)
	_, ok := hl.SpansFor(1)
	require.True(t, ok)

	require.NoError(t, d.Engine.SetCursor(buffer.Pt(0, 12)))
	require.NoError(t, d.Engine.Newline())
	require.NoError(t, d.Engine.InsertText("// x"))

	hl.Recompute(0, d.Engine.LineCount()-1)
	for row := 0; row < d.Engine.LineCount(); row++ {
		_, ok := hl.SpansFor(row)
		assert.True(t, ok, "row %d", row)
	}
	assert.False(t, hl.Pending())

	// A multi-row paste and its undo each reach the highlighter as one
	// block of rows.
	require.NoError(t, d.Engine.Paste("/* a\nb\nc */\n"))
	assert.Equal(t, 7, d.Engine.LineCount())
	_, ok = hl.SpansFor(3)
	assert.False(t, ok)
	hl.Recompute(0, 6)
	for row := 0; row < 7; row++ {
		_, ok := hl.SpansFor(row)
		assert.True(t, ok, "row %d", row)
	}

	require.True(t, d.Engine.Undo())
	assert.Equal(t, 4, d.Engine.LineCount())
	hl.Recompute(0, 3)
	assert.False(t, hl.Pending())
}
