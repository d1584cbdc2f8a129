package statusline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

func TestStatusLineText(t *testing.T) {
	s := StatusLine{Name: "main.go", Modified: true, Language: "Go", LineEnding: "LF", Row: 4, Col: 0, RowCount: 120}
	assert.Equal(t, " main.go [+]", s.Left())
	assert.Equal(t, "Go  LF  5:1/120 ", s.Right())

	s = StatusLine{ReadOnly: true, LineEnding: "CRLF", RowCount: 1, Cursors: 3}
	assert.Equal(t, " [No Name] [RO]", s.Left())
	assert.Equal(t, "Plain  CRLF  3 cursors  1:1/1 ", s.Right())
}

func TestStatusLineRender(t *testing.T) {
	grid := screen.NewGrid(30, 1)
	style := core.DefaultStyle().Reverse()
	s := StatusLine{Name: "a-rather-long-file-name.txt", Language: "Text", LineEnding: "LF", RowCount: 9}

	s.Render(grid, 0, style)
	row := grid.Row(0)
	assert.True(t, strings.HasSuffix(row, "Text  LF  1:1/9 "), row)
	assert.True(t, strings.HasPrefix(row, " a-rather"), row)
	assert.Contains(t, row, "…")
	assert.True(t, grid.Cell(0, 0).Style.Equals(style))
}

func TestRenderFeedback(t *testing.T) {
	grid := screen.NewGrid(12, 1)
	styles := FeedbackStyles{
		Base:  core.DefaultStyle(),
		Error: core.DefaultStyle().Bold(),
	}

	RenderFeedback(grid, 0, Message{Text: "nothing to undo", Type: MessageError}, styles)
	assert.Equal(t, "nothing to …", grid.Row(0))
	assert.True(t, grid.Cell(0, 0).Style.Attributes.Has(core.AttrBold))

	RenderFeedback(grid, 0, Message{}, styles)
	assert.Equal(t, strings.Repeat(" ", 12), grid.Row(0))
}

func TestPromptRender(t *testing.T) {
	grid := screen.NewGrid(20, 1)
	p := Prompt{Label: "Find: ", Input: "héllo", Cursor: 5}

	x := p.Render(grid, 0, core.DefaultStyle())
	assert.Equal(t, 11, x)
	assert.True(t, strings.HasPrefix(grid.Row(0), "Find: héllo"))

	// Input longer than the row scrolls to keep the cursor visible.
	p = Prompt{Label: "Find: ", Input: strings.Repeat("x", 40), Cursor: 40}
	x = p.Render(grid, 0, core.DefaultStyle())
	assert.Equal(t, 19, x)

	p = Prompt{Label: "> ", Input: "日本", Cursor: 1}
	x = p.Render(grid, 0, core.DefaultStyle())
	assert.Equal(t, 4, x)
}

func TestRenderTabs(t *testing.T) {
	grid := screen.NewGrid(20, 1)
	active := core.DefaultStyle().Bold()
	inactive := core.DefaultStyle()

	tabs := []Tab{{Title: "a.go"}, {Title: "b.go", Modified: true}}
	RenderTabs(grid, 0, tabs, 1, active, inactive)
	assert.Equal(t, " a.go  b.go*        ", grid.Row(0))
	assert.False(t, grid.Cell(1, 0).Style.Attributes.Has(core.AttrBold))
	assert.True(t, grid.Cell(7, 0).Style.Attributes.Has(core.AttrBold))

	// The active tab scrolls into view.
	many := []Tab{{Title: "one.go"}, {Title: "two.go"}, {Title: "three.go"}, {Title: "four.go"}}
	RenderTabs(grid, 0, many, 3, active, inactive)
	assert.Contains(t, grid.Row(0), " four.go ")
}
