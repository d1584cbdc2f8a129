package statusline

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/screen"
)

// Tab is one open document on the tab line.
type Tab struct {
	Title    string
	Modified bool
}

const maxTabWidth = 24

func (t Tab) label() string {
	title := t.Title
	if title == "" {
		title = "[No Name]"
	}
	if t.Modified {
		title += "*"
	}
	return " " + runewidth.Truncate(title, maxTabWidth, "…") + " "
}

// RenderTabs draws the tab line on row y. When the tabs do not fit, the
// line scrolls so the active tab is fully visible.
func RenderTabs(grid *screen.Grid, y int, tabs []Tab, active int, activeStyle, inactiveStyle core.Style) {
	width, _ := grid.Size()
	grid.Fill(core.RectFromSize(y, 0, 1, width), core.BlankCell(inactiveStyle))
	if len(tabs) == 0 {
		return
	}

	labels := make([]string, len(tabs))
	ends := make([]int, len(tabs))
	total := 0
	for i, t := range tabs {
		labels[i] = t.label()
		total += runewidth.StringWidth(labels[i])
		ends[i] = total
	}

	first := 0
	if active >= 0 && active < len(tabs) {
		for first < active && ends[active]-startOf(ends, first) > width {
			first++
		}
	}

	x := 0
	for i := first; i < len(tabs) && x < width; i++ {
		style := inactiveStyle
		if i == active {
			style = activeStyle
		}
		x += grid.SetString(x, y, labels[i], style, width-x)
	}
}

func startOf(ends []int, i int) int {
	if i == 0 {
		return 0
	}
	return ends[i-1]
}
