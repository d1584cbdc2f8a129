package renderer

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/renderer/core"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/screen"
	"github.com/dshills/quill/internal/renderer/statusline"
	"github.com/dshills/quill/internal/renderer/viewport"
)

// View is the document part of a frame.
type View struct {
	Buffer     *buffer.Buffer
	Selections []cursor.Selection
	Primary    cursor.Selection

	// Highlighter is nil for plain text.
	Highlighter *highlight.Highlighter
	Viewport    *viewport.Viewport

	// Match is the current search match, if any.
	Match *buffer.Range
}

// Chrome is everything around the text area.
type Chrome struct {
	Tabs    []statusline.Tab
	Active  int
	Status  statusline.StatusLine
	Message statusline.Message

	// Prompt replaces the feedback line and takes the cursor while set.
	Prompt *statusline.Prompt
}

// Options configures the renderer.
type Options struct {
	TabLine  bool
	TabWidth int
	Gutter   gutter.Config

	// PaneWidth reserves columns on the right of the text area for a
	// pane whose content is drawn elsewhere.
	PaneWidth int
}

// DefaultOptions returns the default renderer options.
func DefaultOptions() Options {
	return Options{
		TabLine:  true,
		TabWidth: buffer.DefaultTabWidth,
		Gutter:   gutter.DefaultConfig(),
	}
}

// Layout holds the screen regions of a frame. Empty regions are not drawn.
type Layout struct {
	Tabs     core.ScreenRect
	Gutter   core.ScreenRect
	Text     core.ScreenRect
	Pane     core.ScreenRect
	Status   core.ScreenRect
	Feedback core.ScreenRect
}

// Renderer builds frames and diffs them against the last one drawn.
type Renderer struct {
	opts   Options
	theme  *highlight.Theme
	gutter *gutter.Gutter

	width  int
	height int
	prev   *screen.Grid
	frames uint64
}

// New creates a renderer for a screen of the given size.
func New(width, height int, theme *highlight.Theme, opts Options) *Renderer {
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = buffer.DefaultTabWidth
	}
	return &Renderer{
		opts:   opts,
		theme:  theme,
		gutter: gutter.New(opts.Gutter),
		width:  max(width, 0),
		height: max(height, 0),
	}
}

// Options returns the renderer options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the options. The next frame is a full redraw.
func (r *Renderer) SetOptions(opts Options) {
	if opts.TabWidth <= 0 {
		opts.TabWidth = buffer.DefaultTabWidth
	}
	r.opts = opts
	r.gutter.SetConfig(opts.Gutter)
	r.prev = nil
}

// Theme returns the active theme.
func (r *Renderer) Theme() *highlight.Theme {
	return r.theme
}

// SetTheme replaces the theme. The next frame is a full redraw.
func (r *Renderer) SetTheme(theme *highlight.Theme) {
	if theme != nil {
		r.theme = theme
		r.prev = nil
	}
}

// Resize changes the screen size and forgets the previous frame so the
// next diff redraws everything.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = max(width, 0), max(height, 0)
	r.prev = nil
}

// Size returns the screen size.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// FrameCount returns the number of frames produced.
func (r *Renderer) FrameCount() uint64 {
	return r.frames
}

// Layout splits the screen for a document of rowCount rows.
func (r *Renderer) Layout(rowCount int) Layout {
	var l Layout
	rest := core.RectFromSize(0, 0, r.height, r.width)
	if r.opts.TabLine {
		l.Tabs, rest = rest.SplitTop(1)
	}
	rest, l.Feedback = rest.SplitBottom(1)
	rest, l.Status = rest.SplitBottom(1)
	if r.opts.PaneWidth > 0 {
		rest, l.Pane = rest.SplitLeft(rest.Width() - r.opts.PaneWidth)
	}
	l.Gutter, l.Text = rest.SplitLeft(r.gutter.Width(rowCount))
	return l
}

// FitViewport sizes vp to the text area for a document of rowCount rows.
func (r *Renderer) FitViewport(vp *viewport.Viewport, rowCount int) {
	text := r.Layout(rowCount).Text
	vp.Resize(text.Width(), text.Height())
	vp.SetRowCount(rowCount)
}

// Render builds the full grid for one frame.
func (r *Renderer) Render(v View, c Chrome) *screen.Grid {
	grid := screen.NewGrid(r.width, r.height)
	grid.Fill(grid.Bounds(), core.BlankCell(r.theme.Base()))

	rowCount := 1
	if v.Buffer != nil {
		rowCount = v.Buffer.LineCount()
	}
	l := r.Layout(rowCount)

	if !l.Tabs.IsEmpty() {
		statusline.RenderTabs(grid, l.Tabs.Top, c.Tabs, c.Active, r.theme.TabActive, r.theme.TabInactive)
	}

	var cursorPos core.ScreenPos
	cursorVisible := false
	if v.Buffer != nil && v.Viewport != nil {
		r.renderText(grid, l.Text, v)
		if !l.Gutter.IsEmpty() {
			r.gutter.Render(grid, l.Gutter, v.Viewport.TopRow(), rowCount, v.Primary.Head.Row, gutter.Styles{
				Number:  core.NewStyle(r.theme.Gutter).WithBackground(r.theme.Background),
				Current: core.NewStyle(r.theme.GutterCurrent).WithBackground(r.theme.Background).Bold(),
			})
		}
		cursorPos, cursorVisible = r.cursorPosition(l.Text, v)
	}

	if !l.Status.IsEmpty() {
		c.Status.Render(grid, l.Status.Top, r.theme.StatusLine)
	}
	if !l.Feedback.IsEmpty() {
		base := r.theme.Base()
		if c.Prompt != nil {
			x := c.Prompt.Render(grid, l.Feedback.Top, base)
			cursorPos, cursorVisible = core.ScreenPos{Row: l.Feedback.Top, Col: x}, true
		} else {
			statusline.RenderFeedback(grid, l.Feedback.Top, c.Message, statusline.FeedbackStyles{
				Base:    base,
				Info:    base.WithForeground(r.theme.Info),
				Warning: base.WithForeground(r.theme.Warning),
				Error:   base.WithForeground(r.theme.Error).Bold(),
			})
		}
	}

	grid.SetCursor(cursorPos, cursorVisible)
	return grid
}

// Frame renders v and c and returns the commands that turn the previous
// frame into this one. An unchanged frame yields no commands.
func (r *Renderer) Frame(v View, c Chrome) []screen.Command {
	next := r.Render(v, c)
	cmds := screen.Diff(r.prev, next)
	r.prev = next
	r.frames++
	return cmds
}

func (r *Renderer) cursorPosition(text core.ScreenRect, v View) (core.ScreenPos, bool) {
	head := v.Primary.Head
	row, err := v.Buffer.RowAt(head.Row)
	if err != nil {
		return core.ScreenPos{}, false
	}
	y, x, ok := v.Viewport.ToScreen(head.Row, row.VisualColumn(head.Col, r.opts.TabWidth))
	if !ok {
		return core.ScreenPos{}, false
	}
	return core.ScreenPos{Row: text.Top + y, Col: text.Left + x}, true
}
