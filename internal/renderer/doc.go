// Package renderer turns a document and its UI chrome into a full screen
// grid every frame, then diffs that grid against the previous frame to get
// the commands a backend performs.
//
// The renderer keeps no incremental state besides the previous grid:
//
//	document + spans + chrome ──Render──▶ grid ──Diff(prev)──▶ commands
//
// Sub-packages:
//
//	core       cells, colors, styles and screen rectangles
//	screen     the grid and the cell diff
//	highlight  the incremental highlighter and themes
//	viewport   scrolling with margins
//	gutter     line numbers
//	statusline tab, status and feedback lines
//	backend    tcell terminal and in-memory backend
package renderer
