package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
)

// Find returns the next occurrence of query starting at from, searching
// forward or backward and wrapping past the document edge. Queries match
// within a single row.
func (e *Engine) Find(query string, from Point, forward bool) (Range, bool) {
	if query == "" || strings.ContainsAny(query, "\r\n") {
		return Range{}, false
	}
	from = e.buf.Clamp(from)
	off, _ := e.buf.ByteOffset(from)
	n := e.buf.LineCount()

	for i := 0; i <= n; i++ {
		var row int
		if forward {
			row = (from.Row + i) % n
		} else {
			row = ((from.Row-i)%n + n) % n
		}
		line, _ := e.buf.Line(row)

		idx := -1
		switch {
		case forward && i == 0:
			if j := strings.Index(line[off:], query); j >= 0 {
				idx = off + j
			}
		case forward && i == n:
			if j := strings.Index(line[:off], query); j >= 0 {
				idx = j
			}
		case forward:
			idx = strings.Index(line, query)
		case i == 0:
			idx = strings.LastIndex(line[:off], query)
		case i == n:
			if j := strings.LastIndex(line[off:], query); j >= 0 {
				idx = off + j
			}
		default:
			idx = strings.LastIndex(line, query)
		}
		if idx < 0 {
			continue
		}
		if r, ok := e.byteRange(row, idx, idx+len(query)); ok {
			return r, true
		}
	}
	return Range{}, false
}

// byteRange converts a byte span in row to a grapheme range. Matches that
// split a grapheme cluster are rejected.
func (e *Engine) byteRange(row, start, end int) (Range, bool) {
	rs, err := e.buf.RowAt(row)
	if err != nil {
		return Range{}, false
	}
	sc, ec := rs.Column(start), rs.Column(end)
	if rs.ByteOffset(sc) != start || rs.ByteOffset(ec) != end {
		return Range{}, false
	}
	return Range{Start: Point{Row: row, Col: sc}, End: Point{Row: row, Col: ec}}, true
}

// FindNext moves the primary cursor to select the next match of query
// after the current selection.
func (e *Engine) FindNext(query string, forward bool) (Range, error) {
	if query == "" {
		return Range{}, ErrEmptyQuery
	}
	p := e.cursors.Primary()
	from := p.End()
	if !forward {
		from = p.Start()
	}
	r, ok := e.Find(query, from, forward)
	if !ok {
		return Range{}, fmt.Errorf("%q: %w", query, ErrNotFound)
	}
	e.history.Seal()
	e.cursors.Set(cursor.NewRangeSelection(r))
	return r, nil
}

// Replace substitutes text for r as one transaction and leaves the
// primary cursor after the replacement.
func (e *Engine) Replace(r Range, text string) error {
	if !e.buf.Valid(r.Start) || !e.buf.Valid(r.End) {
		return fmt.Errorf("replace %s: %w", r, ErrPositionOutOfBounds)
	}
	r = buffer.NewRange(r.Start, r.End)
	return e.edit(history.KindOther, "replace", func(t *tx) error {
		if err := t.deleteRange(r); err != nil {
			return err
		}
		return t.insertAt(r.Start, text)
	})
}

// ReplaceAll substitutes repl for every occurrence of query in one
// transaction and returns the number of replacements.
func (e *Engine) ReplaceAll(query, repl string) (int, error) {
	if query == "" {
		return 0, ErrEmptyQuery
	}
	type match struct{ row, start, end int }
	var matches []match
	for row, line := range e.buf.Lines() {
		for off := 0; off <= len(line); {
			j := strings.Index(line[off:], query)
			if j < 0 {
				break
			}
			if r, ok := e.byteRange(row, off+j, off+j+len(query)); ok && !r.IsEmpty() {
				matches = append(matches, match{row, off + j, off + j + len(query)})
				off += j + len(query)
				continue
			}
			off += j + 1
		}
	}
	if len(matches) == 0 {
		return 0, nil
	}

	err := e.edit(history.KindOther, "replace all", func(t *tx) error {
		// Bottom up, so earlier byte offsets stay valid.
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			if err := t.apply(buffer.Op{Kind: buffer.OpDelete, Row: m.row, Offset: m.start, Text: query}); err != nil {
				return err
			}
			col, err := e.buf.Column(m.row, m.start)
			if err != nil {
				return err
			}
			if err := t.insertAt(Point{Row: m.row, Col: col}, repl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}
