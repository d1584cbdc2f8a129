package highlight

import (
	"slices"
	"sort"
)

// maxBacktrack bounds how far Recompute walks above the requested rows
// looking for a known carry state. Past it the carry state is assumed to
// be StateNormal and the rows are marked as guessed until the warm-up
// worker replaces them.
const maxBacktrack = 2000

// Source provides row text to the highlighter.
type Source interface {
	LineCount() int
	Line(row int) (string, error)
}

// rowState is the cached highlighting of one row.
type rowState struct {
	spans []Span
	in    State
	out   State

	seen    bool // lexed at least once
	dirty   bool // text changed since it was lexed
	guessed bool // lexed from an assumed carry state
}

func (rs *rowState) fresh(in State) bool {
	return rs.seen && !rs.dirty && rs.in == in
}

// Highlighter caches spans per row and recomputes only what edits
// invalidate. A row whose carry-out changes marks the row below for
// recomputation; the cascade stops at the first row whose carry-in is
// unchanged. It is not safe for concurrent use; the warm-up worker talks
// to it through Batch values.
type Highlighter struct {
	lexer *Lexer
	src   Source

	rows    []rowState
	dirty   []int // sorted rows with dirty set
	guessed int   // rows with guessed set

	version  uint64
	lastPass []int

	warm *warmup
}

// New creates a highlighter for src. A nil lexer highlights nothing.
func New(src Source, lexer *Lexer) *Highlighter {
	h := &Highlighter{src: src, lexer: lexer}
	h.rows = make([]rowState, src.LineCount())
	return h
}

// Lexer returns the active lexer, nil for plain text.
func (h *Highlighter) Lexer() *Lexer {
	return h.lexer
}

// Reset drops all cached rows, for example after the buffer is reloaded.
func (h *Highlighter) Reset() {
	h.rows = make([]rowState, h.src.LineCount())
	h.dirty = h.dirty[:0]
	h.guessed = 0
	h.version++
}

// Version increases with every edit notification. Warm-up batches carry
// the version they were computed for.
func (h *Highlighter) Version() uint64 {
	return h.version
}

// LastPass returns the rows lexed by the most recent Recompute.
func (h *Highlighter) LastPass() []int {
	return h.lastPass
}

// MarkDirty records that the text of row changed.
func (h *Highlighter) MarkDirty(row int) {
	if row < 0 || row >= len(h.rows) {
		return
	}
	h.version++
	h.setDirty(row)
}

func (h *Highlighter) setDirty(row int) {
	rs := &h.rows[row]
	if rs.dirty {
		return
	}
	rs.dirty = true
	i := sort.SearchInts(h.dirty, row)
	h.dirty = append(h.dirty, 0)
	copy(h.dirty[i+1:], h.dirty[i:])
	h.dirty[i] = row
}

func (h *Highlighter) clearDirty(row int) {
	rs := &h.rows[row]
	if !rs.dirty {
		return
	}
	rs.dirty = false
	i := sort.SearchInts(h.dirty, row)
	if i < len(h.dirty) && h.dirty[i] == row {
		h.dirty = append(h.dirty[:i], h.dirty[i+1:]...)
	}
}

// InsertRows records n new rows at index at. They start dirty so that a
// cascade from above runs through them.
func (h *Highlighter) InsertRows(at, n int) {
	if n <= 0 || at < 0 || at > len(h.rows) {
		return
	}
	h.version++
	added := make([]rowState, n)
	for i := range added {
		added[i] = rowState{seen: true, dirty: true}
	}
	h.rows = slices.Insert(h.rows, at, added...)

	// The new rows are dirty; rows at or below at shift down past them.
	i := sort.SearchInts(h.dirty, at)
	for j := i; j < len(h.dirty); j++ {
		h.dirty[j] += n
	}
	fresh := make([]int, n)
	for k := range fresh {
		fresh[k] = at + k
	}
	h.dirty = slices.Insert(h.dirty, i, fresh...)
}

// RemoveRows records that n rows starting at at were removed.
func (h *Highlighter) RemoveRows(at, n int) {
	if n <= 0 || at < 0 || at >= len(h.rows) {
		return
	}
	n = min(n, len(h.rows)-at)
	h.version++
	for _, rs := range h.rows[at : at+n] {
		if rs.guessed {
			h.guessed--
		}
	}
	h.rows = slices.Delete(h.rows, at, at+n)
	kept := h.dirty[:0]
	for _, r := range h.dirty {
		switch {
		case r < at:
			kept = append(kept, r)
		case r >= at+n:
			kept = append(kept, r-n)
		}
	}
	h.dirty = kept
}

// sync keeps the row table the same length as the source. It only
// matters when the source changed without notification.
func (h *Highlighter) sync() {
	n := h.src.LineCount()
	if n != len(h.rows) {
		h.Reset()
	}
}

// Recompute brings rows first..last up to date and returns nothing; use
// SpansFor to read them. Rows past last are lexed only while the carry
// state keeps changing.
func (h *Highlighter) Recompute(first, last int) {
	h.lastPass = h.lastPass[:0]
	if h.lexer == nil {
		return
	}
	h.sync()
	n := len(h.rows)
	if n == 0 {
		return
	}
	first = max(0, min(first, n-1))
	last = max(first, min(last, n-1))

	start := first
	if len(h.dirty) > 0 && h.dirty[0] < start && start-h.dirty[0] <= maxBacktrack {
		start = h.dirty[0]
	}
	for start > 0 && !h.rows[start-1].seen && first-start < maxBacktrack {
		start--
	}
	guessed := start > 0 && !h.rows[start-1].seen
	in := StateNormal
	if start > 0 && h.rows[start-1].seen {
		in = h.rows[start-1].out
		guessed = h.rows[start-1].guessed
	}

	for r := start; r < n; r++ {
		rs := &h.rows[r]
		if rs.fresh(in) {
			if r > last {
				break
			}
			in = rs.out
			continue
		}
		if r > last && !rs.seen {
			break
		}
		text, err := h.src.Line(r)
		if err != nil {
			break
		}
		spans, out := h.lexer.Lex(text, in)
		rs.spans, rs.in, rs.out = spans, in, out
		rs.seen = true
		h.setGuessed(rs, guessed)
		h.clearDirty(r)
		h.lastPass = append(h.lastPass, r)
		in = out
	}
}

func (h *Highlighter) setGuessed(rs *rowState, g bool) {
	switch {
	case g && !rs.guessed:
		h.guessed++
	case !g && rs.guessed:
		h.guessed--
	}
	rs.guessed = g
}

// Guessed reports whether some rows were lexed from an assumed carry
// state. Only a warm-up pass from the top of the document corrects them.
func (h *Highlighter) Guessed() bool {
	return h.guessed > 0
}

// SpansFor returns the cached spans of row. ok is false when the row has
// not been lexed since its last change.
func (h *Highlighter) SpansFor(row int) (spans []Span, ok bool) {
	if row < 0 || row >= len(h.rows) {
		return nil, false
	}
	rs := &h.rows[row]
	return rs.spans, rs.seen && !rs.dirty
}

// Spans brings row up to date and returns its spans.
func (h *Highlighter) Spans(row int) []Span {
	if h.lexer == nil {
		return nil
	}
	if spans, ok := h.SpansFor(row); ok {
		return spans
	}
	h.Recompute(row, row)
	spans, _ := h.SpansFor(row)
	return spans
}

// Pending reports whether some rows have never been lexed.
func (h *Highlighter) Pending() bool {
	if h.lexer == nil {
		return false
	}
	if h.guessed > 0 {
		return true
	}
	for i := range h.rows {
		if !h.rows[i].seen {
			return true
		}
	}
	return false
}
