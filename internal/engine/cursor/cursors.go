package cursor

import (
	"sort"

	"github.com/dshills/quill/internal/engine/buffer"
)

// CursorSet manages multiple cursors/selections.
// Selections are kept sorted by position and non-overlapping.
// The first selection is considered the "primary" selection.
type CursorSet struct {
	selections []Selection
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{
		selections: []Selection{initial},
	}
}

// NewCursorSetAt creates a cursor set with a single cursor at p.
func NewCursorSetAt(p Point) *CursorSet {
	return NewCursorSet(NewCursorSelection(p))
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	if len(cs.selections) == 0 {
		return NewCursorSelection(Point{})
	}
	return cs.selections[0]
}

// All returns a copy of all selections.
func (cs *CursorSet) All() []Selection {
	result := make([]Selection, len(cs.selections))
	copy(result, cs.selections)
	return result
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// Get returns the selection at index, or false if index is out of range.
func (cs *CursorSet) Get(index int) (Selection, bool) {
	if index < 0 || index >= len(cs.selections) {
		return Selection{}, false
	}
	return cs.selections[index], true
}

// Add adds a new selection, merging with overlapping ones.
func (cs *CursorSet) Add(sel Selection) {
	cs.selections = append(cs.selections, sel)
	cs.normalize()
}

// AddCursor adds a bare cursor at p.
func (cs *CursorSet) AddCursor(p Point) {
	cs.Add(NewCursorSelection(p))
}

// Set replaces all selections with a single selection.
func (cs *CursorSet) Set(sel Selection) {
	cs.selections = []Selection{sel}
}

// SetAll replaces all selections.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{NewCursorSelection(Point{})}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
	cs.normalize()
}

// Replace swaps the selection at index and re-normalizes.
func (cs *CursorSet) Replace(index int, sel Selection) {
	if index < 0 || index >= len(cs.selections) {
		return
	}
	cs.selections[index] = sel
	cs.normalize()
}

// Clear removes all selections except primary.
func (cs *CursorSet) Clear() {
	if len(cs.selections) > 1 {
		cs.selections = cs.selections[:1]
	}
}

// SetAnchor anchors the selection at index at its current head, so that
// later motion extends a selection.
func (cs *CursorSet) SetAnchor(index int) bool {
	if index < 0 || index >= len(cs.selections) {
		return false
	}
	cs.selections[index] = cs.selections[index].WithAnchor()
	return true
}

// MapInPlace applies f to each selection in place.
func (cs *CursorSet) MapInPlace(f func(sel Selection) Selection) {
	for i, sel := range cs.selections {
		cs.selections[i] = f(sel)
	}
	cs.normalize()
}

// HasSelection returns true if any selection is non-empty.
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.selections {
		if sel.HasSelection() {
			return true
		}
	}
	return false
}

// CollapseAll collapses all selections to cursors at their heads.
func (cs *CursorSet) CollapseAll() {
	for i, sel := range cs.selections {
		cs.selections[i] = sel.Collapse()
	}
	cs.normalize()
}

// ClampAll moves every selection to the nearest valid position in buf.
func (cs *CursorSet) ClampAll(buf *buffer.Buffer) {
	for i, sel := range cs.selections {
		sel.Head = buf.Clamp(sel.Head)
		sel.Anchor = buf.Clamp(sel.Anchor)
		cs.selections[i] = sel
	}
	cs.normalize()
}

// Clone returns a deep copy of the cursor set.
func (cs *CursorSet) Clone() *CursorSet {
	clone := &CursorSet{
		selections: make([]Selection, len(cs.selections)),
	}
	copy(clone.selections, cs.selections)
	return clone
}

// normalize sorts selections and merges overlapping ones.
func (cs *CursorSet) normalize() {
	if len(cs.selections) <= 1 {
		return
	}

	sort.SliceStable(cs.selections, func(i, j int) bool {
		si, sj := cs.selections[i].Start(), cs.selections[j].Start()
		if si != sj {
			return si.Before(sj)
		}
		return cs.selections[i].End().After(cs.selections[j].End())
	})

	merged := cs.selections[:1]
	for _, sel := range cs.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start() == last.Start() || sel.Start().Before(last.End()) {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	cs.selections = merged
}

// Equals returns true if two cursor sets have the same selections.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil {
		return false
	}
	if cs.Count() != other.Count() {
		return false
	}
	for i, sel := range cs.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}
