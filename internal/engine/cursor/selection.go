package cursor

import (
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// NoGoal marks a selection without a sticky visual column.
const NoGoal = -1

// Selection is one cursor with an optional anchor.
// Selection is an immutable value type.
type Selection struct {
	Head     Point // Current cursor position (where typing occurs)
	Anchor   Point // Where the selection started; meaningful when Anchored
	Anchored bool

	// Goal is the visual column vertical motion tries to return to.
	Goal int
}

// NewCursorSelection creates a bare cursor at p.
func NewCursorSelection(p Point) Selection {
	return Selection{Head: p, Anchor: p, Goal: NoGoal}
}

// NewSelection creates an anchored selection from anchor to head.
func NewSelection(anchor, head Point) Selection {
	return Selection{Head: head, Anchor: anchor, Anchored: true, Goal: NoGoal}
}

// NewRangeSelection creates a forward selection covering r.
func NewRangeSelection(r Range) Selection {
	return NewSelection(r.Start, r.End)
}

// HasSelection returns true if the selection covers at least one grapheme.
func (s Selection) HasSelection() bool {
	return s.Anchored && s.Anchor != s.Head
}

// IsEmpty returns true if the selection is just a cursor.
func (s Selection) IsEmpty() bool {
	return !s.HasSelection()
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Point {
	if s.Anchored && s.Anchor.Before(s.Head) {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() Point {
	if s.Anchored && s.Anchor.After(s.Head) {
		return s.Anchor
	}
	return s.Head
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// WithAnchor returns the selection anchored at its current head.
func (s Selection) WithAnchor() Selection {
	s.Anchor = s.Head
	s.Anchored = true
	return s
}

// Collapse returns a bare cursor at the head.
func (s Selection) Collapse() Selection {
	return Selection{Head: s.Head, Anchor: s.Head, Goal: s.Goal}
}

// MoveTo moves the head to p. Anchored selections keep their anchor,
// which extends or shrinks the selection. The goal column is cleared.
func (s Selection) MoveTo(p Point) Selection {
	s.Head = p
	if !s.Anchored {
		s.Anchor = p
	}
	s.Goal = NoGoal
	return s
}

// Merge returns the smallest selection covering both s and other.
// The head follows s's direction.
func (s Selection) Merge(other Selection) Selection {
	start, end := s.Start(), s.End()
	if other.Start().Before(start) {
		start = other.Start()
	}
	if other.End().After(end) {
		end = other.End()
	}
	if start == end {
		return NewCursorSelection(start)
	}
	if s.Anchored && s.Head.Before(s.Anchor) {
		return NewSelection(end, start)
	}
	return NewSelection(start, end)
}

// Equals compares position and anchor state. The goal column is ignored.
func (s Selection) Equals(other Selection) bool {
	if s.Head != other.Head || s.Anchored != other.Anchored {
		return false
	}
	return !s.Anchored || s.Anchor == other.Anchor
}

// String returns a human-readable representation.
func (s Selection) String() string {
	if !s.Anchored {
		return fmt.Sprintf("Cursor%s", s.Head)
	}
	return fmt.Sprintf("Selection(%s->%s)", s.Anchor, s.Head)
}
