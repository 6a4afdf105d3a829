package cursor

import (
	"slices"
	"sync/atomic"
)

var nextCaretID atomic.Uint64

// Caret is one insertion point with its optional selection and the Vim
// state attached to it.
type Caret struct {
	id        uint64
	offset    ByteOffset
	selection Selection
	selected  bool

	// anchor is where Visual mode was entered.
	anchor ByteOffset

	// want is the preferred column for vertical motions, NoWantColumn
	// when vertical motions start from the current column.
	want int
}

// NoWantColumn is the preferred column of a caret that vertical motions
// move from its current column.
const NoWantColumn = -1

// NewCaret creates a caret at offset.
func NewCaret(offset ByteOffset) *Caret {
	return &Caret{id: nextCaretID.Add(1), offset: offset, anchor: offset, want: NoWantColumn}
}

// ID returns a process-unique identity for the caret.
func (c *Caret) ID() uint64 { return c.id }

// Offset returns the caret position.
func (c *Caret) Offset() ByteOffset { return c.offset }

// MoveTo sets the caret position. The preferred column is kept.
func (c *Caret) MoveTo(offset ByteOffset) { c.offset = offset }

// Selection returns the selection and whether one is set.
func (c *Caret) Selection() (Selection, bool) { return c.selection, c.selected }

// SetSelection sets the selection.
func (c *Caret) SetSelection(sel Selection) {
	c.selection = sel
	c.selected = true
}

// ClearSelection removes the selection.
func (c *Caret) ClearSelection() { c.selected = false }

// VisualAnchor returns where Visual mode was entered.
func (c *Caret) VisualAnchor() ByteOffset { return c.anchor }

// SetVisualAnchor records where Visual mode was entered.
func (c *Caret) SetVisualAnchor(offset ByteOffset) { c.anchor = offset }

// WantColumn returns the preferred column for vertical motions.
func (c *Caret) WantColumn() int { return c.want }

// SetWantColumn sets the preferred column for vertical motions.
func (c *Caret) SetWantColumn(col int) { c.want = col }

// Transform moves the caret state after an edit.
func (c *Caret) Transform(edit Edit) {
	c.offset = TransformOffset(c.offset, edit)
	c.anchor = TransformOffset(c.anchor, edit)
	if c.selected {
		c.selection = TransformSelection(c.selection, edit)
	}
}

// Set is the ordered collection of carets of one document.
// The first caret added is primary until it is removed.
type Set struct {
	carets  []*Caret
	primary *Caret
}

// NewSet creates a set holding one caret at offset.
func NewSet(offset ByteOffset) *Set {
	c := NewCaret(offset)
	return &Set{carets: []*Caret{c}, primary: c}
}

// Primary returns the primary caret.
func (s *Set) Primary() *Caret {
	return s.primary
}

// All returns the carets sorted by document order.
func (s *Set) All() []*Caret {
	s.normalize()
	return slices.Clone(s.carets)
}

// Count returns the number of carets.
func (s *Set) Count() int {
	return len(s.carets)
}

// Add creates a caret at offset. Adding at an occupied offset returns the
// existing caret.
func (s *Set) Add(offset ByteOffset) *Caret {
	for _, c := range s.carets {
		if c.offset == offset {
			return c
		}
	}
	c := NewCaret(offset)
	s.carets = append(s.carets, c)
	s.normalize()
	return c
}

// Remove deletes a caret. The last caret cannot be removed.
func (s *Set) Remove(c *Caret) bool {
	if len(s.carets) == 1 {
		return false
	}
	i := slices.Index(s.carets, c)
	if i < 0 {
		return false
	}
	s.carets = slices.Delete(s.carets, i, i+1)
	if s.primary == c {
		s.primary = s.carets[0]
	}
	return true
}

// RemoveSecondary collapses the set to the primary caret.
func (s *Set) RemoveSecondary() {
	s.carets = []*Caret{s.primary}
}

// Transform applies an edit to every caret and merges carets that land on
// the same offset.
func (s *Set) Transform(edit Edit) {
	for _, c := range s.carets {
		c.Transform(edit)
	}
	s.normalize()
}

// Clamp keeps every caret within [0, maxOffset].
func (s *Set) Clamp(maxOffset ByteOffset) {
	for _, c := range s.carets {
		c.offset = max(0, min(c.offset, maxOffset))
		c.anchor = max(0, min(c.anchor, maxOffset))
	}
}

// normalize sorts carets and drops duplicates, keeping the primary.
func (s *Set) normalize() {
	slices.SortStableFunc(s.carets, func(a, b *Caret) int {
		return a.offset - b.offset
	})
	out := s.carets[:0]
	for _, c := range s.carets {
		if n := len(out); n > 0 && out[n-1].offset == c.offset {
			if c == s.primary {
				out[n-1] = c
			}
			continue
		}
		out = append(out, c)
	}
	s.carets = out
}
