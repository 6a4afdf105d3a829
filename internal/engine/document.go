package engine

import (
	"sync"

	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/cursor"
	"github.com/dshills/vimcore/internal/engine/history"
)

const maxJumps = 100

// Document is an in-memory Editor.
type Document struct {
	mu      sync.Mutex
	buf     *buffer.Buffer
	carets  *cursor.Set
	history *history.History
	marks   map[rune]Point
	jumps   []Point
}

var (
	_ Editor = (*Document)(nil)
	_ Undoer = (*Document)(nil)
)

// NewDocument creates a document holding text with one caret at offset 0.
func NewDocument(text string) *Document {
	return &Document{
		buf:     buffer.NewBufferFromString(text),
		carets:  cursor.NewSet(0),
		history: history.NewHistory(0),
		marks:   make(map[rune]Point),
	}
}

// Text access

func (d *Document) Text() string              { return d.buf.Text() }
func (d *Document) Len() int                  { return d.buf.Len() }
func (d *Document) LineCount() int            { return d.buf.LineCount() }
func (d *Document) LineText(line int) string  { return d.buf.LineText(line) }
func (d *Document) LineStartOffset(l int) int { return d.buf.LineStartOffset(l) }
func (d *Document) LineEndOffset(l int) int   { return d.buf.LineEndOffset(l) }
func (d *Document) OffsetToPoint(o int) Point { return d.buf.OffsetToPoint(o) }
func (d *Document) PointToOffset(p Point) int { return d.buf.PointToOffset(p) }
func (d *Document) TextRange(s, e int) string { return d.buf.TextRange(s, e) }
func (d *Document) Revision() uint64          { return d.buf.Revision() }

// Mutation

// Insert inserts text at offset. Carets strictly after offset shift right.
func (d *Document) Insert(offset ByteOffset, text string) error {
	return d.Replace(offset, offset, text)
}

// Delete removes [start, end).
func (d *Document) Delete(start, end ByteOffset) error {
	return d.Replace(start, end, "")
}

// Replace replaces [start, end) with text and moves carets accordingly.
func (d *Document) Replace(start, end ByteOffset, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	newEnd, err := d.buf.Replace(start, end, text)
	if err != nil {
		return err
	}
	d.carets.Transform(cursor.Edit{Start: start, End: end, NewLen: newEnd - start})
	return nil
}

// UndoGroup runs fn as one undo step.
func (d *Document) UndoGroup(name string, fn func() error) error {
	return d.history.Transaction(name, d.captureState, fn)
}

func (d *Document) captureState() history.State {
	return history.State{Text: d.buf.Text(), Caret: d.carets.Primary().Offset()}
}

// Undo restores the state before the last undo group.
func (d *Document) Undo() error {
	st, err := d.history.Undo()
	if err != nil {
		return err
	}
	d.restore(st)
	return nil
}

// Redo re-applies the last undone group.
func (d *Document) Redo() error {
	st, err := d.history.Redo()
	if err != nil {
		return err
	}
	d.restore(st)
	return nil
}

func (d *Document) restore(st history.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.SetText(st.Text)
	d.carets.RemoveSecondary()
	d.carets.Primary().ClearSelection()
	MoveCaret(d.carets.Primary(), min(st.Caret, d.buf.Len()))
}

// Carets

// Carets returns the carets in document order.
func (d *Document) Carets() []Caret {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carets.Clamp(d.buf.Len())
	all := d.carets.All()
	out := make([]Caret, len(all))
	for i, c := range all {
		out[i] = c
	}
	return out
}

// PrimaryCaret returns the primary caret.
func (d *Document) PrimaryCaret() Caret {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.carets.Primary()
}

// AddCaret adds a caret at offset.
func (d *Document) AddCaret(offset ByteOffset) Caret {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.carets.Add(max(0, min(offset, d.buf.Len())))
}

// RemoveCaret removes c unless it is the only caret.
func (d *Document) RemoveCaret(c Caret) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cc, ok := c.(*cursor.Caret); ok {
		d.carets.Remove(cc)
	}
}

// RemoveSecondaryCarets keeps only the primary caret.
func (d *Document) RemoveSecondaryCarets() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carets.RemoveSecondary()
}

// Marks

// Mark returns a mark clamped to the current text.
func (d *Document) Mark(name rune) (Point, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.marks[name]
	if !ok {
		return Point{}, false
	}
	if p.Line >= d.buf.LineCount() {
		p.Line = d.buf.LineCount() - 1
	}
	return p, true
}

// SetMark sets a mark.
func (d *Document) SetMark(name rune, p Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marks[name] = p
}

// PushJump records a jump list entry.
func (d *Document) PushJump(p Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.jumps); n > 0 && d.jumps[n-1] == p {
		return
	}
	d.jumps = append(d.jumps, p)
	if len(d.jumps) > maxJumps {
		d.jumps = d.jumps[1:]
	}
}

// Jumps returns the jump list, oldest first.
func (d *Document) Jumps() []Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Point, len(d.jumps))
	copy(out, d.jumps)
	return out
}
