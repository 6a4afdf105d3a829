package engine

import (
	"fmt"

	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/cursor"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Selection represents a caret selection.
	Selection = cursor.Selection
)

// NoWantColumn is the preferred column of a caret that vertical motions
// move from its current column.
const NoWantColumn = cursor.NoWantColumn

// RangeKind is the shape of a text range or register.
type RangeKind uint8

const (
	Charwise RangeKind = iota
	Linewise
	Blockwise
)

func (k RangeKind) String() string {
	switch k {
	case Linewise:
		return "line"
	case Blockwise:
		return "block"
	}
	return "char"
}

// TextRange is a range an operator acts on. End is exclusive. For
// Blockwise ranges Start and End are the two corner characters, the upper
// one first, both included: the block covers their lines and every column
// between theirs.
type TextRange struct {
	Start ByteOffset
	End   ByteOffset
	Kind  RangeKind
}

func (r TextRange) String() string {
	return fmt.Sprintf("%s[%d:%d)", r.Kind, r.Start, r.End)
}

// Editor is the host document as the core sees it.
//
// Reads reflect every preceding mutation immediately. Lines and columns are
// 0-indexed and byte based.
type Editor interface {
	// Text access
	Text() string
	Len() int
	LineCount() int
	LineText(line int) string
	LineStartOffset(line int) ByteOffset
	LineEndOffset(line int) ByteOffset
	OffsetToPoint(offset ByteOffset) Point
	PointToOffset(p Point) ByteOffset
	TextRange(start, end ByteOffset) string

	// Mutation
	Insert(offset ByteOffset, text string) error
	Delete(start, end ByteOffset) error
	Replace(start, end ByteOffset, text string) error

	// UndoGroup runs fn so that its edits undo as one unit.
	UndoGroup(name string, fn func() error) error

	// Carets
	Carets() []Caret
	PrimaryCaret() Caret
	AddCaret(offset ByteOffset) Caret
	RemoveCaret(c Caret)
	RemoveSecondaryCarets()

	// Marks. Lower case names are local, upper case global, and '[', ']',
	// '<', '>' and '.' are maintained by the core.
	Mark(name rune) (Point, bool)
	SetMark(name rune, p Point)
	PushJump(p Point)
	Jumps() []Point
}

// Caret is one insertion point of the host.
type Caret interface {
	ID() uint64
	Offset() ByteOffset
	MoveTo(offset ByteOffset)
	Selection() (Selection, bool)
	SetSelection(sel Selection)
	ClearSelection()
	VisualAnchor() ByteOffset
	SetVisualAnchor(offset ByteOffset)
	WantColumn() int
	SetWantColumn(col int)
}

// MoveCaret puts c at offset and drops its preferred column, so a
// following j or k starts from the new column. Anything that moves a caret
// outside a motion uses it; MoveTo alone keeps the column j and k aim for.
func MoveCaret(c Caret, offset ByteOffset) {
	c.MoveTo(offset)
	c.SetWantColumn(NoWantColumn)
}

// Undoer is implemented by hosts that let the core drive undo.
type Undoer interface {
	Undo() error
	Redo() error
}
