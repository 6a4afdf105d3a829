package command

import "github.com/dshills/vimcore/internal/engine"

// Handler is the closed set of command handler shapes.
type Handler interface {
	isHandler()
}

// Order is the caret iteration order of a PerCaret handler.
type Order uint8

const (
	// Forward runs top to bottom in document order.
	Forward Order = iota

	// Reverse runs bottom to top, for edits that would shift the offsets
	// of carets not yet visited.
	Reverse
)

// SingleExecution runs once per invocation.
type SingleExecution struct {
	Fn func(ctx *Context) error
}

// PerCaret runs once per caret. A failing caret does not stop the others
// unless AllOrNothing is set, in which case Check runs for every caret
// first and any failure cancels the whole command.
type PerCaret struct {
	Fn           func(ctx *Context, c engine.Caret) error
	Check        func(ctx *Context, c engine.Caret) error
	Order        Order
	AllOrNothing bool
}

// Operator applies to a computed range, once per caret.
type Operator struct {
	Fn func(ctx *Context, c engine.Caret, r engine.TextRange) error

	// Linewise forces linewise ranges whatever the motion (">", "<", "J").
	Linewise bool

	// Change leaves the session in Insert mode afterwards.
	Change bool
}

// Motion computes a target for one caret.
type Motion struct {
	Fn func(ctx *Context, c engine.Caret) (MotionResult, error)

	// KeepColumn leaves the caret's preferred column alone (j, k).
	KeepColumn bool

	// TextObject marks selections such as iw and a(; in Visual mode they
	// extend the selection to the object instead of moving the caret.
	TextObject bool
}

// Async starts work that finishes later. Fn must eventually call done
// exactly once; the dispatcher tolerates zero or repeated calls.
type Async struct {
	Fn func(ctx *Context, done func(error))
}

func (SingleExecution) isHandler() {}
func (PerCaret) isHandler()        {}
func (Operator) isHandler()        {}
func (Motion) isHandler()          {}
func (Async) isHandler()           {}

// MotionResult is where a motion lands and how an operator treats it.
type MotionResult struct {
	// Offset is the target.
	Offset int

	// Start is the other end of a text object. Motions leave it to the
	// caret offset.
	Start    int
	HasStart bool

	// Inclusive includes the character at Offset in an operator range.
	Inclusive bool

	// Linewise makes an operator act on whole lines.
	Linewise bool

	// Jump records the starting position in the jump list.
	Jump bool
}

// To returns an exclusive charwise result at offset.
func To(offset int) MotionResult {
	return MotionResult{Offset: offset}
}

// Span returns a text object result covering [start, end).
func Span(start, end int) MotionResult {
	return MotionResult{Start: start, HasStart: true, Offset: end}
}
