package command

import (
	"slices"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Host is the dispatcher as commands see it.
type Host interface {
	Registers() *vim.Store
	Options() *config.Options
	Memory() *Memory

	// Mode stack
	Mode() mode.State
	SetMode(st mode.State)
	PushMode(st mode.State)
	PopMode()

	// Message shows text on the message line.
	Message(msg string)

	// ExecuteNormal runs keys as Normal-mode commands, synchronously.
	ExecuteNormal(keys key.Sequence, remap bool) error

	// Feed queues keys ahead of pending input (macro replay).
	Feed(keys key.Sequence, remap bool)

	// ExecuteEx runs a command line.
	ExecuteEx(line string) error

	// Eval evaluates a Vimscript expression to a string.
	Eval(expr string) (string, error)

	// CallOperatorFunc invokes 'operatorfunc' with "char", "line" or
	// "block".
	CallOperatorFunc(kind string) error

	// Macro recording
	Recording() rune
	StartRecording(reg rune) error
	StopRecording() error

	// PlayMacro feeds the keys recorded in reg count times. ':' repeats
	// the last command line and '@' the last register played.
	PlayMacro(reg rune, count int) error

	// RepeatLastChange replays the last change; count 0 keeps its count.
	RepeatLastChange(count int) error
}

// FindRecord remembers the last f, F, t or T for ; and ,.
type FindRecord struct {
	Char    rune
	Forward bool
	Till    bool
}

// SearchRecord remembers the last / or ? search for n and N.
type SearchRecord struct {
	Pattern string
	Forward bool
}

// VisualRecord remembers the last selection for gv.
type VisualRecord struct {
	Sub    mode.SubMode
	Anchor int
	Head   int
	Select bool
}

// Memory is state commands keep between invocations.
type Memory struct {
	LastFind   FindRecord
	LastSearch SearchRecord
	LastVisual VisualRecord
	HasVisual  bool

	// LastInserted is the text typed by the last insert session.
	LastInserted string

	// LastMacro is the register of the last @ replay.
	LastMacro rune

	// InsertStart is where the current insert session began.
	InsertStart int

	// InsertCount and InsertOpen are set by the command that starts an
	// insert session: the typed text is repeated InsertCount times in
	// total, each repetition on a new line when InsertOpen is set.
	InsertCount int
	InsertOpen  bool

	// Replaced holds the text Replace mode typed over, most recent last.
	// An empty entry marks a character appended past the line end.
	Replaced []string

	// InsertBlock is set when the session was started with one caret per
	// line of a block selection. The extra carets go away when it ends.
	InsertBlock bool
}

// Argument is what a command read after its keys.
type Argument struct {
	// Char is the ArgCharacter key, or the digraph result.
	Char rune
	Key  key.Event

	// Text is the ArgExtended line, the digraph pair, or the character a
	// <C-V> code stands for.
	Text string
}

// Context carries the invocation state into a handler.
type Context struct {
	Editor  engine.Editor
	Host    Host
	Command *Command

	// Count is the effective count, at least 1.
	Count int

	// RawCount is 0 when no count was typed.
	RawCount int

	// Register is the register selected with "x, or 0.
	Register rune

	Arg Argument

	// Mode is the state the command was invoked in.
	Mode mode.State

	// Keys are the keys that invoked the command, counts included.
	Keys key.Sequence

	// CaretIndex is the document-order index of the caret a PerCaret,
	// Operator or Motion handler is running for.
	CaretIndex int

	// Selection is the range of a Visual-mode operator for this caret.
	Selection *engine.TextRange

	// Motion is the motion an operator is applied with, nil in Visual
	// mode.
	Motion *Command

	parts     []part
	deleted   bool
	big       bool
	changed   bool
	changeLo  int
	changeHi  int
	yankKind  engine.RangeKind
	cursorSet bool
}

type part struct {
	index int
	text  string
}

// Yank queues text for the register. The register is written once, after
// every caret ran, with parts in document order.
func (c *Context) Yank(text string, kind engine.RangeKind) {
	c.parts = append(c.parts, part{index: c.CaretIndex, text: text})
	c.yankKind = kind
}

// Deleted queues deleted text. big marks deletes made with a motion that
// always fills the 1-9 history.
func (c *Context) Deleted(text string, kind engine.RangeKind, big bool) {
	c.Yank(text, kind)
	c.deleted = true
	c.big = c.big || big
}

// Changed reports the range an edit touched, for the '[ and '] marks.
func (c *Context) Changed(start, end int) {
	if !c.changed {
		c.changeLo, c.changeHi = start, end
		c.changed = true
		return
	}
	c.changeLo = min(c.changeLo, start)
	c.changeHi = max(c.changeHi, end)
}

// ChangedRange returns the reported change range.
func (c *Context) ChangedRange() (start, end int, ok bool) {
	return c.changeLo, c.changeHi, c.changed
}

// CursorSet marks that the handler positioned the carets itself.
func (c *Context) CursorSet() {
	c.cursorSet = true
}

// HasSetCursor reports whether CursorSet was called.
func (c *Context) HasSetCursor() bool {
	return c.cursorSet
}

// FlushRegister writes the queued yank or delete to the store and returns
// the register written.
func (c *Context) FlushRegister(store *vim.Store) (vim.Register, bool, error) {
	if len(c.parts) == 0 {
		return vim.Register{}, false, nil
	}
	parts := slices.Clone(c.parts)
	slices.SortStableFunc(parts, func(a, b part) int { return a.index - b.index })

	var r vim.Register
	if len(parts) == 1 {
		r = vim.Register{Text: parts[0].text, Kind: c.yankKind}
	} else {
		texts := make([]string, len(parts))
		for i, p := range parts {
			texts[i] = p.text
		}
		r = vim.JoinParts(texts, c.yankKind)
	}
	c.parts = nil

	var err error
	if c.deleted {
		err = store.Delete(c.Register, r, c.big)
	} else {
		err = store.Yank(c.Register, r)
	}
	return r, err == nil, err
}
