package command

import (
	"fmt"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/owner"
)

// Flags tune how the dispatcher runs a command.
type Flags uint16

const (
	// Repeatable commands are recorded for ".".
	Repeatable Flags = 1 << iota

	// KeepVisual commands leave Visual mode active.
	KeepVisual

	// NoUndoGroup commands run outside an undo group (u, <C-R>).
	NoUndoGroup

	// KeepCount commands consume the count themselves instead of having
	// it reset (digits in insert-normal).
	KeepCount

	// BigMotion motions always shift the numbered registers when an
	// operator deletes over them (%, (, ), `, /, ?, n, N, {, }).
	BigMotion

	// Literal commands take their character argument as typed: Escape
	// and Enter are characters, not cancel keys (<C-V> in Insert mode).
	Literal

	// RecordToggle commands run without reading their argument while a
	// macro is being recorded (q).
	RecordToggle

	// StickyColumn commands keep the column j and k aim for (q, v, cursor
	// keys in Insert mode). Other commands that are not motions drop it.
	StickyColumn
)

// Command is a command trie entry.
type Command struct {
	// Name identifies the command in diagnostics.
	Name string

	// Modes are the mapping modes the command is bound in.
	Modes mode.MappingModes

	// Keys are the sequences that invoke it.
	Keys []key.Sequence

	// Handler is the command body.
	Handler Handler

	// Argument is what the command reads after its keys. Operators always
	// read a motion.
	Argument vim.ArgumentType

	Flags Flags

	// Owner registered the command.
	Owner owner.ID
}

// New creates a built-in command bound to one or more keys in notation.
// It panics on malformed notation; use it only with literal keys.
func New(name string, modes mode.MappingModes, h Handler, keys ...string) *Command {
	c := &Command{Name: name, Modes: modes, Handler: h, Owner: owner.Builtin}
	for _, k := range keys {
		c.Keys = append(c.Keys, key.MustParse(k))
	}
	if _, ok := h.(Operator); ok {
		c.Argument = vim.ArgMotion
	}
	return c
}

// WithArgument sets the argument the command waits for.
func (c *Command) WithArgument(t vim.ArgumentType) *Command {
	c.Argument = t
	return c
}

// WithFlags adds flags.
func (c *Command) WithFlags(f Flags) *Command {
	c.Flags |= f
	return c
}

// Has reports whether every flag in f is set.
func (c *Command) Has(f Flags) bool {
	return c.Flags&f == f
}

// IsOperator reports whether the command is an operator.
func (c *Command) IsOperator() bool {
	_, ok := c.Handler.(Operator)
	return ok
}

// IsMotion reports whether the command is a motion or text object.
func (c *Command) IsMotion() bool {
	_, ok := c.Handler.(Motion)
	return ok
}

func (c *Command) String() string {
	if len(c.Keys) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, key.ToNotation(c.Keys[0]))
}
