package keymap

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/owner"
	"github.com/dshills/vimcore/internal/vimscript/ast"
)

// Payload is what a mapping expands to.
type Payload interface {
	payload()
}

// ToKeys replaces the mapped keys with Keys.
type ToKeys struct {
	Keys key.Sequence
}

// ToExpression evaluates Expr and feeds the resulting string as keys.
type ToExpression struct {
	// Source is the expression text as written.
	Source string

	// Expr is the parsed expression.
	Expr ast.Expr
}

// ToHandler runs a command handler in place of the mapped keys.
type ToHandler struct {
	Name    string
	Handler command.Handler
}

func (ToKeys) payload()       {}
func (ToExpression) payload() {}
func (ToHandler) payload()    {}

// Mapping is one entry of the table.
type Mapping struct {
	// From is the typed sequence the mapping replaces.
	From key.Sequence

	// Payload is the replacement.
	Payload Payload

	// Owner identifies who created the mapping.
	Owner owner.ID

	// Recursive allows the replacement keys to be remapped.
	Recursive bool

	// Silent suppresses echo of the expansion.
	Silent bool

	// NoWait fires the mapping without waiting for longer ones.
	NoWait bool

	// Script is the rc or plugin file that defined the mapping, if any.
	Script string
}

// New creates a non-recursive mapping.
func New(from key.Sequence, p Payload, id owner.ID) *Mapping {
	return &Mapping{From: from.Clone(), Payload: p, Owner: id}
}

// WithRecursive sets whether the mapping is recursive.
func (m *Mapping) WithRecursive(recursive bool) *Mapping {
	m.Recursive = recursive
	return m
}

// WithSilent sets the silent flag.
func (m *Mapping) WithSilent(silent bool) *Mapping {
	m.Silent = silent
	return m
}

// WithNoWait sets the nowait flag.
func (m *Mapping) WithNoWait(nowait bool) *Mapping {
	m.NoWait = nowait
	return m
}

// IsExpr reports whether the mapping is an <expr> mapping.
func (m *Mapping) IsExpr() bool {
	_, ok := m.Payload.(ToExpression)
	return ok
}

// RHS returns the replacement in the form :map lists it.
func (m *Mapping) RHS() string {
	switch p := m.Payload.(type) {
	case ToKeys:
		if len(p.Keys) == 0 {
			return "<Nop>"
		}
		return key.ToNotation(p.Keys)
	case ToExpression:
		return p.Source
	case ToHandler:
		if p.Name != "" {
			return "<Handler:" + p.Name + ">"
		}
		return "<Handler>"
	}
	return ""
}
