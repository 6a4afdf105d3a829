// Package extension is the boundary pluggable behavior uses to add
// commands, mappings and operator functions to a session.
//
// Extensions are listed in a static table the host builds at startup.
// Each loaded extension gets its own owner identity; unloading it removes
// exactly what it registered and nothing else.
package extension

import (
	"fmt"

	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/owner"
)

// Facade is what extensions register through.
type Facade interface {
	// RegisterCommand binds h to keys in modes. Keys use key notation.
	RegisterCommand(id owner.ID, name string, modes mode.MappingModes, keys string, h command.Handler, flags command.Flags) error

	// RegisterMapping maps from to to in modes.
	RegisterMapping(modes mode.MappingModes, from string, id owner.ID, to string, recursive bool) error

	// RegisterHandlerMapping maps from to a handler.
	RegisterHandlerMapping(modes mode.MappingModes, from string, id owner.ID, name string, h command.Handler) error

	// RemoveMapping removes the mapping of from in modes, whoever made it.
	RemoveMapping(modes mode.MappingModes, from string) error

	// RegisterOperatorFunction makes fn callable as 'operatorfunc' name.
	RegisterOperatorFunction(name string, id owner.ID, fn dispatcher.OperatorFunc)

	// ExecuteNormalCommand runs keys as Normal-mode commands and returns
	// once they are done.
	ExecuteNormalCommand(keys string, remap bool) error

	// Unregister removes everything id registered.
	Unregister(id owner.ID) int

	// Eval evaluates a Vimscript expression.
	Eval(expr string) (string, error)

	// Message shows msg on the message line.
	Message(msg string)

	// Editor is the editor the session drives.
	Editor() engine.Editor
}

// Registrar implements Facade over a dispatcher.
type Registrar struct {
	d *dispatcher.Dispatcher
}

var _ Facade = (*Registrar)(nil)

// NewRegistrar returns a facade registering into d.
func NewRegistrar(d *dispatcher.Dispatcher) *Registrar {
	return &Registrar{d: d}
}

// RegisterCommand replaces any command already bound to keys.
func (r *Registrar) RegisterCommand(id owner.ID, name string, modes mode.MappingModes, keys string, h command.Handler, flags command.Flags) error {
	seq, err := key.Parse(keys)
	if err != nil {
		return fmt.Errorf("command %s: %w", name, err)
	}
	if len(seq) == 0 {
		return fmt.Errorf("command %s: %w", name, ErrNoKeys)
	}
	cmd := &command.Command{
		Name:    name,
		Modes:   modes,
		Keys:    []key.Sequence{seq},
		Handler: h,
		Flags:   flags,
		Owner:   id,
	}
	if _, ok := h.(command.Operator); ok {
		cmd.Argument = vim.ArgMotion
	}
	return r.d.RegisterCommand(cmd, true)
}

func (r *Registrar) RegisterMapping(modes mode.MappingModes, from string, id owner.ID, to string, recursive bool) error {
	leader := r.d.Options().MapLeader
	lhs, err := key.Parse(keymap.ExpandLeader(from, leader))
	if err != nil {
		return fmt.Errorf("mapping %s: %w", from, err)
	}
	rhs, err := key.Parse(keymap.ExpandLeader(to, leader))
	if err != nil {
		return fmt.Errorf("mapping %s: %w", from, err)
	}
	m := keymap.New(lhs, keymap.ToKeys{Keys: rhs}, id).WithRecursive(recursive)
	return r.d.Mappings().Put(modes, m)
}

func (r *Registrar) RegisterHandlerMapping(modes mode.MappingModes, from string, id owner.ID, name string, h command.Handler) error {
	lhs, err := key.Parse(keymap.ExpandLeader(from, r.d.Options().MapLeader))
	if err != nil {
		return fmt.Errorf("mapping %s: %w", from, err)
	}
	m := keymap.New(lhs, keymap.ToHandler{Name: name, Handler: h}, id)
	return r.d.Mappings().Put(modes, m)
}

func (r *Registrar) RemoveMapping(modes mode.MappingModes, from string) error {
	lhs, err := key.Parse(keymap.ExpandLeader(from, r.d.Options().MapLeader))
	if err != nil {
		return fmt.Errorf("mapping %s: %w", from, err)
	}
	return r.d.Mappings().Remove(modes, lhs)
}

func (r *Registrar) RegisterOperatorFunction(name string, id owner.ID, fn dispatcher.OperatorFunc) {
	r.d.OperatorFuncs().Register(name, id, fn)
}

func (r *Registrar) ExecuteNormalCommand(keys string, remap bool) error {
	seq, err := key.Parse(keys)
	if err != nil {
		return err
	}
	return r.d.ExecuteNormal(seq, remap)
}

func (r *Registrar) Unregister(id owner.ID) int {
	return r.d.UnregisterOwner(id)
}

func (r *Registrar) Eval(expr string) (string, error) { return r.d.Eval(expr) }

func (r *Registrar) Message(msg string) { r.d.Message(msg) }

func (r *Registrar) Editor() engine.Editor { return r.d.Editor() }
