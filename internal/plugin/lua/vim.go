package lua

import (
	"errors"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/extension"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/owner"
)

// module is the vim table of one plugin. Everything it registers is
// owned by id.
type module struct {
	st   *State
	f    extension.Facade
	id   owner.ID
	name string
}

// table builds the vim table.
func (m *module) table() *lua.LTable {
	L := m.st.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"map":          m.mapKeys,
		"unmap":        m.unmap,
		"command":      m.command,
		"operatorfunc": m.operatorFunc,
		"normal":       m.normal,
		"eval":         m.eval,
		"echo":         m.echo,
	})
	buf := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":       m.bufText,
		"line":       m.bufLine,
		"line_count": m.bufLineCount,
		"cursor":     m.bufCursor,
		"set_cursor": m.bufSetCursor,
		"insert":     m.bufInsert,
		"delete":     m.bufDelete,
		"replace":    m.bufReplace,
	})
	L.SetField(mod, "buf", buf)
	L.SetField(mod, "plugin", lua.LString(m.name))
	return mod
}

// check raises a Lua error unless c is granted.
func (m *module) check(L *lua.LState, c Capability, fn string) {
	if err := m.st.Sandbox().CheckCapability(c, fn); err != nil {
		L.RaiseError("%s", err.Error())
	}
}

func raise(L *lua.LState, err error) int {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// modesArg reads mode letters: "" for :map, "n", "nv", "i", "!".
func modesArg(L *lua.LState, n int) mode.MappingModes {
	letters := L.CheckString(n)
	modes := mode.ParseLetters(letters)
	if modes == 0 {
		L.ArgError(n, "invalid modes "+letters)
	}
	return modes
}

// call runs fn for a handler and turns a Lua error into a Go one.
func (m *module) call(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	return m.st.CallFunction(fn, args...)
}

// map(modes, lhs, rhs, opts?). rhs is keys or a function called with the
// count. opts.remap makes a keys mapping recursive.
func (m *module) mapKeys(L *lua.LState) int {
	m.check(L, CapabilityKeymap, "map")
	modes := modesArg(L, 1)
	lhs := L.CheckString(2)
	opts := L.OptTable(4, nil)

	switch rhs := L.Get(3).(type) {
	case lua.LString:
		return raise(L, m.f.RegisterMapping(modes, lhs, m.id, string(rhs), optBool(opts, "remap")))
	case *lua.LFunction:
		h := command.SingleExecution{Fn: func(ctx *command.Context) error {
			_, err := m.call(rhs, lua.LNumber(ctx.Count))
			return err
		}}
		return raise(L, m.f.RegisterHandlerMapping(modes, lhs, m.id, optString(opts, "desc", m.name), h))
	}
	L.ArgError(3, "keys or function expected")
	return 0
}

// unmap(modes, lhs) -> bool
func (m *module) unmap(L *lua.LState) int {
	m.check(L, CapabilityKeymap, "unmap")
	err := m.f.RemoveMapping(modesArg(L, 1), L.CheckString(2))
	L.Push(lua.LBool(err == nil))
	return 1
}

// command(modes, keys, fn, opts?) binds a command. By default fn runs
// once with the count. opts.operator calls fn(start, end, kind) for the
// range of the motion that follows; opts.motion calls fn(offset, count)
// and moves to the offset it returns, failing on nil; opts.async calls
// fn(done) and the command finishes when done(err?) is called.
func (m *module) command(L *lua.LState) int {
	m.check(L, CapabilityCommand, "command")
	modes := modesArg(L, 1)
	keys := L.CheckString(2)
	fn := L.CheckFunction(3)
	opts := L.OptTable(4, nil)
	name := optString(opts, "name", m.name+":"+keys)

	var h command.Handler
	switch {
	case optBool(opts, "operator"):
		h = command.Operator{Fn: func(_ *command.Context, _ engine.Caret, r engine.TextRange) error {
			_, err := m.call(fn, lua.LNumber(r.Start), lua.LNumber(r.End), lua.LString(r.Kind.String()))
			return err
		}}
	case optBool(opts, "motion"):
		h = command.Motion{Fn: func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
			res, err := m.call(fn, lua.LNumber(c.Offset()), lua.LNumber(ctx.Count))
			if err != nil {
				return command.MotionResult{}, err
			}
			if len(res) == 0 {
				return command.MotionResult{}, command.ErrFailed
			}
			n, ok := res[0].(lua.LNumber)
			if !ok {
				return command.MotionResult{}, command.ErrFailed
			}
			return command.To(int(n)), nil
		}}
	case optBool(opts, "async"):
		h = command.Async{Fn: func(_ *command.Context, done func(error)) {
			finish := m.st.L.NewFunction(func(L *lua.LState) int {
				if msg := L.OptString(1, ""); msg != "" {
					done(errors.New(msg))
				} else {
					done(nil)
				}
				return 0
			})
			if _, err := m.call(fn, finish); err != nil {
				done(err)
			}
		}}
	default:
		h = command.SingleExecution{Fn: func(ctx *command.Context) error {
			_, err := m.call(fn, lua.LNumber(ctx.Count))
			return err
		}}
	}

	var flags command.Flags
	if optBool(opts, "repeatable") {
		flags |= command.Repeatable
	}
	return raise(L, m.f.RegisterCommand(m.id, name, modes, keys, h, flags))
}

// operatorfunc(name, fn) makes fn callable by g@ when 'operatorfunc' is
// name. fn gets "char", "line" or "block".
func (m *module) operatorFunc(L *lua.LState) int {
	m.check(L, CapabilityCommand, "operatorfunc")
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	m.f.RegisterOperatorFunction(name, m.id, func(kind string) error {
		_, err := m.call(fn, lua.LString(kind))
		return err
	})
	return 0
}

// normal(keys, remap?) runs keys as Normal-mode commands.
func (m *module) normal(L *lua.LState) int {
	m.check(L, CapabilityExecute, "normal")
	return raise(L, m.f.ExecuteNormalCommand(L.CheckString(1), L.OptBool(2, false)))
}

// eval(expr) -> string
func (m *module) eval(L *lua.LState) int {
	m.check(L, CapabilityExecute, "eval")
	v, err := m.f.Eval(L.CheckString(1))
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LString(v))
	return 1
}

// echo(...) shows its arguments joined by spaces.
func (m *module) echo(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	m.f.Message(strings.Join(parts, " "))
	return 0
}

func (m *module) editor() engine.Editor { return m.f.Editor() }

func (m *module) bufText(L *lua.LState) int {
	L.Push(lua.LString(m.editor().Text()))
	return 1
}

// line(n) -> string. Lines count from 1.
func (m *module) bufLine(L *lua.LState) int {
	n := L.CheckInt(1)
	ed := m.editor()
	if n < 1 || n > ed.LineCount() {
		L.ArgError(1, "line out of range")
	}
	L.Push(lua.LString(ed.LineText(n - 1)))
	return 1
}

func (m *module) bufLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.editor().LineCount()))
	return 1
}

func (m *module) bufCursor(L *lua.LState) int {
	L.Push(lua.LNumber(m.editor().PrimaryCaret().Offset()))
	return 1
}

func (m *module) bufSetCursor(L *lua.LState) int {
	m.check(L, CapabilityBuffer, "buf.set_cursor")
	off := m.offsetArg(L, 1)
	engine.MoveCaret(m.editor().PrimaryCaret(), off)
	return 0
}

func (m *module) bufInsert(L *lua.LState) int {
	m.check(L, CapabilityBuffer, "buf.insert")
	return raise(L, m.editor().Insert(m.offsetArg(L, 1), L.CheckString(2)))
}

func (m *module) bufDelete(L *lua.LState) int {
	m.check(L, CapabilityBuffer, "buf.delete")
	start, end := m.offsetArg(L, 1), m.offsetArg(L, 2)
	return raise(L, m.editor().Delete(start, end))
}

func (m *module) bufReplace(L *lua.LState) int {
	m.check(L, CapabilityBuffer, "buf.replace")
	start, end := m.offsetArg(L, 1), m.offsetArg(L, 2)
	return raise(L, m.editor().Replace(start, end, L.CheckString(3)))
}

// offsetArg reads a byte offset within the buffer.
func (m *module) offsetArg(L *lua.LState, n int) engine.ByteOffset {
	off := L.CheckInt(n)
	if off < 0 || off > m.editor().Len() {
		L.ArgError(n, "offset out of range")
	}
	return off
}
