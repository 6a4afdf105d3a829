package lua

import (
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Capability is a part of the vim module a plugin may be granted.
type Capability string

// Available capabilities.
const (
	CapabilityKeymap  Capability = "keymap"  // vim.map, vim.unmap
	CapabilityCommand Capability = "command" // vim.command, vim.operatorfunc
	CapabilityBuffer  Capability = "buffer"  // vim.buf edits and caret moves
	CapabilityExecute Capability = "execute" // vim.normal, vim.eval
)

// AllCapabilities returns every capability.
func AllCapabilities() []Capability {
	return []Capability{CapabilityKeymap, CapabilityCommand, CapabilityBuffer, CapabilityExecute}
}

// ParseCapability returns the capability named s.
func ParseCapability(s string) (Capability, bool) {
	c := Capability(strings.TrimSpace(s))
	return c, slices.Contains(AllCapabilities(), c)
}

// safeModules are the libraries require hands out besides the provided
// modules.
var safeModules = []string{"string", "table", "math"}

// Sandbox restricts what Lua code can reach.
type Sandbox struct {
	L *lua.LState

	capabilities map[Capability]bool
	modules      map[string]lua.LValue
	printer      func(string)
}

// NewSandbox creates a sandbox for L with no capabilities.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L:            L,
		capabilities: make(map[Capability]bool),
		modules:      make(map[string]lua.LValue),
	}
}

// Install removes the loaders that read files or compile strings and
// replaces print and require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafePrint()
	s.installSafeRequire()
}

// installSafePrint sends print output to the printer instead of stdout.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		if s.printer != nil {
			s.printer(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// installSafeRequire allows the safe standard libraries and the modules
// the host provides. Nothing is loaded from disk.
func (s *Sandbox) installSafeRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if mod, ok := s.modules[name]; ok {
			L.Push(mod)
			return 1
		}
		if slices.Contains(safeModules, name) {
			L.Push(L.GetGlobal(name))
			return 1
		}
		L.RaiseError("module %q is not available", name)
		return 0
	}))
}

// Provide makes mod what require(name) returns.
func (s *Sandbox) Provide(name string, mod lua.LValue) {
	s.modules[name] = mod
}

// SetPrinter sets where print writes. Nil discards.
func (s *Sandbox) SetPrinter(fn func(string)) {
	s.printer = fn
}

// Grant enables capabilities.
func (s *Sandbox) Grant(caps ...Capability) {
	for _, c := range caps {
		s.capabilities[c] = true
	}
}

// Revoke disables a capability.
func (s *Sandbox) Revoke(c Capability) {
	delete(s.capabilities, c)
}

// HasCapability reports whether c is granted.
func (s *Sandbox) HasCapability(c Capability) bool {
	return s.capabilities[c]
}

// Capabilities returns the granted capabilities, sorted.
func (s *Sandbox) Capabilities() []Capability {
	out := make([]Capability, 0, len(s.capabilities))
	for c := range s.capabilities {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// CheckCapability returns a CapabilityError when c is not granted to the
// vim function fn.
func (s *Sandbox) CheckCapability(c Capability, fn string) error {
	if s.capabilities[c] {
		return nil
	}
	return &CapabilityError{Capability: c, Func: fn}
}
