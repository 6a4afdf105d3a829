package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds one outermost chunk or callback.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with the sandbox and the execution timeout.
//
// gopher-lua's LState is not goroutine-safe and neither is State: all
// calls happen on the editor thread. Calls may nest, since a Lua function
// can reach Go code that calls back into the same state; the timeout
// covers the outermost call.
type State struct {
	L *lua.LState

	executionTimeout time.Duration
	sandbox          *Sandbox

	depth  int
	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets how long one outermost call may run. Zero
// disables the limit.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{executionTimeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	s.L = L
	s.sandbox = NewSandbox(L)
	s.sandbox.Install()
	return s
}

// openSafeLibraries opens the libraries that cannot reach the file system
// or the process: io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoString compiles code as the chunk name and runs it.
func (s *State) DoString(name, code string) error {
	if s.closed {
		return ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return &ScriptError{Msg: err.Error(), Cause: err}
	}
	_, err = s.call(fn, nil)
	return err
}

// Call calls the global function fn.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	f, ok := s.L.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%s: %w", fn, ErrNotFunction)
	}
	return s.call(f, args)
}

// CallFunction calls fn and returns its results.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	return s.call(fn, args)
}

func (s *State) call(fn *lua.LFunction, args []lua.LValue) (results []lua.LValue, err error) {
	if s.depth == 0 && s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			cancel()
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %w", ErrExecutionTimeout, err)
			}
		}()
	}
	s.depth++
	defer func() { s.depth-- }()

	top := s.L.GetTop()
	s.L.Push(fn)
	for _, a := range args {
		s.L.Push(a)
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("lua panic: %v", r)
			}
		}()
		err = s.L.PCall(len(args), lua.MultRet, nil)
	}()
	if err != nil {
		s.L.SetTop(top)
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) {
			return nil, &ScriptError{Msg: apiErr.Object.String(), Cause: err}
		}
		return nil, err
	}

	n := s.L.GetTop() - top
	results = make([]lua.LValue, n)
	for i := range n {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.Pop(n)
	return results, nil
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// Sandbox returns the sandbox of the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed reports whether Close was called.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
