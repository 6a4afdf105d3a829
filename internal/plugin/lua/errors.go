package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk or callback runs past
	// the execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned by Call when the global is not a function.
	ErrNotFunction = errors.New("not a lua function")
)

// CapabilityError is returned when a plugin uses part of the vim module
// it was not granted.
type CapabilityError struct {
	Capability Capability
	Func       string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("vim.%s requires capability %q", e.Func, e.Capability)
}

// ScriptError is an error raised by Lua code, or a chunk that does not
// compile. Msg carries the chunk name and line.
type ScriptError struct {
	Msg   string
	Cause error
}

func (e *ScriptError) Error() string { return e.Msg }

func (e *ScriptError) Unwrap() error { return e.Cause }
