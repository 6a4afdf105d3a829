package eval

import (
	"errors"
	"fmt"
)

// Error is a runtime error with a Vim error number.
type Error struct {
	Num int
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("E%d: %s", e.Num, e.Msg) }

// Code returns the Vim error number.
func (e *Error) Code() int { return e.Num }

func errorf(num int, format string, args ...any) error {
	return &Error{Num: num, Msg: fmt.Sprintf(format, args...)}
}

// UnknownFunctionError reports a call to a function that is neither
// built in nor defined.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string { return "E117: Unknown function: " + e.Name }
func (e *UnknownFunctionError) Code() int     { return 117 }

// ArgumentCountError reports a call with too many or too few arguments.
type ArgumentCountError struct {
	Name    string
	TooMany bool
}

func (e *ArgumentCountError) Error() string {
	if e.TooMany {
		return "E118: Too many arguments for function: " + e.Name
	}
	return "E119: Not enough arguments for function: " + e.Name
}

// Code returns 118 or 119.
func (e *ArgumentCountError) Code() int {
	if e.TooMany {
		return 118
	}
	return 119
}

// DictFunctionWithoutReceiverError reports a dict function called without
// a dictionary.
type DictFunctionWithoutReceiverError struct {
	Name string
}

func (e *DictFunctionWithoutReceiverError) Error() string {
	return "E725: Calling dict function without Dictionary: " + e.Name
}

func (e *DictFunctionWithoutReceiverError) Code() int { return 725 }

// DeletedFunctionError reports a call through a funcref() whose function
// was deleted.
type DeletedFunctionError struct {
	Name string
}

func (e *DeletedFunctionError) Error() string { return "E933: Function was deleted: " + e.Name }
func (e *DeletedFunctionError) Code() int     { return 933 }

// ReadOnlyVariableError reports an assignment to a read-only variable such
// as a function argument.
type ReadOnlyVariableError struct {
	Name string
}

func (e *ReadOnlyVariableError) Error() string {
	return fmt.Sprintf("E46: Cannot change read-only variable \"%s\"", e.Name)
}

func (e *ReadOnlyVariableError) Code() int { return 46 }

// ListIndexOutOfRangeError reports a list index past either end. Indexing
// a String out of range yields "" instead.
type ListIndexOutOfRangeError struct {
	Index int64
}

func (e *ListIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("E684: List index out of range: %d", e.Index)
}

func (e *ListIndexOutOfRangeError) Code() int { return 684 }

// Exception is a thrown value that no :catch matched.
type Exception struct {
	Value      string
	Throwpoint string
}

func (e *Exception) Error() string { return "E605: Exception not caught: " + e.Value }
func (e *Exception) Code() int     { return 605 }

// ScriptError locates an uncaught error in a script or function.
type ScriptError struct {
	Script   string
	Function string
	Line     int
	Command  string
	Err      error
}

func (e *ScriptError) Error() string { return e.Err.Error() }
func (e *ScriptError) Unwrap() error { return e.Err }

// Code returns the Vim error number of the cause, or 0.
func (e *ScriptError) Code() int {
	var c interface{ Code() int }
	if errors.As(e.Err, &c) {
		return c.Code()
	}
	return 0
}

// Location describes where the error happened, as Vim's "Error detected
// while processing" header does.
func (e *ScriptError) Location() string {
	switch {
	case e.Function != "":
		return fmt.Sprintf("function %s, line %d", e.Function, e.Line)
	case e.Script != "":
		return fmt.Sprintf("%s, line %d", e.Script, e.Line)
	}
	return fmt.Sprintf("line %d", e.Line)
}
