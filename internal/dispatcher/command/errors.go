package command

import (
	"errors"
	"fmt"
)

// ErrFailed is returned by a command that could not run. The dispatcher
// cancels the pending command without showing a message, like Vim's beep.
var ErrFailed = errors.New("command failed")

// Error is a user-visible error with a Vim error number.
type Error struct {
	Num int
	Msg string
}

// Errorf creates an Error.
func Errorf(num int, format string, args ...any) *Error {
	return &Error{Num: num, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("E%d: %s", e.Num, e.Msg)
}

// Code returns the Vim error number.
func (e *Error) Code() int { return e.Num }
