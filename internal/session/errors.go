package session

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session is closed")

	// ErrNoRC is returned by Reload when no startup script is configured.
	ErrNoRC = errors.New("no startup script configured")
)

// CommandError is an Ex command the session rejected, in Vim's E### form.
type CommandError struct {
	Num int
	Msg string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("E%d: %s", e.Num, e.Msg)
}

// Code returns the Vim error number.
func (e *CommandError) Code() int { return e.Num }

func cmdErrorf(num int, format string, args ...any) *CommandError {
	return &CommandError{Num: num, Msg: fmt.Sprintf(format, args...)}
}
