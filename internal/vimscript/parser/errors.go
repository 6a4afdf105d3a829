package parser

import "fmt"

// Error is a Vimscript syntax error. Line and Col locate it in the
// script, 1-based.
type Error struct {
	Num    int
	Msg    string
	Script string
	Line   int
	Col    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("E%d: %s", e.Num, e.Msg)
}

// Code returns the Vim error number.
func (e *Error) Code() int { return e.Num }

// Location returns "script, line N, col M" for messages.
func (e *Error) Location() string {
	if e.Script != "" {
		return fmt.Sprintf("%s, line %d, col %d", e.Script, e.Line, e.Col)
	}
	return fmt.Sprintf("line %d, col %d", e.Line, e.Col)
}
