package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a configuration file extension that no
	// loader handles.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnknownOptionError is returned by :set for an option that does not exist.
type UnknownOptionError struct {
	Name string
}

func (e *UnknownOptionError) Error() string {
	return "E518: Unknown option: " + e.Name
}

// Code returns the Vim error number.
func (e *UnknownOptionError) Code() int { return 518 }

// InvalidArgumentError is returned by :set for a value the option rejects.
type InvalidArgumentError struct {
	Arg string
}

func (e *InvalidArgumentError) Error() string {
	return "E474: Invalid argument: " + e.Arg
}

// Code returns the Vim error number.
func (e *InvalidArgumentError) Code() int { return 474 }

// NumberRequiredError is returned when a number option gets a non-number.
type NumberRequiredError struct {
	Arg string
}

func (e *NumberRequiredError) Error() string {
	return "E521: Number required after =: " + e.Arg
}

// Code returns the Vim error number.
func (e *NumberRequiredError) Code() int { return 521 }
