package operator

import (
	"errors"

	"github.com/dshills/vimcore/internal/dispatcher/command"
)

// ErrNoMatch is returned by f, t, % and text objects that find nothing.
var ErrNoMatch = errors.New("no match")

// MotionFailedError reports a motion that found no target. An operator
// whose motion fails makes no edit and writes no register.
type MotionFailedError struct {
	Motion string
	Err    error
}

func (e *MotionFailedError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "motion failed: " + e.Motion
}

// Unwrap returns the cause.
func (e *MotionFailedError) Unwrap() error { return e.Err }

// Code returns the Vim error number of the cause, or 0.
func (e *MotionFailedError) Code() int {
	var ve *command.Error
	if errors.As(e.Err, &ve) {
		return ve.Code()
	}
	return 0
}

func failed(motion string) error {
	return &MotionFailedError{Motion: motion}
}

func failedWith(motion string, err error) error {
	return &MotionFailedError{Motion: motion, Err: err}
}
