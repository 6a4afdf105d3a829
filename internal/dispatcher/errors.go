package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrCancelled indicates a pre-command hook cancelled the command.
	ErrCancelled = errors.New("dispatcher: command cancelled by hook")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrAsyncTimeout indicates an async handler did not finish in time.
	ErrAsyncTimeout = errors.New("dispatcher: async command timed out")

	// ErrNoRepeat indicates "." was used before any change.
	ErrNoRepeat = errors.New("dispatcher: no change to repeat")

	// ErrNoEnvironment indicates a command line or expression was run
	// without an Environment.
	ErrNoEnvironment = errors.New("dispatcher: no environment")
)

// RecursiveMappingError is reported when mapping expansion nests deeper
// than 'maxmapdepth'.
type RecursiveMappingError struct {
	Depth int
}

func (e *RecursiveMappingError) Error() string {
	return "E223: Recursive mapping"
}

// Code returns the Vim error number.
func (e *RecursiveMappingError) Code() int { return 223 }

// NestingError is reported when ExecuteNormal re-enters itself too deeply.
type NestingError struct {
	Depth int
}

func (e *NestingError) Error() string {
	return "E169: Command too recursive"
}

// Code returns the Vim error number.
func (e *NestingError) Code() int { return 169 }
