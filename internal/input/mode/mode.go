package mode

import "fmt"

// Mode is a primary editor mode.
type Mode uint8

const (
	Normal Mode = iota
	Insert
	Replace
	Visual
	Select
	CommandLine
	OperatorPending
)

var modeNames = [...]string{
	Normal:          "normal",
	Insert:          "insert",
	Replace:         "replace",
	Visual:          "visual",
	Select:          "select",
	CommandLine:     "cmdline",
	OperatorPending: "op-pending",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// SubMode refines Visual and Select modes, and marks the transient states
// of Normal and Insert.
type SubMode uint8

const (
	SubNone SubMode = iota

	// Visual and Select selection shapes.
	Characterwise
	Linewise
	Blockwise

	// InsertNormal is Normal mode entered with <C-O> from Insert.
	InsertNormal
)

var subModeNames = [...]string{
	SubNone:       "",
	Characterwise: "char",
	Linewise:      "line",
	Blockwise:     "block",
	InsertNormal:  "insert-normal",
}

func (s SubMode) String() string {
	if int(s) < len(subModeNames) {
		return subModeNames[s]
	}
	return fmt.Sprintf("SubMode(%d)", s)
}

// State is one entry of the mode stack.
type State struct {
	Mode    Mode
	SubMode SubMode
}

// String returns a short indicator such as "visual/line".
func (s State) String() string {
	if s.SubMode == SubNone {
		return s.Mode.String()
	}
	return s.Mode.String() + "/" + s.SubMode.String()
}

// IsVisual reports whether the state has an active selection.
func (s State) IsVisual() bool {
	return s.Mode == Visual || s.Mode == Select
}

// Indicator returns the text Vim shows in the mode line, e.g. "-- INSERT --".
func (s State) Indicator() string {
	switch s.Mode {
	case Insert:
		return "-- INSERT --"
	case Replace:
		return "-- REPLACE --"
	case Visual:
		switch s.SubMode {
		case Linewise:
			return "-- VISUAL LINE --"
		case Blockwise:
			return "-- VISUAL BLOCK --"
		}
		return "-- VISUAL --"
	case Select:
		switch s.SubMode {
		case Linewise:
			return "-- SELECT LINE --"
		case Blockwise:
			return "-- SELECT BLOCK --"
		}
		return "-- SELECT --"
	case Normal:
		if s.SubMode == InsertNormal {
			return "-- (insert) --"
		}
	}
	return ""
}

// ModeCode returns the value of Vim's mode() function for the state.
func (s State) ModeCode() string {
	switch s.Mode {
	case Insert:
		return "i"
	case Replace:
		return "R"
	case Visual:
		switch s.SubMode {
		case Linewise:
			return "V"
		case Blockwise:
			return "\x16"
		}
		return "v"
	case Select:
		switch s.SubMode {
		case Linewise:
			return "S"
		case Blockwise:
			return "\x13"
		}
		return "s"
	case CommandLine:
		return "c"
	case OperatorPending:
		return "no"
	}
	if s.SubMode == InsertNormal {
		return "niI"
	}
	return "n"
}
