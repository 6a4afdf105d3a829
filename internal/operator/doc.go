// Package operator implements Vim motions, text objects, operator range
// computation and the built-in operators.
//
// Motions take the editor, a starting byte offset and a count and return
// a command.MotionResult: where they land and whether an operator treats
// the target as inclusive or linewise. ComputeRange turns a motion result
// into the range an operator acts on, applying Vim's adjustments:
//
//   - inclusive motions include the character at the target
//   - an exclusive motion ending in column 0 of a later line ends at the
//     end of the previous line instead, and becomes linewise when it
//     started at or before the first non-blank of its line
//   - linewise ranges cover whole lines
//
// Operators then edit that range through engine.Editor and queue what they
// removed or copied on the command context, which writes the register once
// every caret has run.
package operator
