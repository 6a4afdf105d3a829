// Package mode provides the commands that move between editor modes.
//
// # Insert
//
// i, a, I, A, gI, o and O enter Insert mode at a position derived from
// each caret. A count repeats the typed text when the session ends; o and
// O repeat it on new lines. R enters Replace mode and <Insert> toggles
// between the two. <C-O> runs one Normal-mode command and returns to
// Insert mode.
//
// # Visual and Select
//
// v, V and <C-V> start a Visual selection at every caret, switch its
// shape, or leave Visual mode when the shape is already active. gv
// reselects the last selection. gh, gH and g<C-H> start Select mode and
// <C-G> toggles between Visual and Select. In Visual mode o swaps the ends
// of the selection, and I and A insert before or after a block on every
// line.
//
// # Leaving
//
// <Esc> and <C-C> return to Normal mode. Leaving Insert mode moves the
// caret back one character; leaving Normal mode drops secondary carets.
//
// # Command line
//
// : reads an Ex command line and runs it. From Visual mode the line is
// prefixed with the '<,'> range; with a count, with a range of that many
// lines.
package mode
