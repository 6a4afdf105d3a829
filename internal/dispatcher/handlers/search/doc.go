// Package search provides the pattern search motions.
//
// All of them are command.Motion handlers, so they move carets in Normal
// and Visual mode and serve as operator motions (d/foo<CR>). They always
// count as jumps.
//
//   - search.forward (/), search.backward (?): read a pattern line; an
//     empty pattern repeats the last one
//   - search.next (n), search.prev (N)
//   - search.wordForward (*), search.wordBackward (#): search for the
//     keyword under the caret as a whole word
//   - search.partialWordForward (g*), search.partialWordBackward (g#)
package search
