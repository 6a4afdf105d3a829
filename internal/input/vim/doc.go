// Package vim holds the state a Normal-mode command accumulates while it is
// typed, and the register store its result lands in.
//
// The grammar for a Normal-mode command is:
//
//	["x][count1][operator][count2][motion | text-object | operator]
//	["x][count1][command][argument]
//
// Examples:
//   - "5j": count1=5, motion=j
//   - "2d3w": count1=2, operator=d, count2=3, motion=w; six words
//   - `"ayiw`: register=a, operator=y, text-object=iw
//   - "dd": operator=d repeated, linewise over the current line
//
// Builder does not resolve keys itself; the dispatcher feeds it counts,
// registers and the command keys it consumes so the command can be
// repeated with "." and shown in showcmd.
//
// Store implements Vim's register semantics: the unnamed register, the
// yank register 0, the delete history 1-9, the small delete register,
// named registers with append, the black hole and the read-only registers.
package vim
