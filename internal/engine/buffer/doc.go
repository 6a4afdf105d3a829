// Package buffer provides the text storage behind the in-memory document.
//
// Text is held as a single string with a line index rebuilt on every edit.
// Offsets and columns are byte based; lines are separated by "\n" and the
// separator belongs to the line it ends.
package buffer
