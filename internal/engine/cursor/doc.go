// Package cursor provides caret and selection values for the in-memory
// document, and the rules that move them when text changes under them.
package cursor
