// Package command defines executable commands: the descriptor bound in the
// command trie and the closed set of handler shapes the dispatcher knows
// how to run.
//
// A Handler is exactly one of:
//
//	SingleExecution  runs once, whatever the number of carets
//	PerCaret         runs once per caret, in document or reverse order
//	Operator         applies to the range a motion or selection computed
//	Motion           moves carets, or supplies an operator's range
//	Async            completes later through a continuation
//
// The dispatcher selects the execution strategy with a type switch; adding
// a new shape means extending that switch.
package command
