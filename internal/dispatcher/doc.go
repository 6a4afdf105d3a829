// Package dispatcher turns key events into Vim commands.
//
// The dispatcher is the hub between the host's key input and the editor.
// It owns the input queue, the mapping table, the command trie for each
// mode, the mode stack, registers and the macro recorder.
//
// # Input
//
// Keys enter through HandleKeys and wait in a queue. Each key at the head
// of the queue is first matched against mappings of the active mode; a
// key that is a strict prefix of a longer mapping waits for the next key
// or for 'timeoutlen'. Unmapped keys build the pending command:
//
//  1. A count and a "x register prefix
//  2. Keys looked up in the command trie of the active mode
//  3. For an operator, the motion or text object it applies to
//  4. A character, digraph or command line argument
//
// # Execution
//
// Once complete, a command runs with a Context describing its count,
// register, argument and mode. Handlers come in several shapes: once per
// command, once per caret, operators given a range per caret, motions
// returning a target per caret, and async handlers that finish later
// through the Scheduler. Each command runs inside one undo group,
// surrounded by pre- and post-command hooks, with panic recovery and
// optional metrics.
//
// After a command the dispatcher writes registers, sets the change marks,
// saves repeatable changes for "." and returns to Insert mode after a
// command typed with <C-O>.
//
// # Timers
//
// Mapping waits and async deadlines use a Clock; their callbacks come back
// to the editor thread through a Scheduler. Tests use ManualClock with
// the Immediate scheduler to step time deterministically.
//
// # Thread Safety
//
// The dispatcher is not safe for concurrent use. Every method must be
// called from the editor thread.
package dispatcher
