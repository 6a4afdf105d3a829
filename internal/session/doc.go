// Package session ties the key dispatcher to the Vimscript interpreter.
//
// A Session is the single owner of per-editor state: the mapping table,
// command trie, registers and mode stack (held by its dispatcher), the
// interpreter's variables and functions, and the startup script. Nothing
// is global, so two sessions never see each other's state.
//
// The session is the interpreter's host. It runs the editor commands
// scripts use: the :map family with <expr>, <silent>, <nowait>, <unique>
// and <Leader>, :normal, :set, :source, :registers and the like. In turn
// it is the dispatcher's environment for command lines, <expr> mappings
// and 'operatorfunc'.
//
// The startup script runs when the session is created. Reload runs it
// again only when its text changed beyond comments and blank lines,
// replacing the mappings it made the first time. WatchRC reloads on every
// save.
package session
