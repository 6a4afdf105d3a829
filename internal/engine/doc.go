// Package engine defines the editor interface the Vim core drives, and
// Document, an in-memory implementation of it.
//
// The core never touches host text storage directly. Everything it needs
// (text reads, edits, carets, selections, marks and undo grouping) goes
// through Editor and Caret, so any host that implements them can embed the
// core. Document is the host used by the command-line front end and by tests.
package engine
