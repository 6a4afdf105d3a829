// Package editor provides the Normal-mode editing commands and the
// commands bound in Insert and Replace mode.
//
// # Normal Mode
//
//   - editor.deleteChar (x, <Del>), editor.deleteCharBack (X)
//   - editor.deleteToEnd (D), editor.changeToEnd (C)
//   - editor.substitute (s), editor.substituteLine (S)
//   - editor.yankLine (Y)
//   - editor.put (p), editor.putBefore (P), editor.putMove (gp),
//     editor.putBeforeMove (gP)
//   - editor.join (J), editor.joinRaw (gJ)
//   - editor.replaceChar (r), editor.toggleCase (~)
//
// # Insert Mode
//
// Insert-mode commands run for every caret. Typed characters are not
// commands; the dispatcher inserts them with Type, or Overtype in Replace
// mode.
//
//   - editor.backspace (<BS>, <C-H>), editor.deleteForward (<Del>)
//   - editor.newline (<CR>, <C-J>), editor.tab (<Tab>)
//   - editor.deleteWordBack (<C-W>), editor.deleteLineBack (<C-U>)
//   - editor.insertRegister (<C-R>), editor.insertLiteral (<C-V>, <C-Q>)
//   - editor.insertDigraph (<C-K>)
//   - editor.insertLeft, editor.insertRight, editor.insertUp,
//     editor.insertDown, editor.insertHome, editor.insertEnd (arrow keys)
package editor
