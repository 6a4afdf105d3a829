// Package cursor provides the built-in motion commands.
//
// Every command here is a command.Motion: the dispatcher runs it once per
// caret and either moves the caret (Normal and Visual mode) or hands the
// result to a pending operator.
//
// # Character and Line Motions
//
//   - cursor.moveLeft (h, <Left>, <C-H>), cursor.moveRight (l, <Right>)
//   - cursor.backChar (<BS>), cursor.forwardChar (<Space>)
//   - cursor.moveDown (j, <Down>, <C-N>, <C-J>), cursor.moveUp (k, <Up>, <C-P>)
//   - cursor.moveLineStart (0, <Home>), cursor.firstNonBlank (^)
//   - cursor.moveLineEnd ($, <End>), cursor.lastNonBlank (g_)
//   - cursor.gotoColumn (|), cursor.lineDown (+, <CR>), cursor.lineUp (-)
//   - cursor.currentLine (_)
//   - cursor.moveFirstLine (gg), cursor.moveLastLine (G)
//   - cursor.matchingBracket (%), which with a count goes to N percent
//
// # Word, Sentence and Paragraph Motions
//
//   - cursor.wordForward (w), cursor.bigWordForward (W)
//   - cursor.wordBackward (b), cursor.bigWordBackward (B)
//   - cursor.wordEndForward (e), cursor.bigWordEndForward (E)
//   - cursor.wordEndBackward (ge), cursor.bigWordEndBackward (gE)
//   - cursor.sentenceForward ()), cursor.sentenceBackward (()
//   - cursor.paragraphForward (}), cursor.paragraphBackward ({)
//
// # Find and Marks
//
//   - cursor.findForward (f), cursor.findBackward (F), cursor.tillForward (t),
//     cursor.tillBackward (T), cursor.repeatFind (;), cursor.repeatFindReverse (,)
//   - cursor.gotoMark (`), cursor.gotoMarkLine ('), cursor.setMark (m)
package cursor
