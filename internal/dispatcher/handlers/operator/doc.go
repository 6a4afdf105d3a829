// Package operator binds the operators, the visual-mode shortcuts built
// on them and the text objects.
//
// Operators are command.Operator handlers. In Normal mode the dispatcher
// reads a motion before applying them; in Visual mode they apply to the
// selection at once. Doubling an operator (dd, >>, gUU, g??) applies it
// linewise to count lines.
//
// # Operators
//
//   - operator.delete (d), operator.change (c), operator.yank (y)
//   - operator.indent (>), operator.outdent (<)
//   - operator.lowercase (gu), operator.uppercase (gU),
//     operator.toggleCase (g~), operator.rot13 (g?)
//   - operator.func (g@), which calls 'operatorfunc'
//
// # Visual Mode
//
// Visual mode adds x, X, D, s, S, C, R, Y, J, gJ, r, ~, u, U, p and P,
// all applied to the selection.
//
// # Text Objects
//
// Text objects are bound in Visual and Operator-pending mode: iw aw iW
// aW is as ip ap, the bracket objects i( a( ib ab i{ a{ iB aB i[ a[ i<
// a<, the quote objects i" a" i' a' i` a`, and the argument objects ia
// and aa.
package operator
