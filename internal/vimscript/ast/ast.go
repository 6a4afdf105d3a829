// Package ast defines the syntax tree of Vimscript programs.
//
// Statements carry the script line they start on so the evaluator can
// report errors and throwpoints. Expressions carry the column they start
// at within that line.
package ast

// Pos is a position in a script. Line and Col are 1-based; a zero Pos
// means unknown.
type Pos struct {
	Line int
	Col  int
}

// Node is any syntax tree node.
type Node interface {
	Position() Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
	// Command returns the full name of the Ex command, as used in
	// "Vim(let):..." exception strings.
	Command() string
}

// Script is a parsed script.
type Script struct {
	Name  string
	Stmts []Stmt
}
