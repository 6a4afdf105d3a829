package ast

// AddressKind is the base of a line address.
type AddressKind uint8

const (
	// AddrNumber is an absolute line number.
	AddrNumber AddressKind = iota
	// AddrCurrent is ".".
	AddrCurrent
	// AddrLast is "$".
	AddrLast
	// AddrMark is 'x.
	AddrMark
	// AddrOffset is a bare +N or -N, relative to the current line.
	AddrOffset
)

// Address is one end of a line range. Lines are 1-based.
type Address struct {
	Kind   AddressKind
	Line   int
	Mark   rune
	Offset int
}

// Range is the line range an Ex command is prefixed with. Whole is set
// for "%".
type Range struct {
	Start Address
	End   Address
	Count int
	Whole bool
}

// Let is :let or :const. Targets holds one place, or several for list
// unpacking, in which case Rest is the place after ";".
type Let struct {
	At      Pos
	Targets []Expr
	Unpack  bool
	Rest    Expr
	Op      string
	Value   Expr
	Const   bool
}

// Unlet is :unlet[!].
type Unlet struct {
	At      Pos
	Targets []Expr
	Bang    bool
}

// IfClause is one branch of an :if. Cond is nil for :else.
type IfClause struct {
	At   Pos
	Cond Expr
	Body []Stmt
}

// If is :if with its :elseif and :else branches.
type If struct {
	At      Pos
	Clauses []IfClause
}

// While is :while.
type While struct {
	At   Pos
	Cond Expr
	Body []Stmt
}

// For is :for. Names holds one variable, or several when Unpack is set,
// with Rest naming the variable after ";".
type For struct {
	At     Pos
	Names  []string
	Unpack bool
	Rest   string
	Iter   Expr
	Body   []Stmt
}

// Break is :break.
type Break struct {
	At Pos
}

// Continue is :continue.
type Continue struct {
	At Pos
}

// Param is a declared function parameter.
type Param struct {
	Name    string
	Default Expr
}

// Function is :function. Discard is set for declarations the evaluator
// skips, such as functions named by a dictionary path.
type Function struct {
	At      Pos
	Name    string
	Params  []Param
	Varargs bool
	Range   bool
	Abort   bool
	Dict    bool
	Closure bool
	Bang    bool
	Body    []Stmt
	Discard bool
}

// DelFunction is :delfunction[!].
type DelFunction struct {
	At   Pos
	Name string
	Bang bool
}

// Return is :return. Value is nil for a bare return.
type Return struct {
	At    Pos
	Value Expr
}

// Throw is :throw.
type Throw struct {
	At    Pos
	Value Expr
}

// Catch is one :catch clause. An empty Pattern matches everything.
type Catch struct {
	At      Pos
	Pattern string
	Body    []Stmt
}

// Try is :try with its :catch and :finally clauses.
type Try struct {
	At         Pos
	Body       []Stmt
	Catches    []Catch
	Finally    []Stmt
	HasFinally bool
}

// CallStmt is :call. Call is a *Call or *Method expression.
type CallStmt struct {
	At    Pos
	Range *Range
	Call  Expr
}

// Echo is :echo, :echon, :echomsg or :echoerr.
type Echo struct {
	At   Pos
	Name string
	Args []Expr
}

// Execute is :execute.
type Execute struct {
	At   Pos
	Args []Expr
}

// EvalStmt is :eval.
type EvalStmt struct {
	At Pos
	X  Expr
}

// ExCommand is an editor command the interpreter hands to its host, such
// as the map family, :normal or :set. Arg is the unparsed argument text.
type ExCommand struct {
	At    Pos
	Range *Range
	Name  string
	Bang  bool
	Arg   string
}

// Silent is :silent[!] applied to another command. With Bang errors are
// suppressed too.
type Silent struct {
	At   Pos
	Bang bool
	Stmt Stmt
}

func (s *Let) Position() Pos         { return s.At }
func (s *Unlet) Position() Pos       { return s.At }
func (s *If) Position() Pos          { return s.At }
func (s *While) Position() Pos       { return s.At }
func (s *For) Position() Pos         { return s.At }
func (s *Break) Position() Pos       { return s.At }
func (s *Continue) Position() Pos    { return s.At }
func (s *Function) Position() Pos    { return s.At }
func (s *DelFunction) Position() Pos { return s.At }
func (s *Return) Position() Pos      { return s.At }
func (s *Throw) Position() Pos       { return s.At }
func (s *Try) Position() Pos         { return s.At }
func (s *CallStmt) Position() Pos    { return s.At }
func (s *Echo) Position() Pos        { return s.At }
func (s *Execute) Position() Pos     { return s.At }
func (s *EvalStmt) Position() Pos    { return s.At }
func (s *ExCommand) Position() Pos   { return s.At }
func (s *Silent) Position() Pos      { return s.At }

func (s *Let) Command() string {
	if s.Const {
		return "const"
	}
	return "let"
}

func (*Unlet) Command() string       { return "unlet" }
func (*If) Command() string          { return "if" }
func (*While) Command() string       { return "while" }
func (*For) Command() string         { return "for" }
func (*Break) Command() string       { return "break" }
func (*Continue) Command() string    { return "continue" }
func (*Function) Command() string    { return "function" }
func (*DelFunction) Command() string { return "delfunction" }
func (*Return) Command() string      { return "return" }
func (*Throw) Command() string       { return "throw" }
func (*Try) Command() string         { return "try" }
func (*CallStmt) Command() string    { return "call" }
func (s *Echo) Command() string      { return s.Name }
func (*Execute) Command() string     { return "execute" }
func (*EvalStmt) Command() string    { return "eval" }
func (s *ExCommand) Command() string { return s.Name }
func (*Silent) Command() string      { return "silent" }

func (*Let) stmtNode()         {}
func (*Unlet) stmtNode()       {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Function) stmtNode()    {}
func (*DelFunction) stmtNode() {}
func (*Return) stmtNode()      {}
func (*Throw) stmtNode()       {}
func (*Try) stmtNode()         {}
func (*CallStmt) stmtNode()    {}
func (*Echo) stmtNode()        {}
func (*Execute) stmtNode()     {}
func (*EvalStmt) stmtNode()    {}
func (*ExCommand) stmtNode()   {}
func (*Silent) stmtNode()      {}
