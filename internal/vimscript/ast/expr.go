package ast

// Case is the case-sensitivity variant of a comparison.
type Case uint8

const (
	// CaseDefault follows 'ignorecase'.
	CaseDefault Case = iota
	// CaseMatch is the "#" suffix.
	CaseMatch
	// CaseIgnore is the "?" suffix.
	CaseIgnore
)

func (c Case) String() string {
	switch c {
	case CaseMatch:
		return "#"
	case CaseIgnore:
		return "?"
	}
	return ""
}

// Number is an integer literal.
type Number struct {
	At    Pos
	Value int64
}

// Float is a floating point literal.
type Float struct {
	At    Pos
	Value float64
}

// String is a string literal with escapes already resolved.
type String struct {
	At    Pos
	Value string
}

// List is a list literal.
type List struct {
	At    Pos
	Items []Expr
}

// DictEntry is one key: value pair of a dictionary literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// Dict is a dictionary literal, {} or #{}.
type Dict struct {
	At      Pos
	Entries []DictEntry
}

// Ident is a variable or function name, including any scope prefix such
// as "g:", "s:", "l:", "a:" or "v:".
type Ident struct {
	At   Pos
	Name string
}

// Option is &name, &l:name or &g:name.
type Option struct {
	At    Pos
	Name  string
	Scope string
}

// Env is $NAME.
type Env struct {
	At   Pos
	Name string
}

// Register is @r.
type Register struct {
	At   Pos
	Name rune
}

// Unary is !x, -x or +x.
type Unary struct {
	At Pos
	Op string
	X  Expr
}

// Binary is a binary operation. Case is set for comparisons.
type Binary struct {
	At   Pos
	Op   string
	X, Y Expr
	Case Case
}

// Ternary is cond ? then : else.
type Ternary struct {
	At   Pos
	Cond Expr
	Then Expr
	Else Expr
}

// Index is x[i].
type Index struct {
	At    Pos
	X     Expr
	Index Expr
}

// Slice is x[lo : hi]. Missing bounds are nil.
type Slice struct {
	At Pos
	X  Expr
	Lo Expr
	Hi Expr
}

// Member is dict.key.
type Member struct {
	At   Pos
	X    Expr
	Name string
}

// Call is fn(args). Fn is usually an Ident naming a function, but may be
// any expression yielding a Funcref.
type Call struct {
	At   Pos
	Fn   Expr
	Args []Expr
}

// Method is recv->fn(args), which calls fn with recv prepended to args.
type Method struct {
	At   Pos
	Recv Expr
	Fn   Expr
	Args []Expr
}

// Lambda is {args -> expr}.
type Lambda struct {
	At      Pos
	Params  []string
	Varargs bool
	Body    Expr
}

func (e *Number) Position() Pos   { return e.At }
func (e *Float) Position() Pos    { return e.At }
func (e *String) Position() Pos   { return e.At }
func (e *List) Position() Pos     { return e.At }
func (e *Dict) Position() Pos     { return e.At }
func (e *Ident) Position() Pos    { return e.At }
func (e *Option) Position() Pos   { return e.At }
func (e *Env) Position() Pos      { return e.At }
func (e *Register) Position() Pos { return e.At }
func (e *Unary) Position() Pos    { return e.At }
func (e *Binary) Position() Pos   { return e.At }
func (e *Ternary) Position() Pos  { return e.At }
func (e *Index) Position() Pos    { return e.At }
func (e *Slice) Position() Pos    { return e.At }
func (e *Member) Position() Pos   { return e.At }
func (e *Call) Position() Pos     { return e.At }
func (e *Method) Position() Pos   { return e.At }
func (e *Lambda) Position() Pos   { return e.At }

func (*Number) exprNode()   {}
func (*Float) exprNode()    {}
func (*String) exprNode()   {}
func (*List) exprNode()     {}
func (*Dict) exprNode()     {}
func (*Ident) exprNode()    {}
func (*Option) exprNode()   {}
func (*Env) exprNode()      {}
func (*Register) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Ternary) exprNode()  {}
func (*Index) exprNode()    {}
func (*Slice) exprNode()    {}
func (*Member) exprNode()   {}
func (*Call) exprNode()     {}
func (*Method) exprNode()   {}
func (*Lambda) exprNode()   {}
