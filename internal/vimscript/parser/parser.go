// Package parser turns Vimscript source into an ast.Script.
//
// Lines starting with a backslash continue the previous line. Commands on
// one line are separated by "|", except for commands such as :normal that
// take the rest of the line. Command names may be abbreviated down to the
// shortest form Vim accepts.
package parser

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/vimscript/ast"
)

type logicalLine struct {
	text string
	line int
}

type parser struct {
	name  string
	lines []logicalLine
	li    int

	src  string
	pos  int
	line int
}

// marker is a command that only makes sense inside a block, such as
// :endif or :catch.
type marker struct {
	kind    string
	at      ast.Pos
	cond    ast.Expr
	pattern string
}

// Parse parses a whole script. name is used in error messages.
func Parse(name, src string) (*ast.Script, error) {
	p := &parser{name: name, lines: splitLines(src)}
	stmts, m, err := p.block()
	if err != nil {
		return nil, err
	}
	if m != nil {
		return nil, p.unmatched(m)
	}
	return &ast.Script{Name: name, Stmts: stmts}, nil
}

// splitLines joins continuation lines and records where each logical line
// starts.
func splitLines(src string) []logicalLine {
	raw := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	var out []logicalLine
	for i, l := range raw {
		t := strings.TrimLeft(l, " \t")
		if strings.HasPrefix(t, `"\ `) {
			continue
		}
		if strings.HasPrefix(t, `\`) && len(out) > 0 {
			out[len(out)-1].text += t[1:]
			continue
		}
		out = append(out, logicalLine{text: l, line: i + 1})
	}
	return out
}

func (p *parser) errorf(num int, format string, args ...any) *Error {
	return &Error{
		Num:    num,
		Msg:    fmt.Sprintf(format, args...),
		Script: p.name,
		Line:   p.line,
		Col:    p.pos + 1,
	}
}

func (p *parser) errorAt(at ast.Pos, num int, msg string) *Error {
	return &Error{Num: num, Msg: msg, Script: p.name, Line: at.Line, Col: at.Col}
}

// next returns the next statement or marker, or ok false at the end of
// the script.
func (p *parser) next() (any, bool, error) {
	for {
		if p.pos >= len(p.src) {
			if p.li >= len(p.lines) {
				return nil, false, nil
			}
			l := p.lines[p.li]
			p.li++
			p.src, p.pos, p.line = l.text, 0, l.line
		}
		it, err := p.command()
		if err != nil {
			return nil, false, err
		}
		if it != nil {
			return it, true, nil
		}
	}
}

// block reads statements until a marker of one of the stop kinds, which it
// returns. It returns a nil marker at the end of the script.
func (p *parser) block(stop ...string) ([]ast.Stmt, *marker, error) {
	var stmts []ast.Stmt
	for {
		it, ok, err := p.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return stmts, nil, nil
		}
		switch v := it.(type) {
		case *marker:
			for _, s := range stop {
				if v.kind == s {
					return stmts, v, nil
				}
			}
			return nil, nil, p.unmatched(v)
		case ast.Stmt:
			stmts = append(stmts, v)
		}
	}
}

func (p *parser) unmatched(m *marker) error {
	msg := map[string]struct {
		num int
		msg string
	}{
		"elseif":      {582, ":elseif without :if"},
		"else":        {581, ":else without :if"},
		"endif":       {580, ":endif without :if"},
		"endwhile":    {588, ":endwhile without :while"},
		"endfor":      {588, ":endfor without :for"},
		"endfunction": {193, ":endfunction not inside a function"},
		"catch":       {603, ":catch without :try"},
		"finally":     {606, ":finally without :try"},
		"endtry":      {602, ":endtry without :try"},
	}[m.kind]
	return p.errorAt(m.at, msg.num, msg.msg)
}

// endCommand consumes the end of a command: the end of the line, a "|"
// separator or a trailing comment.
func (p *parser) endCommand() error {
	p.skipWhite()
	switch {
	case p.eol():
		return nil
	case p.peek() == '|':
		p.pos++
		return nil
	case p.peek() == '"':
		p.pos = len(p.src)
		return nil
	}
	return p.errorf(488, "Trailing characters: %s", p.src[p.pos:])
}

func (p *parser) atCommandEnd() bool {
	p.skipWhite()
	return p.eol() || p.peek() == '|' || p.peek() == '"'
}

// command parses one command. It returns nil for empty commands and
// comments.
func (p *parser) command() (any, error) {
	for {
		p.skipWhite()
		if !p.accept(":") {
			break
		}
	}
	if p.eol() || p.peek() == '"' {
		p.pos = len(p.src)
		return nil, nil
	}
	if p.peek() == '|' {
		p.pos++
		return nil, nil
	}

	at := p.at()
	rng, err := p.lineRange()
	if err != nil {
		return nil, err
	}
	p.skipWhite()
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	if word == "" {
		if rng != nil && p.atCommandEnd() {
			return &ast.ExCommand{At: at, Range: rng}, p.endCommand()
		}
		return nil, p.errorf(492, "Not an editor command: %s", strings.TrimSpace(p.src[start:]))
	}
	name, known := Expand(word)
	bang := p.accept("!")

	if !known {
		return &ast.ExCommand{At: at, Range: rng, Name: word, Bang: bang, Arg: p.rawArg(false)}, nil
	}

	switch name {
	case "let", "const":
		return p.let(at, name == "const")
	case "unlet":
		return p.unlet(at, bang)
	case "if":
		return p.ifStmt(at)
	case "while":
		return p.while(at)
	case "for":
		return p.forStmt(at)
	case "break":
		return &ast.Break{At: at}, p.endCommand()
	case "continue":
		return &ast.Continue{At: at}, p.endCommand()
	case "function":
		return p.function(at, bang)
	case "delfunction":
		p.skipWhite()
		s := p.pos
		for !p.eol() && p.peek() != ' ' && p.peek() != '\t' && p.peek() != '|' {
			p.pos++
		}
		if s == p.pos {
			return nil, p.errorf(471, "Argument required")
		}
		return &ast.DelFunction{At: at, Name: p.src[s:p.pos], Bang: bang}, p.endCommand()
	case "return":
		r := &ast.Return{At: at}
		if !p.atCommandEnd() {
			v, err := p.expr1()
			if err != nil {
				return nil, err
			}
			r.Value = v
		}
		return r, p.endCommand()
	case "throw":
		v, err := p.expr1()
		if err != nil {
			return nil, err
		}
		return &ast.Throw{At: at, Value: v}, p.endCommand()
	case "try":
		return p.try(at)
	case "call":
		return p.call(at, rng)
	case "echo", "echon", "echomsg", "echoerr":
		args, err := p.exprList()
		if err != nil {
			return nil, err
		}
		return &ast.Echo{At: at, Name: name, Args: args}, nil
	case "execute":
		args, err := p.exprList()
		if err != nil {
			return nil, err
		}
		return &ast.Execute{At: at, Args: args}, nil
	case "eval":
		x, err := p.expr1()
		if err != nil {
			return nil, err
		}
		return &ast.EvalStmt{At: at, X: x}, p.endCommand()
	case "silent":
		it, err := p.command()
		if err != nil {
			return nil, err
		}
		switch v := it.(type) {
		case nil:
			return nil, nil
		case *marker:
			return nil, p.unmatched(v)
		}
		return &ast.Silent{At: at, Bang: bang, Stmt: it.(ast.Stmt)}, nil
	case "elseif":
		cond, err := p.expr1()
		if err != nil {
			return nil, err
		}
		return &marker{kind: name, at: at, cond: cond}, p.endCommand()
	case "catch":
		return &marker{kind: name, at: at, pattern: p.catchPattern()}, p.endCommand()
	case "else", "endif", "endwhile", "endfor", "endfunction", "finally", "endtry":
		return &marker{kind: name, at: at}, p.endCommand()
	}

	arg := p.rawArg(rawArgument[name])
	if name == "set" {
		if i := strings.Index(arg, ` "`); i >= 0 {
			arg = arg[:i]
		}
	}
	return &ast.ExCommand{At: at, Range: rng, Name: name, Bang: bang, Arg: arg}, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// rawArg returns the argument text of a host command. Unless rest is set
// it ends at an unescaped "|"; "\|" and "<C-V>|" stand for a literal bar.
func (p *parser) rawArg(rest bool) string {
	p.skipWhite()
	if rest {
		arg := p.src[p.pos:]
		p.pos = len(p.src)
		return arg
	}
	var b strings.Builder
	for !p.eol() {
		c := p.src[p.pos]
		if (c == '\\' || c == 0x16) && p.peekAt(1) == '|' {
			b.WriteByte('|')
			p.pos += 2
			continue
		}
		p.pos++
		if c == '|' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (p *parser) exprList() ([]ast.Expr, error) {
	var args []ast.Expr
	for {
		p.skipWhite()
		if p.eol() || p.peek() == '|' {
			break
		}
		e, err := p.expr1()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return args, p.endCommand()
}

// lineRange parses an optional range such as "%", "3", ".,$" or "'<,'>".
func (p *parser) lineRange() (*ast.Range, error) {
	p.skipWhite()
	if p.accept("%") {
		return &ast.Range{Whole: true}, nil
	}
	first, ok, err := p.address()
	if err != nil || !ok {
		return nil, err
	}
	r := &ast.Range{Start: first, End: first, Count: 1}
	p.skipWhite()
	if p.accept(",") || p.accept(";") {
		second, ok, err := p.address()
		if err != nil {
			return nil, err
		}
		if !ok {
			second = ast.Address{Kind: ast.AddrCurrent}
		}
		r.End = second
		r.Count = 2
	}
	return r, nil
}

func (p *parser) address() (ast.Address, bool, error) {
	p.skipWhite()
	var a ast.Address
	switch c := p.peek(); {
	case c == '.':
		p.pos++
		a.Kind = ast.AddrCurrent
	case c == '$':
		p.pos++
		a.Kind = ast.AddrLast
	case isDigit(c):
		n := 0
		for isDigit(p.peek()) {
			n = n*10 + int(p.peek()-'0')
			p.pos++
		}
		a.Kind, a.Line = ast.AddrNumber, n
	case c == '\'':
		if p.pos+1 >= len(p.src) {
			return a, false, p.errorf(20, "Mark not set")
		}
		p.pos++
		a.Kind, a.Mark = ast.AddrMark, rune(p.peek())
		p.pos++
	case c == '+' || c == '-':
		a.Kind = ast.AddrOffset
	default:
		return a, false, nil
	}
	for {
		c := p.peek()
		if c != '+' && c != '-' {
			return a, true, nil
		}
		p.pos++
		n := 1
		if isDigit(p.peek()) {
			n = 0
			for isDigit(p.peek()) {
				n = n*10 + int(p.peek()-'0')
				p.pos++
			}
		}
		if c == '-' {
			n = -n
		}
		a.Offset += n
	}
}

var assignOps = []string{"..=", "+=", "-=", "*=", "/=", "%=", ".=", "="}

func (p *parser) let(at ast.Pos, isConst bool) (ast.Stmt, error) {
	s := &ast.Let{At: at, Const: isConst}
	if p.atCommandEnd() {
		return s, p.endCommand()
	}
	if p.accept("[") {
		s.Unpack = true
		for {
			p.skipWhite()
			t, err := p.place()
			if err != nil {
				return nil, err
			}
			s.Targets = append(s.Targets, t)
			p.skipWhite()
			if p.accept(";") {
				p.skipWhite()
				rest, err := p.place()
				if err != nil {
					return nil, err
				}
				s.Rest = rest
				p.skipWhite()
			}
			if p.accept("]") {
				break
			}
			if s.Rest != nil || !p.accept(",") {
				return nil, p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
			}
		}
	} else {
		t, err := p.place()
		if err != nil {
			return nil, err
		}
		s.Targets = []ast.Expr{t}
	}

	p.skipWhite()
	for _, op := range assignOps {
		if p.accept(op) {
			s.Op = op
			break
		}
	}
	if s.Op == "" {
		if s.Unpack || !p.atCommandEnd() {
			return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src[p.pos:])
		}
		return s, p.endCommand()
	}
	v, err := p.expr1()
	if err != nil {
		return nil, err
	}
	s.Value = v
	return s, p.endCommand()
}

// place parses an assignment target: a variable, option, environment
// variable or register, followed by any index, slice or member.
func (p *parser) place() (ast.Expr, error) {
	p.skipWhite()
	switch c := p.peek(); {
	case c == '&' || c == '$' || c == '@':
		return p.expr9()
	case isNameStart(c):
		return p.postfix(p.ident(), false)
	}
	if p.eol() {
		return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src)
	}
	return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src[p.pos:])
}

func (p *parser) unlet(at ast.Pos, bang bool) (ast.Stmt, error) {
	s := &ast.Unlet{At: at, Bang: bang}
	for !p.atCommandEnd() {
		t, err := p.place()
		if err != nil {
			return nil, err
		}
		s.Targets = append(s.Targets, t)
	}
	if len(s.Targets) == 0 {
		return nil, p.errorf(471, "Argument required")
	}
	return s, p.endCommand()
}

func (p *parser) ifStmt(at ast.Pos) (ast.Stmt, error) {
	cond, err := p.expr1()
	if err != nil {
		return nil, err
	}
	if err := p.endCommand(); err != nil {
		return nil, err
	}
	s := &ast.If{At: at}
	clause := ast.IfClause{At: at, Cond: cond}
	seenElse := false
	for {
		body, m, err := p.block("elseif", "else", "endif")
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, p.errorAt(at, 171, "Missing :endif")
		}
		clause.Body = body
		s.Clauses = append(s.Clauses, clause)
		switch m.kind {
		case "endif":
			return s, nil
		case "elseif":
			if seenElse {
				return nil, p.errorAt(m.at, 584, ":elseif after :else")
			}
			clause = ast.IfClause{At: m.at, Cond: m.cond}
		case "else":
			if seenElse {
				return nil, p.errorAt(m.at, 583, "multiple :else")
			}
			seenElse = true
			clause = ast.IfClause{At: m.at}
		}
	}
}

func (p *parser) while(at ast.Pos) (ast.Stmt, error) {
	cond, err := p.expr1()
	if err != nil {
		return nil, err
	}
	if err := p.endCommand(); err != nil {
		return nil, err
	}
	body, m, err := p.block("endwhile")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, p.errorAt(at, 170, "Missing :endwhile")
	}
	return &ast.While{At: at, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt(at ast.Pos) (ast.Stmt, error) {
	s := &ast.For{At: at}
	p.skipWhite()
	if p.accept("[") {
		s.Unpack = true
		for {
			p.skipWhite()
			if !isNameStart(p.peek()) {
				return nil, p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
			}
			s.Names = append(s.Names, p.ident().Name)
			p.skipWhite()
			if p.accept(";") {
				p.skipWhite()
				if !isNameStart(p.peek()) {
					return nil, p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
				}
				s.Rest = p.ident().Name
				p.skipWhite()
			}
			if p.accept("]") {
				break
			}
			if s.Rest != "" || !p.accept(",") {
				return nil, p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
			}
		}
	} else {
		if !isNameStart(p.peek()) {
			return nil, p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
		}
		s.Names = []string{p.ident().Name}
	}
	p.skipWhite()
	if !p.accept("in") || isNameChar(p.peek()) {
		return nil, p.errorf(690, "Missing \"in\" after :for")
	}
	iter, err := p.expr1()
	if err != nil {
		return nil, err
	}
	s.Iter = iter
	if err := p.endCommand(); err != nil {
		return nil, err
	}
	body, m, err := p.block("endfor")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, p.errorAt(at, 170, "Missing :endfor")
	}
	s.Body = body
	return s, nil
}

func (p *parser) function(at ast.Pos, bang bool) (ast.Stmt, error) {
	p.skipWhite()
	start := p.pos
	for !p.eol() {
		c := p.peek()
		if !isNameChar(c) && c != ':' && c != '#' && c != '.' && c != '<' && c != '>' {
			break
		}
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return &ast.ExCommand{At: at, Name: "function", Bang: bang, Arg: p.rawArg(false)}, nil
	}
	f := &ast.Function{At: at, Name: name, Bang: bang, Discard: strings.Count(name, ".") > 1}
	p.skipWhite()
	if !p.accept("(") {
		return nil, p.errorf(124, "Missing '(': %s", name)
	}
	if err := p.params(f); err != nil {
		return nil, err
	}
	for {
		p.skipWhite()
		s := p.pos
		for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
			p.pos++
		}
		switch p.src[s:p.pos] {
		case "":
		case "range":
			f.Range = true
			continue
		case "abort":
			f.Abort = true
			continue
		case "dict":
			f.Dict = true
			continue
		case "closure":
			f.Closure = true
			continue
		default:
			p.pos = s
		}
		break
	}
	if err := p.endCommand(); err != nil {
		return nil, err
	}
	body, m, err := p.block("endfunction")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, p.errorAt(at, 126, "Missing :endfunction")
	}
	f.Body = body
	return f, nil
}

func (p *parser) params(f *ast.Function) error {
	for {
		p.skipWhite()
		if p.accept(")") {
			return nil
		}
		if p.accept("...") {
			f.Varargs = true
			p.skipWhite()
			if !p.accept(")") {
				return p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
			}
			return nil
		}
		if !isNameStart(p.peek()) {
			return p.errorf(125, "Illegal argument: %s", p.src[p.pos:])
		}
		s := p.pos
		for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
			p.pos++
		}
		param := ast.Param{Name: p.src[s:p.pos]}
		if p.peek() == ':' {
			return p.errorf(125, "Illegal argument: %s", p.src[s:])
		}
		p.skipWhite()
		if p.peek() == '=' {
			p.pos++
			def, err := p.expr1()
			if err != nil {
				return err
			}
			param.Default = def
		} else if len(f.Params) > 0 && f.Params[len(f.Params)-1].Default != nil {
			return p.errorf(989, "Non-default argument follows default argument")
		}
		for _, prev := range f.Params {
			if prev.Name == param.Name {
				return p.errorf(853, "Duplicate argument name: %s", param.Name)
			}
		}
		f.Params = append(f.Params, param)
		p.skipWhite()
		if p.accept(")") {
			return nil
		}
		if !p.accept(",") {
			return p.errorf(475, "Invalid argument: %s", p.src[p.pos:])
		}
	}
}

func (p *parser) try(at ast.Pos) (ast.Stmt, error) {
	if err := p.endCommand(); err != nil {
		return nil, err
	}
	s := &ast.Try{At: at}
	body, m, err := p.block("catch", "finally", "endtry")
	if err != nil {
		return nil, err
	}
	s.Body = body
	for {
		if m == nil {
			return nil, p.errorAt(at, 600, "Missing :endtry")
		}
		switch m.kind {
		case "endtry":
			return s, nil
		case "catch":
			if s.HasFinally {
				return nil, p.errorAt(m.at, 604, ":catch after :finally")
			}
			c := ast.Catch{At: m.at, Pattern: m.pattern}
			c.Body, m, err = p.block("catch", "finally", "endtry")
			if err != nil {
				return nil, err
			}
			s.Catches = append(s.Catches, c)
		case "finally":
			if s.HasFinally {
				return nil, p.errorAt(m.at, 607, "multiple :finally")
			}
			s.HasFinally = true
			s.Finally, m, err = p.block("catch", "finally", "endtry")
			if err != nil {
				return nil, err
			}
		}
	}
}

// catchPattern reads /pattern/ after :catch. Any non-name character may
// delimit the pattern.
func (p *parser) catchPattern() string {
	p.skipWhite()
	if p.eol() || p.peek() == '|' || p.peek() == '"' {
		return ""
	}
	delim := p.peek()
	if isNameChar(delim) {
		s := p.pos
		for !p.eol() && p.peek() != ' ' && p.peek() != '\t' && p.peek() != '|' {
			p.pos++
		}
		return p.src[s:p.pos]
	}
	p.pos++
	s := p.pos
	for !p.eol() && p.peek() != delim {
		if p.peek() == '\\' {
			p.pos++
		}
		p.pos++
	}
	pat := p.src[s:min(p.pos, len(p.src))]
	p.accept(string(delim))
	return pat
}

func (p *parser) call(at ast.Pos, rng *ast.Range) (ast.Stmt, error) {
	p.skipWhite()
	x, err := p.expr8()
	if err != nil {
		return nil, err
	}
	switch x.(type) {
	case *ast.Call, *ast.Method:
	default:
		return nil, p.errorAt(at, 129, "Function name required")
	}
	return &ast.CallStmt{At: at, Range: rng, Call: x}, p.endCommand()
}
