package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/vimscript/ast"
)

// ParseExpr parses a complete expression, as eval(), <expr> mappings and
// :execute need.
func ParseExpr(src string) (ast.Expr, error) {
	p := &parser{src: src, line: 1}
	e, err := p.expr1()
	if err != nil {
		return nil, err
	}
	p.skipWhite()
	if !p.eol() {
		return nil, p.errorf(488, "Trailing characters: %s", p.src[p.pos:])
	}
	return e, nil
}

func (p *parser) at() ast.Pos {
	return ast.Pos{Line: p.line, Col: p.pos + 1}
}

func (p *parser) eol() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n < len(p.src) {
		return p.src[p.pos+n]
	}
	return 0
}

func (p *parser) skipWhite() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) accept(s string) bool {
	if p.hasPrefix(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) expect(s string) error {
	p.skipWhite()
	if !p.accept(s) {
		if p.eol() {
			return p.errorf(15, "Invalid expression: \"%s\"", p.src)
		}
		return p.errorf(15, "Invalid expression: \"%s\"", p.src[p.pos:])
	}
	return nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// expr1: ternary.
func (p *parser) expr1() (ast.Expr, error) {
	p.skipWhite()
	at := p.at()
	cond, err := p.expr2()
	if err != nil {
		return nil, err
	}
	p.skipWhite()
	if p.peek() != '?' {
		return cond, nil
	}
	p.pos++
	then, err := p.expr1()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.expr1()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{At: at, Cond: cond, Then: then, Else: els}, nil
}

// expr2: ||.
func (p *parser) expr2() (ast.Expr, error) {
	x, err := p.expr3()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhite()
		at := p.at()
		if !p.accept("||") {
			return x, nil
		}
		y, err := p.expr3()
		if err != nil {
			return nil, err
		}
		x = &ast.Binary{At: at, Op: "||", X: x, Y: y}
	}
}

// expr3: &&.
func (p *parser) expr3() (ast.Expr, error) {
	x, err := p.expr4()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhite()
		at := p.at()
		if !p.accept("&&") {
			return x, nil
		}
		y, err := p.expr4()
		if err != nil {
			return nil, err
		}
		x = &ast.Binary{At: at, Op: "&&", X: x, Y: y}
	}
}

var comparisons = []string{"==", "!=", ">=", "<=", "=~", "!~", ">", "<", "isnot", "is"}

// expr4: comparisons, which do not chain.
func (p *parser) expr4() (ast.Expr, error) {
	x, err := p.expr5()
	if err != nil {
		return nil, err
	}
	p.skipWhite()
	at := p.at()
	op := ""
	for _, c := range comparisons {
		if !p.hasPrefix(c) {
			continue
		}
		if (c == "is" || c == "isnot") && isNameChar(p.peekAt(len(c))) {
			continue
		}
		op = c
		break
	}
	if op == "" {
		return x, nil
	}
	p.pos += len(op)
	cs := ast.CaseDefault
	switch p.peek() {
	case '#':
		cs = ast.CaseMatch
		p.pos++
	case '?':
		cs = ast.CaseIgnore
		p.pos++
	}
	y, err := p.expr5()
	if err != nil {
		return nil, err
	}
	return &ast.Binary{At: at, Op: op, X: x, Y: y, Case: cs}, nil
}

// expr5: + - . ..
func (p *parser) expr5() (ast.Expr, error) {
	x, err := p.expr6()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhite()
		at := p.at()
		var op string
		switch {
		case p.hasPrefix("..") && !p.hasPrefix("..."):
			op = ".."
		case p.peek() == '.' && p.peekAt(1) != '=':
			op = "."
		case p.peek() == '+' && p.peekAt(1) != '=':
			op = "+"
		case p.peek() == '-' && p.peekAt(1) != '=' && p.peekAt(1) != '>':
			op = "-"
		default:
			return x, nil
		}
		if op == ".." && p.peekAt(2) == '=' {
			return x, nil
		}
		p.pos += len(op)
		y, err := p.expr6()
		if err != nil {
			return nil, err
		}
		if op == "." {
			op = ".."
		}
		x = &ast.Binary{At: at, Op: op, X: x, Y: y}
	}
}

// expr6: * / %.
func (p *parser) expr6() (ast.Expr, error) {
	x, err := p.expr7()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhite()
		at := p.at()
		c := p.peek()
		if (c != '*' && c != '/' && c != '%') || p.peekAt(1) == '=' {
			return x, nil
		}
		p.pos++
		y, err := p.expr7()
		if err != nil {
			return nil, err
		}
		x = &ast.Binary{At: at, Op: string(c), X: x, Y: y}
	}
}

// expr7: unary ! - +.
func (p *parser) expr7() (ast.Expr, error) {
	p.skipWhite()
	at := p.at()
	switch c := p.peek(); c {
	case '!', '-', '+':
		p.pos++
		x, err := p.expr7()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{At: at, Op: string(c), X: x}, nil
	}
	return p.expr8()
}

// expr8: postfix index, slice, call, member and method.
func (p *parser) expr8() (ast.Expr, error) {
	x, err := p.expr9()
	if err != nil {
		return nil, err
	}
	return p.postfix(x, true)
}

func (p *parser) postfix(x ast.Expr, calls bool) (ast.Expr, error) {
	for {
		at := p.at()
		switch c := p.peek(); {
		case c == '[':
			p.pos++
			next, err := p.subscript(at, x)
			if err != nil {
				return nil, err
			}
			x = next
		case c == '(' && calls:
			p.pos++
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			x = &ast.Call{At: at, Fn: x, Args: args}
		case c == '.' && isNameChar(p.peekAt(1)) && memberReceiver(x):
			p.pos++
			start := p.pos
			for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
				p.pos++
			}
			x = &ast.Member{At: at, X: x, Name: p.src[start:p.pos]}
		default:
			if !calls {
				return x, nil
			}
			save := p.pos
			p.skipWhite()
			if !p.accept("->") {
				p.pos = save
				return x, nil
			}
			next, err := p.method(at, x)
			if err != nil {
				return nil, err
			}
			x = next
		}
	}
}

// memberReceiver reports whether ".name" after x can be a dictionary
// member rather than concatenation.
func memberReceiver(x ast.Expr) bool {
	switch x.(type) {
	case *ast.Number, *ast.Float, *ast.String, *ast.List:
		return false
	}
	return true
}

func (p *parser) subscript(at ast.Pos, x ast.Expr) (ast.Expr, error) {
	p.skipWhite()
	var lo ast.Expr
	if p.peek() != ':' {
		e, err := p.expr1()
		if err != nil {
			return nil, err
		}
		lo = e
		p.skipWhite()
	}
	if p.peek() == ']' && lo != nil {
		p.pos++
		return &ast.Index{At: at, X: x, Index: lo}, nil
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	p.skipWhite()
	var hi ast.Expr
	if p.peek() != ']' {
		e, err := p.expr1()
		if err != nil {
			return nil, err
		}
		hi = e
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	return &ast.Slice{At: at, X: x, Lo: lo, Hi: hi}, nil
}

func (p *parser) arguments() ([]ast.Expr, error) {
	var args []ast.Expr
	p.skipWhite()
	if p.accept(")") {
		return args, nil
	}
	for {
		e, err := p.expr1()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		p.skipWhite()
		if p.accept(")") {
			return args, nil
		}
		if !p.accept(",") {
			return nil, p.errorf(116, "Invalid arguments for function %s", p.src)
		}
		p.skipWhite()
		if p.accept(")") {
			return args, nil
		}
	}
}

func (p *parser) method(at ast.Pos, recv ast.Expr) (ast.Expr, error) {
	p.skipWhite()
	var fn ast.Expr
	switch {
	case p.peek() == '{':
		l, err := p.lambda()
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src[p.pos:])
		}
		fn = l
	case isNameStart(p.peek()):
		fn = p.ident()
	default:
		return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src[p.pos:])
	}
	if !p.accept("(") {
		return nil, p.errorf(107, "Missing parentheses: %s", p.src)
	}
	args, err := p.arguments()
	if err != nil {
		return nil, err
	}
	return &ast.Method{At: at, Recv: recv, Fn: fn, Args: args}, nil
}

// expr9: atoms.
func (p *parser) expr9() (ast.Expr, error) {
	p.skipWhite()
	at := p.at()
	c := p.peek()
	switch {
	case isDigit(c):
		return p.number()
	case c == '"':
		s, err := p.doubleQuoted()
		if err != nil {
			return nil, err
		}
		return &ast.String{At: at, Value: s}, nil
	case c == '\'':
		s, err := p.singleQuoted()
		if err != nil {
			return nil, err
		}
		return &ast.String{At: at, Value: s}, nil
	case c == '[':
		p.pos++
		return p.list(at)
	case c == '#' && p.peekAt(1) == '{':
		p.pos += 2
		return p.dict(at, true)
	case c == '{':
		l, err := p.lambda()
		if err != nil {
			return nil, err
		}
		if l != nil {
			return l, nil
		}
		p.pos++
		return p.dict(at, false)
	case c == '&':
		p.pos++
		scope := ""
		if (p.hasPrefix("l:") || p.hasPrefix("g:")) && isNameStart(p.peekAt(2)) {
			scope = p.src[p.pos : p.pos+1]
			p.pos += 2
		}
		start := p.pos
		for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
			p.pos++
		}
		if start == p.pos {
			return nil, p.errorf(112, "Option name missing: &")
		}
		return &ast.Option{At: at, Name: p.src[start:p.pos], Scope: scope}, nil
	case c == '$':
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
			p.pos++
		}
		if start == p.pos {
			return nil, p.errorf(15, "Invalid expression: \"$\"")
		}
		return &ast.Env{At: at, Name: p.src[start:p.pos]}, nil
	case c == '@':
		p.pos++
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if n == 0 {
			r = '"'
		}
		p.pos += n
		return &ast.Register{At: at, Name: r}, nil
	case c == '(':
		p.pos++
		e, err := p.expr1()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	case isNameStart(c):
		return p.ident(), nil
	}
	if p.eol() {
		return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src)
	}
	return nil, p.errorf(15, "Invalid expression: \"%s\"", p.src[p.pos:])
}

// ident reads a name with its optional scope prefix. Autoload names keep
// their "#" separators; a scope prefix alone ("g:") names the scope
// dictionary.
func (p *parser) ident() *ast.Ident {
	at := p.at()
	start := p.pos
	if p.peekAt(1) == ':' && strings.IndexByte("gslavbwt", p.peek()) >= 0 {
		p.pos += 2
	}
	for p.pos < len(p.src) && (isNameChar(p.src[p.pos]) || p.src[p.pos] == '#') {
		p.pos++
	}
	return &ast.Ident{At: at, Name: p.src[start:p.pos]}
}

func (p *parser) number() (ast.Expr, error) {
	at := p.at()
	start := p.pos
	s := p.src
	base := 10
	switch {
	case p.hasPrefix("0x") || p.hasPrefix("0X"):
		base = 16
		p.pos += 2
	case p.hasPrefix("0b") || p.hasPrefix("0B"):
		base = 2
		p.pos += 2
	case p.hasPrefix("0o") || p.hasPrefix("0O"):
		base = 8
		p.pos += 2
	}
	digits := p.pos
	for p.pos < len(s) && isDigitIn(s[p.pos], base) {
		p.pos++
	}
	if base != 10 {
		return p.integer(at, s[digits:p.pos], base)
	}

	// A float needs digits on both sides of the dot.
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		p.pos++
		for p.pos < len(s) && isDigit(s[p.pos]) {
			p.pos++
		}
		if c := p.peek(); c == 'e' || c == 'E' {
			save := p.pos
			p.pos++
			if c := p.peek(); c == '+' || c == '-' {
				p.pos++
			}
			if !isDigit(p.peek()) {
				p.pos = save
			}
			for p.pos < len(s) && isDigit(s[p.pos]) {
				p.pos++
			}
		}
		f, err := strconv.ParseFloat(s[start:p.pos], 64)
		if err != nil {
			return nil, p.errorf(15, "Invalid expression: \"%s\"", s[start:p.pos])
		}
		return &ast.Float{At: at, Value: f}, nil
	}

	text := s[start:p.pos]
	if len(text) > 1 && text[0] == '0' && allOctal(text) {
		return p.integer(at, text[1:], 8)
	}
	return p.integer(at, text, 10)
}

func (p *parser) integer(at ast.Pos, digits string, base int) (ast.Expr, error) {
	if digits == "" {
		return &ast.Number{At: at}, nil
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		// Vim saturates on overflow.
		n = math.MaxInt64
	}
	return &ast.Number{At: at, Value: n}, nil
}

func allOctal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

func isDigitIn(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return isDigit(c)
}

func (p *parser) singleQuoted() (string, error) {
	p.pos++
	var b strings.Builder
	for {
		if p.eol() {
			return "", p.errorf(115, "Missing quote: '%s", b.String())
		}
		c := p.src[p.pos]
		p.pos++
		if c == '\'' {
			if p.peek() == '\'' {
				b.WriteByte('\'')
				p.pos++
				continue
			}
			return b.String(), nil
		}
		b.WriteByte(c)
	}
}

func (p *parser) doubleQuoted() (string, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for {
		if p.eol() {
			return "", p.errorf(114, "Missing quote: %s", p.src[start:])
		}
		c := p.src[p.pos]
		p.pos++
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	if p.eol() {
		b.WriteByte('\\')
		return nil
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'e':
		b.WriteByte(0x1b)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'x', 'X', 'u', 'U':
		width := 2
		switch c {
		case 'u':
			width = 4
		case 'U':
			width = 8
		}
		n := 0
		for n < width && isDigitIn(p.peekAt(n), 16) {
			n++
		}
		if n == 0 {
			b.WriteByte(c)
			return nil
		}
		v, _ := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
		p.pos += n
		if c == 'x' || c == 'X' {
			b.WriteByte(byte(v))
		} else {
			b.WriteRune(rune(v))
		}
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 1
		for n < 3 && isDigitIn(p.peekAt(n-1), 8) {
			n++
		}
		v, _ := strconv.ParseUint(p.src[p.pos-1:p.pos+n-1], 8, 16)
		p.pos += n - 1
		b.WriteByte(byte(v))
	case '<':
		end := strings.IndexByte(p.src[p.pos:], '>')
		if end < 0 {
			b.WriteByte('<')
			return nil
		}
		notation := "<" + p.src[p.pos:p.pos+end+1]
		seq, err := key.Parse(notation)
		if err != nil || len(seq) > 1 {
			b.WriteByte('<')
			return nil
		}
		b.WriteString(key.Encode(seq))
		p.pos += end + 1
	default:
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) list(at ast.Pos) (ast.Expr, error) {
	l := &ast.List{At: at}
	for {
		p.skipWhite()
		if p.accept("]") {
			return l, nil
		}
		e, err := p.expr1()
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, e)
		p.skipWhite()
		if p.accept("]") {
			return l, nil
		}
		if p.eol() {
			return nil, p.errorf(697, "Missing end of List ']': %s", p.src)
		}
		if !p.accept(",") {
			return nil, p.errorf(696, "Missing comma in List: %s", p.src[p.pos:])
		}
	}
}

func (p *parser) dict(at ast.Pos, literal bool) (ast.Expr, error) {
	d := &ast.Dict{At: at}
	for {
		p.skipWhite()
		if p.accept("}") {
			return d, nil
		}
		var k ast.Expr
		if literal {
			kat := p.at()
			start := p.pos
			for p.pos < len(p.src) && (isNameChar(p.src[p.pos]) || p.src[p.pos] == '-') {
				p.pos++
			}
			if start == p.pos {
				return nil, p.errorf(720, "Missing colon in Dictionary: %s", p.src[p.pos:])
			}
			k = &ast.String{At: kat, Value: p.src[start:p.pos]}
		} else {
			e, err := p.expr1()
			if err != nil {
				return nil, err
			}
			k = e
		}
		p.skipWhite()
		if !p.accept(":") {
			return nil, p.errorf(720, "Missing colon in Dictionary: %s", p.src[p.pos:])
		}
		v, err := p.expr1()
		if err != nil {
			return nil, err
		}
		d.Entries = append(d.Entries, ast.DictEntry{Key: k, Value: v})
		p.skipWhite()
		if p.accept("}") {
			return d, nil
		}
		if !p.accept(",") {
			return nil, p.errorf(722, "Missing comma in Dictionary: %s", p.src[p.pos:])
		}
	}
}

// lambda parses {args -> expr} when the text at the cursor is one. It
// returns nil without consuming anything otherwise.
func (p *parser) lambda() (*ast.Lambda, error) {
	at := p.at()
	save := p.pos
	p.pos++
	var params []string
	varargs := false
	for {
		p.skipWhite()
		if p.accept("...") {
			varargs = true
			p.skipWhite()
			break
		}
		if !isNameStart(p.peek()) {
			break
		}
		start := p.pos
		for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
			p.pos++
		}
		params = append(params, p.src[start:p.pos])
		p.skipWhite()
		if !p.accept(",") {
			break
		}
	}
	if !p.accept("->") {
		p.pos = save
		return nil, nil
	}
	body, err := p.expr1()
	if err != nil {
		return nil, err
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return &ast.Lambda{At: at, Params: params, Varargs: varargs, Body: body}, nil
}
