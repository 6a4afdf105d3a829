package eval

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/pattern"
)

func (i *Interp) eval(e ast.Expr) (Value, error) {
	switch x := e.(type) {
	case *ast.Number:
		return Number(x.Value), nil
	case *ast.Float:
		return Float(x.Value), nil
	case *ast.String:
		return String(x.Value), nil
	case *ast.List:
		l := &List{Items: make([]Value, 0, len(x.Items))}
		for _, it := range x.Items {
			v, err := i.eval(it)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, v)
		}
		return l, nil
	case *ast.Dict:
		d := NewDict()
		for _, en := range x.Entries {
			k, err := i.eval(en.Key)
			if err != nil {
				return nil, err
			}
			key, err := toString(k)
			if err != nil {
				return nil, err
			}
			v, err := i.eval(en.Value)
			if err != nil {
				return nil, err
			}
			d.Set(key, v)
		}
		return d, nil
	case *ast.Ident:
		if v, ok := i.lookupVar(x.Name); ok {
			return v, nil
		}
		return nil, errorf(121, "Undefined variable: %s", x.Name)
	case *ast.Option:
		v, err := i.host.Option(x.Name)
		if err != nil {
			return nil, err
		}
		return fromGoOption(v), nil
	case *ast.Env:
		return String(os.Getenv(x.Name)), nil
	case *ast.Register:
		text, _, err := i.host.Register(x.Name)
		if err != nil {
			return nil, err
		}
		return String(text), nil
	case *ast.Unary:
		return i.unary(x)
	case *ast.Binary:
		return i.binary(x)
	case *ast.Ternary:
		ok, err := i.cond(x.Cond)
		if err != nil {
			return nil, err
		}
		if ok {
			return i.eval(x.Then)
		}
		return i.eval(x.Else)
	case *ast.Index:
		return i.index(x)
	case *ast.Slice:
		return i.slice(x)
	case *ast.Member:
		c, err := i.eval(x.X)
		if err != nil {
			return nil, err
		}
		d, ok := c.(*Dict)
		if !ok {
			y, err := i.eval(&ast.Ident{At: x.At, Name: x.Name})
			if err != nil {
				return nil, err
			}
			return concat(c, y)
		}
		v, ok := d.Get(x.Name)
		if !ok {
			return nil, errorf(716, "Key not present in Dictionary: \"%s\"", x.Name)
		}
		return v, nil
	case *ast.Call, *ast.Method:
		return i.callExpr(x, nil)
	case *ast.Lambda:
		i.lambdas++
		fn := &function{
			name:    fmt.Sprintf("<lambda>%d", i.lambdas),
			varargs: x.Varargs,
			lambda:  x.Body,
			script:  i.script,
			parent:  i.frame,
		}
		for _, p := range x.Params {
			fn.params = append(fn.params, ast.Param{Name: p})
		}
		return &Funcref{Name: fn.name, fn: fn}, nil
	}
	return nil, errorf(15, "Invalid expression: %T", e)
}

func (i *Interp) unary(x *ast.Unary) (Value, error) {
	v, err := i.eval(x.X)
	if err != nil {
		return nil, err
	}
	if f, ok := v.(Float); ok {
		switch x.Op {
		case "!":
			return boolNumber(f == 0), nil
		case "-":
			return -f, nil
		}
		return f, nil
	}
	n, err := toNumber(v)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "!":
		return boolNumber(n == 0), nil
	case "-":
		return Number(-n), nil
	}
	return Number(n), nil
}

func (i *Interp) binary(x *ast.Binary) (Value, error) {
	switch x.Op {
	case "||", "&&":
		l, err := i.cond(x.X)
		if err != nil {
			return nil, err
		}
		if l == (x.Op == "||") {
			return boolNumber(l), nil
		}
		r, err := i.cond(x.Y)
		if err != nil {
			return nil, err
		}
		return boolNumber(r), nil
	}

	a, err := i.eval(x.X)
	if err != nil {
		return nil, err
	}
	b, err := i.eval(x.Y)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "+", "-", "*", "/", "%":
		return arith(x.Op, a, b)
	case "..":
		return concat(a, b)
	}
	ok, err := i.compare(x.Op, a, b, i.ignoreCase(x.Case))
	if err != nil {
		return nil, err
	}
	return boolNumber(ok), nil
}

func (i *Interp) ignoreCase(c ast.Case) bool {
	switch c {
	case ast.CaseMatch:
		return false
	case ast.CaseIgnore:
		return true
	}
	v, err := i.host.Option("ignorecase")
	if err != nil {
		return false
	}
	n, _ := v.(int)
	return n != 0
}

func arith(op string, a, b Value) (Value, error) {
	if op == "+" {
		if la, ok := a.(*List); ok {
			lb, ok := b.(*List)
			if !ok {
				return nil, errorf(745, "Using a List as a Number")
			}
			items := make([]Value, 0, len(la.Items)+len(lb.Items))
			items = append(append(items, la.Items...), lb.Items...)
			return NewList(items...), nil
		}
	}
	_, af := a.(Float)
	_, bf := b.(Float)
	if af || bf {
		if op == "%" {
			return nil, errorf(804, "Cannot use '%%' with Float")
		}
		x, err := toFloat(a)
		if err != nil {
			return nil, err
		}
		y, err := toFloat(b)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			return Float(x + y), nil
		case "-":
			return Float(x - y), nil
		case "*":
			return Float(x * y), nil
		}
		return Float(x / y), nil
	}
	x, err := toNumber(a)
	if err != nil {
		return nil, err
	}
	y, err := toNumber(b)
	if err != nil {
		return nil, err
	}
	switch op {
	case "+":
		return Number(x + y), nil
	case "-":
		return Number(x - y), nil
	case "*":
		return Number(x * y), nil
	case "/":
		if y == 0 {
			switch {
			case x > 0:
				return Number(math.MaxInt64), nil
			case x < 0:
				return Number(-math.MaxInt64), nil
			}
			return Number(math.MinInt64), nil
		}
		return Number(x / y), nil
	}
	if y == 0 {
		return Number(0), nil
	}
	return Number(x % y), nil
}

func concat(a, b Value) (Value, error) {
	x, err := toString(a)
	if err != nil {
		return nil, err
	}
	y, err := toString(b)
	if err != nil {
		return nil, err
	}
	return String(x + y), nil
}

func (i *Interp) compare(op string, a, b Value, ic bool) (bool, error) {
	if op == "is" || op == "isnot" {
		same := identical(a, b, ic)
		return same == (op == "is"), nil
	}
	switch a.(type) {
	case *List:
		if _, ok := b.(*List); !ok {
			return false, errorf(691, "Can only compare List with List")
		}
		return eqOnly(op, equal(a, b, ic), 692, "Invalid operation for List")
	case *Dict:
		if _, ok := b.(*Dict); !ok {
			return false, errorf(735, "Can only compare Dictionary with Dictionary")
		}
		return eqOnly(op, equal(a, b, ic), 736, "Invalid operation for Dictionary")
	case *Funcref:
		if _, ok := b.(*Funcref); !ok {
			return false, errorf(693, "Can only compare Funcref with Funcref")
		}
		return eqOnly(op, equal(a, b, ic), 694, "Invalid operation for Funcrefs")
	}
	switch b.(type) {
	case *List:
		return false, errorf(691, "Can only compare List with List")
	case *Dict:
		return false, errorf(735, "Can only compare Dictionary with Dictionary")
	case *Funcref:
		return false, errorf(693, "Can only compare Funcref with Funcref")
	}

	if op == "=~" || op == "!~" {
		s, err := toString(a)
		if err != nil {
			return false, err
		}
		pat, err := toString(b)
		if err != nil {
			return false, err
		}
		p, err := i.compile(pat, ic)
		if err != nil {
			return false, err
		}
		return p.Match(s) == (op == "=~"), nil
	}

	_, af := a.(Float)
	_, bf := b.(Float)
	if af || bf {
		x, err := toFloat(a)
		if err != nil {
			return false, err
		}
		y, err := toFloat(b)
		if err != nil {
			return false, err
		}
		return ordered(op, cmpFloat(x, y)), nil
	}

	sa, aStr := a.(String)
	sb, bStr := b.(String)
	if aStr && bStr {
		x, y := string(sa), string(sb)
		if ic {
			x, y = strings.ToLower(x), strings.ToLower(y)
		}
		return ordered(op, strings.Compare(x, y)), nil
	}
	x, err := toNumber(a)
	if err != nil {
		return false, err
	}
	y, err := toNumber(b)
	if err != nil {
		return false, err
	}
	switch {
	case x < y:
		return ordered(op, -1), nil
	case x > y:
		return ordered(op, 1), nil
	}
	return ordered(op, 0), nil
}

func eqOnly(op string, eq bool, num int, msg string) (bool, error) {
	switch op {
	case "==":
		return eq, nil
	case "!=":
		return !eq, nil
	}
	return false, errorf(num, "%s", msg)
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func ordered(op string, c int) bool {
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// identical is "is": the same List, Dict or Funcref, or equal values of
// the same type.
func identical(a, b Value, ic bool) bool {
	switch x := a.(type) {
	case *List:
		y, ok := b.(*List)
		return ok && x == y
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x == y
	case *Funcref:
		y, ok := b.(*Funcref)
		return ok && (x == y || equal(x, y, ic))
	}
	return a.Kind() == b.Kind() && equal(a, b, ic)
}

func (i *Interp) compile(pat string, ic bool) (*pattern.Pattern, error) {
	return pattern.Compile(pat, pattern.Options{IgnoreCase: ic})
}

func (i *Interp) index(x *ast.Index) (Value, error) {
	c, err := i.eval(x.X)
	if err != nil {
		return nil, err
	}
	idx, err := i.eval(x.Index)
	if err != nil {
		return nil, err
	}
	return indexValue(c, idx)
}

func indexValue(c, idx Value) (Value, error) {
	switch v := c.(type) {
	case *List:
		n, err := toNumber(idx)
		if err != nil {
			return nil, err
		}
		k, ok := listIndex(len(v.Items), n)
		if !ok {
			return nil, &ListIndexOutOfRangeError{Index: n}
		}
		return v.Items[k], nil
	case *Dict:
		key, err := toString(idx)
		if err != nil {
			return nil, err
		}
		val, ok := v.Get(key)
		if !ok {
			return nil, errorf(716, "Key not present in Dictionary: \"%s\"", key)
		}
		return val, nil
	case String, Number:
		s, _ := toString(v)
		n, err := toNumber(idx)
		if err != nil {
			return nil, err
		}
		if n < 0 || n >= int64(len(s)) {
			return String(""), nil
		}
		return String(s[n : n+1]), nil
	case *Funcref:
		return nil, errorf(695, "Cannot index a Funcref")
	case Float:
		return nil, errorf(806, "Using a Float as a String")
	}
	return nil, errorf(909, "Cannot index a special variable")
}

func (i *Interp) slice(x *ast.Slice) (Value, error) {
	c, err := i.eval(x.X)
	if err != nil {
		return nil, err
	}
	var n int
	switch v := c.(type) {
	case *List:
		n = len(v.Items)
	case String:
		n = len(v)
	case Number:
		c = String(fmt.Sprint(int64(v)))
		n = len(c.(String))
	case *Dict:
		return nil, errorf(719, "Cannot slice a Dictionary")
	default:
		return nil, errorf(909, "Cannot index a special variable")
	}
	lo, err := i.bound(x.Lo, 0, n)
	if err != nil {
		return nil, err
	}
	hi, err := i.bound(x.Hi, n-1, n)
	if err != nil {
		return nil, err
	}
	lo = max(lo, 0)
	hi = min(hi, n-1)
	if l, ok := c.(*List); ok {
		if lo > hi {
			return NewList(), nil
		}
		return NewList(append([]Value(nil), l.Items[lo:hi+1]...)...), nil
	}
	s := string(c.(String))
	if lo > hi {
		return String(""), nil
	}
	return String(s[lo : hi+1]), nil
}
