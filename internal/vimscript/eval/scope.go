package eval

import (
	"os"
	"strings"

	"github.com/dshills/vimcore/internal/vimscript/ast"
)

// splitScope splits "g:name" into "g" and "name". Names without a scope
// prefix return an empty scope.
func splitScope(name string) (scope, rest string) {
	if len(name) >= 2 && name[1] == ':' && strings.IndexByte("gslavbwt", name[0]) >= 0 {
		return name[:1], name[2:]
	}
	return "", name
}

func (i *Interp) scopeDict(scope string) (*Dict, bool) {
	switch scope {
	case "g":
		return i.globals, true
	case "s":
		return i.script.vars, true
	case "v":
		return i.vvars, true
	case "b":
		return i.bvars, true
	case "w":
		return i.wvars, true
	case "t":
		return i.tvars, true
	case "l":
		if i.frame != nil {
			return i.frame.locals, true
		}
	case "a":
		if i.frame != nil {
			return i.frame.args, true
		}
	}
	return nil, false
}

func (i *Interp) lookupVar(name string) (Value, bool) {
	scope, rest := splitScope(name)
	if rest == "" {
		d, ok := i.scopeDict(scope)
		if !ok {
			return nil, false
		}
		return d, true
	}
	switch scope {
	case "":
		if i.frame == nil {
			return i.globals.Get(rest)
		}
		for f := i.frame; f != nil; f = f.parent {
			if v, ok := f.locals.Get(rest); ok {
				return v, true
			}
		}
		return nil, false
	case "a":
		for f := i.frame; f != nil; f = f.parent {
			if v, ok := f.args.Get(rest); ok {
				return v, true
			}
		}
		return nil, false
	case "l":
		for f := i.frame; f != nil; f = f.parent {
			if v, ok := f.locals.Get(rest); ok {
				return v, true
			}
		}
		return nil, false
	}
	d, ok := i.scopeDict(scope)
	if !ok {
		return nil, false
	}
	return d.Get(rest)
}

// targetDict returns the dictionary a :let of name writes to.
func (i *Interp) targetDict(name string) (*Dict, string, error) {
	scope, rest := splitScope(name)
	if rest == "" || !validName(rest) {
		return nil, "", errorf(461, "Illegal variable name: %s", name)
	}
	switch scope {
	case "a", "v":
		return nil, "", &ReadOnlyVariableError{Name: name}
	case "":
		if i.frame == nil {
			return i.globals, rest, nil
		}
		for f := i.frame; f != nil; f = f.parent {
			if f.locals.Has(rest) {
				return f.locals, rest, nil
			}
		}
		return i.frame.locals, rest, nil
	}
	d, ok := i.scopeDict(scope)
	if !ok {
		return nil, "", errorf(461, "Illegal variable name: %s", name)
	}
	return d, rest, nil
}

func validName(s string) bool {
	for n := 0; n < len(s); n++ {
		c := s[n]
		switch {
		case c == '_' || c == '#' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9' && n > 0:
		default:
			return false
		}
	}
	return s != ""
}

func (i *Interp) setVar(name string, v Value, isConst bool) error {
	d, key, err := i.targetDict(name)
	if err != nil {
		return err
	}
	if d.isLocked(key) {
		return errorf(741, "Value is locked: %s", name)
	}
	if isConst && d.Has(key) {
		return errorf(995, "Cannot modify existing variable: %s", name)
	}
	d.Set(key, v)
	if isConst {
		d.lock(key)
	}
	return nil
}

func (i *Interp) let(s *ast.Let) error {
	if len(s.Targets) == 0 {
		for _, k := range i.globals.Keys() {
			v, _ := i.globals.Get(k)
			i.host.Echo(k + "  " + Display(v))
		}
		return nil
	}
	if s.Op == "" {
		for _, t := range s.Targets {
			v, err := i.eval(t)
			if err != nil {
				return err
			}
			name := ""
			if id, ok := t.(*ast.Ident); ok {
				name = id.Name
			}
			i.host.Echo(name + "  " + Display(v))
		}
		return nil
	}

	v, err := i.eval(s.Value)
	if err != nil {
		return err
	}
	if !s.Unpack {
		return i.assign(s.Targets[0], s.Op, v, s.Const)
	}
	l, ok := v.(*List)
	if !ok {
		return errorf(714, "List required")
	}
	if err := unpackCount(len(s.Targets), len(l.Items), s.Rest != nil); err != nil {
		return err
	}
	items := append([]Value(nil), l.Items...)
	for n, t := range s.Targets {
		if err := i.assign(t, s.Op, items[n], s.Const); err != nil {
			return err
		}
	}
	if s.Rest != nil {
		rest := append([]Value(nil), items[len(s.Targets):]...)
		return i.assign(s.Rest, s.Op, NewList(rest...), s.Const)
	}
	return nil
}

func (i *Interp) assign(target ast.Expr, op string, v Value, isConst bool) error {
	if op != "=" {
		cur, err := i.eval(target)
		if err != nil {
			return err
		}
		if v, err = compound(cur, op, v); err != nil {
			return err
		}
	}

	switch t := target.(type) {
	case *ast.Ident:
		return i.setVar(t.Name, v, isConst)
	case *ast.Option:
		return i.host.SetOption(t.Name, toGoOption(v))
	case *ast.Env:
		s, err := toString(v)
		if err != nil {
			return err
		}
		return os.Setenv(t.Name, s)
	case *ast.Register:
		s, err := toString(v)
		if err != nil {
			return err
		}
		kind := "v"
		if strings.HasSuffix(s, "\n") {
			kind = "V"
		}
		return i.host.SetRegister(t.Name, s, kind)
	case *ast.Index:
		c, err := i.eval(t.X)
		if err != nil {
			return err
		}
		idx, err := i.eval(t.Index)
		if err != nil {
			return err
		}
		return setItem(c, idx, v)
	case *ast.Member:
		c, err := i.eval(t.X)
		if err != nil {
			return err
		}
		return setItem(c, String(t.Name), v)
	case *ast.Slice:
		return i.assignSlice(t, v)
	}
	return errorf(475, "Invalid argument: assignment target")
}

func compound(cur Value, op string, v Value) (Value, error) {
	switch op {
	case "+=":
		if l, ok := cur.(*List); ok {
			add, ok := v.(*List)
			if !ok {
				return nil, errorf(734, "Wrong variable type for +=")
			}
			l.Items = append(l.Items, add.Items...)
			return l, nil
		}
		return arith("+", cur, v)
	case "-=", "*=", "/=", "%=":
		return arith(op[:1], cur, v)
	case ".=", "..=":
		return concat(cur, v)
	}
	return nil, errorf(734, "Wrong variable type for %s", op)
}

func setItem(c, idx, v Value) error {
	switch x := c.(type) {
	case *List:
		n, err := toNumber(idx)
		if err != nil {
			return err
		}
		k, ok := listIndex(len(x.Items), n)
		if !ok {
			return &ListIndexOutOfRangeError{Index: n}
		}
		x.Items[k] = v
		return nil
	case *Dict:
		key, err := toString(idx)
		if err != nil {
			return err
		}
		if x.isLocked(key) {
			return errorf(741, "Value is locked: %s", key)
		}
		x.Set(key, v)
		return nil
	}
	return errorf(689, "Can only index a List, Dictionary or Blob")
}

// listIndex resolves a possibly negative index into a list of n items.
func listIndex(n int, idx int64) (int, bool) {
	if idx < 0 {
		idx += int64(n)
	}
	if idx < 0 || idx >= int64(n) {
		return 0, false
	}
	return int(idx), true
}

func (i *Interp) assignSlice(t *ast.Slice, v Value) error {
	c, err := i.eval(t.X)
	if err != nil {
		return err
	}
	l, ok := c.(*List)
	if !ok {
		return errorf(689, "Can only index a List, Dictionary or Blob")
	}
	src, ok := v.(*List)
	if !ok {
		return errorf(709, "[:] requires a List value")
	}
	lo, err := i.bound(t.Lo, 0, len(l.Items))
	if err != nil {
		return err
	}
	if lo > len(l.Items) {
		return &ListIndexOutOfRangeError{Index: int64(lo)}
	}
	if t.Hi == nil {
		keep := l.Items[:lo]
		l.Items = append(append([]Value(nil), keep...), src.Items...)
		return nil
	}
	hi, err := i.bound(t.Hi, len(l.Items)-1, len(l.Items))
	if err != nil {
		return err
	}
	if hi >= len(l.Items) {
		return &ListIndexOutOfRangeError{Index: int64(hi)}
	}
	want := hi - lo + 1
	switch {
	case len(src.Items) > want:
		return errorf(710, "List value has too many items")
	case len(src.Items) < want:
		return errorf(711, "List value has not enough items")
	}
	copy(l.Items[lo:], src.Items)
	return nil
}

// bound evaluates a slice bound, def when e is nil, wrapping negative
// values by n.
func (i *Interp) bound(e ast.Expr, def, n int) (int, error) {
	if e == nil {
		return def, nil
	}
	v, err := i.eval(e)
	if err != nil {
		return 0, err
	}
	b, err := toNumber(v)
	if err != nil {
		return 0, err
	}
	if b < 0 {
		b += int64(n)
	}
	return int(b), nil
}

func (i *Interp) unlet(s *ast.Unlet) error {
	for _, t := range s.Targets {
		if err := i.unletOne(t, s.Bang); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interp) unletOne(t ast.Expr, bang bool) error {
	switch x := t.(type) {
	case *ast.Ident:
		scope, _ := splitScope(x.Name)
		if scope == "a" || scope == "v" {
			return errorf(795, "Cannot delete variable %s", x.Name)
		}
		d, key, err := i.targetDict(x.Name)
		if err != nil {
			return err
		}
		if d.isLocked(key) {
			return errorf(741, "Value is locked: %s", x.Name)
		}
		if !d.Delete(key) && !bang {
			return errorf(108, "No such variable: \"%s\"", x.Name)
		}
		return nil
	case *ast.Env:
		return os.Unsetenv(x.Name)
	case *ast.Index, *ast.Member:
		var container, key ast.Expr
		if ix, ok := x.(*ast.Index); ok {
			container, key = ix.X, ix.Index
		} else {
			m := x.(*ast.Member)
			container, key = m.X, &ast.String{Value: m.Name}
		}
		c, err := i.eval(container)
		if err != nil {
			return err
		}
		k, err := i.eval(key)
		if err != nil {
			return err
		}
		return removeItem(c, k)
	case *ast.Slice:
		c, err := i.eval(x.X)
		if err != nil {
			return err
		}
		l, ok := c.(*List)
		if !ok {
			return errorf(689, "Can only index a List, Dictionary or Blob")
		}
		lo, err := i.bound(x.Lo, 0, len(l.Items))
		if err != nil {
			return err
		}
		hi, err := i.bound(x.Hi, len(l.Items)-1, len(l.Items))
		if err != nil {
			return err
		}
		if lo < 0 || lo >= len(l.Items) {
			return &ListIndexOutOfRangeError{Index: int64(lo)}
		}
		hi = min(hi, len(l.Items)-1)
		if hi >= lo {
			l.Items = append(l.Items[:lo], l.Items[hi+1:]...)
		}
		return nil
	}
	return errorf(475, "Invalid argument: unlet target")
}

func removeItem(c, k Value) error {
	switch x := c.(type) {
	case *List:
		n, err := toNumber(k)
		if err != nil {
			return err
		}
		idx, ok := listIndex(len(x.Items), n)
		if !ok {
			return &ListIndexOutOfRangeError{Index: n}
		}
		x.Items = append(x.Items[:idx], x.Items[idx+1:]...)
		return nil
	case *Dict:
		key, err := toString(k)
		if err != nil {
			return err
		}
		if !x.Delete(key) {
			return errorf(716, "Key not present in Dictionary: \"%s\"", key)
		}
		return nil
	}
	return errorf(689, "Can only index a List, Dictionary or Blob")
}

// toGoOption converts a value for Host.SetOption.
func toGoOption(v Value) any {
	switch x := v.(type) {
	case Number:
		return int(x)
	case Bool:
		return int(boolNumber(bool(x)))
	case String:
		return string(x)
	}
	s, _ := toString(v)
	return s
}

func fromGoOption(v any) Value {
	switch x := v.(type) {
	case int:
		return Number(x)
	case int64:
		return Number(x)
	case bool:
		return boolNumber(x)
	case string:
		return String(x)
	}
	return String("")
}
