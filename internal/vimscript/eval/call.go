package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/vimscript/ast"
)

// lineRange is the 1-based line range a function is called with.
type lineRange struct {
	first, last int
}

func (i *Interp) callExpr(e ast.Expr, rng *lineRange) (Value, error) {
	var fnExpr ast.Expr
	var argExprs []ast.Expr
	var args []Value
	switch c := e.(type) {
	case *ast.Call:
		fnExpr, argExprs = c.Fn, c.Args
	case *ast.Method:
		recv, err := i.eval(c.Recv)
		if err != nil {
			return nil, err
		}
		fnExpr, argExprs = c.Fn, c.Args
		args = append(args, recv)
	default:
		return nil, errorf(129, "Function name required")
	}
	for _, a := range argExprs {
		v, err := i.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch f := fnExpr.(type) {
	case *ast.Ident:
		return i.callName(f.Name, args, nil, rng)
	case *ast.Member:
		c, err := i.eval(f.X)
		if err != nil {
			return nil, err
		}
		d, ok := c.(*Dict)
		if !ok {
			return nil, errorf(715, "Dictionary required")
		}
		v, ok := d.Get(f.Name)
		if !ok {
			return nil, errorf(716, "Key not present in Dictionary: \"%s\"", f.Name)
		}
		return i.callValue(v, args, d, rng)
	case *ast.Index:
		c, err := i.eval(f.X)
		if err != nil {
			return nil, err
		}
		idx, err := i.eval(f.Index)
		if err != nil {
			return nil, err
		}
		v, err := indexValue(c, idx)
		if err != nil {
			return nil, err
		}
		d, _ := c.(*Dict)
		return i.callValue(v, args, d, rng)
	}
	v, err := i.eval(fnExpr)
	if err != nil {
		return nil, err
	}
	return i.callValue(v, args, nil, rng)
}

// callValue calls a Funcref or a function named by a String.
func (i *Interp) callValue(v Value, args []Value, self *Dict, rng *lineRange) (Value, error) {
	switch f := v.(type) {
	case *Funcref:
		return i.callFuncref(f, args, self, rng)
	case String:
		return i.callName(string(f), args, self, rng)
	}
	return nil, errorf(1085, "Not a callable type: %s", Format(v))
}

func (i *Interp) callName(name string, args []Value, self *Dict, rng *lineRange) (Value, error) {
	if b, ok := builtins[name]; ok {
		return i.callBuiltin(name, b, args)
	}
	if fn, ok := i.findFunction(name); ok {
		return i.callUser(fn, displayName(name), args, self, rng)
	}
	if v, ok := i.lookupVar(name); ok {
		if f, ok := v.(*Funcref); ok {
			return i.callFuncref(f, args, self, rng)
		}
	}
	return nil, &UnknownFunctionError{Name: name}
}

func (i *Interp) callFuncref(f *Funcref, args []Value, self *Dict, rng *lineRange) (Value, error) {
	all := args
	if len(f.Args) > 0 {
		all = append(append([]Value(nil), f.Args...), args...)
	}
	if f.Self != nil {
		self = f.Self
	}
	if f.fn != nil {
		if f.fn.deleted {
			return nil, &DeletedFunctionError{Name: displayName(f.Name)}
		}
		return i.callUser(f.fn, displayName(f.Name), all, self, rng)
	}
	if b, ok := builtins[f.Name]; ok {
		return i.callBuiltin(f.Name, b, all)
	}
	if fn, ok := i.funcs[f.Name]; ok {
		return i.callUser(fn, displayName(f.Name), all, self, rng)
	}
	return nil, &UnknownFunctionError{Name: displayName(f.Name)}
}

func (i *Interp) callBuiltin(name string, b builtin, args []Value) (Value, error) {
	if len(args) < b.min {
		return nil, &ArgumentCountError{Name: name}
	}
	if b.max >= 0 && len(args) > b.max {
		return nil, &ArgumentCountError{Name: name, TooMany: true}
	}
	return b.fn(i, args)
}

// callUser checks the arguments and runs fn. Without the "range" flag a
// call with a range runs once per line with the cursor on that line.
func (i *Interp) callUser(fn *function, name string, args []Value, self *Dict, rng *lineRange) (Value, error) {
	required := 0
	for _, p := range fn.params {
		if p.Default == nil {
			required++
		}
	}
	if !fn.varargs && len(args) > len(fn.params) {
		return nil, &ArgumentCountError{Name: name, TooMany: true}
	}
	if len(args) < required {
		return nil, &ArgumentCountError{Name: name}
	}
	if fn.dict && self == nil {
		return nil, &DictFunctionWithoutReceiverError{Name: name}
	}

	if rng == nil {
		cur := i.currentLine()
		return i.invoke(fn, args, self, lineRange{cur, cur})
	}
	if fn.rng || fn.lambda != nil {
		return i.invoke(fn, args, self, *rng)
	}
	var ret Value = Number(0)
	for ln := rng.first; ln <= rng.last; ln++ {
		i.moveToLine(ln)
		v, err := i.invoke(fn, args, self, *rng)
		if err != nil {
			return nil, err
		}
		ret = v
	}
	return ret, nil
}

func (i *Interp) invoke(fn *function, args []Value, self *Dict, rng lineRange) (Value, error) {
	if i.depth >= i.maxDepth {
		return nil, errorf(132, "Function call depth is higher than 'maxfuncdepth'")
	}
	i.depth++
	defer func() { i.depth-- }()

	f := &frame{fn: fn, locals: NewDict(), args: NewDict(), parent: fn.parent}
	prevFrame, prevScript, prevLoops := i.frame, i.script, i.loops
	i.frame, i.script, i.loops = f, fn.script, 0
	defer func() { i.frame, i.script, i.loops = prevFrame, prevScript, prevLoops }()

	for n, p := range fn.params {
		var v Value
		if n < len(args) {
			v = args[n]
		} else {
			dv, err := i.eval(p.Default)
			if err != nil {
				return nil, err
			}
			v = dv
		}
		f.args.Set(p.Name, v)
		if fn.lambda != nil {
			f.locals.Set(p.Name, v)
		}
	}
	if fn.varargs {
		var extra []Value
		if len(args) > len(fn.params) {
			extra = append(extra, args[len(fn.params):]...)
		}
		f.args.Set("0", Number(len(extra)))
		f.args.Set("000", NewList(extra...))
		for n, v := range extra {
			f.args.Set(strconv.Itoa(n+1), v)
		}
	}
	f.args.Set("firstline", Number(rng.first))
	f.args.Set("lastline", Number(rng.last))
	if self != nil {
		f.locals.Set("self", self)
	}

	if fn.lambda != nil {
		return i.eval(fn.lambda)
	}
	fl, err := i.execBlock(fn.body)
	if err != nil {
		return nil, err
	}
	if fl == flowReturn && f.ret != nil {
		return f.ret, nil
	}
	return Number(0), nil
}

func (i *Interp) currentLine() int {
	ed := i.host.Buffer()
	if ed == nil {
		return 1
	}
	return ed.OffsetToPoint(ed.PrimaryCaret().Offset()).Line + 1
}

func (i *Interp) moveToLine(ln int) {
	ed := i.host.Buffer()
	if ed == nil || ln < 1 || ln > ed.LineCount() {
		return
	}
	engine.MoveCaret(ed.PrimaryCaret(), ed.LineStartOffset(ln-1))
}

func (i *Interp) callStmt(s *ast.CallStmt) error {
	var rng *lineRange
	if s.Range != nil {
		first, last, err := ResolveRange(i.host.Buffer(), s.Range)
		if err != nil {
			return err
		}
		rng = &lineRange{first, last}
	}
	_, err := i.callExpr(s.Call, rng)
	return err
}

// ResolveRange returns the 1-based first and last lines r names in ed.
func ResolveRange(ed engine.Editor, r *ast.Range) (int, int, error) {
	if ed == nil {
		return 1, 1, nil
	}
	if r.Whole {
		return 1, ed.LineCount(), nil
	}
	first, err := resolveAddress(ed, r.Start)
	if err != nil {
		return 0, 0, err
	}
	last, err := resolveAddress(ed, r.End)
	if err != nil {
		return 0, 0, err
	}
	if first > last {
		first, last = last, first
	}
	if first < 0 || last > ed.LineCount() {
		return 0, 0, errorf(16, "Invalid range")
	}
	return first, last, nil
}

func resolveAddress(ed engine.Editor, a ast.Address) (int, error) {
	cur := ed.OffsetToPoint(ed.PrimaryCaret().Offset()).Line + 1
	var ln int
	switch a.Kind {
	case ast.AddrNumber:
		ln = a.Line
	case ast.AddrCurrent, ast.AddrOffset:
		ln = cur
	case ast.AddrLast:
		ln = ed.LineCount()
	case ast.AddrMark:
		p, ok := ed.Mark(a.Mark)
		if !ok {
			return 0, errorf(20, "Mark not set")
		}
		ln = p.Line + 1
	}
	return ln + a.Offset, nil
}

// displayName is the name errors show for a function.
func displayName(name string) string {
	if rest, ok := strings.CutPrefix(name, "g:"); ok {
		return rest
	}
	return name
}

// qualify returns the function table key for name as written in the
// current script.
func (i *Interp) qualify(name string) string {
	switch {
	case strings.HasPrefix(name, "s:"):
		return fmt.Sprintf("<SNR>%d_%s", i.script.id, name[2:])
	case strings.HasPrefix(name, "<SID>"):
		return fmt.Sprintf("<SNR>%d_%s", i.script.id, name[5:])
	case strings.HasPrefix(name, "g:"):
		return name[2:]
	}
	return name
}

func (i *Interp) findFunction(name string) (*function, bool) {
	fn, ok := i.funcs[i.qualify(name)]
	return fn, ok
}

func (i *Interp) define(s *ast.Function) error {
	if s.Discard {
		i.log.Debug("ignoring function declared on a dictionary path", "name", s.Name)
		return nil
	}
	if base, key, ok := strings.Cut(s.Name, "."); ok {
		return i.defineDictFunction(s, base, key)
	}

	name := i.qualify(s.Name)
	if !strings.HasPrefix(name, "<SNR>") && !strings.Contains(name, "#") {
		if name == "" || name[0] < 'A' || name[0] > 'Z' {
			return errorf(128, "Function name must start with a capital or \"s:\": %s", s.Name)
		}
	}
	if _, exists := i.funcs[name]; exists && !s.Bang {
		return errorf(122, "Function %s already exists, add ! to replace it", displayName(s.Name))
	}
	fn, err := i.newFunction(s, name)
	if err != nil {
		return err
	}
	i.funcs[name] = fn
	return nil
}

// defineDictFunction handles "function dict.Name()": an anonymous dict
// function stored in the dictionary.
func (i *Interp) defineDictFunction(s *ast.Function, base, key string) error {
	v, ok := i.lookupVar(base)
	if !ok {
		return errorf(121, "Undefined variable: %s", base)
	}
	d, ok := v.(*Dict)
	if !ok {
		return errorf(715, "Dictionary required")
	}
	if d.Has(key) && !s.Bang {
		return errorf(717, "Dictionary entry already exists")
	}
	i.anon++
	fn, err := i.newFunction(s, strconv.Itoa(i.anon))
	if err != nil {
		return err
	}
	fn.dict = true
	i.funcs[fn.name] = fn
	d.Set(key, &Funcref{Name: fn.name, fn: fn})
	return nil
}

func (i *Interp) newFunction(s *ast.Function, name string) (*function, error) {
	fn := &function{
		name:    name,
		params:  s.Params,
		varargs: s.Varargs,
		rng:     s.Range,
		abort:   s.Abort,
		dict:    s.Dict,
		body:    s.Body,
		script:  i.script,
		line0:   s.At.Line,
	}
	if s.Closure {
		if i.frame == nil {
			return nil, errorf(932, "Closure function should not be at top level: %s", s.Name)
		}
		fn.parent = i.frame
	}
	return fn, nil
}

func (i *Interp) delfunction(s *ast.DelFunction) error {
	name := i.qualify(s.Name)
	fn, ok := i.funcs[name]
	if !ok {
		if s.Bang {
			return nil
		}
		return errorf(130, "Unknown function: %s", s.Name)
	}
	fn.deleted = true
	delete(i.funcs, name)
	return nil
}
