// Package eval runs Vimscript.
//
// An Interp owns the global, script-local and v: scopes plus the user
// function table. It talks to the editor only through its Host. Like the
// rest of the core it is single threaded: the caller serializes all
// entry points.
package eval

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/parser"
)

// DefaultMaxCallDepth is Vim's default 'maxfuncdepth'.
const DefaultMaxCallDepth = 100

type flow uint8

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
	flowReturn
)

type script struct {
	id   int
	name string
	vars *Dict
}

type function struct {
	name    string
	params  []ast.Param
	varargs bool
	rng     bool
	abort   bool
	dict    bool
	body    []ast.Stmt
	lambda  ast.Expr
	script  *script
	parent  *frame
	line0   int
	deleted bool
}

// frame is one active function call. parent is the frame a closure or
// lambda was created in.
type frame struct {
	fn     *function
	locals *Dict
	args   *Dict
	parent *frame
	ret    Value
}

// Option configures an Interp.
type Option func(*Interp)

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interp) { i.log = l }
}

// WithMaxCallDepth bounds nested function calls.
func WithMaxCallDepth(n int) Option {
	return func(i *Interp) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

// Interp is a Vimscript interpreter.
type Interp struct {
	host Host
	log  *slog.Logger

	globals *Dict
	vvars   *Dict
	bvars   *Dict
	wvars   *Dict
	tvars   *Dict

	funcs   map[string]*function
	scripts map[string]*script
	script  *script
	frame   *frame

	depth    int
	maxDepth int
	tryDepth int
	loops    int
	silent   int
	lambdas  int
	anon     int
}

// New returns an interpreter running in host.
func New(host Host, opts ...Option) *Interp {
	i := &Interp{
		host:     host,
		log:      slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.Reset()
	return i
}

// Reset forgets every variable, function and script.
func (i *Interp) Reset() {
	i.globals = NewDict()
	i.bvars = NewDict()
	i.wvars = NewDict()
	i.tvars = NewDict()
	i.funcs = make(map[string]*function)
	i.scripts = make(map[string]*script)
	i.script = i.scriptFor("")
	i.frame = nil
	i.depth, i.tryDepth, i.loops, i.silent = 0, 0, 0, 0

	v := NewDict()
	for k, val := range map[string]Value{
		"true": Bool(true), "false": Bool(false), "null": Null, "none": None,
		"count": Number(0), "count1": Number(1), "register": String(`"`),
		"exception": String(""), "throwpoint": String(""), "errmsg": String(""),
		"key": String(""), "val": String(""), "version": Number(900),
		"t_number": Number(KindNumber), "t_string": Number(KindString),
		"t_func": Number(KindFunc), "t_list": Number(KindList),
		"t_dict": Number(KindDict), "t_float": Number(KindFloat),
		"t_bool": Number(KindBool), "t_none": Number(KindNone),
	} {
		v.Set(k, val)
	}
	i.vvars = v
}

func (i *Interp) scriptFor(name string) *script {
	if s, ok := i.scripts[name]; ok {
		return s
	}
	s := &script{id: len(i.scripts) + 1, name: name, vars: NewDict()}
	i.scripts[name] = s
	return s
}

// Source parses and runs a script. A syntax error runs nothing. Sourcing
// the same name again keeps its s: variables.
func (i *Interp) Source(name, src string) error {
	s, err := parser.Parse(name, src)
	if err != nil {
		return err
	}
	return i.Run(s)
}

// Run executes a parsed script at the top level. It stops at the first
// error not handled by a :try.
func (i *Interp) Run(s *ast.Script) error {
	prevScript, prevFrame, prevLoops := i.script, i.frame, i.loops
	i.script, i.frame, i.loops = i.scriptFor(s.Name), nil, 0
	defer func() { i.script, i.frame, i.loops = prevScript, prevFrame, prevLoops }()
	return i.runStmts(s.Stmts)
}

// Execute runs command-line text, such as :execute or a mapping's
// ":...<CR>", in the current context.
func (i *Interp) Execute(text string) error {
	s, err := parser.Parse(i.script.name, text)
	if err != nil {
		return err
	}
	return i.runStmts(s.Stmts)
}

func (i *Interp) runStmts(stmts []ast.Stmt) error {
	fl, err := i.execBlock(stmts)
	if err != nil {
		return err
	}
	if fl == flowReturn && i.frame == nil {
		return errorf(133, ":return not inside a function")
	}
	return nil
}

// Eval evaluates an expression at the top level.
func (i *Interp) Eval(src string) (Value, error) {
	e, err := parser.ParseExpr(src)
	if err != nil {
		return nil, err
	}
	return i.EvalExpr(e)
}

// EvalExpr evaluates a parsed expression at the top level.
func (i *Interp) EvalExpr(e ast.Expr) (Value, error) {
	prev := i.frame
	i.frame = nil
	defer func() { i.frame = prev }()
	return i.eval(e)
}

// Call calls the function named name, built in or user defined.
func (i *Interp) Call(name string, args ...Value) (Value, error) {
	return i.callName(name, args, nil, nil)
}

// CallFuncref calls f with args appended to its bound arguments.
func (i *Interp) CallFuncref(f *Funcref, args ...Value) (Value, error) {
	return i.callFuncref(f, args, nil, nil)
}

// HasFunction reports whether name is a built-in or user function.
func (i *Interp) HasFunction(name string) bool {
	if _, ok := builtins[name]; ok {
		return true
	}
	_, ok := i.findFunction(name)
	return ok
}

// Functions returns the names of the user functions, sorted.
func (i *Interp) Functions() []string {
	names := make([]string, 0, len(i.funcs))
	for name := range i.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Var returns the variable name, which may carry a scope prefix.
func (i *Interp) Var(name string) (Value, bool) {
	return i.lookupVar(name)
}

// SetVar assigns a variable. Unlike :let it may set v: variables.
func (i *Interp) SetVar(name string, v Value) error {
	if rest, ok := strings.CutPrefix(name, "v:"); ok {
		i.vvars.Set(rest, v)
		return nil
	}
	return i.setVar(name, v, false)
}

func (i *Interp) execBlock(stmts []ast.Stmt) (flow, error) {
	for _, st := range stmts {
		fl, err := i.exec(st)
		if err != nil {
			if i.resumable(err) {
				i.report(err)
				continue
			}
			return flowNormal, err
		}
		if fl != flowNormal {
			return fl, nil
		}
	}
	return flowNormal, nil
}

// resumable reports whether a function should go on after err, as
// functions without "abort" do outside a :try.
func (i *Interp) resumable(err error) bool {
	f := i.frame
	if f == nil || f.fn.abort || f.fn.lambda != nil || i.tryDepth > 0 {
		return false
	}
	var ex *Exception
	return !errors.As(err, &ex)
}

func (i *Interp) report(err error) {
	var se *ScriptError
	if errors.As(err, &se) {
		i.log.Debug("vimscript error", "where", se.Location(), "err", se.Err)
	}
	i.vvars.Set("errmsg", String(err.Error()))
	i.host.EchoErr(err.Error())
}

func (i *Interp) exec(st ast.Stmt) (flow, error) {
	fl, err := i.dispatch(st)
	if err != nil {
		return fl, i.locate(st, err)
	}
	return fl, nil
}

// locate attributes err to st unless a nested statement already did.
func (i *Interp) locate(st ast.Stmt, err error) error {
	var ex *Exception
	if errors.As(err, &ex) {
		if ex.Throwpoint == "" {
			ex.Throwpoint = i.where(st).Location()
		}
		return err
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return err
	}
	w := i.where(st)
	w.Err = err
	return w
}

func (i *Interp) where(st ast.Stmt) *ScriptError {
	se := &ScriptError{Script: i.script.name, Line: st.Position().Line, Command: st.Command()}
	if f := i.frame; f != nil {
		se.Function = f.fn.name
		se.Line -= f.fn.line0
	}
	return se
}

func (i *Interp) dispatch(st ast.Stmt) (flow, error) {
	switch s := st.(type) {
	case *ast.Let:
		return flowNormal, i.let(s)
	case *ast.Unlet:
		return flowNormal, i.unlet(s)
	case *ast.If:
		for _, c := range s.Clauses {
			if c.Cond != nil {
				ok, err := i.cond(c.Cond)
				if err != nil {
					return flowNormal, err
				}
				if !ok {
					continue
				}
			}
			return i.execBlock(c.Body)
		}
		return flowNormal, nil
	case *ast.While:
		return i.while(s)
	case *ast.For:
		return i.forLoop(s)
	case *ast.Break:
		if i.loops == 0 {
			return flowNormal, errorf(587, ":break without :while or :for")
		}
		return flowBreak, nil
	case *ast.Continue:
		if i.loops == 0 {
			return flowNormal, errorf(586, ":continue without :while or :for")
		}
		return flowContinue, nil
	case *ast.Function:
		return flowNormal, i.define(s)
	case *ast.DelFunction:
		return flowNormal, i.delfunction(s)
	case *ast.Return:
		if i.frame == nil {
			return flowNormal, errorf(133, ":return not inside a function")
		}
		var v Value = Number(0)
		if s.Value != nil {
			rv, err := i.eval(s.Value)
			if err != nil {
				return flowNormal, err
			}
			v = rv
		}
		i.frame.ret = v
		return flowReturn, nil
	case *ast.Throw:
		v, err := i.eval(s.Value)
		if err != nil {
			return flowNormal, err
		}
		str, err := toString(v)
		if err != nil {
			return flowNormal, err
		}
		if strings.HasPrefix(str, "Vim") {
			return flowNormal, errorf(608, "Cannot :throw exceptions with 'Vim' prefix")
		}
		return flowNormal, &Exception{Value: str}
	case *ast.Try:
		return i.try(s)
	case *ast.CallStmt:
		return flowNormal, i.callStmt(s)
	case *ast.Echo:
		return flowNormal, i.echo(s)
	case *ast.Execute:
		text, err := i.joinArgs(s.Args, " ")
		if err != nil {
			return flowNormal, err
		}
		p, err := parser.Parse(i.script.name, text)
		if err != nil {
			return flowNormal, err
		}
		return i.execBlock(p.Stmts)
	case *ast.EvalStmt:
		_, err := i.eval(s.X)
		return flowNormal, err
	case *ast.ExCommand:
		return flowNormal, i.host.ExCommand(s)
	case *ast.Silent:
		i.silent++
		fl, err := i.exec(s.Stmt)
		i.silent--
		if err != nil && s.Bang {
			i.log.Debug("silenced error", "err", err)
			return fl, nil
		}
		return fl, err
	}
	return flowNormal, errorf(492, "Not an editor command: %s", st.Command())
}

func (i *Interp) cond(e ast.Expr) (bool, error) {
	v, err := i.eval(e)
	if err != nil {
		return false, err
	}
	return truthy(v)
}

func (i *Interp) while(s *ast.While) (flow, error) {
	i.loops++
	defer func() { i.loops-- }()
	for {
		ok, err := i.cond(s.Cond)
		if err != nil || !ok {
			return flowNormal, err
		}
		fl, err := i.execBlock(s.Body)
		if err != nil {
			return flowNormal, err
		}
		switch fl {
		case flowBreak:
			return flowNormal, nil
		case flowReturn:
			return fl, nil
		}
	}
}

func (i *Interp) forLoop(s *ast.For) (flow, error) {
	v, err := i.eval(s.Iter)
	if err != nil {
		return flowNormal, err
	}
	var next func(n int) (Value, bool)
	switch x := v.(type) {
	case *List:
		next = func(n int) (Value, bool) {
			if n >= len(x.Items) {
				return nil, false
			}
			return x.Items[n], true
		}
	case String:
		runes := []rune(string(x))
		next = func(n int) (Value, bool) {
			if n >= len(runes) {
				return nil, false
			}
			return String(runes[n]), true
		}
	default:
		return flowNormal, errorf(714, "List required")
	}

	i.loops++
	defer func() { i.loops-- }()
	for n := 0; ; n++ {
		item, ok := next(n)
		if !ok {
			return flowNormal, nil
		}
		if err := i.bindFor(s, item); err != nil {
			return flowNormal, err
		}
		fl, err := i.execBlock(s.Body)
		if err != nil {
			return flowNormal, err
		}
		switch fl {
		case flowBreak:
			return flowNormal, nil
		case flowReturn:
			return fl, nil
		}
	}
}

func (i *Interp) bindFor(s *ast.For, item Value) error {
	if !s.Unpack {
		return i.setVar(s.Names[0], item, false)
	}
	l, ok := item.(*List)
	if !ok {
		return errorf(714, "List required")
	}
	if err := unpackCount(len(s.Names), len(l.Items), s.Rest != ""); err != nil {
		return err
	}
	for n, name := range s.Names {
		if err := i.setVar(name, l.Items[n], false); err != nil {
			return err
		}
	}
	if s.Rest != "" {
		rest := append([]Value(nil), l.Items[len(s.Names):]...)
		return i.setVar(s.Rest, NewList(rest...), false)
	}
	return nil
}

func unpackCount(targets, items int, rest bool) error {
	if items < targets {
		return errorf(688, "More targets than List items")
	}
	if !rest && items > targets {
		return errorf(687, "Less targets than List items")
	}
	return nil
}

func (i *Interp) try(s *ast.Try) (flow, error) {
	i.tryDepth++
	fl, err := i.execBlock(s.Body)
	i.tryDepth--

	if err != nil {
		if ex, ok := toException(err); ok {
			for _, c := range s.Catches {
				matched, perr := i.catches(c.Pattern, ex.Value)
				if perr != nil {
					err = perr
					break
				}
				if !matched {
					continue
				}
				prevEx, _ := i.vvars.Get("exception")
				prevTp, _ := i.vvars.Get("throwpoint")
				i.vvars.Set("exception", String(ex.Value))
				i.vvars.Set("throwpoint", String(ex.Throwpoint))
				fl, err = i.execBlock(c.Body)
				i.vvars.Set("exception", prevEx)
				i.vvars.Set("throwpoint", prevTp)
				break
			}
		}
	}

	if s.HasFinally {
		ffl, ferr := i.execBlock(s.Finally)
		if ferr != nil {
			return ffl, ferr
		}
		if ffl != flowNormal {
			return ffl, nil
		}
	}
	return fl, err
}

// toException turns err into the exception a :catch sees. Runtime errors
// read "Vim(command):E123: message".
func toException(err error) (*Exception, bool) {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex, true
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return &Exception{
			Value:      fmt.Sprintf("Vim(%s):%s", se.Command, se.Err.Error()),
			Throwpoint: se.Location(),
		}, true
	}
	return nil, false
}

func (i *Interp) catches(pat, value string) (bool, error) {
	if pat == "" {
		return true, nil
	}
	p, err := i.compile(pat, false)
	if err != nil {
		return false, err
	}
	return p.Match(value), nil
}

func (i *Interp) echo(s *ast.Echo) error {
	sep := " "
	if s.Name == "echon" {
		sep = ""
	}
	msg, err := i.joinArgs(s.Args, sep)
	if err != nil {
		return err
	}
	if s.Name == "echoerr" {
		if i.tryDepth > 0 {
			return &Exception{Value: "Vim(echoerr):" + msg}
		}
		i.vvars.Set("errmsg", String(msg))
		i.host.EchoErr(msg)
		return nil
	}
	if i.silent == 0 {
		i.host.Echo(msg)
	}
	return nil
}

func (i *Interp) joinArgs(args []ast.Expr, sep string) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		v, err := i.eval(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, Display(v))
	}
	return strings.Join(parts, sep), nil
}
