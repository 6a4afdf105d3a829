package eval

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/vimscript/ast"
)

type register struct {
	text, kind string
}

type testHost struct {
	doc    *engine.Document
	opts   map[string]any
	regs   map[rune]register
	maps   map[string]MapInfo
	echoes []string
	errs   []string
	ex     []*ast.ExCommand
	fed    []string
}

func newTestHost(text string) *testHost {
	return &testHost{
		doc:  engine.NewDocument(text),
		opts: map[string]any{"tabstop": 8, "ignorecase": 0, "shiftwidth": 8},
		regs: make(map[rune]register),
		maps: make(map[string]MapInfo),
	}
}

func (h *testHost) Echo(msg string)    { h.echoes = append(h.echoes, msg) }
func (h *testHost) EchoErr(msg string) { h.errs = append(h.errs, msg) }

func (h *testHost) ExCommand(cmd *ast.ExCommand) error {
	h.ex = append(h.ex, cmd)
	return nil
}

func (h *testHost) Option(name string) (any, error) {
	v, ok := h.opts[name]
	if !ok {
		return nil, fmt.Errorf("E518: Unknown option: %s", name)
	}
	return v, nil
}

func (h *testHost) SetOption(name string, v any) error {
	if _, ok := h.opts[name]; !ok {
		return fmt.Errorf("E518: Unknown option: %s", name)
	}
	h.opts[name] = v
	return nil
}

func (h *testHost) Register(name rune) (string, string, error) {
	r, ok := h.regs[name]
	if !ok {
		return "", "", fmt.Errorf("E353: Nothing in register %c", name)
	}
	return r.text, r.kind, nil
}

func (h *testHost) SetRegister(name rune, text, kind string) error {
	h.regs[name] = register{text, kind}
	return nil
}

func (h *testHost) Buffer() engine.Editor { return h.doc }
func (h *testHost) Mode() string          { return "n" }

func (h *testHost) Feedkeys(keys, _ string) error {
	h.fed = append(h.fed, keys)
	return nil
}

func (h *testHost) MapArg(lhs, mode string) (MapInfo, bool) {
	m, ok := h.maps[mode+lhs]
	return m, ok
}

func newTestInterp(text string) (*Interp, *testHost) {
	h := newTestHost(text)
	return New(h), h
}

func errCode(err error) int {
	var c interface{ Code() int }
	if errors.As(err, &c) {
		return c.Code()
	}
	return 0
}

func mustSource(t *testing.T, i *Interp, src string) {
	t.Helper()
	if err := i.Source("test.vim", src); err != nil {
		t.Fatalf("Source() error: %v", err)
	}
}

func mustEval(t *testing.T, i *Interp, src string) string {
	t.Helper()
	v, err := i.Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return Format(v)
}

func TestEvalExpressions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"7 / 2", "3"},
		{"7.0 / 2", "3.5"},
		{"10 / 0", "9223372036854775807"},
		{"-10 / 0", "-9223372036854775807"},
		{"0 / 0", "-9223372036854775808"},
		{"7 % 0", "0"},
		{"'a' . 1", "'a1'"},
		{"'10' + 5", "15"},
		{"1 == '1'", "1"},
		{"[1] + [2]", "[1, 2]"},
		{"[1, 2][-1]", "2"},
		{"'abc'[1]", "'b'"},
		{"'abc'[5]", "''"},
		{"'abc'[1:]", "'bc'"},
		{"[1, 2, 3][1:]", "[2, 3]"},
		{"{'a': 1}.a", "1"},
		{"'abc' ==# 'ABC'", "0"},
		{"'abc' ==? 'ABC'", "1"},
		{"'foobar' =~ '^foo'", "1"},
		{"'foobar' !~ 'baz'", "1"},
		{"1 ? 'y' : 'n'", "'y'"},
		{"0 || 2", "1"},
		{"1 && 0", "0"},
		{"v:true", "v:true"},
		{"type('')", "1"},
		{"[1, 2] is [1, 2]", "0"},
		{"[1, 2] == [1, 2]", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			i, _ := newTestInterp("")
			if got := mustEval(t, i, tt.expr); got != tt.want {
				t.Errorf("Eval(%q) = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		expr string
		code int
	}{
		{"undefined_var", 121},
		{"[1, 2][-3]", 684},
		{"[1, 2][2]", 684},
		{"Nope()", 117},
		{"{}.x", 716},
		{"[] == {}", 691},
		{"[] < []", 692},
		{"1 % 1.0", 804},
		{"function('Nope')", 700},
		{"abs()", 119},
		{"abs(1, 2)", 118},
		{"range(1, 5, 0)", 726},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			i, _ := newTestInterp("")
			_, err := i.Eval(tt.expr)
			if err == nil {
				t.Fatalf("Eval(%q) succeeded", tt.expr)
			}
			if got := errCode(err); got != tt.code {
				t.Errorf("Eval(%q) error %v, want E%d", tt.expr, err, tt.code)
			}
		})
	}
}

func TestListIndexOutOfRangeMessage(t *testing.T) {
	i, _ := newTestInterp("")
	_, err := i.Eval("[1, 2][-3]")
	if err == nil || err.Error() != "E684: List index out of range: -3" {
		t.Errorf("error = %v", err)
	}
}

func TestFunctionArgumentCount(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
function! Foo(a, b)
  return a:a + a:b
endfunction
`)
	if got := mustEval(t, i, "call('Foo', [1, 2])"); got != "3" {
		t.Errorf("Foo(1, 2) = %s", got)
	}
	tests := []struct {
		expr string
		want string
	}{
		{"call('Foo', [1, 2, 3])", "E118: Too many arguments for function: Foo"},
		{"call('Foo', [1])", "E119: Not enough arguments for function: Foo"},
	}
	for _, tt := range tests {
		_, err := i.Eval(tt.expr)
		if err == nil || err.Error() != tt.want {
			t.Errorf("Eval(%q) error = %v, want %q", tt.expr, err, tt.want)
		}
	}
}

func TestFunctionDefaultsAndVarargs(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
function! Opt(a, b = 10)
  return a:a + a:b
endfunction
function! Rest(first, ...)
  return [a:first, a:0, a:000]
endfunction
`)
	if got := mustEval(t, i, "Opt(1)"); got != "11" {
		t.Errorf("Opt(1) = %s", got)
	}
	if got := mustEval(t, i, "Rest(1, 2, 3)"); got != "[1, 2, [2, 3]]" {
		t.Errorf("Rest(1, 2, 3) = %s", got)
	}
}

func TestDictFunction(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
function! Foo() dict
  return self.thing
endfunction
let d = {'thing': 7}
function d.get()
  return self.thing * 2
endfunction
`)
	if got := mustEval(t, i, "call('Foo', [], {'thing': 123})"); got != "123" {
		t.Errorf("call with dict = %s", got)
	}
	_, err := i.Eval("Foo()")
	if err == nil || err.Error() != "E725: Calling dict function without Dictionary: Foo" {
		t.Errorf("Foo() error = %v", err)
	}
	if got := mustEval(t, i, "d.get()"); got != "14" {
		t.Errorf("d.get() = %s", got)
	}
	if err := i.Source("test.vim", "function d.get()\nendfunction"); errCode(err) != 717 {
		t.Errorf("redefine without bang error = %v, want E717", err)
	}
}

func TestClosures(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
function! Outer()
  let x = 5
  let F = {y -> x - y}
  return F(2)
endfunction
function! Counter()
  let n = 0
  function! Inc() closure
    let n += 1
    return n
  endfunction
  return funcref('Inc')
endfunction
let Next = Counter()
`)
	if got := mustEval(t, i, "Outer()"); got != "3" {
		t.Errorf("Outer() = %s", got)
	}
	if got := mustEval(t, i, "Next()"); got != "1" {
		t.Errorf("first Next() = %s", got)
	}
	if got := mustEval(t, i, "Next()"); got != "2" {
		t.Errorf("second Next() = %s", got)
	}
	err := i.Source("top.vim", "function! Top() closure\nendfunction")
	if errCode(err) != 932 {
		t.Errorf("top-level closure error = %v, want E932", err)
	}
}

func TestDeletedFuncref(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
function! Gone()
  return 1
endfunction
let F = funcref('Gone')
let G = function('Gone')
delfunction Gone
`)
	_, err := i.Eval("F()")
	if errCode(err) != 933 {
		t.Errorf("F() error = %v, want E933", err)
	}
	_, err = i.Eval("G()")
	if errCode(err) != 117 {
		t.Errorf("G() error = %v, want E117", err)
	}
}

func TestFunctionNames(t *testing.T) {
	tests := []struct {
		src  string
		code int
	}{
		{"function! lower()\nendfunction", 128},
		{"function! s:lower()\nendfunction", 0},
		{"function! my#auto()\nendfunction", 0},
		{"function! Twice()\nendfunction\nfunction Twice()\nendfunction", 122},
		{"delfunction Missing", 130},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			i, _ := newTestInterp("")
			err := i.Source("names.vim", tt.src)
			if got := errCode(err); got != tt.code {
				t.Errorf("Source() error = %v, want E%d", err, tt.code)
			}
		})
	}
}

func TestTryCatchFinally(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
let g:log = []
try
  call add(g:log, 'try')
  throw 'oops'
  call add(g:log, 'unreachable')
catch /^nomatch/
  call add(g:log, 'wrong catch')
catch /^oo/
  call add(g:log, 'catch ' . v:exception)
finally
  call add(g:log, 'finally')
endtry
try
  let x = [1][5]
catch /E684/
  let g:caught = v:exception
endtry
`)
	if got := mustEval(t, i, "g:log"); got != "['try', 'catch oops', 'finally']" {
		t.Errorf("g:log = %s", got)
	}
	caught, _ := i.Var("g:caught")
	if s, _ := caught.(String); !strings.HasPrefix(string(s), "Vim(let):E684:") {
		t.Errorf("g:caught = %v", caught)
	}
	if got := mustEval(t, i, "v:exception"); got != "''" {
		t.Errorf("v:exception after the catch = %s", got)
	}
}

func TestUncaughtException(t *testing.T) {
	i, _ := newTestInterp("")
	err := i.Source("throw.vim", "throw 'boom'")
	var ex *Exception
	if !errors.As(err, &ex) || ex.Value != "boom" {
		t.Fatalf("Source() error = %v", err)
	}
	if err.Error() != "E605: Exception not caught: boom" {
		t.Errorf("message = %q", err.Error())
	}
	if err := i.Source("throw.vim", "throw 'Vim:x'"); errCode(err) != 608 {
		t.Errorf("throw 'Vim:x' error = %v, want E608", err)
	}
}

func TestFinallyRunsOnReturn(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
let g:cleaned = 0
function! Early()
  try
    return 1
  finally
    let g:cleaned = 1
  endtry
  return 2
endfunction
`)
	if got := mustEval(t, i, "Early()"); got != "1" {
		t.Errorf("Early() = %s", got)
	}
	if got := mustEval(t, i, "g:cleaned"); got != "1" {
		t.Errorf("g:cleaned = %s", got)
	}
}

func TestAbortFunctions(t *testing.T) {
	i, h := newTestInterp("")
	mustSource(t, i, `
function! Soft()
  let x = undefined_thing
  let g:after = 1
endfunction
function! Hard() abort
  let x = undefined_thing
  let g:hard_after = 1
endfunction
`)
	if _, err := i.Eval("Soft()"); err != nil {
		t.Fatalf("Soft() error: %v", err)
	}
	if len(h.errs) != 1 || !strings.HasPrefix(h.errs[0], "E121:") {
		t.Errorf("reported errors = %q", h.errs)
	}
	if _, ok := i.Var("g:after"); !ok {
		t.Error("Soft() stopped at the error")
	}
	if _, err := i.Eval("Hard()"); errCode(err) != 121 {
		t.Errorf("Hard() error = %v, want E121", err)
	}
	if _, ok := i.Var("g:hard_after"); ok {
		t.Error("Hard() continued after the error")
	}
}

func TestCallDepth(t *testing.T) {
	i := New(newTestHost(""), WithMaxCallDepth(10))
	if err := i.Source("deep.vim", "function! Deep(n) abort\n  return Deep(a:n + 1)\nendfunction"); err != nil {
		t.Fatal(err)
	}
	if _, err := i.Eval("Deep(0)"); errCode(err) != 132 {
		t.Errorf("Deep(0) error = %v, want E132", err)
	}
}

func TestScriptScope(t *testing.T) {
	i, _ := newTestInterp("")
	if err := i.Source("a.vim", `
let s:x = 1
function! s:Get()
  return s:x
endfunction
let g:r = s:Get()
let g:ref = function('s:Get')
`); err != nil {
		t.Fatal(err)
	}
	if got := mustEval(t, i, "g:r"); got != "1" {
		t.Errorf("g:r = %s", got)
	}
	if got := mustEval(t, i, "g:ref()"); got != "1" {
		t.Errorf("g:ref() = %s", got)
	}
	if err := i.Source("b.vim", "let g:seen = exists('s:x')"); err != nil {
		t.Fatal(err)
	}
	if got := mustEval(t, i, "g:seen"); got != "0" {
		t.Errorf("s:x visible from another script")
	}
	if err := i.Source("a.vim", "let g:again = s:x"); err != nil {
		t.Fatal(err)
	}
	if got := mustEval(t, i, "g:again"); got != "1" {
		t.Errorf("s:x lost after re-sourcing: %s", got)
	}
}

func TestLetForms(t *testing.T) {
	i, h := newTestInterp("")
	mustSource(t, i, `
let [a, b; rest] = [1, 2, 3, 4]
let g:n = 1
let g:n += 2
let g:s = 'a'
let g:s .= 'b'
let l = [1, 2, 3]
let l[0] = 9
let l[1:2] = ['x', 'y']
let d = {}
let d.k = 'v'
let &tabstop = 4
let @a = 'reg'
const C = 1
`)
	tests := []struct {
		expr string
		want string
	}{
		{"[a, b, rest]", "[1, 2, [3, 4]]"},
		{"g:n", "3"},
		{"g:s", "'ab'"},
		{"l", "[9, 'x', 'y']"},
		{"d", "{'k': 'v'}"},
		{"&tabstop", "4"},
		{"@a", "'reg'"},
	}
	for _, tt := range tests {
		if got := mustEval(t, i, tt.expr); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.expr, got, tt.want)
		}
	}
	if h.opts["tabstop"] != 4 {
		t.Errorf("tabstop = %v", h.opts["tabstop"])
	}
	if h.regs['a'] != (register{"reg", "v"}) {
		t.Errorf("register a = %+v", h.regs['a'])
	}

	errs := []struct {
		src  string
		code int
	}{
		{"let C = 2", 741},
		{"let v:foo = 1", 46},
		{"let [x, y] = [1]", 688},
		{"let [x] = [1, 2]", 687},
		{"unlet nothing", 108},
	}
	for _, tt := range errs {
		if err := i.Source("let.vim", tt.src); errCode(err) != tt.code {
			t.Errorf("%q error = %v, want E%d", tt.src, err, tt.code)
		}
	}
}

func TestLoops(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, `
let g:out = []
for x in [1, 2, 3, 4]
  if x == 2
    continue
  elseif x == 4
    break
  endif
  call add(g:out, x)
endfor
for [k, v] in items({'a': 1})
  call add(g:out, k . v)
endfor
for c in 'hé'
  call add(g:out, c)
endfor
let n = 0
while n < 3
  let n += 1
endwhile
call add(g:out, n)
`)
	if got := mustEval(t, i, "g:out"); got != "[1, 3, 'a1', 'h', 'é', 3]" {
		t.Errorf("g:out = %s", got)
	}
	if err := i.Source("loop.vim", "break"); errCode(err) != 587 {
		t.Errorf("break outside loop error = %v", err)
	}
}

func TestRangeCalls(t *testing.T) {
	i, _ := newTestInterp("a\nb\nc")
	mustSource(t, i, `
let g:seen = []
function! Each()
  call add(g:seen, line('.'))
endfunction
function! Whole() range
  let g:span = [a:firstline, a:lastline]
endfunction
1,3call Each()
%call Whole()
`)
	if got := mustEval(t, i, "g:seen"); got != "[1, 2, 3]" {
		t.Errorf("g:seen = %s", got)
	}
	if got := mustEval(t, i, "g:span"); got != "[1, 3]" {
		t.Errorf("g:span = %s", got)
	}
}

func TestEchoAndSilent(t *testing.T) {
	i, h := newTestInterp("")
	mustSource(t, i, `
echo 'a' 1
echon 'b' 'c'
silent echo 'hidden'
silent! call Nope()
echo 'after'
echoerr 'bad'
`)
	want := []string{"a 1", "bc", "after"}
	if strings.Join(h.echoes, "|") != strings.Join(want, "|") {
		t.Errorf("echoes = %q, want %q", h.echoes, want)
	}
	if len(h.errs) != 1 || h.errs[0] != "bad" {
		t.Errorf("errors = %q", h.errs)
	}
}

func TestExCommandsReachHost(t *testing.T) {
	i, h := newTestInterp("")
	mustSource(t, i, "normal! dd\nset tabstop=4 \" comment")
	if len(h.ex) != 2 {
		t.Fatalf("host commands = %d, want 2", len(h.ex))
	}
	if h.ex[0].Name != "normal" || !h.ex[0].Bang || h.ex[0].Arg != "dd" {
		t.Errorf("normal command = %+v", h.ex[0])
	}
	if h.ex[1].Name != "set" || h.ex[1].Arg != "tabstop=4" {
		t.Errorf("set command = %+v", h.ex[1])
	}
}

func TestExecute(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, "let g:name = 'x'\nexecute 'let g:' . g:name . ' = 5'")
	if got := mustEval(t, i, "g:x"); got != "5" {
		t.Errorf("g:x = %s", got)
	}
}

func TestReset(t *testing.T) {
	i, _ := newTestInterp("")
	mustSource(t, i, "let g:x = 1\nfunction! F()\nendfunction")
	i.Reset()
	if _, ok := i.Var("g:x"); ok {
		t.Error("g:x survived Reset")
	}
	if len(i.Functions()) != 0 {
		t.Errorf("functions after Reset = %v", i.Functions())
	}
}

func TestConvert(t *testing.T) {
	v, err := FromGo(map[string]any{"list": []any{int64(1), "a", true, nil}})
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(v); got != "{'list': [1, 'a', v:true, v:null]}" {
		t.Errorf("FromGo = %s", got)
	}
	back := ToGo(v).(map[string]any)
	items := back["list"].([]any)
	if items[0] != int64(1) || items[1] != "a" || items[2] != true || items[3] != nil {
		t.Errorf("ToGo = %#v", items)
	}
	if _, err := FromGo(struct{}{}); err == nil {
		t.Error("FromGo accepted a struct")
	}
}
