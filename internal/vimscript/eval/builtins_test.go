package eval

import (
	"testing"

	"github.com/dshills/vimcore/internal/engine"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"abs(-3)", "3"},
		{"abs(-1.5)", "1.5"},
		{"add([1], 2)", "[1, 2]"},
		{"call('abs', [-3])", "3"},
		{"count([1, 2, 1], 1)", "2"},
		{"count('abcabc', 'bc')", "2"},
		{"deepcopy([[1]]) == [[1]]", "1"},
		{"empty([])", "1"},
		{"empty('x')", "0"},
		{"eval('1 + 1')", "2"},
		{"exists('*abs')", "1"},
		{"exists('g:nope')", "0"},
		{"exists(':normal')", "2"},
		{"exists('&tabstop')", "1"},
		{"exists('&nosuch')", "0"},
		{"extend([1, 2], [3], 0)", "[3, 1, 2]"},
		{"extend({'a': 1}, {'a': 2, 'b': 3})", "{'a': 2, 'b': 3}"},
		{"extend({'a': 1}, {'a': 2, 'b': 3}, 'keep')", "{'a': 1, 'b': 3}"},
		{"filter([1, 2, 3, 4], {_, v -> v % 2 == 0})", "[2, 4]"},
		{"filter({'a': 1, 'b': 2}, 'v:val > 1')", "{'b': 2}"},
		{"map([1, 2, 3], 'v:val * 2')", "[2, 4, 6]"},
		{"map({'a': 1}, {k, v -> k . v})", "{'a': 'a1'}"},
		{"map([5, 6], 'v:key')", "[0, 1]"},
		{"string(function('abs'))", "function('abs')"},
		{"string(function('abs', [1]))", "function('abs', [1])"},
		{"get([1], 5, 'd')", "'d'"},
		{"get({'a': 1}, 'a')", "1"},
		{"get(function('abs'), 'name')", "'abs'"},
		{"has('eval')", "1"},
		{"has('gui_running')", "0"},
		{"has_key({'a': 1}, 'a')", "1"},
		{"index(['a', 'b'], 'b')", "1"},
		{"index(['a', 'b'], 'c')", "-1"},
		{"insert([1, 2], 0)", "[0, 1, 2]"},
		{"insert([1, 2], 9, -1)", "[1, 9, 2]"},
		{"items({'a': 1})", "[['a', 1]]"},
		{"join([1, 'a', [2]], '-')", "'1-a-[2]'"},
		{"join(['a', 'b'])", "'a b'"},
		{"keys({'z': 1, 'y': 2})", "['z', 'y']"},
		{"values({'z': 1, 'y': 2})", "[1, 2]"},
		{"len('abc')", "3"},
		{"len([1, 2])", "2"},
		{"max([3, 9, 2])", "9"},
		{"min([3, 9, 2])", "2"},
		{"max([])", "0"},
		{"range(3)", "[0, 1, 2]"},
		{"range(2, 8, 3)", "[2, 5, 8]"},
		{"range(5, 1, -2)", "[5, 3, 1]"},
		{"remove([1, 2, 3], 1)", "2"},
		{"remove([1, 2, 3, 4], 1, 2)", "[2, 3]"},
		{"remove({'a': 1}, 'a')", "1"},
		{"repeat('ab', 3)", "'ababab'"},
		{"repeat([1], 2)", "[1, 1]"},
		{"reverse([1, 2])", "[2, 1]"},
		{"sort([3, 1, 2])", "[1, 2, 3]"},
		{"sort([10, 9, 100])", "[10, 100, 9]"},
		{"sort([10, 9, 100], 'n')", "[9, 10, 100]"},
		{"sort(['b', 'A', 'a'], 'i')", "['A', 'a', 'b']"},
		{"sort([3, 1, 2], {a, b -> b - a})", "[3, 2, 1]"},
		{"type([])", "3"},
		{"type({})", "4"},
		{"type(1.0)", "5"},
		{"type(v:true)", "6"},
		{"uniq([1, 1, 2, 1])", "[1, 2, 1]"},

		{`escape('a.b', '.')`, `'a\.b'`},
		{"float2nr(3.9)", "3"},
		{"float2nr(-3.9)", "-3"},
		{`match('foo123', '\d')`, "3"},
		{`match('foo', 'x')`, "-1"},
		{`matchend('foo123', '\d\+')`, "6"},
		{`matchstr('foo123', '\d\+')`, "'123'"},
		{`matchstr('a1b2c3', '\d', 0, 2)`, "'2'"},
		{"split('a b  c')", "['a', 'b', 'c']"},
		{"split('a,b,,c', ',')", "['a', 'b', '', 'c']"},
		{"split(',a,', ',', 1)", "['', 'a', '']"},
		{"str2float('1.5e1')", "15.0"},
		{"str2float('x')", "0.0"},
		{"str2nr('42abc')", "42"},
		{"str2nr('0x1F', 16)", "31"},
		{"str2nr('101', 2)", "5"},
		{"strchars('abc')", "3"},
		{"strlen('日本')", "6"},
		{"strdisplaywidth('日本')", "4"},
		{`strdisplaywidth("\tx")`, "9"},
		{`strdisplaywidth("\tx", 3)`, "6"},
		{"stridx('abcabc', 'c', 3)", "5"},
		{"stridx('abc', 'z')", "-1"},
		{"strpart('abcdef', 2, 3)", "'cde'"},
		{"strpart('abc', -1, 2)", "'a'"},
		{"substitute('aaa', 'a', 'b', 'g')", "'bbb'"},
		{"substitute('aaa', 'a', 'b', '')", "'baa'"},
		{`substitute('ab', '\(a\)\(b\)', '\2\1', '')`, "'ba'"},
		{`substitute('a1b2', '\d', {m -> m[0] * 2}, 'g')`, "'a2b4'"},
		{"tolower('AbC')", "'abc'"},
		{"toupper('AbC')", "'ABC'"},
		{"trim('  x  ')", "'x'"},
		{"trim('xxaxx', 'x', 1)", "'axx'"},

		{"printf('%5s|%-3d|%x', 'ab', 7, 255)", "'   ab|7  |ff'"},
		{"printf('%05d %.2f %c', 42, 3.14159, 65)", "'00042 3.14 A'"},
		{"printf('%5S|', '日本')", "' 日本|'"},
		{"printf('%.1S|', '日本')", "'|'"},
		{"printf('%*d', 4, 1)", "'   1'"},
		{"printf('100%%')", "'100%'"},

		{"json_encode({'a': [1, v:true, v:null], 'b': 'x\"y'})", `'{"a":[1,true,null],"b":"x\"y"}'`},
		{"json_encode(\"a\\nb\")", `'"a\nb"'`},
		{`json_decode('{"b": 1, "a": [1.5, "s", null, false]}')`, "{'b': 1, 'a': [1.5, 's', v:null, v:false]}"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			i, _ := newTestInterp("")
			if got := mustEval(t, i, tt.expr); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		expr string
		code int
	}{
		{"add({}, 1)", 897},
		{"call('abs', 1)", 714},
		{"extend({'a': 1}, {'a': 2}, 'error')", 737},
		{"printf('%d')", 766},
		{"printf('%d', 1, 2)", 767},
		{"range(1, -5)", 727},
		{"remove({}, 'x')", 716},
		{"json_decode('{bad')", 474},
		{"json_encode(function('abs'))", 474},
		{"map(1, 'v:val')", 712},
		{"function(1)", 129},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			i, _ := newTestInterp("")
			_, err := i.Eval(tt.expr)
			if got := errCode(err); got != tt.code {
				t.Errorf("%s error = %v, want E%d", tt.expr, err, tt.code)
			}
		})
	}
}

func TestSortIsStable(t *testing.T) {
	i, _ := newTestInterp("")
	got := mustEval(t, i, "sort([[2, 'a'], [1, 'b'], [2, 'c'], [1, 'd']], {x, y -> x[0] - y[0]})")
	want := "[[1, 'b'], [1, 'd'], [2, 'a'], [2, 'c']]"
	if got != want {
		t.Errorf("sort = %s, want %s", got, want)
	}
}

func TestEditorBuiltins(t *testing.T) {
	i, h := newTestInterp("alpha\nbeta\ngamma")
	h.doc.PrimaryCaret().MoveTo(8)
	h.doc.SetMark('a', engine.Point{Line: 2, Column: 1})
	h.maps["ijk"] = MapInfo{LHS: "jk", RHS: "<Esc>", Mode: "i", NoRemap: true}

	tests := []struct {
		expr string
		want string
	}{
		{"line('.')", "2"},
		{"line('$')", "3"},
		{"col('.')", "3"},
		{"col('$')", "5"},
		{"line(\"'a\")", "3"},
		{"col(\"'a\")", "2"},
		{"line(\"'z\")", "0"},
		{"getline(1)", "'alpha'"},
		{"getline('.')", "'beta'"},
		{"getline('$')", "'gamma'"},
		{"getline(2, 3)", "['beta', 'gamma']"},
		{"getline(9)", "''"},
		{"maparg('jk', 'i')", "'<Esc>'"},
		{"maparg('jk', 'i', 0, 1).noremap", "1"},
		{"maparg('zz', 'n')", "''"},
		{"mode()", "'n'"},
		{"setreg('a', 'text')", "0"},
		{"getreg('a')", "'text'"},
		{"setreg('b', ['x', 'y'])", "0"},
		{"getreg('b')", "'x\ny\n'"},
		{"feedkeys('ix')", "0"},
	}
	for _, tt := range tests {
		if got := mustEval(t, i, tt.expr); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.expr, got, tt.want)
		}
	}
	if h.regs['b'].kind != "V" {
		t.Errorf("register b kind = %q, want V", h.regs['b'].kind)
	}
	if len(h.fed) != 1 || h.fed[0] != "ix" {
		t.Errorf("fed keys = %q", h.fed)
	}
}
