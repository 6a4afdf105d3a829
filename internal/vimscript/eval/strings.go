package eval

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/pattern"
)

func stringArgs(args []Value) ([]string, error) {
	out := make([]string, len(args))
	for n, a := range args {
		s, err := toString(a)
		if err != nil {
			return nil, err
		}
		out[n] = s
	}
	return out, nil
}

func (i *Interp) intOption(name string, def int) int {
	v, err := i.host.Option(name)
	if err != nil {
		return def
	}
	if n, ok := v.(int); ok {
		return n
	}
	return def
}

func fnEscape(_ *Interp, args []Value) (Value, error) {
	s, err := stringArgs(args)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, r := range s[0] {
		if strings.ContainsRune(s[1], r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return String(b.String()), nil
}

func fnFloat2nr(_ *Interp, args []Value) (Value, error) {
	f, err := toFloat(args[0])
	if err != nil {
		return nil, err
	}
	switch {
	case math.IsNaN(f):
		return Number(0), nil
	case f >= math.MaxInt64:
		return Number(math.MaxInt64), nil
	case f <= -math.MaxInt64:
		return Number(-math.MaxInt64), nil
	}
	return Number(int64(f)), nil
}

// matchArgs compiles the pattern of match() and friends and returns the
// subject and start offset. 'ignorecase' applies; 'smartcase' does not.
func (i *Interp) matchArgs(args []Value) (*pattern.Pattern, string, int, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, "", 0, err
	}
	src, err := toString(args[1])
	if err != nil {
		return nil, "", 0, err
	}
	start, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, "", 0, err
	}
	p, err := i.compile(src, i.ignoreCase(ast.CaseDefault))
	if err != nil {
		return nil, "", 0, err
	}
	return p, s, int(min(max(start, 0), int64(len(s)))), nil
}

func (i *Interp) find(args []Value) (pattern.Loc, string, bool, error) {
	p, s, start, err := i.matchArgs(args)
	if err != nil {
		return pattern.Loc{}, "", false, err
	}
	count, err := optNumber(args, 3, 1)
	if err != nil {
		return pattern.Loc{}, "", false, err
	}
	var loc pattern.Loc
	found := false
	for n := int64(0); n < max(count, 1); n++ {
		if loc, found = p.FindFrom(s, start); !found {
			break
		}
		start = loc.End
		if loc.End == loc.Start {
			start++
		}
		if start > len(s) && n+1 < count {
			found = false
			break
		}
	}
	return loc, s, found, nil
}

func fnMatch(i *Interp, args []Value) (Value, error) {
	loc, _, ok, err := i.find(args)
	if err != nil || !ok {
		return Number(-1), err
	}
	return Number(loc.Start), nil
}

func fnMatchend(i *Interp, args []Value) (Value, error) {
	loc, _, ok, err := i.find(args)
	if err != nil || !ok {
		return Number(-1), err
	}
	return Number(loc.End), nil
}

func fnMatchstr(i *Interp, args []Value) (Value, error) {
	loc, s, ok, err := i.find(args)
	if err != nil || !ok {
		return String(""), err
	}
	return String(loc.Text(s)), nil
}

// fnSplit splits on the pattern, by default runs of white space.
func fnSplit(i *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	src, err := optString(args, 1, `\s\+`)
	if err != nil {
		return nil, err
	}
	if src == "" {
		src = `\s\+`
	}
	keep, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, err
	}
	p, err := i.compile(src, false)
	if err != nil {
		return nil, err
	}
	out := NewList()
	for _, part := range p.Split(s, keep != 0) {
		out.Items = append(out.Items, String(part))
	}
	return out, nil
}

func fnStr2float(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) && strings.IndexByte("+-0123456789.eE", s[end]) >= 0 {
		end++
	}
	for ; end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return Float(f), nil
		}
	}
	switch {
	case strings.HasPrefix(s, "inf"), strings.HasPrefix(s, "+inf"):
		return Float(math.Inf(1)), nil
	case strings.HasPrefix(s, "-inf"):
		return Float(math.Inf(-1)), nil
	}
	return Float(0), nil
}

func fnStr2nr(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	base, err := optNumber(args, 1, 10)
	if err != nil {
		return nil, err
	}
	switch base {
	case 2, 8, 10, 16:
	default:
		return nil, errorf(474, "Invalid argument")
	}
	return Number(str2nr(s, int(base))), nil
}

// fnStrchars counts characters. With skipcc a character and its
// combining marks count once.
func fnStrchars(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	skip, err := optNumber(args, 1, 0)
	if err != nil {
		return nil, err
	}
	if skip != 0 {
		return Number(uniseg.GraphemeClusterCount(s)), nil
	}
	return Number(utf8.RuneCountInString(s)), nil
}

// fnStrdisplaywidth returns the screen cells s takes when it starts at
// screen column col. Tabs expand to 'tabstop'.
func fnStrdisplaywidth(i *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	col, err := optNumber(args, 1, 0)
	if err != nil {
		return nil, err
	}
	return Number(displayWidth(s, int(col), i.intOption("tabstop", 8))), nil
}

func displayWidth(s string, col, ts int) int {
	if ts <= 0 {
		ts = 8
	}
	w := col
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		c := g.Str()
		if c == "\t" {
			w += ts - w%ts
			continue
		}
		w += runewidth.StringWidth(c)
	}
	return w - col
}

func fnStridx(_ *Interp, args []Value) (Value, error) {
	s, err := stringArgs(args[:2])
	if err != nil {
		return nil, err
	}
	start, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = 0
	}
	if start > int64(len(s[0])) {
		return Number(-1), nil
	}
	n := strings.Index(s[0][start:], s[1])
	if n < 0 {
		return Number(-1), nil
	}
	return Number(int64(n) + start), nil
}

func fnStrlen(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	return Number(len(s)), nil
}

// fnStrpart returns bytes start up to start+length, clipped to s.
func fnStrpart(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	start, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}
	length, err := optNumber(args, 2, int64(len(s)))
	if err != nil {
		return nil, err
	}
	end := start + length
	start = min(max(start, 0), int64(len(s)))
	end = min(max(end, start), int64(len(s)))
	return String(s[start:end]), nil
}

// fnSubstitute replaces matches of pat. sub is a replacement string or a
// Funcref called with the list of submatches.
func fnSubstitute(i *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	src, err := toString(args[1])
	if err != nil {
		return nil, err
	}
	flags, err := toString(args[3])
	if err != nil {
		return nil, err
	}
	p, err := i.compile(src, i.ignoreCase(ast.CaseDefault))
	if err != nil {
		return nil, err
	}
	global := strings.Contains(flags, "g")
	if fn, ok := args[2].(*Funcref); ok {
		var callErr error
		out := p.SubstituteFunc(s, global, func(groups []string) string {
			if callErr != nil {
				return ""
			}
			items := make([]Value, len(groups))
			for n, g := range groups {
				items[n] = String(g)
			}
			r, err := i.callValue(fn, []Value{NewList(items...)}, nil, nil)
			if err != nil {
				callErr = err
				return ""
			}
			text, err := toString(r)
			callErr = err
			return text
		})
		if callErr != nil {
			return nil, callErr
		}
		return String(out), nil
	}
	repl, err := toString(args[2])
	if err != nil {
		return nil, err
	}
	return String(p.Substitute(s, repl, global)), nil
}

func fnTolower(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	return String(strings.ToLower(s)), err
}

func fnToupper(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	return String(strings.ToUpper(s)), err
}

// fnTrim removes mask characters, by default white space and NUL, from
// the start (dir 1), the end (dir 2) or both (dir 0).
func fnTrim(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	mask, err := optString(args, 1, "")
	if err != nil {
		return nil, err
	}
	if mask == "" {
		mask = " \t\r\n\v\f\x00 "
	}
	dir, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, err
	}
	switch dir {
	case 0:
		s = strings.Trim(s, mask)
	case 1:
		s = strings.TrimLeft(s, mask)
	case 2:
		s = strings.TrimRight(s, mask)
	default:
		return nil, errorf(475, "Invalid argument: %d", dir)
	}
	return String(s), nil
}
