package eval

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
)

// position resolves the argument of line() and col(): ".", "$", "'x",
// "w0" or "w$". ok is false for an unset mark.
func (i *Interp) position(v Value) (engine.Editor, engine.Point, bool, error) {
	ed := i.host.Buffer()
	s, err := toString(v)
	if err != nil || ed == nil {
		return nil, engine.Point{}, false, err
	}
	cur := ed.OffsetToPoint(ed.PrimaryCaret().Offset())
	switch {
	case s == ".":
		return ed, cur, true, nil
	case s == "$":
		last := ed.LineCount() - 1
		return ed, engine.Point{Line: last, Column: len(ed.LineText(last))}, true, nil
	case s == "w0":
		return ed, engine.Point{}, true, nil
	case s == "w$":
		return ed, engine.Point{Line: ed.LineCount() - 1}, true, nil
	case len(s) > 1 && s[0] == '\'':
		r, _ := utf8.DecodeRuneInString(s[1:])
		p, ok := ed.Mark(r)
		return ed, p, ok, nil
	}
	return ed, engine.Point{}, false, nil
}

func fnLine(i *Interp, args []Value) (Value, error) {
	_, p, ok, err := i.position(args[0])
	if err != nil || !ok {
		return Number(0), err
	}
	return Number(p.Line + 1), nil
}

// fnCol returns the 1-based byte column. col("$") is one past the end of
// the cursor line.
func fnCol(i *Interp, args []Value) (Value, error) {
	if s, _ := toString(args[0]); s == "$" {
		ed := i.host.Buffer()
		if ed == nil {
			return Number(0), nil
		}
		cur := ed.OffsetToPoint(ed.PrimaryCaret().Offset())
		return Number(len(ed.LineText(cur.Line)) + 1), nil
	}
	_, p, ok, err := i.position(args[0])
	if err != nil || !ok {
		return Number(0), err
	}
	return Number(p.Column + 1), nil
}

func (i *Interp) lineArg(v Value) (int, error) {
	if s, ok := v.(String); ok {
		if _, p, ok, err := i.position(s); err != nil || ok {
			return p.Line + 1, err
		}
	}
	n, err := toNumber(v)
	return int(n), err
}

// fnGetline returns line lnum, or the lines lnum through end as a List.
func fnGetline(i *Interp, args []Value) (Value, error) {
	ed := i.host.Buffer()
	lo, err := i.lineArg(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if ed == nil || lo < 1 || lo > ed.LineCount() {
			return String(""), nil
		}
		return String(ed.LineText(lo - 1)), nil
	}
	hi, err := i.lineArg(args[1])
	if err != nil {
		return nil, err
	}
	out := NewList()
	if ed == nil {
		return out, nil
	}
	for ln := max(lo, 1); ln <= min(hi, ed.LineCount()); ln++ {
		out.Items = append(out.Items, String(ed.LineText(ln-1)))
	}
	return out, nil
}

func registerName(args []Value, n int) (rune, error) {
	s, err := optString(args, n, `"`)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return '"', nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func fnGetreg(i *Interp, args []Value) (Value, error) {
	name, err := registerName(args, 0)
	if err != nil {
		return nil, err
	}
	text, _, err := i.host.Register(name)
	if err != nil {
		return String(""), nil
	}
	return String(text), nil
}

// fnSetreg stores a String or a List of lines. Options: "c"/"v"
// characterwise, "l"/"V" linewise, "b" blockwise, "a" append.
func fnSetreg(i *Interp, args []Value) (Value, error) {
	name, err := registerName(args, 0)
	if err != nil {
		return nil, err
	}
	opts, err := optString(args, 2, "")
	if err != nil {
		return nil, err
	}
	var text, kind string
	switch v := args[1].(type) {
	case *List:
		lines, err := stringArgs(v.Items)
		if err != nil {
			return nil, err
		}
		text, kind = strings.Join(lines, "\n")+"\n", "V"
	default:
		if text, err = toString(v); err != nil {
			return nil, err
		}
		kind = "v"
		if strings.HasSuffix(text, "\n") {
			kind = "V"
		}
	}
	for _, c := range opts {
		switch c {
		case 'c', 'v':
			kind = "v"
			text = strings.TrimSuffix(text, "\n")
		case 'l', 'V':
			kind = "V"
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
		case 'b':
			kind = "b"
		}
	}
	if strings.ContainsRune(opts, 'a') {
		if prev, _, err := i.host.Register(name); err == nil {
			text = prev + text
		}
	}
	if err := i.host.SetRegister(name, text, kind); err != nil {
		return Number(1), nil
	}
	return Number(0), nil
}

// fnMaparg returns the right-hand side of the mapping for lhs, or a
// Dictionary describing it when the fourth argument is set.
func fnMaparg(i *Interp, args []Value) (Value, error) {
	lhs, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	mode, err := optString(args, 1, "")
	if err != nil {
		return nil, err
	}
	asDict, err := optNumber(args, 3, 0)
	if err != nil {
		return nil, err
	}
	info, ok := i.host.MapArg(lhs, mode)
	if asDict == 0 {
		if !ok {
			return String(""), nil
		}
		return String(info.RHS), nil
	}
	d := NewDict()
	if !ok {
		return d, nil
	}
	d.Set("lhs", String(info.LHS))
	d.Set("rhs", String(info.RHS))
	d.Set("mode", String(info.Mode))
	d.Set("noremap", boolNumber(info.NoRemap))
	d.Set("silent", boolNumber(info.Silent))
	d.Set("nowait", boolNumber(info.NoWait))
	d.Set("expr", boolNumber(info.Expr))
	d.Set("buffer", Number(0))
	d.Set("script", Number(0))
	if info.Script != "" {
		d.Set("source", String(info.Script))
	}
	return d, nil
}

func fnMode(i *Interp, _ []Value) (Value, error) {
	return String(i.host.Mode()), nil
}

func fnFeedkeys(i *Interp, args []Value) (Value, error) {
	s, err := stringArgs(args)
	if err != nil {
		return nil, err
	}
	flags := ""
	if len(s) > 1 {
		flags = s[1]
	}
	return Number(0), i.host.Feedkeys(s[0], flags)
}
