package eval

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// fnPrintf formats like C printf. %s pads by bytes and %S by display
// cells.
func fnPrintf(_ *Interp, args []Value) (Value, error) {
	format, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	rest := args[1:]
	next := func() (Value, error) {
		if len(rest) == 0 {
			return nil, errorf(766, "Not enough arguments for printf()")
		}
		v := rest[0]
		rest = rest[1:]
		return v, nil
	}

	var b strings.Builder
	for p := 0; p < len(format); p++ {
		c := format[p]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		p++
		if p < len(format) && format[p] == '%' {
			b.WriteByte('%')
			continue
		}

		start := p
		for p < len(format) && strings.IndexByte("-+ #0", format[p]) >= 0 {
			p++
		}
		flags := format[start:p]
		width, prec := -1, -1
		num := func() (int, error) {
			if p < len(format) && format[p] == '*' {
				p++
				v, err := next()
				if err != nil {
					return 0, err
				}
				n, err := toNumber(v)
				return int(n), err
			}
			n := -1
			for p < len(format) && isDigitByte(format[p]) {
				n = max(n, 0)*10 + int(format[p]-'0')
				p++
			}
			return n, nil
		}
		if width, err = num(); err != nil {
			return nil, err
		}
		if p < len(format) && format[p] == '.' {
			p++
			if prec, err = num(); err != nil {
				return nil, err
			}
			prec = max(prec, 0)
		}
		for p < len(format) && strings.IndexByte("hlLqjzt", format[p]) >= 0 {
			p++
		}
		if p >= len(format) {
			b.WriteString(format[start-1:])
			break
		}

		v, err := next()
		if err != nil {
			return nil, err
		}
		s, err := formatOne(format[p], flags, width, prec, v)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	if len(rest) > 0 {
		return nil, errorf(767, "Too many arguments for printf()")
	}
	return String(b.String()), nil
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func goVerb(verb byte, flags string, width, prec int) string {
	var b strings.Builder
	b.WriteByte('%')
	b.WriteString(flags)
	if width >= 0 {
		fmt.Fprintf(&b, "%d", width)
	}
	if prec >= 0 {
		fmt.Fprintf(&b, ".%d", prec)
	}
	b.WriteByte(verb)
	return b.String()
}

func formatOne(verb byte, flags string, width, prec int, v Value) (string, error) {
	switch verb {
	case 'd', 'i', 'u':
		n, err := toNumber(v)
		return fmt.Sprintf(goVerb('d', flags, width, prec), n), err
	case 'x', 'X', 'o', 'b', 'B':
		n, err := toNumber(v)
		if verb == 'B' {
			verb = 'b'
		}
		return fmt.Sprintf(goVerb(verb, flags, width, prec), uint64(n)), err
	case 'c':
		n, err := toNumber(v)
		return fmt.Sprintf(goVerb('c', strings.ReplaceAll(flags, "0", ""), width, -1), rune(n)), err
	case 'f', 'F', 'e', 'E', 'g', 'G':
		f, err := toFloat(v)
		if verb == 'F' {
			verb = 'f'
		}
		return fmt.Sprintf(goVerb(verb, flags, width, prec), f), err
	case 's', 'S':
		s, err := printfString(v)
		if err != nil {
			return "", err
		}
		return padString(s, verb == 'S', strings.Contains(flags, "-"), width, prec), nil
	}
	return "", errorf(766, "Not enough arguments for printf()")
}

func printfString(v Value) (string, error) {
	switch v.(type) {
	case *List, *Dict, *Funcref:
		return Format(v), nil
	}
	return toString(v)
}

func padString(s string, cells, left bool, width, prec int) string {
	measure := func(s string) int { return len(s) }
	if cells {
		measure = runewidth.StringWidth
	}
	if prec >= 0 && measure(s) > prec {
		if cells {
			s = runewidth.Truncate(s, prec, "")
		} else {
			s = s[:prec]
		}
	}
	pad := width - measure(s)
	if pad <= 0 {
		return s
	}
	if left {
		return s + strings.Repeat(" ", pad)
	}
	return strings.Repeat(" ", pad) + s
}
