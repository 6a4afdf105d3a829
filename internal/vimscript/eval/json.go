package eval

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// fnJSONDecode parses JSON into Vim values. Object keys keep document
// order.
func fnJSONDecode(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return None, nil
	}
	if !gjson.Valid(s) {
		return nil, errorf(474, "Invalid argument")
	}
	return fromJSON(gjson.Parse(s)), nil
}

func fromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return Float(r.Float())
		}
		return Number(r.Int())
	case gjson.String:
		return String(r.Str)
	}
	if r.IsArray() {
		out := NewList()
		r.ForEach(func(_, v gjson.Result) bool {
			out.Items = append(out.Items, fromJSON(v))
			return true
		})
		return out
	}
	d := NewDict()
	r.ForEach(func(k, v gjson.Result) bool {
		d.Set(k.String(), fromJSON(v))
		return true
	})
	return d
}

func fnJSONEncode(_ *Interp, args []Value) (Value, error) {
	var b strings.Builder
	if err := encodeJSON(&b, args[0], map[any]bool{}); err != nil {
		return nil, err
	}
	return String(b.String()), nil
}

func encodeJSON(b *strings.Builder, v Value, seen map[any]bool) error {
	switch x := v.(type) {
	case Number:
		fmt.Fprintf(b, "%d", int64(x))
	case Float:
		f := float64(x)
		switch {
		case math.IsNaN(f):
			b.WriteString("NaN")
		case math.IsInf(f, 1):
			b.WriteString("Infinity")
		case math.IsInf(f, -1):
			b.WriteString("-Infinity")
		default:
			b.WriteString(formatFloat(f))
		}
	case String:
		quoteJSON(b, string(x))
	case Bool:
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Special:
		b.WriteString("null")
	case *List:
		if seen[x] {
			return errorf(724, "Variable nested too deep for displaying")
		}
		seen[x] = true
		defer delete(seen, x)
		b.WriteByte('[')
		for n, it := range x.Items {
			if n > 0 {
				b.WriteByte(',')
			}
			if err := encodeJSON(b, it, seen); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *Dict:
		if seen[x] {
			return errorf(724, "Variable nested too deep for displaying")
		}
		seen[x] = true
		defer delete(seen, x)
		b.WriteByte('{')
		for n, k := range x.keys {
			if n > 0 {
				b.WriteByte(',')
			}
			quoteJSON(b, k)
			b.WriteByte(':')
			if err := encodeJSON(b, x.values[k], seen); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return errorf(474, "Invalid argument")
	}
	return nil
}

func quoteJSON(b *strings.Builder, s string) {
	b.WriteByte('"')
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			b.WriteString(s[:size])
		}
		s = s[size:]
	}
	b.WriteByte('"')
}
