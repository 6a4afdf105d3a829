package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the type() code of a value.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindFunc
	KindList
	KindDict
	KindFloat
	KindBool
	KindNone
)

// Value is a Vimscript value: Number, String, Float, Bool, Special, *List,
// *Dict or *Funcref.
type Value interface {
	Kind() Kind
}

// Number is a 64-bit integer.
type Number int64

// Float is a 64-bit float.
type Float float64

// String is a byte string.
type String string

// Bool is v:true or v:false.
type Bool bool

// Special is v:null or v:none.
type Special uint8

const (
	Null Special = iota
	None
)

// List is a mutable list shared by reference.
type List struct {
	Items []Value
}

// Dict is a mutable dictionary shared by reference. Keys keep insertion
// order.
type Dict struct {
	keys   []string
	values map[string]Value
	locked map[string]bool
}

// Funcref refers to a function, optionally with bound arguments and a
// bound self dictionary. A Funcref made with function() resolves Name when
// called; one made with funcref(), a lambda or a dictionary function holds
// the definition itself.
type Funcref struct {
	Name string
	Args []Value
	Self *Dict

	fn *function
}

func (Number) Kind() Kind   { return KindNumber }
func (Float) Kind() Kind    { return KindFloat }
func (String) Kind() Kind   { return KindString }
func (Bool) Kind() Kind     { return KindBool }
func (Special) Kind() Kind  { return KindNone }
func (*List) Kind() Kind    { return KindList }
func (*Dict) Kind() Kind    { return KindDict }
func (*Funcref) Kind() Kind { return KindFunc }

// NewList returns a list holding items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{values: make(map[string]Value)}
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Set stores v under key. New keys go last.
func (d *Dict) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Delete removes key and reports whether it was present.
func (d *Dict) Delete(key string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	delete(d.locked, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

func (d *Dict) lock(key string) {
	if d.locked == nil {
		d.locked = make(map[string]bool)
	}
	d.locked[key] = true
}

func (d *Dict) isLocked(key string) bool {
	return d.locked[key]
}

func (d *Dict) clear() {
	d.keys = nil
	d.values = make(map[string]Value)
	d.locked = nil
}

func boolNumber(b bool) Number {
	if b {
		return 1
	}
	return 0
}

// toNumber converts v as arithmetic and conditions do.
func toNumber(v Value) (int64, error) {
	switch x := v.(type) {
	case Number:
		return int64(x), nil
	case String:
		return str2nr(string(x), 0), nil
	case Bool:
		return int64(boolNumber(bool(x))), nil
	case Special:
		return 0, nil
	case Float:
		return 0, errorf(805, "Using a Float as a Number")
	case *List:
		return 0, errorf(745, "Using a List as a Number")
	case *Dict:
		return 0, errorf(728, "Using a Dictionary as a Number")
	case *Funcref:
		return 0, errorf(703, "Using a Funcref as a Number")
	}
	return 0, errorf(685, "Internal error: unknown value %T", v)
}

// toString converts v as concatenation does.
func toString(v Value) (string, error) {
	switch x := v.(type) {
	case String:
		return string(x), nil
	case Number:
		return strconv.FormatInt(int64(x), 10), nil
	case Bool:
		if x {
			return "v:true", nil
		}
		return "v:false", nil
	case Special:
		if x == None {
			return "v:none", nil
		}
		return "v:null", nil
	case Float:
		return formatFloat(float64(x)), nil
	case *List:
		return "", errorf(730, "Using List as a String")
	case *Dict:
		return "", errorf(731, "Using Dictionary as a String")
	case *Funcref:
		return "", errorf(729, "Using Funcref as a String")
	}
	return "", errorf(685, "Internal error: unknown value %T", v)
}

func toFloat(v Value) (float64, error) {
	if f, ok := v.(Float); ok {
		return float64(f), nil
	}
	n, err := toNumber(v)
	return float64(n), err
}

func truthy(v Value) (bool, error) {
	n, err := toNumber(v)
	return n != 0, err
}

// str2nr parses the leading number of s. Base 0 accepts 0x, 0b, 0o and
// leading-zero octal prefixes.
func str2nr(s string, base int) int64 {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg, s = true, s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	lower := strings.ToLower(s)
	switch {
	case (base == 0 || base == 16) && strings.HasPrefix(lower, "0x"):
		base, s = 16, s[2:]
	case (base == 0 || base == 2) && strings.HasPrefix(lower, "0b"):
		base, s = 2, s[2:]
	case (base == 0 || base == 8) && strings.HasPrefix(lower, "0o"):
		base, s = 8, s[2:]
	case base == 0 && len(s) > 1 && s[0] == '0' && allOctal(s):
		base = 8
	case base == 0:
		base = 10
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d < 0 || d >= base {
			break
		}
		if n > (math.MaxInt64-uint64(d))/uint64(base) {
			n = math.MaxInt64
			break
		}
		n = n*uint64(base) + uint64(d)
	}
	if neg {
		return -int64(n)
	}
	return int64(n)
}

func allOctal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return true
		}
		if s[i] > '7' {
			return false
		}
	}
	return true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// formatFloat formats f the way :echo does: "%g" with a ".0" added to
// whole numbers.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 6, 64)
	mant, exp, hasExp := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	if !hasExp {
		return mant
	}
	sign := ""
	switch exp[0] {
	case '-':
		sign = "-"
		exp = exp[1:]
	case '+':
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

// Format returns v as string() shows it.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v, true, map[any]bool{})
	return b.String()
}

// Display returns v as :echo shows it: strings unquoted at the top level.
func Display(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	if f, ok := v.(*Funcref); ok && f.Args == nil && f.Self == nil {
		return f.Name
	}
	var b strings.Builder
	format(&b, v, true, map[any]bool{})
	return b.String()
}

func format(b *strings.Builder, v Value, quote bool, seen map[any]bool) {
	switch x := v.(type) {
	case String:
		if !quote {
			b.WriteString(string(x))
			return
		}
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(string(x), "'", "''"))
		b.WriteByte('\'')
	case *List:
		if seen[x] {
			b.WriteString("[...]")
			return
		}
		seen[x] = true
		b.WriteByte('[')
		for i, it := range x.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, it, true, seen)
		}
		b.WriteByte(']')
		delete(seen, x)
	case *Dict:
		if seen[x] {
			b.WriteString("{...}")
			return
		}
		seen[x] = true
		b.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, String(k), true, seen)
			b.WriteString(": ")
			format(b, x.values[k], true, seen)
		}
		b.WriteByte('}')
		delete(seen, x)
	case *Funcref:
		if x.Args == nil && x.Self == nil {
			fmt.Fprintf(b, "function('%s')", x.Name)
			return
		}
		fmt.Fprintf(b, "function('%s'", x.Name)
		if x.Args != nil {
			b.WriteString(", ")
			format(b, &List{Items: x.Args}, true, seen)
		}
		if x.Self != nil {
			b.WriteString(", ")
			format(b, x.Self, true, seen)
		}
		b.WriteByte(')')
	default:
		s, _ := toString(v)
		b.WriteString(s)
	}
}

// copyValue returns a shallow copy, or a deep copy when deep is set.
func copyValue(v Value, deep bool, seen map[any]Value) Value {
	switch x := v.(type) {
	case *List:
		if c, ok := seen[x]; ok {
			return c
		}
		out := &List{Items: make([]Value, len(x.Items))}
		seen[x] = out
		for i, it := range x.Items {
			if deep {
				it = copyValue(it, true, seen)
			}
			out.Items[i] = it
		}
		return out
	case *Dict:
		if c, ok := seen[x]; ok {
			return c
		}
		out := NewDict()
		seen[x] = out
		for _, k := range x.keys {
			it := x.values[k]
			if deep {
				it = copyValue(it, true, seen)
			}
			out.Set(k, it)
		}
		return out
	}
	return v
}

// equal compares values as == does inside lists and dictionaries: values
// of different types are never equal.
func equal(a, b Value, ic bool) bool {
	switch x := a.(type) {
	case Number:
		switch y := b.(type) {
		case Number:
			return x == y
		case Bool:
			return int64(x) == int64(boolNumber(bool(y)))
		}
		return false
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case String:
		y, ok := b.(String)
		if !ok {
			return false
		}
		if ic {
			return strings.EqualFold(string(x), string(y))
		}
		return x == y
	case Bool:
		switch y := b.(type) {
		case Bool:
			return x == y
		case Number:
			return int64(boolNumber(bool(x))) == int64(y)
		}
		return false
	case Special:
		y, ok := b.(Special)
		return ok && x == y
	case *List:
		y, ok := b.(*List)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !equal(x.Items[i], y.Items[i], ic) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.values[k]
			if !ok || !equal(x.values[k], yv, ic) {
				return false
			}
		}
		return true
	case *Funcref:
		y, ok := b.(*Funcref)
		if !ok {
			return false
		}
		if x.Name != y.Name || x.Self != y.Self || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !equal(x.Args[i], y.Args[i], ic) {
				return false
			}
		}
		return true
	}
	return false
}
