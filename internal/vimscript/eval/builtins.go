package eval

import (
	"math"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/dshills/vimcore/internal/vimscript/parser"
)

type builtin struct {
	min, max int
	fn       func(i *Interp, args []Value) (Value, error)
}

// builtins is filled in init because its functions call back into the
// function table.
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"abs":      {1, 1, fnAbs},
		"add":      {2, 2, fnAdd},
		"call":     {2, 3, fnCall},
		"copy":     {1, 1, fnCopy},
		"count":    {2, 4, fnCount},
		"deepcopy": {1, 2, fnDeepcopy},
		"empty":    {1, 1, fnEmpty},
		"eval":     {1, 1, fnEval},
		"exists":   {1, 1, fnExists},
		"extend":   {2, 3, fnExtend},
		"filter":   {2, 2, fnFilter},
		"funcref":  {1, 3, fnFuncref},
		"function": {1, 3, fnFunction},
		"get":      {2, 3, fnGet},
		"has":      {1, 1, fnHas},
		"has_key":  {2, 2, fnHasKey},
		"index":    {2, 4, fnIndex},
		"insert":   {2, 3, fnInsert},
		"items":    {1, 1, fnItems},
		"join":     {1, 2, fnJoin},
		"keys":     {1, 1, fnKeys},
		"len":      {1, 1, fnLen},
		"map":      {2, 2, fnMap},
		"max":      {1, 1, fnMax},
		"min":      {1, 1, fnMin},
		"range":    {1, 3, fnRange},
		"remove":   {2, 3, fnRemove},
		"repeat":   {2, 2, fnRepeat},
		"reverse":  {1, 1, fnReverse},
		"sort":     {1, 3, fnSort},
		"string":   {1, 1, fnString},
		"type":     {1, 1, fnType},
		"uniq":     {1, 1, fnUniq},
		"values":   {1, 1, fnValues},

		"escape":          {2, 2, fnEscape},
		"float2nr":        {1, 1, fnFloat2nr},
		"json_decode":     {1, 1, fnJSONDecode},
		"json_encode":     {1, 1, fnJSONEncode},
		"match":           {2, 4, fnMatch},
		"matchend":        {2, 4, fnMatchend},
		"matchstr":        {2, 4, fnMatchstr},
		"printf":          {1, -1, fnPrintf},
		"split":           {1, 3, fnSplit},
		"str2float":       {1, 1, fnStr2float},
		"str2nr":          {1, 2, fnStr2nr},
		"strchars":        {1, 2, fnStrchars},
		"strdisplaywidth": {1, 2, fnStrdisplaywidth},
		"stridx":          {2, 3, fnStridx},
		"strlen":          {1, 1, fnStrlen},
		"strpart":         {2, 3, fnStrpart},
		"substitute":      {4, 4, fnSubstitute},
		"tolower":         {1, 1, fnTolower},
		"toupper":         {1, 1, fnToupper},
		"trim":            {1, 3, fnTrim},

		"col":      {1, 1, fnCol},
		"feedkeys": {1, 2, fnFeedkeys},
		"getline":  {1, 2, fnGetline},
		"getreg":   {0, 1, fnGetreg},
		"line":     {1, 1, fnLine},
		"maparg":   {1, 4, fnMaparg},
		"mode":     {0, 1, fnMode},
		"setreg":   {2, 3, fnSetreg},
	}
}

func listArg(v Value) (*List, error) {
	l, ok := v.(*List)
	if !ok {
		return nil, errorf(714, "List required")
	}
	return l, nil
}

func dictArg(v Value) (*Dict, error) {
	d, ok := v.(*Dict)
	if !ok {
		return nil, errorf(715, "Dictionary required")
	}
	return d, nil
}

func optNumber(args []Value, n int, def int64) (int64, error) {
	if n >= len(args) {
		return def, nil
	}
	return toNumber(args[n])
}

func optString(args []Value, n int, def string) (string, error) {
	if n >= len(args) {
		return def, nil
	}
	return toString(args[n])
}

func fnAbs(_ *Interp, args []Value) (Value, error) {
	if f, ok := args[0].(Float); ok {
		return Float(math.Abs(float64(f))), nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = -n
	}
	return Number(n), nil
}

func fnAdd(_ *Interp, args []Value) (Value, error) {
	l, ok := args[0].(*List)
	if !ok {
		return nil, errorf(897, "List or Blob required")
	}
	l.Items = append(l.Items, args[1])
	return l, nil
}

func fnCall(i *Interp, args []Value) (Value, error) {
	l, err := listArg(args[1])
	if err != nil {
		return nil, err
	}
	var self *Dict
	if len(args) > 2 {
		if self, err = dictArg(args[2]); err != nil {
			return nil, err
		}
	}
	callArgs := append([]Value(nil), l.Items...)
	return i.callValue(args[0], callArgs, self, nil)
}

func fnCopy(_ *Interp, args []Value) (Value, error) {
	return copyValue(args[0], false, map[any]Value{}), nil
}

func fnDeepcopy(_ *Interp, args []Value) (Value, error) {
	return copyValue(args[0], true, map[any]Value{}), nil
}

func fnCount(_ *Interp, args []Value) (Value, error) {
	ic, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, err
	}
	n := 0
	switch c := args[0].(type) {
	case String:
		sub, err := toString(args[1])
		if err != nil {
			return nil, err
		}
		s := string(c)
		if ic != 0 {
			s, sub = strings.ToLower(s), strings.ToLower(sub)
		}
		if sub != "" {
			n = strings.Count(s, sub)
		}
	case *List:
		start, err := optNumber(args, 3, 0)
		if err != nil {
			return nil, err
		}
		from, ok := listIndex(len(c.Items), start)
		if !ok && len(c.Items) > 0 {
			return nil, &ListIndexOutOfRangeError{Index: start}
		}
		for _, it := range c.Items[from:] {
			if equal(it, args[1], ic != 0) {
				n++
			}
		}
	case *Dict:
		for _, k := range c.keys {
			if equal(c.values[k], args[1], ic != 0) {
				n++
			}
		}
	default:
		return nil, errorf(706, "Argument of count() must be a List or Dictionary")
	}
	return Number(n), nil
}

func fnEmpty(_ *Interp, args []Value) (Value, error) {
	switch x := args[0].(type) {
	case Number:
		return boolNumber(x == 0), nil
	case Float:
		return boolNumber(x == 0), nil
	case String:
		return boolNumber(x == ""), nil
	case Bool:
		return boolNumber(!bool(x)), nil
	case Special:
		return Number(1), nil
	case *List:
		return boolNumber(len(x.Items) == 0), nil
	case *Dict:
		return boolNumber(x.Len() == 0), nil
	}
	return Number(0), nil
}

func fnEval(i *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	e, err := parser.ParseExpr(s)
	if err != nil {
		return nil, err
	}
	return i.eval(e)
}

func fnExists(i *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(s, "&"):
		_, err := i.host.Option(strings.TrimPrefix(strings.TrimPrefix(s[1:], "l:"), "g:"))
		return boolNumber(err == nil), nil
	case strings.HasPrefix(s, "*"):
		return boolNumber(i.HasFunction(s[1:])), nil
	case strings.HasPrefix(s, ":"):
		if _, ok := parser.Expand(s[1:]); ok {
			return Number(2), nil
		}
		return Number(0), nil
	case strings.HasPrefix(s, "$"):
		_, ok := os.LookupEnv(s[1:])
		return boolNumber(ok), nil
	}
	e, err := parser.ParseExpr(s)
	if err != nil {
		return Number(0), nil
	}
	_, err = i.eval(e)
	return boolNumber(err == nil), nil
}

func fnExtend(_ *Interp, args []Value) (Value, error) {
	switch a := args[0].(type) {
	case *List:
		b, err := listArg(args[1])
		if err != nil {
			return nil, err
		}
		add := append([]Value(nil), b.Items...)
		at := int64(len(a.Items))
		if len(args) > 2 {
			if at, err = toNumber(args[2]); err != nil {
				return nil, err
			}
			if at < 0 {
				at += int64(len(a.Items))
			}
			if at < 0 || at > int64(len(a.Items)) {
				return nil, &ListIndexOutOfRangeError{Index: at}
			}
		}
		a.Items = slices.Insert(a.Items, int(at), add...)
		return a, nil
	case *Dict:
		b, err := dictArg(args[1])
		if err != nil {
			return nil, err
		}
		how, err := optString(args, 2, "force")
		if err != nil {
			return nil, err
		}
		for _, k := range b.Keys() {
			if a.Has(k) {
				switch how {
				case "keep":
					continue
				case "error":
					return nil, errorf(737, "Key already exists: %s", k)
				}
			}
			v, _ := b.Get(k)
			a.Set(k, v)
		}
		return a, nil
	}
	return nil, errorf(712, "Argument of extend() must be a List or Dictionary")
}

func fnFilter(i *Interp, args []Value) (Value, error) {
	return i.mapFilter("filter", args[0], args[1], false)
}

func fnMap(i *Interp, args []Value) (Value, error) {
	return i.mapFilter("map", args[0], args[1], true)
}

// mapFilter runs fn, an expression string using v:key and v:val or a
// Funcref taking key and value, over the items of c in place.
func (i *Interp) mapFilter(name string, c, fn Value, isMap bool) (Value, error) {
	apply, err := i.itemFunc(fn)
	if err != nil {
		return nil, err
	}
	switch x := c.(type) {
	case *List:
		kept := x.Items[:0]
		items := append([]Value(nil), x.Items...)
		for n, it := range items {
			r, err := apply(Number(n), it)
			if err != nil {
				x.Items = append(kept, items[n:]...)
				return nil, err
			}
			if isMap {
				kept = append(kept, r)
				continue
			}
			ok, err := truthy(r)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, it)
			}
		}
		x.Items = kept
		return x, nil
	case *Dict:
		for _, k := range x.Keys() {
			v, _ := x.Get(k)
			r, err := apply(String(k), v)
			if err != nil {
				return nil, err
			}
			if isMap {
				x.Set(k, r)
				continue
			}
			ok, err := truthy(r)
			if err != nil {
				return nil, err
			}
			if !ok {
				x.Delete(k)
			}
		}
		return x, nil
	}
	return nil, errorf(712, "Argument of %s() must be a List or Dictionary", name)
}

func (i *Interp) itemFunc(fn Value) (func(key, val Value) (Value, error), error) {
	if s, ok := fn.(String); ok {
		e, err := parser.ParseExpr(string(s))
		if err != nil {
			return nil, err
		}
		return func(key, val Value) (Value, error) {
			prevKey, _ := i.vvars.Get("key")
			prevVal, _ := i.vvars.Get("val")
			i.vvars.Set("key", key)
			i.vvars.Set("val", val)
			defer func() {
				i.vvars.Set("key", prevKey)
				i.vvars.Set("val", prevVal)
			}()
			return i.eval(e)
		}, nil
	}
	if _, ok := fn.(*Funcref); !ok {
		return nil, errorf(1085, "Not a callable type: %s", Format(fn))
	}
	return func(key, val Value) (Value, error) {
		return i.callValue(fn, []Value{key, val}, nil, nil)
	}, nil
}

func fnFuncref(i *Interp, args []Value) (Value, error) {
	return i.makeFuncref(args, true)
}

func fnFunction(i *Interp, args []Value) (Value, error) {
	return i.makeFuncref(args, false)
}

// makeFuncref implements function() and funcref(). funcref() binds the
// current definition, so a later :delfunction makes calls fail with E933.
func (i *Interp) makeFuncref(args []Value, bind bool) (Value, error) {
	var ref Funcref
	switch f := args[0].(type) {
	case *Funcref:
		ref = *f
		ref.Args = append([]Value(nil), f.Args...)
	case String:
		name := string(f)
		if _, ok := builtins[name]; ok && !bind {
			ref.Name = name
			break
		}
		fn, ok := i.findFunction(name)
		if !ok {
			if v, ok := i.lookupVar(name); ok {
				if fr, ok := v.(*Funcref); ok {
					ref = *fr
					break
				}
			}
			return nil, errorf(700, "Unknown function: %s", name)
		}
		ref.Name = i.qualify(name)
		if bind {
			ref.fn = fn
		}
	default:
		return nil, errorf(129, "Function name required")
	}
	for _, a := range args[1:] {
		switch x := a.(type) {
		case *List:
			ref.Args = append(ref.Args, x.Items...)
		case *Dict:
			ref.Self = x
		default:
			return nil, errorf(923, "Second argument of function() must be a list or a dict")
		}
	}
	if len(ref.Args) == 0 {
		ref.Args = nil
	}
	return &ref, nil
}

func fnGet(_ *Interp, args []Value) (Value, error) {
	var def Value = Number(0)
	if len(args) > 2 {
		def = args[2]
	}
	switch c := args[0].(type) {
	case *List:
		n, err := toNumber(args[1])
		if err != nil {
			return nil, err
		}
		if k, ok := listIndex(len(c.Items), n); ok {
			return c.Items[k], nil
		}
		return def, nil
	case *Dict:
		key, err := toString(args[1])
		if err != nil {
			return nil, err
		}
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		return def, nil
	case *Funcref:
		what, err := toString(args[1])
		if err != nil {
			return nil, err
		}
		switch what {
		case "name":
			return String(c.Name), nil
		case "func":
			return &Funcref{Name: c.Name, fn: c.fn}, nil
		case "dict":
			if c.Self != nil {
				return c.Self, nil
			}
		case "args":
			return NewList(append([]Value(nil), c.Args...)...), nil
		}
		return def, nil
	}
	return nil, errorf(896, "Argument of get() must be a List, Dictionary or Blob")
}

var features = map[string]bool{
	"eval": true, "float": true, "lambda": true, "multi_byte": true,
	"syntax": false, "gui_running": false, "nvim": false, "vim9script": false,
}

func fnHas(_ *Interp, args []Value) (Value, error) {
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	return boolNumber(features[s]), nil
}

func fnHasKey(_ *Interp, args []Value) (Value, error) {
	d, err := dictArg(args[0])
	if err != nil {
		return nil, err
	}
	key, err := toString(args[1])
	if err != nil {
		return nil, err
	}
	return boolNumber(d.Has(key)), nil
}

func fnIndex(_ *Interp, args []Value) (Value, error) {
	l, err := listArg(args[0])
	if err != nil {
		return nil, err
	}
	start, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, err
	}
	ic, err := optNumber(args, 3, 0)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = max(start+int64(len(l.Items)), 0)
	}
	for n := int(start); n < len(l.Items); n++ {
		if equal(l.Items[n], args[1], ic != 0) {
			return Number(n), nil
		}
	}
	return Number(-1), nil
}

func fnInsert(_ *Interp, args []Value) (Value, error) {
	l, err := listArg(args[0])
	if err != nil {
		return nil, err
	}
	at, err := optNumber(args, 2, 0)
	if err != nil {
		return nil, err
	}
	if at < 0 {
		at += int64(len(l.Items))
	}
	if at < 0 || at > int64(len(l.Items)) {
		return nil, &ListIndexOutOfRangeError{Index: at}
	}
	l.Items = slices.Insert(l.Items, int(at), args[1])
	return l, nil
}

func fnItems(_ *Interp, args []Value) (Value, error) {
	d, err := dictArg(args[0])
	if err != nil {
		return nil, err
	}
	out := NewList()
	for _, k := range d.keys {
		out.Items = append(out.Items, NewList(String(k), d.values[k]))
	}
	return out, nil
}

func fnKeys(_ *Interp, args []Value) (Value, error) {
	d, err := dictArg(args[0])
	if err != nil {
		return nil, err
	}
	out := NewList()
	for _, k := range d.keys {
		out.Items = append(out.Items, String(k))
	}
	return out, nil
}

func fnValues(_ *Interp, args []Value) (Value, error) {
	d, err := dictArg(args[0])
	if err != nil {
		return nil, err
	}
	out := NewList()
	for _, k := range d.keys {
		out.Items = append(out.Items, d.values[k])
	}
	return out, nil
}

func fnJoin(_ *Interp, args []Value) (Value, error) {
	l, err := listArg(args[0])
	if err != nil {
		return nil, err
	}
	sep, err := optString(args, 1, " ")
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(l.Items))
	for n, it := range l.Items {
		if s, ok := it.(String); ok {
			parts[n] = string(s)
			continue
		}
		parts[n] = Format(it)
	}
	return String(strings.Join(parts, sep)), nil
}

func fnLen(_ *Interp, args []Value) (Value, error) {
	switch x := args[0].(type) {
	case *List:
		return Number(len(x.Items)), nil
	case *Dict:
		return Number(x.Len()), nil
	case String, Number:
		s, _ := toString(x)
		return Number(len(s)), nil
	}
	return nil, errorf(701, "Invalid type for len()")
}

func fnMax(_ *Interp, args []Value) (Value, error) {
	return extreme(args[0], func(a, b int64) bool { return a > b })
}

func fnMin(_ *Interp, args []Value) (Value, error) {
	return extreme(args[0], func(a, b int64) bool { return a < b })
}

func extreme(c Value, better func(a, b int64) bool) (Value, error) {
	var items []Value
	switch x := c.(type) {
	case *List:
		items = x.Items
	case *Dict:
		for _, k := range x.keys {
			items = append(items, x.values[k])
		}
	default:
		return nil, errorf(712, "Argument of max() must be a List or Dictionary")
	}
	var best int64
	for n, it := range items {
		v, err := toNumber(it)
		if err != nil {
			return nil, err
		}
		if n == 0 || better(v, best) {
			best = v
		}
	}
	return Number(best), nil
}

func fnRange(_ *Interp, args []Value) (Value, error) {
	a, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	start, end := int64(0), a-1
	if len(args) > 1 {
		start = a
		if end, err = toNumber(args[1]); err != nil {
			return nil, err
		}
	}
	stride, err := optNumber(args, 2, 1)
	if err != nil {
		return nil, err
	}
	switch {
	case stride == 0:
		return nil, errorf(726, "Stride is zero")
	case stride > 0 && end < start-1, stride < 0 && end > start+1:
		return nil, errorf(727, "Start past end")
	}
	out := NewList()
	for n := start; (stride > 0 && n <= end) || (stride < 0 && n >= end); n += stride {
		out.Items = append(out.Items, Number(n))
	}
	return out, nil
}

func fnRemove(_ *Interp, args []Value) (Value, error) {
	switch c := args[0].(type) {
	case *List:
		n, err := toNumber(args[1])
		if err != nil {
			return nil, err
		}
		lo, ok := listIndex(len(c.Items), n)
		if !ok {
			return nil, &ListIndexOutOfRangeError{Index: n}
		}
		if len(args) == 2 {
			v := c.Items[lo]
			c.Items = slices.Delete(c.Items, lo, lo+1)
			return v, nil
		}
		e, err := toNumber(args[2])
		if err != nil {
			return nil, err
		}
		hi, ok := listIndex(len(c.Items), e)
		if !ok {
			return nil, &ListIndexOutOfRangeError{Index: e}
		}
		if hi < lo {
			return nil, errorf(16, "Invalid range")
		}
		removed := NewList(append([]Value(nil), c.Items[lo:hi+1]...)...)
		c.Items = slices.Delete(c.Items, lo, hi+1)
		return removed, nil
	case *Dict:
		key, err := toString(args[1])
		if err != nil {
			return nil, err
		}
		v, ok := c.Get(key)
		if !ok {
			return nil, errorf(716, "Key not present in Dictionary: \"%s\"", key)
		}
		c.Delete(key)
		return v, nil
	}
	return nil, errorf(896, "Argument of remove() must be a List, Dictionary or Blob")
}

func fnRepeat(_ *Interp, args []Value) (Value, error) {
	n, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}
	n = max(n, 0)
	if l, ok := args[0].(*List); ok {
		out := NewList()
		for range n {
			out.Items = append(out.Items, l.Items...)
		}
		return out, nil
	}
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	return String(strings.Repeat(s, int(n))), nil
}

func fnReverse(_ *Interp, args []Value) (Value, error) {
	l, err := listArg(args[0])
	if err != nil {
		return nil, err
	}
	slices.Reverse(l.Items)
	return l, nil
}

// fnSort sorts a list in place. The order is stable.
func fnSort(i *Interp, args []Value) (Value, error) {
	l, err := listArg(args[0])
	if err != nil {
		return nil, err
	}
	var self *Dict
	if len(args) > 2 {
		if self, err = dictArg(args[2]); err != nil {
			return nil, err
		}
	}
	var less func(a, b Value) (bool, error)
	how := Value(String(""))
	if len(args) > 1 {
		how = args[1]
	}
	switch h := how.(type) {
	case Number:
		ic := h == 1
		less = func(a, b Value) (bool, error) { return sortString(a, ic) < sortString(b, ic), nil }
	case String:
		switch h {
		case "", "i":
			ic := h == "i"
			less = func(a, b Value) (bool, error) { return sortString(a, ic) < sortString(b, ic), nil }
		case "n":
			less = func(a, b Value) (bool, error) { return sortNumber(a) < sortNumber(b), nil }
		case "N":
			less = func(a, b Value) (bool, error) {
				x, _ := toNumber(a)
				y, _ := toNumber(b)
				return x < y, nil
			}
		case "f":
			less = func(a, b Value) (bool, error) {
				x, err := toFloat(a)
				if err != nil {
					return false, err
				}
				y, err := toFloat(b)
				return x < y, err
			}
		default:
			less = i.comparator(h, self)
		}
	case *Funcref:
		less = i.comparator(h, self)
	default:
		return nil, errorf(702, "Sort compare function failed")
	}

	var sortErr error
	sort.SliceStable(l.Items, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		r, err := less(l.Items[a], l.Items[b])
		if err != nil {
			sortErr = err
		}
		return r
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return l, nil
}

func (i *Interp) comparator(fn Value, self *Dict) func(a, b Value) (bool, error) {
	return func(a, b Value) (bool, error) {
		r, err := i.callValue(fn, []Value{a, b}, self, nil)
		if err != nil {
			return false, err
		}
		n, err := toNumber(r)
		return n < 0, err
	}
}

func sortString(v Value, ic bool) string {
	s, ok := v.(String)
	out := string(s)
	if !ok {
		out = Format(v)
	}
	if ic {
		return strings.ToLower(out)
	}
	return out
}

// sortNumber orders Numbers by value and puts everything else first.
func sortNumber(v Value) float64 {
	switch x := v.(type) {
	case Number:
		return float64(x)
	case Float:
		return float64(x)
	}
	return math.Inf(-1)
}

func fnString(_ *Interp, args []Value) (Value, error) {
	return String(Format(args[0])), nil
}

func fnType(_ *Interp, args []Value) (Value, error) {
	return Number(args[0].Kind()), nil
}

func fnUniq(_ *Interp, args []Value) (Value, error) {
	l, err := listArg(args[0])
	if err != nil {
		return nil, err
	}
	l.Items = slices.CompactFunc(l.Items, func(a, b Value) bool { return equal(a, b, false) })
	return l, nil
}
