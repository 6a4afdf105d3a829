package eval

import "fmt"

// FromGo converts a Go value to a Vim value. Supported inputs are nil,
// bool, integers, floats, strings, []any, []string and map[string]any.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []string:
		l := NewList()
		for _, s := range x {
			l.Items = append(l.Items, String(s))
		}
		return l, nil
	case []any:
		l := NewList()
		for _, it := range x {
			vv, err := FromGo(it)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, vv)
		}
		return l, nil
	case map[string]any:
		d := NewDict()
		for k, it := range x {
			vv, err := FromGo(it)
			if err != nil {
				return nil, err
			}
			d.Set(k, vv)
		}
		return d, nil
	}
	return nil, fmt.Errorf("eval: cannot convert %T", v)
}

// ToGo converts a Vim value to plain Go values: int64, float64, string,
// bool, nil, []any and map[string]any. Funcrefs become their name.
func ToGo(v Value) any {
	switch x := v.(type) {
	case Number:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Bool:
		return bool(x)
	case Special:
		return nil
	case *List:
		out := make([]any, len(x.Items))
		for n, it := range x.Items {
			out[n] = ToGo(it)
		}
		return out
	case *Dict:
		out := make(map[string]any, x.Len())
		for _, k := range x.keys {
			out[k] = ToGo(x.values[k])
		}
		return out
	case *Funcref:
		return x.Name
	}
	return nil
}
