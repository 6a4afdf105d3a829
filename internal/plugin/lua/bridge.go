package lua

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// ToGoValue converts a Lua value to nil, bool, int64, float64, string,
// []any or map[string]any. Functions and cycles convert to nil.
func ToGoValue(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	}
	return nil
}

// tableToGo returns a slice for a table with keys 1..n and a map
// otherwise.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.MaxN()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })
	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprint(float64(kv))
		default:
			key = k.String()
		}
		m[key] = toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value. Values of other types
// become userdata.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.CreateTable(len(val), 0)
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, e := range val {
			t.RawSetInt(i+1, ToLuaValue(L, e))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, e := range val {
			t.RawSetString(k, ToLuaValue(L, e))
		}
		return t
	}
	ud := L.NewUserData()
	ud.Value = v
	return ud
}

// optBool reads a boolean field of an options table. A nil table or a
// missing field is false.
func optBool(t *lua.LTable, key string) bool {
	if t == nil {
		return false
	}
	return lua.LVAsBool(t.RawGetString(key))
}

// optString reads a string field of an options table.
func optString(t *lua.LTable, key, def string) string {
	if t == nil {
		return def
	}
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return def
}
