package lua

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestToGoValue(t *testing.T) {
	state := NewState()
	defer state.Close()

	tests := []struct {
		name string
		code string
		want any
	}{
		{"nil", `v = nil`, nil},
		{"bool", `v = true`, true},
		{"integer", `v = 3`, int64(3)},
		{"float", `v = 1.5`, 1.5},
		{"string", `v = "x"`, "x"},
		{"array", `v = {1, "two", false}`, []any{int64(1), "two", false}},
		{"map", `v = {a = 1, b = {2}}`, map[string]any{"a": int64(1), "b": []any{int64(2)}}},
		{"empty", `v = {}`, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := state.DoString("t", tt.code); err != nil {
				t.Fatal(err)
			}
			if got := ToGoValue(state.GetGlobal("v")); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToGoValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestToGoValueCycle(t *testing.T) {
	state := NewState()
	defer state.Close()
	if err := state.DoString("t", `v = {name = "self"}; v.me = v`); err != nil {
		t.Fatal(err)
	}
	got, ok := ToGoValue(state.GetGlobal("v")).(map[string]any)
	if !ok || got["name"] != "self" {
		t.Fatalf("ToGoValue() = %#v", got)
	}
	if got["me"] != nil {
		t.Errorf("cycle converted to %#v, want nil", got["me"])
	}
}

func TestToLuaValue(t *testing.T) {
	state := NewState()
	defer state.Close()
	L := state.L

	tests := []struct {
		name  string
		in    any
		check string
	}{
		{"nil", nil, `assert(v == nil)`},
		{"bool", true, `assert(v == true)`},
		{"int", 4, `assert(v == 4)`},
		{"int64", int64(5), `assert(v == 5)`},
		{"float", 0.5, `assert(v == 0.5)`},
		{"string", "s", `assert(v == "s")`},
		{"strings", []string{"a", "b"}, `assert(#v == 2 and v[2] == "b")`},
		{"slice", []any{1, "x"}, `assert(v[1] == 1 and v[2] == "x")`},
		{"map", map[string]any{"k": []any{true}}, `assert(v.k[1] == true)`},
		{"lvalue", glua.LString("raw"), `assert(v == "raw")`},
		{"other", struct{}{}, `assert(type(v) == "userdata")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state.SetGlobal("v", ToLuaValue(L, tt.in))
			if err := state.DoString("check", tt.check); err != nil {
				t.Error(err)
			}
		})
	}
}
