package lua

import (
	"errors"
	"slices"
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestSandboxRemovesLoaders(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s = %v, want nil", name, v)
		}
	}
}

func TestSandboxRequire(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{"string", `local s = require("string"); assert(s.upper("a") == "A")`, ""},
		{"math", `assert(require("math").floor(1.5) == 1)`, ""},
		{"provided", `assert(require("vim").answer == 42)`, ""},
		{"os", `require("os")`, `module "os" is not available`},
		{"io", `require("io")`, `module "io" is not available`},
		{"path", `require("../secret")`, "is not available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState()
			defer state.Close()
			mod := state.L.NewTable()
			mod.RawSetString("answer", glua.LNumber(42))
			state.Sandbox().Provide("vim", mod)

			err := state.DoString("t", tt.code)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("DoString() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DoString() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSandboxPrint(t *testing.T) {
	state := NewState()
	defer state.Close()

	var got []string
	state.Sandbox().SetPrinter(func(s string) { got = append(got, s) })
	if err := state.DoString("t", `print("a", 1, true, nil)`); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"a\t1\ttrue\tnil"}) {
		t.Errorf("printed %q", got)
	}

	state.Sandbox().SetPrinter(nil)
	if err := state.DoString("t", `print("dropped")`); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("printed after SetPrinter(nil): %q", got)
	}
}

func TestSandboxCapabilities(t *testing.T) {
	state := NewState()
	defer state.Close()
	sb := state.Sandbox()

	if len(sb.Capabilities()) != 0 {
		t.Errorf("new sandbox has %v", sb.Capabilities())
	}
	sb.Grant(CapabilityKeymap, CapabilityBuffer)
	if !slices.Equal(sb.Capabilities(), []Capability{CapabilityBuffer, CapabilityKeymap}) {
		t.Errorf("Capabilities() = %v", sb.Capabilities())
	}
	sb.Revoke(CapabilityKeymap)
	if sb.HasCapability(CapabilityKeymap) {
		t.Error("keymap still granted after Revoke")
	}

	err := sb.CheckCapability(CapabilityKeymap, "map")
	var ce *CapabilityError
	if !errors.As(err, &ce) || ce.Capability != CapabilityKeymap {
		t.Fatalf("CheckCapability() = %v", err)
	}
	if err.Error() != `vim.map requires capability "keymap"` {
		t.Errorf("error = %q", err.Error())
	}
	if err := sb.CheckCapability(CapabilityBuffer, "buf.insert"); err != nil {
		t.Errorf("CheckCapability(buffer) = %v", err)
	}
}

func TestParseCapability(t *testing.T) {
	for _, c := range AllCapabilities() {
		if got, ok := ParseCapability(" " + string(c)); !ok || got != c {
			t.Errorf("ParseCapability(%q) = %q, %v", c, got, ok)
		}
	}
	if _, ok := ParseCapability("network"); ok {
		t.Error("ParseCapability(network) succeeded")
	}
}
