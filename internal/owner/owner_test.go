package owner

import (
	"strings"
	"testing"
)

func TestNewIsUnique(t *testing.T) {
	a, b := New("surround"), New("surround")
	if a == b {
		t.Fatalf("New() returned the same id twice: %s", a)
	}
	if !strings.HasPrefix(string(a), "surround#") {
		t.Errorf("New() = %q, want surround# prefix", a)
	}
}

func TestScript(t *testing.T) {
	if got := Script("/home/u/.vimcorerc"); got != "script:/home/u/.vimcorerc" {
		t.Errorf("Script() = %q", got)
	}
}
