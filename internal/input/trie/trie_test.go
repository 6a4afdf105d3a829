package trie

import (
	"errors"
	"testing"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
)

type cmd struct{ name string }

func seq(s string) key.Sequence {
	return key.MustParse(s)
}

func TestInsertAndLookup(t *testing.T) {
	tr := New[*cmd]()
	g := &cmd{"g"}
	gg := &cmd{"gg"}
	dd := &cmd{"dd"}

	for _, c := range []struct {
		keys string
		cmd  *cmd
	}{{"g", g}, {"gg", gg}, {"dd", dd}} {
		if err := tr.Insert(seq(c.keys), c.cmd, "builtin", false); err != nil {
			t.Fatalf("Insert(%q) error = %v", c.keys, err)
		}
	}

	tests := []struct {
		keys   string
		status Status
		want   *cmd
	}{
		{"g", Ambiguous, g},
		{"gg", Terminal, gg},
		{"d", Partial, nil},
		{"dd", Terminal, dd},
		{"x", NotFound, nil},
		{"ggg", NotFound, nil},
	}

	for _, tt := range tests {
		got := tr.Lookup(seq(tt.keys))
		if got.Status != tt.status {
			t.Errorf("Lookup(%q) status = %v, want %v", tt.keys, got.Status, tt.status)
		}
		if got.Entry.Value != tt.want {
			t.Errorf("Lookup(%q) value = %v, want %v", tt.keys, got.Entry.Value, tt.want)
		}
	}

	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
}

func TestInsertConflict(t *testing.T) {
	tr := New[*cmd]()
	a, b := &cmd{"a"}, &cmd{"b"}

	if err := tr.Insert(seq("x"), a, "one", false); err != nil {
		t.Fatal(err)
	}
	if err := tr.Insert(seq("x"), a, "two", false); err != nil {
		t.Errorf("reinserting the same command error = %v", err)
	}

	err := tr.Insert(seq("x"), b, "three", false)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Insert() error = %v, want ConflictError", err)
	}
	if conflict.Owner != "two" {
		t.Errorf("conflict owner = %q, want two", conflict.Owner)
	}

	if err := tr.Insert(seq("x"), b, "three", true); err != nil {
		t.Fatalf("override Insert() error = %v", err)
	}
	if e, _ := tr.Get(seq("x")); e.Value != b || e.Owner != "three" {
		t.Errorf("Get() = %+v, want b owned by three", e)
	}

	if err := tr.Insert(nil, a, "", false); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Insert(empty) error = %v, want ErrEmptySequence", err)
	}
}

func TestRemovePrunes(t *testing.T) {
	tr := New[*cmd]()
	c := &cmd{"c"}
	_ = tr.Insert(seq("<C-w>jk"), c, "", false)

	if !tr.Remove(seq("<C-w>jk")) {
		t.Fatal("Remove() = false")
	}
	if got := tr.Lookup(seq("<C-w>")); got.Status != NotFound {
		t.Errorf("after Remove, Lookup(<C-w>) = %v, want not-found", got.Status)
	}
	if tr.Remove(seq("<C-w>jk")) {
		t.Error("second Remove() = true")
	}
}

func TestRemoveKeepsLongerCommands(t *testing.T) {
	tr := New[*cmd]()
	_ = tr.Insert(seq("g"), &cmd{"g"}, "", false)
	_ = tr.Insert(seq("gu"), &cmd{"gu"}, "", false)

	tr.Remove(seq("g"))
	if got := tr.Lookup(seq("g")); got.Status != Partial {
		t.Errorf("Lookup(g) = %v, want partial", got.Status)
	}
	if got := tr.Lookup(seq("gu")); got.Status != Terminal {
		t.Errorf("Lookup(gu) = %v, want terminal", got.Status)
	}
}

func TestRemoveOwnedAndWalk(t *testing.T) {
	tr := New[*cmd]()
	_ = tr.Insert(seq("b"), &cmd{"b"}, "plugin", false)
	_ = tr.Insert(seq("a"), &cmd{"a"}, "builtin", false)
	_ = tr.Insert(seq("<F1>"), &cmd{"f1"}, "plugin", false)
	_ = tr.Insert(seq("ab"), &cmd{"ab"}, "plugin", false)

	var order []string
	tr.Walk(func(s key.Sequence, e Entry[*cmd]) bool {
		order = append(order, e.Value.name)
		return true
	})
	want := []string{"f1", "a", "ab", "b"}
	if len(order) != len(want) {
		t.Fatalf("Walk order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Walk order = %v, want %v", order, want)
		}
	}

	if n := tr.RemoveOwned("plugin"); n != 3 {
		t.Errorf("RemoveOwned() = %d, want 3", n)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
	if got := tr.Lookup(seq("a")); got.Status != Terminal {
		t.Errorf("Lookup(a) = %v, want terminal", got.Status)
	}
}

func TestSetInsertAcrossModes(t *testing.T) {
	s := NewSet[*cmd]()
	w := &cmd{"w"}
	if err := s.Insert(mode.MapNormal|mode.MapVisual|mode.MapOperatorPending, seq("w"), w, "", false); err != nil {
		t.Fatal(err)
	}
	if got := s.For(mode.MapVisual).Lookup(seq("w")); got.Entry.Value != w {
		t.Errorf("visual lookup = %+v", got)
	}
	if got := s.For(mode.MapInsert).Lookup(seq("w")); got.Status != NotFound {
		t.Errorf("insert lookup = %v, want not-found", got.Status)
	}

	other := &cmd{"other"}
	_ = s.Insert(mode.MapVisual, seq("x"), other, "", false)
	if err := s.Insert(mode.MapNormal|mode.MapVisual, seq("x"), w, "", false); err == nil {
		t.Error("Insert() over visual x should conflict")
	}
	if got := s.For(mode.MapNormal).Lookup(seq("x")); got.Status != NotFound {
		t.Error("conflicting Insert() must not change any mode")
	}

	if n := s.Remove(mode.MapNVO, seq("w")); n != 3 {
		t.Errorf("Remove() = %d, want 3", n)
	}
}
