package command

import (
	"testing"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

func TestNewSetsOperatorArgument(t *testing.T) {
	op := New("delete", mode.MapNormal, Operator{}, "d")
	if op.Argument != vim.ArgMotion || !op.IsOperator() {
		t.Errorf("operator command = %+v", op)
	}
	mv := New("word", mode.MapNVO, Motion{}, "w", "<S-Right>")
	if len(mv.Keys) != 2 || !mv.IsMotion() || mv.Argument != vim.ArgNone {
		t.Errorf("motion command = %+v", mv)
	}
	if mv.String() != "word (w)" {
		t.Errorf("String = %q", mv.String())
	}
}

func TestFlags(t *testing.T) {
	c := New("x", mode.MapNormal, SingleExecution{}, "x").WithFlags(Repeatable | KeepVisual)
	if !c.Has(Repeatable) || !c.Has(Repeatable|KeepVisual) || c.Has(NoUndoGroup) {
		t.Errorf("flags = %b", c.Flags)
	}
}

func TestHandlerVariants(t *testing.T) {
	handlers := []Handler{SingleExecution{}, PerCaret{}, Operator{}, Motion{}, Async{}}
	kinds := map[string]bool{}
	for _, h := range handlers {
		switch h.(type) {
		case SingleExecution:
			kinds["single"] = true
		case PerCaret:
			kinds["per-caret"] = true
		case Operator:
			kinds["operator"] = true
		case Motion:
			kinds["motion"] = true
		case Async:
			kinds["async"] = true
		}
	}
	if len(kinds) != 5 {
		t.Errorf("variants = %v", kinds)
	}
}

func TestFlushRegisterDocumentOrder(t *testing.T) {
	store := vim.NewStore()
	ctx := &Context{}

	// Carets visited bottom-up.
	ctx.CaretIndex = 1
	ctx.Yank("bar", engine.Charwise)
	ctx.CaretIndex = 0
	ctx.Yank("foo", engine.Charwise)

	r, ok, err := ctx.FlushRegister(store)
	if err != nil || !ok {
		t.Fatalf("FlushRegister = %v, %v", ok, err)
	}
	if r.Text != "foo\nbar" {
		t.Errorf("Text = %q, want foo\\nbar", r.Text)
	}
	got, _ := store.Get('"')
	if len(got.Parts) != 2 || got.Parts[0] != "foo" || got.Parts[1] != "bar" {
		t.Errorf("Parts = %q", got.Parts)
	}
	if _, ok := store.Get('0'); !ok {
		t.Error("yank did not reach register 0")
	}
}

func TestFlushRegisterDelete(t *testing.T) {
	store := vim.NewStore()
	ctx := &Context{Register: 'a'}
	ctx.Deleted("line\n", engine.Linewise, false)
	if _, _, err := ctx.FlushRegister(store); err != nil {
		t.Fatal(err)
	}
	if r, _ := store.Get('a'); r.Text != "line\n" {
		t.Errorf("register a = %q", r.Text)
	}
	if _, ok, _ := ctx.FlushRegister(store); ok {
		t.Error("second flush wrote again")
	}
}

func TestChangedRange(t *testing.T) {
	ctx := &Context{}
	if _, _, ok := ctx.ChangedRange(); ok {
		t.Fatal("empty context reports a change")
	}
	ctx.Changed(10, 12)
	ctx.Changed(3, 5)
	lo, hi, _ := ctx.ChangedRange()
	if lo != 3 || hi != 12 {
		t.Errorf("ChangedRange = %d, %d", lo, hi)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(486, "Pattern not found: %s", "foo")
	if err.Error() != "E486: Pattern not found: foo" || err.Code() != 486 {
		t.Errorf("Errorf = %q", err)
	}
}
