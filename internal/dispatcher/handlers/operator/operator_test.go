package operator

import (
	"testing"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/handlertest"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// applyVisual runs the operator command name over the selection from
// anchor to head.
func applyVisual(t *testing.T, h *handlertest.Host, doc *engine.Document, name string, sub mode.SubMode, anchor, head int) *command.Context {
	t.Helper()
	cmd := handlertest.Find(t, Commands(), name)
	op := cmd.Handler.(command.Operator)
	r := operator.VisualRange(doc, anchor, head, sub, false)
	if op.Linewise && r.Kind != engine.Linewise {
		r = operator.VisualRange(doc, anchor, head, mode.Linewise, false)
	}
	ctx := h.Context(doc, cmd, 1)
	ctx.Selection = &r
	if err := op.Fn(ctx, doc.PrimaryCaret(), r); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	h.Flush(t, ctx)
	return ctx
}

func TestVisualDeleteLinesBlock(t *testing.T) {
	h := handlertest.NewHost()
	doc := handlertest.Doc("abcd\nefgh\nij", 1)
	applyVisual(t, h, doc, ActionVisualDeleteLines, mode.Blockwise, 1, 6)
	if got := doc.Text(); got != "a\ne\nij" {
		t.Errorf("text = %q, want %q", got, "a\ne\nij")
	}
	reg, _ := h.Regs.Get('"')
	if reg.Text != "bcd\nfgh" || reg.Kind != engine.Blockwise {
		t.Errorf("register = %q (%v)", reg.Text, reg.Kind)
	}
}

func TestVisualDeleteLinesCharwise(t *testing.T) {
	h := handlertest.NewHost()
	doc := handlertest.Doc("one\ntwo\nthree", 5)
	applyVisual(t, h, doc, ActionVisualDeleteLines, mode.Characterwise, 5, 6)
	if got := doc.Text(); got != "one\nthree" {
		t.Errorf("text = %q", got)
	}
	reg, _ := h.Regs.Get('"')
	if reg.Text != "two\n" || reg.Kind != engine.Linewise {
		t.Errorf("register = %q (%v)", reg.Text, reg.Kind)
	}
}

func TestVisualReplace(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		sub    mode.SubMode
		anchor int
		head   int
		want   string
	}{
		{"charwise", "hello world", mode.Characterwise, 0, 4, "xxxxx world"},
		{"across lines", "ab\ncd", mode.Characterwise, 1, 3, "ax\nxd"},
		{"block", "abc\ndef", mode.Blockwise, 1, 6, "axx\ndxx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlertest.NewHost()
			doc := handlertest.Doc(tt.text, tt.anchor)
			cmd := handlertest.Find(t, Commands(), ActionVisualReplace)
			if cmd.Argument != vim.ArgCharacter {
				t.Fatalf("argument = %v, want character", cmd.Argument)
			}
			r := operator.VisualRange(doc, tt.anchor, tt.head, tt.sub, false)
			ctx := h.Context(doc, cmd, 1)
			ctx.Arg.Char = 'x'
			if err := replaceSelection(ctx, doc.PrimaryCaret(), r); err != nil {
				t.Fatal(err)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVisualPut(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		reg     vim.Register
		sub     mode.SubMode
		anchor  int
		head    int
		action  string
		want    string
		unnamed string
	}{
		{
			name:    "charwise over charwise",
			text:    "foo bar",
			reg:     vim.Register{Text: "baz"},
			sub:     mode.Characterwise,
			anchor:  4,
			head:    6,
			action:  ActionVisualPut,
			want:    "foo baz",
			unnamed: "bar",
		},
		{
			name:    "P keeps the register",
			text:    "foo bar",
			reg:     vim.Register{Text: "baz"},
			sub:     mode.Characterwise,
			anchor:  0,
			head:    2,
			action:  ActionVisualPutKeep,
			want:    "baz bar",
			unnamed: "baz",
		},
		{
			name:    "linewise over charwise splits the line",
			text:    "abXcd",
			reg:     vim.Register{Text: "foo\n", Kind: engine.Linewise},
			sub:     mode.Characterwise,
			anchor:  2,
			head:    2,
			action:  ActionVisualPut,
			want:    "ab\nfoo\ncd",
			unnamed: "X",
		},
		{
			name:    "charwise over lines",
			text:    "one\ntwo\nthree",
			reg:     vim.Register{Text: "new"},
			sub:     mode.Linewise,
			anchor:  4,
			head:    4,
			action:  ActionVisualPut,
			want:    "one\nnew\nthree",
			unnamed: "two\n",
		},
		{
			name:    "lines over last line",
			text:    "one\ntwo",
			reg:     vim.Register{Text: "x\n", Kind: engine.Linewise},
			sub:     mode.Linewise,
			anchor:  4,
			head:    5,
			action:  ActionVisualPut,
			want:    "one\nx",
			unnamed: "two\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlertest.NewHost()
			if err := h.Regs.Set('"', tt.reg); err != nil {
				t.Fatal(err)
			}
			doc := handlertest.Doc(tt.text, tt.anchor)
			applyVisual(t, h, doc, tt.action, tt.sub, tt.anchor, tt.head)
			if got := doc.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if reg, _ := h.Regs.Get('"'); reg.Text != tt.unnamed {
				t.Errorf("unnamed register = %q, want %q", reg.Text, tt.unnamed)
			}
		})
	}
}

func TestVisualPutEmptyRegister(t *testing.T) {
	h := handlertest.NewHost()
	doc := handlertest.Doc("abc", 0)
	cmd := handlertest.Find(t, Commands(), ActionVisualPut)
	r := operator.VisualRange(doc, 0, 1, mode.Characterwise, false)
	err := putOver(true)(h.Context(doc, cmd, 1), doc.PrimaryCaret(), r)
	if err == nil || err.Error() != `E353: Nothing in register "` {
		t.Errorf("err = %v", err)
	}
	if doc.Text() != "abc" {
		t.Errorf("text changed: %q", doc.Text())
	}
}

func TestTextObjectKeys(t *testing.T) {
	names := map[string]bool{}
	for _, c := range Commands() {
		if m, ok := c.Handler.(command.Motion); ok {
			if !m.TextObject {
				t.Errorf("%s is a motion but not a text object", c.Name)
			}
			if c.Modes != objectModes {
				t.Errorf("%s bound in %v", c.Name, c.Modes)
			}
		}
		for _, k := range c.Keys {
			names[c.Name+" "+string(k[len(k)-1].Rune)] = true
		}
	}
	for _, want := range []string{"textobject.innerParen b", "textobject.aBrace B", "textobject.innerAngle <", "textobject.aBacktick `"} {
		if !names[want] {
			t.Errorf("missing %s", want)
		}
	}
}

func TestGJoinRaw(t *testing.T) {
	h := handlertest.NewHost()
	doc := handlertest.Doc("a\n  b\nc", 0)
	applyVisual(t, h, doc, ActionVisualJoinRaw, mode.Linewise, 0, 3)
	if got := doc.Text(); got != "a  b\nc" {
		t.Errorf("text = %q", got)
	}
}
