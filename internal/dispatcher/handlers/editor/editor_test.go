package editor

import (
	"errors"
	"testing"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/handlertest"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// run invokes the PerCaret command name for the primary caret.
func run(t *testing.T, h *handlertest.Host, doc *engine.Document, name string, count int, arg command.Argument) (*command.Context, error) {
	t.Helper()
	cmd := handlertest.Find(t, Commands(), name)
	pc, ok := cmd.Handler.(command.PerCaret)
	if !ok {
		t.Fatalf("%s is %T, want PerCaret", name, cmd.Handler)
	}
	ctx := h.Context(doc, cmd, count)
	ctx.Arg = arg
	if pc.Check != nil {
		if err := pc.Check(ctx, doc.PrimaryCaret()); err != nil {
			return ctx, err
		}
	}
	err := pc.Fn(ctx, doc.PrimaryCaret())
	if err == nil {
		h.Flush(t, ctx)
	}
	return ctx, err
}

func TestNormalEdits(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		off    int
		action string
		count  int
		arg    command.Argument
		want   string
		caret  int
		reg    string
	}{
		{"x", "hello", 1, ActionDeleteChar, 0, command.Argument{}, "hllo", 1, "e"},
		{"3x", "hello", 1, ActionDeleteChar, 3, command.Argument{}, "ho", 1, "ell"},
		{"x past end", "ab\ncd", 1, ActionDeleteChar, 5, command.Argument{}, "a\ncd", 0, "b"},
		{"x multibyte", "aé b", 1, ActionDeleteChar, 0, command.Argument{}, "a b", 1, "é"},
		{"X", "hello", 3, ActionDeleteCharBack, 2, command.Argument{}, "hlo", 1, "el"},
		{"D", "foo bar\nbaz", 4, ActionDeleteToEnd, 0, command.Argument{}, "foo \nbaz", 3, "bar"},
		{"2D", "foo bar\nbaz\nqux", 4, ActionDeleteToEnd, 2, command.Argument{}, "foo \nqux", 3, "bar\nbaz"},
		{"Y", "one\ntwo", 1, ActionYankLine, 0, command.Argument{}, "one\ntwo", 1, "one\n"},
		{"2Y", "one\ntwo\nthree", 0, ActionYankLine, 2, command.Argument{}, "one\ntwo\nthree", 0, "one\ntwo\n"},
		{"J", "a\n   b", 0, ActionJoin, 0, command.Argument{}, "a b", 1, ""},
		{"3J", "a\nb\nc\nd", 0, ActionJoin, 3, command.Argument{}, "a b c\nd", 3, ""},
		{"gJ", "a\n   b", 0, ActionJoinRaw, 0, command.Argument{}, "a   b", 1, ""},
		{"r", "abc", 0, ActionReplaceChar, 2, command.Argument{Char: 'x'}, "xxc", 1, ""},
		{"r enter", "abc", 1, ActionReplaceChar, 0, command.Argument{Char: '\r'}, "a\nc", 2, ""},
		{"~", "aBc", 0, ActionToggleCase, 2, command.Argument{}, "Abc", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlertest.NewHost()
			doc := handlertest.Doc(tt.text, tt.off)
			if _, err := run(t, h, doc, tt.action, tt.count, tt.arg); err != nil {
				t.Fatal(err)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if got := doc.PrimaryCaret().Offset(); got != tt.caret {
				t.Errorf("caret = %d, want %d", got, tt.caret)
			}
			reg, _ := h.Regs.Get('"')
			if reg.Text != tt.reg {
				t.Errorf("register = %q, want %q", reg.Text, tt.reg)
			}
		})
	}
}

func TestEditFailures(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		off    int
		action string
	}{
		{"x on empty line", "\nabc", 0, ActionDeleteChar},
		{"X at column 0", "abc", 0, ActionDeleteCharBack},
		{"J on last line", "abc", 0, ActionJoin},
		{"r past line end", "ab", 1, ActionReplaceChar},
		{"D past last line", "ab", 0, ActionDeleteToEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlertest.NewHost()
			doc := handlertest.Doc(tt.text, tt.off)
			count := 1
			if tt.action == ActionReplaceChar || tt.action == ActionDeleteToEnd {
				count = 3
			}
			_, err := run(t, h, doc, tt.action, count, command.Argument{Char: 'x'})
			if err == nil {
				t.Fatal("expected an error")
			}
			if doc.Text() != tt.text {
				t.Errorf("text changed to %q", doc.Text())
			}
		})
	}
}

func TestChangeEntersInsert(t *testing.T) {
	tests := []struct {
		action string
		text   string
		off    int
		want   string
		caret  int
	}{
		{ActionChangeToEnd, "foo bar", 4, "foo ", 4},
		{ActionSubstitute, "foo", 1, "fo", 1},
		{ActionSubstituteLine, "  foo\nbar", 3, "\nbar", 0},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			h := handlertest.NewHost()
			doc := handlertest.Doc(tt.text, tt.off)
			if _, err := run(t, h, doc, tt.action, 1, command.Argument{}); err != nil {
				t.Fatal(err)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if got := doc.PrimaryCaret().Offset(); got != tt.caret {
				t.Errorf("caret = %d, want %d", got, tt.caret)
			}
			if got := h.Mode().Mode; got != mode.Insert {
				t.Errorf("mode = %v, want insert", got)
			}
			if h.Mem.InsertCount != 1 {
				t.Errorf("InsertCount = %d, want 1", h.Mem.InsertCount)
			}
		})
	}
}

func TestPut(t *testing.T) {
	tests := []struct {
		name   string
		reg    vim.Register
		action string
		count  int
		want   string
		caret  int
	}{
		{"p charwise", vim.Register{Text: "XY"}, ActionPut, 0, "aXYbc", 2},
		{"P charwise", vim.Register{Text: "XY"}, ActionPutBefore, 0, "XYabc", 1},
		{"2p charwise", vim.Register{Text: "X"}, ActionPut, 2, "aXXbc", 2},
		{"gp charwise", vim.Register{Text: "XY"}, ActionPutMove, 0, "aXYbc", 3},
		{"p linewise", vim.Register{Text: "new\n", Kind: engine.Linewise}, ActionPut, 0, "abc\nnew", 4},
		{"P linewise", vim.Register{Text: "new\n", Kind: engine.Linewise}, ActionPutBefore, 0, "new\nabc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlertest.NewHost()
			if err := h.Regs.Set('"', tt.reg); err != nil {
				t.Fatal(err)
			}
			doc := handlertest.Doc("abc", 0)
			if _, err := run(t, h, doc, tt.action, tt.count, command.Argument{}); err != nil {
				t.Fatal(err)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if got := doc.PrimaryCaret().Offset(); got != tt.caret {
				t.Errorf("caret = %d, want %d", got, tt.caret)
			}
		})
	}
}

func TestPutEmptyRegister(t *testing.T) {
	h := handlertest.NewHost()
	doc := handlertest.Doc("abc", 0)
	_, err := run(t, h, doc, ActionPut, 1, command.Argument{})
	var ce *command.Error
	if !errors.As(err, &ce) || ce.Code() != 353 {
		t.Errorf("err = %v, want E353", err)
	}
}

func TestInsertCommands(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		off    int
		action string
		arg    command.Argument
		want   string
		caret  int
	}{
		{"backspace", "abc", 2, ActionBackspace, command.Argument{}, "ac", 1},
		{"backspace joins lines", "ab\ncd", 3, ActionBackspace, command.Argument{}, "abcd", 2},
		{"delete", "abc", 1, ActionDeleteForward, command.Argument{}, "ac", 1},
		{"delete joins lines", "ab\ncd", 2, ActionDeleteForward, command.Argument{}, "abcd", 2},
		{"newline", "abcd", 2, ActionNewline, command.Argument{}, "ab\ncd", 3},
		{"tab", "ab", 1, ActionTab, command.Argument{}, "a\tb", 2},
		{"word back", "foo bar  ", 9, ActionDeleteWordBack, command.Argument{}, "foo ", 4},
		{"word back punctuation", "foo.bar()", 9, ActionDeleteWordBack, command.Argument{}, "foo.bar", 7},
		{"word back at column 0", "ab\ncd", 3, ActionDeleteWordBack, command.Argument{}, "abcd", 2},
		{"line back", "  foo bar", 9, ActionDeleteLineBack, command.Argument{}, "  ", 2},
		{"line back from indent", "  foo", 2, ActionDeleteLineBack, command.Argument{}, "foo", 0},
		{"literal escape", "ab", 1, ActionInsertLiteral, command.Argument{Char: 0x1b}, "a\x1bb", 2},
		{"digraph", "", 0, ActionInsertDigraph, command.Argument{Text: "e'"}, "é", 2},
		{"reversed digraph", "", 0, ActionInsertDigraph, command.Argument{Text: ":a"}, "ä", 2},
		{"unknown digraph", "", 0, ActionInsertDigraph, command.Argument{Text: "#q"}, "q", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlertest.NewHost()
			h.Modes.Replace(mode.State{Mode: mode.Insert})
			doc := handlertest.Doc(tt.text, tt.off)
			if _, err := run(t, h, doc, tt.action, 1, tt.arg); err != nil {
				t.Fatal(err)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if got := doc.PrimaryCaret().Offset(); got != tt.caret {
				t.Errorf("caret = %d, want %d", got, tt.caret)
			}
		})
	}
}

func TestExpandTab(t *testing.T) {
	h := handlertest.NewHost()
	h.Opts.ExpandTab = true
	h.Opts.TabStop = 4
	doc := handlertest.Doc("ab", 1)
	if _, err := run(t, h, doc, ActionTab, 1, command.Argument{}); err != nil {
		t.Fatal(err)
	}
	if got := doc.Text(); got != "a   b" {
		t.Errorf("text = %q", got)
	}
}

func TestInsertRegister(t *testing.T) {
	h := handlertest.NewHost()
	if err := h.Regs.Set('a', vim.Register{Text: "xyz"}); err != nil {
		t.Fatal(err)
	}
	doc := handlertest.Doc("ab", 1)
	if _, err := run(t, h, doc, ActionInsertRegister, 1, command.Argument{Char: 'a'}); err != nil {
		t.Fatal(err)
	}
	if got := doc.Text(); got != "axyzb" {
		t.Errorf("text = %q", got)
	}
}

func TestOvertypeAndBackspace(t *testing.T) {
	h := handlertest.NewHost()
	h.Modes.Replace(mode.State{Mode: mode.Replace})
	doc := handlertest.Doc("ab", 0)
	c := doc.PrimaryCaret()
	for _, ch := range "xyz" {
		old, err := Overtype(doc, c, ch)
		if err != nil {
			t.Fatal(err)
		}
		h.Mem.Replaced = append(h.Mem.Replaced, old)
	}
	if got := doc.Text(); got != "xyz" {
		t.Fatalf("after overtype text = %q", got)
	}
	for range 2 {
		if _, err := run(t, h, doc, ActionBackspace, 1, command.Argument{}); err != nil {
			t.Fatal(err)
		}
	}
	if got := doc.Text(); got != "xb" {
		t.Errorf("after backspace text = %q, want %q", got, "xb")
	}
	if got := c.Offset(); got != 1 {
		t.Errorf("caret = %d, want 1", got)
	}
}
