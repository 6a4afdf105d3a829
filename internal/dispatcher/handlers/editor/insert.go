package editor

import (
	"unicode"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for Insert-mode commands.
const (
	ActionBackspace      = "editor.backspace"
	ActionDeleteForward  = "editor.deleteForward"
	ActionNewline        = "editor.newline"
	ActionTab            = "editor.tab"
	ActionDeleteWordBack = "editor.deleteWordBack"
	ActionDeleteLineBack = "editor.deleteLineBack"
	ActionInsertRegister = "editor.insertRegister"
	ActionInsertLiteral  = "editor.insertLiteral"
	ActionInsertDigraph  = "editor.insertDigraph"
	ActionInsertLeft     = "editor.insertLeft"
	ActionInsertRight    = "editor.insertRight"
	ActionInsertUp       = "editor.insertUp"
	ActionInsertDown     = "editor.insertDown"
	ActionInsertHome     = "editor.insertHome"
	ActionInsertEnd      = "editor.insertEnd"
)

func insertCommands() []*command.Command {
	i := mode.MapInsert
	return []*command.Command{
		command.New(ActionBackspace, i, reverse(backspace), "<BS>", "<C-h>"),
		command.New(ActionDeleteForward, i, reverse(deleteForward), "<Del>"),
		command.New(ActionNewline, i, reverse(newline), "<CR>", "<C-j>"),
		command.New(ActionTab, i, reverse(tab), "<Tab>"),
		command.New(ActionDeleteWordBack, i, reverse(deleteWordBack), "<C-w>"),
		command.New(ActionDeleteLineBack, i, reverse(deleteLineBack), "<C-u>"),
		command.New(ActionInsertRegister, i, reverse(insertRegister), "<C-r>").WithArgument(vim.ArgCharacter),
		command.New(ActionInsertLiteral, i, reverse(insertLiteral), "<C-v>", "<C-q>").
			WithArgument(vim.ArgCharacter).WithFlags(command.Literal),
		command.New(ActionInsertDigraph, i, reverse(insertDigraph), "<C-k>").WithArgument(vim.ArgDigraph),
		command.New(ActionInsertLeft, i, command.PerCaret{Fn: insertLeft}, "<Left>"),
		command.New(ActionInsertRight, i, command.PerCaret{Fn: insertRight}, "<Right>"),
		command.New(ActionInsertUp, i, command.PerCaret{Fn: insertVertical(false)}, "<Up>").WithFlags(command.StickyColumn),
		command.New(ActionInsertDown, i, command.PerCaret{Fn: insertVertical(true)}, "<Down>").WithFlags(command.StickyColumn),
		command.New(ActionInsertHome, i, command.PerCaret{Fn: insertHome}, "<Home>").WithFlags(command.StickyColumn),
		command.New(ActionInsertEnd, i, command.PerCaret{Fn: insertEnd}, "<End>").WithFlags(command.StickyColumn),
	}
}

// Type inserts text at the caret and leaves the caret after it.
func Type(ed engine.Editor, c engine.Caret, text string) error {
	off := c.Offset()
	if err := ed.Insert(off, text); err != nil {
		return err
	}
	c.MoveTo(off + len(text))
	return nil
}

// Overtype types ch over the character under the caret, as Replace mode
// does, and returns the text it replaced. At the end of a line ch is
// inserted and the result is empty.
func Overtype(ed engine.Editor, c engine.Caret, ch rune) (string, error) {
	off := c.Offset()
	_, end := lineOf(ed, off)
	if off >= end || ch == '\n' {
		return "", Type(ed, c, string(ch))
	}
	next := advance(ed, off, 1, end)
	old := ed.TextRange(off, next)
	s := string(ch)
	if err := ed.Replace(off, next, s); err != nil {
		return "", err
	}
	c.MoveTo(off + len(s))
	return old, nil
}

func deleteBefore(ctx *command.Context, c engine.Caret, start int) error {
	off := c.Offset()
	if start >= off {
		return command.ErrFailed
	}
	if err := ctx.Editor.Delete(start, off); err != nil {
		return err
	}
	c.MoveTo(start)
	ctx.CursorSet()
	return nil
}

// backspace deletes the character before the caret, joining lines at
// column 0. In Replace mode it restores what was typed over instead.
func backspace(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	if off == 0 {
		return command.ErrFailed
	}
	prev := retreat(ed, off, 1, 0)
	if ctx.Mode.Mode != mode.Replace {
		return deleteBefore(ctx, c, prev)
	}

	mem := ctx.Host.Memory()
	if ctx.CaretIndex != 0 || len(mem.Replaced) == 0 {
		c.MoveTo(prev)
		return nil
	}
	old := mem.Replaced[len(mem.Replaced)-1]
	mem.Replaced = mem.Replaced[:len(mem.Replaced)-1]
	if old == "" {
		return deleteBefore(ctx, c, prev)
	}
	if err := ed.Replace(prev, off, old); err != nil {
		return err
	}
	c.MoveTo(prev)
	ctx.CursorSet()
	return nil
}

// deleteForward deletes the character under the caret, joining the next
// line at the end of a line.
func deleteForward(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	if off >= ed.Len() {
		return command.ErrFailed
	}
	return ed.Delete(off, advance(ed, off, 1, ed.Len()))
}

func newline(ctx *command.Context, c engine.Caret) error {
	return Type(ctx.Editor, c, "\n")
}

// tab inserts a tab, or spaces to the next tab stop with 'expandtab'.
func tab(ctx *command.Context, c engine.Caret) error {
	opts := ctx.Host.Options()
	if !opts.ExpandTab || opts.TabStop <= 0 {
		return Type(ctx.Editor, c, "\t")
	}
	ed := ctx.Editor
	start, _ := lineOf(ed, c.Offset())
	col := 0
	for _, r := range ed.TextRange(start, c.Offset()) {
		if r == '\t' {
			col += opts.TabStop - col%opts.TabStop
		} else {
			col++
		}
	}
	n := opts.TabStop - col%opts.TabStop
	spaces := make([]byte, n)
	for i := range spaces {
		spaces[i] = ' '
	}
	return Type(ed, c, string(spaces))
}

// deleteWordBack is <C-W>: blanks before the caret, then the word or run
// of punctuation before them. At column 0 it joins the previous line.
func deleteWordBack(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	start, _ := lineOf(ed, off)
	if off == start {
		if off == 0 {
			return command.ErrFailed
		}
		return deleteBefore(ctx, c, off-1)
	}
	rs := []rune(ed.TextRange(start, off))
	i := len(rs)
	for i > 0 && (rs[i-1] == ' ' || rs[i-1] == '\t') {
		i--
	}
	if i > 0 {
		cls := wordClass(rs[i-1])
		for i > 0 && wordClass(rs[i-1]) == cls && cls != 0 {
			i--
		}
	}
	return deleteBefore(ctx, c, start+len(string(rs[:i])))
}

func wordClass(r rune) int {
	switch {
	case r == ' ' || r == '\t':
		return 0
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 2
	}
	return 1
}

// deleteLineBack is <C-U>: the text typed on this line since Insert mode
// began, or else everything before the caret back to the indent.
func deleteLineBack(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	start, _ := lineOf(ed, off)
	if is := ctx.Host.Memory().InsertStart; ctx.CaretIndex == 0 && is > start && is < off {
		return deleteBefore(ctx, c, is)
	}
	fnb := operator.FirstNonBlank(ed, ed.OffsetToPoint(off).Line)
	if fnb < off {
		return deleteBefore(ctx, c, fnb)
	}
	return deleteBefore(ctx, c, start)
}

// insertRegister is <C-R>{reg}.
func insertRegister(ctx *command.Context, c engine.Caret) error {
	ctx.Register = ctx.Arg.Char
	_, text, err := registerText(ctx)
	if err != nil {
		return err
	}
	return Type(ctx.Editor, c, text)
}

// insertLiteral is <C-V>{key} or <C-V> and a character code. Keys without
// a character are inserted in key notation.
func insertLiteral(ctx *command.Context, c engine.Caret) error {
	if ctx.Arg.Text != "" {
		return Type(ctx.Editor, c, ctx.Arg.Text)
	}
	if ch := ctx.Arg.Char; ch != 0 {
		return Type(ctx.Editor, c, string(ch))
	}
	return Type(ctx.Editor, c, ctx.Arg.Key.Notation())
}

// insertDigraph is <C-K>{char1}{char2}. An unknown pair inserts char2.
func insertDigraph(ctx *command.Context, c engine.Caret) error {
	pair := []rune(ctx.Arg.Text)
	if len(pair) != 2 {
		return command.ErrFailed
	}
	r, ok := Digraph(pair[0], pair[1])
	if !ok {
		r = pair[1]
	}
	return Type(ctx.Editor, c, string(r))
}

func insertLeft(ctx *command.Context, c engine.Caret) error {
	start, _ := lineOf(ctx.Editor, c.Offset())
	if c.Offset() <= start {
		return command.ErrFailed
	}
	c.MoveTo(retreat(ctx.Editor, c.Offset(), 1, start))
	c.SetWantColumn(operator.RuneColumn(ctx.Editor, c.Offset()))
	return nil
}

func insertRight(ctx *command.Context, c engine.Caret) error {
	_, end := lineOf(ctx.Editor, c.Offset())
	if c.Offset() >= end {
		return command.ErrFailed
	}
	c.MoveTo(advance(ctx.Editor, c.Offset(), 1, end))
	c.SetWantColumn(operator.RuneColumn(ctx.Editor, c.Offset()))
	return nil
}

func insertVertical(down bool) func(ctx *command.Context, c engine.Caret) error {
	return func(ctx *command.Context, c engine.Caret) error {
		ed := ctx.Editor
		line := ed.OffsetToPoint(c.Offset()).Line
		if down {
			line++
		} else {
			line--
		}
		if line < 0 || line >= ed.LineCount() {
			return command.ErrFailed
		}
		want := c.WantColumn()
		if want == engine.NoWantColumn {
			want = operator.RuneColumn(ed, c.Offset())
		}
		c.MoveTo(operator.OffsetAtColumn(ed, line, want, true))
		c.SetWantColumn(want)
		return nil
	}
}

func insertHome(ctx *command.Context, c engine.Caret) error {
	start, _ := lineOf(ctx.Editor, c.Offset())
	c.MoveTo(start)
	c.SetWantColumn(0)
	return nil
}

func insertEnd(ctx *command.Context, c engine.Caret) error {
	_, end := lineOf(ctx.Editor, c.Offset())
	c.MoveTo(end)
	c.SetWantColumn(operator.MaxColumn)
	return nil
}
