package editor

import (
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for Normal-mode edits.
const (
	ActionDeleteChar     = "editor.deleteChar"
	ActionDeleteCharBack = "editor.deleteCharBack"
	ActionDeleteToEnd    = "editor.deleteToEnd"
	ActionChangeToEnd    = "editor.changeToEnd"
	ActionSubstitute     = "editor.substitute"
	ActionSubstituteLine = "editor.substituteLine"
	ActionYankLine       = "editor.yankLine"
	ActionJoin           = "editor.join"
	ActionJoinRaw        = "editor.joinRaw"
	ActionReplaceChar    = "editor.replaceChar"
	ActionToggleCase     = "editor.toggleCase"
)

// Commands returns the Normal-mode editing commands followed by the
// Insert-mode commands.
func Commands() []*command.Command {
	rep := command.Repeatable
	n := mode.MapNormal
	cmds := []*command.Command{
		command.New(ActionDeleteChar, n, reverse(deleteChar), "x", "<Del>").WithFlags(rep),
		command.New(ActionDeleteCharBack, n, reverse(deleteCharBack), "X").WithFlags(rep),
		command.New(ActionDeleteToEnd, n, reverse(deleteToEnd), "D").WithFlags(rep),
		command.New(ActionChangeToEnd, n, reverse(changeToEnd), "C").WithFlags(rep),
		command.New(ActionSubstitute, n, reverse(substitute), "s").WithFlags(rep),
		command.New(ActionSubstituteLine, n, reverse(substituteLine), "S").WithFlags(rep),
		command.New(ActionYankLine, n, command.PerCaret{Fn: yankLine}, "Y"),
		command.New(ActionJoin, n, joinCommand(true), "J").WithFlags(rep),
		command.New(ActionJoinRaw, n, joinCommand(false), "gJ").WithFlags(rep),
		command.New(ActionReplaceChar, n, reverse(replaceChar), "r").WithArgument(vim.ArgCharacter).WithFlags(rep),
		command.New(ActionToggleCase, n, reverse(toggleCase), "~").WithFlags(rep),
	}
	cmds = append(cmds, putCommands()...)
	return append(cmds, insertCommands()...)
}

func reverse(fn func(ctx *command.Context, c engine.Caret) error) command.PerCaret {
	return command.PerCaret{Fn: fn, Order: command.Reverse}
}

// advance returns the offset n characters after off, stopping at limit.
func advance(ed engine.Editor, off, n, limit int) int {
	for i := 0; i < n && off < limit; i++ {
		_, size := utf8.DecodeRuneInString(ed.TextRange(off, min(off+utf8.UTFMax, limit)))
		off += max(1, size)
	}
	return min(off, limit)
}

// retreat returns the offset n characters before off, stopping at limit.
func retreat(ed engine.Editor, off, n, limit int) int {
	for i := 0; i < n && off > limit; i++ {
		_, size := utf8.DecodeLastRuneInString(ed.TextRange(max(limit, off-utf8.UTFMax), off))
		off -= max(1, size)
	}
	return max(off, limit)
}

func lineOf(ed engine.Editor, off int) (start, end int) {
	line := ed.OffsetToPoint(off).Line
	return ed.LineStartOffset(line), ed.LineEndOffset(line)
}

// deleteChar is x: count characters under and after the caret, never
// past the end of the line.
func deleteChar(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	_, end := lineOf(ed, off)
	if off >= end {
		return command.ErrFailed
	}
	r := engine.TextRange{Start: off, End: advance(ed, off, ctx.Count, end)}
	return operator.Delete(ctx, c, r)
}

// deleteCharBack is X.
func deleteCharBack(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	start, _ := lineOf(ed, off)
	if off <= start {
		return command.ErrFailed
	}
	r := engine.TextRange{Start: retreat(ed, off, ctx.Count, start), End: off}
	return operator.Delete(ctx, c, r)
}

func toLineEnd(ctx *command.Context, c engine.Caret) (engine.TextRange, error) {
	res, err := operator.LineEnd(ctx.Editor, c.Offset(), ctx.Count)
	if err != nil {
		return engine.TextRange{}, err
	}
	return operator.ComputeRange(ctx.Editor, c.Offset(), res, false), nil
}

// deleteToEnd is D, which deletes to the end of the line count-1 lines
// down.
func deleteToEnd(ctx *command.Context, c engine.Caret) error {
	r, err := toLineEnd(ctx, c)
	if err != nil {
		return err
	}
	if r.Start == r.End {
		return nil
	}
	return operator.Delete(ctx, c, r)
}

// startInsert enters Insert mode once the change is made.
func startInsert(ctx *command.Context) {
	mem := ctx.Host.Memory()
	mem.InsertCount = 1
	mem.InsertOpen = false
	ctx.Host.SetMode(mode.State{Mode: mode.Insert})
}

// changeToEnd is C.
func changeToEnd(ctx *command.Context, c engine.Caret) error {
	r, err := toLineEnd(ctx, c)
	if err != nil {
		return err
	}
	if err := operator.Change(ctx, c, r); err != nil {
		return err
	}
	startInsert(ctx)
	return nil
}

// substitute is s: change count characters. On an empty line it just
// starts inserting.
func substitute(ctx *command.Context, c engine.Caret) error {
	ed := ctx.Editor
	off := c.Offset()
	_, end := lineOf(ed, off)
	r := engine.TextRange{Start: off, End: advance(ed, off, ctx.Count, end)}
	if r.Start < r.End {
		if err := operator.Change(ctx, c, r); err != nil {
			return err
		}
	}
	startInsert(ctx)
	return nil
}

// countLines returns the linewise range of count lines from the caret,
// clamped to the document.
func countLines(ctx *command.Context, c engine.Caret) engine.TextRange {
	ed := ctx.Editor
	line := ed.OffsetToPoint(c.Offset()).Line
	last := min(ed.LineCount()-1, line+ctx.Count-1)
	res := command.MotionResult{Offset: ed.LineStartOffset(last), Linewise: true}
	return operator.ComputeRange(ed, c.Offset(), res, true)
}

// substituteLine is S, the same as cc.
func substituteLine(ctx *command.Context, c engine.Caret) error {
	if err := operator.Change(ctx, c, countLines(ctx, c)); err != nil {
		return err
	}
	startInsert(ctx)
	return nil
}

// yankLine is Y, the same as yy.
func yankLine(ctx *command.Context, c engine.Caret) error {
	return operator.Yank(ctx, c, countLines(ctx, c))
}

// joinCommand is J and gJ: join count lines, at least two. Joining fails
// for every caret when any caret is on the last line.
func joinCommand(spaces bool) command.PerCaret {
	return command.PerCaret{
		Order:        command.Reverse,
		AllOrNothing: true,
		Check: func(ctx *command.Context, c engine.Caret) error {
			if ctx.Editor.OffsetToPoint(c.Offset()).Line+1 >= ctx.Editor.LineCount() {
				return command.ErrFailed
			}
			return nil
		},
		Fn: func(ctx *command.Context, c engine.Caret) error {
			ed := ctx.Editor
			line := ed.OffsetToPoint(c.Offset()).Line
			pos, err := operator.JoinLines(ed, line, max(2, ctx.Count), spaces)
			if err != nil {
				return err
			}
			c.MoveTo(pos)
			ctx.Changed(ed.LineStartOffset(line), ed.LineEndOffset(line))
			ctx.CursorSet()
			return nil
		},
	}
}

// replaceChar is r{char}. r<CR> splits the line.
func replaceChar(ctx *command.Context, c engine.Caret) error {
	ch := ctx.Arg.Char
	if ch == 0 {
		return command.ErrFailed
	}
	start := c.Offset()
	pos, err := operator.ReplaceChars(ctx.Editor, start, ctx.Count, ch)
	if err != nil {
		return err
	}
	c.MoveTo(pos)
	ctx.Changed(start, pos)
	ctx.CursorSet()
	return nil
}

// toggleCase is ~, which moves past the characters it changed.
func toggleCase(ctx *command.Context, c engine.Caret) error {
	start := c.Offset()
	pos, err := operator.ToggleChars(ctx.Editor, start, ctx.Count)
	if err != nil {
		return err
	}
	c.MoveTo(pos)
	ctx.Changed(start, pos)
	ctx.CursorSet()
	return nil
}
