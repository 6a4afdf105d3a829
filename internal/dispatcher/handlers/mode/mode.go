package mode

import (
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	inputmode "github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for mode commands.
const (
	ActionInsert          = "mode.insert"
	ActionInsertLineStart = "mode.insertLineStart"
	ActionInsertColumn0   = "mode.insertColumn0"
	ActionAppend          = "mode.append"
	ActionAppendLineEnd   = "mode.appendLineEnd"
	ActionOpenBelow       = "mode.openBelow"
	ActionOpenAbove       = "mode.openAbove"
	ActionReplace         = "mode.replace"
	ActionInsertToggle    = "mode.insertToggle"
	ActionInsertNormal    = "mode.insertNormal"
	ActionEscape          = "mode.escape"
	ActionCommandLine     = "mode.commandLine"
)

var (
	normal      = inputmode.State{Mode: inputmode.Normal}
	insertState = inputmode.State{Mode: inputmode.Insert}
	replace     = inputmode.State{Mode: inputmode.Replace}
)

// Commands returns the mode commands.
func Commands() []*command.Command {
	rep := command.Repeatable
	n := inputmode.MapNormal
	cmds := []*command.Command{
		command.New(ActionInsert, n, enter(false, insertBefore), "i", "<Insert>").WithFlags(rep),
		command.New(ActionInsertLineStart, n, enter(false, insertLineStart), "I").WithFlags(rep),
		command.New(ActionInsertColumn0, n, enter(false, insertColumn0), "gI").WithFlags(rep),
		command.New(ActionAppend, n, enter(false, appendAfter), "a").WithFlags(rep),
		command.New(ActionAppendLineEnd, n, enter(false, appendLineEnd), "A").WithFlags(rep),
		command.New(ActionOpenBelow, n, enter(true, openBelow), "o").WithFlags(rep),
		command.New(ActionOpenAbove, n, enter(true, openAbove), "O").WithFlags(rep),
		command.New(ActionReplace, n, command.SingleExecution{Fn: startReplace}, "R").WithFlags(rep),

		command.New(ActionInsertToggle, inputmode.MapInsert, command.SingleExecution{Fn: toggleInsert}, "<Insert>").
			WithFlags(command.StickyColumn),
		command.New(ActionInsertNormal, inputmode.MapInsert, command.SingleExecution{Fn: insertNormal}, "<C-o>").
			WithFlags(command.StickyColumn),

		command.New(ActionEscape, inputmode.MapAll&^inputmode.MapCommandLine, command.SingleExecution{Fn: escape}, "<Esc>", "<C-c>").
			WithFlags(command.KeepVisual),
		command.New(ActionCommandLine, inputmode.MapNormal|inputmode.MapVisual, command.SingleExecution{Fn: commandLine}, ":").
			WithArgument(vim.ArgExtended).WithFlags(command.KeepVisual),
	}
	return append(cmds, visualCommands()...)
}

// enter returns a handler that moves every caret with pos, bottom to top,
// and then starts an insert session. open marks o and O, whose count
// repeats the text on new lines.
func enter(open bool, pos func(ed engine.Editor, c engine.Caret) error) command.SingleExecution {
	return command.SingleExecution{Fn: func(ctx *command.Context) error {
		carets := ctx.Editor.Carets()
		for i := len(carets) - 1; i >= 0; i-- {
			if err := pos(ctx.Editor, carets[i]); err != nil {
				return err
			}
		}
		mem := ctx.Host.Memory()
		mem.InsertCount = ctx.Count
		mem.InsertOpen = open
		ctx.CursorSet()
		ctx.Host.SetMode(insertState)
		return nil
	}}
}

func insertBefore(engine.Editor, engine.Caret) error { return nil }

func insertLineStart(ed engine.Editor, c engine.Caret) error {
	c.MoveTo(operator.FirstNonBlank(ed, ed.OffsetToPoint(c.Offset()).Line))
	return nil
}

func insertColumn0(ed engine.Editor, c engine.Caret) error {
	c.MoveTo(ed.LineStartOffset(ed.OffsetToPoint(c.Offset()).Line))
	return nil
}

// appendAfter moves past the character under the caret. On an empty
// line the caret stays.
func appendAfter(ed engine.Editor, c engine.Caret) error {
	off := c.Offset()
	end := ed.LineEndOffset(ed.OffsetToPoint(off).Line)
	if off < end {
		_, size := utf8.DecodeRuneInString(ed.TextRange(off, min(off+utf8.UTFMax, end)))
		c.MoveTo(off + max(1, size))
	}
	return nil
}

func appendLineEnd(ed engine.Editor, c engine.Caret) error {
	c.MoveTo(ed.LineEndOffset(ed.OffsetToPoint(c.Offset()).Line))
	return nil
}

func openBelow(ed engine.Editor, c engine.Caret) error {
	end := ed.LineEndOffset(ed.OffsetToPoint(c.Offset()).Line)
	if err := ed.Insert(end, "\n"); err != nil {
		return err
	}
	c.MoveTo(end + 1)
	return nil
}

func openAbove(ed engine.Editor, c engine.Caret) error {
	start := ed.LineStartOffset(ed.OffsetToPoint(c.Offset()).Line)
	if err := ed.Insert(start, "\n"); err != nil {
		return err
	}
	c.MoveTo(start)
	return nil
}

func startReplace(ctx *command.Context) error {
	mem := ctx.Host.Memory()
	mem.InsertCount = ctx.Count
	mem.InsertOpen = false
	ctx.Host.SetMode(replace)
	return nil
}

// toggleInsert switches between Insert and Replace mode without ending
// the session.
func toggleInsert(ctx *command.Context) error {
	if ctx.Mode.Mode == inputmode.Replace {
		ctx.Host.SetMode(insertState)
	} else {
		ctx.Host.SetMode(replace)
	}
	return nil
}

func insertNormal(ctx *command.Context) error {
	ctx.Host.PushMode(inputmode.State{Mode: inputmode.Normal, SubMode: inputmode.InsertNormal})
	return nil
}

// escape leaves the current mode. In insert-normal it does nothing: the
// pending return to Insert mode happens after any command.
func escape(ctx *command.Context) error {
	ed := ctx.Editor
	switch ctx.Mode.Mode {
	case inputmode.Insert, inputmode.Replace:
		ctx.Host.SetMode(normal)
		for _, c := range ed.Carets() {
			c.MoveTo(back(ed, c.Offset()))
		}
		ctx.CursorSet()
	case inputmode.Visual, inputmode.Select:
		leaveVisual(ctx)
	case inputmode.Normal:
		if ctx.Mode.SubMode != inputmode.InsertNormal {
			ed.RemoveSecondaryCarets()
		}
	}
	return nil
}

// leaveVisual returns to Normal mode. With an exclusive selection a caret
// past its anchor steps back onto the last selected character.
func leaveVisual(ctx *command.Context) {
	ed := ctx.Editor
	if ctx.Host.Options().ExclusiveSelection() {
		for _, c := range ed.Carets() {
			if off := c.Offset(); off > c.VisualAnchor() {
				c.MoveTo(back(ed, off))
			}
		}
	}
	ctx.Host.SetMode(normal)
}

// back returns the offset of the character before off on its line, or off
// at the line start.
func back(ed engine.Editor, off int) int {
	start := ed.LineStartOffset(ed.OffsetToPoint(off).Line)
	if off <= start {
		return off
	}
	_, size := utf8.DecodeLastRuneInString(ed.TextRange(max(start, off-utf8.UTFMax), off))
	return off - max(1, size)
}
