package operator

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for operators.
const (
	ActionDelete     = "operator.delete"
	ActionChange     = "operator.change"
	ActionYank       = "operator.yank"
	ActionIndent     = "operator.indent"
	ActionOutdent    = "operator.outdent"
	ActionLowercase  = "operator.lowercase"
	ActionUppercase  = "operator.uppercase"
	ActionToggleCase = "operator.toggleCase"
	ActionRot13      = "operator.rot13"
	ActionFunc       = "operator.func"
)

// Action names for Visual-mode commands.
const (
	ActionVisualDelete      = "operator.visualDelete"
	ActionVisualDeleteLines = "operator.visualDeleteLines"
	ActionVisualChange      = "operator.visualChange"
	ActionVisualChangeLines = "operator.visualChangeLines"
	ActionVisualYankLines   = "operator.visualYankLines"
	ActionVisualJoin        = "operator.visualJoin"
	ActionVisualJoinRaw     = "operator.visualJoinRaw"
	ActionVisualReplace     = "operator.visualReplace"
	ActionVisualPut         = "operator.visualPut"
	ActionVisualPutKeep     = "operator.visualPutKeep"
	ActionVisualToggleCase  = "operator.visualToggleCase"
	ActionVisualLowercase   = "operator.visualLowercase"
	ActionVisualUppercase   = "operator.visualUppercase"
	ActionSelectDelete      = "operator.selectDelete"
)

const (
	opModes     = mode.MapNormal | mode.MapVisual
	visualModes = mode.MapVisual
)

// Commands returns the operators and Visual-mode commands.
func Commands() []*command.Command {
	rep := command.Repeatable
	cmds := []*command.Command{
		command.New(ActionDelete, opModes, command.Operator{Fn: operator.Delete}, "d").WithFlags(rep),
		command.New(ActionChange, opModes, command.Operator{Fn: operator.Change, Change: true}, "c").WithFlags(rep),
		command.New(ActionYank, opModes, command.Operator{Fn: operator.Yank}, "y"),
		command.New(ActionIndent, opModes, command.Operator{Fn: operator.ShiftRight, Linewise: true}, ">").WithFlags(rep),
		command.New(ActionOutdent, opModes, command.Operator{Fn: operator.ShiftLeft, Linewise: true}, "<").WithFlags(rep),
		command.New(ActionLowercase, opModes, command.Operator{Fn: operator.Lower}, "gu").WithFlags(rep),
		command.New(ActionUppercase, opModes, command.Operator{Fn: operator.Upper}, "gU").WithFlags(rep),
		command.New(ActionToggleCase, opModes, command.Operator{Fn: operator.ToggleCase}, "g~").WithFlags(rep),
		command.New(ActionRot13, opModes, command.Operator{Fn: operator.Rot13}, "g?").WithFlags(rep),
		command.New(ActionFunc, opModes, command.Operator{Fn: operator.OperatorFunc}, "g@").WithFlags(rep),

		command.New(ActionVisualDelete, visualModes, command.Operator{Fn: operator.Delete}, "x", "<Del>"),
		command.New(ActionVisualDeleteLines, visualModes, command.Operator{Fn: deleteLines}, "X", "D"),
		command.New(ActionVisualChange, visualModes, command.Operator{Fn: operator.Change, Change: true}, "s"),
		command.New(ActionVisualChangeLines, visualModes, command.Operator{Fn: operator.Change, Change: true, Linewise: true}, "S", "R", "C"),
		command.New(ActionVisualYankLines, visualModes, command.Operator{Fn: operator.Yank, Linewise: true}, "Y"),
		command.New(ActionVisualJoin, visualModes, command.Operator{Fn: operator.Join, Linewise: true}, "J"),
		command.New(ActionVisualJoinRaw, visualModes, command.Operator{Fn: joinRaw, Linewise: true}, "gJ"),
		command.New(ActionVisualReplace, visualModes, command.Operator{Fn: replaceSelection}, "r").WithArgument(vim.ArgCharacter),
		command.New(ActionVisualPut, visualModes, command.Operator{Fn: putOver(true)}, "p"),
		command.New(ActionVisualPutKeep, visualModes, command.Operator{Fn: putOver(false)}, "P"),
		command.New(ActionVisualToggleCase, visualModes, command.Operator{Fn: operator.ToggleCase}, "~"),
		command.New(ActionVisualLowercase, visualModes, command.Operator{Fn: operator.Lower}, "u"),
		command.New(ActionVisualUppercase, visualModes, command.Operator{Fn: operator.Upper}, "U"),

		command.New(ActionSelectDelete, mode.MapSelect, command.Operator{Fn: deleteSelection}, "<BS>", "<C-h>", "<Del>"),
	}
	return append(cmds, textObjects()...)
}

// deleteSelection is <BS> in Select mode. The text goes to the black hole
// register.
func deleteSelection(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ctx.Register = '_'
	return operator.Delete(ctx, c, r)
}

// deleteLines is X and D in Visual mode. A block selection is deleted to
// the end of each line; any other selection deletes whole lines.
func deleteLines(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	if r.Kind != engine.Blockwise {
		return operator.Delete(ctx, c, asLines(ctx.Editor, r))
	}
	ed := ctx.Editor
	first := ed.OffsetToPoint(r.Start).Line
	last := ed.OffsetToPoint(r.End).Line
	left, _ := operator.BlockColumns(ed, r)
	var parts []string
	for line := last; line >= first; line-- {
		start := operator.OffsetAtColumn(ed, line, left, true)
		end := ed.LineEndOffset(line)
		parts = append(parts, ed.TextRange(start, end))
		if err := ed.Delete(start, end); err != nil {
			return err
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	ctx.Deleted(strings.Join(parts, "\n"), engine.Blockwise, false)
	pos := operator.NormalClamp(ed, operator.OffsetAtColumn(ed, first, left, true))
	c.MoveTo(pos)
	ctx.Changed(pos, pos)
	ctx.CursorSet()
	return nil
}

// asLines widens r to whole lines.
func asLines(ed engine.Editor, r engine.TextRange) engine.TextRange {
	end := r.End
	if r.Kind != engine.Blockwise {
		end = max(r.Start, r.End-1)
	}
	return operator.ComputeRange(ed, r.Start, command.MotionResult{Offset: end, Linewise: true}, true)
}

// joinRaw is gJ in Visual mode: the selected lines are concatenated
// without inserting or removing spaces.
func joinRaw(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	first := ed.OffsetToPoint(r.Start).Line
	last := ed.OffsetToPoint(max(r.Start, r.End-1)).Line
	pos, err := operator.JoinLines(ed, first, max(2, last-first+1), false)
	if err != nil {
		return err
	}
	c.MoveTo(pos)
	ctx.Changed(ed.LineStartOffset(first), ed.LineEndOffset(first))
	ctx.CursorSet()
	return nil
}

// replaceSelection is r{char} in Visual mode: every selected character
// except line breaks becomes char.
func replaceSelection(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	ch := ctx.Arg.Char
	if ch == '\r' {
		ch = '\n'
	}
	spans := []operator.Span{{Start: r.Start, End: r.End}}
	if r.Kind == engine.Blockwise {
		spans = operator.BlockSpans(ed, r)
	}
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		old := ed.TextRange(s.Start, s.End)
		repl := strings.Map(func(x rune) rune {
			if x == '\n' {
				return x
			}
			return ch
		}, old)
		if repl == old {
			continue
		}
		if err := ed.Replace(s.Start, s.End, repl); err != nil {
			return err
		}
	}
	c.MoveTo(spans[0].Start)
	ctx.Changed(r.Start, r.End)
	ctx.CursorSet()
	return nil
}

// putOver is p and P in Visual mode: the selection is replaced by the
// register. p also stores the replaced text in the unnamed register
// when no register was named.
func putOver(store bool) func(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return func(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
		ed := ctx.Editor
		name := ctx.Register
		if name == 0 {
			name = '"'
		}
		reg, ok := ctx.Host.Registers().Get(name)
		if !ok {
			return command.Errorf(353, "Nothing in register %c", name)
		}
		text := reg.Text
		if n := len(ed.Carets()); n > 1 && len(reg.Parts) == n {
			text = reg.Parts[ctx.CaretIndex]
		}

		old := operator.RangeText(ed, r)
		if store && (ctx.Register == 0 || ctx.Register == '"') {
			ctx.Deleted(old, r.Kind, false)
		}

		if r.Kind == engine.Blockwise || reg.Kind == engine.Blockwise {
			return putBlock(ctx, c, r, text, reg.Kind)
		}

		text = strings.Repeat(text, ctx.Count)
		start, end := r.Start, r.End
		switch {
		case r.Kind == engine.Linewise && reg.Kind != engine.Linewise:
			text += "\n"
		case r.Kind != engine.Linewise && reg.Kind == engine.Linewise:
			text = "\n" + text
		}
		if r.Kind == engine.Linewise && end >= ed.Len() && !strings.HasSuffix(ed.TextRange(start, end), "\n") {
			text = strings.TrimSuffix(text, "\n")
		}
		if err := ed.Replace(start, end, text); err != nil {
			return err
		}

		pos := start
		switch {
		case reg.Kind == engine.Linewise:
			line := ed.OffsetToPoint(start).Line
			if r.Kind != engine.Linewise {
				line++
			}
			pos = operator.FirstNonBlank(ed, line)
		case r.Kind != engine.Linewise:
			_, size := utf8.DecodeLastRuneInString(text)
			pos = max(start, start+len(text)-size)
		}
		pos = operator.NormalClamp(ed, pos)
		c.MoveTo(pos)
		ctx.Changed(start, start+len(text))
		ctx.CursorSet()
		return nil
	}
}

func putBlock(ctx *command.Context, c engine.Caret, r engine.TextRange, text string, kind engine.RangeKind) error {
	ed := ctx.Editor
	var at int
	if r.Kind == engine.Blockwise {
		spans := operator.BlockSpans(ed, r)
		for i := len(spans) - 1; i >= 0; i-- {
			if err := ed.Delete(spans[i].Start, spans[i].End); err != nil {
				return err
			}
		}
		at = spans[0].Start
	} else {
		if err := ed.Delete(r.Start, r.End); err != nil {
			return err
		}
		at = r.Start
	}
	res, err := operator.Put(ed, at, text, kind, false, ctx.Count)
	if err != nil {
		return err
	}
	c.MoveTo(operator.NormalClamp(ed, res.Caret))
	ctx.Changed(res.Start, res.End)
	ctx.CursorSet()
	return nil
}
