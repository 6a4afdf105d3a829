package cursor

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for basic movements.
const (
	ActionMoveLeft        = "cursor.moveLeft"
	ActionMoveRight       = "cursor.moveRight"
	ActionBackChar        = "cursor.backChar"
	ActionForwardChar     = "cursor.forwardChar"
	ActionMoveUp          = "cursor.moveUp"
	ActionMoveDown        = "cursor.moveDown"
	ActionMoveLineStart   = "cursor.moveLineStart"
	ActionFirstNonBlank   = "cursor.firstNonBlank"
	ActionMoveLineEnd     = "cursor.moveLineEnd"
	ActionLastNonBlank    = "cursor.lastNonBlank"
	ActionGotoColumn      = "cursor.gotoColumn"
	ActionLineDown        = "cursor.lineDown"
	ActionLineUp          = "cursor.lineUp"
	ActionCurrentLine     = "cursor.currentLine"
	ActionMoveFirstLine   = "cursor.moveFirstLine"
	ActionMoveLastLine    = "cursor.moveLastLine"
	ActionMatchingBracket = "cursor.matchingBracket"
)

// motionModes are the modes plain motions are bound in.
const motionModes = mode.MapNVO

// Commands returns the motion commands.
func Commands() []*command.Command {
	cmds := []*command.Command{
		command.New(ActionMoveLeft, motionModes, command.Motion{Fn: moveLeft}, "h", "<Left>", "<C-h>"),
		command.New(ActionMoveRight, motionModes, command.Motion{Fn: moveRight}, "l", "<Right>"),
		command.New(ActionBackChar, motionModes, command.Motion{Fn: backChar}, "<BS>"),
		command.New(ActionForwardChar, motionModes, command.Motion{Fn: forwardChar}, "<Space>"),
		command.New(ActionMoveDown, motionModes, command.Motion{Fn: moveDown, KeepColumn: true}, "j", "<Down>", "<C-n>", "<C-j>"),
		command.New(ActionMoveUp, motionModes, command.Motion{Fn: moveUp, KeepColumn: true}, "k", "<Up>", "<C-p>"),
		command.New(ActionMoveLineStart, motionModes, command.Motion{Fn: lineStart}, "0", "<Home>"),
		command.New(ActionFirstNonBlank, motionModes, command.Motion{Fn: firstNonBlank}, "^"),
		command.New(ActionMoveLineEnd, motionModes, command.Motion{Fn: lineEnd, KeepColumn: true}, "$", "<End>"),
		command.New(ActionLastNonBlank, motionModes, command.Motion{Fn: lastNonBlank}, "g_"),
		command.New(ActionGotoColumn, motionModes, command.Motion{Fn: gotoColumn}, "|"),
		command.New(ActionLineDown, motionModes, command.Motion{Fn: lineDown}, "+", "<CR>"),
		command.New(ActionLineUp, motionModes, command.Motion{Fn: lineUp}, "-"),
		command.New(ActionCurrentLine, motionModes, command.Motion{Fn: currentLine}, "_"),
		command.New(ActionMoveFirstLine, motionModes, command.Motion{Fn: firstLine}, "gg", "<C-Home>"),
		command.New(ActionMoveLastLine, motionModes, command.Motion{Fn: lastLine}, "G", "<C-End>"),
		command.New(ActionMatchingBracket, motionModes, command.Motion{Fn: matchingBracket}, "%").WithFlags(command.BigMotion),
	}
	return append(cmds, wordCommands()...)
}

func moveLeft(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.Left(ctx.Editor, c.Offset(), ctx.Count)
}

// moveRight may reach the end of the line only for an operator, as in
// dl on the last character. In Normal mode that target fails.
func moveRight(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	res, err := operator.Right(ctx.Editor, c.Offset(), ctx.Count)
	if err != nil {
		return res, err
	}
	if ctx.Mode.Mode == mode.Normal && !ctx.Command.IsOperator() && operator.NormalClamp(ctx.Editor, res.Offset) == c.Offset() {
		return command.MotionResult{}, command.ErrFailed
	}
	return res, nil
}

func backChar(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.BackChar(ctx.Editor, c.Offset(), ctx.Count)
}

func forwardChar(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.ForwardChar(ctx.Editor, c.Offset(), ctx.Count)
}

// wantColumn returns the column j and k aim for and keeps it on c. A caret
// without a preferred column aims for the column it is on.
func wantColumn(ctx *command.Context, c engine.Caret) int {
	w := c.WantColumn()
	if w == engine.NoWantColumn {
		w = operator.RuneColumn(ctx.Editor, c.Offset())
		c.SetWantColumn(w)
	}
	return w
}

func moveDown(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.Down(ctx.Editor, c.Offset(), ctx.Count, wantColumn(ctx, c))
}

func moveUp(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.Up(ctx.Editor, c.Offset(), ctx.Count, wantColumn(ctx, c))
}

func lineStart(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.LineStart(ctx.Editor, c.Offset())
}

func firstNonBlank(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.FirstNonBlankMotion(ctx.Editor, c.Offset())
}

// lineEnd is $. Later vertical moves stick to the end of the line.
func lineEnd(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	res, err := operator.LineEnd(ctx.Editor, c.Offset(), ctx.Count)
	if err == nil && !ctx.Command.IsOperator() {
		c.SetWantColumn(operator.MaxColumn)
	}
	return res, err
}

func lastNonBlank(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.LastNonBlank(ctx.Editor, c.Offset(), ctx.Count)
}

func gotoColumn(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.Column(ctx.Editor, c.Offset(), ctx.Count)
}

func lineDown(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.LineDown(ctx.Editor, c.Offset(), ctx.Count)
}

func lineUp(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.LineUp(ctx.Editor, c.Offset(), ctx.Count)
}

func currentLine(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.CurrentLine(ctx.Editor, c.Offset(), ctx.Count)
}

func firstLine(ctx *command.Context, _ engine.Caret) (command.MotionResult, error) {
	return operator.GotoLine(ctx.Editor, ctx.Count)
}

// lastLine is G: the last line, or line N with a count.
func lastLine(ctx *command.Context, _ engine.Caret) (command.MotionResult, error) {
	if ctx.RawCount > 0 {
		return operator.GotoLine(ctx.Editor, ctx.RawCount)
	}
	return operator.GotoLine(ctx.Editor, ctx.Editor.LineCount())
}

// matchingBracket is %, or N% with a count.
func matchingBracket(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	if ctx.RawCount > 0 {
		return operator.PercentLine(ctx.Editor, ctx.RawCount)
	}
	return operator.MatchPair(ctx.Editor, c.Offset())
}

// withChar makes c read one character, as find and mark commands do.
func withChar(c *command.Command) *command.Command {
	return c.WithArgument(vim.ArgCharacter)
}
