package cursor

import (
	"unicode"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for word, sentence, paragraph, find and mark motions.
const (
	// Word motions
	ActionWordForward        = "cursor.wordForward"
	ActionBigWordForward     = "cursor.bigWordForward"
	ActionWordBackward       = "cursor.wordBackward"
	ActionBigWordBackward    = "cursor.bigWordBackward"
	ActionWordEndForward     = "cursor.wordEndForward"
	ActionBigWordEndForward  = "cursor.bigWordEndForward"
	ActionWordEndBackward    = "cursor.wordEndBackward"
	ActionBigWordEndBackward = "cursor.bigWordEndBackward"

	// Paragraph/sentence motions
	ActionSentenceForward   = "cursor.sentenceForward"
	ActionSentenceBackward  = "cursor.sentenceBackward"
	ActionParagraphForward  = "cursor.paragraphForward"
	ActionParagraphBackward = "cursor.paragraphBackward"

	// Find motions
	ActionFindForward       = "cursor.findForward"
	ActionFindBackward      = "cursor.findBackward"
	ActionTillForward       = "cursor.tillForward"
	ActionTillBackward      = "cursor.tillBackward"
	ActionRepeatFind        = "cursor.repeatFind"
	ActionRepeatFindReverse = "cursor.repeatFindReverse"

	// Marks
	ActionGotoMark     = "cursor.gotoMark"
	ActionGotoMarkLine = "cursor.gotoMarkLine"
	ActionSetMark      = "cursor.setMark"
)

func wordCommands() []*command.Command {
	return []*command.Command{
		command.New(ActionWordForward, motionModes, command.Motion{Fn: wordForward(false)}, "w", "<S-Right>"),
		command.New(ActionBigWordForward, motionModes, command.Motion{Fn: wordForward(true)}, "W", "<C-Right>"),
		command.New(ActionWordBackward, motionModes, command.Motion{Fn: wordBackward(false)}, "b", "<S-Left>"),
		command.New(ActionBigWordBackward, motionModes, command.Motion{Fn: wordBackward(true)}, "B", "<C-Left>"),
		command.New(ActionWordEndForward, motionModes, command.Motion{Fn: wordEnd(false)}, "e"),
		command.New(ActionBigWordEndForward, motionModes, command.Motion{Fn: wordEnd(true)}, "E"),
		command.New(ActionWordEndBackward, motionModes, command.Motion{Fn: wordEndBackward(false)}, "ge"),
		command.New(ActionBigWordEndBackward, motionModes, command.Motion{Fn: wordEndBackward(true)}, "gE"),

		command.New(ActionSentenceForward, motionModes, command.Motion{Fn: sentenceForward}, ")").WithFlags(command.BigMotion),
		command.New(ActionSentenceBackward, motionModes, command.Motion{Fn: sentenceBackward}, "(").WithFlags(command.BigMotion),
		command.New(ActionParagraphForward, motionModes, command.Motion{Fn: paragraphForward}, "}").WithFlags(command.BigMotion),
		command.New(ActionParagraphBackward, motionModes, command.Motion{Fn: paragraphBackward}, "{").WithFlags(command.BigMotion),

		withChar(command.New(ActionFindForward, motionModes, command.Motion{Fn: find(true, false)}, "f")),
		withChar(command.New(ActionFindBackward, motionModes, command.Motion{Fn: find(false, false)}, "F")),
		withChar(command.New(ActionTillForward, motionModes, command.Motion{Fn: find(true, true)}, "t")),
		withChar(command.New(ActionTillBackward, motionModes, command.Motion{Fn: find(false, true)}, "T")),
		command.New(ActionRepeatFind, motionModes, command.Motion{Fn: repeatFind(false)}, ";"),
		command.New(ActionRepeatFindReverse, motionModes, command.Motion{Fn: repeatFind(true)}, ","),

		withChar(command.New(ActionGotoMark, motionModes, command.Motion{Fn: gotoMark(false)}, "`")).WithFlags(command.BigMotion),
		withChar(command.New(ActionGotoMarkLine, motionModes, command.Motion{Fn: gotoMark(true)}, "'")),
		withChar(command.New(ActionSetMark, mode.MapNormal|mode.MapVisual, command.SingleExecution{Fn: setMark}, "m")).
			WithFlags(command.StickyColumn),
	}
}

type motionFunc = func(ctx *command.Context, c engine.Caret) (command.MotionResult, error)

// changesWord reports whether the motion runs for cw or cW, which stop at
// the end of a word like ce.
func changesWord(ctx *command.Context, c engine.Caret) bool {
	op, ok := ctx.Command.Handler.(command.Operator)
	if !ok || !op.Change {
		return false
	}
	ed := ctx.Editor
	off := c.Offset()
	if off >= ed.LineEndOffset(ed.OffsetToPoint(off).Line) {
		return false
	}
	r := []rune(ed.TextRange(off, min(off+4, ed.Len())))
	return len(r) > 0 && !unicode.IsSpace(r[0])
}

func wordForward(big bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		if changesWord(ctx, c) {
			return wordEndAtCaret(ctx, c, big)
		}
		return operator.WordForward(ctx.Editor, c.Offset(), ctx.Count, big, ctx.Command.IsOperator())
	}
}

// wordEndAtCaret is the cw motion. A caret already on the last
// character of a word changes just that character.
func wordEndAtCaret(ctx *command.Context, c engine.Caret, big bool) (command.MotionResult, error) {
	ed := ctx.Editor
	off := c.Offset()
	count := ctx.Count
	if atWordEnd(ed, off, big) {
		if count == 1 {
			return command.MotionResult{Offset: off, Inclusive: true}, nil
		}
		count--
	}
	return operator.WordEnd(ed, off, count, big)
}

func atWordEnd(ed engine.Editor, off int, big bool) bool {
	end := ed.LineEndOffset(ed.OffsetToPoint(off).Line)
	rs := []rune(ed.TextRange(off, min(end, off+8)))
	return len(rs) < 2 || class(rs[0], big) != class(rs[1], big)
}

func class(r rune, big bool) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case big, r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
		return 2
	}
	return 1
}

func wordBackward(big bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.WordBackward(ctx.Editor, c.Offset(), ctx.Count, big)
	}
}

func wordEnd(big bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.WordEnd(ctx.Editor, c.Offset(), ctx.Count, big)
	}
}

func wordEndBackward(big bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.WordEndBackward(ctx.Editor, c.Offset(), ctx.Count, big)
	}
}

func sentenceForward(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.SentenceForward(ctx.Editor, c.Offset(), ctx.Count)
}

func sentenceBackward(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.SentenceBackward(ctx.Editor, c.Offset(), ctx.Count)
}

func paragraphForward(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.ParagraphForward(ctx.Editor, c.Offset(), ctx.Count)
}

func paragraphBackward(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
	return operator.ParagraphBackward(ctx.Editor, c.Offset(), ctx.Count)
}

// find is f, F, t and T. The search is remembered for ; and ,.
func find(forward, till bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		ch := ctx.Arg.Char
		ctx.Host.Memory().LastFind = command.FindRecord{Char: ch, Forward: forward, Till: till}
		return operator.Find(ctx.Editor, c.Offset(), ctx.Count, ch, forward, till, false)
	}
}

func repeatFind(reverse bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		last := ctx.Host.Memory().LastFind
		if last.Char == 0 {
			return command.MotionResult{}, command.ErrFailed
		}
		forward := last.Forward != reverse
		return operator.Find(ctx.Editor, c.Offset(), ctx.Count, last.Char, forward, last.Till, true)
	}
}

func gotoMark(linewise bool) motionFunc {
	return func(ctx *command.Context, _ engine.Caret) (command.MotionResult, error) {
		return operator.MarkMotion(ctx.Editor, ctx.Arg.Char, linewise)
	}
}

// setMark is m{a-zA-Z}, placing the mark at the primary caret.
func setMark(ctx *command.Context) error {
	name := ctx.Arg.Char
	if !unicode.IsLetter(name) && name != '\'' && name != '`' && name != '[' && name != ']' && name != '<' && name != '>' {
		return command.ErrFailed
	}
	if name == '`' {
		name = '\''
	}
	ed := ctx.Editor
	ed.SetMark(name, ed.OffsetToPoint(ed.PrimaryCaret().Offset()))
	return nil
}
