package editor

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for put commands.
const (
	ActionPut           = "editor.put"
	ActionPutBefore     = "editor.putBefore"
	ActionPutMove       = "editor.putMove"
	ActionPutBeforeMove = "editor.putBeforeMove"
)

func putCommands() []*command.Command {
	rep := command.Repeatable
	return []*command.Command{
		command.New(ActionPut, mode.MapNormal, reverse(put(true, false)), "p").WithFlags(rep),
		command.New(ActionPutBefore, mode.MapNormal, reverse(put(false, false)), "P").WithFlags(rep),
		command.New(ActionPutMove, mode.MapNormal, reverse(put(true, true)), "gp").WithFlags(rep),
		command.New(ActionPutBeforeMove, mode.MapNormal, reverse(put(false, true)), "gP").WithFlags(rep),
	}
}

// registerText returns the text a caret puts. When the register holds
// one part per caret, each caret gets its own part.
func registerText(ctx *command.Context) (vim.Register, string, error) {
	name := ctx.Register
	if name == 0 {
		name = '"'
	}
	reg, ok := ctx.Host.Registers().Get(name)
	if !ok {
		return vim.Register{}, "", command.Errorf(353, "Nothing in register %c", name)
	}
	text := reg.Text
	if n := len(ctx.Editor.Carets()); n > 1 && len(reg.Parts) == n {
		text = reg.Parts[ctx.CaretIndex]
	}
	return reg, text, nil
}

// put is p and P. With move set (gp, gP) the caret ends just after the
// new text.
func put(after, move bool) func(ctx *command.Context, c engine.Caret) error {
	return func(ctx *command.Context, c engine.Caret) error {
		reg, text, err := registerText(ctx)
		if err != nil {
			return err
		}
		ed := ctx.Editor
		res, err := operator.Put(ed, c.Offset(), text, reg.Kind, after, ctx.Count)
		if err != nil {
			return err
		}
		pos := res.Caret
		if move {
			pos = min(res.End, ed.Len())
		}
		c.MoveTo(pos)
		ctx.Changed(res.Start, res.End)
		ctx.CursorSet()
		return nil
	}
}
