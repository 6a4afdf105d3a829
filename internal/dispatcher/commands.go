package dispatcher

import (
	"errors"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/cursor"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/editor"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/macro"
	modecmds "github.com/dshills/vimcore/internal/dispatcher/handlers/mode"
	opcmds "github.com/dshills/vimcore/internal/dispatcher/handlers/operator"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/search"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
)

// Action names for history commands.
const (
	ActionUndo = "history.undo"
	ActionRedo = "history.redo"
)

// DefaultCommands returns every built-in command.
func DefaultCommands() []*command.Command {
	var cmds []*command.Command
	cmds = append(cmds, cursor.Commands()...)
	cmds = append(cmds, editor.Commands()...)
	cmds = append(cmds, modecmds.Commands()...)
	cmds = append(cmds, opcmds.Commands()...)
	cmds = append(cmds, search.Commands()...)
	cmds = append(cmds, macro.Commands()...)
	cmds = append(cmds,
		command.New(ActionUndo, mode.MapNormal, command.SingleExecution{Fn: undo}, "u").
			WithFlags(command.NoUndoGroup),
		command.New(ActionRedo, mode.MapNormal, command.SingleExecution{Fn: redo}, "<C-r>").
			WithFlags(command.NoUndoGroup),
	)
	return cmds
}

func undo(ctx *command.Context) error {
	return walkHistory(ctx, engine.Undoer.Undo, "Already at oldest change")
}

func redo(ctx *command.Context) error {
	return walkHistory(ctx, engine.Undoer.Redo, "Already at newest change")
}

// walkHistory steps count times through the editor's history. Editors
// that keep their own undo do not implement engine.Undoer.
func walkHistory(ctx *command.Context, step func(engine.Undoer) error, exhausted string) error {
	u, ok := ctx.Editor.(engine.Undoer)
	if !ok {
		return command.ErrFailed
	}
	for i := range ctx.Count {
		if err := step(u); err != nil {
			if i == 0 {
				ctx.Host.Message(exhausted)
				return errors.Join(command.ErrFailed, err)
			}
			break
		}
	}
	ctx.CursorSet()
	return nil
}
