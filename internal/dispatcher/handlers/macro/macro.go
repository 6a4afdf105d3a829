package macro

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Action names for macro commands.
const (
	ActionRecord = "macro.record"
	ActionPlay   = "macro.play"
	ActionRepeat = "macro.repeat"
)

// Commands returns the macro and repeat commands.
func Commands() []*command.Command {
	return []*command.Command{
		command.New(ActionRecord, mode.MapNormal, command.SingleExecution{Fn: record}, "q").
			WithArgument(vim.ArgCharacter).WithFlags(command.RecordToggle | command.StickyColumn),
		command.New(ActionPlay, mode.MapNormal, command.SingleExecution{Fn: play}, "@").
			WithArgument(vim.ArgCharacter).WithFlags(command.StickyColumn),
		command.New(ActionRepeat, mode.MapNormal, command.SingleExecution{Fn: repeat}, "."),
	}
}

// record toggles recording. Starting needs a named or numbered register,
// or '"'.
func record(ctx *command.Context) error {
	if ctx.Host.Recording() != 0 {
		return ctx.Host.StopRecording()
	}
	reg := ctx.Arg.Char
	if !recordable(reg) {
		return command.ErrFailed
	}
	return ctx.Host.StartRecording(reg)
}

func play(ctx *command.Context) error {
	reg := ctx.Arg.Char
	if !recordable(reg) && !playable(reg) {
		return command.ErrFailed
	}
	return ctx.Host.PlayMacro(reg, ctx.Count)
}

func repeat(ctx *command.Context) error {
	return ctx.Host.RepeatLastChange(ctx.RawCount)
}

func recordable(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '"'
}

// playable are the read-only and selection registers @ also accepts.
func playable(r rune) bool {
	switch r {
	case '@', ':', '.', '-', '*', '+':
		return true
	}
	return false
}
