// Package handlertest provides a command.Host for testing command
// handlers without a dispatcher.
package handlertest

import (
	"testing"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Host records what handlers ask of the dispatcher.
type Host struct {
	Regs  *vim.Store
	Opts  *config.Options
	Mem   command.Memory
	Modes *mode.Stack

	Messages []string
	Fed      []string
	Normal   []string
	Ex       []string
	Played   []rune
	Repeats  []int

	Recorder rune
}

var _ command.Host = (*Host)(nil)

// NewHost creates a Host with default options and empty registers.
func NewHost() *Host {
	return &Host{Regs: vim.NewStore(), Opts: config.Default(), Modes: mode.NewStack()}
}

func (h *Host) Registers() *vim.Store         { return h.Regs }
func (h *Host) Options() *config.Options      { return h.Opts }
func (h *Host) Memory() *command.Memory       { return &h.Mem }
func (h *Host) Mode() mode.State              { return h.Modes.Top() }
func (h *Host) SetMode(st mode.State)         { h.Modes.Replace(st) }
func (h *Host) PushMode(st mode.State)        { h.Modes.Push(st) }
func (h *Host) PopMode()                      { h.Modes.Pop() }
func (h *Host) Message(msg string)            { h.Messages = append(h.Messages, msg) }
func (h *Host) Eval(string) (string, error)   { return "", nil }
func (h *Host) CallOperatorFunc(string) error { return nil }
func (h *Host) Recording() rune               { return h.Recorder }

func (h *Host) ExecuteNormal(keys key.Sequence, _ bool) error {
	h.Normal = append(h.Normal, key.ToNotation(keys))
	return nil
}

func (h *Host) Feed(keys key.Sequence, _ bool) {
	h.Fed = append(h.Fed, key.ToNotation(keys))
}

func (h *Host) ExecuteEx(line string) error {
	h.Ex = append(h.Ex, line)
	return nil
}

func (h *Host) StartRecording(reg rune) error {
	h.Recorder = reg
	return nil
}

func (h *Host) StopRecording() error {
	h.Recorder = 0
	return nil
}

func (h *Host) PlayMacro(reg rune, _ int) error {
	h.Played = append(h.Played, reg)
	return nil
}

func (h *Host) RepeatLastChange(count int) error {
	h.Repeats = append(h.Repeats, count)
	return nil
}

// Context returns a context for running a handler on doc with count.
func (h *Host) Context(doc engine.Editor, cmd *command.Command, count int) *command.Context {
	raw := count
	if count < 1 {
		count = 1
	}
	return &command.Context{
		Editor:   doc,
		Host:     h,
		Command:  cmd,
		Count:    count,
		RawCount: raw,
		Mode:     h.Modes.Top(),
	}
}

// Find returns the command named name from cmds.
func Find(t *testing.T, cmds []*command.Command, name string) *command.Command {
	t.Helper()
	for _, c := range cmds {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no command %q", name)
	return nil
}

// Flush writes the registers a handler queued.
func (h *Host) Flush(t *testing.T, ctx *command.Context) {
	t.Helper()
	if _, _, err := ctx.FlushRegister(h.Regs); err != nil {
		t.Fatalf("FlushRegister: %v", err)
	}
}

// Doc creates a document with the primary caret at off.
func Doc(text string, off int) *engine.Document {
	doc := engine.NewDocument(text)
	doc.PrimaryCaret().MoveTo(off)
	return doc
}
