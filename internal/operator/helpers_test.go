package operator

import (
	"testing"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// stubHost is the minimum command.Host operators need.
type stubHost struct {
	regs    *vim.Store
	opts    *config.Options
	mem     command.Memory
	opfuncs []string
}

func newStubHost() *stubHost {
	return &stubHost{regs: vim.NewStore(), opts: config.Default()}
}

func (h *stubHost) Registers() *vim.Store                  { return h.regs }
func (h *stubHost) Options() *config.Options               { return h.opts }
func (h *stubHost) Memory() *command.Memory                { return &h.mem }
func (h *stubHost) Mode() mode.State                       { return mode.State{} }
func (h *stubHost) SetMode(mode.State)                     {}
func (h *stubHost) PushMode(mode.State)                    {}
func (h *stubHost) PopMode()                               {}
func (h *stubHost) Message(string)                         {}
func (h *stubHost) ExecuteNormal(key.Sequence, bool) error { return nil }
func (h *stubHost) Feed(key.Sequence, bool)                {}
func (h *stubHost) ExecuteEx(string) error                 { return nil }
func (h *stubHost) Eval(string) (string, error)            { return "", nil }
func (h *stubHost) Recording() rune                        { return 0 }
func (h *stubHost) StartRecording(rune) error              { return nil }
func (h *stubHost) StopRecording() error                   { return nil }
func (h *stubHost) PlayMacro(rune, int) error              { return nil }
func (h *stubHost) RepeatLastChange(int) error             { return nil }
func (h *stubHost) CallOperatorFunc(kind string) error {
	h.opfuncs = append(h.opfuncs, kind)
	return nil
}

// apply runs an operator over the motion result from the primary caret
// and flushes the register like the dispatcher does.
func apply(t *testing.T, doc *engine.Document, host *stubHost, op func(*command.Context, engine.Caret, engine.TextRange) error, res command.MotionResult, linewise bool) *command.Context {
	t.Helper()
	c := doc.PrimaryCaret()
	ctx := &command.Context{Editor: doc, Host: host, Count: 1}
	r := ComputeRange(doc, c.Offset(), res, linewise)
	if err := op(ctx, c, r); err != nil {
		t.Fatalf("operator: %v", err)
	}
	if _, _, err := ctx.FlushRegister(host.regs); err != nil {
		t.Fatalf("FlushRegister: %v", err)
	}
	return ctx
}

func docAt(text string, off int) *engine.Document {
	doc := engine.NewDocument(text)
	doc.PrimaryCaret().MoveTo(off)
	return doc
}
