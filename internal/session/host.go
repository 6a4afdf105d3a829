package session

import (
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/eval"
)

// scriptHost is the session as the interpreter sees it. It is separate
// from Session so the interpreter's Mode and Register methods do not
// become part of the session API.
type scriptHost struct {
	s *Session
}

var _ eval.Host = (*scriptHost)(nil)

func (h *scriptHost) Echo(msg string) { h.s.message(msg) }

func (h *scriptHost) EchoErr(msg string) {
	h.s.log.Debug("echoerr", "text", msg)
	h.s.message(msg)
}

func (h *scriptHost) ExCommand(cmd *ast.ExCommand) error {
	return h.s.exCommand(cmd)
}

func (h *scriptHost) Option(name string) (any, error) {
	return h.s.opts.Get(name)
}

func (h *scriptHost) SetOption(name string, v any) error {
	return h.s.opts.SetValue(name, v)
}

// Register returns an unset register as empty characterwise text.
func (h *scriptHost) Register(name rune) (string, string, error) {
	if !vim.IsValid(name) {
		return "", "", vim.ErrInvalidRegister
	}
	r, ok := h.s.disp.Registers().Get(name)
	if !ok {
		return "", "v", nil
	}
	return r.Text, kindLetter(r.Kind), nil
}

func (h *scriptHost) SetRegister(name rune, text, kind string) error {
	return h.s.disp.Registers().Set(name, vim.Register{Text: text, Kind: kindOf(kind)})
}

func (h *scriptHost) Buffer() engine.Editor { return h.s.editor }

func (h *scriptHost) Mode() string { return h.s.disp.Mode().ModeCode() }

// Feedkeys queues raw keys. With "n" they are not remapped; with "x" they
// run at once the way :normal runs them.
func (h *scriptHost) Feedkeys(keys, flags string) error {
	seq, err := key.Decode(keys)
	if err != nil {
		return err
	}
	remap := !strings.ContainsRune(flags, 'n')
	if strings.ContainsRune(flags, 'x') {
		return h.s.disp.ExecuteNormal(seq, remap)
	}
	h.s.disp.Feed(seq, remap)
	return nil
}

func (h *scriptHost) MapArg(lhs, modes string) (eval.MapInfo, bool) {
	seq, err := key.Parse(keymap.ExpandLeader(lhs, h.s.leader()))
	if err != nil || len(seq) == 0 {
		return eval.MapInfo{}, false
	}
	table := h.s.disp.Mappings()
	for _, md := range mode.ParseLetters(modes).Each() {
		m, ok := table.Get(md, seq)
		if !ok {
			continue
		}
		return eval.MapInfo{
			LHS:     key.ToNotation(m.From),
			RHS:     m.RHS(),
			Mode:    mappedModes(table, m).Letters(),
			NoRemap: !m.Recursive,
			Silent:  m.Silent,
			NoWait:  m.NoWait,
			Expr:    m.IsExpr(),
			Script:  m.Script,
		}, true
	}
	return eval.MapInfo{}, false
}

func kindLetter(k engine.RangeKind) string {
	switch k {
	case engine.Linewise:
		return "V"
	case engine.Blockwise:
		return "b"
	}
	return "v"
}

func kindOf(letter string) engine.RangeKind {
	switch letter {
	case "V":
		return engine.Linewise
	case "b":
		return engine.Blockwise
	}
	return engine.Charwise
}

// mappedModes returns every mode in which m itself is installed.
func mappedModes(t *keymap.Table, m *keymap.Mapping) mode.MappingModes {
	var out mode.MappingModes
	for _, md := range mode.MapAll.Each() {
		if got, ok := t.Get(md, m.From); ok && got == m {
			out |= md
		}
	}
	return out
}
