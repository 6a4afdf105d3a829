package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/eval"
	"github.com/dshills/vimcore/internal/vimscript/parser"
)

// exCommand runs an editor command the interpreter does not handle itself.
func (s *Session) exCommand(cmd *ast.ExCommand) error {
	if parser.IsMapCommand(cmd.Name) {
		return s.mapCommand(cmd)
	}
	switch cmd.Name {
	case "normal":
		return s.normal(cmd)
	case "set":
		return s.set(cmd.Arg)
	case "source":
		arg := strings.TrimSpace(cmd.Arg)
		if arg == "" {
			return cmdErrorf(471, "Argument required")
		}
		return s.SourceFile(arg)
	case "undo":
		return s.history(engine.Undoer.Undo, "Already at oldest change")
	case "redo":
		return s.history(engine.Undoer.Redo, "Already at newest change")
	case "startinsert":
		keys := "i"
		if cmd.Bang {
			keys = "A"
		}
		s.disp.Feed(key.MustParse(keys), false)
		return nil
	case "stopinsert":
		if m := s.disp.Mode().Mode; m == mode.Insert || m == mode.Replace {
			s.disp.Feed(key.MustParse("<Esc>"), false)
		}
		return nil
	case "registers", "display":
		s.listRegisters(cmd.Arg)
		return nil
	case "nohlsearch", "redraw", "filetype", "syntax", "echohl":
		s.log.Debug("ignored command", "command", cmd.Name, "arg", cmd.Arg)
		return nil
	}
	return cmdErrorf(492, "Not an editor command: %s", commandText(cmd))
}

func commandText(cmd *ast.ExCommand) string {
	text := cmd.Name
	if cmd.Bang {
		text += "!"
	}
	if cmd.Arg != "" {
		text += " " + cmd.Arg
	}
	return text
}

// normal runs :normal. Its argument is raw keys: "<Esc>" there is five
// characters. With a range the keys run once per line, the caret at the
// start of each.
func (s *Session) normal(cmd *ast.ExCommand) error {
	if cmd.Arg == "" {
		return nil
	}
	keys, err := key.Decode(cmd.Arg)
	if err != nil {
		return err
	}
	remap := !cmd.Bang
	if cmd.Range == nil {
		return s.disp.ExecuteNormal(keys, remap)
	}
	first, last, err := eval.ResolveRange(s.editor, cmd.Range)
	if err != nil {
		return err
	}
	for ln := max(first, 1); ln <= last && ln <= s.editor.LineCount(); ln++ {
		engine.MoveCaret(s.editor.PrimaryCaret(), s.editor.LineStartOffset(ln-1))
		if err := s.disp.ExecuteNormal(keys, remap); err != nil {
			return err
		}
	}
	return nil
}

// set runs :set with one or more arguments. Without arguments, or with
// "all", every option is shown.
func (s *Session) set(arg string) error {
	args := splitSetArgs(arg)
	if len(args) == 0 || (len(args) == 1 && args[0] == "all") {
		args = args[:0]
		for _, name := range config.Names() {
			args = append(args, name+"?")
		}
	}
	for _, a := range args {
		out, err := s.opts.Apply(a)
		if err != nil {
			return err
		}
		if out != "" {
			s.message(out)
		}
	}
	return nil
}

// splitSetArgs splits on white space not escaped with a backslash.
func splitSetArgs(arg string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(arg); i++ {
		switch c := arg[i]; {
		case c == '\\' && i+1 < len(arg):
			i++
			cur.WriteByte(arg[i])
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// history runs :undo or :redo on editors that keep their own history.
func (s *Session) history(step func(engine.Undoer) error, exhausted string) error {
	u, ok := s.editor.(engine.Undoer)
	if !ok {
		s.log.Debug("editor has no undo history")
		return nil
	}
	if err := step(u); err != nil {
		s.message(exhausted)
	}
	return nil
}

// listRegisters shows the registers named in arg, or all of them.
func (s *Session) listRegisters(arg string) {
	regs := s.disp.Registers()
	names := regs.Names()
	if arg = strings.TrimSpace(arg); arg != "" {
		var picked []rune
		for _, n := range names {
			if strings.ContainsRune(arg, n) {
				picked = append(picked, n)
			}
		}
		names = picked
	}
	s.message("Type Name Content")
	for _, n := range names {
		r, _ := regs.Get(n)
		kind := "c"
		switch r.Kind {
		case engine.Linewise:
			kind = "l"
		case engine.Blockwise:
			kind = "b"
		}
		s.message(fmt.Sprintf("  %s  \"%c   %s", kind, n, printable(r.Text)))
	}
}

// printable shows control characters the way :registers does, as ^J.
func printable(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r < 0x20 {
			b.WriteByte('^')
			b.WriteRune(r + '@')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
