package search

import (
	"unicode"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
	"github.com/dshills/vimcore/internal/vimscript/pattern"
)

// Action names for search motions.
const (
	ActionSearchForward      = "search.forward"
	ActionSearchBackward     = "search.backward"
	ActionSearchNext         = "search.next"
	ActionSearchPrev         = "search.prev"
	ActionSearchWordForward  = "search.wordForward"
	ActionSearchWordBackward = "search.wordBackward"

	ActionSearchPartialWordForward  = "search.partialWordForward"
	ActionSearchPartialWordBackward = "search.partialWordBackward"
)

// Commands returns the search commands.
func Commands() []*command.Command {
	big := command.BigMotion
	return []*command.Command{
		command.New(ActionSearchForward, mode.MapNVO, command.Motion{Fn: prompt(true)}, "/").
			WithArgument(vim.ArgExtended).WithFlags(big),
		command.New(ActionSearchBackward, mode.MapNVO, command.Motion{Fn: prompt(false)}, "?").
			WithArgument(vim.ArgExtended).WithFlags(big),
		command.New(ActionSearchNext, mode.MapNVO, command.Motion{Fn: again(false)}, "n").WithFlags(big),
		command.New(ActionSearchPrev, mode.MapNVO, command.Motion{Fn: again(true)}, "N").WithFlags(big),
		command.New(ActionSearchWordForward, mode.MapNVO, command.Motion{Fn: word(true, true)}, "*").WithFlags(big),
		command.New(ActionSearchWordBackward, mode.MapNVO, command.Motion{Fn: word(false, true)}, "#").WithFlags(big),
		command.New(ActionSearchPartialWordForward, mode.MapNVO, command.Motion{Fn: word(true, false)}, "g*").WithFlags(big),
		command.New(ActionSearchPartialWordBackward, mode.MapNVO, command.Motion{Fn: word(false, false)}, "g#").WithFlags(big),
	}
}

func options(ctx *command.Context) operator.SearchOptions {
	o := ctx.Host.Options()
	return operator.SearchOptions{IgnoreCase: o.IgnoreCase, SmartCase: o.SmartCase, WrapScan: o.WrapScan}
}

// run searches and remembers the pattern for n, N and the / register.
func run(ctx *command.Context, c engine.Caret, pat string, forward bool) (command.MotionResult, error) {
	mem := ctx.Host.Memory()
	mem.LastSearch = command.SearchRecord{Pattern: pat, Forward: forward}
	ctx.Host.Registers().SetLastSearch(pat)
	return operator.Search(ctx.Editor, c.Offset(), ctx.Count, pat, forward, options(ctx))
}

type motionFunc = func(ctx *command.Context, c engine.Caret) (command.MotionResult, error)

// prompt is / and ?. The pattern ends at an unescaped separator; an
// empty pattern searches for the last one again.
func prompt(forward bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		sep := '/'
		if !forward {
			sep = '?'
		}
		pat := cutPattern(ctx.Arg.Text, sep)
		if pat == "" {
			pat = ctx.Host.Memory().LastSearch.Pattern
		}
		return run(ctx, c, pat, forward)
	}
}

// cutPattern drops a trailing search offset such as "/e" from line.
func cutPattern(line string, sep rune) string {
	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++
		case sep:
			return string(rs[:i])
		}
	}
	return line
}

func again(reverse bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		last := ctx.Host.Memory().LastSearch
		forward := last.Forward != reverse
		return operator.Search(ctx.Editor, c.Offset(), ctx.Count, last.Pattern, forward, options(ctx))
	}
}

// word is * and #. whole wraps the keyword in \< and \>.
func word(forward, whole bool) motionFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		w, start, ok := keywordAt(ctx.Editor, c.Offset())
		if !ok {
			return command.MotionResult{}, command.Errorf(348, "No string under cursor")
		}
		pat := pattern.Escape(w)
		if whole && isKeyword([]rune(w)[0]) {
			pat = `\<` + pat + `\>`
		}
		opts := options(ctx)
		opts.SmartCase = false
		mem := ctx.Host.Memory()
		mem.LastSearch = command.SearchRecord{Pattern: pat, Forward: forward}
		ctx.Host.Registers().SetLastSearch(pat)
		// Searching backward from the word start skips the word itself.
		from := c.Offset()
		if !forward {
			from = start
		}
		return operator.Search(ctx.Editor, from, ctx.Count, pat, forward, opts)
	}
}

func isKeyword(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// keywordAt returns the keyword under or after off on its line, or the
// run of non-blank characters when there is no keyword.
func keywordAt(ed engine.Editor, off int) (string, int, bool) {
	line := ed.OffsetToPoint(off).Line
	ls := ed.LineStartOffset(line)
	rs := []rune(ed.LineText(line))
	col := operator.RuneColumn(ed, off)

	pick := func(class func(rune) bool) (int, int, bool) {
		i := col
		for i < len(rs) && !class(rs[i]) {
			i++
		}
		if i == len(rs) {
			return 0, 0, false
		}
		lo, hi := i, i
		for lo > 0 && class(rs[lo-1]) {
			lo--
		}
		for hi < len(rs) && class(rs[hi]) {
			hi++
		}
		return lo, hi, true
	}
	lo, hi, ok := pick(isKeyword)
	if !ok {
		lo, hi, ok = pick(func(r rune) bool { return !unicode.IsSpace(r) })
	}
	if !ok {
		return "", 0, false
	}
	start := ls + len(string(rs[:lo]))
	return string(rs[lo:hi]), start, true
}
