package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

// PutResult describes text inserted by Put.
type PutResult struct {
	// Start and End bound the inserted text.
	Start, End int

	// Caret is where the caret goes afterwards.
	Caret int
}

// Put inserts count copies of register text at the caret offset off, after
// it with after set (p) or before it (P). Linewise text goes below or
// above the caret line; blockwise text is inserted column-aligned on
// successive lines, padding short lines with spaces.
func Put(ed engine.Editor, off int, text string, kind engine.RangeKind, after bool, count int) (PutResult, error) {
	count = max(1, count)
	switch kind {
	case engine.Linewise:
		return putLines(ed, off, text, after, count)
	case engine.Blockwise:
		return putBlock(ed, off, text, after, count)
	}

	t := snapshot(ed)
	at := off
	if after && off < t.lineEnd(t.line(off)) {
		at = t.next(off)
	}
	s := strings.Repeat(text, count)
	if err := ed.Insert(at, s); err != nil {
		return PutResult{}, err
	}
	res := PutResult{Start: at, End: at + len(s), Caret: at}
	if !strings.Contains(s, "\n") && s != "" {
		res.Caret = snapshot(ed).prev(res.End)
	}
	return res, nil
}

func putLines(ed engine.Editor, off int, text string, after bool, count int) (PutResult, error) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	s := strings.Repeat(text, count)
	line := ed.OffsetToPoint(off).Line
	var at int
	switch {
	case !after:
		at = ed.LineStartOffset(line)
	case line+1 < ed.LineCount():
		at = ed.LineStartOffset(line + 1)
	default:
		// Below the last line, which has no line break of its own.
		at = ed.Len()
		s = "\n" + strings.TrimSuffix(s, "\n")
	}
	if err := ed.Insert(at, s); err != nil {
		return PutResult{}, err
	}
	first := line
	if after {
		first++
	}
	start := ed.LineStartOffset(first)
	return PutResult{
		Start: start,
		End:   start + len(strings.Repeat(text, count)),
		Caret: NormalClamp(ed, FirstNonBlank(ed, first)),
	}, nil
}

func putBlock(ed engine.Editor, off int, text string, after bool, count int) (PutResult, error) {
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	line := ed.OffsetToPoint(off).Line
	col := RuneColumn(ed, off)
	if after && off < ed.LineEndOffset(line) {
		col++
	}

	for i, l := range lines {
		target := line + i
		if target >= ed.LineCount() {
			if err := ed.Insert(ed.Len(), "\n"); err != nil {
				return PutResult{}, err
			}
		}
		cur := []rune(ed.LineText(target))
		var b strings.Builder
		if n := col - len(cur); n > 0 {
			b.WriteString(strings.Repeat(" ", n))
		}
		for j := 0; j < count; j++ {
			b.WriteString(l)
			if pad := width - len([]rune(l)); pad > 0 && (j < count-1 || col < len(cur)) {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		at := OffsetAtColumn(ed, target, col, true)
		if err := ed.Insert(at, b.String()); err != nil {
			return PutResult{}, err
		}
	}
	start := OffsetAtColumn(ed, line, col, true)
	last := line + len(lines) - 1
	return PutResult{Start: start, End: ed.LineEndOffset(last), Caret: start}, nil
}

// ReplaceChars replaces count characters at off with ch (r). A line break
// replaces all of them with a single newline. It fails when the line has
// fewer characters left.
func ReplaceChars(ed engine.Editor, off, count int, ch rune) (int, error) {
	t := snapshot(ed)
	end := off
	le := t.lineEnd(t.line(off))
	for i := 0; i < count; i++ {
		if end >= le {
			return 0, command.ErrFailed
		}
		end = t.next(end)
	}
	if ch == '\r' || ch == '\n' {
		if err := ed.Replace(off, end, "\n"); err != nil {
			return 0, err
		}
		return off + 1, nil
	}
	if err := ed.Replace(off, end, strings.Repeat(string(ch), count)); err != nil {
		return 0, err
	}
	return snapshot(ed).prev(off + count*len(string(ch))), nil
}

// ToggleChars swaps the case of count characters at off (~) and returns
// the offset after them.
func ToggleChars(ed engine.Editor, off, count int) (int, error) {
	t := snapshot(ed)
	le := t.lineEnd(t.line(off))
	if off >= le {
		return off, command.ErrFailed
	}
	end := off
	for i := 0; i < count && end < le; i++ {
		end = t.next(end)
	}
	old := ed.TextRange(off, end)
	repl := strings.Map(SwapCase, old)
	if repl != old {
		if err := ed.Replace(off, end, repl); err != nil {
			return 0, err
		}
	}
	return NormalClamp(ed, off+len(repl)), nil
}
