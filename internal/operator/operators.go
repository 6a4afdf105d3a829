package operator

import (
	"strings"
	"unicode"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

// RangeText returns the text of r as a register holds it: linewise text
// always ends in a newline and blockwise text joins its lines with
// newlines.
func RangeText(ed engine.Editor, r engine.TextRange) string {
	switch r.Kind {
	case engine.Blockwise:
		spans := BlockSpans(ed, r)
		lines := make([]string, len(spans))
		for i, s := range spans {
			lines[i] = ed.TextRange(s.Start, s.End)
		}
		return strings.Join(lines, "\n")
	case engine.Linewise:
		s := ed.TextRange(r.Start, r.End)
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		return s
	}
	return ed.TextRange(r.Start, r.End)
}

// deleteRange removes r from the document. Deleting the last lines also
// removes the line break before them.
func deleteRange(ed engine.Editor, r engine.TextRange) error {
	switch r.Kind {
	case engine.Blockwise:
		spans := BlockSpans(ed, r)
		for i := len(spans) - 1; i >= 0; i-- {
			if err := ed.Delete(spans[i].Start, spans[i].End); err != nil {
				return err
			}
		}
		return nil
	case engine.Linewise:
		start := r.Start
		if r.End >= ed.Len() && start > 0 && !strings.HasSuffix(ed.TextRange(r.Start, r.End), "\n") {
			start--
		}
		return ed.Delete(start, r.End)
	}
	return ed.Delete(r.Start, r.End)
}

func isBig(ctx *command.Context) bool {
	return ctx.Motion != nil && ctx.Motion.Has(command.BigMotion)
}

// Delete removes the range and queues it for the register (d).
func Delete(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	text := RangeText(ed, r)
	if err := deleteRange(ed, r); err != nil {
		return err
	}
	ctx.Deleted(text, r.Kind, isBig(ctx))

	pos := min(r.Start, ed.Len())
	if r.Kind == engine.Linewise {
		pos = FirstNonBlank(ed, ed.OffsetToPoint(pos).Line)
	}
	pos = NormalClamp(ed, pos)
	c.MoveTo(pos)
	ctx.Changed(pos, pos)
	ctx.CursorSet()
	return nil
}

// Yank copies the range to the register (y). The caret moves to the
// start of the range, keeping its column for linewise yanks.
func Yank(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	ctx.Yank(RangeText(ed, r), r.Kind)
	ctx.Changed(r.Start, r.End)

	switch r.Kind {
	case engine.Linewise:
		first := ed.OffsetToPoint(r.Start).Line
		if ed.OffsetToPoint(c.Offset()).Line > first {
			c.MoveTo(OffsetAtColumn(ed, first, RuneColumn(ed, c.Offset()), false))
		}
	case engine.Blockwise:
		c.MoveTo(BlockSpans(ed, r)[0].Start)
	default:
		c.MoveTo(r.Start)
	}
	ctx.CursorSet()
	return nil
}

// Change deletes the range and leaves the caret where typing replaces it
// (c). A linewise change keeps one empty line; a blockwise change puts a
// caret at the left edge of every line so Insert mode types into all of
// them.
func Change(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	text := RangeText(ed, r)
	ctx.Deleted(text, r.Kind, isBig(ctx))

	switch r.Kind {
	case engine.Linewise:
		end := r.End
		if strings.HasSuffix(ed.TextRange(r.Start, r.End), "\n") {
			end--
		}
		if err := ed.Delete(r.Start, end); err != nil {
			return err
		}
		c.MoveTo(r.Start)
	case engine.Blockwise:
		spans := BlockSpans(ed, r)
		left, _ := BlockColumns(ed, r)
		if err := deleteRange(ed, r); err != nil {
			return err
		}
		c.MoveTo(spans[0].Start)
		for _, s := range spans[1:] {
			ed.AddCaret(OffsetAtColumn(ed, s.Line, left, true))
		}
		ctx.Host.Memory().InsertBlock = len(spans) > 1
	default:
		if err := ed.Delete(r.Start, r.End); err != nil {
			return err
		}
		c.MoveTo(r.Start)
	}
	ctx.Changed(r.Start, r.Start)
	ctx.CursorSet()
	return nil
}

// ShiftRight indents every line of the range by 'shiftwidth' (>). Empty
// lines are left alone.
func ShiftRight(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return shift(ctx, c, r, 1)
}

// ShiftLeft removes one 'shiftwidth' of indent from every line (<).
func ShiftLeft(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return shift(ctx, c, r, -1)
}

func shift(ctx *command.Context, c engine.Caret, r engine.TextRange, dir int) error {
	ed := ctx.Editor
	opts := ctx.Host.Options()
	sw, ts := opts.ShiftWidth, opts.TabStop
	if sw <= 0 {
		sw = ts
	}
	times := 1
	if ctx.Selection != nil {
		times = ctx.Count
	}
	first := ed.OffsetToPoint(r.Start).Line
	last := ed.OffsetToPoint(max(r.Start, r.End-1)).Line
	for line := last; line >= first; line-- {
		start, end := ed.LineStartOffset(line), ed.LineEndOffset(line)
		if start == end {
			continue
		}
		fnb := FirstNonBlank(ed, line)
		width := indentWidth(ed.TextRange(start, fnb), ts)
		width = max(0, width+dir*sw*times)
		if err := ed.Replace(start, fnb, makeIndent(width, ts, opts.ExpandTab)); err != nil {
			return err
		}
	}
	pos := NormalClamp(ed, FirstNonBlank(ed, first))
	c.MoveTo(pos)
	ctx.Changed(ed.LineStartOffset(first), ed.LineEndOffset(last))
	ctx.CursorSet()
	return nil
}

func indentWidth(indent string, ts int) int {
	w := 0
	for _, r := range indent {
		if r == '\t' && ts > 0 {
			w += ts - w%ts
		} else {
			w++
		}
	}
	return w
}

func makeIndent(width, ts int, expand bool) string {
	if expand || ts <= 0 {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/ts) + strings.Repeat(" ", width%ts)
}

// Lower lower-cases the range (gu).
func Lower(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return mapCase(ctx, c, r, unicode.ToLower)
}

// Upper upper-cases the range (gU).
func Upper(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return mapCase(ctx, c, r, unicode.ToUpper)
}

// ToggleCase swaps the case of the range (g~).
func ToggleCase(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return mapCase(ctx, c, r, SwapCase)
}

// Rot13 rotates the letters of the range by 13 (g?).
func Rot13(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	return mapCase(ctx, c, r, rot13)
}

// SwapCase returns r with its case swapped.
func SwapCase(r rune) rune {
	switch {
	case unicode.IsUpper(r):
		return unicode.ToLower(r)
	case unicode.IsLower(r):
		return unicode.ToUpper(r)
	}
	return r
}

func rot13(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+13)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+13)%26
	}
	return r
}

func mapCase(ctx *command.Context, c engine.Caret, r engine.TextRange, fn func(rune) rune) error {
	ed := ctx.Editor
	spans := []Span{{Start: r.Start, End: r.End}}
	if r.Kind == engine.Blockwise {
		spans = BlockSpans(ed, r)
	}
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		old := ed.TextRange(s.Start, s.End)
		if repl := strings.Map(fn, old); repl != old {
			if err := ed.Replace(s.Start, s.End, repl); err != nil {
				return err
			}
		}
	}
	ctx.Changed(r.Start, r.End)
	if r.Kind == engine.Linewise {
		first := ed.OffsetToPoint(r.Start).Line
		if ed.OffsetToPoint(c.Offset()).Line != first {
			c.MoveTo(NormalClamp(ed, FirstNonBlank(ed, first)))
		}
	} else {
		c.MoveTo(spans[0].Start)
	}
	ctx.CursorSet()
	return nil
}

// Join joins the lines of the range, at least two (J in Visual mode).
func Join(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	first := ed.OffsetToPoint(r.Start).Line
	last := ed.OffsetToPoint(max(r.Start, r.End-1)).Line
	pos, err := JoinLines(ed, first, max(2, last-first+1), true)
	if err != nil {
		return err
	}
	c.MoveTo(pos)
	ctx.Changed(ed.LineStartOffset(first), ed.LineEndOffset(first))
	ctx.CursorSet()
	return nil
}

// JoinLines joins n lines starting at line into one and returns the
// offset of the last join point. With spaces set leading whitespace of
// each joined line is replaced by one space, which is omitted before ')'
// and after trailing whitespace (J); otherwise lines are concatenated
// as they are (gJ). It fails when there is no line to join.
func JoinLines(ed engine.Editor, line, n int, spaces bool) (int, error) {
	if line+1 >= ed.LineCount() {
		return 0, command.ErrFailed
	}
	n = min(n, ed.LineCount()-line)
	pos := ed.LineEndOffset(line)
	for i := 1; i < n; i++ {
		end := ed.LineEndOffset(line)
		next := line + 1
		nextStart := ed.LineStartOffset(next)
		if !spaces {
			if err := ed.Delete(end, nextStart); err != nil {
				return 0, err
			}
			pos = end
			continue
		}
		fnb := FirstNonBlank(ed, next)
		nextEnd := ed.LineEndOffset(next)
		sep := " "
		cur := ed.TextRange(ed.LineStartOffset(line), end)
		switch {
		case fnb == nextEnd:
			sep = ""
		case strings.HasSuffix(cur, " ") || strings.HasSuffix(cur, "\t"):
			sep = ""
		case strings.HasPrefix(ed.TextRange(fnb, nextEnd), ")"):
			sep = ""
		case cur == "":
			sep = ""
		}
		if err := ed.Replace(end, fnb, sep); err != nil {
			return 0, err
		}
		pos = end
	}
	return NormalClamp(ed, pos), nil
}

// OperatorFunc sets the '[ and '] marks to the range and calls the
// 'operatorfunc' option with the range type (g@).
func OperatorFunc(ctx *command.Context, c engine.Caret, r engine.TextRange) error {
	ed := ctx.Editor
	end := max(r.Start, r.End-1)
	if r.Kind == engine.Blockwise {
		end = r.End
	}
	ed.SetMark('[', ed.OffsetToPoint(r.Start))
	ed.SetMark(']', ed.OffsetToPoint(end))
	kind := "char"
	switch r.Kind {
	case engine.Linewise:
		kind = "line"
	case engine.Blockwise:
		kind = "block"
	}
	c.MoveTo(r.Start)
	ctx.CursorSet()
	return ctx.Host.CallOperatorFunc(kind)
}
