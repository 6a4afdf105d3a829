package operator

import (
	"math"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

// MaxColumn is the preferred column after $: the end of every line.
const MaxColumn = math.MaxInt32

// Left moves count characters left without leaving the line (h).
func Left(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	start := t.lineStart(t.line(off))
	if off <= start {
		return command.MotionResult{}, failed("h")
	}
	for ; count > 0 && off > start; count-- {
		off = t.prev(off)
	}
	return command.To(off), nil
}

// Right moves count characters right without leaving the line (l). The
// target may be the line end, which only an operator uses.
func Right(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	end := t.lineEnd(t.line(off))
	if off >= end {
		return command.MotionResult{}, failed("l")
	}
	for ; count > 0 && off < end; count-- {
		off = t.next(off)
	}
	return command.To(off), nil
}

// BackChar moves count characters back across line breaks (<BS>).
func BackChar(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	if off == 0 {
		return command.MotionResult{}, failed("<BS>")
	}
	for ; count > 0 && off > 0; count-- {
		off = t.prev(off)
		if t.at(off) == '\n' && !t.isEmptyLineAt(off) {
			off = NormalClamp(ed, off)
		}
	}
	return command.To(off), nil
}

// ForwardChar moves count characters forward across line breaks
// (<Space>).
func ForwardChar(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	if off >= t.len() {
		return command.MotionResult{}, failed("<Space>")
	}
	for ; count > 0 && off < t.len(); count-- {
		line := t.line(off)
		if off >= t.lastChar(line) && line+1 < ed.LineCount() {
			off = t.lineStart(line + 1)
			continue
		}
		off = t.next(off)
	}
	return command.To(off), nil
}

// Down moves count lines down to the preferred column (j). It fails when
// there are fewer lines.
func Down(ed engine.Editor, off, count, want int) (command.MotionResult, error) {
	line := ed.OffsetToPoint(off).Line
	if line+count >= ed.LineCount() {
		return command.MotionResult{}, failed("j")
	}
	return vertical(ed, line+count, want), nil
}

// Up moves count lines up (k).
func Up(ed engine.Editor, off, count, want int) (command.MotionResult, error) {
	line := ed.OffsetToPoint(off).Line
	if line-count < 0 {
		return command.MotionResult{}, failed("k")
	}
	return vertical(ed, line-count, want), nil
}

func vertical(ed engine.Editor, line, want int) command.MotionResult {
	return command.MotionResult{Offset: OffsetAtColumn(ed, line, want, false), Linewise: true}
}

// LineStart moves to column 0 (0, <Home>).
func LineStart(ed engine.Editor, off int) (command.MotionResult, error) {
	return command.To(ed.LineStartOffset(ed.OffsetToPoint(off).Line)), nil
}

// FirstNonBlankMotion moves to the first non-blank of the line (^).
func FirstNonBlankMotion(ed engine.Editor, off int) (command.MotionResult, error) {
	line := ed.OffsetToPoint(off).Line
	return command.To(NormalClamp(ed, FirstNonBlank(ed, line))), nil
}

// LineEnd moves to the last character of the line count-1 lines down ($).
func LineEnd(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	line := t.line(off) + count - 1
	if line >= ed.LineCount() {
		return command.MotionResult{}, failed("$")
	}
	if t.isEmptyLine(line) {
		return command.To(t.lineStart(line)), nil
	}
	return command.MotionResult{Offset: t.lastChar(line), Inclusive: true}, nil
}

// LastNonBlank moves to the last non-blank character of the line count-1
// lines down (g_).
func LastNonBlank(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	line := t.line(off) + count - 1
	if line >= ed.LineCount() {
		return command.MotionResult{}, failed("g_")
	}
	start, p := t.lineStart(line), t.lineEnd(line)
	for p > start {
		q := t.prev(p)
		if r := t.at(q); r != ' ' && r != '\t' {
			return command.MotionResult{Offset: q, Inclusive: true}, nil
		}
		p = q
	}
	return command.To(start), nil
}

// Column moves to character column count-1 of the line (|).
func Column(ed engine.Editor, off, count int) (command.MotionResult, error) {
	line := ed.OffsetToPoint(off).Line
	return command.To(OffsetAtColumn(ed, line, count-1, false)), nil
}

// GotoLine moves linewise to the first non-blank of a 1-based line,
// clamped to the document (gg, G).
func GotoLine(ed engine.Editor, line int) (command.MotionResult, error) {
	line = max(1, min(line, ed.LineCount())) - 1
	return command.MotionResult{
		Offset:   NormalClamp(ed, FirstNonBlank(ed, line)),
		Linewise: true,
		Jump:     true,
	}, nil
}

// LineDown moves linewise to the first non-blank count lines down (+,
// <CR>, and _ with count-1).
func LineDown(ed engine.Editor, off, count int) (command.MotionResult, error) {
	line := ed.OffsetToPoint(off).Line + count
	if line >= ed.LineCount() {
		return command.MotionResult{}, failed("+")
	}
	return command.MotionResult{Offset: NormalClamp(ed, FirstNonBlank(ed, line)), Linewise: true}, nil
}

// LineUp moves linewise to the first non-blank count lines up (-).
func LineUp(ed engine.Editor, off, count int) (command.MotionResult, error) {
	line := ed.OffsetToPoint(off).Line - count
	if line < 0 {
		return command.MotionResult{}, failed("-")
	}
	return command.MotionResult{Offset: NormalClamp(ed, FirstNonBlank(ed, line)), Linewise: true}, nil
}

// CurrentLine is the _ motion: count-1 lines down, linewise.
func CurrentLine(ed engine.Editor, off, count int) (command.MotionResult, error) {
	if count <= 1 {
		line := ed.OffsetToPoint(off).Line
		return command.MotionResult{Offset: NormalClamp(ed, FirstNonBlank(ed, line)), Linewise: true}, nil
	}
	return LineDown(ed, off, count-1)
}

// PercentLine moves to count percent of the document (N%).
func PercentLine(ed engine.Editor, count int) (command.MotionResult, error) {
	if count > 100 {
		return command.MotionResult{}, failed("%")
	}
	return GotoLine(ed, (count*ed.LineCount()+99)/100)
}

// Find moves to the count'th occurrence of ch on the line. till stops one
// character short (t, T). With skipAdjacent a till that would not move
// looks for the next occurrence instead, as ; and , do.
func Find(ed engine.Editor, off, count int, ch rune, forward, till, skipAdjacent bool) (command.MotionResult, error) {
	t := snapshot(ed)
	line := t.line(off)
	start, end := t.lineStart(line), t.lineEnd(line)
	p := off
	for i := 0; i < count; i++ {
		if forward {
			from := t.next(p)
			if till && skipAdjacent && i == 0 && t.at(from) == ch {
				from = t.next(from)
			}
			q := scan(t, from, end, ch)
			if q < 0 {
				return command.MotionResult{}, failedWith("f", ErrNoMatch)
			}
			p = q
		} else {
			from := p
			if till && skipAdjacent && i == 0 && p > start && t.at(t.prev(p)) == ch {
				from = t.prev(p)
			}
			q := scanBack(t, start, from, ch)
			if q < 0 {
				return command.MotionResult{}, failedWith("F", ErrNoMatch)
			}
			p = q
		}
	}
	if till {
		if forward {
			p = t.prev(p)
		} else {
			p = t.next(p)
		}
	}
	return command.MotionResult{Offset: p, Inclusive: forward}, nil
}

func scan(t *text, from, end int, ch rune) int {
	for p := from; p < end; p = t.next(p) {
		if t.at(p) == ch {
			return p
		}
	}
	return -1
}

func scanBack(t *text, start, from int, ch rune) int {
	for p := from; p > start; {
		p = t.prev(p)
		if t.at(p) == ch {
			return p
		}
	}
	return -1
}

var pairs = map[rune]rune{'(': ')', '[': ']', '{': '}', ')': '(', ']': '[', '}': '{'}

// MatchPair jumps from the next bracket on the line to its partner (%).
func MatchPair(ed engine.Editor, off int) (command.MotionResult, error) {
	t := snapshot(ed)
	end := t.lineEnd(t.line(off))
	p := off
	for p < end {
		if _, ok := pairs[t.at(p)]; ok {
			break
		}
		p = t.next(p)
	}
	if p >= end {
		return command.MotionResult{}, failedWith("%", ErrNoMatch)
	}
	open := t.at(p)
	q := -1
	switch open {
	case '(', '[', '{':
		q = matchForward(t, p, open, pairs[open])
	default:
		q = matchBackward(t, p, pairs[open], open)
	}
	if q < 0 {
		return command.MotionResult{}, failedWith("%", ErrNoMatch)
	}
	return command.MotionResult{Offset: q, Inclusive: true, Jump: true}, nil
}

// matchForward returns the offset of the close bracket matching the open
// bracket at p.
func matchForward(t *text, p int, open, close rune) int {
	depth := 0
	for ; p < t.len(); p = t.next(p) {
		switch t.at(p) {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return p
			}
		}
	}
	return -1
}

// matchBackward returns the offset of the open bracket matching the close
// bracket at p.
func matchBackward(t *text, p int, open, close rune) int {
	depth := 0
	for {
		switch t.at(p) {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return p
			}
		}
		if p == 0 {
			return -1
		}
		p = t.prev(p)
	}
}

// ParagraphForward moves to the count'th blank line below (}).
func ParagraphForward(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	line, last := t.line(off), ed.LineCount()-1
	if line >= last && off >= t.lastChar(last) {
		return command.MotionResult{}, failed("}")
	}
	for i := 0; i < count && line < last; i++ {
		for line < last && t.isEmptyLine(line) {
			line++
		}
		for line < last && !t.isEmptyLine(line) {
			line++
		}
	}
	target := t.lineStart(line)
	if !t.isEmptyLine(line) {
		return command.MotionResult{Offset: t.lastChar(line), Inclusive: true, Jump: true}, nil
	}
	return command.MotionResult{Offset: target, Jump: true}, nil
}

// ParagraphBackward moves to the count'th blank line above ({).
func ParagraphBackward(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	line := t.line(off)
	if off == 0 {
		return command.MotionResult{}, failed("{")
	}
	for i := 0; i < count && line > 0; i++ {
		for line > 0 && t.isEmptyLine(line) {
			line--
		}
		for line > 0 && !t.isEmptyLine(line) {
			line--
		}
	}
	return command.MotionResult{Offset: t.lineStart(line), Jump: true}, nil
}

// MarkMotion moves to a mark. Linewise marks (') land on the first
// non-blank.
func MarkMotion(ed engine.Editor, name rune, linewise bool) (command.MotionResult, error) {
	p, ok := ed.Mark(name)
	if !ok {
		return command.MotionResult{}, failedWith("`", command.Errorf(20, "Mark not set"))
	}
	if linewise {
		return command.MotionResult{Offset: NormalClamp(ed, FirstNonBlank(ed, p.Line)), Linewise: true, Jump: true}, nil
	}
	return command.MotionResult{Offset: ed.PointToOffset(p), Jump: true}, nil
}
