package operator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/engine"
)

// text is a snapshot of the document a motion scans.
type text struct {
	ed engine.Editor
	s  string
}

func snapshot(ed engine.Editor) *text {
	return &text{ed: ed, s: ed.Text()}
}

func (t *text) len() int { return len(t.s) }

// at returns the rune at off, or 0 past the end.
func (t *text) at(off int) rune {
	if off < 0 || off >= len(t.s) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.s[off:])
	return r
}

// next returns the offset of the rune after off.
func (t *text) next(off int) int {
	if off >= len(t.s) {
		return len(t.s)
	}
	_, size := utf8.DecodeRuneInString(t.s[off:])
	return off + size
}

// prev returns the offset of the rune before off.
func (t *text) prev(off int) int {
	if off <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(t.s[:off])
	return off - size
}

func (t *text) line(off int) int {
	return t.ed.OffsetToPoint(off).Line
}

func (t *text) lineStart(line int) int { return t.ed.LineStartOffset(line) }
func (t *text) lineEnd(line int) int   { return t.ed.LineEndOffset(line) }

// lastChar returns the offset of the last character of a line, or the line
// start for an empty line.
func (t *text) lastChar(line int) int {
	start, end := t.lineStart(line), t.lineEnd(line)
	if end <= start {
		return start
	}
	return t.prev(end)
}

func (t *text) isEmptyLine(line int) bool {
	return t.lineStart(line) == t.lineEnd(line)
}

func (t *text) isBlankLine(line int) bool {
	return strings.TrimSpace(t.s[t.lineStart(line):t.lineEnd(line)]) == ""
}

// FirstNonBlank returns the offset of the first non-blank character of
// line, or the end of a blank line.
func FirstNonBlank(ed engine.Editor, line int) int {
	start, end := ed.LineStartOffset(line), ed.LineEndOffset(line)
	s := ed.TextRange(start, end)
	i := strings.IndexFunc(s, func(r rune) bool { return r != ' ' && r != '\t' })
	if i < 0 {
		return end
	}
	return start + i
}

// RuneColumn returns the character column of off within its line.
func RuneColumn(ed engine.Editor, off int) int {
	p := ed.OffsetToPoint(off)
	start := ed.LineStartOffset(p.Line)
	return utf8.RuneCountInString(ed.TextRange(start, start+p.Column))
}

// OffsetAtColumn returns the offset of character column col in line,
// clamped to the last character. past allows landing on the line end.
func OffsetAtColumn(ed engine.Editor, line, col int, past bool) int {
	start, end := ed.LineStartOffset(line), ed.LineEndOffset(line)
	s := ed.TextRange(start, end)
	n := 0
	last := start
	for i := range s {
		if n == col {
			return start + i
		}
		last = start + i
		n++
	}
	if past || end == start {
		return end
	}
	return last
}

// NormalClamp keeps a Normal-mode caret on a character: a caret on the
// line end moves back to the last character.
func NormalClamp(ed engine.Editor, off int) int {
	off = max(0, min(off, ed.Len()))
	line := ed.OffsetToPoint(off).Line
	start, end := ed.LineStartOffset(line), ed.LineEndOffset(line)
	if off >= end && end > start {
		_, size := utf8.DecodeLastRuneInString(ed.TextRange(start, end))
		return end - size
	}
	return off
}

// charClass classifies runes for word motions: 0 blank, 1 punctuation,
// 2 keyword. With big set every non-blank is one class.
func charClass(r rune, big bool) int {
	switch {
	case r == ' ' || r == '\t' || r == '\n' || r == 0:
		return 0
	case big:
		return 1
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 2
	case r >= 0x100:
		return 2
	}
	return 1
}

// isEmptyLineAt reports whether off is the start of an empty line.
func (t *text) isEmptyLineAt(off int) bool {
	if off > len(t.s) {
		return false
	}
	atStart := off == 0 || t.s[off-1] == '\n'
	atEnd := off == len(t.s) || t.s[off] == '\n'
	return atStart && atEnd
}
