package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

// DefaultArgLineLimit bounds how many lines the argument object scans in
// either direction for its brackets.
const DefaultArgLineLimit = 10

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

// WordObject selects count words (iw, aw, iW, aW). Inner objects count
// runs of blanks as words; around objects add the blanks after the word,
// or before it when there are none after.
func WordObject(ed engine.Editor, off, count int, big, around bool) (command.MotionResult, error) {
	t := snapshot(ed)
	line := t.line(off)
	ls, le := t.lineStart(line), t.lineEnd(line)
	if ls == le {
		return command.MotionResult{}, failed("iw")
	}
	off = min(off, t.prev(le))
	class := func(p int) int { return charClass(t.at(p), big) }

	cls := class(off)
	start, end := off, off
	for start > ls && class(t.prev(start)) == cls {
		start = t.prev(start)
	}
	run := func(p int) int {
		c := class(p)
		for p < le && class(p) == c {
			p = t.next(p)
		}
		return p
	}
	end = run(start)

	if around {
		switch {
		case cls == 0:
			end = run(end)
		case end < le && isBlank(t.at(end)):
			end = run(end)
		default:
			for start > ls && isBlank(t.at(t.prev(start))) {
				start = t.prev(start)
			}
		}
	}
	for i := 1; i < count && end < le; i++ {
		end = run(end)
		if around && end < le && isBlank(t.at(end)) {
			end = run(end)
		}
	}
	return command.Span(start, end), nil
}

// SentenceObject selects count sentences (is, as).
func SentenceObject(ed engine.Editor, off, count int, around bool) (command.MotionResult, error) {
	t := snapshot(ed)
	if t.len() == 0 {
		return command.MotionResult{}, failed("is")
	}
	start := min(off, t.len()-1)
	for start > 0 && !isSentenceStart(t, start) {
		start = t.prev(start)
	}
	end := start
	for i := 0; i < count && end < t.len(); i++ {
		end = t.next(end)
		for end < t.len() && !isSentenceStart(t, end) {
			end = t.next(end)
		}
	}
	if !around {
		for end > start {
			r := t.at(t.prev(end))
			if !isBlank(r) && r != '\n' {
				break
			}
			end = t.prev(end)
		}
	}
	return command.Span(start, end), nil
}

// ParagraphObject selects count paragraphs linewise (ip, ap). A paragraph
// is a run of lines with the same blankness; ap adds the blank lines that
// follow, or precede when there are none.
func ParagraphObject(ed engine.Editor, off, count int, around bool) (command.MotionResult, error) {
	t := snapshot(ed)
	line, last := t.line(off), ed.LineCount()-1
	blank := t.isBlankLine(line)
	first := line
	for first > 0 && t.isBlankLine(first-1) == blank {
		first--
	}
	end := line
	extend := func() {
		b := t.isBlankLine(end)
		for end < last && t.isBlankLine(end+1) == b {
			end++
		}
	}
	extend()
	for i := 1; i < count && end < last; i++ {
		end++
		extend()
	}
	if around {
		if end < last {
			end++
			extend()
		} else if !blank {
			for first > 0 && t.isBlankLine(first-1) {
				first--
			}
		}
	}
	return command.MotionResult{
		Start:    t.lineStart(first),
		HasStart: true,
		Offset:   t.lineStart(end),
		Linewise: true,
	}, nil
}

// BlockObject selects the count'th enclosing open/close pair (i(, a{, ...).
// An inner block whose open bracket ends its line starts on the next line,
// and one whose close bracket starts its line ends before that line.
func BlockObject(ed engine.Editor, off, count int, open, close rune, around bool) (command.MotionResult, error) {
	t := snapshot(ed)
	name := "i" + string(open)
	var p int
	switch t.at(off) {
	case open:
		p = off
	case close:
		p = matchBackward(t, off, open, close)
	default:
		p = enclosingOpen(t, off, open, close)
	}
	for i := 1; i < count && p > 0; i++ {
		p = enclosingOpen(t, t.prev(p), open, close)
	}
	if p < 0 {
		return command.MotionResult{}, failedWith(name, ErrNoMatch)
	}
	q := matchForward(t, p, open, close)
	if q < 0 {
		return command.MotionResult{}, failedWith(name, ErrNoMatch)
	}
	if around {
		return command.Span(p, t.next(q)), nil
	}

	s, e := t.next(p), q
	if s < e && t.at(s) == '\n' {
		s++
	}
	if qline := t.line(q); s < e && qline > t.line(s) && FirstNonBlank(ed, qline) == q {
		e = t.lineStart(qline)
	}
	return command.Span(s, e), nil
}

// enclosingOpen scans back from off for an open bracket that is not
// closed before off.
func enclosingOpen(t *text, off int, open, close rune) int {
	depth := 0
	for p := off; ; p = t.prev(p) {
		switch t.at(p) {
		case close:
			depth++
		case open:
			if depth == 0 {
				return p
			}
			depth--
		}
		if p == 0 {
			return -1
		}
	}
}

// QuoteObject selects a quoted string on the caret line (i", a', ...).
// Around objects include the quotes and the blanks after the closing
// quote, or before the opening one when there are none after.
func QuoteObject(ed engine.Editor, off int, quote rune, around bool) (command.MotionResult, error) {
	t := snapshot(ed)
	line := t.line(off)
	ls, le := t.lineStart(line), t.lineEnd(line)
	var quotes []int
	for p := ls; p < le; p = t.next(p) {
		switch t.at(p) {
		case '\\':
			if t.next(p) < le {
				p = t.next(p)
			}
		case quote:
			quotes = append(quotes, p)
		}
	}

	first, last := -1, -1
	before := 0
	for i, q := range quotes {
		if q == off {
			if i%2 == 0 && i+1 < len(quotes) {
				first, last = q, quotes[i+1]
			} else if i%2 == 1 {
				first, last = quotes[i-1], q
			}
			break
		}
		if q < off {
			before = i + 1
		}
	}
	if first < 0 {
		switch {
		case before%2 == 1 && before < len(quotes):
			first, last = quotes[before-1], quotes[before]
		case before%2 == 0 && before+1 < len(quotes):
			first, last = quotes[before], quotes[before+1]
		default:
			return command.MotionResult{}, failedWith("i"+string(quote), ErrNoMatch)
		}
	}

	if !around {
		return command.Span(t.next(first), last), nil
	}
	start, end := first, t.next(last)
	if end < le && isBlank(t.at(end)) {
		for end < le && isBlank(t.at(end)) {
			end = t.next(end)
		}
	} else {
		for start > ls && isBlank(t.at(t.prev(start))) {
			start = t.prev(start)
		}
	}
	return command.Span(start, end), nil
}

// ArgumentObject selects a function argument (ia, aa): the comma separated
// item inside the nearest enclosing () or [] pair. The bracket search
// gives up after limit lines in either direction. Around objects include
// the following separator, or the preceding one for the last argument.
func ArgumentObject(ed engine.Editor, off int, around bool, limit int) (command.MotionResult, error) {
	if limit <= 0 {
		limit = DefaultArgLineLimit
	}
	t := snapshot(ed)
	line := t.line(off)
	minOff := t.lineStart(max(0, line-limit))
	maxOff := t.lineEnd(min(ed.LineCount()-1, line+limit))

	open := enclosingArgs(t, off, minOff)
	if open < 0 {
		return command.MotionResult{}, failedWith("ia", ErrNoMatch)
	}
	close := closingArgs(t, open, maxOff)
	if close < 0 {
		return command.MotionResult{}, failedWith("ia", ErrNoMatch)
	}

	// Separators at depth 0 between the brackets.
	seps := []int{open}
	depth := 0
	var inQuote rune
	for p := t.next(open); p < close; p = t.next(p) {
		r := t.at(p)
		switch {
		case inQuote != 0:
			if r == '\\' {
				p = t.next(p)
			} else if r == inQuote {
				inQuote = 0
			}
		case r == '"' || r == '\'':
			inQuote = r
		case strings.ContainsRune("([{", r):
			depth++
		case strings.ContainsRune(")]}", r):
			depth--
		case r == ',' && depth == 0:
			seps = append(seps, p)
		}
	}
	seps = append(seps, close)

	idx := len(seps) - 2
	for i := 1; i < len(seps); i++ {
		if off < seps[i] {
			idx = i - 1
			break
		}
	}
	trim := func(a, b int) (int, int) {
		for a < b && strings.ContainsRune(" \t\n", t.at(a)) {
			a = t.next(a)
		}
		for b > a && strings.ContainsRune(" \t\n", t.at(t.prev(b))) {
			b = t.prev(b)
		}
		return a, b
	}
	start, end := trim(t.next(seps[idx]), seps[idx+1])
	if !around {
		return command.Span(start, end), nil
	}
	switch {
	case idx+2 < len(seps):
		next, _ := trim(t.next(seps[idx+1]), seps[idx+2])
		end = next
	case idx > 0:
		start = seps[idx]
	}
	return command.Span(start, end), nil
}

func enclosingArgs(t *text, off, minOff int) int {
	depth := 0
	for p := off; p >= minOff; p = t.prev(p) {
		r := t.at(p)
		switch {
		case strings.ContainsRune(")]}", r) && p != off:
			depth++
		case strings.ContainsRune("([{", r):
			if depth == 0 && r != '{' && p != off {
				return p
			}
			if depth > 0 {
				depth--
			}
		}
		if p == 0 {
			break
		}
	}
	return -1
}

func closingArgs(t *text, open, maxOff int) int {
	depth := 0
	for p := open; p < maxOff; p = t.next(p) {
		switch t.at(p) {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return p
			}
		}
	}
	return -1
}
