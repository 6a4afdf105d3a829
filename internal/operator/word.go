package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

// WordForward moves to the start of the count'th next word (w, W). For an
// operator a move that ends past a line break stops at the end of the
// last word moved over instead.
func WordForward(ed engine.Editor, off, count int, big, forOperator bool) (command.MotionResult, error) {
	t := snapshot(ed)
	if off >= t.len() {
		return command.MotionResult{}, failed("w")
	}
	p := off
	for i := 0; i < count && p < t.len(); i++ {
		p = nextWordStart(t, p, big)
	}
	if forOperator && strings.Contains(t.s[off:p], "\n") {
		q := p
		for q > off {
			r := t.at(t.prev(q))
			if r != ' ' && r != '\t' && r != '\n' {
				break
			}
			q = t.prev(q)
		}
		if q <= off {
			q = t.lineEnd(t.line(off))
		}
		p = q
	}
	return command.To(p), nil
}

func nextWordStart(t *text, p int, big bool) int {
	if cls := charClass(t.at(p), big); cls != 0 {
		for p < t.len() && charClass(t.at(p), big) == cls {
			p = t.next(p)
		}
	}
	for p < t.len() {
		r := t.at(p)
		if r == '\n' {
			p++
			if t.isEmptyLineAt(p) && p < t.len() {
				return p
			}
			continue
		}
		if r != ' ' && r != '\t' {
			break
		}
		p = t.next(p)
	}
	return p
}

// WordEnd moves to the end of the count'th word (e, E). It is inclusive.
func WordEnd(ed engine.Editor, off, count int, big bool) (command.MotionResult, error) {
	t := snapshot(ed)
	p := off
	for i := 0; i < count; i++ {
		q := t.next(p)
		for q < t.len() && charClass(t.at(q), big) == 0 {
			q = t.next(q)
		}
		if q >= t.len() {
			if i == 0 && t.next(p) >= t.len() {
				return command.MotionResult{}, failed("e")
			}
			break
		}
		cls := charClass(t.at(q), big)
		for {
			n := t.next(q)
			if n >= t.len() || charClass(t.at(n), big) != cls {
				break
			}
			q = n
		}
		p = q
	}
	return command.MotionResult{Offset: p, Inclusive: true}, nil
}

// WordBackward moves to the start of the count'th previous word (b, B).
func WordBackward(ed engine.Editor, off, count int, big bool) (command.MotionResult, error) {
	t := snapshot(ed)
	if off == 0 {
		return command.MotionResult{}, failed("b")
	}
	p := off
	for i := 0; i < count && p > 0; i++ {
		p = t.prev(p)
		for p > 0 && charClass(t.at(p), big) == 0 {
			if t.isEmptyLineAt(p) && p != off {
				break
			}
			p = t.prev(p)
		}
		if t.isEmptyLineAt(p) {
			continue
		}
		cls := charClass(t.at(p), big)
		for p > 0 && charClass(t.at(t.prev(p)), big) == cls {
			p = t.prev(p)
		}
	}
	return command.To(p), nil
}

// WordEndBackward moves to the end of the count'th previous word (ge,
// gE). It is inclusive.
func WordEndBackward(ed engine.Editor, off, count int, big bool) (command.MotionResult, error) {
	t := snapshot(ed)
	if off == 0 {
		return command.MotionResult{}, failed("ge")
	}
	p := off
	for i := 0; i < count && p > 0; i++ {
		if cls := charClass(t.at(p), big); cls != 0 {
			for p > 0 && charClass(t.at(p), big) == cls {
				p = t.prev(p)
			}
			if charClass(t.at(p), big) == cls {
				break
			}
		} else {
			p = t.prev(p)
		}
		for p > 0 && charClass(t.at(p), big) == 0 && !t.isEmptyLineAt(p) {
			p = t.prev(p)
		}
	}
	return command.MotionResult{Offset: p, Inclusive: true}, nil
}

// isSentenceStart reports whether a sentence starts at p: after a '.', '!'
// or '?', optional closing punctuation and blanks, or on an empty line.
func isSentenceStart(t *text, p int) bool {
	if p == 0 {
		return true
	}
	if t.isEmptyLineAt(p) {
		return true
	}
	if r := t.at(p); r == ' ' || r == '\t' || r == '\n' {
		return false
	}
	q := t.prev(p)
	if r := t.at(q); r != ' ' && r != '\t' && r != '\n' {
		return false
	}
	for q > 0 {
		r := t.at(q)
		if r != ' ' && r != '\t' && r != '\n' {
			break
		}
		if r == '\n' && t.isEmptyLineAt(q) {
			return true
		}
		q = t.prev(q)
	}
	for q > 0 && strings.ContainsRune(`)]"'`, t.at(q)) {
		q = t.prev(q)
	}
	return strings.ContainsRune(".!?", t.at(q))
}

// SentenceForward moves to the start of the count'th next sentence ()).
func SentenceForward(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	if off >= t.len() {
		return command.MotionResult{}, failed(")")
	}
	p := off
	for i := 0; i < count && p < t.len(); i++ {
		p = t.next(p)
		for p < t.len() && !isSentenceStart(t, p) {
			p = t.next(p)
		}
	}
	return command.MotionResult{Offset: p, Jump: true}, nil
}

// SentenceBackward moves to the start of the count'th previous sentence
// (().
func SentenceBackward(ed engine.Editor, off, count int) (command.MotionResult, error) {
	t := snapshot(ed)
	if off == 0 {
		return command.MotionResult{}, failed("(")
	}
	p := off
	for i := 0; i < count && p > 0; i++ {
		p = t.prev(p)
		for p > 0 && !isSentenceStart(t, p) {
			p = t.prev(p)
		}
	}
	return command.MotionResult{Offset: p, Jump: true}, nil
}
