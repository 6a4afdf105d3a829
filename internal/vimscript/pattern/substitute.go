package pattern

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Substitute replaces the first match in s, or every match when global is
// set, with repl expanded as a Vim replacement string.
func (p *Pattern) Substitute(s, repl string, global bool) string {
	locs := p.FindAll(s)
	if len(locs) == 0 {
		return s
	}
	if !global {
		locs = locs[:1]
	}
	var b strings.Builder
	prev := 0
	for _, l := range locs {
		b.WriteString(s[prev:l.Start])
		b.WriteString(Expand(repl, s, l))
		prev = l.End
	}
	b.WriteString(s[prev:])
	return b.String()
}

// SubstituteFunc is Substitute with the replacement computed by fn from
// the match and its groups.
func (p *Pattern) SubstituteFunc(s string, global bool, fn func(groups []string) string) string {
	locs := p.FindAll(s)
	if len(locs) == 0 {
		return s
	}
	if !global {
		locs = locs[:1]
	}
	var b strings.Builder
	prev := 0
	for _, l := range locs {
		b.WriteString(s[prev:l.Start])
		groups := make([]string, 10)
		for i := range groups {
			groups[i] = l.Group(s, i)
		}
		b.WriteString(fn(groups))
		prev = l.End
	}
	b.WriteString(s[prev:])
	return b.String()
}

// Split splits s around matches. Empty leading and trailing items are
// dropped unless keepEmpty is set.
func (p *Pattern) Split(s string, keepEmpty bool) []string {
	var out []string
	prev := 0
	for _, l := range p.FindAll(s) {
		if l.End == l.Start && l.Start == prev && prev != 0 {
			continue
		}
		if l.Start == 0 && l.End == 0 {
			continue
		}
		out = append(out, s[prev:l.Start])
		prev = l.End
	}
	out = append(out, s[prev:])
	if !keepEmpty {
		for len(out) > 0 && out[0] == "" {
			out = out[1:]
		}
		for len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}
	}
	return out
}

type caseMode uint8

const (
	caseNone caseMode = iota
	caseUpper
	caseLower
)

// Expand builds the replacement for match l of s: & and \0 are the whole
// match, \1..\9 the groups, \u \l change the next character and \U \L up to
// \E change a run.
func Expand(repl, s string, l Loc) string {
	var b strings.Builder
	one, run := caseNone, caseNone

	write := func(text string) {
		for _, r := range text {
			switch {
			case one == caseUpper:
				r = unicode.ToUpper(r)
			case one == caseLower:
				r = unicode.ToLower(r)
			case run == caseUpper:
				r = unicode.ToUpper(r)
			case run == caseLower:
				r = unicode.ToLower(r)
			}
			one = caseNone
			b.WriteRune(r)
		}
	}

	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '&' {
			write(l.Text(s))
			continue
		}
		if c != '\\' || i+1 >= len(repl) {
			r, size := utf8.DecodeRuneInString(repl[i:])
			write(string(r))
			i += size - 1
			continue
		}
		i++
		switch n := repl[i]; {
		case n >= '0' && n <= '9':
			write(l.Group(s, int(n-'0')))
		case n == 'n', n == 'r':
			write("\n")
		case n == 't':
			write("\t")
		case n == 'u':
			one = caseUpper
		case n == 'l':
			one = caseLower
		case n == 'U':
			run = caseUpper
		case n == 'L':
			run = caseLower
		case n == 'E', n == 'e':
			run = caseNone
		default:
			write(string(n))
		}
	}
	return b.String()
}
