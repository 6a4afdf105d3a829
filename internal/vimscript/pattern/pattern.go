// Package pattern compiles Vim regular expressions.
//
// Vim patterns are translated to the .NET-flavoured syntax of
// github.com/dlclark/regexp2, which provides the lookaround that \zs, \ze,
// \< and \> need. Offsets returned by this package are byte offsets.
package pattern

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single match attempt.
const MatchTimeout = 2 * time.Second

// Error reports a pattern that cannot be compiled.
type Error struct {
	Pattern string
	Msg     string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("E383: Invalid search string: %s (%s)", e.Pattern, e.Msg)
	}
	return "E383: Invalid search string: " + e.Pattern
}

// Code returns the Vim error number.
func (e *Error) Code() int { return 383 }

// Options select how a pattern is compiled.
type Options struct {
	IgnoreCase bool
	SmartCase  bool

	// Multiline makes ^ and $ match at every line, as buffer searches do.
	Multiline bool
}

// Pattern is a compiled Vim pattern.
type Pattern struct {
	Source string
	re     *regexp2.Regexp
}

// Compile translates and compiles a Vim pattern.
func Compile(src string, opts Options) (*Pattern, error) {
	expr, ic, err := translate(src)
	if err != nil {
		return nil, err
	}
	ignore := opts.IgnoreCase
	if opts.SmartCase && hasUpper(src) {
		ignore = false
	}
	switch ic {
	case caseIgnore:
		ignore = true
	case caseMatch:
		ignore = false
	}

	var ro regexp2.RegexOptions
	if ignore {
		ro |= regexp2.IgnoreCase
	}
	if opts.Multiline {
		ro |= regexp2.Multiline
	}
	re, err := regexp2.Compile(expr, ro)
	if err != nil {
		return nil, &Error{Pattern: src, Msg: err.Error()}
	}
	re.MatchTimeout = MatchTimeout
	return &Pattern{Source: src, re: re}, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(src string, opts Options) *Pattern {
	p, err := Compile(src, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether s contains a match.
func (p *Pattern) Match(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

// Loc is a match location in bytes. Groups holds the byte ranges of the
// capture groups, -1 for groups that did not participate.
type Loc struct {
	Start, End int
	Groups     [][2]int
}

// Text returns the matched text of s.
func (l Loc) Text(s string) string {
	return s[l.Start:l.End]
}

// Group returns capture group n of s, or "".
func (l Loc) Group(s string, n int) string {
	if n == 0 {
		return l.Text(s)
	}
	if n > len(l.Groups) || l.Groups[n-1][0] < 0 {
		return ""
	}
	g := l.Groups[n-1]
	return s[g[0]:g[1]]
}

// FindFrom returns the first match starting at or after byte offset from.
func (p *Pattern) FindFrom(s string, from int) (Loc, bool) {
	idx := newIndex(s)
	m, err := p.re.FindStringMatchStartingAt(s, idx.toRune(from))
	if err != nil || m == nil {
		return Loc{}, false
	}
	return idx.loc(m), true
}

// FindAll returns every non-overlapping match.
func (p *Pattern) FindAll(s string) []Loc {
	idx := newIndex(s)
	var out []Loc
	m, err := p.re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, idx.loc(m))
		m, err = p.re.FindNextMatch(m)
	}
	return out
}

// FindLastBefore returns the last match starting before byte offset before.
func (p *Pattern) FindLastBefore(s string, before int) (Loc, bool) {
	var last Loc
	found := false
	for _, l := range p.FindAll(s) {
		if l.Start >= before {
			break
		}
		last, found = l, true
	}
	return last, found
}

type caseFlag uint8

const (
	caseDefault caseFlag = iota
	caseIgnore
	caseMatch
)

func hasUpper(src string) bool {
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\\' {
			i++
			continue
		}
		if c >= 'A' && c <= 'Z' {
			return true
		}
	}
	for _, r := range src {
		if r >= utf8.RuneSelf && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// index converts between regexp2 rune offsets and byte offsets.
type index struct {
	s      string
	starts []int
}

func newIndex(s string) *index {
	starts := make([]int, 0, len(s)+1)
	for i := range s {
		starts = append(starts, i)
	}
	starts = append(starts, len(s))
	return &index{s: s, starts: starts}
}

func (x *index) toByte(r int) int {
	if r < 0 {
		return -1
	}
	if r >= len(x.starts) {
		return len(x.s)
	}
	return x.starts[r]
}

func (x *index) toRune(b int) int {
	if b <= 0 {
		return 0
	}
	lo, hi := 0, len(x.starts)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if x.starts[mid] < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (x *index) loc(m *regexp2.Match) Loc {
	l := Loc{Start: x.toByte(m.Index), End: x.toByte(m.Index + m.Length)}
	groups := m.Groups()
	for _, g := range groups[1:] {
		if len(g.Captures) == 0 {
			l.Groups = append(l.Groups, [2]int{-1, -1})
			continue
		}
		l.Groups = append(l.Groups, [2]int{x.toByte(g.Index), x.toByte(g.Index + g.Length)})
	}
	return l
}

// Escape quotes the characters of s that are special in a magic pattern.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\/.*$^~[]`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
