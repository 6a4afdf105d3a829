package pattern

import (
	"strconv"
	"strings"
	"unicode"
)

type magic uint8

const (
	veryNoMagic magic = iota
	noMagic
	normalMagic
	veryMagic
)

const wordClass = `[0-9A-Za-z_]`

var classEscapes = map[byte]string{
	's': `[ \t]`,
	'S': `[^ \t]`,
	'd': `[0-9]`,
	'D': `[^0-9]`,
	'w': wordClass,
	'W': `[^0-9A-Za-z_]`,
	'a': `[A-Za-z]`,
	'A': `[^A-Za-z]`,
	'l': `[a-z]`,
	'L': `[^a-z]`,
	'u': `[A-Z]`,
	'U': `[^A-Z]`,
	'x': `[0-9A-Fa-f]`,
	'X': `[^0-9A-Fa-f]`,
	'o': `[0-7]`,
	'O': `[^0-7]`,
	'h': `[A-Za-z_]`,
	'H': `[^A-Za-z_]`,
	'k': `[0-9A-Za-z_\u00C0-\uFFFF]`,
	'K': `[A-Za-z_\u00C0-\uFFFF]`,
	'i': `[0-9A-Za-z_\u00C0-\uFFFF]`,
	'I': `[A-Za-z_\u00C0-\uFFFF]`,
	'f': `[0-9A-Za-z_./\-+,#$%~=]`,
	'F': `[A-Za-z_./\-+,#$%~=]`,
	'p': `[^\x00-\x1F\x7F]`,
	'P': `[^\x00-\x1F\x7F0-9]`,
}

var posixClasses = map[string]string{
	"alpha":  `A-Za-z`,
	"digit":  `0-9`,
	"alnum":  `0-9A-Za-z`,
	"lower":  `a-z`,
	"upper":  `A-Z`,
	"space":  `\s`,
	"blank":  ` \t`,
	"punct":  `!-/:-@\[-` + "`" + `{-~`,
	"xdigit": `0-9A-Fa-f`,
	"cntrl":  `\x00-\x1F\x7F`,
	"print":  `\x20-\x7E`,
	"graph":  `\x21-\x7E`,
	"return": `\r`,
	"tab":    `\t`,
	"escape": `\x1B`,
}

type translator struct {
	src   string
	pos   int
	magic magic
	out   strings.Builder
	cs    caseFlag
	depth int

	// atStart is true where ^ is an anchor.
	atStart bool
	ze      bool
}

// translate converts a Vim pattern to regexp2 syntax.
func translate(src string) (string, caseFlag, error) {
	t := &translator{src: src, magic: normalMagic, atStart: true}
	if err := t.run(); err != nil {
		return "", 0, err
	}
	if t.depth != 0 {
		return "", 0, &Error{Pattern: src, Msg: `unmatched \(`}
	}
	if t.ze {
		t.out.WriteByte(')')
	}
	return t.out.String(), t.cs, nil
}

func (t *translator) fail(msg string) error {
	return &Error{Pattern: t.src, Msg: msg}
}

// token returns the next character and whether it carries its special
// meaning at the current magic level.
func (t *translator) token() (c byte, special, escaped bool) {
	c = t.src[t.pos]
	t.pos++
	if c == '\\' && t.pos < len(t.src) {
		escaped = true
		c = t.src[t.pos]
		t.pos++
	}
	switch {
	case strings.IndexByte("()|+?={@%<>", c) >= 0:
		special = escaped != (t.magic == veryMagic)
	case strings.IndexByte(".*[~", c) >= 0:
		if t.magic >= normalMagic {
			special = !escaped
		} else {
			special = escaped
		}
	case c == '^' || c == '$':
		if t.magic == veryNoMagic {
			special = escaped
		} else {
			special = !escaped
		}
	default:
		special = escaped
	}
	return c, special, escaped
}

func (t *translator) run() error {
	for t.pos < len(t.src) {
		start := t.atStart
		t.atStart = false
		if t.src[t.pos] >= 0x80 {
			t.literalRune()
			continue
		}
		c, special, _ := t.token()
		if special && c == '*' && start {
			special = false
		}
		if !special {
			t.literal(c)
			continue
		}
		if err := t.special(c, start); err != nil {
			return err
		}
	}
	return nil
}

func (t *translator) literalRune() {
	end := t.pos + 1
	for end < len(t.src) && t.src[end]&0xC0 == 0x80 {
		end++
	}
	t.out.WriteString(t.src[t.pos:end])
	t.pos = end
}

func (t *translator) literal(c byte) {
	if strings.IndexByte(`\*+?|{}[]()^$.#`, c) >= 0 {
		t.out.WriteByte('\\')
	}
	t.out.WriteByte(c)
}

func (t *translator) special(c byte, atStart bool) error {
	switch c {
	case '(':
		t.out.WriteByte('(')
		t.depth++
		t.atStart = true
	case ')':
		if t.depth == 0 {
			return t.fail(`unmatched \)`)
		}
		t.depth--
		t.out.WriteByte(')')
	case '|':
		t.out.WriteByte('|')
		t.atStart = true
	case '+', '*':
		t.out.WriteByte(c)
	case '?', '=':
		t.out.WriteByte('?')
	case '{':
		return t.brace()
	case '<':
		t.out.WriteString(`(?<!` + wordClass + `)(?=` + wordClass + `)`)
	case '>':
		t.out.WriteString(`(?<=` + wordClass + `)(?!` + wordClass + `)`)
	case '.':
		t.out.WriteByte('.')
	case '[':
		t.class()
	case '~':
		t.out.WriteString(`\~`)
	case '^':
		if atStart {
			t.out.WriteByte('^')
		} else {
			t.out.WriteString(`\^`)
		}
	case '$':
		if t.atEnd() {
			t.out.WriteByte('$')
		} else {
			t.out.WriteString(`\$`)
		}
	case '%':
		return t.percent()
	case '@':
		return t.fail(`\@ is not supported`)
	default:
		return t.escape(c)
	}
	return nil
}

// atEnd reports whether $ at the current position is an anchor.
func (t *translator) atEnd() bool {
	rest := t.src[t.pos:]
	if rest == "" {
		return true
	}
	if t.magic == veryMagic {
		return rest[0] == '|' || rest[0] == ')'
	}
	return strings.HasPrefix(rest, `\|`) || strings.HasPrefix(rest, `\)`) || strings.HasPrefix(rest, `\n`)
}

func (t *translator) escape(c byte) error {
	if cls, ok := classEscapes[c]; ok {
		t.out.WriteString(cls)
		return nil
	}
	switch {
	case c >= '1' && c <= '9':
		t.out.WriteByte('\\')
		t.out.WriteByte(c)
		return nil
	}
	switch c {
	case 'n':
		t.out.WriteString(`\n`)
	case 't':
		t.out.WriteString(`\t`)
	case 'e':
		t.out.WriteString(`\x1B`)
	case 'r':
		t.out.WriteString(`\r`)
	case 'b':
		t.out.WriteString(`\x08`)
	case 'c':
		t.cs = caseIgnore
	case 'C':
		t.cs = caseMatch
	case 'v':
		t.magic = veryMagic
	case 'm':
		t.magic = normalMagic
	case 'M':
		t.magic = noMagic
	case 'V':
		t.magic = veryNoMagic
	case 'z':
		return t.zed()
	case '_':
		return t.underscore()
	default:
		t.literal(c)
	}
	return nil
}

func (t *translator) zed() error {
	if t.pos >= len(t.src) {
		return t.fail(`trailing \z`)
	}
	c := t.src[t.pos]
	t.pos++
	switch c {
	case 's':
		if t.depth != 0 {
			return t.fail(`\zs inside a group`)
		}
		prefix := t.out.String()
		t.out.Reset()
		if prefix != "" {
			t.out.WriteString("(?<=" + prefix + ")")
		}
	case 'e':
		if t.depth != 0 || t.ze {
			return t.fail(`misplaced \ze`)
		}
		t.out.WriteString("(?=")
		t.ze = true
	default:
		return t.fail(`invalid \z` + string(c))
	}
	return nil
}

func (t *translator) underscore() error {
	if t.pos >= len(t.src) {
		return t.fail(`trailing \_`)
	}
	c := t.src[t.pos]
	t.pos++
	switch c {
	case '.':
		t.out.WriteString(`[\s\S]`)
	case '^':
		t.out.WriteByte('^')
	case '$':
		t.out.WriteByte('$')
	case '[':
		t.out.WriteString(`(?:\n|`)
		t.class()
		t.out.WriteByte(')')
	default:
		cls, ok := classEscapes[c]
		if !ok {
			return t.fail(`invalid \_` + string(c))
		}
		t.out.WriteString(`(?:\n|` + cls + `)`)
	}
	return nil
}

func (t *translator) percent() error {
	if t.pos >= len(t.src) {
		return t.fail(`trailing \%`)
	}
	c := t.src[t.pos]
	t.pos++
	switch c {
	case '(':
		t.out.WriteString("(?:")
		t.depth++
		t.atStart = true
		return nil
	case '^':
		t.out.WriteString(`\A`)
		return nil
	case '$':
		t.out.WriteString(`\z`)
		return nil
	case 'd', 'x', 'u', 'U', 'o':
		return t.codepoint(c)
	}
	return t.fail(`\%` + string(c) + ` is not supported`)
}

// codepoint translates \%d123, \%x2a, \%u20AC, \%U1F600 and \%o40.
func (t *translator) codepoint(kind byte) error {
	base, maxLen := 16, 2
	switch kind {
	case 'd':
		base, maxLen = 10, 10
	case 'o':
		base, maxLen = 8, 11
	case 'u':
		maxLen = 4
	case 'U':
		maxLen = 8
	}
	end := t.pos
	for end < len(t.src) && end-t.pos < maxLen && isDigitIn(t.src[end], base) {
		end++
	}
	n, err := strconv.ParseInt(t.src[t.pos:end], base, 32)
	if err != nil || n > unicode.MaxRune {
		return t.fail(`invalid \%` + string(kind))
	}
	t.pos = end
	if n <= 0xFFFF {
		t.out.WriteString(`\u` + leftPad(strconv.FormatInt(n, 16), 4))
	} else {
		t.out.WriteString(string(rune(n)))
	}
	return nil
}

func isDigitIn(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return int(c-'0') < base
	case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return base == 16
	}
	return false
}

func leftPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

// brace translates \{n,m} and \{-n,m} after the brace.
func (t *translator) brace() error {
	end := strings.IndexByte(t.src[t.pos:], '}')
	if end < 0 {
		return t.fail(`missing } after \{`)
	}
	body := t.src[t.pos : t.pos+end]
	t.pos += end + 1
	body = strings.TrimSuffix(body, `\`)

	lazy := strings.HasPrefix(body, "-")
	body = strings.TrimPrefix(body, "-")
	for _, r := range body {
		if (r < '0' || r > '9') && r != ',' {
			return t.fail(`invalid \{` + body + `}`)
		}
	}

	var q string
	switch {
	case body == "" || body == ",":
		q = "*"
	case strings.HasPrefix(body, ","):
		q = "{0" + body + "}"
	default:
		q = "{" + body + "}"
	}
	t.out.WriteString(q)
	if lazy {
		t.out.WriteByte('?')
	}
	return nil
}

// class copies a [...] collection. An unterminated [ is a literal.
func (t *translator) class() {
	i := t.pos
	var b strings.Builder
	b.WriteByte('[')
	if i < len(t.src) && t.src[i] == '^' {
		b.WriteByte('^')
		i++
	}
	if i < len(t.src) && t.src[i] == ']' {
		b.WriteString(`\]`)
		i++
	}
	for i < len(t.src) {
		c := t.src[i]
		switch {
		case c == ']':
			b.WriteByte(']')
			t.out.WriteString(b.String())
			t.pos = i + 1
			return
		case c == '[' && strings.HasPrefix(t.src[i:], "[:"):
			if end := strings.Index(t.src[i:], ":]"); end > 0 {
				if cls, ok := posixClasses[t.src[i+2:i+end]]; ok {
					b.WriteString(cls)
					i += end + 2
					continue
				}
			}
			b.WriteString(`\[`)
			i++
		case c == '\\' && i+1 < len(t.src):
			switch n := t.src[i+1]; n {
			case 'e':
				b.WriteString(`\x1B`)
			case 't':
				b.WriteString(`\t`)
			case 'n':
				b.WriteString(`\n`)
			case 'r':
				b.WriteString(`\r`)
			case '\\', ']', '^', '-':
				b.WriteByte('\\')
				b.WriteByte(n)
			default:
				b.WriteString(`\\`)
				b.WriteByte(n)
			}
			i += 2
		case c == '[':
			b.WriteString(`\[`)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	// no closing bracket
	t.out.WriteString(`\[`)
}
