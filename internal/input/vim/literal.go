package vim

// CodeReader reads a character typed by its code after <C-V> in Insert
// mode: up to three decimal digits (at most 255), o or O and up to three
// octal digits (at most 0o377), x or X and two hex digits, u and four,
// U and eight (at most 0x7fffffff).
//
// The zero value is not ready; use NewCodeReader.
type CodeReader struct {
	prefix rune
	base   rune
	limit  rune
	digits int
	read   int
	value  rune
}

// NewCodeReader starts reading a code at its first key. It reports false
// when r does not start a code, and the key is taken literally.
func NewCodeReader(r rune) (*CodeReader, bool) {
	c := &CodeReader{prefix: r}
	switch r {
	case 'o', 'O':
		c.base, c.digits, c.limit = 8, 3, 0o377
	case 'x', 'X':
		c.base, c.digits = 16, 2
	case 'u':
		c.base, c.digits = 16, 4
	case 'U':
		c.base, c.digits, c.limit = 16, 8, 0x7fffffff
	default:
		if r < '0' || r > '9' {
			return nil, false
		}
		c.prefix = 0
		c.base, c.digits, c.limit = 10, 3, 255
		c.Feed(r)
	}
	return c, true
}

// Feed takes the next key. consumed is false when r is not part of the
// code; the code is then complete and r must be handled on its own. done
// reports that the code is complete.
func (c *CodeReader) Feed(r rune) (consumed, done bool) {
	d := digitValue(r, c.base)
	if d < 0 {
		return false, true
	}
	v := int64(c.value)*int64(c.base) + int64(d)
	if c.limit > 0 && v > int64(c.limit) {
		return false, true
	}
	c.value = rune(v)
	c.read++
	return true, c.read == c.digits
}

// Text returns what the code inserts: the character, or the prefix letter
// when no digit followed it.
func (c *CodeReader) Text() string {
	if c.read == 0 {
		return string(c.prefix)
	}
	return string(c.value)
}

func digitValue(r, base rune) rune {
	var d rune
	switch {
	case r >= '0' && r <= '9':
		d = r - '0'
	case r >= 'a' && r <= 'f':
		d = r - 'a' + 10
	case r >= 'A' && r <= 'F':
		d = r - 'A' + 10
	default:
		return -1
	}
	if d >= base {
		return -1
	}
	return d
}
