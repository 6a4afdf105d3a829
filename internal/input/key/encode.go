package key

import (
	"strings"
	"unicode/utf8"
)

// Encode returns the raw string form of a sequence. Keys that a terminal
// delivers as a single control byte are written as that byte, printable
// characters as UTF-8, and everything else as 0x80 followed by a tag, the
// modifier byte and the key code or character.
//
// Encode is injective on normalized sequences, so its result also serves as
// a map key for sequences.
func Encode(seq Sequence) string {
	var b strings.Builder
	for _, ev := range seq {
		encodeEvent(&b, ev)
	}
	return b.String()
}

func encodeEvent(b *strings.Builder, ev Event) {
	if ev.Modifiers == ModNone {
		switch ev.Key {
		case KeyEscape:
			b.WriteByte(0x1b)
			return
		case KeyEnter:
			b.WriteByte('\r')
			return
		case KeyTab:
			b.WriteByte('\t')
			return
		case KeyRune:
			if ev.Rune >= 0x20 && ev.Rune != 0x7f && ev.Rune != specialTag {
				b.WriteRune(ev.Rune)
				return
			}
		}
	}
	if ev.Key == KeyRune && ev.Modifiers == ModCtrl {
		if c, ok := controlByte(ev.Rune); ok {
			b.WriteByte(c)
			return
		}
	}
	b.WriteByte(specialTag)
	if ev.Key == KeyRune {
		b.WriteByte('r')
		b.WriteByte(byte(ev.Modifiers))
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], ev.Rune)
		b.Write(buf[:n])
		return
	}
	b.WriteByte('k')
	b.WriteByte(byte(ev.Modifiers))
	b.WriteByte(byte(ev.Key))
}

// controlByte returns the C0 byte for Ctrl plus r, when one exists and
// decodes back to the same event.
func controlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z' && r != 'i' && r != 'm':
		return byte(r-'a') + 1, true
	case r == '@':
		return 0, true
	case r == '\\', r == ']', r == '^', r == '_':
		return byte(r - '@'), true
	}
	return 0, false
}
