package key

import (
	"cmp"
	"fmt"
	"unicode"
)

// Event represents a single key press.
//
// Events are normalized on construction, so two events that denote the
// same key press compare equal with == and hash identically in maps.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a normalized key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}.Normalize()
}

// NewSpecialEvent creates a normalized key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}.Normalize()
}

// Ctrl is shorthand for NewRuneEvent(r, ModCtrl).
func Ctrl(r rune) Event {
	return NewRuneEvent(r, ModCtrl)
}

// Normalize folds equivalent spellings of the same key press together.
//
// Shift on a printable character without Ctrl is folded into the character
// (<S-a> is A). Ctrl letters are lower case (<C-A> is <C-a>). <C-[>, <C-m>
// and <C-i> are Esc, CR and Tab, as a terminal delivers them.
func (e Event) Normalize() Event {
	if e.Key != KeyRune {
		e.Rune = 0
		return e
	}
	if e.Modifiers.Has(ModCtrl) {
		e.Rune = unicode.ToLower(e.Rune)
		if e.Modifiers == ModCtrl {
			switch e.Rune {
			case '[':
				return Event{Key: KeyEscape}
			case 'm':
				return Event{Key: KeyEnter}
			case 'i':
				return Event{Key: KeyTab}
			}
		}
		return e
	}
	if e.Modifiers.Has(ModShift) && unicode.IsPrint(e.Rune) {
		e.Rune = unicode.ToUpper(e.Rune)
		e.Modifiers = e.Modifiers.Without(ModShift)
	}
	return e
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune
}

// IsChar returns true if this is an unmodified printable character,
// the kind of key that inserts itself in Insert mode.
func (e Event) IsChar() bool {
	return e.Key == KeyRune && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0 && unicode.IsPrint(e.Rune)
}

// IsDigit returns true for an unmodified 0-9.
func (e Event) IsDigit() bool {
	return e.IsChar() && e.Rune >= '0' && e.Rune <= '9'
}

// IsEscape returns true if this is the Escape key without modifiers.
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape && e.Modifiers == ModNone
}

// IsEnter returns true if this is the Enter key without modifiers.
func (e Event) IsEnter() bool {
	return e.Key == KeyEnter && e.Modifiers == ModNone
}

// Compare orders events: events carrying a character sort after events
// without one, then by key code, then by modifiers, then by character.
func Compare(a, b Event) int {
	ac, bc := a.Key == KeyRune, b.Key == KeyRune
	if ac != bc {
		if ac {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Modifiers, b.Modifiers); c != 0 {
		return c
	}
	return cmp.Compare(a.Rune, b.Rune)
}

// Notation returns the Vim notation for the event, e.g. "a", "<C-w>",
// "<S-Tab>" or "<lt>".
func (e Event) Notation() string {
	if e.Key == KeyRune {
		if e.Modifiers == ModNone {
			switch e.Rune {
			case ' ':
				return "<Space>"
			case '<':
				return "<lt>"
			case '|':
				return "<Bar>"
			case '\\':
				return "<Bslash>"
			}
			if unicode.IsPrint(e.Rune) {
				return string(e.Rune)
			}
			return fmt.Sprintf("<Char-%d>", e.Rune)
		}
		name := string(e.Rune)
		switch e.Rune {
		case ' ':
			name = "Space"
		case '<':
			name = "lt"
		case '>':
			name = "gt"
		case '|':
			name = "Bar"
		case '\\':
			name = "Bslash"
		}
		if !unicode.IsPrint(e.Rune) {
			name = fmt.Sprintf("Char-%d", e.Rune)
		}
		return "<" + e.Modifiers.Prefix() + name + ">"
	}
	return "<" + e.Modifiers.Prefix() + e.Key.String() + ">"
}

// String returns the notation for the event.
func (e Event) String() string {
	return e.Notation()
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
