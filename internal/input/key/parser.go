package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// ParseError reports malformed key notation.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid key notation %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

// Unwrap allows errors.Is(err, ErrInvalidSpec).
func (e *ParseError) Unwrap() error {
	return ErrInvalidSpec
}

// specialTag marks an encoded key that has no single-byte form.
const specialTag = 0x80

// Parse parses notation text into a normalized sequence.
//
// Supported input:
//   - Literal characters: "dd", "gU", "ä"
//   - Bracketed keys: "<Esc>", "<CR>", "<C-w>", "<S-Tab>", "<A-x>", "<F5>"
//   - Character names: "<Space>", "<lt>", "<Bar>", "<Bslash>", "<Char-65>"
//   - "<Nop>" which contributes no keys
//   - Raw control bytes and the encoding produced by Encode
//
// A "<" that does not start a known name is a literal "<". A bracketed
// group that carries modifiers but no valid key is a ParseError.
func Parse(text string) (Sequence, error) {
	return parse(text, true)
}

// Decode parses the raw form produced by Encode, as register contents and
// feedkeys() strings hold it. Unlike Parse it reads "<" literally.
func Decode(text string) (Sequence, error) {
	return parse(text, false)
}

func parse(text string, notation bool) (Sequence, error) {
	var seq Sequence
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == specialTag:
			ev, n, err := decodeSpecial(text, i)
			if err != nil {
				return nil, err
			}
			seq = append(seq, ev)
			i += n
		case c < 0x20 || c == 0x7f:
			seq = append(seq, controlByteEvent(c))
			i++
		case c == '<' && notation:
			evs, n, ok, err := parseBracket(text, i)
			if err != nil {
				return nil, err
			}
			if !ok {
				seq = append(seq, Event{Key: KeyRune, Rune: '<'})
				i++
				continue
			}
			seq = append(seq, evs...)
			i += n
		default:
			r, n := utf8.DecodeRuneInString(text[i:])
			if r == utf8.RuneError && n <= 1 {
				return nil, &ParseError{Input: text, Offset: i, Msg: "invalid UTF-8"}
			}
			seq = append(seq, Event{Key: KeyRune, Rune: r})
			i += n
		}
	}
	return seq, nil
}

// MustParse parses notation and panics on error.
// Use only for known-valid notation in initialization code.
func MustParse(text string) Sequence {
	seq, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return seq
}

// ParseEvent parses notation that must denote exactly one key.
func ParseEvent(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	seq, err := Parse(spec)
	if err != nil {
		return Event{}, err
	}
	if len(seq) != 1 {
		return Event{}, fmt.Errorf("%w: %q is %d keys", ErrInvalidSpec, spec, len(seq))
	}
	return seq[0], nil
}

// parseBracket parses a <...> group starting at text[start]. ok is false
// when the group is not notation and the "<" must be taken literally.
func parseBracket(text string, start int) (Sequence, int, bool, error) {
	j := start + 1
	var mods Modifier
	for j+1 < len(text) && text[j+1] == '-' {
		m := modifierFromLetter(text[j])
		if m == ModNone {
			break
		}
		mods = mods.With(m)
		j += 2
	}
	if j >= len(text) {
		if mods != ModNone {
			return nil, 0, false, &ParseError{Input: text, Offset: start, Msg: "unterminated key name"}
		}
		return nil, 0, false, nil
	}

	// A single character name covers <C-x>, <C->> and <A-ä>.
	if r, n := utf8.DecodeRuneInString(text[j:]); mods != ModNone && j+n < len(text) && text[j+n] == '>' {
		ev := Event{Key: KeyRune, Rune: r, Modifiers: mods}.Normalize()
		return Sequence{ev}, j + n + 1 - start, true, nil
	}

	end := strings.IndexByte(text[j:], '>')
	if end < 0 {
		if mods != ModNone {
			return nil, 0, false, &ParseError{Input: text, Offset: start, Msg: "unterminated key name"}
		}
		return nil, 0, false, nil
	}
	name := text[j : j+end]
	consumed := j + end + 1 - start
	lower := strings.ToLower(name)

	if k, ok := keyNameMap[lower]; ok {
		return Sequence{NewSpecialEvent(k, mods)}, consumed, true, nil
	}
	if r, ok := runeNameMap[lower]; ok {
		return Sequence{NewRuneEvent(r, mods)}, consumed, true, nil
	}
	switch {
	case lower == "nul":
		return Sequence{Ctrl('@')}, consumed, true, nil
	case lower == "nop" && mods == ModNone:
		return Sequence{}, consumed, true, nil
	case strings.HasPrefix(lower, "char-"):
		n, err := strconv.ParseInt(name[5:], 0, 32)
		if err != nil || n < 0 || !utf8.ValidRune(rune(n)) {
			return nil, 0, false, &ParseError{Input: text, Offset: start, Msg: "bad character code " + name[5:]}
		}
		return Sequence{Event{Key: KeyRune, Rune: rune(n), Modifiers: mods}.Normalize()}, consumed, true, nil
	}
	if mods != ModNone {
		return nil, 0, false, &ParseError{Input: text, Offset: start, Msg: "unknown key " + name}
	}
	return nil, 0, false, nil
}

// controlByteEvent maps a raw control byte to the key a terminal sends it for.
func controlByteEvent(c byte) Event {
	switch c {
	case 0x1b:
		return Event{Key: KeyEscape}
	case '\r':
		return Event{Key: KeyEnter}
	case '\t':
		return Event{Key: KeyTab}
	case 0x7f:
		return Event{Key: KeyBackspace}
	case 0:
		return Ctrl('@')
	}
	if c <= 26 {
		return Ctrl(rune('a' + c - 1))
	}
	return Ctrl(rune('@' + c))
}

func decodeSpecial(text string, i int) (Event, int, error) {
	if i+2 >= len(text) {
		return Event{}, 0, &ParseError{Input: text, Offset: i, Msg: "truncated special key"}
	}
	tag, mods := text[i+1], Modifier(text[i+2])
	switch tag {
	case 'k':
		if i+3 >= len(text) {
			return Event{}, 0, &ParseError{Input: text, Offset: i, Msg: "truncated special key"}
		}
		k := Key(text[i+3])
		if !k.IsSpecial() || k >= KeyRune {
			return Event{}, 0, &ParseError{Input: text, Offset: i, Msg: "unknown special key code"}
		}
		return NewSpecialEvent(k, mods), 4, nil
	case 'r':
		r, n := utf8.DecodeRuneInString(text[i+3:])
		if r == utf8.RuneError && n <= 1 {
			return Event{}, 0, &ParseError{Input: text, Offset: i, Msg: "bad encoded character"}
		}
		return Event{Key: KeyRune, Rune: r, Modifiers: mods}.Normalize(), 3 + n, nil
	}
	return Event{}, 0, &ParseError{Input: text, Offset: i, Msg: "unknown special key tag"}
}
