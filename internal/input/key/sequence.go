package key

import (
	"slices"
	"strings"
)

// Sequence is an ordered list of key events.
type Sequence []Event

// Len returns the number of events.
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty returns true if the sequence has no events.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Equal reports whether both sequences hold the same events.
func (s Sequence) Equal(other Sequence) bool {
	return slices.Equal(s, other)
}

// HasPrefix reports whether prefix is a prefix of s.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	return len(prefix) <= len(s) && slices.Equal(s[:len(prefix)], prefix)
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Concat returns a new sequence of s followed by other.
func (s Sequence) Concat(other Sequence) Sequence {
	out := make(Sequence, 0, len(s)+len(other))
	out = append(out, s...)
	return append(out, other...)
}

// Text returns the characters of the sequence when every event is an
// unmodified character.
func (s Sequence) Text() (string, bool) {
	var b strings.Builder
	for _, ev := range s {
		if !ev.IsChar() {
			return "", false
		}
		b.WriteRune(ev.Rune)
	}
	return b.String(), true
}

// String returns the notation for the sequence.
func (s Sequence) String() string {
	return ToNotation(s)
}

// ToNotation formats a sequence in canonical Vim notation.
func ToNotation(s Sequence) string {
	var b strings.Builder
	for _, ev := range s {
		b.WriteString(ev.Notation())
	}
	return b.String()
}

// CompareSequences orders sequences event by event, shorter first on a tie.
func CompareSequences(a, b Sequence) int {
	return slices.CompareFunc(a, b, Compare)
}

// Normalize rewrites notation text into its canonical form.
func Normalize(text string) (string, error) {
	seq, err := Parse(text)
	if err != nil {
		return "", err
	}
	return ToNotation(seq), nil
}
