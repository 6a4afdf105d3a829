package vim

import (
	"strings"

	"github.com/dshills/vimcore/internal/input/key"
)

// ArgumentType is the kind of argument a command waits for.
type ArgumentType uint8

const (
	// ArgNone means the command takes no argument.
	ArgNone ArgumentType = iota

	// ArgMotion is a motion or text object (operators).
	ArgMotion

	// ArgCharacter is a single key (f, t, r, m, q, @).
	ArgCharacter

	// ArgDigraph is a two-character digraph or a literal key (<C-K>, <C-V>).
	ArgDigraph

	// ArgExtended is a line of text ended by <CR> (/ and ? searches).
	ArgExtended
)

func (a ArgumentType) String() string {
	switch a {
	case ArgMotion:
		return "motion"
	case ArgCharacter:
		return "character"
	case ArgDigraph:
		return "digraph"
	case ArgExtended:
		return "extended"
	}
	return "none"
}

// Builder accumulates one in-flight Normal-mode command.
//
// The zero value is an empty builder.
type Builder struct {
	count1   CountState
	count2   CountState
	register rune
	operator string
	argType  ArgumentType
	keys     key.Sequence
}

// Reset clears the builder.
func (b *Builder) Reset() {
	*b = Builder{keys: b.keys[:0]}
}

// IsEmpty reports whether nothing has been typed yet.
func (b *Builder) IsEmpty() bool {
	return len(b.keys) == 0 && !b.count1.Active && b.register == 0
}

// AddDigit feeds a count digit. Before an operator the digit belongs to
// count1, after it to count2.
func (b *Builder) AddDigit(r rune) bool {
	c := &b.count1
	if b.operator != "" {
		c = &b.count2
	}
	if !c.AccumulateDigit(r) {
		return false
	}
	b.keys = append(b.keys, key.NewRuneEvent(r, key.ModNone))
	return true
}

// HasCount reports whether any count was typed.
func (b *Builder) HasCount() bool {
	return b.count1.Active || b.count2.Active
}

// Count returns count1*count2 with each defaulting to 1.
func (b *Builder) Count() int {
	return CombineCounts(b.count1.Get(), b.count2.Get())
}

// RawCount returns the combined count, or 0 when none was typed.
func (b *Builder) RawCount() int {
	if !b.HasCount() {
		return 0
	}
	return b.Count()
}

// SetCount replaces the typed counts, used when "." supplies a new one.
func (b *Builder) SetCount(n int) {
	b.count1.Reset()
	b.count2.Reset()
	if n > 0 {
		b.count1 = CountState{Value: min(n, maxCount), Active: true}
	}
}

// SetRegister records the register selected with "x.
func (b *Builder) SetRegister(r rune) {
	b.register = r
}

// Register returns the selected register, or 0.
func (b *Builder) Register() rune {
	return b.register
}

// SetOperator records the pending operator.
func (b *Builder) SetOperator(name string) {
	b.operator = name
	b.argType = ArgMotion
}

// Operator returns the pending operator name, or "".
func (b *Builder) Operator() string {
	return b.operator
}

// ExpectArgument records the argument the resolved command waits for.
func (b *Builder) ExpectArgument(t ArgumentType) {
	b.argType = t
}

// ArgumentType returns the expected argument.
func (b *Builder) ArgumentType() ArgumentType {
	return b.argType
}

// AppendKeys records keys consumed by the command.
func (b *Builder) AppendKeys(keys ...key.Event) {
	b.keys = append(b.keys, keys...)
}

// Keys returns the consumed keys, counts and register included.
func (b *Builder) Keys() key.Sequence {
	return b.keys.Clone()
}

// ShowCmd returns the pending keys the way 'showcmd' displays them.
func (b *Builder) ShowCmd() string {
	var sb strings.Builder
	for _, ev := range b.keys {
		if ev.IsChar() {
			sb.WriteRune(ev.Rune)
			continue
		}
		if ev.Key == key.KeyRune && ev.Modifiers == key.ModCtrl {
			sb.WriteByte('^')
			sb.WriteRune(ev.Rune ^ 0x20)
			continue
		}
		sb.WriteString(ev.Notation())
	}
	return sb.String()
}
