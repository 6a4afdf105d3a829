// Package key provides key event types and the Vim key notation codec.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: identifies a special key, or KeyRune for characters
//   - Modifier: modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single normalized key press, comparable and usable as a map key
//   - Sequence: the ordered list of events that forms a command or mapping
//
// # Notation
//
// Sequences are written in Vim notation: literal characters plus bracketed
// names such as "<C-w>", "<S-Tab>", "<CR>", "<lt>" and "<Space>". Parse also
// accepts the raw string encoding produced by Encode, in which control keys
// are single control bytes and other special keys are a 0x80-led triple.
// Scripts use the raw form to embed keys unambiguously in strings.
//
// Both ToNotation and Encode round-trip: Parse(ToNotation(s)) and
// Parse(Encode(s)) yield s for every normalized sequence s.
package key
