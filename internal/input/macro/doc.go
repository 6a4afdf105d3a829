// Package macro records typed keys into registers and replays them.
//
// Recording is started with q{reg} and captures the keys the user typed,
// before mapping expansion. Stopping stores the keys in the register as
// text encoded with key.Encode, so a macro is an ordinary register that
// :let @a and setreg() can read and write. Replay decodes the register
// and feeds the keys back through the dispatcher with remapping.
//
// Valid macro registers are a-z (A-Z append), 0-9 and the unnamed
// register.
package macro
