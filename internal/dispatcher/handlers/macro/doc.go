// Package macro provides the commands that record and replay input.
//
//   - q{reg} starts recording typed keys into a register; q stops. An
//     upper case register appends to its lower case counterpart.
//   - @{reg} feeds the register back as typed input, count times. @@
//     repeats the register played last and @: the last command line.
//   - . repeats the last change, with a new count when one is given.
//
// Recording and replay belong to the dispatcher; these commands only ask
// for them through command.Host.
package macro
