package dispatcher

import (
	"slices"

	"github.com/dshills/vimcore/internal/input/vim"
)

// YankEvent describes a register write made by an operator or a
// multi-caret command.
type YankEvent struct {
	// Register is the register written: the one selected with "x, or 0
	// for the default.
	Register rune

	// Command names the command that wrote it.
	Command string

	Value vim.Register

	// Start and End bound the text the command touched, when known.
	Start int
	End   int
}

// YankListener is notified of register writes.
type YankListener interface {
	OnYank(ev YankEvent)
}

// YankListenerFunc adapts a function to YankListener.
type YankListenerFunc func(ev YankEvent)

// OnYank calls f(ev).
func (f YankListenerFunc) OnYank(ev YankEvent) { f(ev) }

// listeners is an ordered set of subscribers.
type listeners[T any] struct {
	next    int
	entries []listener[T]
}

type listener[T any] struct {
	id int
	l  T
}

func (ls *listeners[T]) add(l T) func() {
	id := ls.next
	ls.next++
	ls.entries = append(ls.entries, listener[T]{id: id, l: l})
	return func() {
		ls.entries = slices.DeleteFunc(ls.entries, func(e listener[T]) bool { return e.id == id })
	}
}

func (ls *listeners[T]) each(fn func(T)) {
	for _, e := range slices.Clone(ls.entries) {
		fn(e.l)
	}
}
