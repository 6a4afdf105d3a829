// Package trie implements the per-mode command trie.
//
// A node is terminal when a command ends there and partial when longer
// commands pass through it. A node that is both is ambiguous: the input
// loop has to wait for the next key or a timeout to decide.
package trie

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/owner"
)

// ErrEmptySequence is returned when inserting an empty key sequence.
var ErrEmptySequence = errors.New("empty key sequence")

// ConflictError reports an insert over an existing, different command.
type ConflictError struct {
	Sequence key.Sequence
	Owner    owner.ID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("key sequence %s already bound by %q", e.Sequence, e.Owner)
}

// Status classifies the node reached by a lookup.
type Status uint8

const (
	// NotFound means no command starts with the sequence.
	NotFound Status = iota

	// Partial means longer commands continue the sequence.
	Partial

	// Terminal means a command ends here and nothing continues it.
	Terminal

	// Ambiguous means a command ends here and longer commands continue it.
	Ambiguous
)

func (s Status) String() string {
	switch s {
	case Partial:
		return "partial"
	case Terminal:
		return "terminal"
	case Ambiguous:
		return "ambiguous"
	}
	return "not-found"
}

// Entry is a command stored at a terminal node.
type Entry[T comparable] struct {
	Value T
	Owner owner.ID
}

// Result is the outcome of a lookup.
type Result[T comparable] struct {
	Status Status
	Entry  Entry[T]
}

// HasCommand reports whether a command ends at the looked-up sequence.
func (r Result[T]) HasCommand() bool {
	return r.Status == Terminal || r.Status == Ambiguous
}

// Trie maps key sequences to commands.
//
// A Trie is not safe for concurrent use; callers serialize access.
type Trie[T comparable] struct {
	root *node[T]
	size int
}

type node[T comparable] struct {
	children map[key.Event]*node[T]
	terminal bool
	entry    Entry[T]
}

func newNode[T comparable]() *node[T] {
	return &node[T]{children: make(map[key.Event]*node[T])}
}

// New creates an empty trie.
func New[T comparable]() *Trie[T] {
	return &Trie[T]{root: newNode[T]()}
}

// Len returns the number of commands.
func (t *Trie[T]) Len() int {
	return t.size
}

// Insert binds seq to value. Rebinding a sequence to a different value
// fails with ConflictError unless override is set, in which case the last
// writer wins. Rebinding to the same value updates the owner.
func (t *Trie[T]) Insert(seq key.Sequence, value T, id owner.ID, override bool) error {
	if len(seq) == 0 {
		return ErrEmptySequence
	}

	n := t.root
	for _, ev := range seq {
		child, ok := n.children[ev]
		if !ok {
			child = newNode[T]()
			n.children[ev] = child
		}
		n = child
	}

	if n.terminal && n.entry.Value != value && !override {
		return &ConflictError{Sequence: seq.Clone(), Owner: n.entry.Owner}
	}
	if !n.terminal {
		t.size++
	}
	n.terminal = true
	n.entry = Entry[T]{Value: value, Owner: id}
	return nil
}

// Lookup classifies seq.
func (t *Trie[T]) Lookup(seq key.Sequence) Result[T] {
	n := t.find(seq)
	if n == nil || n == t.root {
		if n == t.root && len(t.root.children) > 0 {
			return Result[T]{Status: Partial}
		}
		return Result[T]{Status: NotFound}
	}
	switch {
	case n.terminal && len(n.children) > 0:
		return Result[T]{Status: Ambiguous, Entry: n.entry}
	case n.terminal:
		return Result[T]{Status: Terminal, Entry: n.entry}
	case len(n.children) > 0:
		return Result[T]{Status: Partial}
	}
	return Result[T]{Status: NotFound}
}

// Get returns the command bound exactly to seq.
func (t *Trie[T]) Get(seq key.Sequence) (Entry[T], bool) {
	n := t.find(seq)
	if n == nil || !n.terminal {
		return Entry[T]{}, false
	}
	return n.entry, true
}

func (t *Trie[T]) find(seq key.Sequence) *node[T] {
	n := t.root
	for _, ev := range seq {
		child, ok := n.children[ev]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Remove unbinds seq and prunes nodes left without children or command.
func (t *Trie[T]) Remove(seq key.Sequence) bool {
	if len(seq) == 0 {
		return false
	}

	// Track path for pruning
	path := make([]*node[T], 0, len(seq)+1)
	path = append(path, t.root)
	n := t.root
	for _, ev := range seq {
		child, ok := n.children[ev]
		if !ok {
			return false
		}
		path = append(path, child)
		n = child
	}
	if !n.terminal {
		return false
	}

	n.terminal = false
	n.entry = Entry[T]{}
	t.size--

	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if current.terminal || len(current.children) > 0 {
			break
		}
		delete(path[i-1].children, seq[i-1])
	}
	return true
}

// RemoveOwned removes every command registered by owner and returns how
// many were removed.
func (t *Trie[T]) RemoveOwned(id owner.ID) int {
	var owned []key.Sequence
	t.Walk(func(seq key.Sequence, e Entry[T]) bool {
		if e.Owner == id {
			owned = append(owned, seq)
		}
		return true
	})
	for _, seq := range owned {
		t.Remove(seq)
	}
	return len(owned)
}

// Walk visits every command in key order until fn returns false.
func (t *Trie[T]) Walk(fn func(seq key.Sequence, e Entry[T]) bool) {
	walk(t.root, nil, fn)
}

func walk[T comparable](n *node[T], prefix key.Sequence, fn func(key.Sequence, Entry[T]) bool) bool {
	if n.terminal && !fn(prefix.Clone(), n.entry) {
		return false
	}
	keys := make([]key.Event, 0, len(n.children))
	for ev := range n.children {
		keys = append(keys, ev)
	}
	slices.SortFunc(keys, key.Compare)
	for _, ev := range keys {
		if !walk(n.children[ev], append(prefix, ev), fn) {
			return false
		}
	}
	return true
}
