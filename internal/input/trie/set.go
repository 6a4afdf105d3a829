package trie

import (
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/owner"
)

// Set holds one trie per mapping mode.
type Set[T comparable] struct {
	tries map[mode.MappingModes]*Trie[T]
}

// NewSet creates a set with an empty trie for every mapping mode.
func NewSet[T comparable]() *Set[T] {
	s := &Set[T]{tries: make(map[mode.MappingModes]*Trie[T])}
	for _, m := range mode.MapAll.Each() {
		s.tries[m] = New[T]()
	}
	return s
}

// For returns the trie of a single mapping mode.
func (s *Set[T]) For(m mode.MappingModes) *Trie[T] {
	return s.tries[m]
}

// Insert binds seq in every mode of modes. On conflict nothing is changed.
func (s *Set[T]) Insert(modes mode.MappingModes, seq key.Sequence, value T, id owner.ID, override bool) error {
	if !override {
		for _, m := range modes.Each() {
			if e, ok := s.tries[m].Get(seq); ok && e.Value != value {
				return &ConflictError{Sequence: seq.Clone(), Owner: e.Owner}
			}
		}
	}
	for _, m := range modes.Each() {
		if err := s.tries[m].Insert(seq, value, id, true); err != nil {
			return err
		}
	}
	return nil
}

// Remove unbinds seq in every mode of modes.
func (s *Set[T]) Remove(modes mode.MappingModes, seq key.Sequence) int {
	removed := 0
	for _, m := range modes.Each() {
		if s.tries[m].Remove(seq) {
			removed++
		}
	}
	return removed
}

// RemoveOwned removes every command of owner in all modes.
func (s *Set[T]) RemoveOwned(id owner.ID) int {
	removed := 0
	for _, t := range s.tries {
		removed += t.RemoveOwned(id)
	}
	return removed
}
