package keymap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/trie"
	"github.com/dshills/vimcore/internal/owner"
)

// ErrNoMapping is returned when removing a mapping that does not exist.
var ErrNoMapping = errors.New("E31: No such mapping")

// DuplicateError is returned by PutUnique when the sequence is mapped.
type DuplicateError struct {
	From key.Sequence
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("E227: Mapping already exists for %s", key.ToNotation(e.From))
}

// Code returns the Vim error number.
func (e *DuplicateError) Code() int { return 227 }

// Table holds the mappings of every mapping mode.
type Table struct {
	mu  sync.RWMutex
	set *trie.Set[*Mapping]
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{set: trie.NewSet[*Mapping]()}
}

// Put maps m.From in every mode of modes, replacing existing mappings.
func (t *Table) Put(modes mode.MappingModes, m *Mapping) error {
	if len(m.From) == 0 {
		return trie.ErrEmptySequence
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.Insert(modes, m.From, m, m.Owner, true)
}

// PutIfMissing maps m.From only in the modes where it is not mapped yet.
// It returns the modes the mapping was installed in.
func (t *Table) PutIfMissing(modes mode.MappingModes, m *Mapping) (mode.MappingModes, error) {
	if len(m.From) == 0 {
		return 0, trie.ErrEmptySequence
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var installed mode.MappingModes
	for _, md := range modes.Each() {
		tr := t.set.For(md)
		if _, ok := tr.Get(m.From); ok {
			continue
		}
		if err := tr.Insert(m.From, m, m.Owner, false); err != nil {
			return installed, err
		}
		installed |= md
	}
	return installed, nil
}

// PutUnique maps m.From unless any mode of modes maps it already.
func (t *Table) PutUnique(modes mode.MappingModes, m *Mapping) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, md := range modes.Each() {
		if _, ok := t.set.For(md).Get(m.From); ok {
			return &DuplicateError{From: m.From.Clone()}
		}
	}
	return t.set.Insert(modes, m.From, m, m.Owner, true)
}

// Remove unmaps from in every mode of modes. Missing entries are ignored;
// ErrNoMapping is returned only when nothing was removed.
func (t *Table) Remove(modes mode.MappingModes, from key.Sequence) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.set.Remove(modes, from) == 0 {
		return ErrNoMapping
	}
	return nil
}

// RemoveByOwner removes every mapping created by id in all modes.
func (t *Table) RemoveByOwner(id owner.ID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.RemoveOwned(id)
}

// Clear removes every mapping in modes.
func (t *Table) Clear(modes mode.MappingModes) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for _, md := range modes.Each() {
		tr := t.set.For(md)
		var all []key.Sequence
		tr.Walk(func(seq key.Sequence, _ trie.Entry[*Mapping]) bool {
			all = append(all, seq)
			return true
		})
		for _, seq := range all {
			tr.Remove(seq)
		}
		removed += len(all)
	}
	return removed
}

// Lookup classifies seq in a single mapping mode.
func (t *Table) Lookup(md mode.MappingModes, seq key.Sequence) trie.Result[*Mapping] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr := t.set.For(md)
	if tr == nil {
		return trie.Result[*Mapping]{}
	}
	return tr.Lookup(seq)
}

// Get returns the mapping bound exactly to seq.
func (t *Table) Get(md mode.MappingModes, seq key.Sequence) (*Mapping, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr := t.set.For(md)
	if tr == nil {
		return nil, false
	}
	e, ok := tr.Get(seq)
	return e.Value, ok
}

// HasLonger reports whether some mapping strictly extends seq.
func (t *Table) HasLonger(md mode.MappingModes, seq key.Sequence) bool {
	st := t.Lookup(md, seq).Status
	return st == trie.Partial || st == trie.Ambiguous
}

// LongestPrefix returns the longest mapping that is a prefix of seq and
// the number of keys it covers.
func (t *Table) LongestPrefix(md mode.MappingModes, seq key.Sequence) (*Mapping, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr := t.set.For(md)
	if tr == nil {
		return nil, 0
	}
	for n := len(seq); n > 0; n-- {
		if e, ok := tr.Get(seq[:n]); ok {
			return e.Value, n
		}
	}
	return nil, 0
}

// Entries returns the mappings of a mode sorted by key order.
func (t *Table) Entries(md mode.MappingModes) []*Mapping {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr := t.set.For(md)
	if tr == nil {
		return nil
	}
	var out []*Mapping
	tr.Walk(func(_ key.Sequence, e trie.Entry[*Mapping]) bool {
		out = append(out, e.Value)
		return true
	})
	return out
}

// Len returns the number of mappings in a mode.
func (t *Table) Len(md mode.MappingModes) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if tr := t.set.For(md); tr != nil {
		return tr.Len()
	}
	return 0
}
