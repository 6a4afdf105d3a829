// Package history keeps the undo and redo stacks of the in-memory document.
//
// Each entry is a snapshot of the text and primary caret taken before a
// top-level command ran; nested transactions fold into the outermost one.
package history

import (
	"errors"
	"sync"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// State is what a snapshot restores.
type State struct {
	Text  string
	Caret int
}

type entry struct {
	name   string
	before State
	after  State
}

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []entry
	redoStack []entry

	depth   int
	pending entry

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// Transaction runs fn as one undoable unit. capture returns the current
// document state. Edits made before fn fails are kept and recorded.
func (h *History) Transaction(name string, capture func() State, fn func() error) error {
	h.mu.Lock()
	outer := h.depth == 0
	if outer {
		h.pending = entry{name: name, before: capture()}
	}
	h.depth++
	h.mu.Unlock()

	err := fn()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.depth--
	if !outer {
		return err
	}
	h.pending.after = capture()
	if h.pending.after.Text != h.pending.before.Text {
		h.undoStack = append(h.undoStack, h.pending)
		if len(h.undoStack) > h.maxEntries {
			h.undoStack = h.undoStack[1:]
		}
		h.redoStack = nil
	}
	return err
}

// Undo pops the last entry and returns the state to restore.
func (h *History) Undo() (State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return State{}, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return e.before, nil
}

// Redo re-applies the last undone entry.
func (h *History) Redo() (State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return State{}, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return e.after, nil
}

// UndoCount returns the number of undoable entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}
