package mode

import "sync"

// ChangeCallback is called after the active state changes.
type ChangeCallback func(from, to State)

// Stack is the mode stack. It is never empty: the floor entry is Normal.
type Stack struct {
	mu        sync.RWMutex
	entries   []State
	callbacks map[int]ChangeCallback
	nextID    int
}

// NewStack creates a stack holding only Normal.
func NewStack() *Stack {
	return &Stack{
		entries:   []State{{Mode: Normal}},
		callbacks: make(map[int]ChangeCallback),
	}
}

// Top returns the active state.
func (s *Stack) Top() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[len(s.entries)-1]
}

// Depth returns the number of entries, at least 1.
func (s *Stack) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of the stack, bottom first.
func (s *Stack) Entries() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]State, len(s.entries))
	copy(out, s.entries)
	return out
}

// Below returns the state under the top, or Normal when the top is the floor.
func (s *Stack) Below() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) < 2 {
		return State{Mode: Normal}
	}
	return s.entries[len(s.entries)-2]
}

// Push makes st the active state, remembering the current one.
func (s *Stack) Push(st State) {
	s.mutate(func() {
		s.entries = append(s.entries, st)
	})
}

// Replace swaps the active state for st. Replacing the floor is allowed,
// which is how Normal switches to Insert.
func (s *Stack) Replace(st State) {
	s.mutate(func() {
		s.entries[len(s.entries)-1] = st
	})
}

// Pop removes the active state. Popping the floor leaves Normal in place.
func (s *Stack) Pop() State {
	var popped State
	s.mutate(func() {
		popped = s.entries[len(s.entries)-1]
		if len(s.entries) == 1 {
			s.entries[0] = State{Mode: Normal}
			return
		}
		s.entries = s.entries[:len(s.entries)-1]
	})
	return popped
}

// PopTo pops entries until the active mode is m or only the floor remains.
func (s *Stack) PopTo(m Mode) {
	s.mutate(func() {
		for len(s.entries) > 1 && s.entries[len(s.entries)-1].Mode != m {
			s.entries = s.entries[:len(s.entries)-1]
		}
	})
}

// Reset returns to a single Normal entry.
func (s *Stack) Reset() {
	s.mutate(func() {
		s.entries = s.entries[:1]
		s.entries[0] = State{Mode: Normal}
	})
}

// FindInsertBelow reports whether an Insert or Replace entry lies beneath
// the top, as it does during insert-normal.
func (s *Stack) FindInsertBelow() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.entries) - 2; i >= 0; i-- {
		if m := s.entries[i].Mode; m == Insert || m == Replace {
			return s.entries[i], true
		}
	}
	return State{}, false
}

// OnChange registers a callback and returns a function that removes it.
func (s *Stack) OnChange(cb ChangeCallback) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.callbacks[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.callbacks, id)
	}
}

// mutate applies fn under the lock and notifies callbacks outside of it.
func (s *Stack) mutate(fn func()) {
	s.mu.Lock()
	from := s.entries[len(s.entries)-1]
	fn()
	to := s.entries[len(s.entries)-1]
	var callbacks []ChangeCallback
	if from != to {
		callbacks = make([]ChangeCallback, 0, len(s.callbacks))
		for _, cb := range s.callbacks {
			callbacks = append(callbacks, cb)
		}
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(from, to)
	}
}
