package dispatcher

import (
	"slices"
	"sync"

	"github.com/dshills/vimcore/internal/owner"
)

// OperatorFunc is a Go implementation of an 'operatorfunc', called by g@
// with "char", "line" or "block" after '[ and '] are set.
type OperatorFunc func(kind string) error

type registered struct {
	fn    OperatorFunc
	owner owner.ID
}

// Registry holds operator functions by name. Several owners may register
// the same name; the most recent registration wins until it is removed.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string][]registered
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string][]registered)}
}

// Register adds fn under name for id.
func (r *Registry) Register(name string, id owner.ID, fn OperatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = append(r.funcs[name], registered{fn: fn, owner: id})
}

// Unregister removes every registration of name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.funcs, name)
}

// UnregisterOwner removes everything id registered and returns the count.
func (r *Registry) UnregisterOwner(id owner.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for name, list := range r.funcs {
		kept := slices.DeleteFunc(list, func(e registered) bool { return e.owner == id })
		n += len(list) - len(kept)
		if len(kept) == 0 {
			delete(r.funcs, name)
		} else {
			r.funcs[name] = kept
		}
	}
	return n
}

// Get returns the active function for name.
func (r *Registry) Get(name string) (OperatorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.funcs[name]
	if len(list) == 0 {
		return nil, false
	}
	return list[len(list)-1].fn, true
}

// Has returns true if name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Count returns the number of registered names.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}
