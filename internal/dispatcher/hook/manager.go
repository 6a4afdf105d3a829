package hook

import (
	"slices"
	"sync"

	"github.com/dshills/vimcore/internal/dispatcher/command"
)

// Manager manages command hooks with priority-based ordering.
type Manager struct {
	mu        sync.RWMutex
	preHooks  []PreCommandHook
	postHooks []PostCommandHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{}
}

// RegisterPre adds a pre-command hook, replacing one with the same name.
// Hooks are sorted by priority (higher runs first).
func (m *Manager) RegisterPre(h PreCommandHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := slices.IndexFunc(m.preHooks, func(e PreCommandHook) bool { return e.Name() == h.Name() }); i >= 0 {
		m.preHooks[i] = h
	} else {
		m.preHooks = append(m.preHooks, h)
	}
	slices.SortStableFunc(m.preHooks, func(a, b PreCommandHook) int {
		return b.Priority() - a.Priority()
	})
}

// RegisterPost adds a post-command hook, replacing one with the same name.
// Hooks are sorted by priority (higher runs last for post-hooks).
func (m *Manager) RegisterPost(h PostCommandHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := slices.IndexFunc(m.postHooks, func(e PostCommandHook) bool { return e.Name() == h.Name() }); i >= 0 {
		m.postHooks[i] = h
	} else {
		m.postHooks = append(m.postHooks, h)
	}
	slices.SortStableFunc(m.postHooks, func(a, b PostCommandHook) int {
		return a.Priority() - b.Priority()
	})
}

// Register adds a hook to every list whose interface it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreCommandHook); ok {
		m.RegisterPre(pre)
	}
	if post, ok := h.(PostCommandHook); ok {
		m.RegisterPost(post)
	}
}

// Unregister removes a hook by name from both lists.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.preHooks) + len(m.postHooks)
	m.preHooks = slices.DeleteFunc(m.preHooks, func(h PreCommandHook) bool { return h.Name() == name })
	m.postHooks = slices.DeleteFunc(m.postHooks, func(h PostCommandHook) bool { return h.Name() == name })
	return len(m.preHooks)+len(m.postHooks) < n
}

// RunPre runs all pre-command hooks in priority order.
// Returns false if any hook cancels the command.
func (m *Manager) RunPre(ctx *command.Context) bool {
	m.mu.RLock()
	hooks := slices.Clone(m.preHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreCommand(ctx) {
			return false
		}
	}
	return true
}

// RunPost runs all post-command hooks from lowest to highest priority.
func (m *Manager) RunPost(ctx *command.Context, err error) {
	m.mu.RLock()
	hooks := slices.Clone(m.postHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostCommand(ctx, err)
	}
}

// Names returns the names of the pre-hooks in run order followed by the
// post-hooks in run order.
func (m *Manager) Names() (pre, post []string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.preHooks {
		pre = append(pre, h.Name())
	}
	for _, h := range m.postHooks {
		post = append(post, h.Name())
	}
	return pre, post
}

// Len returns the number of registered pre and post hooks.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.preHooks) + len(m.postHooks)
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preHooks = nil
	m.postHooks = nil
}
