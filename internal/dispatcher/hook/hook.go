// Package hook provides extensible pre/post command hooks for the dispatcher.
package hook

import "github.com/dshills/vimcore/internal/dispatcher/command"

// Hook is the base interface for all command hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	// Higher values run first for pre-hooks, last for post-hooks.
	// Standard priorities:
	//   1000+ = system/critical hooks
	//   500-999 = framework hooks
	//   100-499 = extension hooks
	//   0-99 = user hooks
	Priority() int
}

// PreCommandHook is called before a command handler runs.
type PreCommandHook interface {
	Hook

	// PreCommand may adjust the context (count, register).
	// Returns false to cancel the command.
	PreCommand(ctx *command.Context) bool
}

// PostCommandHook is called after a command handler finished.
type PostCommandHook interface {
	Hook

	// PostCommand sees the context after the handler ran and the error
	// it returned, if any.
	PostCommand(ctx *command.Context, err error)
}

// PreCommandFunc wraps a function as a PreCommandHook.
type PreCommandFunc struct {
	name     string
	priority int
	fn       func(ctx *command.Context) bool
}

// NewPreCommandFunc creates a new PreCommandFunc hook.
func NewPreCommandFunc(name string, priority int, fn func(ctx *command.Context) bool) *PreCommandFunc {
	return &PreCommandFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PreCommandFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreCommandFunc) Priority() int { return f.priority }

// PreCommand implements PreCommandHook.
func (f *PreCommandFunc) PreCommand(ctx *command.Context) bool {
	if f.fn == nil {
		return true
	}
	return f.fn(ctx)
}

// PostCommandFunc wraps a function as a PostCommandHook.
type PostCommandFunc struct {
	name     string
	priority int
	fn       func(ctx *command.Context, err error)
}

// NewPostCommandFunc creates a new PostCommandFunc hook.
func NewPostCommandFunc(name string, priority int, fn func(ctx *command.Context, err error)) *PostCommandFunc {
	return &PostCommandFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PostCommandFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PostCommandFunc) Priority() int { return f.priority }

// PostCommand implements PostCommandHook.
func (f *PostCommandFunc) PostCommand(ctx *command.Context, err error) {
	if f.fn != nil {
		f.fn(ctx, err)
	}
}

// CombinedHook implements both PreCommandHook and PostCommandHook.
type CombinedHook interface {
	PreCommandHook
	PostCommandHook
}
