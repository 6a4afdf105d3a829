// Package hook provides extensible pre/post command hooks for the dispatcher.
//
// Hooks intercept command execution for logging, validation, count
// limits and edit journals. They are organized by priority to control
// execution order.
//
// # Hook Types
//
// There are two main hook interfaces:
//
//   - PreCommandHook: Called before a handler runs. Can cancel the command.
//   - PostCommandHook: Called after the handler returned, with its error.
//
// Hooks implement the base Hook interface with Name() and Priority() methods
// for identification and ordering.
//
// # Priority System
//
// Hooks are ordered by priority:
//
//   - Pre-hooks: Higher priority runs first (1000+ = system, 500-999 = framework)
//   - Post-hooks: Lower priority runs first, higher runs last (to see final results)
//
// Standard priority constants are provided:
//
//	PriorityAudit      = 1000 // System/audit hooks
//	PriorityCountLimit = 900  // Enforce limits early
//	PriorityValidation = 800  // Validation before processing
//	PriorityChangeLog  = 100  // Record edits
//
// # Built-in Hooks
//
//   - AuditHook: Logs every command at debug level
//   - CountLimitHook: Caps counts
//   - ValidationHook: Custom validation before the handler runs
//   - ChangeLogHook: Journal of commands that changed text
//
// # Usage Example
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterPre(hook.NewCountLimitHook(10000))
//	manager.RegisterPost(hook.NewChangeLogHook(100, nil))
//
//	if manager.RunPre(ctx) {
//	    err := run(ctx)
//	    manager.RunPost(ctx, err)
//	}
//
// # Thread Safety
//
// The Manager uses read-write locks to protect registration. Hooks run
// on the dispatcher's thread.
package hook
