package hook

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/input/key"
)

// Standard hook priorities.
const (
	PriorityAudit      = 1000 // Runs first (pre) / last (post)
	PriorityCountLimit = 900  // Enforce count limits early
	PriorityValidation = 800  // Validate before processing
	PriorityChangeLog  = 100  // Record edits
)

// AuditHook logs every command for debugging and audit trails.
type AuditHook struct {
	logger *slog.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger *slog.Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreCommand logs the command about to run.
func (h *AuditHook) PreCommand(ctx *command.Context) bool {
	if h.logger != nil {
		h.logger.Debug("command start",
			"command", ctx.Command.Name,
			"keys", key.ToNotation(ctx.Keys),
			"count", ctx.Count,
			"mode", ctx.Mode.String(),
		)
	}
	return true
}

// PostCommand logs the result.
func (h *AuditHook) PostCommand(ctx *command.Context, err error) {
	if h.logger == nil {
		return
	}
	if err != nil {
		h.logger.Debug("command failed",
			"command", ctx.Command.Name,
			"error", err,
		)
		return
	}
	h.logger.Debug("command complete", "command", ctx.Command.Name)
}

// CountLimitHook caps counts to keep "999999999x" from running away.
type CountLimitHook struct {
	maxCount int
}

// NewCountLimitHook creates a count limit hook.
func NewCountLimitHook(maxCount int) *CountLimitHook {
	return &CountLimitHook{maxCount: maxCount}
}

// Name implements Hook.
func (h *CountLimitHook) Name() string { return "count-limit" }

// Priority implements Hook.
func (h *CountLimitHook) Priority() int { return PriorityCountLimit }

// PreCommand limits the count.
func (h *CountLimitHook) PreCommand(ctx *command.Context) bool {
	if h.maxCount > 0 && ctx.Count > h.maxCount {
		ctx.Count = h.maxCount
		ctx.RawCount = h.maxCount
	}
	return true
}

// ValidationHook cancels commands a function rejects.
type ValidationHook struct {
	name     string
	priority int
	validate func(ctx *command.Context) error

	mu      sync.Mutex
	lastErr error
}

// NewValidationHook creates a validation hook.
func NewValidationHook(name string, priority int, validate func(*command.Context) error) *ValidationHook {
	return &ValidationHook{
		name:     name,
		priority: priority,
		validate: validate,
	}
}

// Name implements Hook.
func (h *ValidationHook) Name() string { return h.name }

// Priority implements Hook.
func (h *ValidationHook) Priority() int { return h.priority }

// PreCommand validates the command and cancels it if invalid.
func (h *ValidationHook) PreCommand(ctx *command.Context) bool {
	if h.validate == nil {
		return true
	}
	err := h.validate(ctx)
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
	return err == nil
}

// LastError returns the error of the most recent rejection, or nil.
func (h *ValidationHook) LastError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// ChangeRecord describes one command that modified the document.
type ChangeRecord struct {
	Command string
	Keys    string
	Start   int
	End     int
	Time    time.Time
}

// ChangeLogHook keeps a bounded journal of the commands that reported
// changed text.
type ChangeLogHook struct {
	mu       sync.Mutex
	changes  []ChangeRecord
	maxSize  int
	now      func() time.Time
	callback func(ChangeRecord)
}

// NewChangeLogHook creates a change journal. maxSize limits the number of
// records retained (0 = unlimited); now stamps them.
func NewChangeLogHook(maxSize int, now func() time.Time) *ChangeLogHook {
	if now == nil {
		now = time.Now
	}
	return &ChangeLogHook{maxSize: maxSize, now: now}
}

// Name implements Hook.
func (h *ChangeLogHook) Name() string { return "change-log" }

// Priority implements Hook.
func (h *ChangeLogHook) Priority() int { return PriorityChangeLog }

// PostCommand records successful commands that changed text.
func (h *ChangeLogHook) PostCommand(ctx *command.Context, err error) {
	if err != nil {
		return
	}
	start, end, ok := ctx.ChangedRange()
	if !ok {
		return
	}
	rec := ChangeRecord{
		Command: ctx.Command.Name,
		Keys:    key.ToNotation(ctx.Keys),
		Start:   start,
		End:     end,
		Time:    h.now(),
	}

	h.mu.Lock()
	h.changes = append(h.changes, rec)
	if h.maxSize > 0 && len(h.changes) > h.maxSize {
		h.changes = h.changes[len(h.changes)-h.maxSize:]
	}
	cb := h.callback
	h.mu.Unlock()

	if cb != nil {
		cb(rec)
	}
}

// Changes returns a copy of all recorded changes, oldest first.
func (h *ChangeLogHook) Changes() []ChangeRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ChangeRecord, len(h.changes))
	copy(out, h.changes)
	return out
}

// SetCallback sets a function called for each new record.
func (h *ChangeLogHook) SetCallback(fn func(ChangeRecord)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = fn
}

// Clear removes all records.
func (h *ChangeLogHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = nil
}
