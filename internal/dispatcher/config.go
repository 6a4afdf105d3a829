package dispatcher

// Config holds dispatcher configuration options.
type Config struct {
	// Clock drives the mapping timeout and async deadlines.
	Clock Clock

	// Scheduler runs timer and async callbacks on the editor thread. Nil
	// means a QueueScheduler the host drains with RunPending.
	Scheduler Scheduler

	// EnableMetrics enables per-command timing and statistics.
	EnableMetrics bool

	// RecoverFromPanic turns a panicking handler into an error.
	RecoverFromPanic bool

	// MaxNesting limits how deeply ExecuteNormal may re-enter itself.
	MaxNesting int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Clock:            RealClock{},
		EnableMetrics:    false,
		RecoverFromPanic: true,
		MaxNesting:       100,
	}
}

// WithClock returns a copy of the config using clock.
func (c Config) WithClock(clock Clock) Config {
	c.Clock = clock
	return c
}

// WithScheduler returns a copy of the config posting callbacks to s.
func (c Config) WithScheduler(s Scheduler) Config {
	c.Scheduler = s
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithMaxNesting returns a copy of the config with the nesting limit set.
func (c Config) WithMaxNesting(n int) Config {
	c.MaxNesting = n
	return c
}
