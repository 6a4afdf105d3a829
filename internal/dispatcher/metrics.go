package dispatcher

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Metrics collects command statistics.
type Metrics struct {
	mu  sync.RWMutex
	now func() time.Time

	// Per-command metrics
	commands map[string]*CommandMetrics

	// Global counters
	totalCommands uint64
	totalErrors   uint64
	totalPanics   uint64
	totalTimeouts uint64

	// Timing
	totalDuration time.Duration
}

// CommandMetrics holds metrics for one command.
type CommandMetrics struct {
	Name          string
	Count         uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastError     error
	LastRun       time.Time
}

// NewMetrics creates a metrics collector stamping records with now.
func NewMetrics(now func() time.Time) *Metrics {
	if now == nil {
		now = time.Now
	}
	return &Metrics{
		now:      now,
		commands: make(map[string]*CommandMetrics),
	}
}

// RecordCommand records one finished command.
func (m *Metrics) RecordCommand(name string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCommands++
	m.totalDuration += duration
	if err != nil {
		m.totalErrors++
	}

	cm := m.commands[name]
	if cm == nil {
		cm = &CommandMetrics{
			Name:        name,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.commands[name] = cm
	}

	cm.Count++
	cm.TotalDuration += duration
	cm.LastError = err
	cm.LastRun = m.now()
	cm.MinDuration = min(cm.MinDuration, duration)
	cm.MaxDuration = max(cm.MaxDuration, duration)
	if err != nil {
		cm.ErrorCount++
	}
}

// RecordPanic records a recovered panic.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// RecordTimeout records an async command that missed its deadline.
func (m *Metrics) RecordTimeout(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalTimeouts++
}

// CommandStats returns a copy of the metrics for one command, or nil.
func (m *Metrics) CommandStats(name string) *CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm := m.commands[name]
	if cm == nil {
		return nil
	}
	c := *cm
	return &c
}

// TopCommands returns the n most run commands.
func (m *Metrics) TopCommands(n int) []*CommandMetrics {
	return m.sorted(n, func(a, b *CommandMetrics) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Name, b.Name))
	})
}

// SlowestCommands returns the n commands with the highest average duration.
func (m *Metrics) SlowestCommands(n int) []*CommandMetrics {
	return m.sorted(n, func(a, b *CommandMetrics) int {
		return cmp.Or(cmp.Compare(b.AverageDuration(), a.AverageDuration()), cmp.Compare(a.Name, b.Name))
	})
}

func (m *Metrics) sorted(n int, less func(a, b *CommandMetrics) int) []*CommandMetrics {
	m.mu.RLock()
	out := make([]*CommandMetrics, 0, len(m.commands))
	for _, cm := range m.commands {
		c := *cm
		out = append(out, &c)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, less)
	return out[:min(n, len(out))]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commands = make(map[string]*CommandMetrics)
	m.totalCommands = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalTimeouts = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the global counters.
type MetricsSnapshot struct {
	TotalCommands   uint64
	TotalErrors     uint64
	TotalPanics     uint64
	TotalTimeouts   uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	CommandCount    int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		TotalCommands: m.totalCommands,
		TotalErrors:   m.totalErrors,
		TotalPanics:   m.totalPanics,
		TotalTimeouts: m.totalTimeouts,
		TotalDuration: m.totalDuration,
		CommandCount:  len(m.commands),
		Timestamp:     m.now(),
	}
	if m.totalCommands > 0 {
		s.AverageDuration = m.totalDuration / time.Duration(m.totalCommands)
	}
	return s
}

// AverageDuration returns the average run time of the command.
func (cm *CommandMetrics) AverageDuration() time.Duration {
	if cm.Count == 0 {
		return 0
	}
	return cm.TotalDuration / time.Duration(cm.Count)
}

// ErrorRate returns the error rate as a percentage.
func (cm *CommandMetrics) ErrorRate() float64 {
	if cm.Count == 0 {
		return 0
	}
	return float64(cm.ErrorCount) / float64(cm.Count) * 100
}
