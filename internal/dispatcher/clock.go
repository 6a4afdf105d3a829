package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the call and reports whether it was still pending.
	Stop() bool
}

// Clock is the time source of the mapping timeout and async deadlines.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock is the wall clock.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc calls fn on its own goroutine after d.
func (RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// ManualClock is a Clock that only moves when told to. Timers fire from
// Advance, on the caller's goroutine.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	clock *ManualClock
	at    time.Time
	seq   int
	fn    func()
	done  bool
}

// NewManualClock creates a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run when the clock is advanced past d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every timer that came due,
// earliest first. Timers scheduled by those callbacks run too when they
// fall within the new time.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDue(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		t.done = true
		c.now = t.at
		c.mu.Unlock()
		t.fn()
	}
}

// Pending returns the number of timers not yet fired or stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// nextDue pops the earliest live timer due at or before target.
func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})
	if len(c.timers) == 0 || c.timers[0].at.After(target) {
		return nil
	}
	return c.timers[0]
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Scheduler runs callbacks on the editor thread. Timer and async
// completions are posted through it, never run on the goroutine that
// produced them.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Post calls f(fn).
func (f SchedulerFunc) Post(fn func()) { f(fn) }

// Immediate runs posted callbacks at once. It suits tests driven by a
// ManualClock, where timers already fire on the test goroutine.
var Immediate = SchedulerFunc(func(fn func()) { fn() })

// QueueScheduler holds posted callbacks until the owner drains them.
type QueueScheduler struct {
	mu    sync.Mutex
	queue []func()

	// Notify, when set, is called after each Post so an event loop can
	// wake up and call Drain.
	Notify func()
}

// Post queues fn.
func (q *QueueScheduler) Post(fn func()) {
	q.mu.Lock()
	q.queue = append(q.queue, fn)
	notify := q.Notify
	q.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Drain runs queued callbacks, including ones posted while draining, and
// returns how many ran.
func (q *QueueScheduler) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()
		fn()
		n++
	}
}

// Len returns the number of queued callbacks.
func (q *QueueScheduler) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}
