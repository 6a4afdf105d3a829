package dispatcher

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// input is a queued key. remap allows mappings to apply to it; typed keys
// came from the host and are recorded into a macro being recorded.
type input struct {
	ev    key.Event
	remap bool
	typed bool
}

type waitKind uint8

const (
	waitNone waitKind = iota

	// waitMapping holds keys that are a strict prefix of a mapping.
	waitMapping

	// waitCommand holds a trie prefix that longer commands continue.
	waitCommand
)

// drain processes queued keys until the queue is empty, a wait starts or
// an async command takes over. Re-entrant calls return at once: the
// outer loop picks up whatever they queued.
func (d *Dispatcher) drain() {
	if d.draining {
		return
	}
	d.draining = true
	defer func() { d.draining = false }()

	for d.async == nil {
		if len(d.queue) == 0 {
			d.mapDepth = 0
			if d.flushing && d.wait != waitNone {
				d.expire()
				continue
			}
			return
		}
		if !d.step(false) {
			if !d.flushing {
				return
			}
			d.expire()
		}
	}
}

// step handles the key at the head of the queue. It returns false when
// it starts waiting for more keys instead.
func (d *Dispatcher) step(timedOut bool) bool {
	if len(d.queue) == 0 {
		return true
	}
	if d.mappingApplies() {
		md := mode.ForState(d.modes.Top())
		n := 0
		for n < len(d.queue) && d.queue[n].remap {
			n++
		}
		run := make(key.Sequence, n)
		for i := range run {
			run[i] = d.queue[i].ev
		}

		m, k := d.mappings.LongestPrefix(md, run)
		if !timedOut && n == len(d.queue) && d.mappings.HasLonger(md, run) {
			exact := m != nil && k == n
			if !exact || !m.NoWait {
				d.arm(waitMapping)
				return false
			}
		}
		if m != nil {
			d.stopTimer()
			d.expand(m, k)
			return true
		}
	}

	d.stopTimer()
	in := d.queue[0]
	d.queue = d.queue[1:]
	d.consume(in)
	d.feed(in)
	return true
}

// mappingApplies reports whether the head of the queue may be mapped.
// Keys read as a character, digraph or register name never are.
func (d *Dispatcher) mappingApplies() bool {
	if len(d.queue) == 0 || !d.queue[0].remap {
		return false
	}
	if d.cur.arg != nil || d.cur.regWait {
		return false
	}
	if cl := d.cur.cmdline; cl != nil && (cl.literal || cl.reg) {
		return false
	}
	return true
}

// consume records a typed key into the macro being recorded.
func (d *Dispatcher) consume(in input) {
	if in.typed {
		d.recorder.Record(in.ev)
	}
}

// expand replaces the first n queued keys with the mapping's right-hand
// side.
func (d *Dispatcher) expand(m *keymap.Mapping, n int) {
	for _, in := range d.queue[:n] {
		d.consume(in)
	}
	d.queue = d.queue[n:]

	d.mapDepth++
	if d.mapDepth > max(1, d.opts.MaxMapDepth) {
		d.abort(&RecursiveMappingError{Depth: d.mapDepth})
		return
	}

	var rhs key.Sequence
	switch p := m.Payload.(type) {
	case keymap.ToKeys:
		rhs = p.Keys
	case keymap.ToExpression:
		s, err := d.Eval(p.Source)
		if err != nil {
			d.abort(err)
			return
		}
		if rhs, err = key.Decode(s); err != nil {
			d.abort(err)
			return
		}
	case keymap.ToHandler:
		cmd := &command.Command{
			Name:    p.Name,
			Modes:   mode.ForState(d.modes.Top()),
			Keys:    []key.Sequence{m.From},
			Handler: p.Handler,
			Owner:   m.Owner,
		}
		if _, ok := p.Handler.(command.Operator); ok {
			cmd.Argument = vim.ArgMotion
		}
		d.log.Debug("mapping runs handler", "lhs", key.ToNotation(m.From), "handler", p.Name)
		d.resolve(cmd, m.From)
		return
	}

	if !m.Silent {
		d.log.Debug("mapping expanded", "lhs", key.ToNotation(m.From), "rhs", key.ToNotation(rhs), "depth", d.mapDepth)
	}
	entries := make([]input, len(rhs), len(rhs)+len(d.queue))
	for i, ev := range rhs {
		entries[i] = input{ev: ev, remap: m.Recursive}
	}
	// The first key of a right-hand side that starts with its own
	// left-hand side is not mapped again.
	if m.Recursive && len(entries) > 0 && rhs.HasPrefix(m.From) {
		entries[0].remap = false
	}
	d.queue = append(entries, d.queue...)
}

// abort cancels the pending command and everything queued after a
// mapping failed, and reports err.
func (d *Dispatcher) abort(err error) {
	d.stopTimer()
	d.queue = nil
	d.mapDepth = 0
	d.cancelCommand()
	d.report(err)
}

// flushQueued drops the queued keys that did not come from the host:
// the rest of a mapping, a macro or a repeat.
func (d *Dispatcher) flushQueued() {
	kept := d.queue[:0]
	for _, in := range d.queue {
		if in.typed {
			kept = append(kept, in)
		}
	}
	d.queue = kept
}

// arm starts waiting; the wait ends at the next key or after
// 'timeoutlen'. With 'notimeout' only another key ends it.
func (d *Dispatcher) arm(kind waitKind) {
	d.stopTimer()
	d.wait = kind
	if d.flushing || !d.opts.Timeout {
		return
	}
	gen := d.timerGen
	d.timer = d.clock.AfterFunc(d.opts.TimeoutLen, func() {
		d.sched.Post(func() { d.onTimeout(gen) })
	})
}

func (d *Dispatcher) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.timerGen++
	d.wait = waitNone
}

// onTimeout runs on the editor thread when a wait timer fires.
func (d *Dispatcher) onTimeout(gen uint64) {
	if gen != d.timerGen || d.wait == waitNone {
		d.log.Debug("stale timeout ignored", "generation", gen)
		return
	}
	d.timer = nil
	d.expire()
	d.drain()
}

// expire ends the current wait with the shorter interpretation.
func (d *Dispatcher) expire() {
	kind := d.wait
	d.stopTimer()
	switch kind {
	case waitMapping:
		d.step(true)
	case waitCommand:
		d.commitPending()
	}
}
