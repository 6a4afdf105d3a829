package dispatcher

import (
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
)

// nestedRun collects the first error of an ExecuteNormal call.
type nestedRun struct {
	err error
}

// ExecuteNormal runs keys as Normal-mode commands before returning, like
// :normal. Keys already queued wait until it is done. A command left
// incomplete is abandoned, and Insert, Visual and command-line modes are
// left as if <Esc> was typed.
func (d *Dispatcher) ExecuteNormal(keys key.Sequence, remap bool) error {
	limit := d.config.MaxNesting
	if limit <= 0 {
		limit = DefaultConfig().MaxNesting
	}
	if d.nesting >= limit {
		return &NestingError{Depth: d.nesting}
	}
	d.nesting++
	d.stopTimer()

	queue, cur, draining, flushing, depth, outer := d.queue, d.cur, d.draining, d.flushing, d.mapDepth, d.nested
	run := &nestedRun{}
	d.nested = run
	d.cur = pendingCommand{}
	d.queue = make([]input, len(keys))
	for i, ev := range keys {
		d.queue[i] = input{ev: ev, remap: remap}
	}
	d.draining, d.flushing, d.mapDepth = false, true, 0

	d.drain()
	if d.async == nil {
		d.settle()
	}

	d.queue, d.cur, d.draining, d.flushing, d.mapDepth, d.nested = queue, cur, draining, flushing, depth, outer
	d.nesting--
	return run.err
}

// settle abandons what the keys of ExecuteNormal left unfinished.
func (d *Dispatcher) settle() {
	if d.cur.inProgress() {
		d.cancelCommand()
	}
	esc := key.NewSpecialEvent(key.KeyEscape, key.ModNone)
	for range d.modes.Depth() + 1 {
		top := d.modes.Top()
		if top.Mode == mode.Normal && top.SubMode != mode.InsertNormal {
			return
		}
		d.queue = []input{{ev: esc}}
		d.drain()
		if d.cur.inProgress() {
			d.cancelCommand()
		}
	}
}
