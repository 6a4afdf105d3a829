package dispatcher

import (
	"time"

	"github.com/dshills/vimcore/internal/dispatcher/command"
)

// asyncState is the async command in flight. Keys typed meanwhile wait in
// the queue.
type asyncState struct {
	gen     uint64
	ctx     *command.Context
	cur     pendingCommand
	timer   Timer
	started time.Time
}

// startAsync calls an Async handler. Its completion comes back through the
// scheduler; until then the dispatcher is busy. Finishing the command,
// repeat capture included, waits for the completion.
func (d *Dispatcher) startAsync(ctx *command.Context, h command.Async) {
	name := ctx.Command.Name
	if !d.hooks.RunPre(ctx) {
		d.finish(ctx, ErrCancelled)
		return
	}
	d.asyncGen++
	gen := d.asyncGen
	a := &asyncState{gen: gen, ctx: ctx, cur: d.cur, started: d.clock.Now()}
	d.cur = pendingCommand{}
	d.async = a
	if t := d.opts.AsyncTimeout; t > 0 {
		a.timer = d.clock.AfterFunc(t, func() {
			d.sched.Post(func() { d.asyncExpired(gen) })
		})
	}
	d.log.Debug("async command started", "command", name, "generation", gen)

	done := func(err error) {
		d.sched.Post(func() { d.asyncDone(gen, err) })
	}
	if err := d.guard(name, func() error { h.Fn(ctx, done); return nil }); err != nil {
		d.asyncDone(gen, err)
	}
}

// asyncDone completes the async command of generation gen. Completions of
// a command that already finished or timed out are ignored.
func (d *Dispatcher) asyncDone(gen uint64, err error) {
	a := d.async
	if a == nil || a.gen != gen {
		d.log.Debug("late async completion ignored", "generation", gen)
		return
	}
	d.async = nil
	if a.timer != nil {
		a.timer.Stop()
	}
	name := a.ctx.Command.Name
	if d.metrics != nil {
		d.metrics.RecordCommand(name, d.clock.Now().Sub(a.started), err)
	}
	d.hooks.RunPost(a.ctx, err)
	d.log.Debug("async command done", "command", name, "error", err)
	d.cur = a.cur
	d.finish(a.ctx, err)
	d.drain()
}

// asyncExpired abandons an async command that ran past 'asynctimeout'.
func (d *Dispatcher) asyncExpired(gen uint64) {
	a := d.async
	if a == nil || a.gen != gen {
		return
	}
	d.async = nil
	name := a.ctx.Command.Name
	if d.metrics != nil {
		d.metrics.RecordTimeout(name)
	}
	d.log.Warn("async command timed out", "command", name, "timeout", d.opts.AsyncTimeout)
	d.hooks.RunPost(a.ctx, ErrAsyncTimeout)
	d.cur = a.cur
	d.cancelCommand()
	d.report(ErrAsyncTimeout)
	d.drain()
}
