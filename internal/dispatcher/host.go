package dispatcher

import (
	"fmt"
	"strconv"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

var _ command.Host = (*Dispatcher)(nil)

// Registers returns the register store.
func (d *Dispatcher) Registers() *vim.Store { return d.regs }

// Options returns the shared options.
func (d *Dispatcher) Options() *config.Options { return d.opts }

// Memory returns the state commands keep between invocations.
func (d *Dispatcher) Memory() *command.Memory { return &d.mem }

// Mode returns the active state.
func (d *Dispatcher) Mode() mode.State { return d.modes.Top() }

// SetMode replaces the active state.
func (d *Dispatcher) SetMode(st mode.State) {
	d.transition(func() { d.modes.Replace(st) })
}

// PushMode makes st active on top of the current state.
func (d *Dispatcher) PushMode(st mode.State) {
	d.transition(func() { d.modes.Push(st) })
}

// PopMode returns to the state below the active one.
func (d *Dispatcher) PopMode() {
	d.transition(func() { d.modes.Pop() })
}

// transition runs a mode stack change and the side effects of the
// change: leaving Visual mode saves the selection, and insert sessions
// begin and end.
func (d *Dispatcher) transition(fn func()) {
	from := d.modes.Top()
	fn()
	to := d.modes.Top()
	if from == to {
		return
	}
	d.log.Debug("mode change", "from", from.String(), "to", to.String())
	if from.IsVisual() && !to.IsVisual() {
		d.saveVisual(from)
	}
	switch {
	case insertLike(to) && d.insert == nil:
		d.beginInsert()
	case d.insert != nil && !insertLike(to):
		if _, ok := d.modes.FindInsertBelow(); !ok {
			d.endInsert()
		}
	}
}

// Message shows msg on the message line.
func (d *Dispatcher) Message(msg string) { d.message(msg) }

// ExecuteEx runs a command line through the environment.
func (d *Dispatcher) ExecuteEx(line string) error {
	if d.env == nil {
		return ErrNoEnvironment
	}
	return d.env.ExecuteEx(line)
}

// Eval evaluates a Vimscript expression through the environment.
func (d *Dispatcher) Eval(expr string) (string, error) {
	if d.env == nil {
		return "", ErrNoEnvironment
	}
	return d.env.Eval(expr)
}

// CallOperatorFunc calls 'operatorfunc': a registered Go function when
// one has the name, the environment otherwise.
func (d *Dispatcher) CallOperatorFunc(kind string) error {
	name := d.opts.OperatorFunc
	if name == "" {
		return command.Errorf(774, "'operatorfunc' is empty")
	}
	if fn, ok := d.opfuncs.Get(name); ok {
		return fn(kind)
	}
	if d.env == nil {
		return ErrNoEnvironment
	}
	return d.env.CallOperatorFunc(name, kind)
}

// Recording returns the register a macro is being recorded into, or 0.
func (d *Dispatcher) Recording() rune { return d.recorder.Recording() }

// StartRecording starts recording typed keys into reg.
func (d *Dispatcher) StartRecording(reg rune) error {
	if err := d.recorder.Start(reg); err != nil {
		return err
	}
	d.log.Debug("recording started", "register", string(reg))
	d.message("recording @" + string(reg))
	return nil
}

// StopRecording saves the recording, without the q that stopped it.
func (d *Dispatcher) StopRecording() error {
	reg := d.recorder.Recording()
	keys, err := d.recorder.Stop(1)
	if err != nil {
		return err
	}
	d.log.Debug("recording stopped", "register", string(reg), "keys", key.ToNotation(keys))
	return nil
}

// PlayMacro queues the keys in reg count times. ':' repeats the last
// command line.
func (d *Dispatcher) PlayMacro(reg rune, count int) error {
	if reg == '@' {
		reg = d.player.LastPlayed()
		if reg == 0 {
			return command.Errorf(748, "No previously used register")
		}
	}
	if reg == ':' {
		d.player.SetLastPlayed(':')
		d.mem.LastMacro = ':'
		last, ok := d.regs.Get(':')
		if !ok || last.IsEmpty() {
			return command.Errorf(30, "No previous command line")
		}
		for range max(1, count) {
			if err := d.ExecuteEx(last.Text); err != nil {
				return err
			}
		}
		return nil
	}
	keys, err := d.player.Keys(reg, count)
	if err != nil {
		return fmt.Errorf("%w: %w", command.ErrFailed, err)
	}
	d.mem.LastMacro = reg
	d.Feed(keys, true)
	return nil
}

// Feed queues keys ahead of pending input. They are not recorded into a
// macro.
func (d *Dispatcher) Feed(keys key.Sequence, remap bool) {
	if len(keys) == 0 {
		return
	}
	entries := make([]input, len(keys), len(keys)+len(d.queue))
	for i, ev := range keys {
		entries[i] = input{ev: ev, remap: remap}
	}
	d.queue = append(entries, d.queue...)
	d.drain()
}

// RepeatLastChange replays the last change. A count replaces the count
// it was made with.
func (d *Dispatcher) RepeatLastChange(count int) error {
	rec := d.repeat
	if rec == nil {
		return fmt.Errorf("%w: %w", command.ErrFailed, ErrNoRepeat)
	}
	n := rec.count
	if count > 0 {
		n = count
	}
	var seq key.Sequence
	if reg := rec.register; reg != 0 {
		// "1p... walks up the numbered registers.
		if reg >= '1' && reg < '9' {
			reg++
			rec.register = reg
		}
		seq = append(seq, key.NewRuneEvent('"', key.ModNone), key.NewRuneEvent(reg, key.ModNone))
	}
	if n > 0 {
		seq = append(seq, literalKeys(strconv.Itoa(n))...)
	}
	seq = append(seq, rec.keys...)
	d.log.Debug("repeat", "keys", key.ToNotation(seq))
	d.Feed(seq, false)
	return nil
}
