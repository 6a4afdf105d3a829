package dispatcher

import (
	"log/slog"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/hook"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/macro"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/trie"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/owner"
)

// Environment runs what the dispatcher cannot: command lines, expressions
// and script functions. The session's Vimscript interpreter implements it.
type Environment interface {
	ExecuteEx(line string) error
	Eval(expr string) (string, error)

	// CallOperatorFunc calls the script function name with the g@ kind.
	CallOperatorFunc(name, kind string) error
}

// MessageSink shows text on the host's message line.
type MessageSink interface {
	Message(msg string)
}

// MessageFunc adapts a function to MessageSink.
type MessageFunc func(msg string)

// Message calls f(msg).
func (f MessageFunc) Message(msg string) { f(msg) }

// Dispatcher turns key events into commands against an editor.
//
// It owns the mode stack, the command trie, the mapping table, registers
// and the macro recorder. It is not safe for concurrent use: every method
// must be called from the editor thread, and timer and async callbacks
// come back through the configured Scheduler.
type Dispatcher struct {
	editor engine.Editor
	opts   *config.Options
	config Config
	log    *slog.Logger
	clock  Clock
	sched  Scheduler
	posted *QueueScheduler
	env    Environment
	sink   MessageSink

	commands *trie.Set[*command.Command]
	mappings *keymap.Table
	regs     *vim.Store
	modes    *mode.Stack
	recorder *macro.Recorder
	player   *macro.Player
	opfuncs  *Registry
	metrics  *Metrics
	hooks    *hook.Manager
	yanks    listeners[YankListener]
	mem      command.Memory

	// Input queue and mapping state
	queue    []input
	draining bool
	mapDepth int
	wait     waitKind
	timer    Timer
	timerGen uint64
	flushing bool

	// The command being typed
	cur pendingCommand

	insert   *insertSession
	repeat   *repeatRecord
	async    *asyncState
	asyncGen uint64

	nesting int
	nested  *nestedRun
}

// New creates a dispatcher for ed with the built-in commands installed.
// opts is shared, not copied: option changes take effect immediately.
func New(ed engine.Editor, opts *config.Options, cfg Config) *Dispatcher {
	if opts == nil {
		opts = config.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	d := &Dispatcher{
		editor:   ed,
		opts:     opts,
		config:   cfg,
		log:      opts.Log().With("component", "dispatcher"),
		clock:    cfg.Clock,
		sched:    cfg.Scheduler,
		commands: trie.NewSet[*command.Command](),
		mappings: keymap.NewTable(),
		regs:     vim.NewStore(),
		modes:    mode.NewStack(),
		opfuncs:  NewRegistry(),
		hooks:    hook.NewManager(),
	}
	if d.sched == nil {
		d.posted = &QueueScheduler{}
		d.sched = d.posted
	}
	if cfg.EnableMetrics {
		d.metrics = NewMetrics(d.clock.Now)
	}
	d.recorder = macro.NewRecorder(d.regs)
	d.player = macro.NewPlayer(d.regs)

	for _, cmd := range DefaultCommands() {
		if err := d.RegisterCommand(cmd, true); err != nil {
			d.log.Error("built-in command conflict", "command", cmd.Name, "error", err)
		}
	}
	return d
}

// SetEnvironment sets the command-line and expression backend.
func (d *Dispatcher) SetEnvironment(env Environment) {
	d.env = env
}

// SetMessageSink sets where messages and errors are shown.
func (d *Dispatcher) SetMessageSink(sink MessageSink) {
	d.sink = sink
}

// Editor returns the editor commands run against.
func (d *Dispatcher) Editor() engine.Editor {
	return d.editor
}

// Mappings returns the mapping table.
func (d *Dispatcher) Mappings() *keymap.Table {
	return d.mappings
}

// OperatorFuncs returns the registry of Go operator functions.
func (d *Dispatcher) OperatorFuncs() *Registry {
	return d.opfuncs
}

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *hook.Manager {
	return d.hooks
}

// Metrics returns the collected metrics, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// RegisterCommand binds cmd under each of its keys in each of its modes.
// Without override a binding that collides with another command fails.
func (d *Dispatcher) RegisterCommand(cmd *command.Command, override bool) error {
	for _, seq := range cmd.Keys {
		if err := d.commands.Insert(cmd.Modes, seq, cmd, cmd.Owner, override); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterCommand removes the bindings of seq in modes.
func (d *Dispatcher) UnregisterCommand(modes mode.MappingModes, seq key.Sequence) int {
	return d.commands.Remove(modes, seq)
}

// UnregisterOwner removes every command, mapping and operator function id
// registered, and returns how many there were.
func (d *Dispatcher) UnregisterOwner(id owner.ID) int {
	n := d.commands.RemoveOwned(id)
	n += d.mappings.RemoveByOwner(id)
	n += d.opfuncs.UnregisterOwner(id)
	return n
}

// LookupCommand returns the command bound to seq in md.
func (d *Dispatcher) LookupCommand(md mode.MappingModes, seq key.Sequence) (*command.Command, bool) {
	tr := d.commands.For(md)
	if tr == nil {
		return nil, false
	}
	e, ok := tr.Get(seq)
	return e.Value, ok
}

// HandleKey feeds one typed key.
func (d *Dispatcher) HandleKey(ev key.Event) {
	d.HandleKeys(key.Sequence{ev})
}

// HandleKeys feeds typed keys. Typed keys are mapped and recorded into a
// macro being recorded. While an async command is running they queue.
func (d *Dispatcher) HandleKeys(keys key.Sequence) {
	d.stopTimer()
	for _, ev := range keys {
		d.queue = append(d.queue, input{ev: ev, remap: true, typed: true})
	}
	d.drain()
}

// RunPending runs callbacks posted to the built-in scheduler, timer
// expirations and async completions, and returns how many ran. It does
// nothing when Config.Scheduler was set.
func (d *Dispatcher) RunPending() int {
	if d.posted == nil {
		return 0
	}
	return d.posted.Drain()
}

// Busy reports whether an async command is running.
func (d *Dispatcher) Busy() bool {
	return d.async != nil
}

// Pending reports whether a command or mapping is partially typed.
func (d *Dispatcher) Pending() bool {
	return d.cur.inProgress() || d.wait != waitNone
}

// ShowCmd returns the partially typed command, as 'showcmd' displays it.
func (d *Dispatcher) ShowCmd() string {
	return d.cur.builder.ShowCmd()
}

// CommandLine returns the prompt and text of the line being typed for a
// : or / command.
func (d *Dispatcher) CommandLine() (prompt, text string, ok bool) {
	cl := d.cur.cmdline
	if cl == nil {
		return "", "", false
	}
	return cl.prompt, string(cl.text), true
}

// ModeStack returns the mode stack, bottom first.
func (d *Dispatcher) ModeStack() []mode.State {
	return d.modes.Entries()
}

// OnModeChange registers cb for changes of the active mode and returns a
// function that removes it.
func (d *Dispatcher) OnModeChange(cb mode.ChangeCallback) func() {
	return d.modes.OnChange(cb)
}

// OnYank registers l for register writes made by operators and returns a
// function that removes it.
func (d *Dispatcher) OnYank(l YankListener) func() {
	return d.yanks.add(l)
}

// Reset cancels everything in flight and returns to Normal mode: pending
// keys and timers, a partial command, an async command, an insert session
// and a macro recording. Carets lose their selections.
func (d *Dispatcher) Reset() {
	d.stopTimer()
	d.queue = nil
	d.cur = pendingCommand{}
	d.mapDepth = 0
	if a := d.async; a != nil {
		if a.timer != nil {
			a.timer.Stop()
		}
		d.async = nil
	}
	d.insert = nil
	d.recorder.Cancel()
	d.mem.InsertBlock = false
	d.transition(d.modes.Reset)
	for _, c := range d.editor.Carets() {
		c.ClearSelection()
	}
	d.log.Debug("reset")
}

func (d *Dispatcher) message(msg string) {
	if d.sink != nil {
		d.sink.Message(msg)
		return
	}
	d.log.Info("message", "text", msg)
}
