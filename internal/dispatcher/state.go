package dispatcher

import (
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/trie"
	"github.com/dshills/vimcore/internal/input/vim"
)

// pendingCommand is the command being typed.
type pendingCommand struct {
	builder vim.Builder

	// keys walked in the command trie since the last resolved command.
	keys key.Sequence

	// seq holds the keys of the command without counts or register, for
	// the repeat record.
	seq key.Sequence

	// op is the operator waiting for its motion.
	op     *command.Command
	opKeys key.Sequence

	// cmd is the resolved command waiting for its argument.
	cmd *command.Command
	arg *argReader

	regWait bool
	cmdline *cmdline

	// from is the state the command started in.
	from    mode.State
	started bool
}

// argReader collects a character or digraph argument.
type argReader struct {
	kind    vim.ArgumentType
	literal bool
	first   rune
	hasRune bool

	// code is the character code being typed after <C-V>.
	code *vim.CodeReader
}

// cmdline is the line read for an ArgExtended command.
type cmdline struct {
	prompt  string
	text    []rune
	literal bool
	reg     bool
}

func (p *pendingCommand) inProgress() bool {
	return len(p.keys) > 0 || p.op != nil || p.cmd != nil || p.regWait ||
		p.cmdline != nil || !p.builder.IsEmpty()
}

// start records the state a new command begins in.
func (d *Dispatcher) start() {
	if !d.cur.started {
		d.cur.started = true
		d.cur.from = d.modes.Top()
	}
}

// feed routes one key to whatever is reading it: the command line, an
// argument, a register name, a count or the command trie.
func (d *Dispatcher) feed(in input) {
	ev := in.ev
	d.start()
	d.recordInsertKey(ev)
	switch {
	case d.cur.cmdline != nil:
		d.readCmdline(ev)
		return
	case d.cur.arg != nil:
		d.readArg(ev)
		return
	case d.cur.regWait:
		d.readRegister(ev)
		return
	}

	top := d.modes.Top()
	if len(d.cur.keys) == 0 && countModes(top) {
		if ev.IsDigit() && (ev.Rune != '0' || d.countActive()) {
			if d.cur.builder.AddDigit(ev.Rune) {
				return
			}
		}
		if ev.IsChar() && ev.Rune == '"' && d.cur.op == nil {
			d.cur.builder.AppendKeys(ev)
			d.cur.regWait = true
			return
		}
	}

	d.cur.keys = append(d.cur.keys, ev)
	if d.cur.op != nil && d.doubled() {
		d.cur.seq = append(d.cur.seq, d.cur.keys...)
		d.cur.builder.AppendKeys(d.cur.keys...)
		d.cur.keys = nil
		d.runDoubled()
		return
	}

	tr := d.commands.For(mode.ForState(top))
	if tr == nil {
		d.fallback(d.cur.keys)
		return
	}
	res := tr.Lookup(d.cur.keys)
	switch res.Status {
	case trie.Terminal:
		keys := d.cur.keys
		d.cur.keys = nil
		d.resolve(res.Entry.Value, keys)
	case trie.Ambiguous:
		d.arm(waitCommand)
	case trie.Partial:
		if insertLike(top) {
			d.arm(waitCommand)
		}
	default:
		d.fallback(d.cur.keys)
	}
}

// countModes are the states where digits start a count.
func countModes(st mode.State) bool {
	switch st.Mode {
	case mode.Normal, mode.Visual, mode.OperatorPending:
		return true
	}
	return false
}

func insertLike(st mode.State) bool {
	return st.Mode == mode.Insert || st.Mode == mode.Replace
}

// countActive reports whether the count being typed is the one a 0 would
// continue: count1 before an operator, count2 after it.
func (d *Dispatcher) countActive() bool {
	if d.cur.op != nil {
		keys := d.cur.builder.Keys()
		return len(keys) > 0 && keys[len(keys)-1].IsDigit()
	}
	return d.cur.builder.HasCount()
}

// doubled reports whether the keys typed after an operator repeat it, as
// in dd, gUU or gUgU.
func (d *Dispatcher) doubled() bool {
	op, keys := d.cur.opKeys, d.cur.keys
	if keys.Equal(op) {
		return true
	}
	return len(op) > 1 && len(keys) == 1 && keys[0] == op[len(op)-1]
}

// commitPending ends a command wait: the longest command typed so far
// runs and the keys after it are read again.
func (d *Dispatcher) commitPending() {
	keys := d.cur.keys
	if len(keys) == 0 {
		return
	}
	d.fallback(keys)
}

// fallback handles keys the trie does not continue. The longest complete
// command among their prefixes runs and the rest is queued again. In
// Insert and Replace mode a lone character is typed; in Select mode it
// replaces the selection. Anything else cancels the command.
func (d *Dispatcher) fallback(keys key.Sequence) {
	top := d.modes.Top()
	if tr := d.commands.For(mode.ForState(top)); tr != nil {
		for n := len(keys); n > 0; n-- {
			e, ok := tr.Get(keys[:n])
			if !ok {
				continue
			}
			rest := keys[n:].Clone()
			d.cur.keys = nil
			d.resolve(e.Value, keys[:n])
			d.requeue(rest)
			return
		}
	}

	first, rest := keys[0], keys[1:].Clone()
	switch {
	case insertLike(top) && first.IsChar():
		d.cur.keys = nil
		d.selfInsert(first)
		d.requeue(rest)
		return
	case top.Mode == mode.Select && first.IsChar() && d.cur.op == nil:
		d.cur.keys = nil
		if d.selectReplace() {
			d.requeue(keys.Clone())
		} else {
			d.requeue(rest)
		}
		return
	}
	d.log.Debug("unknown key sequence", "keys", key.ToNotation(keys), "mode", top.String())
	d.cancelCommand()
}

// requeue puts keys back at the front of the queue, unmapped.
func (d *Dispatcher) requeue(keys key.Sequence) {
	if len(keys) == 0 {
		return
	}
	entries := make([]input, len(keys), len(keys)+len(d.queue))
	for i, ev := range keys {
		entries[i] = input{ev: ev}
	}
	d.queue = append(entries, d.queue...)
}

// resolve handles a complete command: it becomes the pending operator,
// starts reading its argument, or runs.
func (d *Dispatcher) resolve(cmd *command.Command, keys key.Sequence) {
	d.start()
	d.cur.builder.AppendKeys(keys...)
	d.cur.seq = append(d.cur.seq, keys...)
	top := d.modes.Top()

	if d.cur.op != nil && !cmd.IsMotion() {
		// Only a motion completes an operator.
		d.log.Debug("operator cancelled", "operator", d.cur.op.Name, "by", cmd.Name)
		d.cancelCommand()
		return
	}

	if cmd.IsOperator() && !top.IsVisual() && cmd.Argument == vim.ArgMotion {
		d.cur.op = cmd
		d.cur.opKeys = keys.Clone()
		d.cur.builder.SetOperator(cmd.Name)
		d.PushMode(mode.State{Mode: mode.OperatorPending})
		return
	}

	switch cmd.Argument {
	case vim.ArgCharacter, vim.ArgDigraph:
		if cmd.Has(command.RecordToggle) && d.recorder.Recording() != 0 {
			break
		}
		d.cur.cmd = cmd
		d.cur.arg = &argReader{kind: cmd.Argument, literal: cmd.Has(command.Literal)}
		d.cur.builder.ExpectArgument(cmd.Argument)
		return
	case vim.ArgExtended:
		d.cur.cmd = cmd
		prompt := ""
		if len(keys) > 0 && keys[len(keys)-1].IsChar() {
			prompt = string(keys[len(keys)-1].Rune)
		}
		d.cur.cmdline = &cmdline{prompt: prompt}
		d.cur.builder.ExpectArgument(cmd.Argument)
		d.PushMode(mode.State{Mode: mode.CommandLine})
		return
	}
	d.execute(cmd, command.Argument{})
}

// readArg collects a character or digraph argument. Escape cancels unless
// the command takes keys literally.
func (d *Dispatcher) readArg(ev key.Event) {
	a := d.cur.arg
	if a.code != nil {
		d.readCode(ev)
		return
	}
	if ev.IsEscape() && !a.literal {
		d.cancelCommand()
		return
	}
	d.cur.builder.AppendKeys(ev)
	d.cur.seq = append(d.cur.seq, ev)
	r, ok := literalRune(ev)

	if a.kind == vim.ArgDigraph {
		if !ok {
			d.cancelCommand()
			return
		}
		if !a.hasRune {
			a.first, a.hasRune = r, true
			return
		}
		cmd := d.cur.cmd
		d.cur.arg, d.cur.cmd = nil, nil
		d.execute(cmd, command.Argument{Text: string([]rune{a.first, r}), Char: r, Key: ev})
		return
	}

	if a.literal && ev.IsChar() {
		if c, ok := vim.NewCodeReader(ev.Rune); ok {
			a.code = c
			return
		}
	}

	cmd := d.cur.cmd
	d.cur.arg, d.cur.cmd = nil, nil
	if !ok && !a.literal {
		d.cancelCommand()
		return
	}
	d.execute(cmd, command.Argument{Char: r, Key: ev})
}

// readCode continues a character code typed after <C-V>. A key that is
// not part of the code ends it and is read again.
func (d *Dispatcher) readCode(ev key.Event) {
	a := d.cur.arg
	consumed, done := false, true
	if ev.IsChar() {
		consumed, done = a.code.Feed(ev.Rune)
	}
	if consumed {
		d.cur.builder.AppendKeys(ev)
		d.cur.seq = append(d.cur.seq, ev)
	}
	if !done {
		return
	}
	cmd := d.cur.cmd
	d.cur.arg, d.cur.cmd = nil, nil
	text := a.code.Text()
	r, _ := utf8.DecodeRuneInString(text)
	d.execute(cmd, command.Argument{Text: text, Char: r, Key: ev})
	if !consumed {
		d.unrecordInsertKey()
		d.requeue(key.Sequence{ev})
	}
}

// literalRune returns the character a key stands for when read as an
// argument: control keys become control characters.
func literalRune(ev key.Event) (rune, bool) {
	switch ev.Key {
	case key.KeyRune:
		if ev.Modifiers&key.ModCtrl != 0 {
			r := ev.Rune
			if r >= 'a' && r <= 'z' {
				return r - 'a' + 1, true
			}
			if r >= '@' && r <= '_' {
				return r - '@', true
			}
			return 0, false
		}
		return ev.Rune, true
	case key.KeyEnter:
		return '\r', true
	case key.KeyTab:
		return '\t', true
	case key.KeyEscape:
		return 0x1b, true
	case key.KeyBackspace:
		return 0x08, true
	}
	return 0, false
}

// readRegister reads the name after ".
func (d *Dispatcher) readRegister(ev key.Event) {
	d.cur.regWait = false
	if !ev.IsChar() || !vim.IsValid(ev.Rune) {
		d.cancelCommand()
		return
	}
	d.cur.builder.AppendKeys(ev)
	d.cur.builder.SetRegister(ev.Rune)
}

// readCmdline edits the line of a : or / command.
func (d *Dispatcher) readCmdline(ev key.Event) {
	cl := d.cur.cmdline
	switch {
	case cl.literal:
		cl.literal = false
		if r, ok := literalRune(ev); ok {
			cl.text = append(cl.text, r)
		}
		return
	case cl.reg:
		cl.reg = false
		if ev.IsChar() {
			if reg, ok := d.regs.Get(ev.Rune); ok {
				cl.text = append(cl.text, []rune(reg.Text)...)
			}
		}
		return
	}

	switch {
	case ev.IsEscape(), ev == key.Ctrl('c'):
		d.cancelCommand()
	case ev.IsEnter(), ev == key.Ctrl('j'), ev == key.Ctrl('m'):
		cmd := d.cur.cmd
		text := string(cl.text)
		d.cur.cmdline, d.cur.cmd = nil, nil
		d.popMode(mode.CommandLine)
		typed := literalKeys(text)
		d.cur.builder.AppendKeys(typed...)
		d.cur.seq = append(append(d.cur.seq, typed...), ev)
		d.execute(cmd, command.Argument{Text: text, Key: ev})
	case ev.Key == key.KeyBackspace, ev == key.Ctrl('h'):
		if len(cl.text) == 0 {
			d.cancelCommand()
			return
		}
		cl.text = cl.text[:len(cl.text)-1]
	case ev == key.Ctrl('u'):
		cl.text = cl.text[:0]
	case ev == key.Ctrl('w'):
		cl.text = trimWord(cl.text)
	case ev == key.Ctrl('v'), ev == key.Ctrl('q'):
		cl.literal = true
	case ev == key.Ctrl('r'):
		cl.reg = true
	case ev.Key == key.KeyTab:
		cl.text = append(cl.text, '\t')
	case ev.IsChar():
		cl.text = append(cl.text, ev.Rune)
	}
}

// literalKeys turns typed text back into keys, for the repeat record.
func literalKeys(text string) key.Sequence {
	seq := make(key.Sequence, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		seq = append(seq, key.NewRuneEvent(r, key.ModNone))
	}
	return seq
}

// trimWord deletes the word before the end of text, and the blanks after
// it, like <C-W>.
func trimWord(text []rune) []rune {
	i := len(text)
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	word := i > 0 && isWordRune(text[i-1])
	for i > 0 && text[i-1] != ' ' && text[i-1] != '\t' && isWordRune(text[i-1]) == word {
		i--
	}
	return text[:i]
}

func isWordRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f
}

// cancelCommand drops the command being typed and returns to the state it
// started in.
func (d *Dispatcher) cancelCommand() {
	if d.cur.cmdline != nil {
		d.popMode(mode.CommandLine)
	}
	if d.cur.op != nil {
		d.popMode(mode.OperatorPending)
	}
	from := d.cur.from
	d.cur = pendingCommand{}
	if from.SubMode == mode.InsertNormal {
		d.popMode(mode.Normal)
	}
}

// popMode pops the top of the stack when it is in mode m.
func (d *Dispatcher) popMode(m mode.Mode) {
	if d.modes.Depth() > 1 && d.modes.Top().Mode == m {
		d.transition(func() { d.modes.Pop() })
	}
}
