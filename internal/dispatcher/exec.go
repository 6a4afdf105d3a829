package dispatcher

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/operator"
)

var (
	normalState = mode.State{Mode: mode.Normal}
	insertState = mode.State{Mode: mode.Insert}
)

// lineMotion is the motion of a doubled operator: count lines from the
// caret's line.
var lineMotion = &command.Command{
	Name: "motion.lines",
	Handler: command.Motion{Fn: func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		ed := ctx.Editor
		line := ed.OffsetToPoint(c.Offset()).Line
		last := min(line+ctx.Count-1, ed.LineCount()-1)
		return command.MotionResult{Offset: ed.LineStartOffset(last), Linewise: true}, nil
	}},
}

// newContext builds the context of cmd from the pending command.
func (d *Dispatcher) newContext(cmd *command.Command, arg command.Argument) *command.Context {
	b := &d.cur.builder
	return &command.Context{
		Editor:   d.editor,
		Host:     d,
		Command:  cmd,
		Count:    b.Count(),
		RawCount: b.RawCount(),
		Register: b.Register(),
		Arg:      arg,
		Mode:     d.modes.Top(),
		Keys:     b.Keys(),
	}
}

// execute runs a resolved command with its argument. With an operator
// pending, cmd is its motion.
func (d *Dispatcher) execute(cmd *command.Command, arg command.Argument) {
	if d.cur.op != nil {
		d.runOperator(cmd, arg)
		return
	}
	ctx := d.newContext(cmd, arg)
	if h, ok := cmd.Handler.(command.Async); ok {
		d.startAsync(ctx, h)
		return
	}
	err := d.run(ctx, func() error { return d.dispatch(ctx) })
	d.finish(ctx, err)
}

// run wraps a handler call with hooks, the undo group, panic recovery
// and metrics.
func (d *Dispatcher) run(ctx *command.Context, fn func() error) error {
	name := ctx.Command.Name
	if !d.hooks.RunPre(ctx) {
		return ErrCancelled
	}
	start := d.clock.Now()
	var err error
	if ctx.Command.Has(command.NoUndoGroup) {
		err = d.guard(name, fn)
	} else {
		err = d.editor.UndoGroup(name, func() error { return d.guard(name, fn) })
	}
	if d.metrics != nil {
		d.metrics.RecordCommand(name, d.clock.Now().Sub(start), err)
	}
	d.hooks.RunPost(ctx, err)
	return err
}

// guard turns a handler panic into ErrPanic when recovery is enabled.
func (d *Dispatcher) guard(name string, fn func() error) (err error) {
	if !d.config.RecoverFromPanic {
		return fn()
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("command panicked", "command", name, "panic", r)
			if d.metrics != nil {
				d.metrics.RecordPanic(name)
			}
			err = fmt.Errorf("%w: %s: %v", ErrPanic, name, r)
		}
	}()
	return fn()
}

// dispatch calls the handler according to its shape.
func (d *Dispatcher) dispatch(ctx *command.Context) error {
	switch h := ctx.Command.Handler.(type) {
	case command.SingleExecution:
		return h.Fn(ctx)
	case command.PerCaret:
		return d.perCaret(ctx, h)
	case command.Motion:
		return d.move(ctx, h)
	case command.Operator:
		if !ctx.Mode.IsVisual() {
			return command.ErrFailed
		}
		return d.visualOperator(ctx, h)
	}
	return fmt.Errorf("dispatcher: %s: unsupported handler %T", ctx.Command.Name, ctx.Command.Handler)
}

// perCaret runs h once per caret. The command fails only when every
// caret failed.
func (d *Dispatcher) perCaret(ctx *command.Context, h command.PerCaret) error {
	carets := d.editor.Carets()
	if h.AllOrNothing && h.Check != nil {
		for i, c := range carets {
			ctx.CaretIndex = i
			if err := h.Check(ctx, c); err != nil {
				return err
			}
		}
	}

	var first error
	failed := 0
	visit := func(i int) {
		ctx.CaretIndex = i
		if err := h.Fn(ctx, carets[i]); err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if h.Order == command.Reverse {
		for i := len(carets) - 1; i >= 0; i-- {
			visit(i)
		}
	} else {
		for i := range carets {
			visit(i)
		}
	}
	if failed == len(carets) {
		return first
	}
	if first != nil {
		d.log.Debug("command failed on some carets", "command", ctx.Command.Name, "failed", failed, "error", first)
	}
	return nil
}

// move applies a motion to every caret. Targets are computed before any
// caret moves.
func (d *Dispatcher) move(ctx *command.Context, h command.Motion) error {
	carets := d.editor.Carets()
	results := make([]command.MotionResult, len(carets))
	ok := make([]bool, len(carets))
	var first error
	for i, c := range carets {
		ctx.CaretIndex = i
		res, err := h.Fn(ctx, c)
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		results[i], ok[i] = res, true
	}
	if first != nil && !slicesAny(ok) {
		return first
	}
	for i, c := range carets {
		if ok[i] {
			d.place(ctx, h, c, results[i])
		}
	}
	return nil
}

func slicesAny(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}

// place moves c to a motion result. In Visual mode a text object selects
// the object.
func (d *Dispatcher) place(ctx *command.Context, h command.Motion, c engine.Caret, res command.MotionResult) {
	ed := d.editor
	if res.Jump {
		ed.PushJump(ed.OffsetToPoint(c.Offset()))
	}
	visual := ctx.Mode.IsVisual()
	if visual && h.TextObject && res.HasStart {
		head := res.Offset
		switch excl := d.opts.ExclusiveSelection(); {
		case res.Inclusive && excl:
			head = nextRune(ed, head)
		case !res.Inclusive && !excl && head > res.Start:
			head = prevRune(ed, head)
		}
		c.SetVisualAnchor(res.Start)
		c.MoveTo(head)
		if res.Linewise && ctx.Mode.SubMode == mode.Characterwise {
			d.SetMode(mode.State{Mode: ctx.Mode.Mode, SubMode: mode.Linewise})
		}
		return
	}
	off := res.Offset
	if !visual {
		off = operator.NormalClamp(ed, off)
	}
	c.MoveTo(off)
	if !h.KeepColumn {
		c.SetWantColumn(operator.RuneColumn(ed, off))
	}
}

func prevRune(ed engine.Editor, off int) int {
	_, size := utf8.DecodeLastRuneInString(ed.TextRange(max(0, off-utf8.UTFMax), off))
	return off - max(1, size)
}

func nextRune(ed engine.Editor, off int) int {
	if off >= ed.Len() {
		return off
	}
	_, size := utf8.DecodeRuneInString(ed.TextRange(off, min(ed.Len(), off+utf8.UTFMax)))
	return off + max(1, size)
}

// runDoubled applies the pending operator to count whole lines.
func (d *Dispatcher) runDoubled() {
	d.runOperator(lineMotion, command.Argument{})
}

// runOperator applies the pending operator over the motion mcmd.
func (d *Dispatcher) runOperator(mcmd *command.Command, arg command.Argument) {
	op := d.cur.op
	d.popMode(mode.OperatorPending)
	h, _ := op.Handler.(command.Operator)
	mh, ok := mcmd.Handler.(command.Motion)
	if !ok || h.Fn == nil {
		d.cancelCommand()
		return
	}
	ctx := d.newContext(op, arg)
	ctx.Motion = mcmd
	err := d.run(ctx, func() error { return d.applyOperator(ctx, h, mh) })
	if err == nil && h.Change {
		d.startChange()
	}
	d.finish(ctx, err)
}

// applyOperator computes every caret's range first: a motion that fails
// for any caret cancels the whole operator. The ranges are then applied
// bottom to top so earlier offsets stay valid.
func (d *Dispatcher) applyOperator(ctx *command.Context, h command.Operator, mh command.Motion) error {
	ed := d.editor
	carets := ed.Carets()
	ranges := make([]engine.TextRange, len(carets))
	for i, c := range carets {
		ctx.CaretIndex = i
		res, err := mh.Fn(ctx, c)
		if err != nil {
			var mf *operator.MotionFailedError
			if !errors.As(err, &mf) {
				err = &operator.MotionFailedError{Motion: ctx.Motion.Name, Err: err}
			}
			return err
		}
		if res.Jump {
			ed.PushJump(ed.OffsetToPoint(c.Offset()))
		}
		ranges[i] = operator.ComputeRange(ed, c.Offset(), res, h.Linewise)
	}
	return d.applyRanges(ctx, h, carets, ranges)
}

func (d *Dispatcher) applyRanges(ctx *command.Context, h command.Operator, carets []engine.Caret, ranges []engine.TextRange) error {
	var first error
	failed, tried := 0, 0
	for i := len(carets) - 1; i >= 0; i-- {
		r := ranges[i]
		if r.Kind == engine.Charwise && r.Start == r.End && !h.Change {
			continue
		}
		tried++
		ctx.CaretIndex = i
		if ctx.Mode.IsVisual() {
			ctx.Selection = &r
		}
		if err := h.Fn(ctx, carets[i], r); err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if tried > 0 && failed == tried {
		return first
	}
	return nil
}

// visualOperator applies h to every caret's selection after leaving
// Visual mode.
func (d *Dispatcher) visualOperator(ctx *command.Context, h command.Operator) error {
	ed := d.editor
	excl := d.opts.ExclusiveSelection()
	carets := ed.Carets()
	ranges := make([]engine.TextRange, len(carets))
	for i, c := range carets {
		r := operator.VisualRange(ed, c.VisualAnchor(), c.Offset(), ctx.Mode.SubMode, excl)
		if h.Linewise && r.Kind != engine.Linewise {
			hi := r.End
			if r.Kind == engine.Charwise && hi > r.Start {
				hi = prevRune(ed, hi)
			}
			r = operator.ComputeRange(ed, r.Start, command.MotionResult{Offset: hi, Linewise: true}, true)
		}
		ranges[i] = r
	}
	d.SetMode(normalState)
	if err := d.applyRanges(ctx, h, carets, ranges); err != nil {
		return err
	}
	if h.Change {
		d.startChange()
	}
	return nil
}

// startChange enters Insert mode after a change operator. From
// insert-normal it returns to the Insert mode below.
func (d *Dispatcher) startChange() {
	d.mem.InsertCount = 1
	d.mem.InsertOpen = false
	if _, ok := d.modes.FindInsertBelow(); ok && d.modes.Top().Mode == mode.Normal {
		d.PopMode()
		return
	}
	d.SetMode(insertState)
}

// finish completes a command: it writes queued registers, sets the change
// marks, records the change for ".", ends Visual mode and resets the
// pending command.
func (d *Dispatcher) finish(ctx *command.Context, err error) {
	cmd := ctx.Command
	if err == nil {
		err = d.flushRegister(ctx)
	}
	if err == nil {
		d.markChange(ctx)
		if cmd.Has(command.Repeatable) {
			d.recordRepeat()
		}
	}

	top := d.modes.Top()
	if top.IsVisual() && ctx.Mode.IsVisual() && !cmd.IsMotion() && !cmd.Has(command.KeepVisual) {
		d.SetMode(normalState)
		top = d.modes.Top()
	}
	if top.IsVisual() {
		d.syncSelections(top)
	}

	keep := 0
	if cmd.Has(command.KeepCount) {
		keep = d.cur.builder.RawCount()
	}
	from := d.cur.from
	d.cur = pendingCommand{}
	if keep > 0 {
		d.cur.builder.SetCount(keep)
	}
	if !insertLike(from) {
		d.returnToInsert()
	}

	if top = d.modes.Top(); top.Mode == mode.Normal && top.SubMode != mode.InsertNormal {
		for _, c := range d.editor.Carets() {
			c.MoveTo(operator.NormalClamp(d.editor, c.Offset()))
		}
	}
	if err == nil && !cmd.IsMotion() && !cmd.Has(command.StickyColumn) {
		for _, c := range d.editor.Carets() {
			c.SetWantColumn(engine.NoWantColumn)
		}
	}
	if err != nil {
		d.report(err)
		d.flushQueued()
	}
}

// returnToInsert pops a Normal state left above an Insert entry, ending a
// command typed after <C-O>.
func (d *Dispatcher) returnToInsert() {
	if d.modes.Depth() < 2 || d.modes.Top().Mode != mode.Normal {
		return
	}
	if _, ok := d.modes.FindInsertBelow(); ok {
		d.PopMode()
	}
}

// flushRegister writes what the handler yanked or deleted and notifies
// yank listeners.
func (d *Dispatcher) flushRegister(ctx *command.Context) error {
	r, ok, err := ctx.FlushRegister(d.regs)
	if err != nil || !ok {
		return err
	}
	lo, hi, _ := ctx.ChangedRange()
	ev := YankEvent{Register: ctx.Register, Command: ctx.Command.Name, Value: r, Start: lo, End: hi}
	d.yanks.each(func(l YankListener) { l.OnYank(ev) })
	return nil
}

// markChange sets '[ and '] to the range the command reported, and '.'
// for changes.
func (d *Dispatcher) markChange(ctx *command.Context) {
	lo, hi, ok := ctx.ChangedRange()
	if !ok {
		return
	}
	ed := d.editor
	n := ed.Len()
	lo = min(lo, n)
	last := min(max(lo, hi-1), n)
	ed.SetMark('[', ed.OffsetToPoint(lo))
	ed.SetMark(']', ed.OffsetToPoint(last))
	if ctx.Command.Has(command.Repeatable) {
		ed.SetMark('.', ed.OffsetToPoint(lo))
	}
}

// syncSelections mirrors each caret's Visual selection into its Selection
// for the host to draw.
func (d *Dispatcher) syncSelections(st mode.State) {
	ed := d.editor
	excl := d.opts.ExclusiveSelection()
	for _, c := range ed.Carets() {
		anchor, head := c.VisualAnchor(), c.Offset()
		if st.SubMode == mode.Blockwise {
			c.SetSelection(engine.Selection{Anchor: anchor, Head: head})
			continue
		}
		r := operator.VisualRange(ed, anchor, head, st.SubMode, excl)
		if head < anchor {
			c.SetSelection(engine.Selection{Anchor: r.End, Head: r.Start})
		} else {
			c.SetSelection(engine.Selection{Anchor: r.Start, Head: r.End})
		}
	}
}

// saveVisual remembers the selection being left, for gv and the '< and
// '> marks, and clears the carets' selections.
func (d *Dispatcher) saveVisual(from mode.State) {
	ed := d.editor
	c := ed.PrimaryCaret()
	anchor, head := c.VisualAnchor(), c.Offset()
	d.mem.LastVisual = command.VisualRecord{
		Sub:    from.SubMode,
		Anchor: anchor,
		Head:   head,
		Select: from.Mode == mode.Select,
	}
	d.mem.HasVisual = true
	ed.SetMark('<', ed.OffsetToPoint(min(anchor, head)))
	ed.SetMark('>', ed.OffsetToPoint(min(max(anchor, head), ed.Len())))
	for _, c := range ed.Carets() {
		c.ClearSelection()
	}
}

// report shows err unless it is a silent failure.
func (d *Dispatcher) report(err error) {
	if err == nil {
		return
	}
	var coded interface{ Code() int }
	hasCode := errors.As(err, &coded) && coded.Code() > 0
	if d.nested != nil && d.nested.err == nil && hasCode {
		d.nested.err = err
	}

	var mf *operator.MotionFailedError
	switch {
	case hasCode:
		d.message(err.Error())
	case errors.Is(err, command.ErrFailed), errors.Is(err, ErrCancelled), errors.As(err, &mf):
		d.log.Debug("command failed", "error", err)
	default:
		d.log.Warn("command error", "error", err)
		d.message(err.Error())
	}
}
