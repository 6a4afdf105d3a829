package dispatcher

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/editor"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/operator"
)

// insertSession spans Insert and Replace mode from the command that
// entered them to the return to Normal mode.
type insertSession struct {
	start int
	count int
	open  bool

	// keys typed during the session, the key that ended it included.
	keys key.Sequence

	// rec is the change that started the session.
	rec *repeatRecord
}

// Characters typed in Insert, Replace and Select mode run as commands so
// they get undo groups, hooks and metrics like any other.
var (
	typeCommand = &command.Command{
		Name:    "insert.type",
		Modes:   mode.MapInsert,
		Handler: command.PerCaret{Fn: typeChar, Order: command.Reverse},
	}
	selectTypeCommand = &command.Command{
		Name:    "select.type",
		Modes:   mode.MapSelect,
		Handler: command.SingleExecution{Fn: replaceSelection},
	}
)

func (d *Dispatcher) beginInsert() {
	off := d.editor.PrimaryCaret().Offset()
	d.mem.InsertStart = off
	d.mem.Replaced = nil
	d.insert = &insertSession{
		start: off,
		count: max(1, d.mem.InsertCount),
		open:  d.mem.InsertOpen,
	}
	d.log.Debug("insert session started", "offset", off, "count", d.insert.count)
}

// recordInsertKey adds a key read in Insert or Replace mode to the
// session.
func (d *Dispatcher) recordInsertKey(ev key.Event) {
	if s := d.insert; s != nil && insertLike(d.modes.Top()) {
		s.keys = append(s.keys, ev)
	}
}

// unrecordInsertKey drops the last recorded key, for a key read again.
func (d *Dispatcher) unrecordInsertKey() {
	if s := d.insert; s != nil && len(s.keys) > 0 {
		s.keys = s.keys[:len(s.keys)-1]
	}
}

// endInsert repeats the typed text for a count, remembers it for the .
// register and completes the change started with the session.
func (d *Dispatcher) endInsert() {
	s := d.insert
	d.insert = nil
	if s == nil {
		return
	}
	text := insertedText(s.keys)
	if s.count > 1 && text != "" {
		unit := text
		if s.open {
			unit = "\n" + text
		}
		extra := strings.Repeat(unit, s.count-1)
		carets := d.editor.Carets()
		for i := len(carets) - 1; i >= 0; i-- {
			if err := editor.Type(d.editor, carets[i], extra); err != nil {
				d.log.Warn("insert repeat failed", "error", err)
				break
			}
		}
	}
	d.mem.LastInserted = text
	d.regs.SetLastInserted(text)
	if p := d.editor.PrimaryCaret().Offset(); p <= d.editor.Len() {
		d.editor.SetMark('^', d.editor.OffsetToPoint(p))
	}
	if d.mem.InsertBlock {
		d.editor.RemoveSecondaryCarets()
		d.mem.InsertBlock = false
	}
	d.mem.InsertCount, d.mem.InsertOpen = 0, false
	if s.rec != nil {
		s.rec.keys = append(s.rec.keys, s.keys...)
		d.repeat = s.rec
	}
	d.log.Debug("insert session ended", "text", text)
}

// insertedText reconstructs the text an insert session typed from its
// keys.
func insertedText(keys key.Sequence) string {
	var out []rune
	for i := 0; i < len(keys); i++ {
		switch ev := keys[i]; {
		case ev == key.Ctrl('v') || ev == key.Ctrl('q'):
			n, text := literalText(keys[i+1:])
			out = append(out, []rune(text)...)
			i += n
		case ev.IsChar():
			out = append(out, ev.Rune)
		case ev.Key == key.KeyEnter:
			out = append(out, '\n')
		case ev.Key == key.KeyTab:
			out = append(out, '\t')
		case ev.Key == key.KeyBackspace, ev == key.Ctrl('h'):
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		}
	}
	return string(out)
}

// literalText returns what the keys after <C-V> insert and how many of
// them it takes.
func literalText(keys key.Sequence) (int, string) {
	if len(keys) == 0 {
		return 0, ""
	}
	first := keys[0]
	if first.IsChar() {
		if c, ok := vim.NewCodeReader(first.Rune); ok {
			n := 1
			for ; n < len(keys) && keys[n].IsChar(); n++ {
				consumed, done := c.Feed(keys[n].Rune)
				if !consumed {
					break
				}
				if done {
					n++
					break
				}
			}
			return n, c.Text()
		}
	}
	if r, ok := literalRune(first); ok {
		return 1, string(r)
	}
	return 1, first.Notation()
}

// selfInsert types ev at every caret.
func (d *Dispatcher) selfInsert(ev key.Event) {
	d.start()
	d.execute(typeCommand, command.Argument{Char: ev.Rune, Key: ev})
}

func typeChar(ctx *command.Context, c engine.Caret) error {
	if ctx.Mode.Mode != mode.Replace {
		return editor.Type(ctx.Editor, c, string(ctx.Arg.Char))
	}
	old, err := editor.Overtype(ctx.Editor, c, ctx.Arg.Char)
	if err != nil {
		return err
	}
	if ctx.CaretIndex == 0 {
		mem := ctx.Host.Memory()
		mem.Replaced = append(mem.Replaced, old)
	}
	return nil
}

// selectReplace deletes the Select-mode selection and starts Insert mode;
// the caller queues the typed key again so it is inserted.
func (d *Dispatcher) selectReplace() bool {
	d.start()
	d.execute(selectTypeCommand, command.Argument{})
	return insertLike(d.modes.Top())
}

// replaceSelection deletes every selection into the black hole register
// and enters Insert mode.
func replaceSelection(ctx *command.Context) error {
	ed := ctx.Editor
	excl := ctx.Host.Options().ExclusiveSelection()
	carets := ed.Carets()
	ranges := make([]engine.TextRange, len(carets))
	for i, c := range carets {
		ranges[i] = operator.VisualRange(ed, c.VisualAnchor(), c.Offset(), ctx.Mode.SubMode, excl)
	}
	ctx.Host.SetMode(normalState)
	ctx.Register = '_'
	for i := len(carets) - 1; i >= 0; i-- {
		ctx.CaretIndex = i
		if err := operator.Change(ctx, carets[i], ranges[i]); err != nil {
			return err
		}
	}
	mem := ctx.Host.Memory()
	mem.InsertCount, mem.InsertOpen = 1, false
	ctx.CursorSet()
	ctx.Host.SetMode(insertState)
	return nil
}
