package mode

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	inputmode "github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/operator"
)

// Action names for Visual and Select mode commands.
const (
	ActionVisual       = "mode.visual"
	ActionVisualLine   = "mode.visualLine"
	ActionVisualBlock  = "mode.visualBlock"
	ActionReselect     = "mode.reselect"
	ActionSelect       = "mode.select"
	ActionSelectLine   = "mode.selectLine"
	ActionSelectBlock  = "mode.selectBlock"
	ActionToggleSelect = "mode.toggleSelect"
	ActionSwapEnds     = "mode.swapEnds"
	ActionSwapCorners  = "mode.swapCorners"
	ActionVisualInsert = "mode.visualInsert"
	ActionVisualAppend = "mode.visualAppend"
)

func visualCommands() []*command.Command {
	nv := inputmode.MapNormal | inputmode.MapVisual
	v := inputmode.MapVisual
	keep := command.KeepVisual
	sticky := keep | command.StickyColumn
	return []*command.Command{
		command.New(ActionVisual, nv, visual(inputmode.Visual, inputmode.Characterwise), "v").WithFlags(sticky),
		command.New(ActionVisualLine, nv, visual(inputmode.Visual, inputmode.Linewise), "V").WithFlags(sticky),
		command.New(ActionVisualBlock, nv, visual(inputmode.Visual, inputmode.Blockwise), "<C-v>", "<C-q>").WithFlags(sticky),
		command.New(ActionReselect, nv, command.SingleExecution{Fn: reselect}, "gv").WithFlags(keep),

		command.New(ActionSelect, inputmode.MapNormal, visual(inputmode.Select, inputmode.Characterwise), "gh").WithFlags(command.StickyColumn),
		command.New(ActionSelectLine, inputmode.MapNormal, visual(inputmode.Select, inputmode.Linewise), "gH").WithFlags(command.StickyColumn),
		command.New(ActionSelectBlock, inputmode.MapNormal, visual(inputmode.Select, inputmode.Blockwise), "g<C-h>").WithFlags(command.StickyColumn),
		command.New(ActionToggleSelect, inputmode.MapVisualSelect, command.SingleExecution{Fn: toggleSelect}, "<C-g>").WithFlags(sticky),

		command.New(ActionSwapEnds, v, command.PerCaret{Fn: swapEnds}, "o").WithFlags(keep),
		command.New(ActionSwapCorners, v, command.PerCaret{Fn: swapCorners}, "O").WithFlags(keep),
		command.New(ActionVisualInsert, v, visualInsert(false), "I").WithFlags(keep),
		command.New(ActionVisualAppend, v, visualInsert(true), "A").WithFlags(keep),
	}
}

// visual starts m with shape sub at every caret. In Visual or Select mode
// it switches the shape, or leaves when sub is already active.
func visual(m inputmode.Mode, sub inputmode.SubMode) command.SingleExecution {
	return command.SingleExecution{Fn: func(ctx *command.Context) error {
		cur := ctx.Mode
		if cur.IsVisual() {
			if cur.SubMode == sub {
				leaveVisual(ctx)
				return nil
			}
			ctx.Host.SetMode(inputmode.State{Mode: cur.Mode, SubMode: sub})
			return nil
		}
		for _, c := range ctx.Editor.Carets() {
			c.SetVisualAnchor(c.Offset())
		}
		ctx.Host.SetMode(inputmode.State{Mode: m, SubMode: sub})
		return nil
	}}
}

// reselect is gv.
func reselect(ctx *command.Context) error {
	mem := ctx.Host.Memory()
	if !mem.HasVisual {
		return command.ErrFailed
	}
	ed := ctx.Editor
	lv := mem.LastVisual
	ed.RemoveSecondaryCarets()
	c := ed.PrimaryCaret()
	c.SetVisualAnchor(min(lv.Anchor, ed.Len()))
	c.MoveTo(min(lv.Head, ed.Len()))
	ctx.CursorSet()

	m := inputmode.Visual
	if lv.Select {
		m = inputmode.Select
	}
	ctx.Host.SetMode(inputmode.State{Mode: m, SubMode: lv.Sub})
	return nil
}

func toggleSelect(ctx *command.Context) error {
	m := inputmode.Select
	if ctx.Mode.Mode == inputmode.Select {
		m = inputmode.Visual
	}
	ctx.Host.SetMode(inputmode.State{Mode: m, SubMode: ctx.Mode.SubMode})
	return nil
}

func swapEnds(ctx *command.Context, c engine.Caret) error {
	anchor := c.VisualAnchor()
	c.SetVisualAnchor(c.Offset())
	c.MoveTo(anchor)
	ctx.CursorSet()
	return nil
}

// swapCorners is O: in a block it moves to the other corner on the same
// line; otherwise it is o.
func swapCorners(ctx *command.Context, c engine.Caret) error {
	if ctx.Mode.SubMode != inputmode.Blockwise {
		return swapEnds(ctx, c)
	}
	ed := ctx.Editor
	anchor, head := c.VisualAnchor(), c.Offset()
	ac, hc := operator.RuneColumn(ed, anchor), operator.RuneColumn(ed, head)
	al, hl := ed.OffsetToPoint(anchor).Line, ed.OffsetToPoint(head).Line
	c.SetVisualAnchor(operator.OffsetAtColumn(ed, al, hc, false))
	c.MoveTo(operator.OffsetAtColumn(ed, hl, ac, false))
	ctx.CursorSet()
	return nil
}

// visualInsert is I and A. On a block it puts a caret on every line at
// the left edge, or past the right edge with A, padding short lines; I
// skips lines that end before the block. Other shapes insert before the
// start or after the end of the selection.
func visualInsert(after bool) command.SingleExecution {
	return command.SingleExecution{Fn: func(ctx *command.Context) error {
		ed := ctx.Editor
		c := ed.PrimaryCaret()
		sub := ctx.Mode.SubMode
		exclusive := ctx.Host.Options().ExclusiveSelection()
		r := operator.VisualRange(ed, c.VisualAnchor(), c.Offset(), sub, exclusive)

		ctx.Host.SetMode(normal)
		ed.RemoveSecondaryCarets()
		mem := ctx.Host.Memory()

		switch sub {
		case inputmode.Blockwise:
			left, right := operator.BlockColumns(ed, r)
			if exclusive && right > left+1 {
				right--
			}
			col := left
			if after {
				col = right
			}
			first, last := ed.OffsetToPoint(r.Start).Line, ed.OffsetToPoint(r.End).Line
			if first > last {
				first, last = last, first
			}
			placed := 0
			for line := first; line <= last; line++ {
				off, ok, err := blockColumn(ed, line, col, after)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				if placed == 0 {
					c.MoveTo(off)
				} else {
					ed.AddCaret(off)
				}
				placed++
			}
			if placed == 0 {
				c.MoveTo(operator.OffsetAtColumn(ed, first, col, true))
			}
			mem.InsertBlock = placed > 1
		case inputmode.Linewise:
			if after {
				c.MoveTo(ed.LineEndOffset(ed.OffsetToPoint(max(r.Start, r.End-1)).Line))
			} else {
				c.MoveTo(operator.FirstNonBlank(ed, ed.OffsetToPoint(r.Start).Line))
			}
		default:
			if after {
				c.MoveTo(r.End)
			} else {
				c.MoveTo(r.Start)
			}
		}
		mem.InsertCount = 1
		mem.InsertOpen = false
		ctx.CursorSet()
		ctx.Host.SetMode(insertState)
		return nil
	}}
}

// blockColumn returns the offset of character column col on line. When
// the line is shorter, pad fills it with spaces up to col; otherwise ok
// is false.
func blockColumn(ed engine.Editor, line, col int, pad bool) (off int, ok bool, err error) {
	start, end := ed.LineStartOffset(line), ed.LineEndOffset(line)
	n := utf8.RuneCountInString(ed.TextRange(start, end))
	if n > col || n == col && pad {
		return operator.OffsetAtColumn(ed, line, col, true), true, nil
	}
	if !pad {
		return 0, false, nil
	}
	if err := ed.Insert(end, strings.Repeat(" ", col-n)); err != nil {
		return 0, false, err
	}
	return end + col - n, true, nil
}
