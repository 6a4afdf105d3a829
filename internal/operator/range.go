package operator

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
)

// ComputeRange returns the range an operator applies to when the caret at
// from moves by res. linewise forces whole lines, for linewise operators
// and doubled operators such as dd.
func ComputeRange(ed engine.Editor, from int, res command.MotionResult, linewise bool) engine.TextRange {
	t := snapshot(ed)
	lo, hi := from, res.Offset
	if res.HasStart {
		lo = res.Start
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	kind := engine.Charwise
	if res.Linewise || linewise {
		kind = engine.Linewise
	}

	if kind == engine.Charwise {
		if res.Inclusive {
			hi = t.next(hi)
		} else if hi > lo {
			lp, hp := ed.OffsetToPoint(lo), ed.OffsetToPoint(hi)
			if hp.Column == 0 && hp.Line > lp.Line {
				hi = t.lineEnd(hp.Line - 1)
				if lo <= FirstNonBlank(ed, lp.Line) {
					kind = engine.Linewise
				}
			}
		}
	}

	if kind == engine.Linewise {
		first, last := t.line(lo), t.line(hi)
		lo = t.lineStart(first)
		if last+1 < ed.LineCount() {
			hi = t.lineStart(last + 1)
		} else {
			hi = t.len()
		}
	}
	return engine.TextRange{Start: lo, End: hi, Kind: kind}
}

// VisualRange returns the range selected between anchor and head. With
// exclusive set the character under the later end is not selected.
func VisualRange(ed engine.Editor, anchor, head int, sub mode.SubMode, exclusive bool) engine.TextRange {
	t := snapshot(ed)
	lo, hi := min(anchor, head), max(anchor, head)
	switch sub {
	case mode.Linewise:
		return ComputeRange(ed, lo, command.MotionResult{Offset: hi, Linewise: true}, true)
	case mode.Blockwise:
		return engine.TextRange{Start: lo, End: hi, Kind: engine.Blockwise}
	}
	if !exclusive || lo == hi {
		hi = t.next(hi)
	}
	return engine.TextRange{Start: lo, End: min(hi, t.len()), Kind: engine.Charwise}
}

// Span is a byte range on one line of a block.
type Span struct {
	Line       int
	Start, End int
}

// BlockColumns returns the first and one-past-last character columns of
// a blockwise range.
func BlockColumns(ed engine.Editor, r engine.TextRange) (left, right int) {
	a, b := RuneColumn(ed, r.Start), RuneColumn(ed, r.End)
	return min(a, b), max(a, b) + 1
}

// BlockSpans returns the per-line byte ranges of a blockwise range. Lines
// shorter than the block yield empty spans at their end.
func BlockSpans(ed engine.Editor, r engine.TextRange) []Span {
	left, right := BlockColumns(ed, r)
	first, last := ed.OffsetToPoint(r.Start).Line, ed.OffsetToPoint(r.End).Line
	spans := make([]Span, 0, last-first+1)
	for line := first; line <= last; line++ {
		spans = append(spans, Span{
			Line:  line,
			Start: OffsetAtColumn(ed, line, left, true),
			End:   OffsetAtColumn(ed, line, right, true),
		})
	}
	return spans
}
