package operator

import (
	"testing"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

func TestTextObjects(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		fn         func(ed engine.Editor, off int) (command.MotionResult, error)
		off        int
		start, end int
	}{
		{"iw", "foo bar baz", wordObj(1, false), 5, 4, 7},
		{"aw", "foo bar baz", wordObj(1, true), 5, 4, 8},
		{"aw last word", "foo bar baz", wordObj(1, true), 9, 7, 11},
		{"iw on blanks", "foo bar", wordObj(1, false), 3, 3, 4},
		{"2iw", "foo bar baz", wordObj(2, false), 4, 4, 8},
		{"i(", "f(a, (b), c)", blockObj(1, '(', ')', false), 2, 2, 11},
		{"i( nested", "f(a, (b), c)", blockObj(1, '(', ')', false), 6, 6, 7},
		{"2i(", "f(a, (b), c)", blockObj(2, '(', ')', false), 6, 2, 11},
		{"a(", "f(a, (b), c)", blockObj(1, '(', ')', true), 6, 5, 8},
		{"i( on close", "f(a, (b), c)", blockObj(1, '(', ')', false), 7, 6, 7},
		{"i{ multiline", "if x {\n    foo\n}", blockObj(1, '{', '}', false), 9, 7, 15},
		{`i"`, `say "hi there" now`, quoteObj('"', false), 6, 5, 14},
		{`a"`, `say "hi there" now`, quoteObj('"', true), 6, 4, 16},
		{`i" on quote`, `say "hi there" now`, quoteObj('"', false), 4, 5, 14},
		{`i" before quotes`, `say "hi there" now`, quoteObj('"', false), 1, 5, 14},
		{"ia", "call(a, bb, c)", argObj(false, 10), 8, 8, 10},
		{"aa", "call(a, bb, c)", argObj(true, 10), 8, 8, 12},
		{"aa last", "call(a, bb, c)", argObj(true, 10), 12, 10, 13},
		{"ia nested", "f(a, g(b, c), d)", argObj(false, 10), 7, 7, 8},
		{"ia outer", "f(a, g(b, c), d)", argObj(false, 10), 5, 5, 12},
		{"ia multiline", "f(\na,\nb,\nc)", argObj(false, 3), 9, 9, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := engine.NewDocument(tt.text)
			res, err := tt.fn(doc, tt.off)
			if err != nil {
				t.Fatalf("%s at %d: %v", tt.name, tt.off, err)
			}
			if !res.HasStart || res.Start != tt.start || res.Offset != tt.end {
				t.Errorf("%s at %d = [%d,%d), want [%d,%d)", tt.name, tt.off, res.Start, res.Offset, tt.start, tt.end)
			}
		})
	}
}

func wordObj(count int, around bool) func(engine.Editor, int) (command.MotionResult, error) {
	return func(ed engine.Editor, off int) (command.MotionResult, error) {
		return WordObject(ed, off, count, false, around)
	}
}

func blockObj(count int, open, close rune, around bool) func(engine.Editor, int) (command.MotionResult, error) {
	return func(ed engine.Editor, off int) (command.MotionResult, error) {
		return BlockObject(ed, off, count, open, close, around)
	}
}

func quoteObj(q rune, around bool) func(engine.Editor, int) (command.MotionResult, error) {
	return func(ed engine.Editor, off int) (command.MotionResult, error) {
		return QuoteObject(ed, off, q, around)
	}
}

func argObj(around bool, limit int) func(engine.Editor, int) (command.MotionResult, error) {
	return func(ed engine.Editor, off int) (command.MotionResult, error) {
		return ArgumentObject(ed, off, around, limit)
	}
}

func TestTextObjectFailures(t *testing.T) {
	doc := engine.NewDocument("f(\na,\nb,\nc)")
	if _, err := ArgumentObject(doc, 9, false, 2); err == nil {
		t.Error("argument object found brackets beyond the line limit")
	}
	if _, err := BlockObject(engine.NewDocument("abc"), 1, 1, '(', ')', false); err == nil {
		t.Error("i( outside brackets should fail")
	}
	if _, err := QuoteObject(engine.NewDocument("abc"), 1, '"', false); err == nil {
		t.Error(`i" without quotes should fail`)
	}
	if _, err := WordObject(engine.NewDocument("a\n\nb"), 2, 1, false, false); err == nil {
		t.Error("iw on an empty line should fail")
	}
}

func TestDeleteInnerBlockMultiline(t *testing.T) {
	doc := docAt("if x {\n    foo\n}", 9)
	res, err := BlockObject(doc, 9, 1, '{', '}', false)
	if err != nil {
		t.Fatal(err)
	}
	apply(t, doc, newStubHost(), Delete, res, false)
	if got := doc.Text(); got != "if x {\n}" {
		t.Errorf("text = %q", got)
	}
}

func TestParagraphObject(t *testing.T) {
	doc := engine.NewDocument("a\nb\n\nc")
	res, _ := ParagraphObject(doc, 0, 1, false)
	if got := ComputeRange(doc, 0, res, false); got != (engine.TextRange{Start: 0, End: 4, Kind: engine.Linewise}) {
		t.Errorf("ip = %v", got)
	}
	res, _ = ParagraphObject(doc, 0, 1, true)
	if got := ComputeRange(doc, 0, res, false); got != (engine.TextRange{Start: 0, End: 5, Kind: engine.Linewise}) {
		t.Errorf("ap = %v", got)
	}
}
