package operator

import (
	"errors"
	"testing"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
)

func TestWordMotions(t *testing.T) {
	const text = "foo bar.baz  qux\n\nend"
	doc := engine.NewDocument(text)

	tests := []struct {
		name string
		fn   func(off int) (command.MotionResult, error)
		from int
		want int
		incl bool
	}{
		{"w", func(o int) (command.MotionResult, error) { return WordForward(doc, o, 1, false, false) }, 0, 4, false},
		{"w punct", func(o int) (command.MotionResult, error) { return WordForward(doc, o, 1, false, false) }, 4, 7, false},
		{"w to empty line", func(o int) (command.MotionResult, error) { return WordForward(doc, o, 1, false, false) }, 13, 17, false},
		{"w from empty line", func(o int) (command.MotionResult, error) { return WordForward(doc, o, 1, false, false) }, 17, 18, false},
		{"2w", func(o int) (command.MotionResult, error) { return WordForward(doc, o, 2, false, false) }, 0, 7, false},
		{"W", func(o int) (command.MotionResult, error) { return WordForward(doc, o, 1, true, false) }, 4, 13, false},
		{"e", func(o int) (command.MotionResult, error) { return WordEnd(doc, o, 1, false) }, 0, 2, true},
		{"e from end", func(o int) (command.MotionResult, error) { return WordEnd(doc, o, 1, false) }, 2, 6, true},
		{"e punct", func(o int) (command.MotionResult, error) { return WordEnd(doc, o, 1, false) }, 6, 7, true},
		{"E", func(o int) (command.MotionResult, error) { return WordEnd(doc, o, 1, true) }, 4, 10, true},
		{"b", func(o int) (command.MotionResult, error) { return WordBackward(doc, o, 1, false) }, 13, 8, false},
		{"b punct", func(o int) (command.MotionResult, error) { return WordBackward(doc, o, 1, false) }, 8, 7, false},
		{"b to empty line", func(o int) (command.MotionResult, error) { return WordBackward(doc, o, 1, false) }, 18, 17, false},
		{"b from empty line", func(o int) (command.MotionResult, error) { return WordBackward(doc, o, 1, false) }, 17, 13, false},
		{"ge", func(o int) (command.MotionResult, error) { return WordEndBackward(doc, o, 1, false) }, 8, 7, true},
		{"ge over blanks", func(o int) (command.MotionResult, error) { return WordEndBackward(doc, o, 1, false) }, 13, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.fn(tt.from)
			if err != nil {
				t.Fatalf("motion from %d: %v", tt.from, err)
			}
			if res.Offset != tt.want || res.Inclusive != tt.incl {
				t.Errorf("motion from %d = %d (inclusive %v), want %d (inclusive %v)",
					tt.from, res.Offset, res.Inclusive, tt.want, tt.incl)
			}
		})
	}
}

func TestWordForwardForOperator(t *testing.T) {
	doc := engine.NewDocument("foo\n  bar")
	res, err := WordForward(doc, 0, 1, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Offset != 3 {
		t.Errorf("dw target = %d, want 3 (end of first line)", res.Offset)
	}

	doc = engine.NewDocument("foo   \nbar")
	res, _ = WordForward(doc, 3, 1, false, true)
	if res.Offset != 6 {
		t.Errorf("dw on trailing blanks = %d, want 6", res.Offset)
	}
}

func TestFind(t *testing.T) {
	doc := engine.NewDocument("a,b,c,d")
	tests := []struct {
		name                string
		from, count         int
		forward, till, skip bool
		want                int
		incl                bool
	}{
		{"f", 0, 1, true, false, false, 1, true},
		{"2f", 0, 2, true, false, false, 3, true},
		{"t adjacent", 0, 1, true, true, false, 0, true},
		{"; after t", 0, 1, true, true, true, 2, true},
		{"F", 6, 1, false, false, false, 5, false},
		{"3F", 6, 3, false, false, false, 1, false},
		{"T", 6, 1, false, true, false, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Find(doc, tt.from, tt.count, ',', tt.forward, tt.till, tt.skip)
			if err != nil {
				t.Fatal(err)
			}
			if res.Offset != tt.want || res.Inclusive != tt.incl {
				t.Errorf("Find = %d (inclusive %v), want %d (inclusive %v)", res.Offset, res.Inclusive, tt.want, tt.incl)
			}
		})
	}

	_, err := Find(doc, 0, 1, 'x', true, false, false)
	var mf *MotionFailedError
	if !errors.As(err, &mf) || !errors.Is(err, ErrNoMatch) {
		t.Errorf("Find missing char: err = %v, want MotionFailedError wrapping ErrNoMatch", err)
	}
	if _, err := Find(doc, 0, 5, ',', true, false, false); err == nil {
		t.Error("Find past the last occurrence should fail")
	}
}

func TestLineMotions(t *testing.T) {
	doc := engine.NewDocument("  abc\ndefg\n\nxyz")

	res, _ := LineEnd(doc, 2, 1)
	if res.Offset != 4 || !res.Inclusive {
		t.Errorf("$ = %+v, want offset 4 inclusive", res)
	}
	res, _ = LineEnd(doc, 2, 2)
	if res.Offset != 9 {
		t.Errorf("2$ = %d, want 9", res.Offset)
	}
	res, _ = LineEnd(doc, 11, 1)
	if res.Offset != 11 || res.Inclusive {
		t.Errorf("$ on empty line = %+v, want offset 11 exclusive", res)
	}
	res, _ = FirstNonBlankMotion(doc, 4)
	if res.Offset != 2 {
		t.Errorf("^ = %d, want 2", res.Offset)
	}
	res, _ = LineStart(doc, 4)
	if res.Offset != 0 {
		t.Errorf("0 = %d, want 0", res.Offset)
	}
	res, _ = Down(doc, 3, 1, 3)
	if res.Offset != 9 || !res.Linewise {
		t.Errorf("j = %+v, want offset 9 linewise", res)
	}
	res, _ = Down(doc, 3, 2, 3)
	if res.Offset != 11 {
		t.Errorf("2j onto empty line = %d, want 11", res.Offset)
	}
	if _, err := Down(doc, 3, 4, 0); err == nil {
		t.Error("j past the last line should fail")
	}
	if _, err := Up(doc, 3, 1, 0); err == nil {
		t.Error("k above the first line should fail")
	}
	res, _ = GotoLine(doc, 99)
	if res.Offset != 12 || !res.Jump {
		t.Errorf("G = %+v, want offset 12 with jump", res)
	}
	res, _ = GotoLine(doc, 1)
	if res.Offset != 2 {
		t.Errorf("gg = %d, want 2", res.Offset)
	}
	if _, err := Left(doc, 6, 1); err == nil {
		t.Error("h at column 0 should fail")
	}
	res, _ = Right(doc, 6, 10)
	if res.Offset != 10 {
		t.Errorf("10l = %d, want 10 (line end)", res.Offset)
	}
	res, _ = LastNonBlank(doc, 0, 1)
	if res.Offset != 4 {
		t.Errorf("g_ = %d, want 4", res.Offset)
	}
}

func TestMatchPair(t *testing.T) {
	doc := engine.NewDocument("if (a[1]) {\n}")
	tests := []struct {
		from, want int
	}{
		{0, 8},
		{8, 3},
		{5, 7},
		{10, 12},
	}
	for _, tt := range tests {
		res, err := MatchPair(doc, tt.from)
		if err != nil {
			t.Fatalf("%% from %d: %v", tt.from, err)
		}
		if res.Offset != tt.want || !res.Inclusive {
			t.Errorf("%% from %d = %d, want %d inclusive", tt.from, res.Offset, tt.want)
		}
	}
	if _, err := MatchPair(engine.NewDocument("abc"), 0); err == nil {
		t.Error("MatchPair without brackets should fail")
	}
}

func TestParagraphMotions(t *testing.T) {
	doc := engine.NewDocument("a\nb\n\nc\nd\n\ne")
	res, _ := ParagraphForward(doc, 0, 1)
	if res.Offset != 4 {
		t.Errorf("} = %d, want 4", res.Offset)
	}
	res, _ = ParagraphForward(doc, 0, 2)
	if res.Offset != 9 {
		t.Errorf("2} = %d, want 9", res.Offset)
	}
	res, _ = ParagraphBackward(doc, 10, 1)
	if res.Offset != 9 {
		t.Errorf("{ = %d, want 9", res.Offset)
	}
	res, _ = ParagraphBackward(doc, 7, 1)
	if res.Offset != 4 {
		t.Errorf("{ from d = %d, want 4", res.Offset)
	}
}

func TestSearch(t *testing.T) {
	doc := engine.NewDocument("foo bar foo baz")
	wrap := SearchOptions{WrapScan: true}

	tests := []struct {
		name    string
		from    int
		count   int
		forward bool
		want    int
	}{
		{"forward", 0, 1, true, 8},
		{"wraps", 8, 1, true, 0},
		{"count", 0, 2, true, 0},
		{"backward", 8, 1, false, 0},
		{"backward wraps", 0, 1, false, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(doc, tt.from, tt.count, "foo", tt.forward, wrap)
			if err != nil {
				t.Fatal(err)
			}
			if res.Offset != tt.want || !res.Jump {
				t.Errorf("Search = %+v, want offset %d with jump", res, tt.want)
			}
		})
	}

	_, err := Search(doc, 0, 1, "nope", true, wrap)
	if err == nil || err.Error() != "E486: Pattern not found: nope" {
		t.Errorf("Search no match: err = %v", err)
	}
	var mf *MotionFailedError
	if !errors.As(err, &mf) || mf.Code() != 486 {
		t.Errorf("Search no match: want MotionFailedError code 486, got %v", err)
	}

	_, err = Search(doc, 8, 1, "foo", true, SearchOptions{})
	if err == nil || err.Error() != "E385: Search hit BOTTOM without match for: foo" {
		t.Errorf("Search nowrapscan: err = %v", err)
	}

	res, err := Search(doc, 0, 1, `b\(a\)z`, true, wrap)
	if err != nil || res.Offset != 12 {
		t.Errorf("Search Vim pattern = %d, %v, want 12", res.Offset, err)
	}
}

func TestMarkMotion(t *testing.T) {
	doc := engine.NewDocument("abc\n  def")
	if _, err := MarkMotion(doc, 'a', false); err == nil || err.Error() != "E20: Mark not set" {
		t.Errorf("unset mark: err = %v", err)
	}
	doc.SetMark('a', engine.Point{Line: 1, Column: 3})
	res, _ := MarkMotion(doc, 'a', false)
	if res.Offset != 7 || res.Linewise {
		t.Errorf("`a = %+v, want offset 7 charwise", res)
	}
	res, _ = MarkMotion(doc, 'a', true)
	if res.Offset != 6 || !res.Linewise {
		t.Errorf("'a = %+v, want offset 6 linewise", res)
	}
}
