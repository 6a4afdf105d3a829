package key

import (
	"slices"
	"testing"
)

func TestSequenceHasPrefix(t *testing.T) {
	seq := MustParse("<C-w>jk")
	tests := []struct {
		prefix string
		want   bool
	}{
		{"", true},
		{"<C-w>", true},
		{"<C-w>j", true},
		{"<C-w>jk", true},
		{"<C-w>jkl", false},
		{"j", false},
	}

	for _, tt := range tests {
		if got := seq.HasPrefix(MustParse(tt.prefix)); got != tt.want {
			t.Errorf("HasPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestSequenceText(t *testing.T) {
	if got, ok := MustParse("hello").Text(); !ok || got != "hello" {
		t.Errorf("Text() = %q, %v; want hello, true", got, ok)
	}
	if _, ok := MustParse("a<Esc>").Text(); ok {
		t.Error("Text() of sequence with <Esc> should fail")
	}
}

func TestCompareOrdering(t *testing.T) {
	esc := Event{Key: KeyEscape}
	f1 := Event{Key: KeyF1}
	shiftF1 := NewSpecialEvent(KeyF1, ModShift)
	a := NewRuneEvent('a', ModNone)
	ctrlA := Ctrl('a')
	b := NewRuneEvent('b', ModNone)

	got := []Event{b, ctrlA, a, shiftF1, f1, esc}
	slices.SortFunc(got, Compare)
	want := []Event{esc, f1, shiftF1, a, b, ctrlA}
	if !slices.Equal(got, want) {
		t.Errorf("sorted = %v, want %v", Sequence(got), Sequence(want))
	}

	if Compare(a, a) != 0 {
		t.Error("Compare(a, a) should be 0")
	}
}

func TestCompareSequences(t *testing.T) {
	if CompareSequences(MustParse("g"), MustParse("gg")) >= 0 {
		t.Error("g should sort before gg")
	}
	if CompareSequences(MustParse("<Esc>"), MustParse("a")) >= 0 {
		t.Error("<Esc> should sort before a")
	}
}

func TestEventsUsableAsMapKeys(t *testing.T) {
	m := map[Event]int{}
	m[MustParse("<C-W>")[0]] = 1
	if m[Ctrl('w')] != 1 {
		t.Error("normalized events should hash identically")
	}
}
