package buffer

import (
	"errors"
	"testing"
)

func TestLineIndex(t *testing.T) {
	b := NewBufferFromString("abc\ndef\n\nghi")

	if got := b.LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}

	tests := []struct {
		line       int
		text       string
		start, end int
	}{
		{0, "abc", 0, 3},
		{1, "def", 4, 7},
		{2, "", 8, 8},
		{3, "ghi", 9, 12},
	}

	for _, tt := range tests {
		if got := b.LineText(tt.line); got != tt.text {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.text)
		}
		if got := b.LineStartOffset(tt.line); got != tt.start {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := b.LineEndOffset(tt.line); got != tt.end {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.end)
		}
	}
}

func TestOffsetPointConversion(t *testing.T) {
	b := NewBufferFromString("abc\ndef")

	tests := []struct {
		offset int
		point  Point
	}{
		{0, Point{0, 0}},
		{3, Point{0, 3}},
		{4, Point{1, 0}},
		{7, Point{1, 3}},
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.point)
		}
		if got := b.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.offset)
		}
	}

	if got := b.PointToOffset(Point{0, 99}); got != 3 {
		t.Errorf("PointToOffset past line end = %d, want 3", got)
	}
}

func TestEdits(t *testing.T) {
	b := NewBufferFromString("hello world")
	rev := b.Revision()

	if end, err := b.Insert(5, ","); err != nil || end != 6 {
		t.Fatalf("Insert() = %d, %v", end, err)
	}
	if err := b.Delete(0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Replace(0, 4, "J\r\nx"); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "J\nx, world" {
		t.Errorf("Text() = %q", got)
	}
	if b.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", b.LineCount())
	}
	if b.Revision() == rev {
		t.Error("Revision() did not change")
	}

	if err := b.Delete(5, 2); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("Delete(5, 2) error = %v, want ErrRangeInvalid", err)
	}
}

func TestRuneAt(t *testing.T) {
	b := NewBufferFromString("aé")
	if r, n := b.RuneAt(1); r != 'é' || n != 2 {
		t.Errorf("RuneAt(1) = %q, %d", r, n)
	}
	if r, n := b.RuneAt(3); r != 0 || n != 0 {
		t.Errorf("RuneAt(end) = %q, %d", r, n)
	}
}
