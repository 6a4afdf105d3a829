package engine

import (
	"errors"
	"testing"

	"github.com/dshills/vimcore/internal/engine/history"
)

func TestDocumentEditsMoveCarets(t *testing.T) {
	doc := NewDocument("hello world")
	doc.PrimaryCaret().MoveTo(6)
	second := doc.AddCaret(10)

	if err := doc.Insert(0, ">> "); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := doc.PrimaryCaret().Offset(); got != 9 {
		t.Errorf("primary = %d, want 9", got)
	}
	if got := second.Offset(); got != 13 {
		t.Errorf("second = %d, want 13", got)
	}

	if err := doc.Delete(9, 14); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if doc.Text() != ">> hello " {
		t.Errorf("Text = %q", doc.Text())
	}
	if len(doc.Carets()) != 1 {
		t.Errorf("carets = %d, want merged to 1", len(doc.Carets()))
	}
}

func TestDocumentUndoGroup(t *testing.T) {
	doc := NewDocument("abc")
	err := doc.UndoGroup("edit", func() error {
		if err := doc.Insert(3, "d"); err != nil {
			return err
		}
		return doc.Insert(4, "e")
	})
	if err != nil {
		t.Fatalf("UndoGroup: %v", err)
	}
	if doc.Text() != "abcde" {
		t.Fatalf("Text = %q", doc.Text())
	}
	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if doc.Text() != "abc" {
		t.Errorf("after undo Text = %q, want abc", doc.Text())
	}
	if err := doc.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if doc.Text() != "abcde" {
		t.Errorf("after redo Text = %q", doc.Text())
	}
	if err := doc.Redo(); !errors.Is(err, history.ErrNothingToRedo) {
		t.Errorf("Redo = %v, want ErrNothingToRedo", err)
	}
}

func TestDocumentMarksAndJumps(t *testing.T) {
	doc := NewDocument("one\ntwo\nthree")
	doc.SetMark('a', Point{Line: 2, Column: 1})
	if p, ok := doc.Mark('a'); !ok || p.Line != 2 {
		t.Errorf("Mark('a') = %v, %v", p, ok)
	}
	if _, ok := doc.Mark('b'); ok {
		t.Error("unset mark reported as set")
	}

	doc.PushJump(Point{Line: 0})
	doc.PushJump(Point{Line: 0})
	doc.PushJump(Point{Line: 1})
	if got := len(doc.Jumps()); got != 2 {
		t.Errorf("jumps = %d, want 2", got)
	}
}

func TestRangeKindString(t *testing.T) {
	tests := []struct {
		kind RangeKind
		want string
	}{
		{Charwise, "char"},
		{Linewise, "line"},
		{Blockwise, "block"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
