package cursor

import (
	"errors"
	"testing"

	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/handlertest"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/operator"
)

// move runs the motion named name for the primary caret of doc.
func move(t *testing.T, doc *engine.Document, name string, count int) (command.MotionResult, error) {
	t.Helper()
	cmd := handlertest.Find(t, Commands(), name)
	ctx := handlertest.NewHost().Context(doc, cmd, count)
	return cmd.Handler.(command.Motion).Fn(ctx, doc.PrimaryCaret())
}

func TestMotions(t *testing.T) {
	tests := []struct {
		name   string
		action string
		text   string
		off    int
		count  int
		want   int
	}{
		{"h", ActionMoveLeft, "abc", 2, 0, 1},
		{"2l", ActionMoveRight, "abc", 0, 2, 2},
		{"j", ActionMoveDown, "abc\ndef", 1, 0, 5},
		{"k", ActionMoveUp, "abc\ndef", 5, 0, 1},
		{"0", ActionMoveLineStart, "  ab", 3, 0, 0},
		{"^", ActionFirstNonBlank, "  ab", 0, 0, 2},
		{"$", ActionMoveLineEnd, "abc\ndef", 0, 0, 2},
		{"2$", ActionMoveLineEnd, "abc\ndef", 0, 2, 6},
		{"g_", ActionLastNonBlank, "ab  ", 0, 0, 1},
		{"3|", ActionGotoColumn, "abcdef", 0, 3, 2},
		{"+", ActionLineDown, "a\n  b", 0, 0, 4},
		{"-", ActionLineUp, "  a\nb", 4, 0, 2},
		{"gg", ActionMoveFirstLine, "  a\nb", 4, 0, 2},
		{"G", ActionMoveLastLine, "a\nb\nc", 0, 0, 4},
		{"2G", ActionMoveLastLine, "a\nb\nc", 0, 2, 2},
		{"%", ActionMatchingBracket, "(a)", 0, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := handlertest.Doc(tt.text, tt.off)
			res, err := move(t, doc, tt.action, tt.count)
			if err != nil {
				t.Fatal(err)
			}
			if res.Offset != tt.want {
				t.Errorf("offset = %d, want %d", res.Offset, tt.want)
			}
		})
	}
}

func TestMoveRightAtLineEnd(t *testing.T) {
	doc := handlertest.Doc("abc", 2)
	if _, err := move(t, doc, ActionMoveRight, 1); !errors.Is(err, command.ErrFailed) {
		t.Errorf("l on the last character: err = %v, want ErrFailed", err)
	}

	// dl on the last character reaches the line end.
	cmd := handlertest.Find(t, Commands(), ActionMoveRight)
	ctx := handlertest.NewHost().Context(doc, &command.Command{Name: "d", Handler: command.Operator{}}, 1)
	res, err := cmd.Handler.(command.Motion).Fn(ctx, doc.PrimaryCaret())
	if err != nil || res.Offset != 3 {
		t.Errorf("l for an operator = %d, %v; want 3, nil", res.Offset, err)
	}
}

func TestKeepColumn(t *testing.T) {
	keep := map[string]bool{
		ActionMoveDown:    true,
		ActionMoveUp:      true,
		ActionMoveLineEnd: true,
	}
	for _, cmd := range Commands() {
		m, ok := cmd.Handler.(command.Motion)
		if !ok {
			continue
		}
		if m.KeepColumn != keep[cmd.Name] {
			t.Errorf("%s: KeepColumn = %v, want %v", cmd.Name, m.KeepColumn, keep[cmd.Name])
		}
	}
}

func TestVerticalColumn(t *testing.T) {
	const text = "abcdef\nab\nabcdef"

	t.Run("kept across a short line", func(t *testing.T) {
		doc := handlertest.Doc(text, 4)
		c := doc.PrimaryCaret()
		res, err := move(t, doc, ActionMoveDown, 1)
		if err != nil || res.Offset != 8 {
			t.Fatalf("j = %d, %v; want 8", res.Offset, err)
		}
		if got := c.WantColumn(); got != 4 {
			t.Errorf("WantColumn = %d, want 4", got)
		}
		c.MoveTo(res.Offset)
		if res, _ := move(t, doc, ActionMoveDown, 1); res.Offset != 14 {
			t.Errorf("second j = %d, want 14", res.Offset)
		}
	})

	t.Run("dollar sticks to the end", func(t *testing.T) {
		doc := handlertest.Doc(text, 1)
		c := doc.PrimaryCaret()
		res, err := move(t, doc, ActionMoveLineEnd, 1)
		if err != nil || res.Offset != 5 {
			t.Fatalf("$ = %d, %v; want 5", res.Offset, err)
		}
		if got := c.WantColumn(); got != operator.MaxColumn {
			t.Errorf("WantColumn = %d, want MaxColumn", got)
		}
		c.MoveTo(res.Offset)
		for _, want := range []int{8, 15} {
			res, err := move(t, doc, ActionMoveDown, 1)
			if err != nil || res.Offset != want {
				t.Fatalf("j = %d, %v; want %d", res.Offset, err, want)
			}
			c.MoveTo(res.Offset)
		}
		if res, _ := move(t, doc, ActionMoveUp, 2); res.Offset != 5 {
			t.Errorf("2k = %d, want 5", res.Offset)
		}
	})

	t.Run("dollar for an operator", func(t *testing.T) {
		doc := handlertest.Doc(text, 1)
		cmd := handlertest.Find(t, Commands(), ActionMoveLineEnd)
		ctx := handlertest.NewHost().Context(doc, &command.Command{Name: "d", Handler: command.Operator{}}, 1)
		if _, err := cmd.Handler.(command.Motion).Fn(ctx, doc.PrimaryCaret()); err != nil {
			t.Fatal(err)
		}
		if got := doc.PrimaryCaret().WantColumn(); got != engine.NoWantColumn {
			t.Errorf("WantColumn = %d, want NoWantColumn", got)
		}
	})

	t.Run("column zero is a column", func(t *testing.T) {
		doc := handlertest.Doc(text, 4)
		doc.PrimaryCaret().SetWantColumn(0)
		if res, _ := move(t, doc, ActionMoveDown, 1); res.Offset != 7 {
			t.Errorf("j = %d, want 7", res.Offset)
		}
	})

	t.Run("moved caret starts from its column", func(t *testing.T) {
		doc := handlertest.Doc(text, 4)
		c := doc.PrimaryCaret()
		if _, err := move(t, doc, ActionMoveDown, 1); err != nil {
			t.Fatal(err)
		}
		engine.MoveCaret(c, 1)
		if res, _ := move(t, doc, ActionMoveDown, 1); res.Offset != 8 {
			t.Errorf("j = %d, want 8", res.Offset)
		}
		engine.MoveCaret(c, 0)
		if res, _ := move(t, doc, ActionMoveDown, 1); res.Offset != 7 {
			t.Errorf("j from column 0 = %d, want 7", res.Offset)
		}
	})
}
