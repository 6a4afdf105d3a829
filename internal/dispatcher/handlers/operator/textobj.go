package operator

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/operator"
)

const objectModes = mode.MapVisual | mode.MapOperatorPending

type objectFunc = func(ctx *command.Context, c engine.Caret) (command.MotionResult, error)

func object(name string, fn objectFunc, keys ...string) *command.Command {
	return command.New("textobject."+name, objectModes, command.Motion{Fn: fn, TextObject: true}, keys...)
}

func textObjects() []*command.Command {
	cmds := []*command.Command{
		object("innerWord", word(false, false), "iw"),
		object("aWord", word(false, true), "aw"),
		object("innerBigWord", word(true, false), "iW"),
		object("aBigWord", word(true, true), "aW"),
		object("innerSentence", sentence(false), "is"),
		object("aSentence", sentence(true), "as"),
		object("innerParagraph", paragraph(false), "ip"),
		object("aParagraph", paragraph(true), "ap"),
		object("innerArgument", argument(false), "ia"),
		object("anArgument", argument(true), "aa"),
	}
	blocks := []struct {
		name        string
		open, close rune
		keys        []string
	}{
		{"Paren", '(', ')', []string{"(", ")", "b"}},
		{"Brace", '{', '}', []string{"{", "}", "B"}},
		{"Bracket", '[', ']', []string{"[", "]"}},
		{"Angle", '<', '>', []string{"<lt>", ">"}},
	}
	for _, b := range blocks {
		var inner, around []string
		for _, k := range b.keys {
			inner = append(inner, "i"+k)
			around = append(around, "a"+k)
		}
		cmds = append(cmds,
			object("inner"+b.name, block(b.open, b.close, false), inner...),
			object("a"+b.name, block(b.open, b.close, true), around...))
	}
	quotes := []struct {
		name  string
		quote rune
	}{
		{"DoubleQuote", '"'},
		{"SingleQuote", '\''},
		{"Backtick", '`'},
	}
	for _, q := range quotes {
		s := string(q.quote)
		cmds = append(cmds,
			object("inner"+q.name, quote(q.quote, false), "i"+s),
			object("a"+q.name, quote(q.quote, true), "a"+s))
	}
	return cmds
}

func word(big, around bool) objectFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.WordObject(ctx.Editor, c.Offset(), ctx.Count, big, around)
	}
}

func sentence(around bool) objectFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.SentenceObject(ctx.Editor, c.Offset(), ctx.Count, around)
	}
}

func paragraph(around bool) objectFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.ParagraphObject(ctx.Editor, c.Offset(), ctx.Count, around)
	}
}

func block(open, close rune, around bool) objectFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.BlockObject(ctx.Editor, c.Offset(), ctx.Count, open, close, around)
	}
}

func quote(q rune, around bool) objectFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.QuoteObject(ctx.Editor, c.Offset(), q, around)
	}
}

func argument(around bool) objectFunc {
	return func(ctx *command.Context, c engine.Caret) (command.MotionResult, error) {
		return operator.ArgumentObject(ctx.Editor, c.Offset(), around, ctx.Host.Options().ArgTextObjectLineLimit)
	}
}
