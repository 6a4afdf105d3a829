package eval

import (
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/vimscript/ast"
)

// MapInfo describes a mapping for maparg().
type MapInfo struct {
	LHS     string
	RHS     string
	Mode    string
	NoRemap bool
	Silent  bool
	NoWait  bool
	Expr    bool
	Script  string
}

// Host is the editor the interpreter runs in.
type Host interface {
	// Echo shows a message; EchoErr shows an error message.
	Echo(msg string)
	EchoErr(msg string)

	// ExCommand runs an editor command such as :normal, :set or a map
	// command.
	ExCommand(cmd *ast.ExCommand) error

	// Option returns an option as an int or a string.
	Option(name string) (any, error)
	SetOption(name string, v any) error

	// Register returns the text and type ("v", "V" or "b") of register name.
	Register(name rune) (string, string, error)
	SetRegister(name rune, text, kind string) error

	Buffer() engine.Editor
	Mode() string
	Feedkeys(keys, flags string) error
	MapArg(lhs, mode string) (MapInfo, bool)
}
