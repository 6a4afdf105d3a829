package mode

import (
	"strconv"
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/command"
)

// commandLine runs the line read by :. A Visual selection becomes the
// '<,'> range and a count the range of that many lines from the cursor.
func commandLine(ctx *command.Context) error {
	text := ctx.Arg.Text
	switch {
	case ctx.Mode.IsVisual():
		ctx.Host.SetMode(normal)
		text = "'<,'>" + text
	case ctx.RawCount == 1:
		text = "." + text
	case ctx.RawCount > 1:
		text = ".,.+" + strconv.Itoa(ctx.RawCount-1) + text
	}
	if strings.TrimSpace(ctx.Arg.Text) == "" {
		return nil
	}
	ctx.Host.Registers().SetLastCommand(text)
	return ctx.Host.ExecuteEx(text)
}
