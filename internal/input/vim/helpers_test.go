package vim

import "github.com/dshills/vimcore/internal/input/key"

func keyEvents(s string) []key.Event {
	var out []key.Event
	for _, r := range s {
		out = append(out, key.NewRuneEvent(r, key.ModNone))
	}
	return out
}
