package dispatcher

import (
	"github.com/dshills/vimcore/internal/input/key"
)

// repeatRecord is the last change, replayed by ".".
type repeatRecord struct {
	// keys typed for the change without count or register, followed by
	// what was typed in Insert mode when the change started a session.
	keys     key.Sequence
	count    int
	register rune
}

// recordRepeat saves the pending command as the last change. A change
// that starts an insert session is saved when the session ends, with the
// keys typed in it.
func (d *Dispatcher) recordRepeat() {
	rec := &repeatRecord{
		keys:     d.cur.seq.Clone(),
		count:    d.cur.builder.RawCount(),
		register: d.cur.builder.Register(),
	}
	if s := d.insert; s != nil && insertLike(d.modes.Top()) && s.rec == nil && len(s.keys) == 0 {
		s.rec = rec
		return
	}
	d.repeat = rec
}
