package macro

import (
	"fmt"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Player turns registers back into keys for @{reg}.
type Player struct {
	store      *vim.Store
	lastPlayed rune
}

// NewPlayer creates a player reading from store.
func NewPlayer(store *vim.Store) *Player {
	return &Player{store: store}
}

// Keys returns count copies of the keys held by register. '@' means the
// last register played.
func (p *Player) Keys(register rune, count int) (key.Sequence, error) {
	if register == '@' {
		if p.lastPlayed == 0 {
			return nil, vim.ErrInvalidRegister
		}
		register = p.lastPlayed
	}
	reg, ok := p.store.Get(register)
	if !ok || reg.IsEmpty() {
		return nil, fmt.Errorf("register %c is empty", register)
	}
	text := reg.Text
	seq, err := key.Decode(text)
	if err != nil {
		seq = literal(text)
	}
	p.lastPlayed = register

	out := make(key.Sequence, 0, len(seq)*max(1, count))
	for i := 0; i < max(1, count); i++ {
		out = append(out, seq...)
	}
	return out, nil
}

// LastPlayed returns the register of the last replay, or 0.
func (p *Player) LastPlayed() rune {
	return p.lastPlayed
}

// SetLastPlayed records register as the last replay, for @: and @@.
func (p *Player) SetLastPlayed(register rune) {
	p.lastPlayed = register
}

func literal(text string) key.Sequence {
	var seq key.Sequence
	for _, r := range text {
		switch r {
		case '\n', '\r':
			seq = append(seq, key.NewSpecialEvent(key.KeyEnter, key.ModNone))
		case '\t':
			seq = append(seq, key.NewSpecialEvent(key.KeyTab, key.ModNone))
		case 0x1b:
			seq = append(seq, key.NewSpecialEvent(key.KeyEscape, key.ModNone))
		default:
			seq = append(seq, key.NewRuneEvent(r, key.ModNone))
		}
	}
	return seq
}
