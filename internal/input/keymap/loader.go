package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/owner"
)

// Spec is a mapping as written in a configuration file.
type Spec struct {
	// Modes holds mode letters as used by :map commands ("n", "nvo", "i").
	// Empty means Normal, Visual, Select and Operator-pending.
	Modes     string `toml:"modes" yaml:"modes"`
	From      string `toml:"from" yaml:"from"`
	To        string `toml:"to" yaml:"to"`
	Recursive bool   `toml:"recursive" yaml:"recursive"`
	Silent    bool   `toml:"silent" yaml:"silent"`
	NoWait    bool   `toml:"nowait" yaml:"nowait"`
}

// Install adds specs to t with PutIfMissing, so mappings already defined
// by the user are never replaced. It returns the number of specs installed
// in at least one mode.
func Install(t *Table, specs []Spec, id owner.ID, leader string) (int, error) {
	installed := 0
	for i, s := range specs {
		modes := mode.MapNVO
		if s.Modes != "" {
			modes = mode.ParseLetters(s.Modes)
			if modes == 0 {
				return installed, fmt.Errorf("mapping %d: invalid modes %q", i, s.Modes)
			}
		}
		from, err := key.Parse(ExpandLeader(s.From, leader))
		if err != nil {
			return installed, fmt.Errorf("mapping %d (%s): %w", i, s.From, err)
		}
		to, err := key.Parse(ExpandLeader(s.To, leader))
		if err != nil {
			return installed, fmt.Errorf("mapping %d (%s): %w", i, s.To, err)
		}
		m := New(from, ToKeys{Keys: to}, id).
			WithRecursive(s.Recursive).
			WithSilent(s.Silent).
			WithNoWait(s.NoWait)
		got, err := t.PutIfMissing(modes, m)
		if err != nil {
			return installed, fmt.Errorf("mapping %d (%s): %w", i, s.From, err)
		}
		if got != 0 {
			installed++
		}
	}
	return installed, nil
}

// ExpandLeader replaces <Leader> (any case) with leader. An empty leader
// means the default backslash.
func ExpandLeader(text, leader string) string {
	if leader == "" {
		leader = `\`
	}
	const tok = "<leader>"
	lower := strings.ToLower(text)
	if !strings.Contains(lower, tok) {
		return text
	}
	var b strings.Builder
	for {
		i := strings.Index(lower, tok)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(leader)
		text = text[i+len(tok):]
		lower = lower[i+len(tok):]
	}
}
