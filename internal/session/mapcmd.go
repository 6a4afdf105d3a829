package session

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/parser"
)

type mapKind uint8

const (
	mapDefine mapKind = iota
	mapUnmap
	mapClear
)

// mapArgs is a parsed map command argument.
type mapArgs struct {
	buffer bool
	nowait bool
	silent bool
	expr   bool
	unique bool
	script bool
	lhs    string
	rhs    string
}

// decodeMapName splits a map command name into the modes it targets, what
// it does, and whether its mappings are recursive.
func decodeMapName(name string, bang bool) (mode.MappingModes, mapKind, bool) {
	kind, recursive := mapDefine, false
	prefix := name
	for _, suffix := range []string{"mapclear", "noremap", "unmap", "map"} {
		if p, ok := strings.CutSuffix(name, suffix); ok {
			prefix = p
			switch suffix {
			case "mapclear":
				kind = mapClear
			case "unmap":
				kind = mapUnmap
			case "map":
				recursive = true
			}
			break
		}
	}
	if prefix == "" {
		if bang {
			return mode.MapInsertCommand, kind, recursive
		}
		return mode.MapNVO, kind, recursive
	}
	return mode.ParseLetters(prefix), kind, recursive
}

// parseMapArgs reads the special arguments, then the left-hand side up to
// the first blank. The rest is the right-hand side. <C-V> escapes a blank
// in the left-hand side.
func parseMapArgs(arg string) mapArgs {
	var a mapArgs
	rest := strings.TrimLeft(arg, " \t")
	flags := []struct {
		name string
		set  *bool
	}{
		{"<buffer>", &a.buffer},
		{"<nowait>", &a.nowait},
		{"<silent>", &a.silent},
		{"<special>", nil},
		{"<script>", &a.script},
		{"<expr>", &a.expr},
		{"<unique>", &a.unique},
	}
	for matched := true; matched; {
		matched = false
		for _, f := range flags {
			if after, ok := strings.CutPrefix(rest, f.name); ok {
				if f.set != nil {
					*f.set = true
				}
				rest = strings.TrimLeft(after, " \t")
				matched = true
			}
		}
	}

	var lhs strings.Builder
	i := 0
	for ; i < len(rest); i++ {
		c := rest[i]
		if c == 0x16 && i+1 < len(rest) {
			i++
			lhs.WriteByte(rest[i])
			continue
		}
		if c == ' ' || c == '\t' {
			break
		}
		lhs.WriteByte(c)
	}
	a.lhs = lhs.String()
	a.rhs = strings.TrimLeft(rest[i:], " \t")
	return a
}

func (s *Session) mapCommand(cmd *ast.ExCommand) error {
	modes, kind, recursive := decodeMapName(cmd.Name, cmd.Bang)
	if modes == 0 {
		return cmdErrorf(492, "Not an editor command: %s", commandText(cmd))
	}
	a := parseMapArgs(cmd.Arg)
	if a.buffer {
		s.log.Debug("<buffer> mapping made global", "lhs", a.lhs)
	}
	table := s.disp.Mappings()

	switch kind {
	case mapClear:
		n := table.Clear(modes)
		s.log.Debug("mapclear", "modes", modes.Letters(), "removed", n)
		return nil
	case mapUnmap:
		if a.lhs == "" {
			return cmdErrorf(474, "Invalid argument")
		}
		from, err := key.Parse(keymap.ExpandLeader(a.lhs, s.leader()))
		if err != nil {
			return err
		}
		if err := table.Remove(modes, from); err != nil {
			return cmdErrorf(31, "No such mapping")
		}
		return nil
	}

	if a.lhs == "" {
		s.listMappings(modes, nil)
		return nil
	}
	from, err := key.Parse(keymap.ExpandLeader(a.lhs, s.leader()))
	if err != nil {
		return err
	}
	if a.rhs == "" {
		s.listMappings(modes, from)
		return nil
	}

	var payload keymap.Payload
	if a.expr {
		e, err := parser.ParseExpr(a.rhs)
		if err != nil {
			return err
		}
		payload = keymap.ToExpression{Source: a.rhs, Expr: e}
	} else {
		to, err := key.Parse(keymap.ExpandLeader(a.rhs, s.leader()))
		if err != nil {
			return err
		}
		payload = keymap.ToKeys{Keys: to}
	}

	m := keymap.New(from, payload, s.mappingOwner()).
		WithRecursive(recursive && !a.script).
		WithSilent(a.silent).
		WithNoWait(a.nowait)
	m.Script = s.script
	if a.unique {
		err = table.PutUnique(modes, m)
	} else {
		err = table.Put(modes, m)
	}
	if err != nil {
		return err
	}
	s.log.Debug("mapped", "modes", modes.Letters(), "lhs", key.ToNotation(from), "rhs", m.RHS(), "owner", m.Owner)
	return nil
}

// listMappings shows the mappings of modes, only those starting with
// prefix when it is set, in the layout of Vim's :map.
func (s *Session) listMappings(modes mode.MappingModes, prefix key.Sequence) {
	table := s.disp.Mappings()
	var order []*keymap.Mapping
	in := make(map[*keymap.Mapping]mode.MappingModes)
	for _, md := range modes.Each() {
		for _, m := range table.Entries(md) {
			if prefix != nil && !hasPrefix(m.From, prefix) {
				continue
			}
			if _, seen := in[m]; !seen {
				order = append(order, m)
			}
			in[m] |= md
		}
	}
	if len(order) == 0 {
		s.message("No mapping found")
		return
	}
	for _, m := range order {
		flag := " "
		if !m.Recursive {
			flag = "*"
		}
		s.message(fmt.Sprintf("%-3s%-11s %s %s", in[m].Letters(), key.ToNotation(m.From), flag, m.RHS()))
	}
}

func hasPrefix(seq, prefix key.Sequence) bool {
	if len(prefix) > len(seq) {
		return false
	}
	for i := range prefix {
		if key.Compare(seq[i], prefix[i]) != 0 {
			return false
		}
	}
	return true
}
