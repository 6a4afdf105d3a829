package mode

import "strings"

// MappingModes is a set of mapping modes.
type MappingModes uint8

const (
	MapNormal MappingModes = 1 << iota
	MapVisual
	MapSelect
	MapOperatorPending
	MapInsert
	MapCommandLine
)

const (
	// MapNVO is the set targeted by :map.
	MapNVO = MapNormal | MapVisual | MapSelect | MapOperatorPending

	// MapVisualSelect is the set targeted by :vmap.
	MapVisualSelect = MapVisual | MapSelect

	// MapInsertCommand is the set targeted by :map!.
	MapInsertCommand = MapInsert | MapCommandLine

	// MapAll contains every mapping mode.
	MapAll = MapNVO | MapInsertCommand
)

// Each lists the single modes in the set, in a fixed order.
func (m MappingModes) Each() []MappingModes {
	var out []MappingModes
	for bit := MapNormal; bit <= MapCommandLine; bit <<= 1 {
		if m&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// Has reports whether every mode in other is in m.
func (m MappingModes) Has(other MappingModes) bool {
	return m&other == other && other != 0
}

// Overlaps reports whether m and other share a mode.
func (m MappingModes) Overlaps(other MappingModes) bool {
	return m&other != 0
}

// Letters returns the mode letters used in :map listings, e.g. "n" or "v".
func (m MappingModes) Letters() string {
	switch m {
	case MapNVO:
		return " "
	case MapInsertCommand:
		return "!"
	case MapVisualSelect:
		return "v"
	}
	var b strings.Builder
	for _, bit := range m.Each() {
		b.WriteByte(letterOf[bit])
	}
	return b.String()
}

var letterOf = map[MappingModes]byte{
	MapNormal:          'n',
	MapVisual:          'x',
	MapSelect:          's',
	MapOperatorPending: 'o',
	MapInsert:          'i',
	MapCommandLine:     'c',
}

// ParseLetters parses mode letters as used by maparg() and the map
// command prefixes. An empty string means MapNVO.
func ParseLetters(s string) MappingModes {
	if s == "" || s == " " {
		return MapNVO
	}
	var m MappingModes
	for _, c := range s {
		switch c {
		case 'n':
			m |= MapNormal
		case 'v':
			m |= MapVisualSelect
		case 'x':
			m |= MapVisual
		case 's':
			m |= MapSelect
		case 'o':
			m |= MapOperatorPending
		case 'i':
			m |= MapInsert
		case 'c':
			m |= MapCommandLine
		case '!':
			m |= MapInsertCommand
		}
	}
	return m
}

// ForState returns the mapping mode consulted in the given state.
func ForState(s State) MappingModes {
	switch s.Mode {
	case Insert, Replace:
		return MapInsert
	case Visual:
		return MapVisual
	case Select:
		return MapSelect
	case CommandLine:
		return MapCommandLine
	case OperatorPending:
		return MapOperatorPending
	}
	return MapNormal
}
