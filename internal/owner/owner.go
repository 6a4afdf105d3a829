// Package owner provides the opaque identities that tag commands and
// mappings with their origin, so each origin can be removed on its own.
package owner

import "github.com/google/uuid"

// ID identifies who registered a command or mapping.
type ID string

const (
	// Builtin owns the default command set.
	Builtin ID = "builtin"

	// User owns mappings typed at the command line.
	User ID = "user"

	// Config owns default mappings declared in the options file.
	Config ID = "config"
)

// New returns a fresh identity for an extension. The name is kept as a
// readable prefix; the random suffix keeps two loads of the same
// extension apart.
func New(name string) ID {
	return ID(name + "#" + uuid.NewString())
}

// Script returns the identity for mappings defined by a sourced script.
func Script(path string) ID {
	return ID("script:" + path)
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}
