// Package keymap provides the owner-scoped key mapping table.
//
// A mapping replaces a typed key sequence (its "from" side) with one of
// three payloads:
//
//	ToKeys        - another key sequence, remapped or not
//	ToExpression  - a Vimscript expression evaluated to keys at expansion time
//	ToHandler     - a command handler registered by an extension
//
// Every mapping records the owner that created it, so an rc file or a
// plugin can remove exactly its own mappings:
//
//	table := keymap.NewTable()
//	m := keymap.New(key.MustParse("jk"), keymap.ToKeys{Keys: key.MustParse("<Esc>")}, owner.User)
//	table.Put(mode.MapInsert, m)
//
//	table.RemoveByOwner(owner.User)
//
// Lookup reports whether a pending key buffer is a complete mapping,
// a prefix of longer mappings, or both, using the trie package.
package keymap
