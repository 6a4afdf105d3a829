// Package mode defines the editor modes and the mode stack.
//
// The active state is the top of a stack whose floor is always Normal.
// Operator-pending, command-line entry and insert-normal (<C-O>) push onto
// the stack; plain mode switches replace the top entry.
//
// Each state maps to one mapping mode, which selects the command trie and
// the mapping table consulted for input. MappingModes is a bit set so that
// ":map" style commands can target several modes at once.
package mode
