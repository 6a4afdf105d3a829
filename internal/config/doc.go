// Package config holds the session options and loads them from TOML or
// YAML files.
//
// Options are the runtime values :set reads and writes (timeoutlen,
// selection, ignorecase, ...). A configuration file provides their initial
// values and a list of default mappings:
//
//	timeoutlen = 500
//	selection = "exclusive"
//	mapleader = ","
//
//	[[mappings]]
//	modes = "i"
//	from = "jk"
//	to = "<Esc>"
//
// The file format is chosen by extension: .toml, or .yaml/.yml.
package config
