package parser

import "strings"

// keyword is an Ex command name with the shortest abbreviation Vim
// accepts for it.
type keyword struct {
	full string
	min  string
}

var keywords = []keyword{
	{"break", "brea"},
	{"call", "cal"},
	{"catch", "cat"},
	{"cmap", "cm"},
	{"cmapclear", "cmapc"},
	{"cnoremap", "cno"},
	{"const", "cons"},
	{"continue", "con"},
	{"cunmap", "cu"},
	{"delfunction", "delf"},
	{"display", "di"},
	{"echo", "ec"},
	{"echoerr", "echoe"},
	{"echohl", "echoh"},
	{"echomsg", "echom"},
	{"echon", "echon"},
	{"else", "el"},
	{"elseif", "elsei"},
	{"endfor", "endfo"},
	{"endfunction", "endf"},
	{"endif", "en"},
	{"endtry", "endt"},
	{"endwhile", "endw"},
	{"eval", "ev"},
	{"execute", "exe"},
	{"filetype", "filet"},
	{"finally", "fina"},
	{"for", "for"},
	{"function", "fu"},
	{"if", "if"},
	{"imap", "im"},
	{"imapclear", "imapc"},
	{"inoremap", "ino"},
	{"iunmap", "iu"},
	{"let", "let"},
	{"map", "map"},
	{"mapclear", "mapc"},
	{"nmap", "nm"},
	{"nmapclear", "nmapc"},
	{"nnoremap", "nn"},
	{"nohlsearch", "noh"},
	{"noremap", "no"},
	{"normal", "norm"},
	{"nunmap", "nun"},
	{"omap", "om"},
	{"omapclear", "omapc"},
	{"onoremap", "ono"},
	{"ounmap", "ou"},
	{"redo", "red"},
	{"redraw", "redr"},
	{"registers", "reg"},
	{"return", "retu"},
	{"set", "se"},
	{"silent", "sil"},
	{"smap", "smap"},
	{"smapclear", "smapc"},
	{"snoremap", "snor"},
	{"source", "so"},
	{"startinsert", "star"},
	{"stopinsert", "stopi"},
	{"sunmap", "sunm"},
	{"syntax", "sy"},
	{"throw", "th"},
	{"try", "try"},
	{"undo", "u"},
	{"unlet", "unl"},
	{"unmap", "unm"},
	{"vmap", "vm"},
	{"vmapclear", "vmapc"},
	{"vnoremap", "vn"},
	{"vunmap", "vu"},
	{"while", "wh"},
	{"xmap", "xm"},
	{"xmapclear", "xmapc"},
	{"xnoremap", "xn"},
	{"xunmap", "xu"},
}

// Expand returns the full command name for name, which may be any
// abbreviation at least as long as the command's shortest form. Names that
// match no command are returned unchanged with ok false.
func Expand(name string) (string, bool) {
	for _, kw := range keywords {
		if kw.full == name {
			return kw.full, true
		}
	}
	for _, kw := range keywords {
		if len(name) >= len(kw.min) && strings.HasPrefix(kw.full, name) && strings.HasPrefix(name, kw.min) {
			return kw.full, true
		}
	}
	return name, false
}

// rawArgument lists the commands whose argument is handed to the host as
// text. The rest of the line belongs to the argument when the value is
// true, so "|" does not separate commands.
var rawArgument = map[string]bool{
	"normal": true,

	"cmap": false, "cnoremap": false, "cunmap": false, "cmapclear": false,
	"imap": false, "inoremap": false, "iunmap": false, "imapclear": false,
	"map": false, "noremap": false, "unmap": false, "mapclear": false,
	"nmap": false, "nnoremap": false, "nunmap": false, "nmapclear": false,
	"omap": false, "onoremap": false, "ounmap": false, "omapclear": false,
	"smap": false, "snoremap": false, "sunmap": false, "smapclear": false,
	"vmap": false, "vnoremap": false, "vunmap": false, "vmapclear": false,
	"xmap": false, "xnoremap": false, "xunmap": false, "xmapclear": false,

	"display": false, "echohl": false, "filetype": false,
	"nohlsearch": false, "redo": false, "redraw": false, "registers": false,
	"set": false, "source": false, "startinsert": false, "stopinsert": false,
	"syntax": false, "undo": false,
}

// IsMapCommand reports whether name is one of the :map family.
func IsMapCommand(name string) bool {
	switch name {
	case "map", "noremap", "unmap", "mapclear":
		return true
	}
	if len(name) < 2 {
		return false
	}
	switch name[1:] {
	case "map", "noremap", "unmap", "mapclear":
		return strings.ContainsRune("nvxsoic", rune(name[0]))
	}
	return false
}
