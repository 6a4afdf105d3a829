package editor

// digraphs is a subset of the RFC 1345 table that Vim's <C-K> uses.
var digraphs = map[[2]rune]rune{
	{'a', ':'}: 'ä', {'o', ':'}: 'ö', {'u', ':'}: 'ü', {'e', ':'}: 'ë', {'i', ':'}: 'ï', {'y', ':'}: 'ÿ',
	{'A', ':'}: 'Ä', {'O', ':'}: 'Ö', {'U', ':'}: 'Ü', {'E', ':'}: 'Ë', {'I', ':'}: 'Ï',
	{'a', '\''}: 'á', {'e', '\''}: 'é', {'i', '\''}: 'í', {'o', '\''}: 'ó', {'u', '\''}: 'ú', {'y', '\''}: 'ý',
	{'A', '\''}: 'Á', {'E', '\''}: 'É', {'I', '\''}: 'Í', {'O', '\''}: 'Ó', {'U', '\''}: 'Ú',
	{'a', '!'}: 'à', {'e', '!'}: 'è', {'i', '!'}: 'ì', {'o', '!'}: 'ò', {'u', '!'}: 'ù',
	{'A', '!'}: 'À', {'E', '!'}: 'È', {'I', '!'}: 'Ì', {'O', '!'}: 'Ò', {'U', '!'}: 'Ù',
	{'a', '>'}: 'â', {'e', '>'}: 'ê', {'i', '>'}: 'î', {'o', '>'}: 'ô', {'u', '>'}: 'û',
	{'A', '>'}: 'Â', {'E', '>'}: 'Ê', {'I', '>'}: 'Î', {'O', '>'}: 'Ô', {'U', '>'}: 'Û',
	{'a', '?'}: 'ã', {'o', '?'}: 'õ', {'n', '?'}: 'ñ', {'A', '?'}: 'Ã', {'O', '?'}: 'Õ', {'N', '?'}: 'Ñ',
	{'c', ','}: 'ç', {'C', ','}: 'Ç', {'a', 'a'}: 'å', {'A', 'A'}: 'Å', {'a', 'e'}: 'æ', {'A', 'E'}: 'Æ',
	{'o', '/'}: 'ø', {'O', '/'}: 'Ø', {'s', 's'}: 'ß',

	{'a', '*'}: 'α', {'b', '*'}: 'β', {'g', '*'}: 'γ', {'d', '*'}: 'δ', {'e', '*'}: 'ε', {'z', '*'}: 'ζ',
	{'y', '*'}: 'η', {'h', '*'}: 'θ', {'i', '*'}: 'ι', {'k', '*'}: 'κ', {'l', '*'}: 'λ', {'m', '*'}: 'μ',
	{'n', '*'}: 'ν', {'c', '*'}: 'ξ', {'o', '*'}: 'ο', {'p', '*'}: 'π', {'r', '*'}: 'ρ', {'s', '*'}: 'σ',
	{'t', '*'}: 'τ', {'u', '*'}: 'υ', {'f', '*'}: 'φ', {'x', '*'}: 'χ', {'q', '*'}: 'ψ', {'w', '*'}: 'ω',
	{'D', '*'}: 'Δ', {'G', '*'}: 'Γ', {'L', '*'}: 'Λ', {'P', '*'}: 'Π', {'S', '*'}: 'Σ', {'W', '*'}: 'Ω',

	{'E', 'u'}: '€', {'P', 'd'}: '£', {'Y', 'e'}: '¥', {'C', 't'}: '¢',
	{'C', 'o'}: '©', {'R', 'g'}: '®', {'T', 'M'}: '™', {'S', 'E'}: '§', {'P', 'I'}: '¶',
	{'D', 'G'}: '°', {'+', '-'}: '±', {'*', 'X'}: '×', {'-', ':'}: '÷', {'M', 'y'}: 'µ',
	{'1', '2'}: '½', {'1', '4'}: '¼', {'3', '4'}: '¾', {'1', 'S'}: '¹', {'2', 'S'}: '²', {'3', 'S'}: '³',
	{'<', '<'}: '«', {'>', '>'}: '»', {'!', 'I'}: '¡', {'?', 'I'}: '¿', {'N', 'S'}: ' ',
	{'-', '>'}: '→', {'<', '-'}: '←', {'-', '!'}: '↑', {'-', 'v'}: '↓', {'=', '>'}: '⇒', {'<', '='}: '⇐',
	{'!', '='}: '≠', {'=', '<'}: '≤', {'>', '='}: '≥', {'?', '='}: '≅', {'0', '0'}: '∞',
	{'O', 'K'}: '✓', {'X', 'X'}: '✗', {'.', 'M'}: '·', {'.', '.'}: '‥', {',', '.'}: '…',
	{'-', 'N'}: '–', {'-', 'M'}: '—', {'"', '6'}: '“', {'"', '9'}: '”', {'\'', '6'}: '‘', {'\'', '9'}: '’',
}

// Digraph returns the character for a <C-K> pair. Like Vim it also tries
// the pair in reverse order.
func Digraph(a, b rune) (rune, bool) {
	if r, ok := digraphs[[2]rune{a, b}]; ok {
		return r, true
	}
	r, ok := digraphs[[2]rune{b, a}]
	return r, ok
}
