package macro

import "unicode"

// IsValidRegister reports whether r can hold a recording.
func IsValidRegister(r rune) bool {
	return IsLetterRegister(unicode.ToLower(r)) || IsDigitRegister(r) || r == '"'
}

// IsLetterRegister reports whether r is a-z.
func IsLetterRegister(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// IsDigitRegister reports whether r is 0-9.
func IsDigitRegister(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsAppendRegister reports whether r is A-Z, which appends to a-z.
func IsAppendRegister(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
