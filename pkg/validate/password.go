package validate

import (
	"strings"
	"unicode"
)

// PasswordSymbols is the allowed special-character set for passwords.
const PasswordSymbols = "@$!%*?&.,/+-"

// PasswordComplexity checks character-class coverage: at least one
// uppercase letter, one lowercase letter, one digit, and one symbol from
// the allowed set, with no characters outside those classes. Returns a
// message on failure and "" on success, so it plugs into a Rule's Check.
func PasswordComplexity(password string, _ Fields) string {
	var upper, lowerCase, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			upper = true
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			lowerCase = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return "password contains characters that are not allowed"
		}
	}
	if !upper || !lowerCase || !digit || !symbol {
		return "password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	}
	return ""
}
