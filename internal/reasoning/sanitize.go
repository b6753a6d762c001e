package reasoning

import (
	"strings"
	"unicode"
)

// allowedPunctuation is the fixed punctuation allow-list for generated
// descriptions. Everything else that is not a letter, digit, or whitespace
// is stripped to defend against injected control characters and
// prompt-leakage artifacts in generative output.
var allowedPunctuation = map[rune]struct{}{
	',': {},
	'.': {},
	'<': {},
	'>': {},
	'?': {},
	'!': {},
	'@': {},
	'(': {},
	')': {},
}

// Sanitize filters a generated description down to Unicode letters, digits,
// whitespace, and the punctuation allow-list.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		if _, ok := allowedPunctuation[r]; ok {
			return r
		}
		return -1
	}, s)
}
