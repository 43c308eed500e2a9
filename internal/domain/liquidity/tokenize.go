package liquidity

import (
	"regexp"
	"strings"
	"unicode"
)

var reWord = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

// Tokenize returns the lowercase word tokens of text.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return reWord.FindAllString(strings.ToLower(text), -1)
}

func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
