package analyzer

import (
	"unicode"
)

// EstimateTokens returns an approximate LLM token count for a prompt or response.
// Identifier and number runs count as ~1.3 tokens each, every other visible rune
// (operators, braces, quotes) as one.
func EstimateTokens(text string) int {
	words, symbols := 0, 0
	inWord := false

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if !inWord {
				words++
				inWord = true
			}
			continue
		case !unicode.IsSpace(r):
			symbols++
		}
		inWord = false
	}

	return int(float64(words)*1.3) + symbols
}
