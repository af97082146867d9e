package entity

import "strings"

const regionalIndicatorBase = 0x1F1E6

// CodeFromFlag decodes a flag emoji (a pair of regional indicator symbols)
// into its lowercase two-letter region code. Returns false for anything that
// is not exactly one flag glyph.
func CodeFromFlag(token string) (string, bool) {
	runes := []rune(token)
	if len(runes) != 2 {
		return "", false
	}

	var b strings.Builder
	for _, r := range runes {
		if r < regionalIndicatorBase || r > regionalIndicatorBase+('z'-'a') {
			return "", false
		}
		b.WriteRune('a' + (r - regionalIndicatorBase))
	}

	return b.String(), true
}

// FlagForCode builds the flag emoji for a two-letter region code.
func FlagForCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}

	var b strings.Builder
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return ""
		}
		b.WriteRune(regionalIndicatorBase + (r - 'a'))
	}

	return b.String()
}
