// Package name canonicalizes raw player names scraped from pairing pages.
//
// Players enter their names on the pairing site themselves, so the same
// person shows up as "GREGORY BURBAN", "gregory burban", or
// "Gregory (dice goblin) Burban" across events. Every name is normalized
// before storage, comparison, or lookup; normalization is idempotent.
package name

import (
	"regexp"
	"strings"
	"unicode"
)

// Non-nested parenthetical substrings, including leading whitespace.
var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// Normalize canonicalizes a raw player name: parentheticals removed,
// whitespace collapsed, title case with "Mc" and "O'" prefix handling.
// Never fails; parenthetical-only or empty input yields "".
func Normalize(raw string) string {
	s := parenthetical.ReplaceAllString(raw, "")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord lowercases the word and capitalizes its first letter. Words
// starting with "Mc" or "O'" also keep the following letter capitalized, so
// "mcdonald" becomes "McDonald" and "o'brien" becomes "O'Brien".
func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	if len(runes) > 2 {
		switch {
		case runes[0] == 'M' && runes[1] == 'c':
			runes[2] = unicode.ToUpper(runes[2])
		case runes[0] == 'O' && runes[1] == '\'':
			runes[2] = unicode.ToUpper(runes[2])
		}
	}
	return string(runes)
}
