package wordbank

import (
	"strings"
	"unicode"
)

const bom = "\ufeff"

// ParseLine tokenizes a single word-list line of the form
// "<word> <partOfSpeech>.<meaning>". It reports false for lines that
// should be skipped: blank lines and lines with fewer than two
// whitespace-separated tokens.
//
// When the remainder after the word has no '.', the whole trimmed
// remainder is used as both the part of speech and the meaning.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, bom))
	if line == "" {
		return Entry{}, false
	}

	cut := strings.IndexFunc(line, unicode.IsSpace)
	if cut < 0 {
		return Entry{}, false
	}
	word := line[:cut]
	rest := strings.TrimSpace(line[cut:])
	if rest == "" {
		return Entry{}, false
	}

	pos, meaning, found := strings.Cut(rest, ".")
	if !found {
		return Entry{Word: word, PartOfSpeech: rest, Meaning: rest}, true
	}
	return Entry{
		Word:         word,
		PartOfSpeech: strings.TrimSpace(pos),
		Meaning:      strings.TrimSpace(meaning),
	}, true
}

// bucketKey returns the uppercased first rune of word.
func bucketKey(word string) string {
	for _, r := range word {
		return strings.ToUpper(string(r))
	}
	return ""
}
