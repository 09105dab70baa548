// Package nlp provides the text normalization and rule-based named-entity
// recognition used by the résumé field extractor.
package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics, so "Formação" and "FORMACAO"
// compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsWord reports whether needle occurs in hay delimited by non
// alphanumeric runes (or the string edges). Both are compared as given, so
// callers fold them first.
func ContainsWord(hay, needle string) bool {
	if needle == "" {
		return false
	}
	for offset := 0; offset <= len(hay)-len(needle); {
		idx := strings.Index(hay[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)
		if boundaryBefore(hay, start) && boundaryAfter(hay, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	for _, r := range s[i:] {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return true
}

func lastRune(s string) rune {
	rs := []rune(s)
	return rs[len(rs)-1]
}

// ContainsAnyWord reports whether folded text contains any of the folded words.
func ContainsAnyWord(folded string, words []string) bool {
	for _, w := range words {
		if ContainsWord(folded, w) {
			return true
		}
	}
	return false
}
