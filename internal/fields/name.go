package fields

import (
	"strings"
	"unicode"

	"github.com/jonathan/talent-match/internal/nlp"
)

const (
	maxNameLength = 40
	nameScanLines = 8
)

var nameConnectors = map[string]bool{
	"da": true, "de": true, "do": true, "das": true, "dos": true, "e": true,
}

type nameStrategy struct {
	name string
	fn   func(lines []string, entities []nlp.Entity) (string, bool)
}

// nameStrategies are tried in order; the first hit wins.
var nameStrategies = []nameStrategy{
	{name: "header", fn: nameFromHeader},
	{name: "entity", fn: nameFromEntities},
	{name: "fallback", fn: nameFromAnyLine},
}

func nameFromHeader(lines []string, _ []nlp.Entity) (string, bool) {
	for i, line := range lines {
		if i >= nameScanLines {
			break
		}
		if blacklisted(line) {
			continue
		}
		if looksLikeName(line) {
			return line, true
		}
	}
	return "", false
}

func nameFromEntities(_ []string, entities []nlp.Entity) (string, bool) {
	people := nlp.Entities(entities, nlp.LabelPerson)
	for _, p := range people {
		if len(strings.Fields(p)) >= 2 && len([]rune(p)) < maxNameLength {
			return p, true
		}
	}
	for _, p := range people {
		if len(strings.Fields(p)) == 1 && len([]rune(p)) >= 3 && strings.ToUpper(p) == p {
			return p, true
		}
	}
	return "", false
}

func nameFromAnyLine(lines []string, _ []nlp.Entity) (string, bool) {
	for _, line := range lines {
		if len(strings.Fields(line)) < 2 || blacklisted(line) {
			continue
		}
		if strings.IndexFunc(line, unicode.IsDigit) >= 0 {
			continue
		}
		return line, true
	}
	return "", false
}

// blacklisted reports whether line carries a section header word, compared
// accent-insensitively on word boundaries.
func blacklisted(line string) bool {
	return nlp.ContainsAnyWord(nlp.Fold(line), nlp.SectionKeywords)
}

// looksLikeName accepts lines of two or more capitalised or all-caps tokens,
// allowing lowercase connectors such as "da" between them.
func looksLikeName(line string) bool {
	if len([]rune(line)) > maxNameLength {
		return false
	}
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return false
	}
	for i, tok := range tokens {
		if nameConnectors[tok] && i > 0 && i < len(tokens)-1 {
			continue
		}
		first := []rune(tok)[0]
		if !unicode.IsLetter(first) {
			return false
		}
		if !unicode.IsUpper(first) && strings.ToUpper(tok) != tok {
			return false
		}
		for _, r := range tok {
			if !unicode.IsLetter(r) && r != '\'' && r != '-' && r != '.' {
				return false
			}
		}
	}
	return true
}
