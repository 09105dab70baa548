package fields

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/talent-match/internal/nlp"
	"github.com/jonathan/talent-match/internal/types"
)

// NamePlaceholder replaces a name that fails validation in the summary.
const NamePlaceholder = "Candidato"

const (
	maxSummarySkills = 8
	maxSkillLength   = 40
)

var skillTokenSplit = func(r rune) bool {
	return r == ';' || r == ',' || unicode.IsSpace(r)
}

// ValidName rejects list fragments, section headers and technology names that
// heuristics sometimes pick up as the candidate's name.
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "•;/|") {
		return false
	}
	if len(strings.Fields(name)) < 2 || len([]rune(name)) > maxNameLength {
		return false
	}
	folded := nlp.Fold(name)
	return !nlp.ContainsAnyWord(folded, nlp.TechKeywords) && !nlp.ContainsAnyWord(folded, nlp.SectionKeywords)
}

// BuildSummary renders the one-paragraph profile summary used for display
// and as the human-readable part of a match result.
func BuildSummary(f types.ExtractedFields) string {
	name := f.Name
	if !ValidName(name) {
		name = NamePlaceholder
	}

	parts := []string{strings.TrimSpace(name)}
	if f.Age != nil {
		parts = append(parts, fmt.Sprintf("%d anos", *f.Age))
	}
	if f.YearsExperience != nil {
		parts = append(parts, fmt.Sprintf("%d anos de experiência", *f.YearsExperience))
	}
	if f.CurrentPosition != "" {
		parts = append(parts, fmt.Sprintf("— atualmente em '%s'", f.CurrentPosition))
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, ", "))

	if skills := SummarySkills(f.Skills); len(skills) > 0 {
		b.WriteString(". Competências: ")
		b.WriteString(strings.Join(skills, ", "))
	}

	var contact []string
	if f.Phone != "" {
		contact = append(contact, f.Phone)
	}
	if f.Email != "" {
		contact = append(contact, f.Email)
	}
	if len(contact) > 0 {
		b.WriteString(". Contato: ")
		b.WriteString(strings.Join(contact, ", "))
	}
	b.WriteString(".")
	return b.String()
}

// SummarySkills reduces raw skill entries to at most eight short alphabetic
// tokens, in first-seen order.
func SummarySkills(skills []string) []string {
	var tokens []string
	for _, s := range skills {
		folded := nlp.Fold(strings.TrimSpace(s))
		if len([]rune(s)) > maxSkillLength ||
			strings.HasPrefix(folded, "qualificacoes") || strings.HasPrefix(folded, "formacao") {
			continue
		}
		for _, tok := range strings.FieldsFunc(s, skillTokenSplit) {
			if len([]rune(tok)) > 2 && alphabetic(tok) {
				tokens = append(tokens, tok)
			}
		}
	}
	tokens = dedupe(tokens)
	if len(tokens) > maxSummarySkills {
		tokens = tokens[:maxSummarySkills]
	}
	return tokens
}

func alphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
