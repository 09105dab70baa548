package fields

import (
	"strings"

	"github.com/jonathan/talent-match/internal/nlp"
)

type section int

const (
	sectionNone section = iota
	sectionHistory
	sectionFormation
	sectionOther
)

var sectionHeaders = []struct {
	prefix  string
	section section
}{
	{"experiencia", sectionHistory},
	{"experiencias", sectionHistory},
	{"historico profissional", sectionHistory},
	{"experience", sectionHistory},
	{"work experience", sectionHistory},
	{"formacao", sectionFormation},
	{"educacao", sectionFormation},
	{"escolaridade", sectionFormation},
	{"education", sectionFormation},
}

// sectionOf classifies a line as a section header. Headers are short and
// start with a known keyword.
func sectionOf(line string) section {
	folded := strings.TrimSpace(nlp.Fold(line))
	if len(strings.Fields(folded)) > 4 {
		return sectionNone
	}
	for _, h := range sectionHeaders {
		if strings.HasPrefix(folded, h.prefix) {
			return h.section
		}
	}
	for _, kw := range nlp.SectionKeywords {
		if strings.HasPrefix(folded, kw) {
			return sectionOther
		}
	}
	return sectionNone
}

// CountSections counts the non-empty lines under the experience and
// education headers of a résumé.
func CountSections(text string) (history, formation int) {
	current := sectionNone
	for _, line := range nonEmptyLines(text) {
		if s := sectionOf(line); s != sectionNone {
			current = s
			continue
		}
		switch current {
		case sectionHistory:
			history++
		case sectionFormation:
			formation++
		}
	}
	return history, formation
}
