package nlp

import (
	"strings"
	"unicode"
)

// Label is the class of a named entity.
type Label string

const (
	LabelPerson       Label = "PER"
	LabelOrganization Label = "ORG"
	LabelLocation     Label = "LOC"
)

// Entity is a span of text recognised as a named entity.
type Entity struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// Recognizer finds named entities in free text. Implementations must be safe
// for concurrent use.
type Recognizer interface {
	Recognize(text string) []Entity
}

// RuleRecognizer recognises entities from capitalisation, organisation
// markers and a gazetteer of Brazilian places. It holds no mutable state.
type RuleRecognizer struct {
	stopwords map[string]bool
	sections  []string
}

// NewRuleRecognizer creates the default recognizer.
func NewRuleRecognizer() *RuleRecognizer {
	stop := make(map[string]bool, len(personStopwords)+len(SectionKeywords))
	for _, w := range personStopwords {
		stop[w] = true
	}
	for _, w := range SectionKeywords {
		stop[w] = true
	}
	return &RuleRecognizer{stopwords: stop, sections: SectionKeywords}
}

// Recognize returns entities in order of first appearance, without duplicates.
func (r *RuleRecognizer) Recognize(text string) []Entity {
	var out []Entity
	seen := make(map[Entity]bool)
	add := func(e Entity) {
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" || seen[e] {
			return
		}
		seen[e] = true
		out = append(out, e)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if org, ok := labelledOrg(line); ok {
			add(Entity{Text: org, Label: LabelOrganization})
		}

		segments := splitSegments(line)
		for _, segment := range segments {
			tokens := strings.Fields(segment)
			if len(tokens) == 1 && len(segments) == 1 {
				if e, ok := r.shortName(tokens[0]); ok {
					add(e)
					continue
				}
			}
			for _, span := range capitalisedSpans(tokens) {
				if e, ok := r.classify(span); ok {
					add(e)
				}
			}
		}
	}
	return out
}

// Entities returns the texts of entities carrying label.
func Entities(entities []Entity, label Label) []string {
	var out []string
	for _, e := range entities {
		if e.Label == label {
			out = append(out, e.Text)
		}
	}
	return out
}

func (r *RuleRecognizer) classify(span []string) (Entity, bool) {
	text := strings.Join(span, " ")
	if IsPlace(text) {
		return Entity{Text: text, Label: LabelLocation}, true
	}
	if jobTitles[Fold(span[0])] {
		return Entity{}, false
	}
	for _, tok := range span {
		if orgMarkers[markerKey(tok)] {
			return Entity{Text: text, Label: LabelOrganization}, true
		}
	}
	if len(span) < 2 || len(span) > 4 {
		return Entity{}, false
	}
	for _, tok := range span {
		f := Fold(tok)
		if connectors[f] {
			continue
		}
		if r.stopwords[f] || !isNameToken(tok) {
			return Entity{}, false
		}
	}
	return Entity{Text: text, Label: LabelPerson}, true
}

// shortName accepts a lone all-caps word on its own line, e.g. a signature.
func (r *RuleRecognizer) shortName(tok string) (Entity, bool) {
	tok = trimToken(tok)
	if len([]rune(tok)) < 3 || !isNameToken(tok) || strings.ToUpper(tok) != tok {
		return Entity{}, false
	}
	f := Fold(tok)
	if r.stopwords[f] || IsPlace(tok) || orgMarkers[f] {
		return Entity{}, false
	}
	return Entity{Text: tok, Label: LabelPerson}, true
}

func labelledOrg(line string) (string, bool) {
	folded := Fold(line)
	for _, label := range orgLabels {
		if !strings.HasPrefix(folded, label) {
			continue
		}
		// Folding may shift byte offsets, so cut on the colon of the original line.
		if colon := strings.Index(line, ":"); colon >= 0 {
			rest := strings.TrimRight(strings.TrimSpace(line[colon+1:]), ".;,")
			if rest != "" {
				return rest, true
			}
		}
	}
	return "", false
}

func splitSegments(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ',', ';', '|', '•', '·', ':', '(', ')', '\t', '–', '—':
			return true
		}
		return false
	})
}

// capitalisedSpans groups runs of capitalised tokens, allowing lowercase
// connectors ("da", "dos") between them.
func capitalisedSpans(tokens []string) [][]string {
	var spans [][]string
	var cur []string
	flush := func() {
		for len(cur) > 0 && connectors[Fold(cur[len(cur)-1])] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			spans = append(spans, cur)
		}
		cur = nil
	}

	for _, raw := range tokens {
		tok := trimToken(raw)
		switch {
		case tok == "":
			flush()
		case isCapitalised(tok):
			cur = append(cur, tok)
			if strings.HasSuffix(raw, ".") {
				flush()
			}
		case len(cur) > 0 && connectors[Fold(tok)]:
			cur = append(cur, tok)
		default:
			flush()
		}
	}
	flush()
	return spans
}

func trimToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return r == '-' || r == '"' || r == '\'' || r == '.' || r == '!' || r == '?' || r == '*'
	})
}

func isCapitalised(tok string) bool {
	for _, r := range tok {
		return unicode.IsUpper(r)
	}
	return false
}

func isNameToken(tok string) bool {
	for _, r := range tok {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return tok != ""
}

func markerKey(tok string) string {
	return strings.NewReplacer(".", "", "/", "").Replace(Fold(tok))
}
