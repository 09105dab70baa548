// Package fields recovers structured candidate data from résumé text using
// ordered heuristics. Extraction never fails: a field that cannot be found is
// left at its zero value.
package fields

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/nlp"
	"github.com/jonathan/talent-match/internal/types"
)

// Extractor runs the field heuristics over plain text. It is safe for
// concurrent use when its Recognizer is.
type Extractor struct {
	recognizer nlp.Recognizer
	logger     *zap.Logger
}

// NewExtractor creates an Extractor. A nil recognizer selects the rule-based
// one and a nil logger disables miss logging.
func NewExtractor(recognizer nlp.Recognizer, logger *zap.Logger) *Extractor {
	if recognizer == nil {
		recognizer = nlp.NewRuleRecognizer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{recognizer: recognizer, logger: logger}
}

// Extract returns the fields found in text, with the profile summary built.
func (e *Extractor) Extract(text string) types.ExtractedFields {
	f, _ := e.ExtractWithEntities(text)
	return f
}

// ExtractWithEntities is Extract that also returns the recognised entities.
func (e *Extractor) ExtractWithEntities(text string) (types.ExtractedFields, []nlp.Entity) {
	entities := e.recognizer.Recognize(text)
	lines := nonEmptyLines(text)

	f := types.ExtractedFields{
		Name:            e.extractName(lines, entities),
		Email:           findEmail(text),
		Phone:           findPhone(text),
		Age:             findAge(text),
		YearsExperience: findYearsExperience(text),
		CurrentPosition: findCurrentPosition(text),
		Skills:          findSkills(text),
		Employers:       dedupe(nlp.Entities(entities, nlp.LabelOrganization)),
		Location:        findLocation(text, entities),
	}
	f.Summary = BuildSummary(f)

	if misses := missing(f); len(misses) > 0 {
		e.logger.Debug("field extraction miss", zap.Strings("fields", misses))
	}
	return f, entities
}

func (e *Extractor) extractName(lines []string, entities []nlp.Entity) string {
	for _, s := range nameStrategies {
		if name, ok := s.fn(lines, entities); ok {
			e.logger.Debug("name extracted", zap.String("strategy", s.name))
			return name
		}
	}
	return ""
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func missing(f types.ExtractedFields) []string {
	var out []string
	check := func(name string, empty bool) {
		if empty {
			out = append(out, name)
		}
	}
	check("name", f.Name == "")
	check("email", f.Email == "")
	check("phone", f.Phone == "")
	check("age", f.Age == nil)
	check("years_experience", f.YearsExperience == nil)
	check("current_position", f.CurrentPosition == "")
	check("skills", len(f.Skills) == 0)
	check("employers", len(f.Employers) == 0)
	check("location", f.Location == "")
	return out
}
