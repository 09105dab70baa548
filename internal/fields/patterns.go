package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/talent-match/internal/nlp"
)

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
	phonePattern = regexp.MustCompile(`(?:\+?55\s?)?\(?\d{2}\)?\s?9?\d{4}[-.\s]?\d{4}`)

	idadePattern = regexp.MustCompile(`(?i)idade\s*:\s*(\d{2})`)
	agePattern   = regexp.MustCompile(`(?i)\b(\d{2})\s+anos\b`)
	ageSuffix    = regexp.MustCompile(`(?i)^\s+(?:de\s+)?(?:experi[eê]ncia|atua[cç][aã]o|de\s+carreira)`)

	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2})\+?\s+anos\s+de\s+experi[eê]ncia`),
		regexp.MustCompile(`(?i)(\d{1,2})\+?\s+anos\s+de\s+atua[cç][aã]o`),
		regexp.MustCompile(`(?i)experi[eê]ncia\s+de\s+(\d{1,2})\+?\s+anos`),
		regexp.MustCompile(`(?i)(\d{1,2})\+?\s+years\s+of\s+experience`),
	}

	positionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)cargo\s+atual\s*:\s*(.+)`),
		regexp.MustCompile(`(?i)posi[cç][aã]o\s+atual\s*:\s*(.+)`),
		regexp.MustCompile(`(?i)atualmente\s+em\s*:\s*(.+)`),
		regexp.MustCompile(`(?i)atual\s*:\s*(.+)`),
	}

	skillsHeader = regexp.MustCompile(`(?i)^\s*(?:habilidades|skills|compet[eê]ncias)(?:\s+t[eé]cnicas)?\s*:?\s*(.*)$`)
	skillsSplit  = regexp.MustCompile(`[,;•·\n]|\s+-\s+`)

	cityStatePattern = regexp.MustCompile(`(\p{Lu}[\p{L}']+(?:[ \t]+(?:d[aeo]s?[ \t]+)?\p{Lu}[\p{L}']+){0,3})[ \t]*(?:-|/|,)[ \t]*([A-Z]{2})\b`)
)

func findEmail(text string) string {
	return emailPattern.FindString(text)
}

func findPhone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// findAge reads "Idade: 30" or "30 anos", skipping "10 anos de experiência".
func findAge(text string) *int {
	if m := idadePattern.FindStringSubmatch(text); m != nil {
		return plausibleAge(m[1])
	}
	for _, loc := range agePattern.FindAllStringSubmatchIndex(text, -1) {
		if ageSuffix.MatchString(text[loc[1]:]) {
			continue
		}
		if age := plausibleAge(text[loc[2]:loc[3]]); age != nil {
			return age
		}
	}
	return nil
}

func plausibleAge(raw string) *int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 14 || n > 99 {
		return nil
	}
	return &n
}

func findYearsExperience(text string) *int {
	for _, p := range yearsPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}

func findCurrentPosition(text string) string {
	for _, p := range positionPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v := strings.Trim(strings.TrimSpace(m[1]), ".;,"); v != "" {
				return v
			}
		}
	}
	return ""
}

// findSkills captures the section introduced by a skills header, inline or
// on its own line, up to the next blank line, section header or end of text.
func findSkills(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := skillsHeader.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var captured []string
		if inline := strings.TrimSpace(m[1]); inline != "" {
			captured = append(captured, inline)
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" || sectionOf(next) != sectionNone {
				break
			}
			captured = append(captured, next)
		}
		return splitSkills(strings.Join(captured, "\n"))
	}
	return nil
}

func splitSkills(block string) []string {
	var out []string
	for _, tok := range skillsSplit.Split(block, -1) {
		tok = strings.Trim(strings.TrimSpace(tok), ".*-")
		if len([]rune(tok)) <= 1 || strings.Contains(tok, "@") || strings.Contains(tok, "://") {
			continue
		}
		out = append(out, tok)
	}
	return dedupe(out)
}

type locationStrategy func(text string, entities []nlp.Entity) (string, bool)

var locationStrategies = []locationStrategy{
	locationFromCityState,
	locationFromCityList,
	locationFromEntities,
}

func findLocation(text string, entities []nlp.Entity) string {
	for _, s := range locationStrategies {
		if loc, ok := s(text, entities); ok {
			return loc
		}
	}
	return ""
}

func locationFromCityState(text string, _ []nlp.Entity) (string, bool) {
	for _, m := range cityStatePattern.FindAllStringSubmatch(text, -1) {
		if _, ok := nlp.States[m[2]]; ok {
			return fmt.Sprintf("%s - %s", m[1], m[2]), true
		}
	}
	return "", false
}

func locationFromCityList(text string, _ []nlp.Entity) (string, bool) {
	return nlp.FindCity(text)
}

func locationFromEntities(_ string, entities []nlp.Entity) (string, bool) {
	for _, loc := range nlp.Entities(entities, nlp.LabelLocation) {
		if len([]rune(loc)) >= 4 {
			return loc, true
		}
	}
	return "", false
}
