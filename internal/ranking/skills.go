package ranking

import (
	"strings"
	"unicode"

	"github.com/jonathan/talent-match/internal/nlp"
)

// skillNormalizations maps common skill name variants to canonical names.
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"powerbi":    "Power BI",
	"power bi":   "Power BI",
}

// skillAliases lists every folded spelling of a canonical skill.
var skillAliases = buildSkillAliases()

func buildSkillAliases() map[string][]string {
	m := make(map[string][]string)
	for variant, canonical := range skillNormalizations {
		key := nlp.Fold(canonical)
		m[key] = append(m[key], variant)
	}
	for key := range m {
		m[key] = append(m[key], key)
	}
	return m
}

// NormalizeSkillName maps a skill to its canonical spelling. Unknown
// lowercase single words are capitalised; acronyms and mixed case are kept.
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		r := []rune(normalized)
		return string(unicode.ToUpper(r[0])) + string(r[1:])
	}
	return normalized
}

// MatchedSkills returns the skills, in their original order, that the query
// mentions under any known spelling.
func MatchedSkills(query string, skills []string) []string {
	folded := nlp.Fold(query)

	var matched []string
	seen := make(map[string]bool)
	for _, skill := range skills {
		key := nlp.Fold(NormalizeSkillName(skill))
		if key == "" || seen[key] {
			continue
		}
		aliases := skillAliases[key]
		if len(aliases) == 0 {
			aliases = []string{key}
		}
		if nlp.ContainsAnyWord(folded, aliases) {
			seen[key] = true
			matched = append(matched, skill)
		}
	}
	return matched
}
