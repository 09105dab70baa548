package textextract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	inlineSpace  = regexp.MustCompile(`[ \t\x{00A0}\x{2007}\x{202F}]+`)
	excessBlank  = regexp.MustCompile(`\n{3,}`)
	controlRunes = strings.NewReplacer("\x00", "", "\f", "\n", "\v", "\n")
	lineEndings  = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// CleanText normalizes extracted text while keeping its line structure:
// composed Unicode (PDF exporters often emit decomposed accents), LF line
// endings, single spaces inside lines and at most one blank line in a row.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = norm.NFC.String(content)
	content = lineEndings.Replace(content)
	content = controlRunes.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	content = strings.Join(lines, "\n")
	content = excessBlank.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
