// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// shorten cuts s to limit runes, marking the cut with "...".
func shorten(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func listBlock(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintFields outputs the fields recovered from a résumé.
func (p *Printer) PrintFields(filename string, pages int, f *types.ExtractedFields) {
	if f == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s (%d pages)\n", filename, pages))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Name:       %s\n", orDash(f.Name)))
	sb.WriteString(fmt.Sprintf("Email:      %s\n", orDash(f.Email)))
	sb.WriteString(fmt.Sprintf("Phone:      %s\n", orDash(f.Phone)))
	sb.WriteString(fmt.Sprintf("Age:        %s\n", optionalInt(f.Age)))
	sb.WriteString(fmt.Sprintf("Experience: %s years\n", optionalInt(f.YearsExperience)))
	sb.WriteString(fmt.Sprintf("Position:   %s\n", orDash(f.CurrentPosition)))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", orDash(f.Location)))
	sb.WriteString("\n")

	listBlock(&sb, "Skills", f.Skills, maxItemsToShow)
	listBlock(&sb, "Employers", f.Employers, 3)

	if f.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(f.Summary)
	}

	p.printBox("EXTRACTED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEmbedding outputs the model name and the vector shape.
func (p *Printer) PrintEmbedding(model string, vec []float32) {
	if len(vec) == 0 {
		return
	}

	head := make([]string, 0, 4)
	for i := 0; i < min(len(vec), 4); i++ {
		head = append(head, fmt.Sprintf("%.4f", vec[i]))
	}

	content := fmt.Sprintf("Model:      %s\nDimensions: %d\nHead:       [%s ...]",
		orDash(model), len(vec), strings.Join(head, ", "))
	p.printBox("EMBEDDING", content)
}

// PrintMatches outputs the ranked candidates for a query.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatches(query string, matches []types.SimilarityMatch) {
	if len(matches) == 0 {
		fmt.Fprintf(p.out, "No candidates match %q\n", query)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %s\n\n", query))

	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", m.Rank, orDash(m.Name)))
		sb.WriteString(fmt.Sprintf("    Score: %.3f\n", m.Score))
		if m.CurrentPosition != "" {
			sb.WriteString(fmt.Sprintf("    Role:  %s\n", m.CurrentPosition))
		}
		if len(m.TopSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", strings.Join(m.TopSkills, ", ")))
		}
		if i < len(matches)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TOP CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}
