// Package llm - extractor.go builds structured extraction prompts.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name, e.g. "CandidateFields"
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string
	Required    bool
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent values.\n")
	sb.WriteString("- Use null for any field that is not present in the text.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// CandidateFieldsSchema is the extraction schema for résumés. Field names
// match types.ExtractedFields.
func CandidateFieldsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "CandidateFields",
		Description: `You are an expert recruiter reading a résumé, usually written in Brazilian Portuguese.
Extract the candidate's personal and professional data exactly as written.`,
		Fields: []SchemaField{
			{Name: "name", Type: `"string"`, Description: "Full name of the candidate"},
			{Name: "email", Type: `"string"`},
			{Name: "phone", Type: `"string"`, Description: "Phone number as written"},
			{Name: "age", Type: "integer", Description: "Age in years, only if stated"},
			{Name: "years_experience", Type: "integer", Description: "Total years of professional experience"},
			{Name: "current_position", Type: `"string"`, Description: "Current job title"},
			{Name: "skills", Type: `["string"]`, Description: "Technical and professional skills, one per item"},
			{Name: "employers", Type: `["string"]`, Description: "Companies the candidate worked for"},
			{Name: "location", Type: `"string"`, Description: "City and state, e.g. 'Recife - PE'"},
		},
	}
}
