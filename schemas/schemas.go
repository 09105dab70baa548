// Package schemas embeds the JSON Schemas for structured artifacts exchanged
// with external extractors.
package schemas

import (
	"embed"
	"fmt"
)

// ExtractedFieldsSchema is the schema for LLM candidate extraction output.
const ExtractedFieldsSchema = "extracted_fields.schema.json"

//go:embed *.schema.json
var files embed.FS

// Load returns the content of the named schema.
func Load(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}
