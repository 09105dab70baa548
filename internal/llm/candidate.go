package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/types"
	schemafiles "github.com/jonathan/talent-match/schemas"
)

// maxPromptRunes caps the résumé text sent to the model.
const maxPromptRunes = 30000

// ExtractionError reports that the model produced no usable fields. Callers
// fall back to heuristic extraction.
type ExtractionError struct {
	Stage string // generate, parse or validate
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("llm extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CandidateExtractor asks the LLM for the candidate fields of a résumé.
type CandidateExtractor struct {
	client Client
	tier   ModelTier
}

// NewCandidateExtractor creates an extractor using the lite tier.
func NewCandidateExtractor(client Client) *CandidateExtractor {
	return &CandidateExtractor{client: client, tier: TierLite}
}

// ExtractFields returns the fields found by the model. Any failure is an
// *ExtractionError.
func (e *CandidateExtractor) ExtractFields(ctx context.Context, text string) (*types.ExtractedFields, error) {
	prompt := BuildExtractionPrompt(CandidateFieldsSchema(), truncateRunes(text, maxPromptRunes))

	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, &ExtractionError{Stage: "generate", Err: err}
	}

	return ParseCandidateFields(raw)
}

// ParseCandidateFields cleans, validates and decodes a model response.
func ParseCandidateFields(raw string) (*types.ExtractedFields, error) {
	cleaned := CleanJSONBlock(raw)
	if extractJSONObject(cleaned) == "" {
		return nil, &ExtractionError{Stage: "parse", Err: fmt.Errorf("no JSON object in response")}
	}

	if err := schemas.ValidateEmbedded(schemafiles.ExtractedFieldsSchema, []byte(cleaned)); err != nil {
		return nil, &ExtractionError{Stage: "validate", Err: err}
	}

	var fields types.ExtractedFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &ExtractionError{Stage: "parse", Err: err}
	}
	normalize(&fields)
	return &fields, nil
}

func normalize(f *types.ExtractedFields) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.CurrentPosition = strings.TrimSpace(f.CurrentPosition)
	f.Location = strings.TrimSpace(f.Location)
	f.Skills = compact(f.Skills)
	f.Employers = compact(f.Employers)
	// The summary is always rebuilt from the merged fields.
	f.Summary = ""
}

func compact(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
