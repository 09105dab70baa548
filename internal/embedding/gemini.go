package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiModel embeds text with a Gemini embedding model.
type GeminiModel struct {
	client *genai.Client
	model  string
	dims   int
}

// NewGeminiModel creates a GeminiModel. Close releases the client.
func NewGeminiModel(ctx context.Context, apiKey, model string, dims int) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiModel{client: client, model: model, dims: dims}, nil
}

func (m *GeminiModel) Name() string    { return "gemini:" + m.model }
func (m *GeminiModel) Dimensions() int { return m.dims }

func (m *GeminiModel) Embed(ctx context.Context, text string) ([]float32, error) {
	em := m.client.EmbeddingModel(m.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("gemini embed: no embedding returned")
	}
	return res.Embedding.Values, nil
}

// Close releases the underlying client.
func (m *GeminiModel) Close() error {
	return m.client.Close()
}
