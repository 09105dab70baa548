package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIModel calls an OpenAI-compatible /v1/embeddings endpoint.
type OpenAIModel struct {
	client *openai.Client
	model  string
	dims   int
}

// NewOpenAIModel creates an OpenAIModel. baseURL is the server root without
// the /v1 suffix; client may be nil.
func NewOpenAIModel(baseURL, apiKey, model string, dims int, client *http.Client) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	}
	if client != nil {
		cfg.HTTPClient = client
	}
	return &OpenAIModel{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dims:   dims,
	}
}

func (m *OpenAIModel) Name() string    { return "openai:" + m.model }
func (m *OpenAIModel) Dimensions() int { return m.dims }

func (m *OpenAIModel) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(m.model),
	}
	// Only the v3 models accept a reduced output size.
	if strings.HasPrefix(m.model, "text-embedding-3") {
		req.Dimensions = m.dims
	}

	resp, err := m.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embed: no embeddings returned")
	}
	return resp.Data[0].Embedding, nil
}
