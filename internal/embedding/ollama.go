package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	remoteRetryCount   = 2
	remoteRetryWait    = 200 * time.Millisecond
	remoteRetryMaxWait = 2 * time.Second
)

// OllamaModel calls the /api/embed endpoint of an Ollama server.
type OllamaModel struct {
	baseURL string
	model   string
	dims    int
	rest    *resty.Client
}

// NewOllamaModel creates an OllamaModel. client may be nil. Transport errors
// and 5xx responses are retried.
func NewOllamaModel(baseURL, model string, dims int, client *http.Client) *OllamaModel {
	if client == nil {
		client = &http.Client{}
	}
	rest := resty.NewWithClient(client).
		SetRetryCount(remoteRetryCount).
		SetRetryWaitTime(remoteRetryWait).
		SetRetryMaxWaitTime(remoteRetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &OllamaModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		dims:    dims,
		rest:    rest,
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

func (m *OllamaModel) Name() string    { return "ollama:" + m.model }
func (m *OllamaModel) Dimensions() int { return m.dims }

func (m *OllamaModel) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := m.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ollamaEmbedRequest{Model: m.model, Input: []string{text}}).
		Post(m.baseURL + "/api/embed")
	if err != nil {
		return nil, fmt.Errorf("ollama embed: request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("ollama embed: status %d: %s", resp.StatusCode(), shortBody(resp.Body()))
	}

	var out ollamaEmbedResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("ollama embed: failed to decode response: %w", err)
	}
	if len(out.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama embed: no embeddings returned")
	}
	return out.Embeddings[0], nil
}

func shortBody(b []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
