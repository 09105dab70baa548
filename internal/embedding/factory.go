package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/config"
)

// NewModel builds the model selected by cfg.Embedding.Provider.
func NewModel(ctx context.Context, cfg config.EmbeddingConfig) (Model, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "", "hashing":
		return NewHashingModel(cfg.Dimensions), nil
	case "ollama":
		return NewOllamaModel(cfg.BaseURL, cfg.Model, cfg.Dimensions, client), nil
	case "openai":
		return NewOpenAIModel(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Dimensions, client), nil
	case "gemini":
		return NewGeminiModel(ctx, cfg.APIKey, cfg.Model, cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// Factory returns a Generator factory for cfg. When a Redis URL is set the
// model is wrapped in a CachedModel; an unreachable Redis only disables the
// cache.
func Factory(cfg *config.Config, logger *zap.Logger) func() (Model, error) {
	return func() (Model, error) {
		model, err := NewModel(context.Background(), cfg.Embedding)
		if err != nil {
			return nil, err
		}
		if cfg.Redis.URL == "" {
			return model, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cache, err := NewRedisCacheFromURL(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("embedding cache disabled", zap.Error(err))
			return model, nil
		}
		return NewCachedModel(model, cache, cfg.Redis.KeyPrefix, cfg.Redis.TTL, logger), nil
	}
}

// NewGeneratorFromConfig is the Generator used by the server and the CLI.
func NewGeneratorFromConfig(cfg *config.Config, logger *zap.Logger) *Generator {
	return NewGenerator(Factory(cfg, logger), logger)
}
