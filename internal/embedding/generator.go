package embedding

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Generator owns the process-wide embedding model. The model is built on
// first use and then shared; a failed build is remembered and every later
// call reports ErrEmbeddingUnavailable.
//
// All shipped models are reentrant, so calls are not serialized.
type Generator struct {
	factory func() (Model, error)
	logger  *zap.Logger

	once    sync.Once
	model   Model
	initErr error
}

// NewGenerator creates a Generator that builds its model with factory.
func NewGenerator(factory func() (Model, error), logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{factory: factory, logger: logger}
}

// StaticGenerator wraps an already built model.
func StaticGenerator(m Model) *Generator {
	return NewGenerator(func() (Model, error) { return m, nil }, nil)
}

// Model returns the shared model, building it on the first call.
func (g *Generator) Model() (Model, error) {
	g.once.Do(func() {
		m, err := g.factory()
		if err != nil {
			g.initErr = fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
			g.logger.Error("embedding model initialisation failed", zap.Error(err))
			return
		}
		g.model = m
		g.logger.Info("embedding model ready",
			zap.String("model", m.Name()),
			zap.Int("dimensions", m.Dimensions()))
	})
	return g.model, g.initErr
}

// Close releases the model if it was built and holds resources, such as a
// Gemini client or a Redis connection. The Generator must not be used after.
func (g *Generator) Close() error {
	// Mark the model as built so a later Model call cannot race the close.
	g.once.Do(func() { g.initErr = ErrEmbeddingUnavailable })
	if closer, ok := g.model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Embed returns the embedding of text. Empty or whitespace-only text yields
// the sentinel without touching the model.
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return Sentinel(), nil
	}

	m, err := g.Model()
	if err != nil {
		return nil, err
	}

	vec, err := m.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vec) != m.Dimensions() {
		return nil, fmt.Errorf("%w: %s returned %d dimensions, want %d",
			ErrEmbeddingUnavailable, m.Name(), len(vec), m.Dimensions())
	}
	return vec, nil
}
