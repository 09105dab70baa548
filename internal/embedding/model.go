// Package embedding turns text into fixed-length vectors and compares them.
//
// Models are pluggable (a local hashing model, Ollama, OpenAI-compatible
// servers and Gemini) and are shared process-wide through a lazily
// initialised Generator.
package embedding

import (
	"context"
	"errors"
)

// ErrEmbeddingUnavailable is returned when no usable vector can be produced,
// either because the model failed to initialise or because a call failed.
var ErrEmbeddingUnavailable = errors.New("embedding unavailable")

// Model produces embeddings. Implementations must be safe for concurrent use.
type Model interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions is the length of every vector the model returns.
	Dimensions() int
	Name() string
}

// Sentinel is the vector stored for empty text. It never matches anything.
func Sentinel() []float32 {
	return []float32{0}
}

// IsSentinel reports whether v is the empty-text sentinel.
func IsSentinel(v []float32) bool {
	return len(v) == 1 && v[0] == 0
}
