package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/jonathan/talent-match/internal/nlp"
)

const (
	// DefaultHashingDimensions matches the size of common small sentence models.
	DefaultHashingDimensions = 384

	bigramWeight = 0.5
)

// HashingModel is a deterministic feature-hashing embedder over folded
// unigrams and bigrams. It needs no network or model files, which makes it
// the default for local runs and tests.
type HashingModel struct {
	dims int
}

// NewHashingModel creates a HashingModel. dims <= 0 selects the default.
func NewHashingModel(dims int) *HashingModel {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &HashingModel{dims: dims}
}

func (m *HashingModel) Name() string    { return "hashing-v1" }
func (m *HashingModel) Dimensions() int { return m.dims }

func (m *HashingModel) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float64, m.dims)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			tokens = []string{trimmed}
		}
	}

	for i, tok := range tokens {
		m.add(vec, tok, 1)
		if i > 0 {
			m.add(vec, tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, m.dims)
	if norm == 0 {
		return out, nil
	}
	for i, x := range vec {
		out[i] = float32(x / norm)
	}
	return out, nil
}

// add accumulates a signed feature. The top hash bit picks the sign so
// collisions tend to cancel rather than pile up.
func (m *HashingModel) add(vec []float64, feature string, weight float64) {
	h := xxhash.Sum64String(feature)
	idx := h % uint64(m.dims)
	if h>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(nlp.Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
