// Package ranking orders candidates by the semantic similarity between a
// free-text query and their résumé embeddings.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/types"
)

const (
	// DefaultLimit is the number of results returned when none is requested.
	DefaultLimit  = 5
	topSkillCount = 5
)

// ErrEmptyQuery is returned by Rank for a blank query.
var ErrEmptyQuery = errors.New("query is empty")

// Embedder turns the query into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store lists the documents that can take part in ranking.
type Store interface {
	ListRankableDocuments(ctx context.Context, ownerID uuid.UUID) ([]types.RankableDocument, error)
}

// Ranker ranks an owner's candidates against a query.
type Ranker struct {
	embedder     Embedder
	store        Store
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

// NewRanker creates a Ranker. Non-positive limits fall back to DefaultLimit.
func NewRanker(embedder Embedder, store Store, defaultLimit, maxLimit int, logger *zap.Logger) *Ranker {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		embedder:     embedder,
		store:        store,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// Limit resolves a requested result count against the configured bounds.
func (r *Ranker) Limit(requested int) int {
	switch {
	case requested <= 0:
		return r.defaultLimit
	case requested > r.maxLimit:
		return r.maxLimit
	default:
		return requested
	}
}

// Rank embeds query and returns at most limit candidates, best first. An
// owner with no usable documents gets an empty, non-nil slice.
func (r *Ranker) Rank(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]types.SimilarityMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := r.store.ListRankableDocuments(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankable documents: %w", err)
	}

	if stale := countMismatched(queryVec, docs); stale > 0 {
		r.logger.Debug("skipping documents embedded with another model",
			zap.Int("documents", stale),
			zap.Int("dimensions", len(queryVec)))
	}

	matches := RankDocuments(queryVec, docs, r.Limit(limit))
	for i := range matches {
		matches[i].MatchedSkills = MatchedSkills(query, matches[i].TopSkills)
	}

	r.logger.Debug("ranked candidates",
		zap.Int("documents", len(docs)),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// RankDocuments scores every usable document against queryVec, keeps the
// best document per candidate (the first one wins a tie), and returns the top
// n candidates by descending score with 1-based ranks. Documents whose
// embedding length differs from the query's were produced by another model
// and are skipped.
func RankDocuments(queryVec []float32, docs []types.RankableDocument, n int) []types.SimilarityMatch {
	results := make([]types.SimilarityMatch, 0)
	if n <= 0 || !embedding.Usable(queryVec) {
		return results
	}

	best := make(map[uuid.UUID]int)
	for _, doc := range docs {
		if !embedding.Usable(doc.Embedding) || len(doc.Embedding) != len(queryVec) {
			continue
		}
		score := embedding.Cosine(queryVec, doc.Embedding)

		if i, seen := best[doc.CandidateID]; seen {
			if score > results[i].Score {
				results[i] = newMatch(doc, score)
			}
			continue
		}
		best[doc.CandidateID] = len(results)
		results = append(results, newMatch(doc, score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > n {
		results = results[:n]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// countMismatched counts the usable documents whose dimensions differ from
// the query's.
func countMismatched(queryVec []float32, docs []types.RankableDocument) int {
	n := 0
	for _, doc := range docs {
		if embedding.Usable(doc.Embedding) && len(doc.Embedding) != len(queryVec) {
			n++
		}
	}
	return n
}

func newMatch(doc types.RankableDocument, score float64) types.SimilarityMatch {
	top := doc.Skills
	if len(top) > topSkillCount {
		top = top[:topSkillCount]
	}
	return types.SimilarityMatch{
		Score:           score,
		CandidateID:     doc.CandidateID,
		DocumentID:      doc.DocumentID,
		DocumentName:    doc.DocumentName,
		Name:            doc.Name,
		Email:           doc.Email,
		CurrentPosition: doc.CurrentPosition,
		TopSkills:       append(make([]string, 0, len(top)), top...),
		Description:     doc.Description,
	}
}
