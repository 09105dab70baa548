package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/types"
)

func TestMatch_RecordsQuery(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "u@example.com")
	env.matcher.matches = []types.SimilarityMatch{
		{Rank: 1, Score: 0.91, CandidateID: uuid.New(), DocumentID: uuid.New(), Name: "João Pereira", TopSkills: []string{"Go"}},
		{Rank: 2, Score: 0.72, CandidateID: uuid.New(), DocumentID: uuid.New(), Name: "Maria Silva", TopSkills: []string{"Python"}},
	}

	w := env.do(t, http.MethodPost, "/v1/match", token, types.MatchRequest{Query: "  desenvolvedor Go sênior  ", Limit: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[types.MatchResponse](t, w)
	assert.NotEqual(t, uuid.Nil, resp.QueryID)
	assert.Equal(t, "desenvolvedor Go sênior", resp.Query)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "João Pereira", resp.Matches[0].Name)
	assert.Equal(t, []string{"desenvolvedor Go sênior"}, env.matcher.calls)
	assert.Equal(t, []int{2}, env.matcher.limits)

	w = env.do(t, http.MethodGet, "/v1/queries/"+resp.QueryID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := decodeBody[types.SearchQuery](t, w)
	assert.Equal(t, 2, q.ResultCount)
	require.Len(t, q.Indications, 2)
	assert.Equal(t, 1, q.Indications[0].Rank)

	w = env.do(t, http.MethodGet, "/v1/queries", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]types.SearchQuery](t, w), 1)
}

func TestMatch_EmptyCorpus(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "u@example.com")
	env.matcher.matches = []types.SimilarityMatch{}

	w := env.do(t, http.MethodPost, "/v1/match", token, types.MatchRequest{Query: "qualquer vaga"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, mustField(t, w.Body.Bytes(), "matches"))
}

func TestMatch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        any
		rankErr    error
		saveErr    error
		wantStatus int
	}{
		{"empty query", types.MatchRequest{Query: ""}, nil, nil, http.StatusBadRequest},
		{"blank query", types.MatchRequest{Query: "   "}, nil, nil, http.StatusBadRequest},
		{"limit too high", types.MatchRequest{Query: "go", Limit: 1000}, nil, nil, http.StatusBadRequest},
		{"embedding unavailable", types.MatchRequest{Query: "go"}, fmt.Errorf("failed to embed query: %w", embedding.ErrEmbeddingUnavailable), nil, http.StatusBadGateway},
		{"store failure", types.MatchRequest{Query: "go"}, nil, errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, token := env.newUser(t, "u@example.com")
			env.matcher.err = tt.rankErr
			env.store.saveErr = tt.saveErr

			w := env.do(t, http.MethodPost, "/v1/match", token, tt.req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.Empty(t, env.matcher.calls)
			}
		})
	}
}

func TestQueries_ScopedAndValidated(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "u@example.com")
	_, otherToken := env.newUser(t, "other@example.com")

	w := env.do(t, http.MethodPost, "/v1/match", token, types.MatchRequest{Query: "analista de dados"})
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody[types.MatchResponse](t, w).QueryID

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/queries/"+id.String(), otherToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/v1/queries/abc", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/v1/queries?limit=0", token, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/v1/queries?limit=10", token, nil).Code)
}
