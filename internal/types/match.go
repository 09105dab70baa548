package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchRequest asks for the candidates closest to a free-text job description.
type MatchRequest struct {
	Query string `json:"query" validate:"required,max=4000"`
	Limit int    `json:"limit,omitempty" validate:"min=0,max=100"`
}

// SimilarityMatch is one ranked candidate. It carries the candidate and
// document fields a client needs for display.
type SimilarityMatch struct {
	Rank            int       `json:"rank"`
	Score           float64   `json:"score"`
	CandidateID     uuid.UUID `json:"candidate_id"`
	DocumentID      uuid.UUID `json:"document_id"`
	DocumentName    string    `json:"document_name"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CurrentPosition string    `json:"current_position,omitempty"`
	TopSkills       []string  `json:"top_skills"`
	MatchedSkills   []string  `json:"matched_skills,omitempty"`
	Description     string    `json:"description,omitempty"`
}

// RankableDocument is a processed document linked to a candidate, with the
// candidate fields copied onto match results.
type RankableDocument struct {
	CandidateID     uuid.UUID
	DocumentID      uuid.UUID
	DocumentName    string
	Embedding       []float32
	Name            string
	Email           string
	CurrentPosition string
	Skills          []string
	Description     string
}

// MatchResponse is returned by the match endpoint.
type MatchResponse struct {
	QueryID uuid.UUID         `json:"query_id"`
	Query   string            `json:"query"`
	Matches []SimilarityMatch `json:"matches"`
}

// SearchQuery is a past match request with the candidates it returned.
type SearchQuery struct {
	ID          uuid.UUID    `json:"id"`
	Query       string       `json:"query"`
	ResultCount int          `json:"result_count"`
	CreatedAt   time.Time    `json:"created_at"`
	Indications []Indication `json:"indications,omitempty"`
}

// Indication is one candidate recommended by a SearchQuery.
type Indication struct {
	Rank        int       `json:"rank"`
	Score       float64   `json:"score"`
	CandidateID uuid.UUID `json:"candidate_id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Name        string    `json:"name,omitempty"`
}
