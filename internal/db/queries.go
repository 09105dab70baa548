package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/talent-match/internal/types"
)

// -----------------------------------------------------------------------------
// Search Query Methods
// -----------------------------------------------------------------------------

// SaveSearchQuery records a match request and one indication per result in a
// single transaction.
func (db *DB) SaveSearchQuery(ctx context.Context, userID uuid.UUID, query string, matches []types.SimilarityMatch) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO search_queries (user_id, query, result_count) VALUES ($1, $2, $3) RETURNING id`,
		userID, query, len(matches),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save search query: %w", err)
	}

	for _, m := range matches {
		_, err = tx.Exec(ctx,
			`INSERT INTO indications (query_id, rank, candidate_id, document_id, score)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, m.Rank, m.CandidateID, m.DocumentID, m.Score,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to save indication %d: %w", m.Rank, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListSearchQueries returns the user's past searches, newest first, without
// their indications
func (db *DB) ListSearchQueries(ctx context.Context, userID uuid.UUID, limit int) ([]types.SearchQuery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, query, result_count, created_at FROM search_queries
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list search queries: %w", err)
	}
	defer rows.Close()

	queries := []types.SearchQuery{}
	for rows.Next() {
		var q types.SearchQuery
		if err := rows.Scan(&q.ID, &q.Query, &q.ResultCount, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list search queries: %w", err)
	}
	return queries, nil
}

// GetSearchQuery retrieves one of the user's searches with its indications
// in rank order
func (db *DB) GetSearchQuery(ctx context.Context, userID, id uuid.UUID) (*types.SearchQuery, error) {
	var q types.SearchQuery
	err := db.pool.QueryRow(ctx,
		`SELECT id, query, result_count, created_at FROM search_queries WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&q.ID, &q.Query, &q.ResultCount, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get search query: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT i.rank, i.score, i.candidate_id, i.document_id, c.name
		 FROM indications i
		 JOIN candidates c ON c.id = i.candidate_id
		 WHERE i.query_id = $1
		 ORDER BY i.rank`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list indications: %w", err)
	}
	defer rows.Close()

	q.Indications = []types.Indication{}
	for rows.Next() {
		var ind types.Indication
		if err := rows.Scan(&ind.Rank, &ind.Score, &ind.CandidateID, &ind.DocumentID, &ind.Name); err != nil {
			return nil, fmt.Errorf("failed to scan indication: %w", err)
		}
		q.Indications = append(q.Indications, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list indications: %w", err)
	}
	return &q, nil
}
