package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const candidateColumns = `id, creator_id, name, email, phone, birth_date, current_position,
       years_experience, location, description, skills, created_at, updated_at`

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

// CreateCandidate creates a candidate owned by creatorID. A duplicate email
// yields ErrConflict.
func (db *DB) CreateCandidate(ctx context.Context, creatorID uuid.UUID, in CandidateInput) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (creator_id, name, email, phone, birth_date, current_position,
		                         years_experience, location, description, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+candidateColumns,
		creatorID, in.Name, normalizeEmail(in.Email), in.Phone, in.BirthDate, in.CurrentPosition,
		in.YearsExperience, in.Location, in.Description, StringArray(in.Skills),
	)
	c, err := scanCandidate(row)
	if err != nil {
		return nil, wrapUnique(err, "candidate "+in.Email)
	}
	return c, nil
}

// GetCandidate retrieves one of the creator's candidates
func (db *DB) GetCandidate(ctx context.Context, creatorID, id uuid.UUID) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1 AND creator_id = $2`,
		id, creatorID,
	)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// ListCandidates returns the creator's candidates ordered by name
func (db *DB) ListCandidates(ctx context.Context, creatorID uuid.UUID) ([]Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE creator_id = $1 ORDER BY name, id`,
		creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// UpdateCandidate replaces every writable column of a candidate
func (db *DB) UpdateCandidate(ctx context.Context, creatorID, id uuid.UUID, in CandidateInput) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE candidates SET
		     name = $3, email = $4, phone = $5, birth_date = $6, current_position = $7,
		     years_experience = $8, location = $9, description = $10, skills = $11,
		     updated_at = NOW()
		 WHERE id = $1 AND creator_id = $2
		 RETURNING `+candidateColumns,
		id, creatorID, in.Name, normalizeEmail(in.Email), in.Phone, in.BirthDate, in.CurrentPosition,
		in.YearsExperience, in.Location, in.Description, StringArray(in.Skills),
	)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
		}
		return nil, wrapUnique(err, "candidate "+in.Email)
	}
	return c, nil
}

// DeleteCandidate deletes a candidate. Linked documents are kept and become
// unlinked.
func (db *DB) DeleteCandidate(ctx context.Context, creatorID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1 AND creator_id = $2`, id, creatorID)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	return nil
}

func scanCandidate(row scanner) (*Candidate, error) {
	var c Candidate
	if err := row.Scan(&c.ID, &c.CreatorID, &c.Name, &c.Email, &c.Phone, &c.BirthDate, &c.CurrentPosition,
		&c.YearsExperience, &c.Location, &c.Description, &c.Skills, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
