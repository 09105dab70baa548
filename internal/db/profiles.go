package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `p.id, p.creator_id, p.name, p.description, p.top_skills,
       COALESCE((SELECT jsonb_agg(pc.candidate_id ORDER BY pc.added_at, pc.candidate_id)
                 FROM profile_candidates pc WHERE pc.profile_id = p.id), '[]'::jsonb),
       p.created_at, p.updated_at`

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

// CreateProfile creates an empty profile owned by creatorID
func (db *DB) CreateProfile(ctx context.Context, creatorID uuid.UUID, in ProfileInput) (*Profile, error) {
	row := db.pool.QueryRow(ctx,
		`WITH p AS (
		     INSERT INTO profiles (creator_id, name, description, top_skills)
		     VALUES ($1, $2, $3, $4)
		     RETURNING *
		 )
		 SELECT `+profileColumns+` FROM p`,
		creatorID, in.Name, in.Description, StringArray(in.TopSkills),
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// GetProfile retrieves one of the creator's profiles
func (db *DB) GetProfile(ctx context.Context, creatorID, id uuid.UUID) (*Profile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles p WHERE p.id = $1 AND p.creator_id = $2`,
		id, creatorID,
	)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns the creator's profiles ordered by name
func (db *DB) ListProfiles(ctx context.Context, creatorID uuid.UUID) ([]Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles p WHERE p.creator_id = $1 ORDER BY p.name, p.id`,
		creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile replaces the name, description and top skills of a profile.
// Members are left untouched.
func (db *DB) UpdateProfile(ctx context.Context, creatorID, id uuid.UUID, in ProfileInput) (*Profile, error) {
	row := db.pool.QueryRow(ctx,
		`WITH p AS (
		     UPDATE profiles SET name = $3, description = $4, top_skills = $5, updated_at = NOW()
		     WHERE id = $1 AND creator_id = $2
		     RETURNING *
		 )
		 SELECT `+profileColumns+` FROM p`,
		id, creatorID, in.Name, in.Description, StringArray(in.TopSkills),
	)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// AddProfileSkill appends skill to the top skills unless it is already there
func (db *DB) AddProfileSkill(ctx context.Context, creatorID, id uuid.UUID, skill string) (*Profile, error) {
	row := db.pool.QueryRow(ctx,
		`WITH p AS (
		     UPDATE profiles SET
		         top_skills = CASE WHEN top_skills @> jsonb_build_array($3::text)
		                           THEN top_skills
		                           ELSE top_skills || jsonb_build_array($3::text) END,
		         updated_at = NOW()
		     WHERE id = $1 AND creator_id = $2
		     RETURNING *
		 )
		 SELECT `+profileColumns+` FROM p`,
		id, creatorID, skill,
	)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to add profile skill: %w", err)
	}
	return p, nil
}

// DeleteProfile deletes a profile. Its candidates are kept.
func (db *DB) DeleteProfile(ctx context.Context, creatorID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1 AND creator_id = $2`, id, creatorID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	return nil
}

// AddProfileCandidate adds a candidate to a profile. Both must belong to
// creatorID; adding a member twice is a no-op.
func (db *DB) AddProfileCandidate(ctx context.Context, creatorID, profileID, candidateID uuid.UUID) error {
	var found bool
	err := db.pool.QueryRow(ctx,
		`WITH owned AS (
		     SELECT p.id AS profile_id, c.id AS candidate_id
		     FROM profiles p, candidates c
		     WHERE p.id = $1 AND p.creator_id = $3 AND c.id = $2 AND c.creator_id = $3
		 ), ins AS (
		     INSERT INTO profile_candidates (profile_id, candidate_id)
		     SELECT profile_id, candidate_id FROM owned
		     ON CONFLICT (profile_id, candidate_id) DO NOTHING
		 )
		 SELECT EXISTS (SELECT 1 FROM owned)`,
		profileID, candidateID, creatorID,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to add profile candidate: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: profile %s or candidate %s", ErrNotFound, profileID, candidateID)
	}
	return nil
}

// RemoveProfileCandidate removes a candidate from a profile
func (db *DB) RemoveProfileCandidate(ctx context.Context, creatorID, profileID, candidateID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM profile_candidates pc
		 USING profiles p
		 WHERE pc.profile_id = p.id AND p.id = $1 AND p.creator_id = $3 AND pc.candidate_id = $2`,
		profileID, candidateID, creatorID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove profile candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: candidate %s in profile %s", ErrNotFound, candidateID, profileID)
	}
	return nil
}

// ListProfileCandidates returns the members of one of the creator's profiles
// ordered by name
func (db *DB) ListProfileCandidates(ctx context.Context, creatorID, profileID uuid.UUID) ([]Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE creator_id = $2 AND id IN (
		     SELECT pc.candidate_id FROM profile_candidates pc
		     JOIN profiles p ON p.id = pc.profile_id
		     WHERE p.id = $1 AND p.creator_id = $2
		 )
		 ORDER BY name, id`,
		profileID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile candidates: %w", err)
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
		return nil, fmt.Errorf("failed to list profile candidates: %w", err)
	}
	return candidates, nil
}

func scanProfile(row scanner) (*Profile, error) {
	var p Profile
	var members []byte
	if err := row.Scan(&p.ID, &p.CreatorID, &p.Name, &p.Description, &p.TopSkills,
		&members, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CandidateIDs = []uuid.UUID{}
	if err := json.Unmarshal(members, &p.CandidateIDs); err != nil {
		return nil, fmt.Errorf("failed to decode profile members: %w", err)
	}
	return &p, nil
}
