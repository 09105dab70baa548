package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

// CreateCompany registers a company. The CNPJ is stored as 14 digits and must
// be unique.
func (db *DB) CreateCompany(ctx context.Context, creatorID uuid.UUID, name, cnpj string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	var c Company
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (creator_id, name, cnpj)
		 VALUES ($1, $2, $3)
		 RETURNING id, creator_id, name, cnpj, created_at`,
		creatorID, name, cnpj,
	).Scan(&c.ID, &c.CreatorID, &c.Name, &c.CNPJ, &c.CreatedAt)
	if err != nil {
		return nil, wrapUnique(err, "company "+cnpj)
	}
	return &c, nil
}

// GetCompanyByID retrieves a company by its UUID
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, creator_id, name, cnpj, created_at FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.CreatorID, &c.Name, &c.CNPJ, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// ListCompanies returns all companies ordered by name
func (db *DB) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, creator_id, name, cnpj, created_at FROM companies ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.CreatorID, &c.Name, &c.CNPJ, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}
