package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/pgvector/pgvector-go"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const documentColumns = `d.id, d.owner_id, cd.candidate_id, d.name, d.kind, d.size_bytes, d.content_hash,
       d.processed, d.full_text, d.extracted_entities, d.extracted_fields, d.details,
       d.uploaded_at, d.processed_at`

const documentFrom = `FROM documents d
  LEFT JOIN candidate_documents cd ON cd.document_id = d.id`

// -----------------------------------------------------------------------------
// Document Methods
// -----------------------------------------------------------------------------

// CreateDocument stores the upload metadata. The document starts unprocessed.
func (db *DB) CreateDocument(ctx context.Context, in DocumentInput) (*Document, error) {
	details, err := json.Marshal(in.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document details: %w", err)
	}

	doc := Document{
		OwnerID:     in.OwnerID,
		Name:        in.Name,
		Kind:        in.Kind,
		SizeBytes:   in.SizeBytes,
		ContentHash: in.ContentHash,
		Details:     in.Details,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO documents (owner_id, name, kind, size_bytes, content_hash, details)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, uploaded_at`,
		in.OwnerID, in.Name, string(in.Kind), in.SizeBytes, in.ContentHash, details,
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

// CompleteDocument writes the text, entities, fields, embedding and details
// of a document and marks it processed, all in one transaction. The document
// is linked to the requested candidate, or to the owner's candidate whose
// email matches MatchEmail. It returns the linked candidate, if any.
func (db *DB) CompleteDocument(ctx context.Context, c DocumentCompletion) (*uuid.UUID, error) {
	if c.FullText == "" || len(c.Embedding) == 0 {
		return nil, fmt.Errorf("failed to complete document %s: text and embedding are required", c.DocumentID)
	}

	entities, err := json.Marshal(StringArray(c.Entities))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entities: %w", err)
	}
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extracted fields: %w", err)
	}
	details, err := json.Marshal(c.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document details: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE documents SET
		     full_text = $3,
		     extracted_entities = $4,
		     extracted_fields = $5,
		     embedding = $6::vector,
		     details = $7,
		     processed = TRUE,
		     processed_at = NOW()
		 WHERE id = $1 AND owner_id = $2`,
		c.DocumentID, c.OwnerID, c.FullText, entities, fields, pgvector.NewVector(c.Embedding), details,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, c.DocumentID)
	}

	var linked *uuid.UUID
	switch {
	case c.CandidateID != nil:
		if err := linkDocument(ctx, tx, c.OwnerID, c.DocumentID, *c.CandidateID); err != nil {
			return nil, err
		}
		linked = c.CandidateID
	case c.MatchEmail != "":
		var id uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO candidate_documents (document_id, candidate_id)
			 SELECT $1, id FROM candidates WHERE creator_id = $2 AND lower(email) = lower($3)
			 ON CONFLICT (document_id) DO NOTHING
			 RETURNING candidate_id`,
			c.DocumentID, c.OwnerID, c.MatchEmail,
		).Scan(&id)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to link document by email: %w", err)
		}
		if err == nil {
			linked = &id
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return linked, nil
}

// LinkDocument attaches a document to a candidate, replacing any earlier link.
// Both must belong to ownerID.
func (db *DB) LinkDocument(ctx context.Context, ownerID, documentID, candidateID uuid.UUID) error {
	return linkDocument(ctx, db.pool, ownerID, documentID, candidateID)
}

func linkDocument(ctx context.Context, q querier, ownerID, documentID, candidateID uuid.UUID) error {
	tag, err := q.Exec(ctx,
		`INSERT INTO candidate_documents (document_id, candidate_id)
		 SELECT d.id, c.id
		 FROM documents d, candidates c
		 WHERE d.id = $1 AND d.owner_id = $3 AND c.id = $2 AND c.creator_id = $3
		 ON CONFLICT (document_id) DO UPDATE SET candidate_id = EXCLUDED.candidate_id, linked_at = NOW()`,
		documentID, candidateID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to link document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document %s or candidate %s", ErrNotFound, documentID, candidateID)
	}
	return nil
}

// GetDocument retrieves one of the owner's documents
func (db *DB) GetDocument(ctx context.Context, ownerID, id uuid.UUID) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` `+documentFrom+`
		 WHERE d.id = $1 AND d.owner_id = $2`,
		id, ownerID,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns the owner's documents, newest first
func (db *DB) ListDocuments(ctx context.Context, ownerID uuid.UUID) ([]Document, error) {
	return db.listDocuments(ctx,
		`SELECT `+documentColumns+` `+documentFrom+`
		 WHERE d.owner_id = $1
		 ORDER BY d.uploaded_at DESC, d.id`,
		ownerID,
	)
}

// ListCandidateDocuments returns the documents linked to a candidate
func (db *DB) ListCandidateDocuments(ctx context.Context, ownerID, candidateID uuid.UUID) ([]Document, error) {
	return db.listDocuments(ctx,
		`SELECT `+documentColumns+` `+documentFrom+`
		 WHERE d.owner_id = $1 AND cd.candidate_id = $2
		 ORDER BY d.uploaded_at DESC, d.id`,
		ownerID, candidateID,
	)
}

func (db *DB) listDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument deletes a document and its candidate link (via cascade)
func (db *DB) DeleteDocument(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document %s", ErrNotFound, id)
	}
	return nil
}

// ListRankableDocuments returns every processed document of the owner that is
// linked to a candidate and has an embedding, oldest first.
func (db *DB) ListRankableDocuments(ctx context.Context, ownerID uuid.UUID) ([]types.RankableDocument, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, d.id, d.name, d.embedding::text, c.name, c.email,
		        c.current_position, c.skills, c.description
		 FROM documents d
		 JOIN candidate_documents cd ON cd.document_id = d.id
		 JOIN candidates c ON c.id = cd.candidate_id
		 WHERE d.owner_id = $1 AND d.processed AND d.embedding IS NOT NULL
		 ORDER BY d.uploaded_at, d.id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankable documents: %w", err)
	}
	defer rows.Close()

	var docs []types.RankableDocument
	for rows.Next() {
		var (
			d      types.RankableDocument
			vec    pgvector.Vector
			skills StringArray
		)
		if err := rows.Scan(&d.CandidateID, &d.DocumentID, &d.DocumentName, &vec, &d.Name, &d.Email,
			&d.CurrentPosition, &skills, &d.Description); err != nil {
			return nil, fmt.Errorf("failed to scan rankable document: %w", err)
		}
		d.Embedding = vec.Slice()
		d.Skills = skills
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list rankable documents: %w", err)
	}
	return docs, nil
}

func scanDocument(row scanner) (*Document, error) {
	var (
		doc                       Document
		kind                      string
		entities, fields, details []byte
	)
	if err := row.Scan(&doc.ID, &doc.OwnerID, &doc.CandidateID, &doc.Name, &kind, &doc.SizeBytes,
		&doc.ContentHash, &doc.Processed, &doc.FullText, &entities, &fields, &details,
		&doc.UploadedAt, &doc.ProcessedAt); err != nil {
		return nil, err
	}
	doc.Kind = types.DocumentKind(kind)

	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &doc.Entities); err != nil {
			return nil, fmt.Errorf("failed to decode entities: %w", err)
		}
	}
	if len(fields) > 0 {
		var f types.ExtractedFields
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, fmt.Errorf("failed to decode extracted fields: %w", err)
		}
		doc.Fields = &f
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &doc.Details); err != nil {
			return nil, fmt.Errorf("failed to decode details: %w", err)
		}
	}
	return &doc, nil
}
