package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/types"
)

// Candidate represents a person that can be matched against job queries
type Candidate struct {
	ID              uuid.UUID   `json:"id"`
	CreatorID       uuid.UUID   `json:"creator_id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone,omitempty"`
	BirthDate       *Date       `json:"birth_date,omitempty"`
	CurrentPosition string      `json:"current_position,omitempty"`
	YearsExperience int         `json:"years_experience"`
	Location        string      `json:"location,omitempty"`
	Description     string      `json:"description,omitempty"`
	Skills          StringArray `json:"skills"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Age returns the completed years between the birth date and now, or nil
// when the birth date is unknown.
func (c *Candidate) Age(now time.Time) *int {
	if c.BirthDate == nil || c.BirthDate.IsZero() {
		return nil
	}
	b := c.BirthDate.Time
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}

// CandidateInput holds the writable candidate columns
type CandidateInput struct {
	Name            string
	Email           string
	Phone           string
	BirthDate       *Date
	CurrentPosition string
	YearsExperience int
	Location        string
	Description     string
	Skills          []string
}

// Document represents an uploaded file and the pipeline output derived from it
type Document struct {
	ID          uuid.UUID              `json:"id"`
	OwnerID     uuid.UUID              `json:"owner_id"`
	CandidateID *uuid.UUID             `json:"candidate_id,omitempty"`
	Name        string                 `json:"name"`
	Kind        types.DocumentKind     `json:"kind"`
	SizeBytes   int64                  `json:"size_bytes"`
	ContentHash string                 `json:"content_hash"`
	Processed   bool                   `json:"processed"`
	FullText    *string                `json:"full_text,omitempty"`
	Entities    []string               `json:"extracted_entities,omitempty"`
	Fields      *types.ExtractedFields `json:"extracted_fields,omitempty"`
	Details     types.DocumentDetails  `json:"details"`
	UploadedAt  time.Time              `json:"uploaded_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
}

// Summary returns the upload metadata shown in listings.
func (d *Document) Summary() types.DocumentSummary {
	return types.DocumentSummary{
		ID:         d.ID,
		Name:       d.Name,
		Kind:       d.Kind,
		SizeMB:     types.SizeMB(d.SizeBytes),
		Processed:  d.Processed,
		UploadedAt: d.UploadedAt,
	}
}

// DocumentInput is the upload metadata stored before any processing
type DocumentInput struct {
	OwnerID     uuid.UUID
	Name        string
	Kind        types.DocumentKind
	SizeBytes   int64
	ContentHash string
	Details     types.DocumentDetails
}

// DocumentCompletion carries every derived column written when a document
// finishes processing.
type DocumentCompletion struct {
	DocumentID uuid.UUID
	OwnerID    uuid.UUID
	FullText   string
	Entities   []string
	Fields     types.ExtractedFields
	Embedding  []float32
	Details    types.DocumentDetails
	// CandidateID links the document explicitly.
	CandidateID *uuid.UUID
	// MatchEmail links the document to the owner's candidate with this email
	// when CandidateID is nil.
	MatchEmail string
}

// Company represents a hiring company
type Company struct {
	ID        uuid.UUID `json:"id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile groups candidates that share a role or skill set
type Profile struct {
	ID           uuid.UUID   `json:"id"`
	CreatorID    uuid.UUID   `json:"creator_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	TopSkills    StringArray `json:"top_skills"`
	CandidateIDs []uuid.UUID `json:"candidate_ids"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Summary renders the profile as "name: description | Habilidades: skills".
func (p *Profile) Summary() string {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = "Sem descrição"
	}
	skills := strings.Join(p.TopSkills, ", ")
	if skills == "" {
		skills = "sem habilidades definidas"
	}
	return p.Name + ": " + desc + " | Habilidades: " + skills
}

// ProfileInput holds the writable profile columns
type ProfileInput struct {
	Name        string
	Description string
	TopSkills   []string
}
