package types

import (
	"time"

	"github.com/google/uuid"
)

// DocumentKind discriminates the uploaded document variants.
type DocumentKind string

const (
	// KindCurriculum is a résumé; it goes through field extraction.
	KindCurriculum DocumentKind = "curriculum"
	// KindCertificate is a course or degree certificate.
	KindCertificate DocumentKind = "certificate"
)

// Valid reports whether k is a known kind.
func (k DocumentKind) Valid() bool {
	return k == KindCurriculum || k == KindCertificate
}

// CurriculumDetails counts the entries found in a résumé's experience and
// education sections.
type CurriculumDetails struct {
	HistoryCount   int `json:"history_count"`
	FormationCount int `json:"formation_count"`
}

// CertificateDetails is supplied by the uploader of a certificate.
type CertificateDetails struct {
	Institution string `json:"institution" validate:"required,max=255"`
	Title       string `json:"title" validate:"required,max=255"`
	DateIssued  string `json:"date_issued,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// DocumentDetails holds the variant-specific data. Exactly one field is set,
// matching the document kind.
type DocumentDetails struct {
	Curriculum  *CurriculumDetails  `json:"curriculum,omitempty"`
	Certificate *CertificateDetails `json:"certificate,omitempty"`
}

// ProcessingStatus is reported to the uploader.
type ProcessingStatus string

const (
	// StatusProcessed means text, fields and embedding were stored.
	StatusProcessed ProcessingStatus = "processed"
	// StatusUnreadable means no text could be extracted; the document stays unprocessed.
	StatusUnreadable ProcessingStatus = "unreadable"
	// StatusFailed means processing aborted, e.g. the embedding model was unavailable.
	StatusFailed ProcessingStatus = "failed"
)

// DocumentSummary is the upload metadata returned to clients.
type DocumentSummary struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Kind       DocumentKind `json:"kind"`
	SizeMB     float64      `json:"size_mb"`
	Processed  bool         `json:"processed"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// UploadResponse is returned by the document upload endpoint.
type UploadResponse struct {
	Document    DocumentSummary  `json:"document"`
	Status      ProcessingStatus `json:"status"`
	Message     string           `json:"message,omitempty"`
	Fields      *ExtractedFields `json:"fields,omitempty"`
	CandidateID *uuid.UUID       `json:"candidate_id,omitempty"`
}

// LinkDocumentRequest attaches a document to a candidate.
type LinkDocumentRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" validate:"required"`
}

// SizeMB converts a byte count to megabytes rounded to two decimals.
func SizeMB(bytes int64) float64 {
	mb := float64(bytes) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
