package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/types"
)

// DBClient is the user storage used by UserService.
type DBClient interface {
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// Store is everything the handlers read and write. *db.DB implements it.
type Store interface {
	DBClient

	Ping(ctx context.Context) error

	CreateCandidate(ctx context.Context, creatorID uuid.UUID, in db.CandidateInput) (*db.Candidate, error)
	GetCandidate(ctx context.Context, creatorID, id uuid.UUID) (*db.Candidate, error)
	ListCandidates(ctx context.Context, creatorID uuid.UUID) ([]db.Candidate, error)
	UpdateCandidate(ctx context.Context, creatorID, id uuid.UUID, in db.CandidateInput) (*db.Candidate, error)
	DeleteCandidate(ctx context.Context, creatorID, id uuid.UUID) error

	GetDocument(ctx context.Context, ownerID, id uuid.UUID) (*db.Document, error)
	ListDocuments(ctx context.Context, ownerID uuid.UUID) ([]db.Document, error)
	ListCandidateDocuments(ctx context.Context, ownerID, candidateID uuid.UUID) ([]db.Document, error)
	DeleteDocument(ctx context.Context, ownerID, id uuid.UUID) error
	LinkDocument(ctx context.Context, ownerID, documentID, candidateID uuid.UUID) error

	CreateCompany(ctx context.Context, creatorID uuid.UUID, name, cnpj string) (*db.Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	ListCompanies(ctx context.Context) ([]db.Company, error)

	CreateProfile(ctx context.Context, creatorID uuid.UUID, in db.ProfileInput) (*db.Profile, error)
	GetProfile(ctx context.Context, creatorID, id uuid.UUID) (*db.Profile, error)
	ListProfiles(ctx context.Context, creatorID uuid.UUID) ([]db.Profile, error)
	UpdateProfile(ctx context.Context, creatorID, id uuid.UUID, in db.ProfileInput) (*db.Profile, error)
	AddProfileSkill(ctx context.Context, creatorID, id uuid.UUID, skill string) (*db.Profile, error)
	DeleteProfile(ctx context.Context, creatorID, id uuid.UUID) error
	AddProfileCandidate(ctx context.Context, creatorID, profileID, candidateID uuid.UUID) error
	RemoveProfileCandidate(ctx context.Context, creatorID, profileID, candidateID uuid.UUID) error
	ListProfileCandidates(ctx context.Context, creatorID, profileID uuid.UUID) ([]db.Candidate, error)

	SaveSearchQuery(ctx context.Context, userID uuid.UUID, query string, matches []types.SimilarityMatch) (uuid.UUID, error)
	ListSearchQueries(ctx context.Context, userID uuid.UUID, limit int) ([]types.SearchQuery, error)
	GetSearchQuery(ctx context.Context, userID, id uuid.UUID) (*types.SearchQuery, error)
}

// Ingestor runs an upload through the document pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, up ingestion.Upload) (*ingestion.Result, error)
}

// Matcher ranks the owner's candidates against a free-text query.
type Matcher interface {
	Rank(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]types.SimilarityMatch, error)
}

var _ Store = (*db.DB)(nil)
