package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/fields"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/jonathan/talent-match/internal/validation"
)

// candidateResponse adds the derived age and profile summary to a candidate.
type candidateResponse struct {
	*db.Candidate
	Age            *int   `json:"age,omitempty"`
	ProfileSummary string `json:"profile_summary"`
}

func newCandidateResponse(c *db.Candidate, now time.Time) candidateResponse {
	age := c.Age(now)
	years := c.YearsExperience
	summary := fields.BuildSummary(types.ExtractedFields{
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Age:             age,
		YearsExperience: &years,
		CurrentPosition: c.CurrentPosition,
		Skills:          c.Skills,
		Location:        c.Location,
	})
	return candidateResponse{Candidate: c, Age: age, ProfileSummary: summary}
}

// candidateInput converts a validated request. The birth date was already
// checked by the datetime tag.
func candidateInput(req *types.CandidateRequest) (db.CandidateInput, error) {
	birth, err := db.ParseDate(req.BirthDate)
	if err != nil {
		return db.CandidateInput{}, &ErrValidation{Field: "birth_date", Message: "datetime"}
	}
	if birth != nil && birth.After(time.Now()) {
		return db.CandidateInput{}, &ErrValidation{Field: "birth_date", Message: "must be in the past"}
	}

	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	phone := ""
	if req.Phone != "" {
		phone = validation.NormalizePhone(req.Phone)
	}

	return db.CandidateInput{
		Name:            strings.TrimSpace(req.Name),
		Email:           req.Email,
		Phone:           phone,
		BirthDate:       birth,
		CurrentPosition: strings.TrimSpace(req.CurrentPosition),
		YearsExperience: req.YearsExperience,
		Location:        strings.TrimSpace(req.Location),
		Description:     strings.TrimSpace(req.Description),
		Skills:          skills,
	}, nil
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.CandidateRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}
	in, err := candidateInput(&req)
	if err != nil {
		failure(w, s.logger, err, "Invalid candidate")
		return
	}

	c, err := s.store.CreateCandidate(r.Context(), userID, in)
	if err != nil {
		failure(w, s.logger, err, "Failed to create candidate")
		return
	}
	jsonResponse(w, http.StatusCreated, newCandidateResponse(c, time.Now()))
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	candidates, err := s.store.ListCandidates(r.Context(), userID)
	if err != nil {
		failure(w, s.logger, err, "Failed to list candidates")
		return
	}

	now := time.Now()
	out := make([]candidateResponse, 0, len(candidates))
	for i := range candidates {
		out = append(out, newCandidateResponse(&candidates[i], now))
	}
	jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "candidate")
	if !ok {
		return
	}

	c, err := s.store.GetCandidate(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get candidate")
		return
	}
	if c == nil {
		errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	jsonResponse(w, http.StatusOK, newCandidateResponse(c, time.Now()))
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "candidate")
	if !ok {
		return
	}

	var req types.CandidateRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}
	in, err := candidateInput(&req)
	if err != nil {
		failure(w, s.logger, err, "Invalid candidate")
		return
	}

	c, err := s.store.UpdateCandidate(r.Context(), userID, id, in)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		failure(w, s.logger, err, "Failed to update candidate")
		return
	}
	jsonResponse(w, http.StatusOK, newCandidateResponse(c, time.Now()))
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "candidate")
	if !ok {
		return
	}

	if err := s.store.DeleteCandidate(r.Context(), userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		failure(w, s.logger, err, "Failed to delete candidate")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListCandidateDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "candidate")
	if !ok {
		return
	}

	c, err := s.store.GetCandidate(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get candidate")
		return
	}
	if c == nil {
		errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	docs, err := s.store.ListCandidateDocuments(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to list candidate documents")
		return
	}
	jsonResponse(w, http.StatusOK, summaries(docs))
}
