package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/types"
)

// profileResponse adds the rendered summary to a profile.
type profileResponse struct {
	*db.Profile
	Summary string `json:"summary"`
}

func newProfileResponse(p *db.Profile) profileResponse {
	return profileResponse{Profile: p, Summary: p.Summary()}
}

// profileInput trims the request and drops blank or repeated skills,
// keeping the first spelling of each.
func profileInput(req *types.ProfileRequest) db.ProfileInput {
	seen := make(map[string]bool, len(req.TopSkills))
	skills := make([]string, 0, len(req.TopSkills))
	for _, s := range req.TopSkills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
	}
	return db.ProfileInput{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		TopSkills:   skills,
	}
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.ProfileRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}

	p, err := s.store.CreateProfile(r.Context(), userID, profileInput(&req))
	if err != nil {
		failure(w, s.logger, err, "Failed to create profile")
		return
	}
	jsonResponse(w, http.StatusCreated, newProfileResponse(p))
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	profiles, err := s.store.ListProfiles(r.Context(), userID)
	if err != nil {
		failure(w, s.logger, err, "Failed to list profiles")
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, newProfileResponse(&profiles[i]))
	}
	jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}

	p, err := s.store.GetProfile(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get profile")
		return
	}
	if p == nil {
		errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}
	jsonResponse(w, http.StatusOK, newProfileResponse(p))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}

	var req types.ProfileRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}

	p, err := s.store.UpdateProfile(r.Context(), userID, id, profileInput(&req))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Profile not found")
			return
		}
		failure(w, s.logger, err, "Failed to update profile")
		return
	}
	jsonResponse(w, http.StatusOK, newProfileResponse(p))
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}

	if err := s.store.DeleteProfile(r.Context(), userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Profile not found")
			return
		}
		failure(w, s.logger, err, "Failed to delete profile")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddProfileSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}

	var req types.ProfileSkillRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}
	skill := strings.TrimSpace(req.Skill)
	if skill == "" {
		errorResponse(w, http.StatusBadRequest, "validation error: skill - required")
		return
	}

	p, err := s.store.AddProfileSkill(r.Context(), userID, id, skill)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Profile not found")
			return
		}
		failure(w, s.logger, err, "Failed to add skill")
		return
	}
	jsonResponse(w, http.StatusOK, newProfileResponse(p))
}

func (s *Server) handleListProfileCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "profile")
	if !ok {
		return
	}

	p, err := s.store.GetProfile(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get profile")
		return
	}
	if p == nil {
		errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	candidates, err := s.store.ListProfileCandidates(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to list profile candidates")
		return
	}
	now := time.Now()
	out := make([]candidateResponse, 0, len(candidates))
	for i := range candidates {
		out = append(out, newCandidateResponse(&candidates[i], now))
	}
	jsonResponse(w, http.StatusOK, out)
}

// profileMember parses the {id} and {candidateID} path values.
func profileMember(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	profileID, ok := pathID(w, r, "profile")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	candidateID, err := uuid.Parse(r.PathValue("candidateID"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return uuid.Nil, uuid.Nil, false
	}
	return profileID, candidateID, true
}

func (s *Server) handleAddProfileCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	profileID, candidateID, ok := profileMember(w, r)
	if !ok {
		return
	}

	if err := s.store.AddProfileCandidate(r.Context(), userID, profileID, candidateID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Profile or candidate not found")
			return
		}
		failure(w, s.logger, err, "Failed to add candidate to profile")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "added"})
}

func (s *Server) handleRemoveProfileCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	profileID, candidateID, ok := profileMember(w, r)
	if !ok {
		return
	}

	if err := s.store.RemoveProfileCandidate(r.Context(), userID, profileID, candidateID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Candidate is not in this profile")
			return
		}
		failure(w, s.logger, err, "Failed to remove candidate from profile")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "removed"})
}
