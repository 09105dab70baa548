package server

import (
	"net/http"

	"github.com/jonathan/talent-match/internal/types"
	"github.com/jonathan/talent-match/internal/validation"
)

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.CreateCompanyRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}

	c, err := s.store.CreateCompany(r.Context(), userID, req.Name, validation.NormalizeCNPJ(req.CNPJ))
	if err != nil {
		failure(w, s.logger, err, "Failed to create company")
		return
	}
	jsonResponse(w, http.StatusCreated, c)
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	companies, err := s.store.ListCompanies(r.Context())
	if err != nil {
		failure(w, s.logger, err, "Failed to list companies")
		return
	}
	jsonResponse(w, http.StatusOK, companies)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "company")
	if !ok {
		return
	}

	c, err := s.store.GetCompanyByID(r.Context(), id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get company")
		return
	}
	if c == nil {
		errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}
	jsonResponse(w, http.StatusOK, c)
}
