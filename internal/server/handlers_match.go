package server

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/logging"
	"github.com/jonathan/talent-match/internal/types"
)

const maxQueryListLimit = 200

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.MatchRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		errorResponse(w, http.StatusBadRequest, "query is empty")
		return
	}

	matches, err := s.matcher.Rank(r.Context(), userID, query, req.Limit)
	if err != nil {
		failure(w, s.logger, err, "Failed to rank candidates")
		return
	}

	queryID, err := s.store.SaveSearchQuery(r.Context(), userID, query, matches)
	if err != nil {
		failure(w, s.logger, err, "Failed to record search")
		return
	}

	s.logger.Info("match served",
		zap.String("query_id", queryID.String()),
		zap.String("query", logging.Truncate(query, 80)),
		zap.Int("matches", len(matches)))

	jsonResponse(w, http.StatusOK, types.MatchResponse{
		QueryID: queryID,
		Query:   query,
		Matches: matches,
	})
}

func (s *Server) handleListQueries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxQueryListLimit {
			errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	queries, err := s.store.ListSearchQueries(r.Context(), userID, limit)
	if err != nil {
		failure(w, s.logger, err, "Failed to list searches")
		return
	}
	jsonResponse(w, http.StatusOK, queries)
}

func (s *Server) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "query")
	if !ok {
		return
	}

	q, err := s.store.GetSearchQuery(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get search")
		return
	}
	if q == nil {
		errorResponse(w, http.StatusNotFound, "Search not found")
		return
	}
	jsonResponse(w, http.StatusOK, q)
}
