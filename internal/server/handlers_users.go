package server

import "net/http"

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		failure(w, s.logger, err, "Failed to get user")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}
