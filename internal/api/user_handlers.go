package api

import (
	"net/http"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
)

type loginRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Users.Login(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearUserCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Users can only delete themselves.
	current := userFromContext(r.Context())
	if current == nil || current.ID != id {
		handleError(w, r, errors.NewBadRequestError("cannot delete another user"))
		return
	}

	if err := s.Users.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("user deleted: id=%d", id)
	clearUserCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
