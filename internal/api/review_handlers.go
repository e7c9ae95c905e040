package api

import (
	"net/http"
	"time"

	"github.com/nmarques/flashdeck/internal/models"
)

type reviewRequest struct {
	Rating      int     `json:"rating"`
	TimeSeconds float64 `json:"time_seconds"`
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	card, err := s.loadOwnedCard(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.Reviews.Grade(r.Context(), user.ID, card.ID, models.Rating(req.Rating), req.TimeSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handlePreviewIntervals(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	card, err := s.loadOwnedCard(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	preview, err := s.Reviews.Preview(r.Context(), user.ID, card.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := queryInt(r, "limit", 0)
	cards, err := s.Reviews.DueQueue(r.Context(), user.ID, deck.ID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleDueAllDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	limit := queryInt(r, "limit", 0)
	cards, err := s.Reviews.DueQueue(r.Context(), user.ID, 0, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleDueDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.Reviews.DueDecks(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) handleLearningCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Reviews.LearningCards(r.Context(), user.ID, deck.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleUpcomingCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Reviews.UpcomingCards(r.Context(), user.ID, deck.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleNextDue(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	next, err := s.Reviews.NextDueAt(r.Context(), user.ID, deck.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var nextStr *string
	if next != nil {
		formatted := next.Format(time.RFC3339)
		nextStr = &formatted
	}
	respondJSON(w, http.StatusOK, map[string]any{"next_due_at": nextStr})
}
