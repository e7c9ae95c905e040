package api

import (
	"net/http"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
)

type createCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// loadOwnedCard resolves the {id} route param to a card whose deck is
// owned by the current user.
func (s *Server) loadOwnedCard(r *http.Request) (*models.Card, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	card, err := s.Cards.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	deck, err := s.Decks.Get(r.Context(), card.DeckID)
	if err != nil {
		return nil, err
	}
	user := userFromContext(r.Context())
	if user == nil || deck.UserID != user.ID {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	cards, err := s.Cards.List(r.Context(), deck.ID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.Create(r.Context(), deck.ID, req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card created: id=%d, deck_id=%d", card.ID, deck.ID)
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.loadOwnedCard(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	card, err := s.loadOwnedCard(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Cards.Delete(r.Context(), card.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card deleted: id=%d", card.ID)
	w.WriteHeader(http.StatusNoContent)
}
