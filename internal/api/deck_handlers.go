package api

import (
	"net/http"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
)

type createDeckRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Options     models.DeckOptions `json:"options"`
}

// loadOwnedDeck resolves the {id} route param to a deck owned by the
// current user. Decks belonging to other users report not-found rather
// than forbidden, to avoid leaking which IDs exist.
func (s *Server) loadOwnedDeck(r *http.Request) (*models.Deck, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	deck, err := s.Decks.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	user := userFromContext(r.Context())
	if user == nil || deck.UserID != user.ID {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.Decks.List(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.Create(r.Context(), user.ID, req.Name, req.Description, req.Options)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck created: id=%d, name=%s", deck.ID, deck.Name)
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeckOptions(w http.ResponseWriter, r *http.Request) {
	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var opts models.DeckOptions
	if err := decodeJSON(r, &opts); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.Decks.UpdateOptions(r.Context(), deck.ID, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Decks.Delete(r.Context(), deck.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck deleted: id=%d", deck.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.Decks.Stats(r.Context(), user.ID, deck.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
