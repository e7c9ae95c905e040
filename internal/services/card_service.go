package services

import (
	"context"
	"strings"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
)

// CardService handles card management
type CardService interface {
	Create(ctx context.Context, deckID int64, front, back string) (*models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, deckID int64, limit, offset int) ([]models.Card, error)
	Delete(ctx context.Context, id int64) error
}

type cardService struct {
	cards repository.CardRepository
	decks repository.DeckRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, decks repository.DeckRepository) CardService {
	return &cardService{cards: cards, decks: decks}
}

func (s *cardService) Create(ctx context.Context, deckID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: deck_id=%d", deckID)

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.NewValidationError("front", "must not be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "must not be empty")
	}

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	id, err := s.cards.Insert(ctx, models.Card{DeckID: deckID, Front: front, Back: back})
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewStorageError(err)
	}
	return s.Get(ctx, id)
}

func (s *cardService) Get(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) List(ctx context.Context, deckID int64, limit, offset int) ([]models.Card, error) {
	cards, err := s.cards.ListForDeck(ctx, deckID, limit, offset)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return cards, nil
}

func (s *cardService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: card_id=%d", id)

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewStorageError(err)
	}
	return nil
}
