package services

import (
	"context"
	"strings"
	"time"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
)

// DeckService handles deck management and statistics
type DeckService interface {
	Create(ctx context.Context, userID int64, name, description string, opts models.DeckOptions) (*models.Deck, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, userID int64) ([]models.Deck, error)
	UpdateOptions(ctx context.Context, id int64, opts models.DeckOptions) (*models.Deck, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, userID, deckID int64) (*models.DeckStats, error)
}

type deckService struct {
	decks repository.DeckRepository
	stats repository.StatsRepository
	now   func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, stats repository.StatsRepository) DeckService {
	return &deckService{decks: decks, stats: stats, now: time.Now}
}

func (s *deckService) Create(ctx context.Context, userID int64, name, description string, opts models.DeckOptions) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%d, name=%s", userID, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	deck := models.Deck{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Options:     opts,
	}
	id, err := s.decks.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewStorageError(err)
	}
	return s.Get(ctx, id)
}

func (s *deckService) Get(ctx context.Context, id int64) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) List(ctx context.Context, userID int64) ([]models.Deck, error) {
	decks, err := s.decks.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return decks, nil
}

func (s *deckService) UpdateOptions(ctx context.Context, id int64, opts models.DeckOptions) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck options: deck_id=%d", id)

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if err := s.decks.UpdateOptions(ctx, id, opts); err != nil {
		log.Error("failed to update deck options: %v", err)
		return nil, errors.NewStorageError(err)
	}
	return s.Get(ctx, id)
}

func (s *deckService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: deck_id=%d", id)

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewStorageError(err)
	}
	return nil
}

func (s *deckService) Stats(ctx context.Context, userID, deckID int64) (*models.DeckStats, error) {
	if _, err := s.Get(ctx, deckID); err != nil {
		return nil, err
	}
	stats, err := s.stats.DeckStats(ctx, userID, deckID, s.now())
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return stats, nil
}

// validateOptions rejects values the scheduler would silently fall back on,
// so misconfiguration surfaces at write time instead of study time.
func validateOptions(opts models.DeckOptions) error {
	if opts.EasyBonus != nil && *opts.EasyBonus <= 0 {
		return errors.NewValidationError("easy_bonus", "must be greater than zero")
	}
	if opts.HardIntervalFactor != nil && *opts.HardIntervalFactor <= 0 {
		return errors.NewValidationError("hard_interval_factor", "must be greater than zero")
	}
	if opts.LapseIntervalPercent != nil && (*opts.LapseIntervalPercent < 0 || *opts.LapseIntervalPercent > 100) {
		return errors.NewValidationError("lapse_interval_percent", "must be between 0 and 100")
	}
	if opts.IntervalModifier != nil && *opts.IntervalModifier <= 0 {
		return errors.NewValidationError("interval_modifier", "must be greater than zero")
	}
	if opts.MaxIntervalDays != nil && *opts.MaxIntervalDays < 1 {
		return errors.NewValidationError("max_interval_days", "must be at least 1")
	}
	return nil
}
