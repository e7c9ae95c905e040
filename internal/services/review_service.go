package services

import (
	"context"
	"time"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
	"github.com/nmarques/flashdeck/internal/srs"
)

// ReviewService handles review grading and due-queue business logic
type ReviewService interface {
	Grade(ctx context.Context, userID, cardID int64, rating models.Rating, timeSeconds float64) (*models.CardProgress, error)
	DueQueue(ctx context.Context, userID, deckID int64, limit int) ([]models.CardWithProgress, error)
	Preview(ctx context.Context, userID, cardID int64) (*srs.IntervalPreview, error)
	LearningCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error)
	UpcomingCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error)
	DueDecks(ctx context.Context, userID int64) ([]models.DueDeck, error)
	NextDueAt(ctx context.Context, userID, deckID int64) (*time.Time, error)
}

type reviewService struct {
	progress  repository.ProgressRepository
	cards     repository.CardRepository
	decks     repository.DeckRepository
	scheduler *srs.Scheduler
	now       func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(progress repository.ProgressRepository, cards repository.CardRepository, decks repository.DeckRepository, scheduler *srs.Scheduler) ReviewService {
	return &reviewService{
		progress:  progress,
		cards:     cards,
		decks:     decks,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Grade applies a rating to a card and persists the rescheduled progress.
func (s *reviewService) Grade(ctx context.Context, userID, cardID int64, rating models.Rating, timeSeconds float64) (*models.CardProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("grading card: user_id=%d, card_id=%d, rating=%s", userID, cardID, rating)

	if !rating.Valid() {
		return nil, errors.NewValidationError("rating", "must be between 1 (again) and 4 (easy)")
	}

	card, deck, err := s.loadCardAndDeck(ctx, cardID)
	if err != nil {
		return nil, err
	}

	// One clock read per grading operation: the same instant seeds the
	// lazily created row and the schedule computation.
	now := s.now()
	progress, err := s.loadOrCreateProgress(ctx, userID, card, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.scheduler.ScheduleNextReview(*progress, rating, deck.Options, now)
	if err != nil {
		return nil, errors.NewValidationError("rating", err.Error())
	}

	log.Debug("card rescheduled: state=%s, interval=%d days, ease=%.2f, due=%s",
		updated.State, updated.IntervalDays, updated.EaseFactor, updated.DueAt.Format(time.RFC3339))

	if err := s.progress.Update(ctx, updated); err != nil {
		log.Error("failed to persist progress: %v", err)
		return nil, errors.NewStorageError(err)
	}

	// The review itself already succeeded; a log failure is not worth
	// surfacing to the user.
	if err := s.progress.InsertReviewLog(ctx, updated.ID, rating, timeSeconds); err != nil {
		log.Warn("failed to store review log: %v", err)
	}

	return &updated, nil
}

// DueQueue returns the cards ready for study, creating missing progress
// rows first so new cards show up immediately.
func (s *reviewService) DueQueue(ctx context.Context, userID, deckID int64, limit int) ([]models.CardWithProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("building due queue: user_id=%d, deck_id=%d, limit=%d", userID, deckID, limit)

	now := s.now()
	if deckID != 0 {
		if err := s.progress.EnsureForDeck(ctx, userID, deckID, now); err != nil {
			return nil, errors.NewStorageError(err)
		}
	} else {
		decks, err := s.decks.ListForUser(ctx, userID)
		if err != nil {
			return nil, errors.NewStorageError(err)
		}
		for _, d := range decks {
			if err := s.progress.EnsureForDeck(ctx, userID, d.ID, now); err != nil {
				return nil, errors.NewStorageError(err)
			}
		}
	}

	cards, err := s.progress.DueCards(ctx, userID, deckID, now, limit)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return cards, nil
}

// Preview computes what each of the four ratings would do to the card,
// without changing any state.
func (s *reviewService) Preview(ctx context.Context, userID, cardID int64) (*srs.IntervalPreview, error) {
	log := logger.FromContext(ctx)
	log.Debug("previewing intervals: user_id=%d, card_id=%d", userID, cardID)

	card, deck, err := s.loadCardAndDeck(ctx, cardID)
	if err != nil {
		return nil, err
	}

	progress, err := s.loadOrCreateProgress(ctx, userID, card, s.now())
	if err != nil {
		return nil, err
	}

	preview := s.scheduler.PreviewNextIntervals(*progress, deck.Options)
	return &preview, nil
}

func (s *reviewService) LearningCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error) {
	cards, err := s.progress.LearningCards(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return cards, nil
}

func (s *reviewService) UpcomingCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error) {
	cards, err := s.progress.SubDayCards(ctx, userID, deckID, s.now())
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return cards, nil
}

func (s *reviewService) DueDecks(ctx context.Context, userID int64) ([]models.DueDeck, error) {
	decks, err := s.progress.DueDecks(ctx, userID, s.now())
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return decks, nil
}

func (s *reviewService) NextDueAt(ctx context.Context, userID, deckID int64) (*time.Time, error) {
	next, err := s.progress.NextDueAt(ctx, userID, deckID, s.now())
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return next, nil
}

func (s *reviewService) loadCardAndDeck(ctx context.Context, cardID int64) (*models.Card, *models.Deck, error) {
	log := logger.FromContext(ctx)

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		log.Error("failed to load card: %v", err)
		return nil, nil, errors.NewStorageError(err)
	}
	if card == nil {
		return nil, nil, errors.NewNotFoundError("card", cardID)
	}

	deck, err := s.decks.Get(ctx, card.DeckID)
	if err != nil {
		log.Error("failed to load deck: %v", err)
		return nil, nil, errors.NewStorageError(err)
	}
	if deck == nil {
		return nil, nil, errors.NewNotFoundError("deck", card.DeckID)
	}
	return card, deck, nil
}

func (s *reviewService) loadOrCreateProgress(ctx context.Context, userID int64, card *models.Card, now time.Time) (*models.CardProgress, error) {
	log := logger.FromContext(ctx)

	progress, err := s.progress.Get(ctx, userID, card.ID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if progress != nil {
		return progress, nil
	}

	// First contact with this card: create the row lazily.
	if err := s.progress.EnsureForDeck(ctx, userID, card.DeckID, now); err != nil {
		log.Error("failed to create progress rows: %v", err)
		return nil, errors.NewStorageError(err)
	}
	progress, err = s.progress.Get(ctx, userID, card.ID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("card progress", card.ID)
	}
	return progress, nil
}
