package repository

import (
	"context"
	"time"

	"github.com/nmarques/flashdeck/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	UpdateOptions(ctx context.Context, id int64, opts models.DeckOptions) error
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	ListForDeck(ctx context.Context, deckID int64, limit, offset int) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

// ProgressRepository handles per-user scheduling state and due-set queries.
// Every query takes "now" from the caller; the repository never reads the
// wall clock itself.
type ProgressRepository interface {
	Get(ctx context.Context, userID, cardID int64) (*models.CardProgress, error)
	Update(ctx context.Context, progress models.CardProgress) error
	EnsureForDeck(ctx context.Context, userID, deckID int64, now time.Time) error
	DueCards(ctx context.Context, userID, deckID int64, now time.Time, limit int) ([]models.CardWithProgress, error)
	LearningCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error)
	SubDayCards(ctx context.Context, userID, deckID int64, now time.Time) ([]models.CardWithProgress, error)
	DueDecks(ctx context.Context, userID int64, now time.Time) ([]models.DueDeck, error)
	NextDueAt(ctx context.Context, userID, deckID int64, now time.Time) (*time.Time, error)
	InsertReviewLog(ctx context.Context, progressID int64, rating models.Rating, timeSeconds float64) error
}

// StatsRepository handles aggregate statistics
type StatsRepository interface {
	DeckStats(ctx context.Context, userID, deckID int64, now time.Time) (*models.DeckStats, error)
}
