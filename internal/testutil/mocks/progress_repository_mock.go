package mocks

import (
	"context"
	"time"

	"github.com/nmarques/flashdeck/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, cardID int64) (*models.CardProgress, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardProgress), args.Error(1)
}

func (m *MockProgressRepository) Update(ctx context.Context, progress models.CardProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) EnsureForDeck(ctx context.Context, userID, deckID int64, now time.Time) error {
	args := m.Called(ctx, userID, deckID, now)
	return args.Error(0)
}

func (m *MockProgressRepository) DueCards(ctx context.Context, userID, deckID int64, now time.Time, limit int) ([]models.CardWithProgress, error) {
	args := m.Called(ctx, userID, deckID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardWithProgress), args.Error(1)
}

func (m *MockProgressRepository) LearningCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardWithProgress), args.Error(1)
}

func (m *MockProgressRepository) SubDayCards(ctx context.Context, userID, deckID int64, now time.Time) ([]models.CardWithProgress, error) {
	args := m.Called(ctx, userID, deckID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardWithProgress), args.Error(1)
}

func (m *MockProgressRepository) DueDecks(ctx context.Context, userID int64, now time.Time) ([]models.DueDeck, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueDeck), args.Error(1)
}

func (m *MockProgressRepository) NextDueAt(ctx context.Context, userID, deckID int64, now time.Time) (*time.Time, error) {
	args := m.Called(ctx, userID, deckID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockProgressRepository) InsertReviewLog(ctx context.Context, progressID int64, rating models.Rating, timeSeconds float64) error {
	args := m.Called(ctx, progressID, rating, timeSeconds)
	return args.Error(0)
}
