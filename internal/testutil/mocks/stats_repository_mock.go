package mocks

import (
	"context"
	"time"

	"github.com/nmarques/flashdeck/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) DeckStats(ctx context.Context, userID, deckID int64, now time.Time) (*models.DeckStats, error) {
	args := m.Called(ctx, userID, deckID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckStats), args.Error(1)
}
