package services_test

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/services"
	"github.com/nmarques/flashdeck/internal/srs"
	"github.com/nmarques/flashdeck/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewService() (services.ReviewService, *mocks.MockProgressRepository, *mocks.MockCardRepository, *mocks.MockDeckRepository) {
	progress := new(mocks.MockProgressRepository)
	cards := new(mocks.MockCardRepository)
	decks := new(mocks.MockDeckRepository)
	svc := services.NewReviewService(progress, cards, decks, srs.New(srs.WithoutFuzz()))
	return svc, progress, cards, decks
}

func TestGradeRejectsInvalidRating(t *testing.T) {
	svc, _, _, _ := newReviewService()

	_, err := svc.Grade(context.Background(), 1, 1, models.Rating(0), 0)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestGradeCardNotFound(t *testing.T) {
	svc, _, cards, _ := newReviewService()
	cards.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	_, err := svc.Grade(context.Background(), 1, 42, models.RatingGood, 0)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	cards.AssertExpectations(t)
}

func TestGradeReschedulesAndPersists(t *testing.T) {
	svc, progress, cards, decks := newReviewService()

	card := &models.Card{ID: 7, DeckID: 3, Front: "hola", Back: "hello"}
	deck := &models.Deck{ID: 3, UserID: 1, Name: "Spanish"}
	existing := &models.CardProgress{
		ID:           11,
		UserID:       1,
		CardID:       7,
		State:        models.StateReview,
		EaseFactor:   2.5,
		IntervalDays: 10,
		Repetitions:  2,
		DueAt:        time.Now().Add(-time.Hour),
	}

	cards.On("Get", mock.Anything, int64(7)).Return(card, nil)
	decks.On("Get", mock.Anything, int64(3)).Return(deck, nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(existing, nil)
	progress.On("Update", mock.Anything, mock.MatchedBy(func(p models.CardProgress) bool {
		return p.ID == 11 && p.State == models.StateReview && p.Repetitions == 3 && p.IntervalDays > 10
	})).Return(nil)
	progress.On("InsertReviewLog", mock.Anything, int64(11), models.RatingGood, 4.2).Return(nil)

	updated, err := svc.Grade(context.Background(), 1, 7, models.RatingGood, 4.2)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, updated.Repetitions)
	assert.Greater(t, updated.IntervalDays, 10)
	require.NotNil(t, updated.LastReviewedAt)

	progress.AssertExpectations(t)
	cards.AssertExpectations(t)
	decks.AssertExpectations(t)
}

func TestGradeSucceedsWhenReviewLogFails(t *testing.T) {
	svc, progress, cards, decks := newReviewService()

	card := &models.Card{ID: 7, DeckID: 3}
	deck := &models.Deck{ID: 3, UserID: 1}
	existing := &models.CardProgress{
		ID:         11,
		UserID:     1,
		CardID:     7,
		State:      models.StateNew,
		EaseFactor: 2.5,
		DueAt:      time.Now(),
	}

	cards.On("Get", mock.Anything, int64(7)).Return(card, nil)
	decks.On("Get", mock.Anything, int64(3)).Return(deck, nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(existing, nil)
	progress.On("Update", mock.Anything, mock.Anything).Return(nil)
	progress.On("InsertReviewLog", mock.Anything, int64(11), models.RatingAgain, 0.0).
		Return(assert.AnError)

	updated, err := svc.Grade(context.Background(), 1, 7, models.RatingAgain, 0)
	require.NoError(t, err)
	assert.Equal(t, models.StateLearning, updated.State)
}

func TestGradeCreatesProgressLazily(t *testing.T) {
	svc, progress, cards, decks := newReviewService()

	card := &models.Card{ID: 7, DeckID: 3}
	deck := &models.Deck{ID: 3, UserID: 1}
	created := &models.CardProgress{
		ID:         21,
		UserID:     1,
		CardID:     7,
		State:      models.StateNew,
		EaseFactor: 2.5,
		DueAt:      time.Now(),
	}

	cards.On("Get", mock.Anything, int64(7)).Return(card, nil)
	decks.On("Get", mock.Anything, int64(3)).Return(deck, nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(nil, nil).Once()
	progress.On("EnsureForDeck", mock.Anything, int64(1), int64(3), mock.Anything).Return(nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(created, nil).Once()
	progress.On("Update", mock.Anything, mock.Anything).Return(nil)
	progress.On("InsertReviewLog", mock.Anything, int64(21), models.RatingGood, 0.0).Return(nil)

	updated, err := svc.Grade(context.Background(), 1, 7, models.RatingGood, 0)
	require.NoError(t, err)
	assert.Equal(t, models.StateReview, updated.State)
	assert.Equal(t, 1, updated.IntervalDays)
	progress.AssertExpectations(t)
}

func TestGradeUsesOneClockReading(t *testing.T) {
	svc, progress, cards, decks := newReviewService()

	card := &models.Card{ID: 7, DeckID: 3}
	deck := &models.Deck{ID: 3, UserID: 1}
	created := &models.CardProgress{
		ID:         21,
		UserID:     1,
		CardID:     7,
		State:      models.StateNew,
		EaseFactor: 2.5,
	}

	var ensuredAt time.Time
	cards.On("Get", mock.Anything, int64(7)).Return(card, nil)
	decks.On("Get", mock.Anything, int64(3)).Return(deck, nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(nil, nil).Once()
	progress.On("EnsureForDeck", mock.Anything, int64(1), int64(3), mock.Anything).
		Run(func(args mock.Arguments) {
			ensuredAt = args.Get(3).(time.Time)
		}).Return(nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(created, nil).Once()
	progress.On("Update", mock.Anything, mock.Anything).Return(nil)
	progress.On("InsertReviewLog", mock.Anything, int64(21), models.RatingAgain, 0.0).Return(nil)

	updated, err := svc.Grade(context.Background(), 1, 7, models.RatingAgain, 0)
	require.NoError(t, err)

	// The instant that seeded the lazy row is the same one the schedule
	// was computed from.
	require.NotNil(t, updated.LastReviewedAt)
	assert.True(t, updated.LastReviewedAt.Equal(ensuredAt))
	assert.True(t, updated.DueAt.Equal(ensuredAt.Add(2*time.Minute)))
}

func TestDueQueueEnsuresProgressFirst(t *testing.T) {
	svc, progress, _, _ := newReviewService()

	due := []models.CardWithProgress{
		{Card: models.Card{ID: 1, DeckID: 3}},
	}
	progress.On("EnsureForDeck", mock.Anything, int64(1), int64(3), mock.Anything).Return(nil)
	progress.On("DueCards", mock.Anything, int64(1), int64(3), mock.Anything, 20).Return(due, nil)

	cards, err := svc.DueQueue(context.Background(), 1, 3, 20)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	progress.AssertExpectations(t)
}

func TestDueQueueAcrossAllDecks(t *testing.T) {
	svc, progress, _, decks := newReviewService()

	userDecks := []models.Deck{
		{ID: 3, UserID: 1, Name: "Spanish"},
		{ID: 4, UserID: 1, Name: "French"},
	}
	decks.On("ListForUser", mock.Anything, int64(1)).Return(userDecks, nil)
	progress.On("EnsureForDeck", mock.Anything, int64(1), int64(3), mock.Anything).Return(nil)
	progress.On("EnsureForDeck", mock.Anything, int64(1), int64(4), mock.Anything).Return(nil)
	progress.On("DueCards", mock.Anything, int64(1), int64(0), mock.Anything, 0).
		Return([]models.CardWithProgress{}, nil)

	_, err := svc.DueQueue(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	progress.AssertExpectations(t)
	decks.AssertExpectations(t)
}

func TestPreviewDoesNotMutateState(t *testing.T) {
	svc, progress, cards, decks := newReviewService()

	card := &models.Card{ID: 7, DeckID: 3}
	deck := &models.Deck{ID: 3, UserID: 1}
	existing := &models.CardProgress{
		ID:           11,
		UserID:       1,
		CardID:       7,
		State:        models.StateReview,
		EaseFactor:   2.5,
		IntervalDays: 10,
		Repetitions:  2,
	}

	cards.On("Get", mock.Anything, int64(7)).Return(card, nil)
	decks.On("Get", mock.Anything, int64(3)).Return(deck, nil)
	progress.On("Get", mock.Anything, int64(1), int64(7)).Return(existing, nil)

	preview, err := svc.Preview(context.Background(), 1, 7)
	require.NoError(t, err)
	require.NotNil(t, preview)
	assert.Equal(t, 2, preview.Again)
	assert.Greater(t, preview.Good, preview.Hard)
	assert.Greater(t, preview.Easy, preview.Good)

	// No Update expectation was registered; AssertExpectations would fail
	// if the preview wrote anything back.
	progress.AssertExpectations(t)
}

func TestNextDueAtPassesThrough(t *testing.T) {
	svc, progress, _, _ := newReviewService()

	next := time.Now().Add(10 * time.Minute)
	progress.On("NextDueAt", mock.Anything, int64(1), int64(3), mock.Anything).Return(&next, nil)

	got, err := svc.NextDueAt(context.Background(), 1, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(next))
}
