package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
	"github.com/nmarques/flashdeck/internal/repository/sqlite"
	"github.com/nmarques/flashdeck/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) setupUserAndDeck() (int64, int64) {
	ctx := context.Background()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, "testuser")
	s.Require().NoError(err)
	userID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, "Spanish")
	s.Require().NoError(err)
	deckID, err := res.LastInsertId()
	s.Require().NoError(err)

	return userID, deckID
}

func (s *ProgressRepositorySuite) insertCard(deckID int64, front string) int64 {
	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO cards (deck_id, front, back) VALUES (?, ?, ?)`, deckID, front, "back")
	s.Require().NoError(err)
	id, err := res.LastInsertId()
	s.Require().NoError(err)
	return id
}

func (s *ProgressRepositorySuite) TestGetMissingReturnsNil() {
	ctx := context.Background()
	userID, _ := s.setupUserAndDeck()

	progress, err := s.repo.Get(ctx, userID, 999)
	s.Require().NoError(err)
	s.Assert().Nil(progress)
}

func (s *ProgressRepositorySuite) TestEnsureForDeckCreatesMissingRows() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	cardID1 := s.insertCard(deckID, "hola")
	cardID2 := s.insertCard(deckID, "adios")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	err := s.repo.EnsureForDeck(ctx, userID, deckID, now)
	s.Require().NoError(err)

	p1, err := s.repo.Get(ctx, userID, cardID1)
	s.Require().NoError(err)
	s.Require().NotNil(p1)
	s.Assert().Equal(models.StateNew, p1.State)
	s.Assert().Equal(models.DefaultEaseFactor, p1.EaseFactor)
	s.Assert().Equal(0, p1.IntervalDays)
	s.Assert().Nil(p1.LastReviewedAt)

	p2, err := s.repo.Get(ctx, userID, cardID2)
	s.Require().NoError(err)
	s.Require().NotNil(p2)

	// A second call must not duplicate or reset rows
	p1.State = models.StateReview
	p1.IntervalDays = 6
	s.Require().NoError(s.repo.Update(ctx, *p1))

	err = s.repo.EnsureForDeck(ctx, userID, deckID, now.Add(time.Hour))
	s.Require().NoError(err)

	again, err := s.repo.Get(ctx, userID, cardID1)
	s.Require().NoError(err)
	s.Assert().Equal(models.StateReview, again.State)
	s.Assert().Equal(6, again.IntervalDays)
}

func (s *ProgressRepositorySuite) TestUpdateRoundTrip() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	cardID := s.insertCard(deckID, "hola")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now))

	p, err := s.repo.Get(ctx, userID, cardID)
	s.Require().NoError(err)
	s.Require().NotNil(p)

	reviewed := now.Add(time.Minute)
	p.State = models.StateLearning
	p.EaseFactor = 2.36
	p.Repetitions = 1
	p.Lapses = 1
	p.LearningStepIndex = 1
	p.DueAt = now.Add(10 * time.Minute)
	p.LastReviewedAt = &reviewed
	s.Require().NoError(s.repo.Update(ctx, *p))

	got, err := s.repo.Get(ctx, userID, cardID)
	s.Require().NoError(err)
	s.Assert().Equal(models.StateLearning, got.State)
	s.Assert().InDelta(2.36, got.EaseFactor, 0.0001)
	s.Assert().Equal(1, got.Repetitions)
	s.Assert().Equal(1, got.Lapses)
	s.Assert().Equal(1, got.LearningStepIndex)
	s.Assert().WithinDuration(now.Add(10*time.Minute), got.DueAt, time.Second)
	s.Require().NotNil(got.LastReviewedAt)
	s.Assert().WithinDuration(reviewed, *got.LastReviewedAt, time.Second)
}

func (s *ProgressRepositorySuite) TestDueCardsOrdersLearningFirst() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	reviewCard := s.insertCard(deckID, "review")
	learningCard := s.insertCard(deckID, "learning")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now))

	// Review card overdue since yesterday; learning card overdue by a minute.
	p, err := s.repo.Get(ctx, userID, reviewCard)
	s.Require().NoError(err)
	p.State = models.StateReview
	p.DueAt = now.Add(-24 * time.Hour)
	s.Require().NoError(s.repo.Update(ctx, *p))

	p, err = s.repo.Get(ctx, userID, learningCard)
	s.Require().NoError(err)
	p.State = models.StateLearning
	p.DueAt = now.Add(-time.Minute)
	s.Require().NoError(s.repo.Update(ctx, *p))

	due, err := s.repo.DueCards(ctx, userID, deckID, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Assert().Equal(learningCard, due[0].ID)
	s.Assert().Equal(reviewCard, due[1].ID)
}

func (s *ProgressRepositorySuite) TestDueCardsRespectsLimitAndFutureCards() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	card1 := s.insertCard(deckID, "c1")
	card2 := s.insertCard(deckID, "c2")
	futureCard := s.insertCard(deckID, "c3")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now.Add(-time.Hour)))

	p, err := s.repo.Get(ctx, userID, futureCard)
	s.Require().NoError(err)
	p.DueAt = now.Add(48 * time.Hour)
	s.Require().NoError(s.repo.Update(ctx, *p))

	due, err := s.repo.DueCards(ctx, userID, deckID, now, 0)
	s.Require().NoError(err)
	s.Assert().Len(due, 2)

	due, err = s.repo.DueCards(ctx, userID, deckID, now, 1)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Contains([]int64{card1, card2}, due[0].ID)
}

func (s *ProgressRepositorySuite) TestDueCardsAcrossAllDecks() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()

	res, err := s.db.ExecContext(ctx, `INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, "French")
	s.Require().NoError(err)
	deckID2, err := res.LastInsertId()
	s.Require().NoError(err)

	s.insertCard(deckID, "hola")
	s.insertCard(deckID2, "bonjour")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now.Add(-time.Minute)))
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID2, now.Add(-time.Minute)))

	due, err := s.repo.DueCards(ctx, userID, 0, now, 0)
	s.Require().NoError(err)
	s.Assert().Len(due, 2)

	due, err = s.repo.DueCards(ctx, userID, deckID2, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Equal(deckID2, due[0].DeckID)
}

func (s *ProgressRepositorySuite) TestLearningAndSubDayCards() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	overdueLearning := s.insertCard(deckID, "overdue")
	upcomingLearning := s.insertCard(deckID, "upcoming")
	reviewCard := s.insertCard(deckID, "review")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now))

	p, err := s.repo.Get(ctx, userID, overdueLearning)
	s.Require().NoError(err)
	p.State = models.StateLearning
	p.DueAt = now.Add(-time.Minute)
	s.Require().NoError(s.repo.Update(ctx, *p))

	p, err = s.repo.Get(ctx, userID, upcomingLearning)
	s.Require().NoError(err)
	p.State = models.StateLearning
	p.DueAt = now.Add(9 * time.Minute)
	s.Require().NoError(s.repo.Update(ctx, *p))

	p, err = s.repo.Get(ctx, userID, reviewCard)
	s.Require().NoError(err)
	p.State = models.StateReview
	p.DueAt = now.Add(-time.Hour)
	s.Require().NoError(s.repo.Update(ctx, *p))

	learning, err := s.repo.LearningCards(ctx, userID, deckID)
	s.Require().NoError(err)
	s.Require().Len(learning, 2)
	s.Assert().Equal(overdueLearning, learning[0].ID)
	s.Assert().Equal(upcomingLearning, learning[1].ID)

	subDay, err := s.repo.SubDayCards(ctx, userID, deckID, now)
	s.Require().NoError(err)
	s.Require().Len(subDay, 1)
	s.Assert().Equal(upcomingLearning, subDay[0].ID)
}

func (s *ProgressRepositorySuite) TestDueDecks() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()

	res, err := s.db.ExecContext(ctx, `INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, "French")
	s.Require().NoError(err)
	deckID2, err := res.LastInsertId()
	s.Require().NoError(err)

	s.insertCard(deckID, "a")
	s.insertCard(deckID, "b")
	s.insertCard(deckID2, "c")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now.Add(-time.Minute)))
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID2, now.Add(-time.Minute)))

	decks, err := s.repo.DueDecks(ctx, userID, now)
	s.Require().NoError(err)
	s.Require().Len(decks, 2)
	s.Assert().Equal(deckID, decks[0].DeckID)
	s.Assert().Equal(2, decks[0].DueCount)
	s.Assert().Equal(deckID2, decks[1].DeckID)
	s.Assert().Equal(1, decks[1].DueCount)
}

func (s *ProgressRepositorySuite) TestNextDueAt() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	cardID := s.insertCard(deckID, "hola")
	laterCard := s.insertCard(deckID, "adios")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	next, err := s.repo.NextDueAt(ctx, userID, deckID, now)
	s.Require().NoError(err)
	s.Assert().Nil(next)

	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now))
	p, err := s.repo.Get(ctx, userID, cardID)
	s.Require().NoError(err)
	p.DueAt = now.Add(10 * time.Minute)
	s.Require().NoError(s.repo.Update(ctx, *p))

	p, err = s.repo.Get(ctx, userID, laterCard)
	s.Require().NoError(err)
	p.DueAt = now.Add(48 * time.Hour)
	s.Require().NoError(s.repo.Update(ctx, *p))

	next, err = s.repo.NextDueAt(ctx, userID, deckID, now)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.Assert().WithinDuration(now.Add(10*time.Minute), *next, time.Second)
}

func (s *ProgressRepositorySuite) TestInsertReviewLog() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	cardID := s.insertCard(deckID, "hola")

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureForDeck(ctx, userID, deckID, now))

	p, err := s.repo.Get(ctx, userID, cardID)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.InsertReviewLog(ctx, p.ID, models.RatingGood, 4.2))

	var count int
	var rating int
	var seconds float64
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*), rating, time_seconds FROM review_log WHERE progress_id = ?`, p.ID).
		Scan(&count, &rating, &seconds)
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
	s.Assert().Equal(int(models.RatingGood), rating)
	s.Assert().Equal(4.2, seconds)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
