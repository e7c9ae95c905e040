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

type StatsRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.StatsRepository
	progress repository.ProgressRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStatsRepository(s.db)
	s.progress = sqlite.NewProgressRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) TestDeckStats() {
	ctx := context.Background()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, "testuser")
	s.Require().NoError(err)
	userID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, "Spanish")
	s.Require().NoError(err)
	deckID, err := res.LastInsertId()
	s.Require().NoError(err)

	cardIDs := make([]int64, 0, 3)
	for _, front := range []string{"uno", "dos", "tres"} {
		res, err := s.db.ExecContext(ctx, `INSERT INTO cards (deck_id, front, back) VALUES (?, ?, ?)`, deckID, front, "back")
		s.Require().NoError(err)
		id, err := res.LastInsertId()
		s.Require().NoError(err)
		cardIDs = append(cardIDs, id)
	}

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.progress.EnsureForDeck(ctx, userID, deckID, now))

	// One learning card due soon, one review card scheduled next week.
	p, err := s.progress.Get(ctx, userID, cardIDs[0])
	s.Require().NoError(err)
	p.State = models.StateLearning
	p.DueAt = now.Add(10 * time.Minute)
	p.Lapses = 2
	s.Require().NoError(s.progress.Update(ctx, *p))
	s.Require().NoError(s.progress.InsertReviewLog(ctx, p.ID, models.RatingAgain, 3.0))
	s.Require().NoError(s.progress.InsertReviewLog(ctx, p.ID, models.RatingGood, 2.5))

	p, err = s.progress.Get(ctx, userID, cardIDs[1])
	s.Require().NoError(err)
	p.State = models.StateReview
	p.DueAt = now.Add(7 * 24 * time.Hour)
	s.Require().NoError(s.progress.Update(ctx, *p))

	stats, err := s.repo.DeckStats(ctx, userID, deckID, now)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.TotalCards)
	s.Assert().Equal(1, stats.NewCount)
	s.Assert().Equal(1, stats.LearningCount)
	s.Assert().Equal(1, stats.ReviewCount)
	s.Assert().Equal(1, stats.DueCount) // only the untouched new card is due now
	s.Assert().Equal(2, stats.TotalReviews)
	s.Assert().Equal(2, stats.TotalLapses)
}

func (s *StatsRepositorySuite) TestDeckStatsCountsCardsWithoutProgressAsNew() {
	ctx := context.Background()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, "testuser")
	s.Require().NoError(err)
	userID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO decks (user_id, name) VALUES (?, ?)`, userID, "Spanish")
	s.Require().NoError(err)
	deckID, err := res.LastInsertId()
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO cards (deck_id, front, back) VALUES (?, ?, ?)`, deckID, "hola", "hello")
	s.Require().NoError(err)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	stats, err := s.repo.DeckStats(ctx, userID, deckID, now)
	s.Require().NoError(err)
	s.Assert().Equal(1, stats.TotalCards)
	s.Assert().Equal(1, stats.NewCount)
	s.Assert().Equal(1, stats.DueCount)
	s.Assert().Equal(0, stats.TotalReviews)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
