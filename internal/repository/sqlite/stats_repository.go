package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// DeckStats aggregates card counts per state plus due and review totals for
// one deck. Cards without a progress row count as new.
func (r *statsRepository) DeckStats(ctx context.Context, userID, deckID int64, now time.Time) (*models.DeckStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing deck stats: user_id=%d, deck_id=%d", userID, deckID)

	stats := models.DeckStats{DeckID: deckID}
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(c.id),
    COALESCE(SUM(CASE WHEN p.id IS NULL OR p.state = 'new' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN p.state = 'learning' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN p.state = 'review' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN p.id IS NULL OR p.due_at <= ? THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(p.lapses), 0)
FROM cards c
LEFT JOIN card_progress p ON p.card_id = c.id AND p.user_id = ?
WHERE c.deck_id = ?
`, now, userID, deckID).Scan(
		&stats.TotalCards, &stats.NewCount, &stats.LearningCount, &stats.ReviewCount,
		&stats.DueCount, &stats.TotalLapses,
	)
	if err != nil {
		log.Error("failed to compute deck stats: %v", err)
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(rl.id)
FROM review_log rl
JOIN card_progress p ON p.id = rl.progress_id
JOIN cards c ON c.id = p.card_id
WHERE p.user_id = ? AND c.deck_id = ?
`, userID, deckID).Scan(&stats.TotalReviews)
	if err != nil {
		log.Error("failed to count reviews: %v", err)
		return nil, err
	}
	log.Debug("deck stats: total=%d, due=%d", stats.TotalCards, stats.DueCount)
	return &stats, nil
}
