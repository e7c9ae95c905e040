package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID, cardID int64) (*models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%d, card_id=%d", userID, cardID)

	var p models.CardProgress
	var lastReviewed sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, card_id, state, ease_factor, interval_days, repetitions, lapses, learning_step_index, due_at, last_reviewed_at, created_at
FROM card_progress
WHERE user_id = ? AND card_id = ?
`, userID, cardID).Scan(&p.ID, &p.UserID, &p.CardID, &p.State, &p.EaseFactor, &p.IntervalDays, &p.Repetitions, &p.Lapses, &p.LearningStepIndex, &p.DueAt, &lastReviewed, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("progress not found: user_id=%d, card_id=%d", userID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	if lastReviewed.Valid {
		p.LastReviewedAt = &lastReviewed.Time
	}
	return &p, nil
}

func (r *progressRepository) Update(ctx context.Context, p models.CardProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("updating progress: id=%d, state=%s, interval=%d, ease=%.2f", p.ID, p.State, p.IntervalDays, p.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
UPDATE card_progress
SET state = ?, ease_factor = ?, interval_days = ?, repetitions = ?, lapses = ?, learning_step_index = ?, due_at = ?, last_reviewed_at = ?
WHERE id = ?
`, p.State, p.EaseFactor, p.IntervalDays, p.Repetitions, p.Lapses, p.LearningStepIndex, p.DueAt, p.LastReviewedAt, p.ID)
	if err != nil {
		log.Error("failed to update progress: %v", err)
	}
	return err
}

// EnsureForDeck lazily creates missing progress rows for every card in the
// deck, so a due query always sees exactly one row per user and card. The
// unique constraint on (user_id, card_id) makes concurrent calls safe.
func (r *progressRepository) EnsureForDeck(ctx context.Context, userID, deckID int64, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("ensuring progress rows: user_id=%d, deck_id=%d", userID, deckID)

	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO card_progress (user_id, card_id, state, ease_factor, due_at)
SELECT ?, c.id, ?, ?, ?
FROM cards c
WHERE c.deck_id = ?
AND NOT EXISTS (
    SELECT 1 FROM card_progress p WHERE p.user_id = ? AND p.card_id = c.id
)
`, userID, models.StateNew, models.DefaultEaseFactor, now, deckID, userID)
	if err != nil {
		log.Error("failed to ensure progress rows: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Debug("created %d progress rows", n)
	}
	return nil
}

const cardWithProgressColumns = `
c.id, c.deck_id, c.front, c.back, c.created_at,
p.id, p.user_id, p.card_id, p.state, p.ease_factor, p.interval_days, p.repetitions, p.lapses, p.learning_step_index, p.due_at, p.last_reviewed_at, p.created_at`

// DueCards returns cards whose due time has passed, learning-phase cards
// first (they carry minute-level urgency), then ascending by due time.
// deckID 0 spans all of the user's decks; limit 0 means no limit.
func (r *progressRepository) DueCards(ctx context.Context, userID, deckID int64, now time.Time, limit int) ([]models.CardWithProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching due cards: user_id=%d, deck_id=%d, limit=%d", userID, deckID, limit)

	query := sqlBuilder.Select(cardWithProgressColumns).
		From("card_progress p").
		Join("cards c ON c.id = p.card_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		Where(squirrel.LtOrEq{"p.due_at": now}).
		OrderBy("CASE WHEN p.state = 'learning' THEN 0 ELSE 1 END", "p.due_at ASC")
	if deckID != 0 {
		query = query.Where(squirrel.Eq{"c.deck_id": deckID})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	return r.queryCards(ctx, query)
}

// LearningCards returns every learning-phase card regardless of due time,
// so a study session does not end while minute-scale cards are pending.
func (r *progressRepository) LearningCards(ctx context.Context, userID, deckID int64) ([]models.CardWithProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching learning cards: user_id=%d, deck_id=%d", userID, deckID)

	query := sqlBuilder.Select(cardWithProgressColumns).
		From("card_progress p").
		Join("cards c ON c.id = p.card_id").
		Where(squirrel.Eq{"p.user_id": userID, "p.state": models.StateLearning}).
		OrderBy("p.due_at ASC")
	if deckID != 0 {
		query = query.Where(squirrel.Eq{"c.deck_id": deckID})
	}

	return r.queryCards(ctx, query)
}

// SubDayCards returns learning-phase cards whose due time is still in the
// future, for "upcoming" display.
func (r *progressRepository) SubDayCards(ctx context.Context, userID, deckID int64, now time.Time) ([]models.CardWithProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching sub-day cards: user_id=%d, deck_id=%d", userID, deckID)

	query := sqlBuilder.Select(cardWithProgressColumns).
		From("card_progress p").
		Join("cards c ON c.id = p.card_id").
		Where(squirrel.Eq{"p.user_id": userID, "p.state": models.StateLearning}).
		Where(squirrel.Gt{"p.due_at": now}).
		OrderBy("p.due_at ASC")
	if deckID != 0 {
		query = query.Where(squirrel.Eq{"c.deck_id": deckID})
	}

	return r.queryCards(ctx, query)
}

func (r *progressRepository) queryCards(ctx context.Context, query squirrel.SelectBuilder) ([]models.CardWithProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardWithProgress
	for rows.Next() {
		var cp models.CardWithProgress
		var lastReviewed sql.NullTime
		if err := rows.Scan(
			&cp.ID, &cp.DeckID, &cp.Front, &cp.Back, &cp.CreatedAt,
			&cp.Progress.ID, &cp.Progress.UserID, &cp.Progress.CardID, &cp.Progress.State, &cp.Progress.EaseFactor,
			&cp.Progress.IntervalDays, &cp.Progress.Repetitions, &cp.Progress.Lapses, &cp.Progress.LearningStepIndex,
			&cp.Progress.DueAt, &lastReviewed, &cp.Progress.CreatedAt,
		); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		if lastReviewed.Valid {
			cp.Progress.LastReviewedAt = &lastReviewed.Time
		}
		cards = append(cards, cp)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *progressRepository) DueDecks(ctx context.Context, userID int64, now time.Time) ([]models.DueDeck, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching due decks: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT d.id, d.name, COUNT(p.id)
FROM decks d
JOIN cards c ON c.deck_id = d.id
JOIN card_progress p ON p.card_id = c.id AND p.user_id = ?
WHERE d.user_id = ? AND p.due_at <= ?
GROUP BY d.id, d.name
ORDER BY COUNT(p.id) DESC
`, userID, userID, now)
	if err != nil {
		log.Error("failed to query due decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.DueDeck
	for rows.Next() {
		var d models.DueDeck
		if err := rows.Scan(&d.DeckID, &d.Name, &d.DueCount); err != nil {
			log.Error("failed to scan due deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d due decks", len(decks))
	return decks, rows.Err()
}

// NextDueAt returns the earliest future due instant in the deck, or nil
// when nothing is scheduled beyond now.
func (r *progressRepository) NextDueAt(ctx context.Context, userID, deckID int64, now time.Time) (*time.Time, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching next due time: user_id=%d, deck_id=%d", userID, deckID)

	// ORDER BY + LIMIT instead of MIN(): aggregating strips the column's
	// DATETIME type and the driver would hand back a raw string.
	var next time.Time
	err := r.db.QueryRowContext(ctx, `
SELECT p.due_at
FROM card_progress p
JOIN cards c ON c.id = p.card_id
WHERE p.user_id = ? AND c.deck_id = ? AND p.due_at > ?
ORDER BY p.due_at ASC
LIMIT 1
`, userID, deckID, now).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get next due time: %v", err)
		return nil, err
	}
	return &next, nil
}

func (r *progressRepository) InsertReviewLog(ctx context.Context, progressID int64, rating models.Rating, timeSeconds float64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("inserting review log: progress_id=%d, rating=%d, time=%.2fs", progressID, rating, timeSeconds)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_log (progress_id, rating, time_seconds)
VALUES (?, ?, ?)
`, progressID, int(rating), timeSeconds)
	if err != nil {
		log.Error("failed to insert review log: %v", err)
	}
	return err
}
