package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

const deckColumns = `id, user_id, name, description, easy_bonus, hard_interval_factor, lapse_interval_percent, interval_modifier, max_interval_days, learning_steps, created_at`

func scanDeck(row interface{ Scan(...any) error }) (*models.Deck, error) {
	var d models.Deck
	var easyBonus, hardFactor, modifier sql.NullFloat64
	var lapsePercent, maxInterval sql.NullInt64
	var steps sql.NullString

	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description,
		&easyBonus, &hardFactor, &lapsePercent, &modifier, &maxInterval, &steps, &d.CreatedAt)
	if err != nil {
		return nil, err
	}

	if easyBonus.Valid {
		d.Options.EasyBonus = &easyBonus.Float64
	}
	if hardFactor.Valid {
		d.Options.HardIntervalFactor = &hardFactor.Float64
	}
	if lapsePercent.Valid {
		v := int(lapsePercent.Int64)
		d.Options.LapseIntervalPercent = &v
	}
	if modifier.Valid {
		d.Options.IntervalModifier = &modifier.Float64
	}
	if maxInterval.Valid {
		v := int(maxInterval.Int64)
		d.Options.MaxIntervalDays = &v
	}
	if steps.Valid {
		d.Options.LearningSteps = &steps.String
	}
	return &d, nil
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	deck, err := scanDeck(r.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return deck, nil
}

func (r *deckRepository) ListForUser(ctx context.Context, userID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, *deck)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: user_id=%d, name=%s", d.UserID, d.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO decks (user_id, name, description, easy_bonus, hard_interval_factor, lapse_interval_percent, interval_modifier, max_interval_days, learning_steps)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, d.UserID, d.Name, d.Description,
		d.Options.EasyBonus, d.Options.HardIntervalFactor, d.Options.LapseIntervalPercent,
		d.Options.IntervalModifier, d.Options.MaxIntervalDays, d.Options.LearningSteps)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) UpdateOptions(ctx context.Context, id int64, opts models.DeckOptions) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck options: id=%d", id)

	_, err := r.db.ExecContext(ctx, `
UPDATE decks
SET easy_bonus = ?, hard_interval_factor = ?, lapse_interval_percent = ?, interval_modifier = ?, max_interval_days = ?, learning_steps = ?
WHERE id = ?
`, opts.EasyBonus, opts.HardIntervalFactor, opts.LapseIntervalPercent,
		opts.IntervalModifier, opts.MaxIntervalDays, opts.LearningSteps, id)
	if err != nil {
		log.Error("failed to update deck options: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}
