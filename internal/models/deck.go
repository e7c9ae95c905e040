package models

import "time"

// DeckOptions are the per-deck scheduling knobs. Every field is optional;
// missing fields fall back to documented defaults, resolved field by field
// at the scheduler's entry boundary.
type DeckOptions struct {
	EasyBonus            *float64 `json:"easy_bonus,omitempty"`
	HardIntervalFactor   *float64 `json:"hard_interval_factor,omitempty"`
	LapseIntervalPercent *int     `json:"lapse_interval_percent,omitempty"`
	IntervalModifier     *float64 `json:"interval_modifier,omitempty"`
	MaxIntervalDays      *int     `json:"max_interval_days,omitempty"`
	LearningSteps        *string  `json:"learning_steps,omitempty"`
}

type Deck struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Options     DeckOptions `json:"options"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DueDeck is a deck together with how many of its cards are due right now.
type DueDeck struct {
	DeckID   int64  `json:"deck_id"`
	Name     string `json:"name"`
	DueCount int    `json:"due_count"`
}
