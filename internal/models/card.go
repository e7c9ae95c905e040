package models

import "time"

type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}

// CardWithProgress joins a card to the querying user's progress row.
type CardWithProgress struct {
	Card
	Progress CardProgress `json:"progress"`
}
