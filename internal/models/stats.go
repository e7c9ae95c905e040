package models

// DeckStats summarizes a user's scheduling state across one deck.
type DeckStats struct {
	DeckID        int64 `json:"deck_id"`
	TotalCards    int   `json:"total_cards"`
	NewCount      int   `json:"new_count"`
	LearningCount int   `json:"learning_count"`
	ReviewCount   int   `json:"review_count"`
	DueCount      int   `json:"due_count"`
	TotalReviews  int   `json:"total_reviews"`
	TotalLapses   int   `json:"total_lapses"`
}
