package models

import "time"

// CardState is the lifecycle phase of a card for one user.
type CardState string

const (
	StateNew      CardState = "new"
	StateLearning CardState = "learning"
	StateReview   CardState = "review"
)

// Rating is the four-level answer grade given during a review.
type Rating int

const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Valid reports whether the rating is one of the four defined grades.
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// CardProgress is the per-user scheduling state of a single card.
// Rows are created lazily with state=new and due_at=now the first time a
// deck is queried for due cards.
type CardProgress struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	CardID            int64      `json:"card_id"`
	State             CardState  `json:"state"`
	EaseFactor        float64    `json:"ease_factor"`
	IntervalDays      int        `json:"interval_days"`
	Repetitions       int        `json:"repetitions"`
	Lapses            int        `json:"lapses"`
	LearningStepIndex int        `json:"learning_step_index"`
	DueAt             time.Time  `json:"due_at"`
	LastReviewedAt    *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// DefaultEaseFactor is the starting ease for a freshly created progress row.
const DefaultEaseFactor = 2.5

// NewCardProgress returns the initial progress row for a user/card pair.
func NewCardProgress(userID, cardID int64, now time.Time) CardProgress {
	return CardProgress{
		UserID:     userID,
		CardID:     cardID,
		State:      StateNew,
		EaseFactor: DefaultEaseFactor,
		DueAt:      now,
	}
}

// ReviewLog records a single graded review for analytics.
type ReviewLog struct {
	ID          int64     `json:"id"`
	ProgressID  int64     `json:"progress_id"`
	Rating      int       `json:"rating"`
	TimeSeconds float64   `json:"time_seconds"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}
