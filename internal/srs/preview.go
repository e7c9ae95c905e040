package srs

import "github.com/nmarques/flashdeck/internal/models"

// IntervalPreview holds the interval, in minutes, each rating would
// produce for a card. Used for showing "again 2m / good 1d" style hints
// on review buttons.
type IntervalPreview struct {
	Again int `json:"again"`
	Hard  int `json:"hard"`
	Good  int `json:"good"`
	Easy  int `json:"easy"`
}

const minutesPerDay = 1440

// PreviewNextIntervals computes the interval each of the four ratings
// would yield without mutating the progress record. Fuzz is skipped so the
// preview is deterministic; the real schedule may differ by the fuzz
// margin. Pass the same deck options used for grading or the numbers will
// not line up.
func (s *Scheduler) PreviewNextIntervals(p models.CardProgress, opts models.DeckOptions) IntervalPreview {
	if p.State != models.StateReview {
		return IntervalPreview{
			Again: int(againDelay.Minutes()),
			Hard:  int(hardDelay.Minutes()),
			Good:  graduateGoodDays * minutesPerDay,
			Easy:  graduateEasyDays * minutesPerDay,
		}
	}

	cfg := ResolveOptions(opts)
	preview := IntervalPreview{Again: int(againDelay.Minutes())}

	for _, rating := range []models.Rating{models.RatingHard, models.RatingGood, models.RatingEasy} {
		ease := NextEaseFactor(p.EaseFactor, rating)
		days := clampDays(reviewIntervalDays(p, rating, ease, cfg), cfg.MaxIntervalDays)
		minutes := days * minutesPerDay
		switch rating {
		case models.RatingHard:
			preview.Hard = minutes
		case models.RatingGood:
			preview.Good = minutes
		case models.RatingEasy:
			preview.Easy = minutes
		}
	}
	return preview
}
