package srs

import "github.com/nmarques/flashdeck/internal/models"

// MinEaseFactor is the lower bound for any card's ease factor.
const MinEaseFactor = 1.3

// ratingToQuality maps the four answer grades onto the 0-5 SM-2 quality
// scale. Unrecognized ratings fall back to the Good quality; callers
// validate ratings before scheduling, so the fallback should not trigger.
func ratingToQuality(r models.Rating) float64 {
	switch r {
	case models.RatingAgain:
		return 0
	case models.RatingHard:
		return 2
	case models.RatingGood:
		return 3
	case models.RatingEasy:
		return 5
	default:
		return 3
	}
}

// NextEaseFactor applies the SM-2 ease update for the given rating and
// returns the new ease, never below MinEaseFactor.
func NextEaseFactor(ease float64, r models.Rating) float64 {
	q := ratingToQuality(r)
	ease = ease + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}
	return ease
}
