package srs

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/nmarques/flashdeck/internal/models"
)

// ErrInvalidRating is returned when a rating outside the four defined
// grades reaches the scheduler.
var ErrInvalidRating = errors.New("srs: rating must be between 1 (again) and 4 (easy)")

// Learning-phase delays. Graduation intervals are fixed at 1 day for Good
// and 4 days for Easy; the deck's learning-step list is resolved alongside
// the other options but the production path schedules with these constants.
const (
	againDelay = 2 * time.Minute
	hardDelay  = 10 * time.Minute

	graduateGoodDays = 1
	graduateEasyDays = 4
)

// Scheduler computes review transitions. It holds no mutable state beyond
// the injected random source, so a single instance is safe for concurrent
// use.
type Scheduler struct {
	rnd func() float64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand sets the uniform random source used for interval fuzzing.
func WithRand(fn func() float64) Option {
	return func(s *Scheduler) {
		s.rnd = fn
	}
}

// WithoutFuzz disables interval fuzzing entirely, making every schedule
// computation deterministic.
func WithoutFuzz() Option {
	return func(s *Scheduler) {
		s.rnd = nil
	}
}

// New creates a Scheduler. Fuzzing is enabled by default.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{rnd: rand.Float64}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleNextReview applies a rating to a card's current progress and
// returns the replacement progress record. The caller supplies "now"
// explicitly; nothing here reads the wall clock. The input is not
// mutated.
func (s *Scheduler) ScheduleNextReview(p models.CardProgress, rating models.Rating, opts models.DeckOptions, now time.Time) (models.CardProgress, error) {
	if !rating.Valid() {
		return models.CardProgress{}, ErrInvalidRating
	}

	cfg := ResolveOptions(opts)

	next := p
	next.LastReviewedAt = &now

	if p.State == models.StateReview {
		s.scheduleReview(&next, p, rating, cfg, now)
	} else {
		s.scheduleLearning(&next, p, rating, cfg, now)
	}
	return next, nil
}

// scheduleLearning handles cards in the new or learning phase. Again and
// Hard stay on sub-day delays measured from now; Good and Easy graduate
// to the review phase with due dates at local midnight.
func (s *Scheduler) scheduleLearning(next *models.CardProgress, p models.CardProgress, rating models.Rating, cfg DeckConfig, now time.Time) {
	switch rating {
	case models.RatingAgain:
		next.State = models.StateLearning
		next.LearningStepIndex = 0
		next.DueAt = now.Add(againDelay)

	case models.RatingHard:
		next.State = models.StateLearning
		next.DueAt = now.Add(hardDelay)

	case models.RatingGood:
		s.graduate(next, p, rating, graduateGoodDays, now)

	case models.RatingEasy:
		s.graduate(next, p, rating, graduateEasyDays, now)
	}
}

// graduate moves a card into the review phase with a fixed first interval.
func (s *Scheduler) graduate(next *models.CardProgress, p models.CardProgress, rating models.Rating, days int, now time.Time) {
	next.State = models.StateReview
	next.IntervalDays = days
	next.Repetitions = 1
	next.EaseFactor = NextEaseFactor(p.EaseFactor, rating)
	next.LearningStepIndex = p.LearningStepIndex + 1
	next.DueAt = localMidnight(now, days)
}

// scheduleReview handles cards already in the review phase.
func (s *Scheduler) scheduleReview(next *models.CardProgress, p models.CardProgress, rating models.Rating, cfg DeckConfig, now time.Time) {
	if rating == models.RatingAgain {
		// Lapse: back to learning on a short delay, interval mostly lost.
		next.Lapses = p.Lapses + 1
		next.EaseFactor = math.Max(MinEaseFactor, p.EaseFactor-0.2)
		next.State = models.StateLearning
		next.LearningStepIndex = 0
		lapsed := int(math.Round(float64(p.IntervalDays) * float64(cfg.LapseIntervalPercent) / 100))
		if lapsed < 1 {
			lapsed = 1
		}
		next.IntervalDays = lapsed
		next.DueAt = now.Add(againDelay)
		return
	}

	next.Repetitions = p.Repetitions + 1
	next.EaseFactor = NextEaseFactor(p.EaseFactor, rating)

	days := clampDays(applyFuzz(reviewIntervalDays(p, rating, next.EaseFactor, cfg), s.rnd), cfg.MaxIntervalDays)
	next.IntervalDays = days
	next.DueAt = localMidnight(now, days)
}

// reviewIntervalDays computes the unfuzzed interval for a successful
// review. The repetition check uses the pre-increment count: the first
// success after creation or a lapse yields 1 day, the second 6, and later
// ones grow by the new ease factor.
func reviewIntervalDays(p models.CardProgress, rating models.Rating, newEase float64, cfg DeckConfig) int {
	var base float64
	switch {
	case p.Repetitions == 0:
		base = 1
	case p.Repetitions == 1:
		base = 6
	default:
		base = float64(p.IntervalDays) * newEase
	}

	if rating == models.RatingHard {
		base = float64(p.IntervalDays) * cfg.HardIntervalFactor
	}
	if rating == models.RatingEasy {
		base *= cfg.EasyBonus
	}
	base *= cfg.IntervalModifier

	return int(math.Round(base))
}

func clampDays(days, max int) int {
	if days < 1 {
		return 1
	}
	if days > max {
		return max
	}
	return days
}

// localMidnight returns midnight of the day `days` after now, in now's
// location. Review-phase due dates land on day boundaries so a user's
// queue fills at the start of the day instead of drifting with study time.
func localMidnight(now time.Time, days int) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+days, 0, 0, 0, 0, now.Location())
}
