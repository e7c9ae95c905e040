package srs

import "github.com/nmarques/flashdeck/internal/models"

// Defaults for deck options when a field is absent or unusable.
const (
	DefaultEasyBonus            = 1.3
	DefaultHardIntervalFactor   = 1.2
	DefaultLapseIntervalPercent = 10
	DefaultIntervalModifier     = 1.0
	DefaultMaxIntervalDays      = 36500
	DefaultLearningSteps        = "10m,1d"
)

// DeckConfig is a deck's scheduling options with every field resolved.
type DeckConfig struct {
	EasyBonus            float64
	HardIntervalFactor   float64
	LapseIntervalPercent int
	IntervalModifier     float64
	MaxIntervalDays      int
	LearningSteps        []int
}

// DefaultDeckConfig returns the configuration used when a deck carries no
// overrides at all.
func DefaultDeckConfig() DeckConfig {
	return ResolveOptions(models.DeckOptions{})
}

// ResolveOptions applies per-field defaults to a deck's raw options.
// Fields may be overridden independently; nil or out-of-range values fall
// back silently so a partially configured deck still schedules sanely.
func ResolveOptions(o models.DeckOptions) DeckConfig {
	cfg := DeckConfig{
		EasyBonus:            DefaultEasyBonus,
		HardIntervalFactor:   DefaultHardIntervalFactor,
		LapseIntervalPercent: DefaultLapseIntervalPercent,
		IntervalModifier:     DefaultIntervalModifier,
		MaxIntervalDays:      DefaultMaxIntervalDays,
	}

	if o.EasyBonus != nil && *o.EasyBonus > 0 {
		cfg.EasyBonus = *o.EasyBonus
	}
	if o.HardIntervalFactor != nil && *o.HardIntervalFactor > 0 {
		cfg.HardIntervalFactor = *o.HardIntervalFactor
	}
	if o.LapseIntervalPercent != nil && *o.LapseIntervalPercent >= 0 && *o.LapseIntervalPercent <= 100 {
		cfg.LapseIntervalPercent = *o.LapseIntervalPercent
	}
	if o.IntervalModifier != nil && *o.IntervalModifier > 0 {
		cfg.IntervalModifier = *o.IntervalModifier
	}
	if o.MaxIntervalDays != nil && *o.MaxIntervalDays > 0 {
		cfg.MaxIntervalDays = *o.MaxIntervalDays
	}

	steps := DefaultLearningSteps
	if o.LearningSteps != nil {
		steps = *o.LearningSteps
	}
	cfg.LearningSteps = ParseLearningSteps(steps)

	return cfg
}
