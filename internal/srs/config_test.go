package srs_test

import (
	"testing"

	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/srs"
	"github.com/stretchr/testify/assert"
)

func TestResolveOptions_Defaults(t *testing.T) {
	cfg := srs.ResolveOptions(models.DeckOptions{})

	assert.Equal(t, 1.3, cfg.EasyBonus)
	assert.Equal(t, 1.2, cfg.HardIntervalFactor)
	assert.Equal(t, 10, cfg.LapseIntervalPercent)
	assert.Equal(t, 1.0, cfg.IntervalModifier)
	assert.Equal(t, 36500, cfg.MaxIntervalDays)
	assert.Equal(t, []int{10, 1440}, cfg.LearningSteps)
}

func TestResolveOptions_PartialOverride(t *testing.T) {
	bonus := 1.5
	steps := "1m,10m,1d"

	cfg := srs.ResolveOptions(models.DeckOptions{
		EasyBonus:     &bonus,
		LearningSteps: &steps,
	})

	assert.Equal(t, 1.5, cfg.EasyBonus)
	assert.Equal(t, []int{1, 10, 1440}, cfg.LearningSteps)
	// Untouched fields keep their defaults.
	assert.Equal(t, 1.2, cfg.HardIntervalFactor)
	assert.Equal(t, 10, cfg.LapseIntervalPercent)
}

func TestResolveOptions_GarbageFallsBackSilently(t *testing.T) {
	negBonus := -2.0
	badPercent := 250
	zeroModifier := 0.0
	negMax := -10
	junkSteps := "abc,-1,0"

	cfg := srs.ResolveOptions(models.DeckOptions{
		EasyBonus:            &negBonus,
		LapseIntervalPercent: &badPercent,
		IntervalModifier:     &zeroModifier,
		MaxIntervalDays:      &negMax,
		LearningSteps:        &junkSteps,
	})

	assert.Equal(t, 1.3, cfg.EasyBonus)
	assert.Equal(t, 10, cfg.LapseIntervalPercent)
	assert.Equal(t, 1.0, cfg.IntervalModifier)
	assert.Equal(t, 36500, cfg.MaxIntervalDays)
	assert.Equal(t, []int{10, 1440}, cfg.LearningSteps)
}
