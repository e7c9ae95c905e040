package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFuzz_DisabledIsIdentity(t *testing.T) {
	for _, days := range []int{1, 2, 5, 10, 29, 30, 365, 36500} {
		assert.Equal(t, days, applyFuzz(days, nil))
	}
}

func TestApplyFuzz_ShortIntervalsUnchanged(t *testing.T) {
	rnd := func() float64 { return 0.99 }
	assert.Equal(t, 0, applyFuzz(0, rnd))
	assert.Equal(t, 1, applyFuzz(1, rnd))
}

func TestApplyFuzz_StaysWithinRange(t *testing.T) {
	// Extreme draws at both ends of the uniform range.
	low := func() float64 { return 0 }
	high := func() float64 { return 0.999999 }

	tests := []struct {
		days int
		span float64
	}{
		{days: 5, span: 0.75},   // <7: 15%, capped at 1
		{days: 20, span: 1.0},   // <30: 5%
		{days: 100, span: 10.0}, // else: 10%
	}

	for _, tt := range tests {
		min := applyFuzz(tt.days, low)
		max := applyFuzz(tt.days, high)
		assert.GreaterOrEqual(t, float64(min), float64(tt.days)-tt.span-0.5)
		assert.LessOrEqual(t, float64(max), float64(tt.days)+tt.span+0.5)
		assert.GreaterOrEqual(t, min, 1)
	}
}

func TestApplyFuzz_NeverBelowOne(t *testing.T) {
	low := func() float64 { return 0 }
	for days := 2; days < 10; days++ {
		assert.GreaterOrEqual(t, applyFuzz(days, low), 1)
	}
}
