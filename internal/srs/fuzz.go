package srs

import "math"

// applyFuzz jitters a day interval to avoid cards clustering on the same
// due date. rnd must return a uniform value in [0, 1); a nil rnd disables
// fuzzing, as do intervals shorter than two days. The result is never
// below one day.
func applyFuzz(days int, rnd func() float64) int {
	if rnd == nil || days < 2 {
		return days
	}

	interval := float64(days)
	var span float64
	switch {
	case days < 7:
		span = math.Min(1, interval*0.15)
	case days < 30:
		span = interval * 0.05
	default:
		span = interval * 0.10
	}

	offset := (rnd()*2 - 1) * span
	fuzzed := int(math.Round(interval + offset))
	if fuzzed < 1 {
		fuzzed = 1
	}
	return fuzzed
}
