package srs

import (
	"math"
	"strconv"
	"strings"
)

// defaultLearningSteps is used whenever a deck's step string is empty or
// yields no usable tokens: 10 minutes, then 1 day.
var defaultLearningSteps = []int{10, 1440}

// ParseLearningSteps parses a comma-separated step string like "10m,1d"
// into an ordered list of positive minute durations. Suffix d means days,
// h means hours, anything else (including a bare number or m) means
// minutes. Malformed or non-positive tokens are dropped. The result is
// never empty; a string with no usable tokens falls back to the default
// sequence.
func ParseLearningSteps(s string) []int {
	var steps []int
	for _, token := range strings.Split(s, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}

		multiplier := 1.0
		switch {
		case strings.HasSuffix(token, "d"):
			multiplier = 1440
			token = token[:len(token)-1]
		case strings.HasSuffix(token, "h"):
			multiplier = 60
			token = token[:len(token)-1]
		case strings.HasSuffix(token, "m"):
			token = token[:len(token)-1]
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil || math.IsNaN(value) || value <= 0 {
			continue
		}

		minutes := int(math.Round(value * multiplier))
		if minutes < 1 {
			minutes = 1
		}
		steps = append(steps, minutes)
	}

	if len(steps) == 0 {
		out := make([]int, len(defaultLearningSteps))
		copy(out, defaultLearningSteps)
		return out
	}
	return steps
}
