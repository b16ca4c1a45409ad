// Package scoring implements the deterministic five-pillar token scorecard:
// technical, risk, sentiment, on-chain and fundamental, plus the weighted
// aggregator that turns them into an overall score and recommendation tier.
// Every scorer is a pure function of its inputs and clamps its output to
// [0,10] instead of returning errors for out-of-range data.
package scoring

import "math"

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
