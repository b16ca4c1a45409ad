package scoring

import (
	"math"

	"github.com/riftlabs/riftotc/internal/models"
)

// Pillar weights. Risk is inverted (10 - risk) before weighting so that a
// higher overall score always means a better deal.
const (
	weightTechnical   = 0.30
	weightRisk        = 0.30
	weightSentiment   = 0.20
	weightOnChain     = 0.15
	weightFundamental = 0.05
)

// Recommendation tier thresholds. Comparisons are >= so ties resolve to the
// more favorable bucket.
const (
	thresholdStrongBuy = 7.5
	thresholdBuy       = 6.0
	thresholdHold      = 4.5
	thresholdHighRisk  = 3.0
)

// Overall combines the five sub-scores into the weighted overall score,
// rounded to one decimal and clamped to [0,10].
func Overall(technical, risk, sentiment, onChain, fundamental float64) float64 {
	overall := technical*weightTechnical +
		(10-risk)*weightRisk +
		sentiment*weightSentiment +
		onChain*weightOnChain +
		fundamental*weightFundamental
	return round1(clamp(overall, 0, 10))
}

// Recommendation maps an overall score onto its tier.
func Recommendation(overall float64) string {
	switch {
	case overall >= thresholdStrongBuy:
		return models.RecommendationStrongBuy
	case overall >= thresholdBuy:
		return models.RecommendationBuy
	case overall >= thresholdHold:
		return models.RecommendationHold
	case overall >= thresholdHighRisk:
		return models.RecommendationHighRisk
	default:
		return models.RecommendationExtremeRisk
	}
}

// ProjectReturn derives the low/mid/high expected-return projection (percent)
// from 7-day momentum, annualized volatility and the lock period. A pure
// function: no narrator involvement.
func ProjectReturn(momentum7d, volatility float64, lockPeriod int) models.ExpectedReturn {
	lockScale := 1 + float64(lockPeriod)*0.1

	return models.ExpectedReturn{
		Low:  round1(-math.Max(15, volatility/4*lockScale)),
		Mid:  round1(momentum7d * 0.6),
		High: round1(math.Max(20, volatility/3*lockScale)),
	}
}
