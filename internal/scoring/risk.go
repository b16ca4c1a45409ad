package scoring

import (
	"fmt"

	"github.com/riftlabs/riftotc/internal/models"
)

// RiskScorer computes a 0-10 risk score where 10 is maximum risk. This is the
// only pillar whose scale is inverted relative to goodness; the aggregator
// inverts it before weighting.
type RiskScorer struct {
	snapshot   *models.MarketSnapshot
	volatility float64 // annualized, percent, from TechnicalScorer
	lockPeriod int     // weeks
}

// RiskResult 风险评分结果
type RiskResult struct {
	Score      float64        `json:"score"`
	Components RiskComponents `json:"components"`
	Details    []string       `json:"details"`
}

type RiskComponents struct {
	LiquidityRisk  float64 `json:"liquidity_risk"`
	VolatilityRisk float64 `json:"volatility_risk"`
	DilutionRisk   float64 `json:"dilution_risk"`
}

func NewRiskScorer(snapshot *models.MarketSnapshot, volatility float64, lockPeriod int) *RiskScorer {
	return &RiskScorer{
		snapshot:   snapshot,
		volatility: volatility,
		lockPeriod: lockPeriod,
	}
}

// LiquidityRisk scores risk points (0-3.5) from the volume/market-cap ratio.
// Unknown market cap gets the maximum penalty.
func (r *RiskScorer) LiquidityRisk() float64 {
	if r.snapshot.MarketCap <= 0 {
		return 3.5
	}

	ratio := r.snapshot.TotalVolume / r.snapshot.MarketCap
	switch {
	case ratio < 0.01:
		return 3.5 // critical liquidity risk
	case ratio < 0.05:
		return 2.0
	case ratio < 0.10:
		return 1.0
	default:
		return 0.0
	}
}

// DilutionRisk scores risk points (0-2.0) from the FDV/market-cap ratio, the
// inflation overhang of tokens yet to unlock. Falls back to the
// total/circulating supply ratio, then to a neutral 1.0 with no data.
func (r *RiskScorer) DilutionRisk() float64 {
	var ratio float64
	switch {
	case r.snapshot.FullyDilutedVal > 0 && r.snapshot.MarketCap > 0:
		ratio = r.snapshot.FullyDilutedVal / r.snapshot.MarketCap
	case r.snapshot.TotalSupply > 0 && r.snapshot.CirculatingSupply > 0:
		ratio = r.snapshot.TotalSupply / r.snapshot.CirculatingSupply
	default:
		return 1.0
	}

	switch {
	case ratio > 20:
		return 2.0 // huge overhang
	case ratio > 5:
		return 1.5
	case ratio > 2:
		return 1.0
	default:
		return 0.0
	}
}

// VolatilityRisk scores risk points (0-3.5) from annualized volatility.
func (r *RiskScorer) VolatilityRisk() float64 {
	switch {
	case r.volatility > 150:
		return 3.5
	case r.volatility > 100:
		return 2.5
	case r.volatility > 60:
		return 1.5
	case r.volatility > 30:
		return 0.5
	default:
		return 0.0
	}
}

// Score sums the component risks (max 9.0), scales by the lock period
// multiplier (up to 1.2x at 8 weeks) and clamps to [0,10].
func (r *RiskScorer) Score() RiskResult {
	liqRisk := r.LiquidityRisk()
	volRisk := r.VolatilityRisk()
	dilRisk := r.DilutionRisk()

	score := liqRisk + volRisk + dilRisk

	// 1 week = 1.025x, 8 weeks = 1.2x
	timeMultiplier := 1.0 + float64(r.lockPeriod)*0.025
	score *= timeMultiplier

	var details []string
	if liqRisk >= 2.0 {
		details = append(details, "Low Liquidity (Vol/MCap ratio < 5%)")
	}
	if dilRisk >= 1.5 {
		details = append(details, "High Dilution Risk (FDV >>> MCap)")
	}
	if volRisk >= 2.5 {
		details = append(details, fmt.Sprintf("Extreme Volatility (%.0f%%)", r.volatility))
	}

	final := round1(clamp(score, 0, 10))
	if len(details) == 0 && final < 3 {
		details = append(details, "Healthy risk profile")
	}

	return RiskResult{
		Score: final,
		Components: RiskComponents{
			LiquidityRisk:  round1(liqRisk),
			VolatilityRisk: round1(volRisk),
			DilutionRisk:   round1(dilRisk),
		},
		Details: details,
	}
}
