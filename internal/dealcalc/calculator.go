// Package dealcalc computes risk/reward metrics for a proposed OTC deal and
// suggests discounts for a given lock period and risk profile. Everything here
// is a pure function over the caller's numbers; no market data is fetched.
package dealcalc

import (
	"fmt"
	"math"

	"github.com/riftlabs/riftotc/internal/models"
)

// Default scenario percentages used when no expected-return projection is
// supplied.
var defaultReturn = models.ExpectedReturn{Low: -30, Mid: 20, High: 50}

// Metrics 交易指标全集
type Metrics struct {
	MarketPrice     float64 `json:"market_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	DiscountPct     float64 `json:"discount_pct"`
	TokenAmount     float64 `json:"token_amount"`
	TotalCost       float64 `json:"total_cost"`
	MarketValue     float64 `json:"market_value"`

	InstantEquity    float64 `json:"instant_equity"`
	InstantEquityPct float64 `json:"instant_equity_pct"`

	// BreakEvenDropPct is how far price can fall before the buyer is
	// underwater: the negative of the discount.
	BreakEvenDropPct float64 `json:"break_even_drop_pct"`

	ExpectedReturnPct float64 `json:"expected_return_pct"`
	ExpectedValue     float64 `json:"expected_value"`
	ExpectedProfit    float64 `json:"expected_profit"`

	BestCaseReturnPct float64 `json:"best_case_return_pct"`
	BestCaseValue     float64 `json:"best_case_value"`
	BestCaseProfit    float64 `json:"best_case_profit"`

	WorstCaseReturnPct float64 `json:"worst_case_return_pct"`
	WorstCaseValue     float64 `json:"worst_case_value"`
	WorstCaseLoss      float64 `json:"worst_case_loss"`

	MaxLoss50PctDrop    float64 `json:"max_loss_50pct_drop"`
	MaxLoss50PctDropPct float64 `json:"max_loss_50pct_drop_pct"`
	RiskRewardRatio     float64 `json:"risk_reward_ratio"`
	LockPeriodWeeks     int     `json:"lock_period_weeks"`
	LockRiskFactor      float64 `json:"lock_risk_factor"`

	IsFavorable  bool    `json:"is_favorable"`
	QualityScore float64 `json:"quality_score"`
}

// Calculate produces the full metric set for a proposed deal. expectedReturn
// may be nil, in which case default scenario percentages apply.
func Calculate(tokenAmount, marketPrice, discount float64, lockPeriod int, expectedReturn *models.ExpectedReturn) Metrics {
	discountedPrice := marketPrice * (1 - discount/100)
	totalCost := tokenAmount * discountedPrice
	marketValue := tokenAmount * marketPrice
	instantEquity := marketValue - totalCost
	instantEquityPct := instantEquity / totalCost * 100

	// Hard floor scenario: 50% drop from current price.
	worstCaseValue50 := marketValue * 0.5
	maxLoss := worstCaseValue50 - totalCost

	scenario := defaultReturn
	if expectedReturn != nil {
		scenario = *expectedReturn
	}

	expectedValue := marketValue * (1 + scenario.Mid/100)
	expectedProfit := expectedValue - totalCost

	bestCaseValue := marketValue * (1 + scenario.High/100)
	bestCaseProfit := bestCaseValue - totalCost

	worstCaseValue := marketValue * (1 + scenario.Low/100)
	worstCaseLoss := worstCaseValue - totalCost

	// The floor prevents the ratio from blowing up when even the worst case
	// is profitable.
	potentialLoss := totalCost * 0.1
	if worstCaseLoss < 0 {
		potentialLoss = math.Abs(worstCaseLoss)
	}
	riskRewardRatio := expectedProfit / potentialLoss

	lockRiskFactor := 1 + float64(lockPeriod-1)*0.1

	return Metrics{
		MarketPrice:     marketPrice,
		DiscountedPrice: discountedPrice,
		DiscountPct:     discount,
		TokenAmount:     tokenAmount,
		TotalCost:       totalCost,
		MarketValue:     marketValue,

		InstantEquity:    instantEquity,
		InstantEquityPct: instantEquityPct,

		BreakEvenDropPct: -discount,

		ExpectedReturnPct: expectedProfit / totalCost * 100,
		ExpectedValue:     expectedValue,
		ExpectedProfit:    expectedProfit,

		BestCaseReturnPct: bestCaseProfit / totalCost * 100,
		BestCaseValue:     bestCaseValue,
		BestCaseProfit:    bestCaseProfit,

		WorstCaseReturnPct: worstCaseLoss / totalCost * 100,
		WorstCaseValue:     worstCaseValue,
		WorstCaseLoss:      worstCaseLoss,

		MaxLoss50PctDrop:    maxLoss,
		MaxLoss50PctDropPct: maxLoss / totalCost * 100,
		RiskRewardRatio:     math.Round(riskRewardRatio*100) / 100,
		LockPeriodWeeks:     lockPeriod,
		LockRiskFactor:      lockRiskFactor,

		IsFavorable:  riskRewardRatio >= 1.5 && instantEquityPct >= 10,
		QualityScore: math.Min(10, (riskRewardRatio*2+instantEquityPct/5)/2),
	}
}

// DiscountSuggestion 折扣建议
type DiscountSuggestion struct {
	SuggestedDiscount float64 `json:"suggested_discount"`
	MinRecommended    float64 `json:"min_recommended"`
	MaxRecommended    float64 `json:"max_recommended"`
	Reasoning         string  `json:"reasoning"`
}

// SuggestDiscount maps lock period, risk score and a 30-day volatility proxy
// to a recommended discount percentage, clamped to [5,35]. Purely advisory.
func SuggestDiscount(lockPeriod int, riskScore, volatility30d float64) DiscountSuggestion {
	var base float64
	switch lockPeriod {
	case 1:
		base = 5
	case 4:
		base = 12
	case 8:
		base = 20
	default:
		base = 10
	}

	riskAdjustment := (riskScore - 5) * 1.5

	var volAdjustment float64
	switch {
	case volatility30d > 30:
		volAdjustment = 5
	case volatility30d > 20:
		volAdjustment = 3
	case volatility30d < 10:
		volAdjustment = -2
	}

	suggested := base + riskAdjustment + volAdjustment
	suggested = math.Max(5, math.Min(35, suggested))

	return DiscountSuggestion{
		SuggestedDiscount: round1(suggested),
		MinRecommended:    round1(math.Max(5, suggested-5)),
		MaxRecommended:    round1(math.Min(40, suggested+5)),
		Reasoning: fmt.Sprintf("Based on %d-week lock, risk score of %.1f/10, and %.1f%% monthly volatility",
			lockPeriod, riskScore, volatility30d),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
