package dealcalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riftlabs/riftotc/internal/models"
)

func TestCalculate(t *testing.T) {
	t.Run("typical four week deal", func(t *testing.T) {
		// Seller offers 10k tokens at 6.38 after a 15% discount.
		marketPrice := 6.38 / 0.85
		m := Calculate(10_000, marketPrice, 15, 4, nil)

		assert.InDelta(t, 63_800, m.TotalCost, 1)
		assert.InDelta(t, 75_059, m.MarketValue, 1)
		assert.InDelta(t, 11_259, m.InstantEquity, 1)
		assert.InDelta(t, 17.6, m.InstantEquityPct, 0.1)
		assert.InDelta(t, 6.38, m.DiscountedPrice, 0.001)
		assert.Equal(t, -15.0, m.BreakEvenDropPct)
		assert.Equal(t, 4, m.LockPeriodWeeks)
		assert.InDelta(t, 1.3, m.LockRiskFactor, 0.001)
		assert.True(t, m.IsFavorable)
	})

	t.Run("default scenarios apply without a projection", func(t *testing.T) {
		m := Calculate(100, 10, 20, 1, nil)

		// market value 1000, cost 800
		assert.InDelta(t, 1200, m.ExpectedValue, 0.001) // +20%
		assert.InDelta(t, 1500, m.BestCaseValue, 0.001) // +50%
		assert.InDelta(t, 700, m.WorstCaseValue, 0.001) // -30%
		assert.InDelta(t, 400, m.ExpectedProfit, 0.001)
		assert.InDelta(t, -100, m.WorstCaseLoss, 0.001)
		assert.InDelta(t, -300, m.MaxLoss50PctDrop, 0.001)
		// 400 / 100
		assert.InDelta(t, 4.0, m.RiskRewardRatio, 0.001)
	})

	t.Run("custom projection overrides defaults", func(t *testing.T) {
		er := &models.ExpectedReturn{Low: -42, Mid: -3, High: 56}
		m := Calculate(100, 10, 20, 8, er)

		assert.InDelta(t, 970, m.ExpectedValue, 0.001)
		assert.InDelta(t, 1560, m.BestCaseValue, 0.001)
		assert.InDelta(t, 580, m.WorstCaseValue, 0.001)
	})

	t.Run("profitable worst case uses the cost floor", func(t *testing.T) {
		// At a 40% discount even a 30% drop stays profitable, so the loss
		// denominator falls back to 10% of cost.
		m := Calculate(100, 10, 40, 4, nil)

		// cost 600, worst case 700 - 600 = +100, expected profit 600
		assert.Greater(t, m.WorstCaseLoss, 0.0)
		assert.InDelta(t, 10.0, m.RiskRewardRatio, 0.001) // 600 / 60
	})

	t.Run("zero discount is never favorable", func(t *testing.T) {
		m := Calculate(100, 10, 0, 1, nil)

		assert.Zero(t, m.InstantEquity)
		assert.False(t, m.IsFavorable)
	})

	t.Run("quality score is capped at ten", func(t *testing.T) {
		m := Calculate(1000, 100, 45, 8, &models.ExpectedReturn{Low: 10, Mid: 200, High: 400})
		assert.Equal(t, 10.0, m.QualityScore)
	})
}

// Instant equity percentage depends only on the discount: d/(100-d)*100.
func TestCalculate_EquityIdentity(t *testing.T) {
	tests := []struct {
		discount float64
		want     float64
	}{
		{10, 11.1111},
		{15, 17.6471},
		{25, 33.3333},
		{50, 100.0},
	}

	for _, tt := range tests {
		m := Calculate(5_000, 2.5, tt.discount, 4, nil)
		assert.InDelta(t, tt.want, m.InstantEquityPct, 0.001, "discount %.0f", tt.discount)
	}
}

// With amount, price and discount fixed, raising the expected mid return only
// raises the risk/reward ratio, and the quality score must follow.
func TestCalculate_QualityFollowsRiskReward(t *testing.T) {
	mids := []float64{-10, 0, 10, 25, 40, 60, 120}

	prevRatio := -math.MaxFloat64
	prevQuality := -math.MaxFloat64
	for _, mid := range mids {
		m := Calculate(1_000, 5, 15, 4, &models.ExpectedReturn{Low: -30, Mid: mid, High: 80})

		assert.GreaterOrEqual(t, m.RiskRewardRatio, prevRatio, "mid %.0f", mid)
		assert.GreaterOrEqual(t, m.QualityScore, prevQuality, "mid %.0f", mid)
		assert.InDelta(t, 17.6471, m.InstantEquityPct, 0.001, "equity depends only on the discount")

		prevRatio = m.RiskRewardRatio
		prevQuality = m.QualityScore
	}
}

func TestSuggestDiscount(t *testing.T) {
	tests := []struct {
		name          string
		lockPeriod    int
		riskScore     float64
		volatility30d float64
		want          float64
		wantMin       float64
		wantMax       float64
	}{
		{
			name:       "neutral four week deal",
			lockPeriod: 4, riskScore: 5, volatility30d: 15,
			want: 12, wantMin: 7, wantMax: 17,
		},
		{
			name:       "risky volatile eight week deal",
			lockPeriod: 8, riskScore: 9, volatility30d: 40,
			want: 31, wantMin: 26, wantMax: 36,
		},
		{
			name:       "calm short lock hits the floor",
			lockPeriod: 1, riskScore: 0, volatility30d: 5,
			want: 5, wantMin: 5, wantMax: 10,
		},
		{
			name:       "moderate volatility bump",
			lockPeriod: 1, riskScore: 5, volatility30d: 25,
			want: 8, wantMin: 5, wantMax: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SuggestDiscount(tt.lockPeriod, tt.riskScore, tt.volatility30d)

			assert.Equal(t, tt.want, s.SuggestedDiscount)
			assert.Equal(t, tt.wantMin, s.MinRecommended)
			assert.Equal(t, tt.wantMax, s.MaxRecommended)
			assert.NotEmpty(t, s.Reasoning)
		})
	}
}
