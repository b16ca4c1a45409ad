package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riftlabs/riftotc/internal/models"
)

func TestOverall(t *testing.T) {
	tests := []struct {
		name                                           string
		technical, risk, sentiment, chain, fundamental float64
		want                                           float64
	}{
		{"all neutral", 5, 5, 5, 5, 5, 5.0},
		{"perfect deal", 10, 0, 10, 10, 10, 10.0},
		{"worst deal", 0, 10, 0, 0, 0, 0.0},
		// 8*0.3 + (10-2)*0.3 + 7*0.2 + 6*0.15 + 5*0.05 = 7.35 -> 7.4
		{"strong mixed", 8, 2, 7, 6, 5, 7.4},
		// 4*0.3 + (10-7)*0.3 + 5*0.2 + 5*0.15 + 5*0.05 = 4.1
		{"weak mixed", 4, 7, 5, 5, 5, 4.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.technical, tt.risk, tt.sentiment, tt.chain, tt.fundamental)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		overall float64
		want    string
	}{
		{10.0, models.RecommendationStrongBuy},
		{7.5, models.RecommendationStrongBuy}, // boundary resolves upward
		{7.4, models.RecommendationBuy},
		{6.0, models.RecommendationBuy},
		{5.9, models.RecommendationHold},
		{4.5, models.RecommendationHold},
		{4.4, models.RecommendationHighRisk},
		{3.0, models.RecommendationHighRisk},
		{2.9, models.RecommendationExtremeRisk},
		{0.0, models.RecommendationExtremeRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommendation(tt.overall), "overall %.1f", tt.overall)
	}
}

func TestProjectReturn(t *testing.T) {
	t.Run("quiet market hits the floors", func(t *testing.T) {
		er := ProjectReturn(10, 0, 1)
		assert.Equal(t, -15.0, er.Low)
		assert.Equal(t, 6.0, er.Mid)
		assert.Equal(t, 20.0, er.High)
	})

	t.Run("volatile market scales with lock", func(t *testing.T) {
		// lockScale 1.4: low = -120/4*1.4 = -42, high = 120/3*1.4 = 56
		er := ProjectReturn(-5, 120, 4)
		assert.Equal(t, -42.0, er.Low)
		assert.Equal(t, -3.0, er.Mid)
		assert.Equal(t, 56.0, er.High)
	})

	t.Run("longer lock widens the band", func(t *testing.T) {
		short := ProjectReturn(0, 100, 1)
		long := ProjectReturn(0, 100, 8)

		assert.Less(t, long.Low, short.Low)
		assert.Greater(t, long.High, short.High)
	})
}
