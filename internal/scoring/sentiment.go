package scoring

import (
	"fmt"

	"github.com/riftlabs/riftotc/internal/models"
)

// SentimentScorer computes a 0-10 market mood score from short-term momentum,
// market rank and trending status.
type SentimentScorer struct {
	snapshot   *models.MarketSnapshot
	isTrending bool
}

// SentimentResult 情绪评分结果
type SentimentResult struct {
	Score   float64  `json:"score"`
	Details []string `json:"details"`
}

func NewSentimentScorer(snapshot *models.MarketSnapshot, isTrending bool) *SentimentScorer {
	return &SentimentScorer{snapshot: snapshot, isTrending: isTrending}
}

func (s *SentimentScorer) Score() SentimentResult {
	score := 5.0
	var details []string

	// 7-day momentum as a proxy for public mood.
	price7d := s.snapshot.PriceChange7d
	switch {
	case price7d > 10:
		score += 1.5
		details = append(details, fmt.Sprintf("Strong 7-day momentum (+%.1f%%)", price7d))
	case price7d > 0:
		score += 0.5
		details = append(details, "Positive weekly momentum")
	case price7d < -15:
		score -= 2.0
		details = append(details, fmt.Sprintf("High fear / Sell-off (%.1f%%)", price7d))
	case price7d < -5:
		score -= 1.0
		details = append(details, "Negative weekly momentum")
	}

	// Market rank as a proxy for awareness.
	if rank := s.snapshot.MarketCapRank; rank > 0 {
		if rank <= 50 {
			score += 1.0
			details = append(details, "High market awareness (Top 50)")
		} else if rank > 200 {
			score -= 0.5
			details = append(details, "Lower market visibility")
		}
	}

	if s.isTrending {
		score += 1.5
		details = append(details, "Trending on CoinGecko (Social Hype)")
	}

	return SentimentResult{
		Score:   round1(clamp(score, 0, 10)),
		Details: details,
	}
}
