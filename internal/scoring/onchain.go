package scoring

import (
	"fmt"

	"github.com/riftlabs/riftotc/internal/models"
)

// OnChainScorer computes a 0-10 activity proxy score from the
// volume/market-cap ratio and holder distribution inferred from rank. Without
// direct chain data these proxies capture real transaction activity well
// enough for short-lock deals.
type OnChainScorer struct {
	snapshot *models.MarketSnapshot
}

// OnChainResult 链上活跃度评分结果
type OnChainResult struct {
	Score   float64  `json:"score"`
	Details []string `json:"details"`
}

func NewOnChainScorer(snapshot *models.MarketSnapshot) *OnChainScorer {
	return &OnChainScorer{snapshot: snapshot}
}

func (o *OnChainScorer) Score() OnChainResult {
	score := 5.0
	var details []string

	mcap := o.snapshot.MarketCap
	volume := o.snapshot.TotalVolume

	if mcap > 0 {
		ratio := volume / mcap
		switch {
		case ratio > 0.15:
			score += 2.0
			details = append(details, fmt.Sprintf("High trading activity (Vol/MCap: %.1f%%)", ratio*100))
		case ratio > 0.05:
			score += 1.0
			details = append(details, "Healthy on-chain transaction volume")
		case ratio < 0.01:
			score -= 2.0
			details = append(details, fmt.Sprintf("Concerningly low activity (Vol/MCap: %.1f%%)", ratio*100))
		}
	} else {
		// New or unranked token, judge by raw volume.
		if volume > 100_000 {
			score += 0.5
		} else {
			score -= 1.0
		}
	}

	// Larger projects typically have more distributed holder bases.
	if rank := o.snapshot.MarketCapRank; rank > 0 {
		if rank <= 100 {
			score += 1.0
			details = append(details, "Likely distributed holder base (Major Cap)")
		} else if rank > 500 {
			score -= 1.0
			details = append(details, "Risk of holder concentration")
		}
	}

	return OnChainResult{
		Score:   round1(clamp(score, 0, 10)),
		Details: details,
	}
}
