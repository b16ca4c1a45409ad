package scoring

import (
	"fmt"

	"github.com/riftlabs/riftotc/internal/models"
)

// FundamentalScorer computes a 0-10 project health score from developer
// activity (40%), community strength (30%) and market presence (30%).
// Missing developer or community data defaults to a neutral 5.0 rather than
// penalizing the token.
type FundamentalScorer struct {
	snapshot   *models.MarketSnapshot
	isTrending bool
}

// FundamentalResult 基本面评分结果
type FundamentalResult struct {
	Score      float64               `json:"score"`
	Components FundamentalComponents `json:"components"`
	Details    []string              `json:"details"`
}

type FundamentalComponents struct {
	DevScore       float64 `json:"dev_score"`
	CommunityScore float64 `json:"community_score"`
	MarketScore    float64 `json:"market_score"`
}

func NewFundamentalScorer(snapshot *models.MarketSnapshot, isTrending bool) *FundamentalScorer {
	return &FundamentalScorer{snapshot: snapshot, isTrending: isTrending}
}

// developerActivity scores Github commits and stars, 0-10.
func (f *FundamentalScorer) developerActivity() float64 {
	dev := f.snapshot.DeveloperData
	if dev == nil {
		return 5.0
	}

	var score float64
	switch {
	case dev.Commits4Weeks > 100:
		score += 5
	case dev.Commits4Weeks > 30:
		score += 3
	case dev.Commits4Weeks > 0:
		score += 1
	}

	switch {
	case dev.Stars > 5000:
		score += 5
	case dev.Stars > 1000:
		score += 3
	case dev.Stars > 100:
		score += 1
	}

	return clamp(score, 0, 10)
}

// communityStrength scores Twitter and Telegram reach, 0-10. A ghost-town
// Twitter subtracts points before the floor is applied.
func (f *FundamentalScorer) communityStrength() float64 {
	comm := f.snapshot.CommunityData
	if comm == nil {
		return 5.0
	}

	var score float64
	switch {
	case comm.TwitterFollowers > 500_000:
		score += 6
	case comm.TwitterFollowers > 100_000:
		score += 4
	case comm.TwitterFollowers > 10_000:
		score += 2
	case comm.TwitterFollowers > 1_000:
		score += 1
	default:
		score -= 2
	}

	switch {
	case comm.TelegramUsers > 10_000:
		score += 4
	case comm.TelegramUsers > 2_000:
		score += 2
	}

	return clamp(score, 0, 10)
}

// marketPresence scores rank safety plus a trending bonus, 0-10.
func (f *FundamentalScorer) marketPresence() float64 {
	rank := f.snapshot.MarketCapRank
	if rank <= 0 {
		return 2.0
	}

	var score float64
	switch {
	case rank <= 20:
		score = 9.0
	case rank <= 100:
		score = 7.0
	case rank <= 500:
		score = 5.0
	default:
		score = 3.0
	}

	if f.isTrending {
		score += 2.0
	}

	return clamp(score, 0, 10)
}

func (f *FundamentalScorer) Score() FundamentalResult {
	devScore := f.developerActivity()
	commScore := f.communityStrength()
	marketScore := f.marketPresence()

	final := devScore*0.4 + commScore*0.3 + marketScore*0.3

	var details []string
	if f.isTrending {
		details = append(details, "Trending on CoinGecko (+2 Hype Bonus)")
	}
	if devScore > 7 {
		details = append(details, fmt.Sprintf("Strong Development Activity (Score: %.1f)", devScore))
	} else if devScore < 3 {
		details = append(details, "Weak Development Activity")
	}
	if commScore > 8 {
		details = append(details, "Huge Community Support")
	} else if commScore < 3 {
		details = append(details, "Small/Inactive Community")
	}

	return FundamentalResult{
		Score: round1(clamp(final, 0, 10)),
		Components: FundamentalComponents{
			DevScore:       round1(devScore),
			CommunityScore: round1(commScore),
			MarketScore:    round1(marketScore),
		},
		Details: details,
	}
}
