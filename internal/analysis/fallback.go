package analysis

import (
	"fmt"
	"math"

	"github.com/riftlabs/riftotc/internal/models"
)

// fallbackReasoning builds the deterministic templated summary used whenever
// no narrator is configured or the narrator fails.
func fallbackReasoning(snapshot *models.MarketSnapshot, scores models.ScoreBreakdown, lockPeriod int) string {
	volumeStrength := "moderate"
	if snapshot.TotalVolume > snapshot.MarketCap*0.05 {
		volumeStrength = "strong"
	}

	return fmt.Sprintf(
		"Analysis based on %s's recent performance. System score %.1f/10 (technical %.1f, risk %.1f, fundamental %.1f). "+
			"The token shows %+.1f%% 7-day momentum with %s trading volume. "+
			"Consider the %d-week lock period in your risk assessment.",
		snapshot.Name,
		scores.Overall, scores.Technical, scores.Risk, scores.Fundamental,
		snapshot.PriceChange7d, volumeStrength,
		lockPeriod,
	)
}

// fallbackKeyRisks derives up to three deterministic risk notes from the
// snapshot and scorecard.
func fallbackKeyRisks(snapshot *models.MarketSnapshot, scores models.ScoreBreakdown, lockPeriod int) []string {
	var risks []string

	if scores.Risk >= 7 {
		risks = append(risks, "High volatility detected in recent price action")
	}
	if snapshot.MarketCap > 0 && snapshot.MarketCap < 100_000_000 {
		risks = append(risks, "Lower market cap increases manipulation risk")
	}
	if snapshot.ATHChangePct < -70 {
		risks = append(risks, fmt.Sprintf("Token is %.0f%% below ATH", math.Abs(snapshot.ATHChangePct)))
	}
	if lockPeriod >= 4 {
		risks = append(risks, fmt.Sprintf("%d-week lock period increases exposure to market swings", lockPeriod))
	}

	if len(risks) == 0 {
		risks = []string{"Standard market volatility risk", "Crypto market correlation"}
	}
	return capRisks(risks)
}
