package models

// Recommendation tiers, from best to worst.
const (
	RecommendationStrongBuy   = "STRONG_BUY"
	RecommendationBuy         = "BUY"
	RecommendationHold        = "HOLD"
	RecommendationHighRisk    = "HIGH_RISK"
	RecommendationExtremeRisk = "EXTREME_RISK"
)

// ScoreBreakdown 五维评分卡，全部限制在 [0,10]
type ScoreBreakdown struct {
	Technical   float64 `json:"technical"`
	Risk        float64 `json:"risk"` // higher = worse
	Sentiment   float64 `json:"sentiment"`
	OnChain     float64 `json:"on_chain"`
	Fundamental float64 `json:"fundamental"`
	Overall     float64 `json:"overall"`
}

// ExpectedReturn low/mid/high 收益预测（百分比）
type ExpectedReturn struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// TokenAnalysis is the score report produced once per analysis. The numeric
// fields are deterministic functions of the snapshot and lock period; only
// Reasoning and KeyRisks may come from a narrator.
type TokenAnalysis struct {
	TokenID        string         `json:"token_id"`
	TokenName      string         `json:"token_name"`
	TokenSymbol    string         `json:"token_symbol"`
	CurrentPrice   float64        `json:"current_price"`
	MarketCap      float64        `json:"market_cap,omitempty"`
	Scores         ScoreBreakdown `json:"scores"`
	Recommendation string         `json:"recommendation"`
	ExpectedReturn ExpectedReturn `json:"expected_return"`
	KeyRisks       []string       `json:"key_risks"`
	Reasoning      string         `json:"reasoning"`
	Sparkline7d    []float64      `json:"sparkline_in_7d,omitempty"`
	PriceHistory1Y []float64      `json:"price_history_1y"`
	Image          string         `json:"image,omitempty"`
}
