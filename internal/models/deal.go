package models

import "time"

// Deal statuses. Transitions only move forward: open→funded→completed,
// open→cancelled. Terminal states have no outgoing edges.
const (
	DealStatusOpen      = "open"
	DealStatusFunded    = "funded"
	DealStatusCompleted = "completed"
	DealStatusCancelled = "cancelled"
)

// ValidLockPeriod reports whether weeks is one of the supported lock periods.
func ValidLockPeriod(weeks int) bool {
	return weeks == 1 || weeks == 4 || weeks == 8
}

// Deal OTC场外交易记录（托管模拟）
type Deal struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	SellerAddress string     `json:"seller_address"`
	BuyerAddress  string     `json:"buyer_address,omitempty"`
	TokenID       string     `json:"token_id"`
	TokenSymbol   string     `json:"token_symbol"`
	TokenAmount   float64    `json:"token_amount"`
	PricePerToken float64    `json:"price_per_token"` // post-discount
	Discount      float64    `json:"discount"`
	LockPeriod    int        `json:"lock_period"` // weeks: 1, 4 or 8
	TotalCost     float64    `json:"total_cost"`
	MarketValue   float64    `json:"market_value"`
	CreatedAt     time.Time  `json:"created_at"`
	FundedAt      *time.Time `json:"funded_at,omitempty"`
	UnlockAt      *time.Time `json:"unlock_at,omitempty"`

	// Analysis is the score report captured at creation, immutable afterwards.
	Analysis *TokenAnalysis `json:"ai_score,omitempty"`
}
