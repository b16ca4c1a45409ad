package models

import "time"

// MarketSnapshot 代币市场快照（单次请求内不可变）
type MarketSnapshot struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Symbol            string  `json:"symbol"`
	CurrentPrice      float64 `json:"current_price"`
	MarketCap         float64 `json:"market_cap"`
	MarketCapRank     int     `json:"market_cap_rank"`
	FullyDilutedVal   float64 `json:"fully_diluted_valuation"`
	CirculatingSupply float64 `json:"circulating_supply"`
	TotalSupply       float64 `json:"total_supply"`
	TotalVolume       float64 `json:"total_volume"`
	PriceChange24h    float64 `json:"price_change_percentage_24h"`
	PriceChange7d     float64 `json:"price_change_percentage_7d"`
	PriceChange30d    float64 `json:"price_change_percentage_30d"`
	ATH               float64 `json:"ath"`
	ATHChangePct      float64 `json:"ath_change_percentage"`
	Image             string  `json:"image,omitempty"`

	DeveloperData *DeveloperData `json:"developer_data,omitempty"`
	CommunityData *CommunityData `json:"community_data,omitempty"`

	Sparkline7d []float64 `json:"sparkline_in_7d,omitempty"`
}

// DeveloperData Github活跃度指标
type DeveloperData struct {
	Commits4Weeks int `json:"commit_count_4_weeks"`
	Stars         int `json:"stars"`
}

// CommunityData 社区规模指标
type CommunityData struct {
	TwitterFollowers int `json:"twitter_followers"`
	TelegramUsers    int `json:"telegram_channel_user_count"`
}

// Candle is a single OHLC bar. Series are expected in chronological order;
// scorers sort defensively before computing indicators.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// TokenRef 代币搜索/热榜条目
type TokenRef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank,omitempty"`
	Thumb         string `json:"thumb,omitempty"`
}
