// Package coingecko implements market.Provider and market.CandleSource
// against the CoinGecko v3 API. Snapshots merge the /coins/markets listing
// with the per-coin detail endpoint (developer and community data) and are
// cached for a short TTL to stay inside the free-tier rate limits.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/riftlabs/riftotc/internal/market"
	"github.com/riftlabs/riftotc/internal/models"
	"github.com/riftlabs/riftotc/internal/utils/request"
)

const (
	defaultBaseURL  = "https://api.coingecko.com/api/v3"
	defaultCacheTTL = 60 * time.Second
)

type cacheEntry struct {
	snapshot *models.MarketSnapshot
	fetched  time.Time
}

type Client struct {
	baseURL    string
	httpClient *resty.Client
	cacheTTL   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the shared resty client.
func WithHTTPClient(client *resty.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithCacheTTL overrides the snapshot cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: request.Request,
		cacheTTL:   defaultCacheTTL,
		cache:      make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type marketEntry struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	CurrentPrice      float64  `json:"current_price"`
	MarketCap         float64  `json:"market_cap"`
	MarketCapRank     int      `json:"market_cap_rank"`
	FullyDilutedVal   float64  `json:"fully_diluted_valuation"`
	CirculatingSupply float64  `json:"circulating_supply"`
	TotalSupply       float64  `json:"total_supply"`
	TotalVolume       float64  `json:"total_volume"`
	PriceChange24h    *float64 `json:"price_change_percentage_24h"`
	PriceChange7d     *float64 `json:"price_change_percentage_7d_in_currency"`
	PriceChange30d    *float64 `json:"price_change_percentage_30d_in_currency"`
	ATH               float64  `json:"ath"`
	ATHChangePct      float64  `json:"ath_change_percentage"`
	Image             string   `json:"image"`
	Sparkline7d       *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

type coinDetail struct {
	DeveloperData *struct {
		Commits4Weeks int `json:"commit_count_4_weeks"`
		Stars         int `json:"stars"`
	} `json:"developer_data"`
	CommunityData *struct {
		TwitterFollowers int `json:"twitter_followers"`
		TelegramUsers    int `json:"telegram_channel_user_count"`
	} `json:"community_data"`
}

// Snapshot implements market.Provider.
func (c *Client) Snapshot(ctx context.Context, tokenID string) (*models.MarketSnapshot, error) {
	c.mu.Lock()
	if entry, ok := c.cache[tokenID]; ok && time.Since(entry.fetched) < c.cacheTTL {
		snapshot := *entry.snapshot
		c.mu.Unlock()
		return &snapshot, nil
	}
	c.mu.Unlock()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency":             "usd",
			"ids":                     tokenID,
			"order":                   "market_cap_desc",
			"sparkline":               "true",
			"price_change_percentage": "24h,7d,30d",
		}).
		Get(c.baseURL + "/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, market.ErrRateLimited
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var entries []marketEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(entries) == 0 {
		return nil, market.ErrTokenNotFound
	}

	entry := entries[0]
	snapshot := &models.MarketSnapshot{
		ID:                entry.ID,
		Name:              entry.Name,
		Symbol:            entry.Symbol,
		CurrentPrice:      entry.CurrentPrice,
		MarketCap:         entry.MarketCap,
		MarketCapRank:     entry.MarketCapRank,
		FullyDilutedVal:   entry.FullyDilutedVal,
		CirculatingSupply: entry.CirculatingSupply,
		TotalSupply:       entry.TotalSupply,
		TotalVolume:       entry.TotalVolume,
		PriceChange24h:    deref(entry.PriceChange24h),
		PriceChange7d:     deref(entry.PriceChange7d),
		PriceChange30d:    deref(entry.PriceChange30d),
		ATH:               entry.ATH,
		ATHChangePct:      entry.ATHChangePct,
		Image:             entry.Image,
	}
	if entry.Sparkline7d != nil {
		snapshot.Sparkline7d = entry.Sparkline7d.Price
	}

	// Developer and community data need the slower detail endpoint; a
	// failure there degrades the fundamental score to neutral, it does not
	// fail the snapshot.
	if detail, err := c.fetchDetail(ctx, tokenID); err == nil && detail != nil {
		if detail.DeveloperData != nil {
			snapshot.DeveloperData = &models.DeveloperData{
				Commits4Weeks: detail.DeveloperData.Commits4Weeks,
				Stars:         detail.DeveloperData.Stars,
			}
		}
		if detail.CommunityData != nil {
			snapshot.CommunityData = &models.CommunityData{
				TwitterFollowers: detail.CommunityData.TwitterFollowers,
				TelegramUsers:    detail.CommunityData.TelegramUsers,
			}
		}
	}

	c.mu.Lock()
	c.cache[tokenID] = cacheEntry{snapshot: snapshot, fetched: time.Now()}
	c.mu.Unlock()

	result := *snapshot
	return &result, nil
}

func (c *Client) fetchDetail(ctx context.Context, tokenID string) (*coinDetail, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"localization":   "false",
			"tickers":        "false",
			"market_data":    "false",
			"community_data": "true",
			"developer_data": "true",
		}).
		Get(c.baseURL + "/coins/" + tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, market.ErrRateLimited
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var detail coinDetail
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &detail, nil
}

// Search implements market.Provider.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.TokenRef, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		Get(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, market.ErrRateLimited
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Coins []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank int    `json:"market_cap_rank"`
			Thumb         string `json:"thumb"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if limit <= 0 || limit > len(result.Coins) {
		limit = len(result.Coins)
	}

	refs := make([]models.TokenRef, 0, limit)
	for _, coin := range result.Coins[:limit] {
		refs = append(refs, models.TokenRef{
			ID:            coin.ID,
			Name:          coin.Name,
			Symbol:        coin.Symbol,
			MarketCapRank: coin.MarketCapRank,
			Thumb:         coin.Thumb,
		})
	}
	return refs, nil
}

// Trending implements market.Provider.
func (c *Client) Trending(ctx context.Context) ([]models.TokenRef, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.baseURL + "/search/trending")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, market.ErrRateLimited
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Coins []struct {
			Item struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				Symbol        string `json:"symbol"`
				MarketCapRank int    `json:"market_cap_rank"`
				Thumb         string `json:"thumb"`
			} `json:"item"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	coins := result.Coins
	if len(coins) > 10 {
		coins = coins[:10]
	}

	refs := make([]models.TokenRef, 0, len(coins))
	for _, coin := range coins {
		refs = append(refs, models.TokenRef{
			ID:            coin.Item.ID,
			Name:          coin.Item.Name,
			Symbol:        coin.Item.Symbol,
			MarketCapRank: coin.Item.MarketCapRank,
			Thumb:         coin.Item.Thumb,
		})
	}
	return refs, nil
}

func (c *Client) Name() string {
	return "coingecko"
}

// Candles implements market.CandleSource using the OHLC endpoint. A missing
// series comes back as an empty slice.
func (c *Client) Candles(ctx context.Context, ref models.TokenRef, days int) ([]models.Candle, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"days":        strconv.Itoa(days),
		}).
		Get(c.baseURL + "/coins/" + ref.ID + "/ohlc")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, market.ErrRateLimited
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	// Wire format: [[timestamp_ms, open, high, low, close], ...]
	var raw [][]float64
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, bar := range raw {
		if len(bar) < 5 {
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: time.UnixMilli(int64(bar[0])).UTC(),
			Open:      bar[1],
			High:      bar[2],
			Low:       bar[3],
			Close:     bar[4],
		})
	}
	return candles, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
