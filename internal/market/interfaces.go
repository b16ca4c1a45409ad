// Package market defines the interfaces the scoring core uses to reach
// external market-data providers. Implementations live in subpackages and
// are injected at startup; the core never looks them up through globals.
package market

import (
	"context"
	"errors"

	"github.com/riftlabs/riftotc/internal/models"
)

var (
	// ErrTokenNotFound is returned when the provider does not know the token.
	ErrTokenNotFound = errors.New("token not found")

	// ErrRateLimited is returned on provider rate limits; callers should
	// retry later rather than treat this as a hard failure.
	ErrRateLimited = errors.New("market data provider rate limit")
)

// Provider 行情数据提供方
type Provider interface {
	// Snapshot fetches the current market snapshot for a token.
	Snapshot(ctx context.Context, tokenID string) (*models.MarketSnapshot, error)

	// Search finds tokens by name or symbol.
	Search(ctx context.Context, query string, limit int) ([]models.TokenRef, error)

	// Trending returns the currently trending token set.
	Trending(ctx context.Context) ([]models.TokenRef, error)
}

// CandleSource supplies daily OHLC history. A missing series is reported as
// an empty slice, not an error; scorers degrade to neutral defaults.
type CandleSource interface {
	Name() string
	Candles(ctx context.Context, ref models.TokenRef, days int) ([]models.Candle, error)
}
