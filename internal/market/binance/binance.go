// Package binance provides a fallback candle source built on Binance spot
// klines, for tokens whose OHLC history is missing from the primary provider
// but that trade on a USDT pair.
package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/riftlabs/riftotc/internal/models"
)

type CandleSource struct {
	client *binance.Client
}

// NewCandleSource creates a candle source over the public klines endpoint.
// API keys are not required for market data.
func NewCandleSource() *CandleSource {
	return &CandleSource{client: binance.NewClient("", "")}
}

func (s *CandleSource) Name() string {
	return "binance"
}

// pairSymbol maps a token symbol onto its Binance USDT spot pair.
func pairSymbol(tokenSymbol string) string {
	return strings.ToUpper(tokenSymbol) + "USDT"
}

// Candles implements market.CandleSource with daily klines.
func (s *CandleSource) Candles(ctx context.Context, ref models.TokenRef, days int) ([]models.Candle, error) {
	klines, err := s.client.NewKlinesService().
		Symbol(pairSymbol(ref.Symbol)).
		Interval("1d").
		Limit(days).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch klines: %w", err)
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		open, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse open: %w", err)
		}
		high, err := strconv.ParseFloat(k.High, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse high: %w", err)
		}
		low, err := strconv.ParseFloat(k.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse low: %w", err)
		}
		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close: %w", err)
		}

		candles = append(candles, models.Candle{
			Timestamp: time.UnixMilli(k.OpenTime).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
		})
	}
	return candles, nil
}
